package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"exifdeck/internal/services"
)

// ExiftoolCommand is the executable name looked up on PATH.
const ExiftoolCommand = "exiftool"

// ExiftoolFallbacks lists install locations tried when exiftool is not on PATH.
var ExiftoolFallbacks = []string{
	"/usr/local/bin/exiftool",
	"/opt/homebrew/bin/exiftool",
	"/usr/bin/exiftool",
}

// Requirement defines an external dependency exifdeck relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// ResolveExiftool returns the executable to run. A configured value is used
// as-is when it resolves; otherwise PATH and then ExiftoolFallbacks are
// searched. Failure matches services.ErrToolNotFound.
func ResolveExiftool(configured string) (string, error) {
	return resolve(configured, ExiftoolCommand, ExiftoolFallbacks)
}

func resolve(configured, command string, fallbacks []string) (string, error) {
	if configured = strings.TrimSpace(configured); configured != "" {
		path, err := exec.LookPath(configured)
		if err != nil {
			return "", services.Wrap(services.ErrToolNotFound, "deps", "resolve",
				fmt.Sprintf("configured binary %q not found", configured), err)
		}
		return path, nil
	}
	if path, err := exec.LookPath(command); err == nil {
		return path, nil
	}
	for _, candidate := range fallbacks {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() || info.Mode().Perm()&0o111 == 0 {
			continue
		}
		return candidate, nil
	}
	return "", services.Wrap(services.ErrToolNotFound, "deps", "resolve",
		fmt.Sprintf("%s not found on PATH or in %s", command, strings.Join(fallbacks, ", ")), nil)
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = path
		status.Available = true
		results = append(results, status)
	}
	return results
}

// ExiftoolRequirement describes the metadata tool for CheckBinaries, using
// the resolved location when discovery succeeds.
func ExiftoolRequirement(configured string) Requirement {
	command := strings.TrimSpace(configured)
	if resolved, err := ResolveExiftool(configured); err == nil {
		command = resolved
	} else if command == "" {
		command = ExiftoolCommand
	}
	return Requirement{
		Name:        "ExifTool",
		Command:     command,
		Description: "Reads and writes embedded file metadata",
	}
}
