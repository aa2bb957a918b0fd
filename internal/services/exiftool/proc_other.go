//go:build !unix

package exiftool

import "os/exec"

// configureProcess keeps exec.CommandContext's default kill on platforms
// without process groups.
func configureProcess(*exec.Cmd) {}
