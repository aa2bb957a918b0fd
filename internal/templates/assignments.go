package templates

import (
	"bufio"
	"fmt"
	"strings"

	"exifdeck/internal/services"
	"exifdeck/internal/tags"
)

// ParseAssignments reads "Group:Tag=Value" lines. Blank lines and lines
// starting with '#' are ignored; an empty value is allowed.
func ParseAssignments(text string) ([]Assignment, error) {
	var out []Assignment
	scanner := bufio.NewScanner(strings.NewReader(text))
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		assignment, err := ParseAssignment(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, assignment)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read assignments: %w", err)
	}
	return out, nil
}

// ParseAssignment parses a single "Group:Tag=Value" expression.
func ParseAssignment(s string) (Assignment, error) {
	keyText, value, ok := strings.Cut(s, "=")
	if !ok {
		return Assignment{}, services.Wrap(services.ErrValidation, "templates", "parse",
			fmt.Sprintf("%q is not a Group:Tag=Value assignment", s), nil)
	}
	key, err := tags.ParseKey(keyText)
	if err != nil {
		return Assignment{}, services.Wrap(services.ErrValidation, "templates", "parse", "invalid key", err)
	}
	return Assignment{Key: key, Value: tags.ParseValue(strings.TrimSpace(value))}, nil
}

// FormatAssignments renders entries in the text form ParseAssignments reads.
func FormatAssignments(entries []Assignment) string {
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(entry.Key.String())
		b.WriteByte('=')
		b.WriteString(entry.Value.Raw())
		b.WriteByte('\n')
	}
	return b.String()
}
