package templates_test

import (
	"errors"
	"strings"
	"testing"

	"exifdeck/internal/services"
	"exifdeck/internal/templates"
)

func TestParseAssignments(t *testing.T) {
	text := `
# studio defaults
EXIF:Artist = Alice Smith
XMP:Rating=5

IPTC:Keywords=a, b, c
EXIF:Copyright=
`
	got, err := templates.ParseAssignments(text)
	if err != nil {
		t.Fatal(err)
	}
	want := []struct{ key, value string }{
		{"EXIF:Artist", "Alice Smith"},
		{"XMP:Rating", "5"},
		{"IPTC:Keywords", "a, b, c"},
		{"EXIF:Copyright", ""},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d assignments, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Key.String() != w.key || got[i].Value.Raw() != w.value {
			t.Fatalf("assignment %d = %s=%q, want %s=%q", i, got[i].Key, got[i].Value.Raw(), w.key, w.value)
		}
	}

	if out := templates.FormatAssignments(got); !strings.HasPrefix(out, "EXIF:Artist=Alice Smith\n") {
		t.Fatalf("format = %q", out)
	}
}

func TestParseAssignmentsErrors(t *testing.T) {
	cases := []string{
		"EXIF:Artist",
		":Artist=x",
		"EXIF:Art ist=x",
	}
	for _, tc := range cases {
		_, err := templates.ParseAssignments("# ok\n" + tc)
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("%q: expected validation error, got %v", tc, err)
		}
		if !strings.Contains(err.Error(), "line 2") {
			t.Fatalf("%q: error should name the line: %v", tc, err)
		}
	}
}
