package tags

import "testing"

func TestParseKey(t *testing.T) {
	cases := []struct {
		in      string
		want    Key
		wantErr bool
	}{
		{in: "EXIF:DateTimeOriginal", want: Key{Group: "EXIF", Name: "DateTimeOriginal"}},
		{in: " XMP-dc:Subject ", want: Key{Group: "XMP-dc", Name: "Subject"}},
		{in: "Artist", want: Key{Name: "Artist"}},
		{in: "EXIF:", wantErr: true},
		{in: ":Artist", wantErr: true},
		{in: "EXIF:Bad Name", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseKey(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseKey(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseKey(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestKeyStringRoundTrip(t *testing.T) {
	for _, s := range []string{"EXIF:Artist", "Composite:ImageSize", "Title"} {
		key := MustParseKey(s)
		if key.String() != s {
			t.Fatalf("round trip of %q produced %q", s, key.String())
		}
	}
}

func TestKeyEqualFold(t *testing.T) {
	if !MustParseKey("exif:artist").EqualFold(MustParseKey("EXIF:Artist")) {
		t.Fatal("keys differing only in case should fold equal")
	}
	if MustParseKey("XMP:Artist").EqualFold(MustParseKey("EXIF:Artist")) {
		t.Fatal("different groups must not fold equal")
	}
}

func TestReadOnlyGroups(t *testing.T) {
	for _, s := range []string{"File:FileSize", "Composite:ImageSize", "ExifTool:ExifToolVersion", "System:FileName", "file:FileSize"} {
		if !MustParseKey(s).ReadOnly() {
			t.Fatalf("expected %s to be read-only", s)
		}
	}
	if MustParseKey("EXIF:Artist").ReadOnly() {
		t.Fatal("EXIF:Artist must be writable")
	}
}
