package dateshift

import (
	"errors"
	"testing"

	"exifdeck/internal/document"
	"exifdeck/internal/services"
	"exifdeck/internal/tags"
)

func loadDoc(t *testing.T, pairs ...string) *document.Document {
	t.Helper()
	var entries []tags.Entry
	for i := 0; i+1 < len(pairs); i += 2 {
		entry, err := tags.NewEntry(pairs[i], pairs[i+1])
		if err != nil {
			t.Fatal(err)
		}
		entries = append(entries, entry)
	}
	doc, err := document.Load("/photos/a.jpg", entries)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func rawTag(t *testing.T, doc *document.Document, key string) string {
	t.Helper()
	entry, ok := doc.Tag(tags.MustParseKey(key))
	if !ok {
		t.Fatalf("tag %s missing", key)
	}
	return entry.Value.Raw()
}

func TestShiftOneDay(t *testing.T) {
	doc := loadDoc(t, "EXIF:DateTimeOriginal", "2024:01:01 10:00:00")

	report := Shift(doc, Delta{Days: 1}, nil)

	if got := rawTag(t, doc, "EXIF:DateTimeOriginal"); got != "2024:01:02 10:00:00" {
		t.Fatalf("shifted value = %q", got)
	}
	if len(report.Shifted) != 1 || len(report.Skipped) != 0 {
		t.Fatalf("report = %+v", report)
	}
	diff := doc.Diff()
	if len(diff) != 1 || diff[0].Kind != document.Modified {
		t.Fatalf("diff = %+v", diff)
	}
}

func TestShiftRoundTripIsExact(t *testing.T) {
	values := []string{
		"2024:01:01 10:00:00",
		"2024:02:29",
		"2023-12-31T23:59",
		"1999/06/15 00:00:01",
		"2024:03:10 01:30:00+02:00",
		"2024-11-03T01:30:00Z",
		"1970:01:01 00:00:00",
	}
	deltas := []Delta{
		{Days: 1},
		{Days: -400, Hours: 7},
		{Hours: 2, Minutes: 30, Seconds: 45},
		{Seconds: -59},
		{Minutes: 1},
		{Days: 3650},
	}
	for _, v := range values {
		for _, d := range deltas {
			doc := loadDoc(t, "XMP:CreateDate", v)
			Shift(doc, d, nil)
			Shift(doc, d.Negate(), nil)
			if got := rawTag(t, doc, "XMP:CreateDate"); got != v {
				t.Fatalf("%q shifted by %s and back = %q", v, d, got)
			}
			if !doc.Diff().Empty() {
				t.Fatalf("%q by %s: round trip left a diff", v, d)
			}
		}
	}
}

func TestShiftKeepsLayoutAndPrecision(t *testing.T) {
	cases := []struct {
		in    string
		delta Delta
		want  string
	}{
		{"2024-01-31", Delta{Days: 1, Hours: 23}, "2024-02-01"},
		{"2024/12/31 23:30", Delta{Minutes: 45, Seconds: 30}, "2025/01/01 00:15"},
		{"2024:06:01 12:00:00-0700", Delta{Hours: -13}, "2024:05:31 23:00:00-0700"},
	}
	for _, tc := range cases {
		got, err := ShiftValue(tc.in, tc.delta)
		if err != nil {
			t.Fatalf("ShiftValue(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ShiftValue(%q, %s) = %q, want %q", tc.in, tc.delta, got, tc.want)
		}
	}
}

func TestShiftCollectsInvalidDates(t *testing.T) {
	doc := loadDoc(t,
		"EXIF:DateTimeOriginal", "2024:01:01 10:00:00",
		"EXIF:SubSecDateTimeOriginal", "2024:01:01 10:00:00.25",
		"EXIF:ModifyDate", "0000:00:00 00:00:00",
		"File:FileModifyDate", "2024:01:05 08:00:00+01:00",
		"EXIF:Artist", "Alice",
	)

	report := Shift(doc, Delta{Hours: 1}, nil)

	if len(report.Shifted) != 1 || report.Shifted[0].String() != "EXIF:DateTimeOriginal" {
		t.Fatalf("shifted = %v", report.Shifted)
	}
	if len(report.Skipped) != 2 {
		t.Fatalf("skipped = %v", report.Skipped)
	}
	for _, skip := range report.Skipped {
		if !errors.Is(skip, services.ErrInvalidDateFormat) {
			t.Fatalf("skip %v should match ErrInvalidDateFormat", skip)
		}
	}
	if got := rawTag(t, doc, "File:FileModifyDate"); got != "2024:01:05 08:00:00+01:00" {
		t.Fatalf("read-only group must not be shifted, got %q", got)
	}
	if got := rawTag(t, doc, "EXIF:SubSecDateTimeOriginal"); got != "2024:01:01 10:00:00.25" {
		t.Fatalf("unparseable value must stay untouched, got %q", got)
	}
}

func TestShiftExplicitKeys(t *testing.T) {
	doc := loadDoc(t,
		"EXIF:DateTimeOriginal", "2024:01:01 10:00:00",
		"EXIF:CreateDate", "2024:01:01 10:00:00",
		"EXIF:Artist", "Alice",
	)
	keys := []tags.Key{
		tags.MustParseKey("EXIF:CreateDate"),
		tags.MustParseKey("EXIF:Artist"),
		tags.MustParseKey("XMP:DateCreated"),
	}

	report := Shift(doc, Delta{Minutes: 5}, keys)

	if got := rawTag(t, doc, "EXIF:DateTimeOriginal"); got != "2024:01:01 10:00:00" {
		t.Fatalf("unselected key changed to %q", got)
	}
	if got := rawTag(t, doc, "EXIF:CreateDate"); got != "2024:01:01 10:05:00" {
		t.Fatalf("selected key = %q", got)
	}
	if len(report.Skipped) != 2 {
		t.Fatalf("skipped = %v", report.Skipped)
	}
	if !errors.Is(report.Skipped[0], services.ErrInvalidDateFormat) {
		t.Fatalf("text tag skip = %v", report.Skipped[0])
	}
	if !errors.Is(report.Skipped[1], services.ErrValidation) {
		t.Fatalf("missing tag skip = %v", report.Skipped[1])
	}
}

func TestShiftCoarserThanPrecisionIsUnchanged(t *testing.T) {
	doc := loadDoc(t, "XMP:DateCreated", "2024:01:01")
	report := Shift(doc, Delta{Hours: 5}, nil)
	if len(report.Unchanged) != 1 || len(report.Shifted) != 0 {
		t.Fatalf("report = %+v", report)
	}
	if !doc.Diff().Empty() {
		t.Fatal("date-only value must not change for a sub-day delta")
	}
}

func TestShiftRejectsOversizedDelta(t *testing.T) {
	doc := loadDoc(t, "EXIF:DateTimeOriginal", "2024:01:01 10:00:00")
	report := Shift(doc, Delta{Days: 110000}, nil)
	if len(report.Shifted) != 0 || len(report.Skipped) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if !errors.Is(report.Skipped[0], services.ErrValidation) {
		t.Fatalf("skip = %v", report.Skipped[0])
	}
	if got := rawTag(t, doc, "EXIF:DateTimeOriginal"); got != "2024:01:01 10:00:00" {
		t.Fatalf("value changed to %q", got)
	}
	if _, err := ShiftValue("2024:01:01 10:00:00", Delta{Days: 110000}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("ShiftValue expected validation error, got %v", err)
	}
}
