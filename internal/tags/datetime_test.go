package tags

import (
	"errors"
	"testing"
	"time"

	"exifdeck/internal/services"
)

func TestParseDateTimeFormatsBack(t *testing.T) {
	inputs := []string{
		"2024:01:01 10:00:00",
		"2024-01-01T10:00:00",
		"2024/12/31 23:59",
		"2024:01:01",
		"1999-07-04",
		"2024:06:30 08:15:00+02:00",
		"2024:06:30 08:15:00-0500",
		"2024-06-30T08:15:00Z",
	}
	for _, in := range inputs {
		dt, err := ParseDateTime(in)
		if err != nil {
			t.Fatalf("ParseDateTime(%q): %v", in, err)
		}
		if dt.String() != in {
			t.Fatalf("format of %q produced %q", in, dt.String())
		}
	}
}

func TestParseDateTimeRejects(t *testing.T) {
	inputs := []string{
		"2024:01:01 10:00:00.123",
		"0000:00:00 00:00:00",
		"2024:02:30",
		"2024:13:01",
		"2024:01:01 24:00:00",
		"2024:01-01",
		"yesterday",
		"2024:01:01+02:00",
	}
	for _, in := range inputs {
		_, err := ParseDateTime(in)
		if err == nil {
			t.Fatalf("expected %q to be rejected", in)
		}
		if !errors.Is(err, services.ErrInvalidDateFormat) {
			t.Fatalf("expected ErrInvalidDateFormat for %q, got %v", in, err)
		}
	}
}

func TestDateTimeAddTruncatesToPrecision(t *testing.T) {
	dateOnly, err := ParseDateTime("2024:01:01")
	if err != nil {
		t.Fatal(err)
	}
	shifted, err := dateOnly.Add(25 * time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if shifted.String() != "2024:01:02" {
		t.Fatalf("expected one whole day added, got %q", shifted.String())
	}
	unchanged, err := dateOnly.Add(-time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if unchanged.String() != "2024:01:01" {
		t.Fatalf("sub-day shift must not move a date-only value, got %q", unchanged.String())
	}

	minutes, err := ParseDateTime("2024:01:01 10:00")
	if err != nil {
		t.Fatal(err)
	}
	got, err := minutes.Add(90 * time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "2024:01:01 10:01" {
		t.Fatalf("expected minute truncation, got %q", got.String())
	}
}

func TestDateTimeAddOutOfRange(t *testing.T) {
	dt, err := ParseDateTime("0001:01:01")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dt.Add(-48 * time.Hour); !errors.Is(err, services.ErrInvalidDateFormat) {
		t.Fatalf("expected range error, got %v", err)
	}
}

func TestLooksLikeDate(t *testing.T) {
	if !LooksLikeDate("2024:01:01 10:00:00.50") {
		t.Fatal("expected sub-second value to look like a date")
	}
	if LooksLikeDate("Canon EOS R5") {
		t.Fatal("model name must not look like a date")
	}
}
