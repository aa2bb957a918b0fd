package tags

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"exifdeck/internal/services"
)

// Precision is the smallest time unit a date/time string encodes.
type Precision int

const (
	PrecisionDay Precision = iota
	PrecisionMinute
	PrecisionSecond
)

// Unit returns the duration of one step at this precision.
func (p Precision) Unit() time.Duration {
	switch p {
	case PrecisionDay:
		return 24 * time.Hour
	case PrecisionMinute:
		return time.Minute
	default:
		return time.Second
	}
}

func (p Precision) String() string {
	switch p {
	case PrecisionDay:
		return "day"
	case PrecisionMinute:
		return "minute"
	default:
		return "second"
	}
}

// DateLayout records the punctuation of a parsed date/time string so the
// value can be written back in the same shape.
type DateLayout struct {
	DateSep   byte
	TimeSep   byte
	Precision Precision
	Zone      string
}

// DateTime is a naive wall-clock timestamp. Time always carries the UTC
// location so arithmetic never crosses a DST boundary; any zone suffix in the
// source text is preserved verbatim in Layout.Zone and never applied.
type DateTime struct {
	Time   time.Time
	Layout DateLayout
}

var dateTimePattern = regexp.MustCompile(
	`^(\d{4})([:/-])(\d{2})([:/-])(\d{2})(?:([ T])(\d{2}):(\d{2})(?::(\d{2}))?(Z|[+-]\d{2}:?\d{2})?)?$`,
)

var dateLikePattern = regexp.MustCompile(`^\d{4}[:/-]\d{2}[:/-]\d{2}`)

// LooksLikeDate reports whether s starts like a date even if it does not parse
// (sub-second values, placeholder zero dates).
func LooksLikeDate(s string) bool {
	return dateLikePattern.MatchString(strings.TrimSpace(s))
}

// ParseDateTime parses the date/time shapes the external tool emits. Errors
// wrap services.ErrInvalidDateFormat.
func ParseDateTime(s string) (DateTime, error) {
	raw := s
	s = strings.TrimSpace(s)
	m := dateTimePattern.FindStringSubmatch(s)
	if m == nil || m[2] != m[4] {
		return DateTime{}, invalidDate(raw, "unrecognized pattern")
	}

	layout := DateLayout{DateSep: m[2][0], Precision: PrecisionDay}
	fields := [6]int{}
	fields[0], _ = strconv.Atoi(m[1])
	fields[1], _ = strconv.Atoi(m[3])
	fields[2], _ = strconv.Atoi(m[5])
	if m[6] != "" {
		layout.TimeSep = m[6][0]
		layout.Precision = PrecisionMinute
		fields[3], _ = strconv.Atoi(m[7])
		fields[4], _ = strconv.Atoi(m[8])
		if m[9] != "" {
			layout.Precision = PrecisionSecond
			fields[5], _ = strconv.Atoi(m[9])
		}
		layout.Zone = m[10]
	}

	if fields[0] < 1 {
		return DateTime{}, invalidDate(raw, "year out of range")
	}
	if fields[3] > 23 || fields[4] > 59 || fields[5] > 59 {
		return DateTime{}, invalidDate(raw, "time out of range")
	}
	t := time.Date(fields[0], time.Month(fields[1]), fields[2], fields[3], fields[4], fields[5], 0, time.UTC)
	if t.Year() != fields[0] || int(t.Month()) != fields[1] || t.Day() != fields[2] {
		return DateTime{}, invalidDate(raw, "date out of range")
	}
	return DateTime{Time: t, Layout: layout}, nil
}

// String formats the timestamp using its original layout.
func (d DateTime) String() string {
	var b strings.Builder
	sep := string(d.Layout.DateSep)
	if sep == "\x00" {
		sep = ":"
	}
	fmt.Fprintf(&b, "%04d%s%02d%s%02d", d.Time.Year(), sep, int(d.Time.Month()), sep, d.Time.Day())
	if d.Layout.Precision == PrecisionDay {
		return b.String()
	}
	timeSep := d.Layout.TimeSep
	if timeSep == 0 {
		timeSep = ' '
	}
	b.WriteByte(timeSep)
	fmt.Fprintf(&b, "%02d:%02d", d.Time.Hour(), d.Time.Minute())
	if d.Layout.Precision == PrecisionSecond {
		fmt.Fprintf(&b, ":%02d", d.Time.Second())
	}
	b.WriteString(d.Layout.Zone)
	return b.String()
}

// Add shifts the timestamp by delta. The delta is truncated toward zero to the
// precision of the layout so that Add(d) followed by Add(-d) is exact.
func (d DateTime) Add(delta time.Duration) (DateTime, error) {
	delta = delta.Truncate(d.Layout.Precision.Unit())
	shifted := d.Time.Add(delta)
	if shifted.Year() < 1 || shifted.Year() > 9999 {
		return DateTime{}, invalidDate(d.String(), "shift leaves the year range 0001-9999")
	}
	return DateTime{Time: shifted, Layout: d.Layout}, nil
}

// Equal compares instants, zone text, and precision; punctuation differences
// are formatting only.
func (d DateTime) Equal(other DateTime) bool {
	return d.Time.Equal(other.Time) &&
		d.Layout.Precision == other.Layout.Precision &&
		normalizeZone(d.Layout.Zone) == normalizeZone(other.Layout.Zone)
}

func normalizeZone(zone string) string {
	switch zone = strings.ReplaceAll(zone, ":", ""); zone {
	case "Z", "+0000":
		return "+0000"
	}
	return zone
}

func invalidDate(value, reason string) error {
	return fmt.Errorf("%w: %q: %s", services.ErrInvalidDateFormat, value, reason)
}
