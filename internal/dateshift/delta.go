// Package dateshift moves date/time tags of a document by a uniform wall-clock
// delta, preserving each value's original punctuation and precision.
package dateshift

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"exifdeck/internal/services"
)

// Delta is a signed wall-clock offset. Months and years are not supported
// because their length depends on the value being shifted, which would break
// exact round trips.
type Delta struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// maxDeltaSeconds is the largest shift a time.Duration can carry.
const maxDeltaSeconds = int64(math.MaxInt64 / int64(time.Second))

// Validate rejects deltas whose total does not fit in a time.Duration.
func (d Delta) Validate() error {
	var total int64
	for _, part := range []struct {
		n    int
		unit int64
	}{{d.Days, 86400}, {d.Hours, 3600}, {d.Minutes, 60}, {d.Seconds, 1}} {
		limit := maxDeltaSeconds / part.unit
		if int64(part.n) > limit || int64(part.n) < -limit {
			return errDeltaRange()
		}
		total += int64(part.n) * part.unit
	}
	if total > maxDeltaSeconds || total < -maxDeltaSeconds {
		return errDeltaRange()
	}
	return nil
}

func errDeltaRange() error {
	return services.Wrap(services.ErrValidation, "dateshift", "validate delta",
		fmt.Sprintf("delta exceeds %d days", maxDeltaSeconds/86400), nil)
}

// Duration returns the delta as a time.Duration. The result is only
// meaningful when Validate returns nil.
func (d Delta) Duration() time.Duration {
	return time.Duration(d.Days)*24*time.Hour +
		time.Duration(d.Hours)*time.Hour +
		time.Duration(d.Minutes)*time.Minute +
		time.Duration(d.Seconds)*time.Second
}

// Negate returns the inverse delta.
func (d Delta) Negate() Delta {
	return Delta{Days: -d.Days, Hours: -d.Hours, Minutes: -d.Minutes, Seconds: -d.Seconds}
}

// IsZero reports whether the delta moves nothing.
func (d Delta) IsZero() bool {
	return d.Duration() == 0
}

// String renders the normalized delta in the form ParseDelta accepts,
// e.g. "+1d2h30m" or "-45s".
func (d Delta) String() string {
	total := d.Duration()
	if total == 0 {
		return "0s"
	}
	sign := "+"
	if total < 0 {
		sign = "-"
		total = -total
	}
	secs := int64(total / time.Second)
	days, secs := secs/86400, secs%86400
	hours, secs := secs/3600, secs%3600
	minutes, secs := secs/60, secs%60

	var b strings.Builder
	b.WriteString(sign)
	for _, part := range []struct {
		n    int64
		unit string
	}{{days, "d"}, {hours, "h"}, {minutes, "m"}, {secs, "s"}} {
		if part.n != 0 {
			fmt.Fprintf(&b, "%d%s", part.n, part.unit)
		}
	}
	return b.String()
}

var deltaPattern = regexp.MustCompile(`^([+-])?(?:(\d+)d)?(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)

// ParseDelta parses "[+|-][Nd][Nh][Nm][Ns]", for example "+1d", "-2h30m".
func ParseDelta(s string) (Delta, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	m := deltaPattern.FindStringSubmatch(s)
	if s == "" || m == nil || s == "+" || s == "-" {
		return Delta{}, services.Wrap(services.ErrValidation, "dateshift", "parse delta",
			fmt.Sprintf("%q is not a delta like +1d2h30m", s), nil)
	}
	var fields [4]int
	for i := range fields {
		if m[i+2] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+2])
		if err != nil {
			return Delta{}, services.Wrap(services.ErrValidation, "dateshift", "parse delta", "component out of range", err)
		}
		fields[i] = n
	}
	d := Delta{Days: fields[0], Hours: fields[1], Minutes: fields[2], Seconds: fields[3]}
	if m[1] == "-" {
		d = d.Negate()
	}
	if err := d.Validate(); err != nil {
		return Delta{}, err
	}
	return d, nil
}
