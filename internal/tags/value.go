package tags

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind discriminates the typed form of a Value.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindRational
	KindDateTime
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindRational:
		return "rational"
	case KindDateTime:
		return "datetime"
	case KindBinary:
		return "binary"
	default:
		return "text"
	}
}

var (
	integerPattern  = regexp.MustCompile(`^-?(0|[1-9][0-9]*)$`)
	fractionPattern = regexp.MustCompile(`^-?[0-9]+/[1-9][0-9]*$`)
	decimalPattern  = regexp.MustCompile(`^-?[0-9]+\.[0-9]+$`)
	binaryPattern   = regexp.MustCompile(`^\(Binary data ([0-9]+) bytes`)
)

// Value holds one tag value: the raw text as extracted plus a normalized
// typed form. The zero Value is empty text.
type Value struct {
	kind     Kind
	raw      string
	text     string
	integer  int64
	rational *big.Rat
	dateTime DateTime
	size     int64
}

// ParseValue infers the kind of a textual value.
func ParseValue(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if m := binaryPattern.FindStringSubmatch(trimmed); m != nil {
		size, _ := strconv.ParseInt(m[1], 10, 64)
		return Value{kind: KindBinary, raw: raw, size: size}
	}
	if integerPattern.MatchString(trimmed) {
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return Value{kind: KindInteger, raw: raw, integer: n}
		}
	}
	if fractionPattern.MatchString(trimmed) || decimalPattern.MatchString(trimmed) {
		if r, ok := new(big.Rat).SetString(trimmed); ok {
			return Value{kind: KindRational, raw: raw, rational: r}
		}
	}
	if dt, err := ParseDateTime(trimmed); err == nil {
		return Value{kind: KindDateTime, raw: raw, dateTime: dt}
	}
	return Text(raw)
}

// NumberValue classifies a JSON number literal. The literal is kept as the
// raw form so untouched values are written back unchanged.
func NumberValue(literal string) Value {
	if n, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return Value{kind: KindInteger, raw: literal, integer: n}
	}
	if r, ok := new(big.Rat).SetString(literal); ok {
		return Value{kind: KindRational, raw: literal, rational: r}
	}
	return Text(literal)
}

// Text builds a text value without kind inference.
func Text(raw string) Value {
	return Value{kind: KindText, raw: raw, text: normalizeText(raw)}
}

// Integer builds an integer value.
func Integer(n int64) Value {
	return Value{kind: KindInteger, raw: strconv.FormatInt(n, 10), integer: n}
}

// DateTimeValue builds a date/time value rendered in the layout of dt.
func DateTimeValue(dt DateTime) Value {
	return Value{kind: KindDateTime, raw: dt.String(), dateTime: dt}
}

// Kind returns the typed form of the value.
func (v Value) Kind() Kind { return v.kind }

// Raw returns the textual representation exactly as extracted or assigned.
func (v Value) Raw() string { return v.raw }

// String implements fmt.Stringer using the raw representation.
func (v Value) String() string { return v.raw }

// Int returns the integer form when the value is an integer.
func (v Value) Int() (int64, bool) {
	return v.integer, v.kind == KindInteger
}

// Rat returns a copy of the rational form when the value is numeric.
func (v Value) Rat() (*big.Rat, bool) {
	switch v.kind {
	case KindRational:
		return new(big.Rat).Set(v.rational), true
	case KindInteger:
		return new(big.Rat).SetInt64(v.integer), true
	}
	return nil, false
}

// DateTime returns the parsed timestamp when the value is a date/time.
func (v Value) DateTime() (DateTime, bool) {
	return v.dateTime, v.kind == KindDateTime
}

// BinarySize returns the byte count of a binary reference.
func (v Value) BinarySize() (int64, bool) {
	return v.size, v.kind == KindBinary
}

// Equal compares normalized forms, so values that differ only in formatting
// (surrounding whitespace, Unicode composition, "5.60" vs "5.6", date
// punctuation) are equal.
func (v Value) Equal(other Value) bool {
	if a, ok := v.Rat(); ok {
		if b, ok := other.Rat(); ok {
			return a.Cmp(b) == 0
		}
		return false
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindDateTime:
		return v.dateTime.Equal(other.dateTime)
	case KindBinary:
		return v.size == other.size
	default:
		return v.text == other.text
	}
}

func normalizeText(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
