package dateshift

import (
	"fmt"

	"exifdeck/internal/document"
	"exifdeck/internal/services"
	"exifdeck/internal/tags"
)

// KeyError reports a tag that could not be shifted. It matches
// services.ErrInvalidDateFormat when the value was not a recognized date.
type KeyError struct {
	Key   tags.Key
	Value string
	Err   error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Key, e.Value, e.Err)
}

func (e *KeyError) Unwrap() error { return e.Err }

// Report lists what a Shift did. Unchanged holds keys whose precision is
// coarser than the delta, so the truncated delta moved nothing.
type Report struct {
	Shifted   []tags.Key
	Unchanged []tags.Key
	Skipped   []*KeyError
}

// Skips returns the skipped keys as plain errors.
func (r Report) Skips() []error {
	out := make([]error, len(r.Skipped))
	for i, skip := range r.Skipped {
		out[i] = skip
	}
	return out
}

// Shift adds delta to every selected date/time tag of doc. With no keys, the
// candidates are the writable tags holding a date/time value, plus tags that
// look like a date but fail to parse (these end up in Skipped). Per-key
// failures never abort the rest of the shift. An out-of-range delta skips
// every candidate.
func Shift(doc *document.Document, delta Delta, keys []tags.Key) Report {
	var report Report
	deltaErr := delta.Validate()
	for _, key := range candidates(doc, keys) {
		entry, ok := doc.Tag(key)
		if !ok {
			report.Skipped = append(report.Skipped, &KeyError{
				Key: key,
				Err: services.Wrap(services.ErrValidation, "dateshift", "shift", "tag not present", nil),
			})
			continue
		}
		if deltaErr != nil {
			report.Skipped = append(report.Skipped, &KeyError{Key: key, Value: entry.Value.Raw(), Err: deltaErr})
			continue
		}

		dt, ok := entry.Value.DateTime()
		if !ok {
			parsed, err := tags.ParseDateTime(entry.Value.Raw())
			if err != nil {
				report.Skipped = append(report.Skipped, &KeyError{Key: key, Value: entry.Value.Raw(), Err: err})
				continue
			}
			dt = parsed
		}

		shifted, err := dt.Add(delta.Duration())
		if err != nil {
			report.Skipped = append(report.Skipped, &KeyError{Key: key, Value: entry.Value.Raw(), Err: err})
			continue
		}
		if shifted.Time.Equal(dt.Time) {
			report.Unchanged = append(report.Unchanged, key)
			continue
		}
		doc.SetTag(key, tags.DateTimeValue(shifted))
		report.Shifted = append(report.Shifted, key)
	}
	return report
}

// ShiftValue shifts a single raw value and returns the reformatted string.
func ShiftValue(raw string, delta Delta) (string, error) {
	if err := delta.Validate(); err != nil {
		return "", err
	}
	dt, err := tags.ParseDateTime(raw)
	if err != nil {
		return "", err
	}
	shifted, err := dt.Add(delta.Duration())
	if err != nil {
		return "", err
	}
	return shifted.String(), nil
}

func candidates(doc *document.Document, keys []tags.Key) []tags.Key {
	if len(keys) > 0 {
		out := make([]tags.Key, len(keys))
		for i, key := range keys {
			out[i] = doc.Resolve(key)
		}
		return out
	}
	var out []tags.Key
	for _, entry := range doc.Entries() {
		if entry.Key.ReadOnly() {
			continue
		}
		if entry.Value.Kind() == tags.KindDateTime || tags.LooksLikeDate(entry.Value.Raw()) {
			out = append(out, entry.Key)
		}
	}
	return out
}
