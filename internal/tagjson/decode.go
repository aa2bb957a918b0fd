package tagjson

import (
	"fmt"
	"strings"

	"github.com/buger/jsonparser"

	"exifdeck/internal/schema"
	"exifdeck/internal/services"
	"exifdeck/internal/tags"
)

// SourceFileKey names the path field of every record.
const SourceFileKey = "SourceFile"

// ListSeparator joins list-valued tags into one string and splits them again
// on write.
const ListSeparator = ", "

// Record is one decoded array element.
type Record struct {
	SourceFile string
	Entries    []tags.Entry
}

var recordsSchema = schema.MustCompile("tag records", `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["SourceFile"],
    "properties": {"SourceFile": {"type": "string", "minLength": 1}},
    "additionalProperties": {
      "type": ["string", "number", "boolean", "array"],
      "items": {"type": ["string", "number", "boolean"]}
    }
  }
}`)

// Decode parses data into records, preserving key order. source names the
// input in errors. Malformed or schema-violating input is a
// *services.ParseError.
func Decode(data []byte, source string) ([]Record, error) {
	if err := recordsSchema.Validate(data); err != nil {
		return nil, &services.ParseError{Source: source, Detail: "unexpected structure", Err: err}
	}

	var (
		records []Record
		failure error
	)
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if failure != nil {
			return
		}
		if err != nil {
			failure = err
			return
		}
		record, err := decodeRecord(value)
		if err != nil {
			failure = fmt.Errorf("record %d: %w", len(records), err)
			return
		}
		records = append(records, record)
	})
	if err == nil {
		err = failure
	}
	if err != nil {
		return nil, &services.ParseError{Source: source, Detail: "decode records", Err: err}
	}
	return records, nil
}

func decodeRecord(data []byte) (Record, error) {
	var record Record
	seen := make(map[string]struct{})
	err := jsonparser.ObjectEach(data, func(rawKey, value []byte, dataType jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(rawKey)
		if err != nil {
			return fmt.Errorf("key %q: %w", rawKey, err)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate key %q", name)
		}
		seen[name] = struct{}{}

		if name == SourceFileKey {
			record.SourceFile, err = jsonparser.ParseString(value)
			return err
		}
		key, err := tags.ParseKey(name)
		if err != nil {
			return err
		}
		tagValue, err := decodeValue(value, dataType)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		record.Entries = append(record.Entries, tags.Entry{Key: key, Value: tagValue})
		return nil
	})
	return record, err
}

func decodeValue(value []byte, dataType jsonparser.ValueType) (tags.Value, error) {
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return tags.Value{}, err
		}
		return tags.ParseValue(s), nil
	case jsonparser.Number:
		return tags.NumberValue(string(value)), nil
	case jsonparser.Boolean:
		return tags.Text(string(value)), nil
	case jsonparser.Array:
		var (
			parts   []string
			partErr error
		)
		_, err := jsonparser.ArrayEach(value, func(item []byte, itemType jsonparser.ValueType, _ int, err error) {
			if partErr != nil {
				return
			}
			if err != nil {
				partErr = err
				return
			}
			if itemType == jsonparser.String {
				s, err := jsonparser.ParseString(item)
				if err != nil {
					partErr = err
					return
				}
				parts = append(parts, s)
				return
			}
			parts = append(parts, string(item))
		})
		if err == nil {
			err = partErr
		}
		if err != nil {
			return tags.Value{}, err
		}
		return tags.ParseValue(strings.Join(parts, ListSeparator)), nil
	default:
		return tags.Value{}, fmt.Errorf("unsupported value type %s", dataType)
	}
}
