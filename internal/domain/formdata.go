package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// FieldKind enumerates the value types a form schema may declare.
type FieldKind string

const (
	FieldKindText    FieldKind = "text"
	FieldKindNumber  FieldKind = "number"
	FieldKindBoolean FieldKind = "boolean"
	FieldKindDate    FieldKind = "date"
	FieldKindSelect  FieldKind = "select"
)

// IsValid reports whether the kind is one of the declared field kinds.
func (k FieldKind) IsValid() bool {
	switch k {
	case FieldKindText, FieldKindNumber, FieldKindBoolean, FieldKindDate, FieldKindSelect:
		return true
	}
	return false
}

// FieldValue is the tagged union stored for one dynamic form field.
type FieldValue struct {
	Kind    FieldKind
	Text    string
	Number  float64
	Boolean bool
	Date    time.Time
}

// StringValue builds a text field value.
func StringValue(s string) FieldValue {
	return FieldValue{Kind: FieldKindText, Text: s}
}

// NumberValue builds a numeric field value.
func NumberValue(n float64) FieldValue {
	return FieldValue{Kind: FieldKindNumber, Number: n}
}

// BoolValue builds a boolean field value.
func BoolValue(b bool) FieldValue {
	return FieldValue{Kind: FieldKindBoolean, Boolean: b}
}

// DateValue builds a date field value.
func DateValue(t time.Time) FieldValue {
	return FieldValue{Kind: FieldKindDate, Date: t}
}

// MarshalJSON encodes the value as its natural JSON type; dates use RFC 3339.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case FieldKindNumber:
		return json.Marshal(v.Number)
	case FieldKindBoolean:
		return json.Marshal(v.Boolean)
	case FieldKindDate:
		return json.Marshal(v.Date.Format(time.RFC3339))
	default:
		return json.Marshal(v.Text)
	}
}

// UnmarshalJSON decodes a JSON scalar back into a tagged value. Strings always
// decode as text, even when timestamp shaped; only the declared schema can say
// a field is a date, so Validate handles that coercion.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case float64:
		*v = NumberValue(val)
	case bool:
		*v = BoolValue(val)
	case string:
		*v = StringValue(val)
	case nil:
		*v = FieldValue{}
	default:
		return fmt.Errorf("unsupported form value type %T", raw)
	}
	return nil
}

// Equal compares two field values by kind and payload.
func (v FieldValue) Equal(other FieldValue) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case FieldKindNumber:
		return v.Number == other.Number
	case FieldKindBoolean:
		return v.Boolean == other.Boolean
	case FieldKindDate:
		return v.Date.Equal(other.Date)
	default:
		return v.Text == other.Text
	}
}

// FormData is the typed open map holding a ticket's dynamic form values.
type FormData map[string]FieldValue

// Validate checks the submitted values against the ticket type's declared
// schema: required fields must be present and non-empty, kinds must match,
// select values must be among the declared options, and no undeclared keys
// are accepted.
func (f FormData) Validate(schema []FormField) error {
	declared := make(map[string]FormField, len(schema))
	for _, field := range schema {
		declared[field.Key] = field
	}

	for key := range f {
		if _, ok := declared[key]; !ok {
			return fmt.Errorf("field %q is not part of the form schema", key)
		}
	}

	for _, field := range schema {
		value, present := f[field.Key]
		if !present {
			if field.Required {
				return fmt.Errorf("field %q is required", field.Key)
			}
			continue
		}
		if field.Kind == FieldKindDate && value.Kind == FieldKindText {
			parsed, err := time.Parse(time.RFC3339, value.Text)
			if err != nil {
				return fmt.Errorf("field %q must be an RFC 3339 date", field.Key)
			}
			value = DateValue(parsed)
			f[field.Key] = value
		}
		if err := value.matchesKind(field); err != nil {
			return err
		}
	}
	return nil
}

func (v FieldValue) matchesKind(field FormField) error {
	switch field.Kind {
	case FieldKindNumber:
		if v.Kind != FieldKindNumber {
			return fmt.Errorf("field %q must be a number", field.Key)
		}
	case FieldKindBoolean:
		if v.Kind != FieldKindBoolean {
			return fmt.Errorf("field %q must be a boolean", field.Key)
		}
	case FieldKindDate:
		if v.Kind != FieldKindDate {
			return fmt.Errorf("field %q must be a date", field.Key)
		}
	case FieldKindSelect:
		if v.Kind != FieldKindText {
			return fmt.Errorf("field %q must be one of the declared options", field.Key)
		}
		for _, opt := range field.Options {
			if opt == v.Text {
				return nil
			}
		}
		return fmt.Errorf("field %q has no option %q", field.Key, v.Text)
	default:
		if v.Kind != FieldKindText {
			return fmt.Errorf("field %q must be text", field.Key)
		}
		if field.Required && v.Text == "" {
			return fmt.Errorf("field %q is required", field.Key)
		}
	}
	return nil
}
