package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldValue_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value FieldValue
		want  string
	}{
		{"text", StringValue("hello"), `"hello"`},
		{"timestamp-shaped text stays text", StringValue("2026-09-01T10:30:00Z"), `"2026-09-01T10:30:00Z"`},
		{"number", NumberValue(42.5), `42.5`},
		{"boolean", BoolValue(true), `true`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := json.Marshal(tc.value)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(raw))

			var decoded FieldValue
			require.NoError(t, json.Unmarshal(raw, &decoded))
			assert.True(t, decoded.Equal(tc.value), "decoded %+v, want %+v", decoded, tc.value)
		})
	}
}

func TestFieldValue_DateEncoding(t *testing.T) {
	when := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)

	raw, err := json.Marshal(DateValue(when))
	require.NoError(t, err)
	assert.JSONEq(t, `"2026-09-01T10:30:00Z"`, string(raw))

	// dates come off the wire as text; the schema re-types them in Validate
	var decoded FieldValue
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, FieldKindText, decoded.Kind)
	assert.Equal(t, "2026-09-01T10:30:00Z", decoded.Text)
}

func TestFieldValue_UnmarshalRejectsComposites(t *testing.T) {
	var v FieldValue
	assert.Error(t, json.Unmarshal([]byte(`{"nested":true}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &v))
}

func TestFormData_RoundTrip(t *testing.T) {
	data := FormData{
		"hostname":  StringValue("web-01"),
		"note":      StringValue("2026-09-01T10:30:00Z"),
		"cpu_count": NumberValue(8),
		"urgent":    BoolValue(false),
	}

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	var decoded FormData
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 4)
	for key, value := range data {
		assert.True(t, decoded[key].Equal(value), "key %q", key)
	}
}

func TestFormData_Validate(t *testing.T) {
	schema := []FormField{
		{Key: "hostname", Label: "Hostname", Kind: FieldKindText, Required: true},
		{Key: "cpu_count", Label: "CPU count", Kind: FieldKindNumber},
		{Key: "urgent", Label: "Urgent", Kind: FieldKindBoolean},
		{Key: "needed_by", Label: "Needed by", Kind: FieldKindDate},
		{Key: "env", Label: "Environment", Kind: FieldKindSelect, Options: []string{"dev", "prod"}},
	}

	tests := []struct {
		name    string
		data    FormData
		wantErr string
	}{
		{
			name: "valid full submission",
			data: FormData{
				"hostname":  StringValue("web-01"),
				"cpu_count": NumberValue(4),
				"urgent":    BoolValue(true),
				"needed_by": DateValue(time.Now()),
				"env":       StringValue("prod"),
			},
		},
		{
			name: "optional fields may be omitted",
			data: FormData{"hostname": StringValue("web-01")},
		},
		{
			name:    "missing required field",
			data:    FormData{"cpu_count": NumberValue(2)},
			wantErr: `"hostname" is required`,
		},
		{
			name:    "required text must be non-empty",
			data:    FormData{"hostname": StringValue("")},
			wantErr: `"hostname" is required`,
		},
		{
			name: "undeclared key rejected",
			data: FormData{
				"hostname": StringValue("web-01"),
				"extra":    StringValue("nope"),
			},
			wantErr: `"extra" is not part of the form schema`,
		},
		{
			name: "kind mismatch on number",
			data: FormData{
				"hostname":  StringValue("web-01"),
				"cpu_count": StringValue("four"),
			},
			wantErr: `"cpu_count" must be a number`,
		},
		{
			name: "rfc 3339 text accepted for a date field",
			data: FormData{
				"hostname":  StringValue("web-01"),
				"needed_by": StringValue("2026-09-15T09:00:00Z"),
			},
		},
		{
			name: "timestamp-shaped text accepted for a text field",
			data: FormData{"hostname": StringValue("2026-09-01T10:30:00Z")},
		},
		{
			name: "unparsable date text rejected",
			data: FormData{
				"hostname":  StringValue("web-01"),
				"needed_by": StringValue("tomorrow"),
			},
			wantErr: `"needed_by" must be an RFC 3339 date`,
		},
		{
			name: "number rejected for a date field",
			data: FormData{
				"hostname":  StringValue("web-01"),
				"needed_by": NumberValue(20260915),
			},
			wantErr: `"needed_by" must be a date`,
		},
		{
			name: "select outside options",
			data: FormData{
				"hostname": StringValue("web-01"),
				"env":      StringValue("staging"),
			},
			wantErr: `"env" has no option "staging"`,
		},
		{
			name: "select must be text",
			data: FormData{
				"hostname": StringValue("web-01"),
				"env":      NumberValue(1),
			},
			wantErr: `"env" must be one of the declared options`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.data.Validate(schema)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestFormData_ValidateCoercesDateFields(t *testing.T) {
	schema := []FormField{
		{Key: "needed_by", Label: "Needed by", Kind: FieldKindDate},
	}
	data := FormData{"needed_by": StringValue("2026-09-15T09:00:00Z")}

	require.NoError(t, data.Validate(schema))

	coerced := data["needed_by"]
	assert.Equal(t, FieldKindDate, coerced.Kind)
	assert.Equal(t, time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC), coerced.Date)
}

func TestFieldKind_IsValid(t *testing.T) {
	for _, kind := range []FieldKind{FieldKindText, FieldKindNumber, FieldKindBoolean, FieldKindDate, FieldKindSelect} {
		assert.True(t, kind.IsValid(), "kind %s", kind)
	}
	assert.False(t, FieldKind("attachment").IsValid())
	assert.False(t, FieldKind("").IsValid())
}
