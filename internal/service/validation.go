package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lantera/be-slf-workflow/internal/repository"
)

// ValidateResponse checks a submitted payload against an item definition's
// column schema. It never short-circuits: all field errors are accumulated
// and returned together so callers can highlight every offending field at
// once. A nil result means the payload is valid.
//
// Rules:
//   - sample number must be non-empty;
//   - every required column must be present and non-empty;
//   - radio values must be one of the column's options;
//   - input_number values must be numeric;
//   - a radio or radio_with_text column whose selected option is the
//     non-compliant sentinel requires the paired "<name>_text" value even
//     when the column itself is optional;
//   - unknown column kinds are rejected explicitly, never skipped.
func ValidateResponse(item *repository.ItemDefinition, sampleNumber string, values map[string]any) map[string]string {
	fieldErrors := make(map[string]string)

	if strings.TrimSpace(sampleNumber) == "" {
		fieldErrors["sample_number"] = "sample number is required"
	}

	for _, col := range item.Columns {
		value, present := values[col.Name]

		switch col.FieldType {
		case repository.FieldRadio, repository.FieldRadioWithText:
			if col.Required && (!present || valueEmpty(value)) {
				fieldErrors[col.Name] = "this field is required"
				continue
			}
			if !present || valueEmpty(value) {
				continue
			}
			if !optionAllowed(col.Options, value) {
				fieldErrors[col.Name] = fmt.Sprintf("value must be one of: %s", strings.Join(col.Options, ", "))
				continue
			}
			if stringValue(value) == repository.OptionNonCompliant {
				textKey := col.Name + repository.TextSuffix
				if valueEmpty(values[textKey]) {
					fieldErrors[textKey] = fmt.Sprintf("an explanation is required when %q is selected", repository.OptionNonCompliant)
				}
			}

		case repository.FieldInputNumber:
			if col.Required && (!present || valueEmpty(value)) {
				fieldErrors[col.Name] = "this field is required"
				continue
			}
			if present && !valueEmpty(value) && !numericValue(value) {
				fieldErrors[col.Name] = "value must be a number"
			}

		case repository.FieldTextarea, repository.FieldOther:
			if col.Required && (!present || valueEmpty(value)) {
				fieldErrors[col.Name] = "this field is required"
			}

		default:
			fieldErrors[col.Name] = fmt.Sprintf("unknown field type %q", col.FieldType)
		}
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

// valueEmpty reports whether a submitted value counts as absent: nil, an
// empty or whitespace-only string.
func valueEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// optionAllowed reports whether v matches one of the column's options. A
// column with no declared options accepts any value.
func optionAllowed(options []string, v any) bool {
	if len(options) == 0 {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	for _, opt := range options {
		if opt == s {
			return true
		}
	}
	return false
}

// numericValue accepts JSON numbers and numeric strings.
func numericValue(v any) bool {
	switch n := v.(type) {
	case float64, float32, int, int32, int64, json.Number:
		return true
	case string:
		_, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return err == nil
	default:
		return false
	}
}
