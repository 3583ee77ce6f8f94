package repository

import "time"

// ── Checklist domain types ────────────────────────────────────────────────────

// Column field kinds. The validator switches exhaustively over these and
// rejects anything else.
const (
	FieldRadio         = "radio"
	FieldRadioWithText = "radio_with_text"
	FieldInputNumber   = "input_number"
	FieldTextarea      = "textarea"
	FieldOther         = "other"
)

// OptionNonCompliant is the radio option that makes the paired free-text
// value mandatory on radio_with_text columns.
const OptionNonCompliant = "Tidak Sesuai"

// TextSuffix is appended to a radio_with_text column name to key its paired
// free-text value, both in submitted payloads and in field errors
// (e.g. "status" -> "status_text").
const TextSuffix = "_text"

// ColumnSpec is one field definition in an item's column_config JSONB array.
type ColumnSpec struct {
	Name      string   `json:"name"`
	FieldType string   `json:"field_type"`
	Options   []string `json:"options,omitempty"`
	Required  bool     `json:"required,omitempty"`
	Unit      string   `json:"unit,omitempty"`
	TextLabel string   `json:"text_label,omitempty"`
}

// ItemDefinition is a reusable checklist item template. Inspectors never
// mutate definitions; administrators seed them and soft-delete via IsActive.
type ItemDefinition struct {
	ID            string
	Code          string
	Category      string
	Description   string
	Columns       []ColumnSpec
	ApplicableFor []string // request types; empty means applies to all
	SortOrder     int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AppliesTo reports whether the item is applicable to a request type. An
// empty ApplicableFor list means the item applies to every request type.
func (d *ItemDefinition) AppliesTo(requestType string) bool {
	if len(d.ApplicableFor) == 0 {
		return true
	}
	for _, rt := range d.ApplicableFor {
		if rt == requestType {
			return true
		}
	}
	return false
}

// Column returns the spec for a column name, or nil.
func (d *ItemDefinition) Column(name string) *ColumnSpec {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i]
		}
	}
	return nil
}

// ResponseRecord is one inspector-submitted answer set for one item on one
// inspection. SampleNumber distinguishes multiple physical instances
// inspected under the same item; it may be empty, collapsing to one response
// per item per inspection.
type ResponseRecord struct {
	ID           string
	InspectionID string
	ItemID       string
	ItemCode     string
	SampleNumber string
	Values       map[string]any
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
