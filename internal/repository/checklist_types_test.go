package repository

import "testing"

func TestAppliesTo(t *testing.T) {
	t.Parallel()

	universal := &ItemDefinition{Code: "surat_permohonan_slf"}
	if !universal.AppliesTo("slf_baru") || !universal.AppliesTo("slf_perpanjangan") {
		t.Fatal("an empty applicable_for list must apply to every request type")
	}

	scoped := &ItemDefinition{Code: "uji_riksa_berkala", ApplicableFor: []string{"slf_perpanjangan"}}
	if scoped.AppliesTo("slf_baru") {
		t.Fatal("scoped item must not apply to slf_baru")
	}
	if !scoped.AppliesTo("slf_perpanjangan") {
		t.Fatal("scoped item must apply to slf_perpanjangan")
	}
}

func TestColumnLookup(t *testing.T) {
	t.Parallel()

	item := &ItemDefinition{
		Columns: []ColumnSpec{
			{Name: "status", FieldType: FieldRadioWithText},
			{Name: "luas", FieldType: FieldInputNumber, Unit: "m2"},
		},
	}

	if col := item.Column("luas"); col == nil || col.Unit != "m2" {
		t.Fatalf("expected luas column with unit, got %+v", col)
	}
	if col := item.Column("missing"); col != nil {
		t.Fatalf("expected nil for unknown column, got %+v", col)
	}
}

func TestRecipientForRole(t *testing.T) {
	t.Parallel()

	project := &Project{
		ClientID:         "user-client",
		ProjectLeadID:    "user-lead",
		HeadConsultantID: "user-head",
		DrafterID:        "user-drafter",
	}

	tests := []struct {
		role string
		want string
	}{
		{RoleProjectLead, "user-lead"},
		{RoleHeadConsultant, "user-head"},
		{RoleClient, "user-client"},
		{RoleDrafter, "user-drafter"},
		{RoleInspector, ""},
	}
	for _, tc := range tests {
		if got := project.RecipientForRole(tc.role); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.role, tc.want, got)
		}
	}
}
