// Package seed holds the static checklist template administrators load into
// the schema store.
package seed

import "github.com/lantera/be-slf-workflow/internal/repository"

// Checklist categories.
const (
	CategoryAdministrative = "administrative"
	CategoryBuildingLayout = "building_layout"
	CategoryReliability    = "reliability"
)

var complianceOptions = []string{"Sesuai", repository.OptionNonCompliant}
var presenceOptions = []string{"Ada", "Tidak Ada"}

// ChecklistTemplates returns the default item definitions. Codes are stable
// identifiers; re-seeding skips codes that already exist.
func ChecklistTemplates() []*repository.ItemDefinition {
	return []*repository.ItemDefinition{
		{
			Code:        "surat_permohonan_slf",
			Category:    CategoryAdministrative,
			Description: "Surat permohonan SLF dari pemilik bangunan",
			SortOrder:   10,
			Columns: []repository.ColumnSpec{
				{Name: "status", FieldType: repository.FieldRadio, Options: complianceOptions, Required: true},
			},
		},
		{
			Code:        "dokumen_imb",
			Category:    CategoryAdministrative,
			Description: "Dokumen IMB / PBG bangunan",
			SortOrder:   20,
			Columns: []repository.ColumnSpec{
				{Name: "kelengkapan", FieldType: repository.FieldRadio, Options: presenceOptions, Required: true},
				{Name: "catatan", FieldType: repository.FieldTextarea},
			},
		},
		{
			Code:        "as_built_drawing",
			Category:    CategoryAdministrative,
			Description: "Gambar as-built drawing terhadap kondisi lapangan",
			SortOrder:   30,
			Columns: []repository.ColumnSpec{
				{Name: "kesesuaian", FieldType: repository.FieldRadioWithText, Options: complianceOptions, Required: true, TextLabel: "Uraian ketidaksesuaian"},
			},
		},
		{
			Code:        "tata_letak_bangunan",
			Category:    CategoryBuildingLayout,
			Description: "Kesesuaian tata letak bangunan terhadap rencana tapak",
			SortOrder:   40,
			Columns: []repository.ColumnSpec{
				{Name: "kesesuaian", FieldType: repository.FieldRadioWithText, Options: complianceOptions, Required: true, TextLabel: "Uraian ketidaksesuaian"},
			},
		},
		{
			Code:        "luas_lantai",
			Category:    CategoryBuildingLayout,
			Description: "Pengukuran luas lantai bangunan",
			SortOrder:   50,
			Columns: []repository.ColumnSpec{
				{Name: "luas", FieldType: repository.FieldInputNumber, Required: true, Unit: "m2"},
				{Name: "kesesuaian", FieldType: repository.FieldRadio, Options: complianceOptions, Required: true},
			},
		},
		{
			Code:        "struktur_atas",
			Category:    CategoryReliability,
			Description: "Pemeriksaan visual struktur atas (kolom, balok, pelat)",
			SortOrder:   60,
			Columns: []repository.ColumnSpec{
				{Name: "kondisi", FieldType: repository.FieldRadioWithText, Options: complianceOptions, Required: true, TextLabel: "Uraian kerusakan"},
			},
		},
		{
			Code:        "proteksi_kebakaran",
			Category:    CategoryReliability,
			Description: "Sistem proteksi kebakaran aktif dan pasif",
			SortOrder:   70,
			Columns: []repository.ColumnSpec{
				{Name: "apar", FieldType: repository.FieldRadio, Options: presenceOptions, Required: true},
				{Name: "hidran", FieldType: repository.FieldRadio, Options: presenceOptions},
				{Name: "catatan", FieldType: repository.FieldTextarea},
			},
		},
		{
			Code:        "uji_riksa_berkala",
			Category:    CategoryReliability,
			Description: "Hasil uji riksa berkala peralatan gedung",
			SortOrder:   80,
			// Only renewals carry a prior periodic test to verify.
			ApplicableFor: []string{"slf_perpanjangan"},
			Columns: []repository.ColumnSpec{
				{Name: "status", FieldType: repository.FieldRadioWithText, Options: complianceOptions, Required: true, TextLabel: "Uraian temuan"},
			},
		},
	}
}
