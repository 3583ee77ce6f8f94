package service

import (
	"testing"

	"github.com/lantera/be-slf-workflow/internal/repository"
)

func TestGroupByCategoryOrdering(t *testing.T) {
	t.Parallel()

	items := []*repository.ItemDefinition{
		{Code: "surat_permohonan_slf", Category: "administrative", SortOrder: 10},
		{Code: "dokumen_imb", Category: "administrative", SortOrder: 20},
		{Code: "tata_letak_bangunan", Category: "building_layout", SortOrder: 10},
		{Code: "struktur_atas", Category: "reliability", SortOrder: 10},
	}
	responses := []*repository.ResponseRecord{
		{ID: "r4", ItemCode: "struktur_atas"},
		{ID: "r3", ItemCode: "tata_letak_bangunan"},
		{ID: "r2", ItemCode: "dokumen_imb"},
		{ID: "r1", ItemCode: "surat_permohonan_slf"},
	}

	groups := GroupByCategory(responses, items)

	wantCategories := []string{"administrative", "building_layout", "reliability"}
	if len(groups) != len(wantCategories) {
		t.Fatalf("expected %d categories, got %d", len(wantCategories), len(groups))
	}
	for i, want := range wantCategories {
		if groups[i].Category != want {
			t.Fatalf("category %d: expected %q, got %q", i, want, groups[i].Category)
		}
	}

	// Items follow schema order within their category, not response order.
	admin := groups[0].Entries
	if len(admin) != 2 {
		t.Fatalf("expected 2 administrative entries, got %d", len(admin))
	}
	if admin[0].Response.ID != "r1" || admin[1].Response.ID != "r2" {
		t.Fatalf("expected schema order r1, r2; got %s, %s", admin[0].Response.ID, admin[1].Response.ID)
	}
}

func TestGroupByCategoryDeterministic(t *testing.T) {
	t.Parallel()

	items := []*repository.ItemDefinition{
		{Code: "a", Category: "administrative"},
		{Code: "b", Category: "reliability"},
		{Code: "c", Category: "administrative"},
	}
	responses := []*repository.ResponseRecord{
		{ID: "r1", ItemCode: "a"},
		{ID: "r2", ItemCode: "b"},
		{ID: "r3", ItemCode: "c"},
	}

	first := GroupByCategory(responses, items)
	for i := 0; i < 10; i++ {
		again := GroupByCategory(responses, items)
		if len(again) != len(first) {
			t.Fatalf("run %d: group count changed from %d to %d", i, len(first), len(again))
		}
		for g := range again {
			if again[g].Category != first[g].Category {
				t.Fatalf("run %d: category order changed", i)
			}
			if len(again[g].Entries) != len(first[g].Entries) {
				t.Fatalf("run %d: entry count changed", i)
			}
			for e := range again[g].Entries {
				if again[g].Entries[e].Response.ID != first[g].Entries[e].Response.ID {
					t.Fatalf("run %d: entry order changed", i)
				}
			}
		}
	}
}

func TestGroupByCategorySamplesKeepInsertionOrder(t *testing.T) {
	t.Parallel()

	items := []*repository.ItemDefinition{
		{Code: "proteksi_kebakaran", Category: "reliability"},
	}
	responses := []*repository.ResponseRecord{
		{ID: "r1", ItemCode: "proteksi_kebakaran", SampleNumber: "1"},
		{ID: "r2", ItemCode: "proteksi_kebakaran", SampleNumber: "2"},
		{ID: "r3", ItemCode: "proteksi_kebakaran", SampleNumber: "3"},
	}

	groups := GroupByCategory(responses, items)
	if len(groups) != 1 || len(groups[0].Entries) != 3 {
		t.Fatalf("expected one group with 3 entries, got %+v", groups)
	}
	for i, want := range []string{"1", "2", "3"} {
		if got := groups[0].Entries[i].Response.SampleNumber; got != want {
			t.Fatalf("entry %d: expected sample %q, got %q", i, want, got)
		}
	}
}

func TestGroupByCategoryDropsOrphanResponses(t *testing.T) {
	t.Parallel()

	items := []*repository.ItemDefinition{
		{Code: "dokumen_imb", Category: "administrative"},
	}
	responses := []*repository.ResponseRecord{
		{ID: "r1", ItemCode: "dokumen_imb"},
		{ID: "r2", ItemCode: "no_such_item"},
	}

	groups := GroupByCategory(responses, items)
	if len(groups) != 1 || len(groups[0].Entries) != 1 {
		t.Fatalf("orphan response must be dropped, got %+v", groups)
	}
}

func TestGroupByCategoryEmpty(t *testing.T) {
	t.Parallel()

	groups := GroupByCategory(nil, []*repository.ItemDefinition{{Code: "a", Category: "administrative"}})
	if len(groups) != 0 {
		t.Fatalf("expected no groups without responses, got %+v", groups)
	}
}
