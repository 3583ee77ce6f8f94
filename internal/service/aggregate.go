package service

import "github.com/lantera/be-slf-workflow/internal/repository"

// ChecklistEntry pairs an item definition with one stored response.
type ChecklistEntry struct {
	Item     *repository.ItemDefinition
	Response *repository.ResponseRecord
}

// CategoryGroup is one category's entries in display order.
type CategoryGroup struct {
	Category string
	Entries  []ChecklistEntry
}

// GroupByCategory groups stored responses by item category. The summary view
// and the report body renderer both consume this one routine, so the
// on-screen summary and the generated report can never diverge for the same
// inspection.
//
// Ordering is deterministic: categories appear in their first-seen order
// while walking itemDefinitions (the schema store's sort order), items keep
// that same order within their category, and multiple responses for one item
// (distinct sample numbers) keep their insertion order. Responses whose item
// is not in itemDefinitions are dropped.
func GroupByCategory(responses []*repository.ResponseRecord, itemDefinitions []*repository.ItemDefinition) []CategoryGroup {
	byItem := make(map[string][]*repository.ResponseRecord, len(responses))
	for _, rec := range responses {
		byItem[rec.ItemCode] = append(byItem[rec.ItemCode], rec)
	}

	groupIndex := make(map[string]int)
	groups := make([]CategoryGroup, 0)

	for _, item := range itemDefinitions {
		recs := byItem[item.Code]
		if len(recs) == 0 {
			continue
		}

		idx, ok := groupIndex[item.Category]
		if !ok {
			idx = len(groups)
			groupIndex[item.Category] = idx
			groups = append(groups, CategoryGroup{Category: item.Category})
		}

		for _, rec := range recs {
			groups[idx].Entries = append(groups[idx].Entries, ChecklistEntry{Item: item, Response: rec})
		}
	}

	return groups
}
