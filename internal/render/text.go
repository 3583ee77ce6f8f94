// Package render produces report body documents from grouped checklist
// responses.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lantera/be-slf-workflow/internal/repository"
	"github.com/lantera/be-slf-workflow/internal/service"
)

// TextRenderer renders a plain-text report body. It is a pure function of
// its inputs: the same grouped responses always produce byte-identical
// output.
type TextRenderer struct{}

// NewTextRenderer creates a TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render implements service.ReportRenderer.
func (r *TextRenderer) Render(project *repository.Project, inspection *repository.Inspection, groups []service.CategoryGroup) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "SLF INSPECTION REPORT\n")
	fmt.Fprintf(&b, "Project: %s (%s)\n", project.Name, project.RequestType)
	if project.BuildingAddress != nil {
		fmt.Fprintf(&b, "Address: %s\n", *project.BuildingAddress)
	}
	fmt.Fprintf(&b, "Inspection: %s, scheduled %s\n", inspection.ID, inspection.ScheduledAt.Format("2006-01-02"))
	if inspection.CompletedAt != nil {
		fmt.Fprintf(&b, "Completed: %s\n", inspection.CompletedAt.Format("2006-01-02"))
	}
	b.WriteString("\n")

	for _, group := range groups {
		fmt.Fprintf(&b, "== %s ==\n", group.Category)
		for _, entry := range group.Entries {
			fmt.Fprintf(&b, "- %s", entry.Item.Description)
			if entry.Response.SampleNumber != "" {
				fmt.Fprintf(&b, " [%s]", entry.Response.SampleNumber)
			}
			b.WriteString("\n")
			writeValues(&b, entry)
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

// writeValues prints a response's values following the item's column order,
// then any remaining keys (paired free-text values) sorted for stable
// output.
func writeValues(b *strings.Builder, entry service.ChecklistEntry) {
	written := make(map[string]bool, len(entry.Response.Values))

	for _, col := range entry.Item.Columns {
		if v, ok := entry.Response.Values[col.Name]; ok {
			label := col.Name
			if col.Unit != "" {
				label += " (" + col.Unit + ")"
			}
			fmt.Fprintf(b, "    %s: %v\n", label, v)
			written[col.Name] = true
		}
	}

	rest := make([]string, 0)
	for key := range entry.Response.Values {
		if !written[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(b, "    %s: %v\n", key, entry.Response.Values[key])
	}
}
