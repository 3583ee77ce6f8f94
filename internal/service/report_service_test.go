package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/lantera/be-slf-workflow/internal/platform/authctx"
	"github.com/lantera/be-slf-workflow/internal/platform/errors"
	"github.com/lantera/be-slf-workflow/internal/repository"
)

type stubRenderer struct {
	project    *repository.Project
	inspection *repository.Inspection
	groups     []CategoryGroup
}

func (r *stubRenderer) Render(project *repository.Project, inspection *repository.Inspection, groups []CategoryGroup) ([]byte, error) {
	r.project = project
	r.inspection = inspection
	r.groups = groups
	var b strings.Builder
	for _, g := range groups {
		b.WriteString(g.Category)
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

type fakeFileStore struct {
	files map[string][]byte
}

func (f *fakeFileStore) Store(data []byte, ext string) (string, error) {
	if f.files == nil {
		f.files = make(map[string][]byte)
	}
	name := fmt.Sprintf("file-%d.%s", len(f.files)+1, ext)
	f.files[name] = data
	return name, nil
}

func (f *fakeFileStore) Retrieve(path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, errors.NotFound("file", path)
	}
	return data, nil
}

type reportFixture struct {
	service     *ReportService
	reports     *fakeReportStore
	inspections *fakeInspectionStore
	projects    *fakeProjectStore
	items       *fakeItemStore
	responses   *fakeResponseStore
	audit       *fakeAuditStore
	renderer    *stubRenderer
	files       *fakeFileStore
}

func newReportFixture() *reportFixture {
	reports := newFakeReportStore()
	inspections := newFakeInspectionStore()
	projects := newFakeProjectStore()
	items := newFakeItemStore()
	responses := newFakeResponseStore()
	audit := &fakeAuditStore{}
	renderer := &stubRenderer{}
	files := &fakeFileStore{}

	projects.projects["proj-1"] = &repository.Project{
		ID:          "proj-1",
		Name:        "Gedung Menara Satu",
		RequestType: "slf_baru",
		Status:      repository.ProjectActive,
	}
	inspections.inspections["insp-1"] = &repository.Inspection{
		ID:         "insp-1",
		ProjectID:  "proj-1",
		AssignedTo: "user-inspector",
		Status:     repository.InspectionCompleted,
	}

	return &reportFixture{
		service:     NewReportService(reports, inspections, projects, items, responses, audit, renderer, files, testLogger()),
		reports:     reports,
		inspections: inspections,
		projects:    projects,
		items:       items,
		responses:   responses,
		audit:       audit,
		renderer:    renderer,
		files:       files,
	}
}

func drafterActor() authctx.Actor {
	return authctx.Actor{UserID: "user-drafter", Role: repository.RoleDrafter}
}

func TestCreateReport(t *testing.T) {
	t.Parallel()

	fx := newReportFixture()

	report, err := fx.service.CreateReport(context.Background(), drafterActor(), &CreateReportRequest{
		ProjectID:    "proj-1",
		InspectionID: "insp-1",
		Title:        "Laporan SLF Menara Satu",
	})
	if err != nil {
		t.Fatalf("create report: %v", err)
	}
	if report.Status != repository.ReportDraft {
		t.Fatalf("expected draft status, got %s", report.Status)
	}
	if report.CreatedBy != "user-drafter" {
		t.Fatalf("expected drafter as creator, got %s", report.CreatedBy)
	}

	if len(fx.audit.entries) != 1 || fx.audit.entries[0].Action != "submitted" {
		t.Fatalf("expected a submitted audit entry, got %+v", fx.audit.entries)
	}
}

func TestCreateReportRoleGate(t *testing.T) {
	t.Parallel()

	fx := newReportFixture()

	_, err := fx.service.CreateReport(context.Background(),
		authctx.Actor{UserID: "user-client", Role: repository.RoleClient},
		&CreateReportRequest{ProjectID: "proj-1", InspectionID: "insp-1", Title: "x"})
	if errors.CodeOf(err) != errors.ErrCodePermissionDenied {
		t.Fatalf("expected permission denied for client, got %v", err)
	}
}

func TestCreateReportIncompleteInspection(t *testing.T) {
	t.Parallel()

	fx := newReportFixture()
	fx.inspections.inspections["insp-1"].Status = repository.InspectionInProgress

	_, err := fx.service.CreateReport(context.Background(), drafterActor(), &CreateReportRequest{
		ProjectID:    "proj-1",
		InspectionID: "insp-1",
		Title:        "Laporan SLF Menara Satu",
	})
	if errors.CodeOf(err) != errors.ErrCodeConflict {
		t.Fatalf("expected conflict for incomplete inspection, got %v", err)
	}
}

func TestCreateReportForeignInspection(t *testing.T) {
	t.Parallel()

	fx := newReportFixture()
	fx.projects.projects["proj-2"] = &repository.Project{
		ID:          "proj-2",
		RequestType: "slf_baru",
		Status:      repository.ProjectActive,
	}

	_, err := fx.service.CreateReport(context.Background(), drafterActor(), &CreateReportRequest{
		ProjectID:    "proj-2",
		InspectionID: "insp-1",
		Title:        "Laporan",
	})
	if errors.CodeOf(err) != errors.ErrCodeInvalidInput {
		t.Fatalf("expected invalid input for foreign inspection, got %v", err)
	}
}

func TestRenderBodyUsesSharedAggregation(t *testing.T) {
	t.Parallel()

	fx := newReportFixture()
	ctx := context.Background()

	fx.items.Create(ctx, &repository.ItemDefinition{
		Code:     "surat_permohonan_slf",
		Category: "administrative",
		Columns: []repository.ColumnSpec{
			{Name: "status", FieldType: repository.FieldRadioWithText, Options: []string{"Sesuai", repository.OptionNonCompliant}, Required: true},
		},
	})
	fx.responses.Create(ctx, &repository.ResponseRecord{
		InspectionID: "insp-1",
		ItemID:       "item-surat_permohonan_slf",
		ItemCode:     "surat_permohonan_slf",
		SampleNumber: "1",
		Values:       map[string]any{"status": "Sesuai"},
	})
	fx.reports.reports["report-1"] = &repository.Report{
		ID:           "report-1",
		ProjectID:    "proj-1",
		InspectionID: "insp-1",
		Title:        "Laporan",
		Status:       repository.ReportDraft,
	}

	body, err := fx.service.RenderBody(ctx, "report-1")
	if err != nil {
		t.Fatalf("render body: %v", err)
	}
	if !strings.Contains(string(body), "administrative") {
		t.Fatalf("expected grouped content, got %q", body)
	}
	if len(fx.renderer.groups) != 1 || fx.renderer.groups[0].Category != "administrative" {
		t.Fatalf("expected one administrative group, got %+v", fx.renderer.groups)
	}
	if fx.renderer.project.ID != "proj-1" || fx.renderer.inspection.ID != "insp-1" {
		t.Fatal("renderer must receive the report's project and inspection")
	}
}

func TestExportBodyRoundTrip(t *testing.T) {
	t.Parallel()

	fx := newReportFixture()
	fx.reports.reports["report-1"] = &repository.Report{
		ID:           "report-1",
		ProjectID:    "proj-1",
		InspectionID: "insp-1",
		Title:        "Laporan",
		Status:       repository.ReportDraft,
	}
	ctx := context.Background()

	name, err := fx.service.ExportBody(ctx, "report-1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if name == "" {
		t.Fatal("expected a stored file name")
	}

	body, err := fx.service.RenderBody(ctx, "report-1")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	stored, err := fx.service.DownloadExport(ctx, name)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if !bytes.Equal(stored, body) {
		t.Fatal("stored export must match the rendered body")
	}

	if _, err := fx.service.DownloadExport(ctx, "missing.txt"); errors.CodeOf(err) != errors.ErrCodeNotFound {
		t.Fatalf("expected not found for unknown export, got %v", err)
	}
}
