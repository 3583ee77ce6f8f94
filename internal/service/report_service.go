package service

import (
	"context"
	"fmt"

	"github.com/lantera/be-slf-workflow/internal/platform/authctx"
	"github.com/lantera/be-slf-workflow/internal/platform/errors"
	"github.com/lantera/be-slf-workflow/internal/platform/logger"
	"github.com/lantera/be-slf-workflow/internal/repository"
)

// ReportRenderer turns an inspection's grouped responses into a document
// byte stream. The renderer is a pure function of its inputs; PDF/DOCX
// byte layout lives behind this interface.
type ReportRenderer interface {
	Render(project *repository.Project, inspection *repository.Inspection, groups []CategoryGroup) ([]byte, error)
}

// ReportService creates report drafts and assembles their body content from
// the shared checklist aggregation.
type ReportService struct {
	reportRepo     ReportStore
	inspectionRepo InspectionStore
	projectRepo    ProjectStore
	itemRepo       ChecklistItemStore
	responseRepo   ResponseStore
	auditRepo      AuditStore
	renderer       ReportRenderer
	files          FileStore
	log            *logger.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(
	reportRepo ReportStore,
	inspectionRepo InspectionStore,
	projectRepo ProjectStore,
	itemRepo ChecklistItemStore,
	responseRepo ResponseStore,
	auditRepo AuditStore,
	renderer ReportRenderer,
	files FileStore,
	log *logger.Logger,
) *ReportService {
	return &ReportService{
		reportRepo:     reportRepo,
		inspectionRepo: inspectionRepo,
		projectRepo:    projectRepo,
		itemRepo:       itemRepo,
		responseRepo:   responseRepo,
		auditRepo:      auditRepo,
		renderer:       renderer,
		files:          files,
		log:            log,
	}
}

// CreateReportRequest carries a new report draft.
type CreateReportRequest struct {
	ProjectID    string `json:"project_id"`
	InspectionID string `json:"inspection_id"`
	Title        string `json:"title"`
}

// CreateReport drafts a report from a completed inspection. Drafters only.
func (s *ReportService) CreateReport(ctx context.Context, actor authctx.Actor, req *CreateReportRequest) (*repository.Report, error) {
	if err := requireRole(actor, repository.RoleDrafter, repository.RoleSuperadmin); err != nil {
		return nil, err
	}
	if req.Title == "" {
		return nil, errors.InvalidInput("title", "report title is required")
	}

	inspection, err := s.inspectionRepo.GetByID(ctx, req.InspectionID)
	if err != nil {
		return nil, err
	}
	if inspection.ProjectID != req.ProjectID {
		return nil, errors.InvalidInput("inspection_id", "inspection does not belong to the project")
	}
	if inspection.Status != repository.InspectionCompleted {
		return nil, errors.New(errors.ErrCodeConflict,
			fmt.Sprintf("inspection %s is not completed (status: %s)", req.InspectionID, inspection.Status))
	}

	report := &repository.Report{
		ProjectID:    req.ProjectID,
		InspectionID: req.InspectionID,
		Title:        req.Title,
		Status:       repository.ReportDraft,
		CreatedBy:    actor.UserID,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	statusAfter := report.Status
	if err := s.auditRepo.Append(ctx, &repository.AuditEntry{
		ReportID:    report.ID,
		Action:      "submitted",
		PerformedBy: actor.UserID,
		StatusAfter: &statusAfter,
	}); err != nil {
		s.log.Warn().Err(err).Str("report_id", report.ID).Msg("failed to write audit log entry")
	}

	s.log.Info().
		Str("report_id", report.ID).
		Str("inspection_id", report.InspectionID).
		Msg("report drafted")
	return report, nil
}

// GetReport returns one report.
func (s *ReportService) GetReport(ctx context.Context, id string) (*repository.Report, error) {
	return s.reportRepo.GetByID(ctx, id)
}

// ListByProject returns a project's reports.
func (s *ReportService) ListByProject(ctx context.Context, projectID string) ([]*repository.Report, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.reportRepo.ListByProject(ctx, projectID)
}

// RenderBody assembles a report's body: it groups the inspection's responses
// with the same aggregation the summary view uses and hands the result to
// the renderer.
func (s *ReportService) RenderBody(ctx context.Context, reportID string) ([]byte, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	inspection, err := s.inspectionRepo.GetByID(ctx, report.InspectionID)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.GetByID(ctx, report.ProjectID)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListApplicable(ctx, "", project.RequestType)
	if err != nil {
		return nil, err
	}
	responses, err := s.responseRepo.ListByInspection(ctx, report.InspectionID)
	if err != nil {
		return nil, err
	}

	groups := GroupByCategory(responses, items)
	return s.renderer.Render(project, inspection, groups)
}

// ExportBody renders the report body and stores it in the file store,
// returning the stored file name.
func (s *ReportService) ExportBody(ctx context.Context, reportID string) (string, error) {
	body, err := s.RenderBody(ctx, reportID)
	if err != nil {
		return "", err
	}

	name, err := s.files.Store(body, "txt")
	if err != nil {
		return "", err
	}

	s.log.Info().
		Str("report_id", reportID).
		Str("file", name).
		Msg("report body exported")
	return name, nil
}

// DownloadExport returns the bytes of a previously exported report body.
func (s *ReportService) DownloadExport(ctx context.Context, name string) ([]byte, error) {
	return s.files.Retrieve(name)
}
