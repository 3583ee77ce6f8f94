package service

import (
	"context"
	"time"

	"github.com/lantera/be-slf-workflow/internal/client"
	"github.com/lantera/be-slf-workflow/internal/repository"
)

// The services depend on narrow store interfaces rather than the concrete
// repositories so tests can swap in in-memory fakes. The repository types
// satisfy these as-is.

// ChecklistItemStore is the schema store surface the services need.
type ChecklistItemStore interface {
	Create(ctx context.Context, item *repository.ItemDefinition) error
	GetByCode(ctx context.Context, code string) (*repository.ItemDefinition, error)
	ListApplicable(ctx context.Context, category, requestType string) ([]*repository.ItemDefinition, error)
	Deactivate(ctx context.Context, code string) error
}

// ResponseStore persists inspector response records.
type ResponseStore interface {
	Create(ctx context.Context, rec *repository.ResponseRecord) error
	Update(ctx context.Context, responseID string, values map[string]any) (*repository.ResponseRecord, error)
	GetByID(ctx context.Context, responseID string) (*repository.ResponseRecord, error)
	ListByInspection(ctx context.Context, inspectionID string) ([]*repository.ResponseRecord, error)
	Delete(ctx context.Context, responseID string) error
}

// ProjectStore persists projects.
type ProjectStore interface {
	Create(ctx context.Context, p *repository.Project) error
	GetByID(ctx context.Context, id string) (*repository.Project, error)
	List(ctx context.Context, status, requestType string, limit, offset int) ([]*repository.Project, error)
}

// InspectionStore persists inspections.
type InspectionStore interface {
	Create(ctx context.Context, insp *repository.Inspection) error
	GetByID(ctx context.Context, id string) (*repository.Inspection, error)
	ListByProject(ctx context.Context, projectID string) ([]*repository.Inspection, error)
	UpdateStatus(ctx context.Context, id, status string, startedAt, completedAt *time.Time) error
}

// ReportStore persists reports and their approval-stage status.
type ReportStore interface {
	Create(ctx context.Context, rep *repository.Report) error
	GetByID(ctx context.Context, id string) (*repository.Report, error)
	ListByProject(ctx context.Context, projectID string) ([]*repository.Report, error)
	RecordApproval(ctx context.Context, id, expectedStatus, newStatus, role, comment string, sent bool) error
	RecordRejection(ctx context.Context, id, expectedStatus, newStatus, role, comment string) error
}

// ApprovalStore persists the append-only per-role approval evidence.
type ApprovalStore interface {
	Create(ctx context.Context, a *repository.Approval) error
	GetByReportAndRole(ctx context.Context, reportID, role string) (*repository.Approval, error)
	ListByReport(ctx context.Context, reportID string) ([]*repository.Approval, error)
}

// AuditStore appends and reads the report audit trail.
type AuditStore interface {
	Append(ctx context.Context, entry *repository.AuditEntry) error
	GetByReportID(ctx context.Context, reportID string) ([]*repository.AuditEntry, error)
}

// FileStore persists opaque document bytes and hands back a name for later
// retrieval.
type FileStore interface {
	Store(data []byte, ext string) (string, error)
	Retrieve(path string) ([]byte, error)
}

// UserDirectory resolves users from the platform identity service.
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*client.User, error)
}

// Notifier is the fire-and-forget notification sink.
type Notifier interface {
	PublishReportEvent(ctx context.Context, eventType, reportID, actorID string, recipients []string, title, message string, payload map[string]any)
}
