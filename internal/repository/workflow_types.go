package repository

import "time"

// ── Roles ─────────────────────────────────────────────────────────────────────

const (
	RoleSuperadmin     = "superadmin"
	RoleHeadConsultant = "head_consultant"
	RoleProjectLead    = "project_lead"
	RoleAdminLead      = "admin_lead"
	RoleInspector      = "inspector"
	RoleDrafter        = "drafter"
	RoleClient         = "client"
)

// ApprovalSequence is the fixed ordered list of roles that must each approve
// a report before government submission.
var ApprovalSequence = []string{RoleProjectLead, RoleHeadConsultant, RoleClient}

// ── Inspection ────────────────────────────────────────────────────────────────

// Inspection states.
const (
	InspectionScheduled  = "scheduled"
	InspectionInProgress = "in_progress"
	InspectionCompleted  = "completed"
	InspectionCancelled  = "cancelled"
)

// Inspection is a scheduled site visit carried out by one assigned inspector.
type Inspection struct {
	ID          string
	ProjectID   string
	AssignedTo  string // inspector user id
	ScheduledAt time.Time
	Status      string
	StartedAt   *time.Time
	CompletedAt *time.Time
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ── Project ───────────────────────────────────────────────────────────────────

// Project statuses.
const (
	ProjectActive   = "active"
	ProjectClosed   = "closed"
	ProjectArchived = "archived"
)

// Project is the certification engagement reports and inspections belong to.
// The per-role user ids double as the approval workflow's notification
// recipients.
type Project struct {
	ID               string
	Name             string
	RequestType      string // e.g. slf_baru | slf_perpanjangan
	BuildingAddress  *string
	ClientID         string
	ProjectLeadID    string
	HeadConsultantID string
	DrafterID        string
	AdminLeadID      *string
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RecipientForRole resolves the project member holding an approval-sequence
// role, or "" when the role has no designated member.
func (p *Project) RecipientForRole(role string) string {
	switch role {
	case RoleProjectLead:
		return p.ProjectLeadID
	case RoleHeadConsultant:
		return p.HeadConsultantID
	case RoleClient:
		return p.ClientID
	case RoleDrafter:
		return p.DrafterID
	default:
		return ""
	}
}

// ── Report ────────────────────────────────────────────────────────────────────

// Report statuses. The report's status column is the single source of truth
// for the current approval stage.
const (
	ReportDraft                    = "draft"
	ReportApprovedByProjectLead    = "approved_by_project_lead"
	ReportApprovedByHeadConsultant = "approved_by_head_consultant"
	ReportSentToGovernment         = "sent_to_government"
	ReportRejectedByProjectLead    = "rejected_by_project_lead"
	ReportRejectedByHeadConsultant = "rejected_by_head_consultant"
	ReportRejectedByClient         = "rejected_by_client"
)

// Report is the SLF report drafted from a completed inspection and driven
// through the sequential role approvals.
type Report struct {
	ID           string
	ProjectID    string
	InspectionID string
	Title        string
	Status       string

	ProjectLeadComment    *string
	HeadConsultantComment *string
	ClientComment         *string

	ProjectLeadApprovedAt    *time.Time
	HeadConsultantApprovedAt *time.Time
	ClientApprovedAt         *time.Time
	RejectedAt               *time.Time
	SentToGovernmentAt       *time.Time

	CreatedBy string // drafter user id
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ── Approval evidence ─────────────────────────────────────────────────────────

// Approval decision values.
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// Approval is one role's immutable approval or rejection of a report.
// UNIQUE(report_id, role) makes these append-only evidence: a second
// submission from the same role is rejected, never overwritten.
type Approval struct {
	ID        string
	ReportID  string
	UserID    string
	Role      string
	Status    string // approved | rejected
	Comment   string
	CreatedAt time.Time
}

// AuditEntry is one immutable record in the report audit log.
type AuditEntry struct {
	ID           string
	ReportID     string
	Action       string // submitted | approved | rejected | sent_to_government
	PerformedBy  string
	StatusBefore *string
	StatusAfter  *string
	Metadata     map[string]any
	PerformedAt  time.Time
}
