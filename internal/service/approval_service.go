package service

import (
	"context"
	"fmt"

	"github.com/lantera/be-slf-workflow/internal/platform/authctx"
	"github.com/lantera/be-slf-workflow/internal/platform/errors"
	"github.com/lantera/be-slf-workflow/internal/platform/logger"
	"github.com/lantera/be-slf-workflow/internal/repository"
)

// ApprovalService drives reports through the sequential role approvals.
type ApprovalService struct {
	reportRepo   ReportStore
	approvalRepo ApprovalStore
	auditRepo    AuditStore
	projectRepo  ProjectStore
	notifier     Notifier
	log          *logger.Logger
}

// NewApprovalService creates a new ApprovalService.
func NewApprovalService(
	reportRepo ReportStore,
	approvalRepo ApprovalStore,
	auditRepo AuditStore,
	projectRepo ProjectStore,
	notifier Notifier,
	log *logger.Logger,
) *ApprovalService {
	return &ApprovalService{
		reportRepo:   reportRepo,
		approvalRepo: approvalRepo,
		auditRepo:    auditRepo,
		projectRepo:  projectRepo,
		notifier:     notifier,
		log:          log,
	}
}

// Approve records the acting role's approval and advances the report one
// stage. Preconditions are checked before any write, in this order: the
// actor's role must sit in the approval sequence, the role must not have
// acted on the report already (conflict), and it must be the role's turn
// (terminal state is a conflict, someone else's turn is a permission error).
// The notification is dispatched only after the status change is committed
// and never rolls it back.
func (s *ApprovalService) Approve(ctx context.Context, actor authctx.Actor, reportID, comment string) (*repository.Report, error) {
	return s.act(ctx, actor, reportID, comment, ActionApprove)
}

// Reject records the acting role's rejection, moves the report to the role's
// rejected_by_* state and routes the rejection comment back to the preceding
// role (or to the drafter when the first role rejects). The comment is
// mandatory.
func (s *ApprovalService) Reject(ctx context.Context, actor authctx.Actor, reportID, comment string) (*repository.Report, error) {
	if comment == "" {
		return nil, errors.InvalidInput("comment", "a rejection comment is required")
	}
	return s.act(ctx, actor, reportID, comment, ActionReject)
}

func (s *ApprovalService) act(ctx context.Context, actor authctx.Actor, reportID, comment, action string) (*repository.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if !InApprovalSequence(actor.Role) {
		return nil, errors.New(errors.ErrCodePermissionDenied,
			fmt.Sprintf("role %s does not take part in report approval", actor.Role))
	}

	// Existence check first, sequence check second. A role that already
	// acted gets "already done" even when it is also out of turn.
	existing, err := s.approvalRepo.GetByReportAndRole(ctx, reportID, actor.Role)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New(errors.ErrCodeConflict,
			fmt.Sprintf("role %s has already acted on report %s", actor.Role, reportID))
	}

	stageRole, open := StageRole(report.Status)
	if !open {
		return nil, errors.New(errors.ErrCodeConflict,
			fmt.Sprintf("report %s is not awaiting approval (status: %s)", reportID, report.Status))
	}
	if stageRole != actor.Role {
		return nil, errors.New(errors.ErrCodePermissionDenied,
			fmt.Sprintf("report %s is awaiting %s, not %s", reportID, stageRole, actor.Role))
	}

	transition, ok := LookupTransition(report.Status, actor.Role, action)
	if !ok {
		return nil, errors.New(errors.ErrCodeConflict,
			fmt.Sprintf("no %s transition from %s for %s", action, report.Status, actor.Role))
	}

	decision := repository.DecisionApproved
	if action == ActionReject {
		decision = repository.DecisionRejected
	}

	// The approval row goes in first: its unique index is what settles a
	// duplicate-submission race before the status ever moves.
	approval := &repository.Approval{
		ReportID: reportID,
		UserID:   actor.UserID,
		Role:     actor.Role,
		Status:   decision,
		Comment:  comment,
	}
	if err := s.approvalRepo.Create(ctx, approval); err != nil {
		return nil, err
	}

	if action == ActionApprove {
		err = s.reportRepo.RecordApproval(ctx, reportID, report.Status, transition.Next, actor.Role, comment, transition.Sent)
	} else {
		err = s.reportRepo.RecordRejection(ctx, reportID, report.Status, transition.Next, actor.Role, comment)
	}
	if err != nil {
		return nil, err
	}

	statusBefore := report.Status
	s.appendAudit(ctx, &repository.AuditEntry{
		ReportID:     reportID,
		Action:       decision,
		PerformedBy:  actor.UserID,
		StatusBefore: &statusBefore,
		StatusAfter:  &transition.Next,
		Metadata: map[string]any{
			"role":    actor.Role,
			"comment": comment,
		},
	})

	s.notifyTransition(ctx, actor, report, transition, action, comment)

	return s.reportRepo.GetByID(ctx, reportID)
}

// ListApprovals returns the per-role approval evidence for a report.
func (s *ApprovalService) ListApprovals(ctx context.Context, reportID string) ([]*repository.Approval, error) {
	if _, err := s.reportRepo.GetByID(ctx, reportID); err != nil {
		return nil, err
	}
	return s.approvalRepo.ListByReport(ctx, reportID)
}

// GetHistory returns the audit trail for a report.
func (s *ApprovalService) GetHistory(ctx context.Context, reportID string) ([]*repository.AuditEntry, error) {
	if _, err := s.reportRepo.GetByID(ctx, reportID); err != nil {
		return nil, err
	}
	return s.auditRepo.GetByReportID(ctx, reportID)
}

// ── internal helpers ──────────────────────────────────────────────────────────

// notifyTransition resolves the recipient from the project record and
// publishes the event. Failures here are warnings; the committed status
// change stands.
func (s *ApprovalService) notifyTransition(ctx context.Context, actor authctx.Actor, report *repository.Report, transition Transition, action, comment string) {
	project, err := s.projectRepo.GetByID(ctx, report.ProjectID)
	if err != nil {
		s.log.Warn().Err(err).
			Str("report_id", report.ID).
			Str("project_id", report.ProjectID).
			Msg("could not resolve project for notification")
		return
	}

	recipient := project.RecipientForRole(transition.NotifyRole)
	if transition.NotifyRole == repository.RoleDrafter && recipient == "" {
		recipient = report.CreatedBy
	}
	if recipient == "" {
		return
	}

	var eventType, title, message string
	switch {
	case transition.Sent:
		eventType = "report_sent_to_government"
		title = "Report sent to government"
		message = fmt.Sprintf("Report %s completed all approvals and was sent to the government.", report.Title)
	case action == ActionApprove:
		eventType = "report_approval_required"
		title = "Report awaiting your approval"
		message = fmt.Sprintf("Report %s was approved by %s and now needs your review.", report.Title, actor.Role)
	default:
		eventType = "report_rejected"
		title = "Report rejected"
		// The rejection comment travels verbatim to the preceding role.
		message = fmt.Sprintf("Report %s was rejected by %s: %s", report.Title, actor.Role, comment)
	}

	s.notifier.PublishReportEvent(ctx, eventType, report.ID, actor.UserID,
		[]string{recipient}, title, message, map[string]any{
			"project_id": report.ProjectID,
			"status":     transition.Next,
		})
}

// appendAudit writes an audit entry, logging a warning on failure.
func (s *ApprovalService) appendAudit(ctx context.Context, entry *repository.AuditEntry) {
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.log.Warn().Err(err).
			Str("report_id", entry.ReportID).
			Str("action", entry.Action).
			Msg("failed to write audit log entry")
	}
}
