package service

import "github.com/lantera/be-slf-workflow/internal/repository"

// The report approval workflow is an explicit transition table so the legal
// transition set is inspectable and testable independently of the handlers.
// Each report advances strictly forward through the fixed role sequence
// (project_lead, head_consultant, client) and forks to a rejected_by_* state
// on rejection.

// Workflow actions.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// TransitionKey identifies one legal workflow step.
type TransitionKey struct {
	Status string // report status before the action
	Role   string // acting role
	Action string
}

// Transition is the outcome of a legal workflow step.
type Transition struct {
	Next string
	// NotifyRole is the project role to notify: the next approver on
	// approve, the preceding role (or the drafter) on reject, the drafter
	// when the report goes out to the government.
	NotifyRole string
	// Sent marks the transition that stamps sent_to_government_at.
	Sent bool
}

var transitions = map[TransitionKey]Transition{
	{repository.ReportDraft, repository.RoleProjectLead, ActionApprove}: {
		Next:       repository.ReportApprovedByProjectLead,
		NotifyRole: repository.RoleHeadConsultant,
	},
	{repository.ReportApprovedByProjectLead, repository.RoleHeadConsultant, ActionApprove}: {
		Next:       repository.ReportApprovedByHeadConsultant,
		NotifyRole: repository.RoleClient,
	},
	{repository.ReportApprovedByHeadConsultant, repository.RoleClient, ActionApprove}: {
		Next:       repository.ReportSentToGovernment,
		NotifyRole: repository.RoleDrafter,
		Sent:       true,
	},

	{repository.ReportDraft, repository.RoleProjectLead, ActionReject}: {
		Next:       repository.ReportRejectedByProjectLead,
		NotifyRole: repository.RoleDrafter,
	},
	{repository.ReportApprovedByProjectLead, repository.RoleHeadConsultant, ActionReject}: {
		Next:       repository.ReportRejectedByHeadConsultant,
		NotifyRole: repository.RoleProjectLead,
	},
	{repository.ReportApprovedByHeadConsultant, repository.RoleClient, ActionReject}: {
		Next:       repository.ReportRejectedByClient,
		NotifyRole: repository.RoleHeadConsultant,
	},
}

// stageRoles maps each non-terminal status to the role whose turn it is.
var stageRoles = map[string]string{
	repository.ReportDraft:                    repository.RoleProjectLead,
	repository.ReportApprovedByProjectLead:    repository.RoleHeadConsultant,
	repository.ReportApprovedByHeadConsultant: repository.RoleClient,
}

// LookupTransition returns the transition for (status, role, action).
func LookupTransition(status, role, action string) (Transition, bool) {
	t, ok := transitions[TransitionKey{Status: status, Role: role, Action: action}]
	return t, ok
}

// StageRole returns the role expected to act at the given status. ok is
// false for terminal states (sent_to_government, rejected_by_*).
func StageRole(status string) (string, bool) {
	role, ok := stageRoles[status]
	return role, ok
}

// InApprovalSequence reports whether a role takes part in the approval
// sequence at all.
func InApprovalSequence(role string) bool {
	for _, r := range repository.ApprovalSequence {
		if r == role {
			return true
		}
	}
	return false
}
