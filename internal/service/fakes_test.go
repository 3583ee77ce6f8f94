package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lantera/be-slf-workflow/internal/client"
	"github.com/lantera/be-slf-workflow/internal/platform/errors"
	"github.com/lantera/be-slf-workflow/internal/platform/logger"
	"github.com/lantera/be-slf-workflow/internal/repository"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", ServiceName: "test"})
}

// ── fake stores ───────────────────────────────────────────────────────────────

type fakeItemStore struct {
	items      map[string]*repository.ItemDefinition
	order      []string
	dependents map[string]int // code -> referencing response count
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{
		items:      make(map[string]*repository.ItemDefinition),
		dependents: make(map[string]int),
	}
}

func (f *fakeItemStore) Create(ctx context.Context, item *repository.ItemDefinition) error {
	if _, exists := f.items[item.Code]; exists {
		return errors.New(errors.ErrCodeConflict, fmt.Sprintf("checklist item %s already exists", item.Code))
	}
	if item.ID == "" {
		item.ID = "item-" + item.Code
	}
	item.IsActive = true
	f.items[item.Code] = item
	f.order = append(f.order, item.Code)
	return nil
}

func (f *fakeItemStore) GetByCode(ctx context.Context, code string) (*repository.ItemDefinition, error) {
	item, ok := f.items[code]
	if !ok {
		return nil, errors.NotFound("checklist item", code)
	}
	return item, nil
}

func (f *fakeItemStore) ListApplicable(ctx context.Context, category, requestType string) ([]*repository.ItemDefinition, error) {
	var out []*repository.ItemDefinition
	for _, code := range f.order {
		item := f.items[code]
		if !item.IsActive {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		if requestType != "" && !item.AppliesTo(requestType) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeItemStore) Deactivate(ctx context.Context, code string) error {
	item, ok := f.items[code]
	if !ok {
		return errors.NotFound("checklist item", code)
	}
	if f.dependents[code] > 0 {
		return errors.New(errors.ErrCodeDependentRecords,
			fmt.Sprintf("checklist item %s has %d dependent responses", code, f.dependents[code]))
	}
	item.IsActive = false
	return nil
}

type fakeResponseStore struct {
	responses map[string]*repository.ResponseRecord
	order     []string
	nextID    int
}

func newFakeResponseStore() *fakeResponseStore {
	return &fakeResponseStore{responses: make(map[string]*repository.ResponseRecord)}
}

func (f *fakeResponseStore) Create(ctx context.Context, rec *repository.ResponseRecord) error {
	for _, existing := range f.responses {
		if existing.InspectionID == rec.InspectionID &&
			existing.ItemID == rec.ItemID &&
			existing.SampleNumber == rec.SampleNumber {
			return errors.New(errors.ErrCodeConflict, "a response for this item and sample already exists")
		}
	}
	f.nextID++
	rec.ID = fmt.Sprintf("resp-%d", f.nextID)
	rec.CreatedAt = time.Now()
	f.responses[rec.ID] = rec
	f.order = append(f.order, rec.ID)
	return nil
}

func (f *fakeResponseStore) Update(ctx context.Context, responseID string, values map[string]any) (*repository.ResponseRecord, error) {
	rec, ok := f.responses[responseID]
	if !ok {
		return nil, errors.NotFound("checklist response", responseID)
	}
	rec.Values = values
	return rec, nil
}

func (f *fakeResponseStore) GetByID(ctx context.Context, responseID string) (*repository.ResponseRecord, error) {
	rec, ok := f.responses[responseID]
	if !ok {
		return nil, errors.NotFound("checklist response", responseID)
	}
	return rec, nil
}

func (f *fakeResponseStore) ListByInspection(ctx context.Context, inspectionID string) ([]*repository.ResponseRecord, error) {
	var out []*repository.ResponseRecord
	for _, id := range f.order {
		rec, ok := f.responses[id]
		if ok && rec.InspectionID == inspectionID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeResponseStore) Delete(ctx context.Context, responseID string) error {
	if _, ok := f.responses[responseID]; !ok {
		return errors.NotFound("checklist response", responseID)
	}
	delete(f.responses, responseID)
	return nil
}

type fakeProjectStore struct {
	projects map[string]*repository.Project
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[string]*repository.Project)}
}

func (f *fakeProjectStore) Create(ctx context.Context, p *repository.Project) error {
	if p.ID == "" {
		p.ID = fmt.Sprintf("proj-%d", len(f.projects)+1)
	}
	f.projects[p.ID] = p
	return nil
}

func (f *fakeProjectStore) GetByID(ctx context.Context, id string) (*repository.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, errors.NotFound("project", id)
	}
	return p, nil
}

func (f *fakeProjectStore) List(ctx context.Context, status, requestType string, limit, offset int) ([]*repository.Project, error) {
	var out []*repository.Project
	for _, p := range f.projects {
		if status != "" && p.Status != status {
			continue
		}
		if requestType != "" && p.RequestType != requestType {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type fakeInspectionStore struct {
	inspections map[string]*repository.Inspection
}

func newFakeInspectionStore() *fakeInspectionStore {
	return &fakeInspectionStore{inspections: make(map[string]*repository.Inspection)}
}

func (f *fakeInspectionStore) Create(ctx context.Context, insp *repository.Inspection) error {
	if insp.ID == "" {
		insp.ID = fmt.Sprintf("insp-%d", len(f.inspections)+1)
	}
	f.inspections[insp.ID] = insp
	return nil
}

func (f *fakeInspectionStore) GetByID(ctx context.Context, id string) (*repository.Inspection, error) {
	insp, ok := f.inspections[id]
	if !ok {
		return nil, errors.NotFound("inspection", id)
	}
	return insp, nil
}

func (f *fakeInspectionStore) ListByProject(ctx context.Context, projectID string) ([]*repository.Inspection, error) {
	var out []*repository.Inspection
	for _, insp := range f.inspections {
		if insp.ProjectID == projectID {
			out = append(out, insp)
		}
	}
	return out, nil
}

func (f *fakeInspectionStore) UpdateStatus(ctx context.Context, id, status string, startedAt, completedAt *time.Time) error {
	insp, ok := f.inspections[id]
	if !ok {
		return errors.NotFound("inspection", id)
	}
	insp.Status = status
	if startedAt != nil {
		insp.StartedAt = startedAt
	}
	if completedAt != nil {
		insp.CompletedAt = completedAt
	}
	return nil
}

type fakeReportStore struct {
	reports map[string]*repository.Report
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{reports: make(map[string]*repository.Report)}
}

func (f *fakeReportStore) Create(ctx context.Context, rep *repository.Report) error {
	if rep.ID == "" {
		rep.ID = fmt.Sprintf("report-%d", len(f.reports)+1)
	}
	f.reports[rep.ID] = rep
	return nil
}

func (f *fakeReportStore) GetByID(ctx context.Context, id string) (*repository.Report, error) {
	rep, ok := f.reports[id]
	if !ok {
		return nil, errors.NotFound("report", id)
	}
	copied := *rep
	return &copied, nil
}

func (f *fakeReportStore) ListByProject(ctx context.Context, projectID string) ([]*repository.Report, error) {
	var out []*repository.Report
	for _, rep := range f.reports {
		if rep.ProjectID == projectID {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (f *fakeReportStore) RecordApproval(ctx context.Context, id, expectedStatus, newStatus, role, comment string, sent bool) error {
	rep, ok := f.reports[id]
	if !ok || rep.Status != expectedStatus {
		return errors.New(errors.ErrCodeConflict, fmt.Sprintf("report %s is no longer at the expected stage", id))
	}
	now := time.Now()
	rep.Status = newStatus
	switch role {
	case repository.RoleProjectLead:
		rep.ProjectLeadComment = &comment
		rep.ProjectLeadApprovedAt = &now
	case repository.RoleHeadConsultant:
		rep.HeadConsultantComment = &comment
		rep.HeadConsultantApprovedAt = &now
	case repository.RoleClient:
		rep.ClientComment = &comment
		rep.ClientApprovedAt = &now
	}
	if sent {
		rep.SentToGovernmentAt = &now
	}
	return nil
}

func (f *fakeReportStore) RecordRejection(ctx context.Context, id, expectedStatus, newStatus, role, comment string) error {
	rep, ok := f.reports[id]
	if !ok || rep.Status != expectedStatus {
		return errors.New(errors.ErrCodeConflict, fmt.Sprintf("report %s is no longer at the expected stage", id))
	}
	now := time.Now()
	rep.Status = newStatus
	rep.RejectedAt = &now
	switch role {
	case repository.RoleProjectLead:
		rep.ProjectLeadComment = &comment
	case repository.RoleHeadConsultant:
		rep.HeadConsultantComment = &comment
	case repository.RoleClient:
		rep.ClientComment = &comment
	}
	return nil
}

type fakeApprovalStore struct {
	approvals []*repository.Approval
}

func (f *fakeApprovalStore) Create(ctx context.Context, a *repository.Approval) error {
	for _, existing := range f.approvals {
		if existing.ReportID == a.ReportID && existing.Role == a.Role {
			return errors.New(errors.ErrCodeConflict,
				fmt.Sprintf("role %s has already acted on report %s", a.Role, a.ReportID))
		}
	}
	a.ID = fmt.Sprintf("approval-%d", len(f.approvals)+1)
	a.CreatedAt = time.Now()
	f.approvals = append(f.approvals, a)
	return nil
}

func (f *fakeApprovalStore) GetByReportAndRole(ctx context.Context, reportID, role string) (*repository.Approval, error) {
	for _, a := range f.approvals {
		if a.ReportID == reportID && a.Role == role {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeApprovalStore) ListByReport(ctx context.Context, reportID string) ([]*repository.Approval, error) {
	var out []*repository.Approval
	for _, a := range f.approvals {
		if a.ReportID == reportID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeAuditStore struct {
	entries []*repository.AuditEntry
	err     error
}

func (f *fakeAuditStore) Append(ctx context.Context, entry *repository.AuditEntry) error {
	if f.err != nil {
		return f.err
	}
	entry.ID = fmt.Sprintf("audit-%d", len(f.entries)+1)
	entry.PerformedAt = time.Now()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditStore) GetByReportID(ctx context.Context, reportID string) ([]*repository.AuditEntry, error) {
	var out []*repository.AuditEntry
	for _, e := range f.entries {
		if e.ReportID == reportID {
			out = append(out, e)
		}
	}
	return out, nil
}

type publishedEvent struct {
	eventType  string
	reportID   string
	actorID    string
	recipients []string
	title      string
	message    string
	payload    map[string]any
}

type fakeNotifier struct {
	events []publishedEvent
}

func (f *fakeNotifier) PublishReportEvent(ctx context.Context, eventType, reportID, actorID string, recipients []string, title, message string, payload map[string]any) {
	f.events = append(f.events, publishedEvent{
		eventType:  eventType,
		reportID:   reportID,
		actorID:    actorID,
		recipients: recipients,
		title:      title,
		message:    message,
		payload:    payload,
	})
}

type fakeUserDirectory struct {
	users map[string]*client.User
}

func (f *fakeUserDirectory) GetUser(ctx context.Context, userID string) (*client.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, errors.NotFound("user", userID)
	}
	return user, nil
}
