package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/lantera/be-slf-workflow/internal/platform/authctx"
	"github.com/lantera/be-slf-workflow/internal/platform/errors"
	"github.com/lantera/be-slf-workflow/internal/platform/logger"
	"github.com/lantera/be-slf-workflow/internal/repository"
	"github.com/lantera/be-slf-workflow/internal/seed"
	"github.com/lantera/be-slf-workflow/internal/service"
)

// HTTPHandler handles HTTP requests.
type HTTPHandler struct {
	checklists  *service.ChecklistService
	projects    *service.ProjectService
	inspections *service.InspectionService
	reports     *service.ReportService
	approvals   *service.ApprovalService
	log         *logger.Logger
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(
	checklists *service.ChecklistService,
	projects *service.ProjectService,
	inspections *service.InspectionService,
	reports *service.ReportService,
	approvals *service.ApprovalService,
	log *logger.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		checklists:  checklists,
		projects:    projects,
		inspections: inspections,
		reports:     reports,
		approvals:   approvals,
		log:         log,
	}
}

// ActorMiddleware resolves the X-User-ID header through the user directory
// and attaches the actor to the request context. Requests without the header
// pass through unauthenticated; role-gated operations reject them downstream.
func ActorMiddleware(directory service.UserDirectory, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := directory.GetUser(r.Context(), userID)
			if err != nil {
				log.Warn().Err(err).Str("user_id", userID).Msg("could not resolve request actor")
				writeError(w, errors.New(errors.ErrCodePermissionDenied, "unknown user"))
				return
			}

			ctx := authctx.WithActor(r.Context(), authctx.Actor{UserID: user.ID, Role: user.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ── Checklist items ───────────────────────────────────────────────────────────

// CreateChecklistItem handles POST /api/v1/checklist-items.
func (h *HTTPHandler) CreateChecklistItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req service.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("body", "invalid request body"))
		return
	}

	item, err := h.checklists.CreateItem(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// ListChecklistItems handles GET /api/v1/checklist-items.
func (h *HTTPHandler) ListChecklistItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.checklists.ListItems(r.Context(),
		r.URL.Query().Get("category"),
		r.URL.Query().Get("request_type"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// GetChecklistItem handles GET /api/v1/checklist-items/get?code=.
func (h *HTTPHandler) GetChecklistItem(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, errors.InvalidInput("code", "item code is required"))
		return
	}

	item, err := h.checklists.GetItem(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteChecklistItem handles DELETE /api/v1/checklist-items/delete?code=.
func (h *HTTPHandler) DeleteChecklistItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, errors.InvalidInput("code", "item code is required"))
		return
	}

	if err := h.checklists.DeactivateItem(r.Context(), actor, code); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SeedChecklistItems handles POST /api/v1/checklist-items/seed, loading the
// static template into the schema store.
func (h *HTTPHandler) SeedChecklistItems(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	created, err := h.checklists.SeedItems(r.Context(), actor, seed.ChecklistTemplates())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"created": created})
}

// ── Projects ──────────────────────────────────────────────────────────────────

// CreateProject handles POST /api/v1/projects.
func (h *HTTPHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req service.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("body", "invalid request body"))
		return
	}

	project, err := h.projects.CreateProject(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// GetProject handles GET /api/v1/projects/get?id=.
func (h *HTTPHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, errors.InvalidInput("id", "project id is required"))
		return
	}

	project, err := h.projects.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// ListProjects handles GET /api/v1/projects.
func (h *HTTPHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	projects, err := h.projects.ListProjects(r.Context(),
		r.URL.Query().Get("status"),
		r.URL.Query().Get("request_type"),
		limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// ── Inspections ───────────────────────────────────────────────────────────────

// ScheduleInspection handles POST /api/v1/inspections.
func (h *HTTPHandler) ScheduleInspection(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req service.ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("body", "invalid request body"))
		return
	}

	inspection, err := h.inspections.Schedule(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inspection)
}

// GetInspection handles GET /api/v1/inspections/get?id=.
func (h *HTTPHandler) GetInspection(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, errors.InvalidInput("id", "inspection id is required"))
		return
	}

	inspection, err := h.inspections.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inspection)
}

// StartInspection handles POST /api/v1/inspections/start.
func (h *HTTPHandler) StartInspection(w http.ResponseWriter, r *http.Request) {
	h.transitionInspection(w, r, h.inspections.Start)
}

// CompleteInspection handles POST /api/v1/inspections/complete.
func (h *HTTPHandler) CompleteInspection(w http.ResponseWriter, r *http.Request) {
	h.transitionInspection(w, r, h.inspections.Complete)
}

// CancelInspection handles POST /api/v1/inspections/cancel.
func (h *HTTPHandler) CancelInspection(w http.ResponseWriter, r *http.Request) {
	h.transitionInspection(w, r, h.inspections.Cancel)
}

// ── Responses ─────────────────────────────────────────────────────────────────

// SubmitResponse handles POST /api/v1/responses.
func (h *HTTPHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req service.SubmitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("body", "invalid request body"))
		return
	}

	rec, err := h.checklists.SubmitResponse(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// UpdateResponse handles POST /api/v1/responses/update.
func (h *HTTPHandler) UpdateResponse(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req struct {
		ID     string         `json:"id"`
		Values map[string]any `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("body", "invalid request body"))
		return
	}

	rec, err := h.checklists.UpdateResponse(r.Context(), actor, req.ID, req.Values)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteResponse handles DELETE /api/v1/responses/delete?id=.
func (h *HTTPHandler) DeleteResponse(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, errors.InvalidInput("id", "response id is required"))
		return
	}

	if err := h.checklists.DeleteResponse(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListResponses handles GET /api/v1/responses?inspection_id=.
func (h *HTTPHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	inspectionID := r.URL.Query().Get("inspection_id")
	if inspectionID == "" {
		writeError(w, errors.InvalidInput("inspection_id", "inspection id is required"))
		return
	}

	responses, err := h.checklists.ListResponses(r.Context(), inspectionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"responses": responses})
}

// ResponseSummary handles GET /api/v1/responses/summary?inspection_id=.
func (h *HTTPHandler) ResponseSummary(w http.ResponseWriter, r *http.Request) {
	inspectionID := r.URL.Query().Get("inspection_id")
	if inspectionID == "" {
		writeError(w, errors.InvalidInput("inspection_id", "inspection id is required"))
		return
	}

	groups, err := h.checklists.Summary(r.Context(), inspectionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": groups})
}

// ── Reports ───────────────────────────────────────────────────────────────────

// CreateReport handles POST /api/v1/reports.
func (h *HTTPHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req service.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("body", "invalid request body"))
		return
	}

	report, err := h.reports.CreateReport(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

// GetReport handles GET /api/v1/reports/get?id=.
func (h *HTTPHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, errors.InvalidInput("id", "report id is required"))
		return
	}

	report, err := h.reports.GetReport(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ReportBody handles GET /api/v1/reports/body?id=, returning the rendered
// report body.
func (h *HTTPHandler) ReportBody(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, errors.InvalidInput("id", "report id is required"))
		return
	}

	body, err := h.reports.RenderBody(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// ExportReport handles POST /api/v1/reports/export, rendering the report
// body into the file store.
func (h *HTTPHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("body", "invalid request body"))
		return
	}
	if req.ID == "" {
		writeError(w, errors.InvalidInput("id", "report id is required"))
		return
	}

	name, err := h.reports.ExportBody(r.Context(), req.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"file": name})
}

// DownloadReport handles GET /api/v1/reports/download?file=.
func (h *HTTPHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("file")
	if name == "" {
		writeError(w, errors.InvalidInput("file", "file name is required"))
		return
	}

	data, err := h.reports.DownloadExport(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ApproveReport handles POST /api/v1/reports/approve.
func (h *HTTPHandler) ApproveReport(w http.ResponseWriter, r *http.Request) {
	h.decideReport(w, r, h.approvals.Approve)
}

// RejectReport handles POST /api/v1/reports/reject.
func (h *HTTPHandler) RejectReport(w http.ResponseWriter, r *http.Request) {
	h.decideReport(w, r, h.approvals.Reject)
}

// ListApprovals handles GET /api/v1/reports/approvals?report_id=.
func (h *HTTPHandler) ListApprovals(w http.ResponseWriter, r *http.Request) {
	reportID := r.URL.Query().Get("report_id")
	if reportID == "" {
		writeError(w, errors.InvalidInput("report_id", "report id is required"))
		return
	}

	approvals, err := h.approvals.ListApprovals(r.Context(), reportID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"approvals": approvals})
}

// ReportHistory handles GET /api/v1/reports/history?report_id=.
func (h *HTTPHandler) ReportHistory(w http.ResponseWriter, r *http.Request) {
	reportID := r.URL.Query().Get("report_id")
	if reportID == "" {
		writeError(w, errors.InvalidInput("report_id", "report id is required"))
		return
	}

	history, err := h.approvals.GetHistory(r.Context(), reportID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

// ListReports handles GET /api/v1/reports?project_id=.
func (h *HTTPHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		writeError(w, errors.InvalidInput("project_id", "project id is required"))
		return
	}

	reports, err := h.reports.ListByProject(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

// ListInspections handles GET /api/v1/inspections?project_id=.
func (h *HTTPHandler) ListInspections(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		writeError(w, errors.InvalidInput("project_id", "project id is required"))
		return
	}

	inspections, err := h.inspections.ListByProject(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"inspections": inspections})
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (h *HTTPHandler) transitionInspection(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, actor authctx.Actor, id string) (*repository.Inspection, error),
) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("body", "invalid request body"))
		return
	}
	if req.ID == "" {
		writeError(w, errors.InvalidInput("id", "inspection id is required"))
		return
	}

	inspection, err := fn(r.Context(), actor, req.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inspection)
}

func (h *HTTPHandler) decideReport(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, actor authctx.Actor, reportID, comment string) (*repository.Report, error),
) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req struct {
		ReportID string `json:"report_id"`
		Comment  string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("body", "invalid request body"))
		return
	}
	if req.ReportID == "" {
		writeError(w, errors.InvalidInput("report_id", "report id is required"))
		return
	}

	report, err := fn(r.Context(), actor, req.ReportID, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func requireActor(w http.ResponseWriter, r *http.Request) (authctx.Actor, bool) {
	actor, ok := authctx.FromContext(r.Context())
	if !ok {
		writeError(w, errors.New(errors.ErrCodePermissionDenied, "authentication required"))
		return authctx.Actor{}, false
	}
	return actor, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	resp := map[string]any{"error": err.Error()}
	if fields := errors.FieldsOf(err); len(fields) > 0 {
		resp["fields"] = fields
	}
	writeJSON(w, errors.HTTPStatusOf(err), resp)
}
