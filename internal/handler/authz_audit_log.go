package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dangerclosesec/tenantcore/internal/repository"
	"github.com/dangerclosesec/tenantcore/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// AuthzAuditLogHandler serves the read API over the authorization
// decision trail.
type AuthzAuditLogHandler struct {
	auditLogs *service.AuthzAuditLogService
}

// NewAuthzAuditLogHandler creates a new audit log handler
func NewAuthzAuditLogHandler(auditLogs *service.AuthzAuditLogService) *AuthzAuditLogHandler {
	return &AuthzAuditLogHandler{auditLogs: auditLogs}
}

type auditLogPage struct {
	BaseResponse
	Logs  interface{} `json:"logs"`
	Total int64       `json:"total"`
}

// GetAuditLogs lists decision records matching the query string
// filters. Malformed filter values are ignored rather than rejected;
// the trail is an operator surface and partial filters still narrow
// the result usefully.
func (h *AuthzAuditLogHandler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	params := auditQueryFrom(r)

	logs, total, err := h.auditLogs.GetAuditLogs(r.Context(), params)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, auditLogPage{
		BaseResponse: BaseResponse{Ok: true},
		Logs:         logs,
		Total:        total,
	})
}

// GetAuditLogByID returns a single decision record.
func (h *AuthzAuditLogHandler) GetAuditLogByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid audit log ID")
		return
	}

	log, err := h.auditLogs.GetAuditLogByID(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, log)
}

func auditQueryFrom(r *http.Request) repository.QueryParams {
	q := r.URL.Query()

	params := repository.QueryParams{
		ActionType:  q.Get("action_type"),
		EntityType:  q.Get("entity_type"),
		EntityID:    q.Get("entity_id"),
		SubjectType: q.Get("subject_type"),
		SubjectID:   q.Get("subject_id"),
	}

	if raw := q.Get("result"); raw != "" {
		if result, err := strconv.ParseBool(raw); err == nil {
			params.Result = &result
		}
	}
	if raw := q.Get("start_time"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			params.StartTime = ts
		}
	}
	if raw := q.Get("end_time"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			params.EndTime = ts
		}
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		params.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset >= 0 {
		params.Offset = offset
	}

	return params
}
