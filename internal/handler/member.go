package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dangerclosesec/tenantcore/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// MemberHandler handles API requests for organization memberships.
type MemberHandler struct {
	tenants *service.TenantService
}

func NewMemberHandler(tenants *service.TenantService) *MemberHandler {
	return &MemberHandler{tenants: tenants}
}

// Add handles POST /organizations/{orgID}/members
func (h *MemberHandler) Add(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}

	var input service.AddMemberInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.tenants.AddMember(r.Context(), actorFrom(r), orgID, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, member)
}

// BulkAdd handles POST /organizations/{orgID}/members/bulk
func (h *MemberHandler) BulkAdd(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}

	var input struct {
		Members []service.AddMemberInput `json:"members"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.tenants.BulkAddMembers(r.Context(), actorFrom(r), orgID, input.Members)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// List handles GET /organizations/{orgID}/members with cursor
// pagination.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}

	pageSize := 0
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			pageSize = parsed
		}
	}

	page, err := h.tenants.ListMembers(r.Context(), orgID, r.URL.Query().Get("cursor"), pageSize)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, page)
}

// Remove handles DELETE /organizations/{orgID}/members/{userID}
func (h *MemberHandler) Remove(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}
	userID, ok := pathID(w, chi.URLParam(r, "userID"), "user id")
	if !ok {
		return
	}

	if err := h.tenants.RemoveMember(r.Context(), actorFrom(r), orgID, userID); err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}

// BulkRemove handles POST /organizations/{orgID}/members/bulk-remove
func (h *MemberHandler) BulkRemove(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}

	var input struct {
		UserIDs []uuid.UUID `json:"user_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.tenants.BulkRemoveMembers(r.Context(), actorFrom(r), orgID, input.UserIDs)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// UpdateRole handles PATCH /organizations/{orgID}/members/{userID}/role
func (h *MemberHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}
	userID, ok := pathID(w, chi.URLParam(r, "userID"), "user id")
	if !ok {
		return
	}

	var input struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.tenants.UpdateMemberRole(r.Context(), actorFrom(r), orgID, userID, input.Role)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, member)
}

// Suspend handles POST /organizations/{orgID}/members/{userID}/suspend
func (h *MemberHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}
	userID, ok := pathID(w, chi.URLParam(r, "userID"), "user id")
	if !ok {
		return
	}

	member, err := h.tenants.SuspendMember(r.Context(), actorFrom(r), orgID, userID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, member)
}

// Unsuspend handles POST /organizations/{orgID}/members/{userID}/unsuspend
func (h *MemberHandler) Unsuspend(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}
	userID, ok := pathID(w, chi.URLParam(r, "userID"), "user id")
	if !ok {
		return
	}

	member, err := h.tenants.UnsuspendMember(r.Context(), actorFrom(r), orgID, userID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, member)
}

// Leave handles POST /organizations/{orgID}/members/leave
func (h *MemberHandler) Leave(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}

	if err := h.tenants.LeaveOrganization(r.Context(), actorFrom(r), orgID); err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}

// JoinByDomain handles POST /organizations/{orgID}/members/join
func (h *MemberHandler) JoinByDomain(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}

	actor := actorFrom(r)
	if actor == uuid.Nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	// The email is taken from the validated token, never from the
	// body; the domain match is the authorization decision.
	email := emailFrom(r)
	if email == "" {
		respondWithError(w, http.StatusUnauthorized, "Token carries no email claim")
		return
	}

	var input struct {
		Role string `json:"role,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.tenants.JoinByDomain(r.Context(), orgID, actor, email, input.Role)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, member)
}
