package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dangerclosesec/tenantcore/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// InvitationHandler handles API requests for invitations.
type InvitationHandler struct {
	tenants *service.TenantService
}

func NewInvitationHandler(tenants *service.TenantService) *InvitationHandler {
	return &InvitationHandler{tenants: tenants}
}

// Create handles POST /organizations/{orgID}/invitations
func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}

	var input service.InviteMemberInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	out, err := h.tenants.InviteMember(r.Context(), actorFrom(r), orgID, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, out)
}

// List handles GET /organizations/{orgID}/invitations
func (h *InvitationHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}

	invitations, err := h.tenants.ListInvitations(r.Context(), orgID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, invitations)
}

// Accept handles POST /invitations/{invitationID}/accept
func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	invitationID, ok := pathID(w, chi.URLParam(r, "invitationID"), "invitation id")
	if !ok {
		return
	}

	actor := actorFrom(r)
	if actor == uuid.Nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input service.AcceptInvitationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.tenants.AcceptInvitation(r.Context(), invitationID, actor, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, member)
}

// Resend handles POST /invitations/{invitationID}/resend
func (h *InvitationHandler) Resend(w http.ResponseWriter, r *http.Request) {
	invitationID, ok := pathID(w, chi.URLParam(r, "invitationID"), "invitation id")
	if !ok {
		return
	}

	out, err := h.tenants.ResendInvitation(r.Context(), actorFrom(r), invitationID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// Cancel handles POST /invitations/{invitationID}/cancel
func (h *InvitationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	invitationID, ok := pathID(w, chi.URLParam(r, "invitationID"), "invitation id")
	if !ok {
		return
	}

	invitation, err := h.tenants.CancelInvitation(r.Context(), actorFrom(r), invitationID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, invitation)
}
