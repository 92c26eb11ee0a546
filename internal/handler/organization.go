package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dangerclosesec/tenantcore/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// OrganizationHandler handles API requests for organizations.
type OrganizationHandler struct {
	tenants *service.TenantService
}

func NewOrganizationHandler(tenants *service.TenantService) *OrganizationHandler {
	return &OrganizationHandler{tenants: tenants}
}

// Create handles POST /organizations
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateOrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	org, err := h.tenants.CreateOrganization(r.Context(), actorFrom(r), input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, org)
}

// Get handles GET /organizations/{orgID}
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}

	org, err := h.tenants.GetOrganization(r.Context(), orgID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, org)
}

// GetBySlug handles GET /organizations/slug/{slug}
func (h *OrganizationHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		respondWithError(w, http.StatusBadRequest, "invalid organization slug")
		return
	}

	org, err := h.tenants.GetOrganizationBySlug(r.Context(), slug)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, org)
}

// List handles GET /organizations, returning the caller's
// organizations.
func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if actor == uuid.Nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	orgs, err := h.tenants.ListOrganizationsByUser(r.Context(), actor)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, orgs)
}

// Update handles PATCH /organizations/{orgID}
func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}

	var input service.UpdateOrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	org, err := h.tenants.UpdateOrganization(r.Context(), actorFrom(r), orgID, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, org)
}

// Delete handles DELETE /organizations/{orgID}
func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}

	if err := h.tenants.DeleteOrganization(r.Context(), actorFrom(r), orgID); err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}

// TransferOwnership handles POST /organizations/{orgID}/transfer
func (h *OrganizationHandler) TransferOwnership(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}

	var input struct {
		NewOwnerID uuid.UUID `json:"new_owner_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.tenants.TransferOwnership(r.Context(), actorFrom(r), orgID, input.NewOwnerID); err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}

// GetUserRoles handles GET /organizations/{orgID}/users/{userID}/roles
func (h *OrganizationHandler) GetUserRoles(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}
	userID, ok := pathID(w, chi.URLParam(r, "userID"), "user id")
	if !ok {
		return
	}

	roles, err := h.tenants.GetUserRoles(r.Context(), orgID, userID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"roles": roles})
}

// GetUserPermissions handles GET /organizations/{orgID}/users/{userID}/permissions
func (h *OrganizationHandler) GetUserPermissions(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}
	userID, ok := pathID(w, chi.URLParam(r, "userID"), "user id")
	if !ok {
		return
	}

	permissions, err := h.tenants.GetUserPermissions(r.Context(), orgID, userID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"permissions": permissions})
}
