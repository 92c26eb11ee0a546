package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dangerclosesec/tenantcore/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// TeamHandler handles API requests for teams.
type TeamHandler struct {
	tenants *service.TenantService
}

func NewTeamHandler(tenants *service.TenantService) *TeamHandler {
	return &TeamHandler{tenants: tenants}
}

// Create handles POST /organizations/{orgID}/teams
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}

	var input service.CreateTeamInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	team, err := h.tenants.CreateTeam(r.Context(), actorFrom(r), orgID, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, team)
}

// List handles GET /organizations/{orgID}/teams
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(w, chi.URLParam(r, "orgID"), "organization id")
	if !ok {
		return
	}

	teams, err := h.tenants.ListTeams(r.Context(), orgID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, teams)
}

// Get handles GET /teams/{teamID}
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, chi.URLParam(r, "teamID"), "team id")
	if !ok {
		return
	}

	team, err := h.tenants.GetTeam(r.Context(), teamID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, team)
}

// Update handles PATCH /teams/{teamID}
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, chi.URLParam(r, "teamID"), "team id")
	if !ok {
		return
	}

	var input service.UpdateTeamInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	team, err := h.tenants.UpdateTeam(r.Context(), actorFrom(r), teamID, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, team)
}

// Delete handles DELETE /teams/{teamID}
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, chi.URLParam(r, "teamID"), "team id")
	if !ok {
		return
	}

	if err := h.tenants.DeleteTeam(r.Context(), actorFrom(r), teamID); err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}

// AddMember handles POST /teams/{teamID}/members
func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, chi.URLParam(r, "teamID"), "team id")
	if !ok {
		return
	}

	var input struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	teamMember, err := h.tenants.AddTeamMember(r.Context(), actorFrom(r), teamID, input.UserID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, teamMember)
}

// ListMembers handles GET /teams/{teamID}/members
func (h *TeamHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, chi.URLParam(r, "teamID"), "team id")
	if !ok {
		return
	}

	members, err := h.tenants.ListTeamMembers(r.Context(), teamID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, members)
}

// RemoveMember handles DELETE /teams/{teamID}/members/{userID}
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, chi.URLParam(r, "teamID"), "team id")
	if !ok {
		return
	}
	userID, ok := pathID(w, chi.URLParam(r, "userID"), "user id")
	if !ok {
		return
	}

	if err := h.tenants.RemoveTeamMember(r.Context(), actorFrom(r), teamID, userID); err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}
