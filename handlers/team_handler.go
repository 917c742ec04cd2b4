package handlers

import (
	"net/http"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/services"
)

type TeamHandler struct {
	teamService     services.TeamService
	opponentService services.OpponentService
}

func NewTeamHandler(ts services.TeamService, ops services.OpponentService) *TeamHandler {
	return &TeamHandler{
		teamService:     ts,
		opponentService: ops,
	}
}

type createTeamRequest struct {
	Name     string          `json:"name"`
	Category models.Category `json:"category"`
	IsActive *bool           `json:"is_active"`
}

func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req createTeamRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), seasonID, services.CreateTeamInput{
		Name:     req.Name,
		Category: req.Category,
		IsActive: req.IsActive,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) ListSeasonTeams(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.teamService.ListSeasonTeams(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type createOpponentRequest struct {
	Name         string `json:"name"`
	Rank         *int   `json:"rank"`
	Won          int    `json:"won"`
	Drawn        int    `json:"drawn"`
	Lost         int    `json:"lost"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
}

func (h *TeamHandler) CreateOpponent(w http.ResponseWriter, r *http.Request) {
	var req createOpponentRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	opponent, err := h.opponentService.CreateOpponent(r.Context(), services.CreateOpponentInput(req))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"opponent": opponent}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) ListOpponents(w http.ResponseWriter, r *http.Request) {
	opponents, err := h.opponentService.ListOpponents(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"opponents": opponents}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
