package handlers

import (
	"net/http"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/services"
)

type LineupHandler struct {
	lineupService services.LineupService
	eventService  services.EventService
}

func NewLineupHandler(ls services.LineupService, es services.EventService) *LineupHandler {
	return &LineupHandler{
		lineupService: ls,
		eventService:  es,
	}
}

type lineupEntryRequest struct {
	PlayerID         int               `json:"player_id"`
	Role             models.LineupRole `json:"role"`
	StartingPosition *int              `json:"starting_position"`
}

type setLineupRequest struct {
	Entries []lineupEntryRequest `json:"entries"`
}

type addEventRequest struct {
	Type                models.MatchEventType `json:"type"`
	PlayerID            *int                  `json:"player_id"`
	SubstitutedPlayerID *int                  `json:"substituted_player_id"`
	Minute              int                   `json:"minute"`
	Description         *string               `json:"description"`
}

func (h *LineupHandler) GetLineup(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	lineup, err := h.lineupService.GetLineup(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"lineup": lineup}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LineupHandler) SetLineup(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req setLineupRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries := make([]services.LineupEntryInput, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = services.LineupEntryInput(e)
	}

	lineup, err := h.lineupService.SetLineup(r.Context(), matchID, entries)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"lineup": lineup}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LineupHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	events, err := h.eventService.ListEvents(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LineupHandler) AddEvent(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req addEventRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.AddEvent(r.Context(), matchID, services.AddEventInput(req))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LineupHandler) RemoveEvent(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.eventService.RemoveEvent(r.Context(), matchID, eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
