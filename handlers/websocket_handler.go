package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/club-system/live"
	"github.com/Dosada05/club-system/middleware"
	"github.com/Dosada05/club-system/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub          *live.Hub
	matchService services.MatchService
	upgrader     websocket.Upgrader
}

// NewWebSocketHandler accepts browser connections from allowedOrigins only. A
// "*" entry allows every origin.
func NewWebSocketHandler(hub *live.Hub, ms services.MatchService, allowedOrigins []string) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &WebSocketHandler{
		hub:          hub,
		matchService: ms,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// ServeWs subscribes the caller to the live feed of one match at
// /ws/matches/{matchID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.matchService.GetMatch(r.Context(), matchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	logger := middleware.LoggerFromContext(r.Context())
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		logger.WarnContext(r.Context(), "websocket upgrade failed", slog.Int("match_id", matchID), slog.Any("error", err))
		return
	}

	room := live.MatchRoom(matchID)
	h.hub.Attach(conn, room)
	logger.InfoContext(r.Context(), "websocket client attached", slog.String("room", room))
}
