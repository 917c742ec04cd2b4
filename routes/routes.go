package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/club-system/handlers"
	"github.com/Dosada05/club-system/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const requestTimeout = 30 * time.Second

type Handlers struct {
	Health    *handlers.HealthHandler
	Season    *handlers.SeasonHandler
	Team      *handlers.TeamHandler
	Match     *handlers.MatchHandler
	Lineup    *handlers.LineupHandler
	Standings *handlers.StandingsHandler
	WebSocket *handlers.WebSocketHandler
}

func SetupRoutes(router *chi.Mux, h Handlers, logger *slog.Logger, allowedOrigins []string) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", h.Health.Health)

	// Long lived connections stay out of the request timeout.
	router.Get("/ws/matches/{matchID}", h.WebSocket.ServeWs)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(requestTimeout))

		r.Route("/seasons", func(r chi.Router) {
			r.Get("/", h.Season.ListSeasons)
			r.Post("/", h.Season.CreateSeason)
			r.Get("/active", h.Season.GetActiveSeason)

			r.Route("/{seasonID}", func(r chi.Router) {
				r.Get("/", h.Season.GetSeason)
				r.Delete("/", h.Season.DeleteSeason)
				r.Post("/activate", h.Season.ActivateSeason)

				r.Get("/teams", h.Team.ListSeasonTeams)
				r.Post("/teams", h.Team.CreateTeam)

				r.Get("/matches", h.Match.ListSeasonMatches)
				r.Get("/matches/upcoming", h.Match.ListUpcoming)
				r.Get("/matches/recent", h.Match.ListRecentResults)

				r.Get("/standings", h.Standings.GetStandings)
				r.Get("/top-scorers", h.Standings.GetTopScorers)
				r.Post("/archive", h.Standings.ArchiveSeason)
			})
		})

		r.Route("/teams/{teamID}", func(r chi.Router) {
			r.Get("/", h.Team.GetTeam)
			r.Get("/matches", h.Match.ListTeamMatches)
			r.Get("/standing", h.Standings.GetTeamStanding)
		})

		r.Route("/opponents", func(r chi.Router) {
			r.Get("/", h.Team.ListOpponents)
			r.Post("/", h.Team.CreateOpponent)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Post("/", h.Match.CreateMatch)

			r.Route("/{matchID}", func(r chi.Router) {
				r.Get("/", h.Match.GetMatch)
				r.Patch("/", h.Match.UpdateMatch)
				r.Delete("/", h.Match.DeleteMatch)

				r.Post("/start", h.Match.StartMatch)
				r.Post("/postpone", h.Match.PostponeMatch)
				r.Post("/cancel", h.Match.CancelMatch)
				r.Post("/reschedule", h.Match.RescheduleMatch)
				r.Put("/score", h.Match.SetScore)
				r.Post("/finish", h.Match.FinishMatch)
				r.Put("/status", h.Match.CorrectStatus)

				r.Get("/lineup", h.Lineup.GetLineup)
				r.Put("/lineup", h.Lineup.SetLineup)

				r.Get("/events", h.Lineup.ListEvents)
				r.Post("/events", h.Lineup.AddEvent)
				r.Delete("/events/{eventID}", h.Lineup.RemoveEvent)
			})
		})
	})
}
