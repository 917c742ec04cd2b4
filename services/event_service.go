package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/notify"
	"github.com/Dosada05/club-system/repositories"
	"github.com/jonboulle/clockwork"
)

// EventService maintains the append-only ledger of a match. Events never
// touch the stored score.
type EventService interface {
	AddEvent(ctx context.Context, matchID int, input AddEventInput) (*models.MatchEvent, error)
	RemoveEvent(ctx context.Context, matchID, eventID int) error
	ListEvents(ctx context.Context, matchID int) ([]models.MatchEvent, error)
}

type AddEventInput struct {
	Type                models.MatchEventType
	PlayerID            *int
	SubstitutedPlayerID *int
	Minute              int
	Description         *string
}

type eventService struct {
	eventRepo  repositories.EventRepository
	matchRepo  repositories.MatchRepository
	playerRepo repositories.PlayerRepository
	notifier   matchNotifier
}

func NewEventService(
	eventRepo repositories.EventRepository,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	notifier notify.Notifier,
	clock clockwork.Clock,
	logger *slog.Logger,
) EventService {
	logger = loggerOrDefault(logger)
	return &eventService{
		eventRepo:  eventRepo,
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		notifier:   newMatchNotifier(notifier, clock, logger),
	}
}

func validateEvent(input AddEventInput) error {
	verr := newValidationError()
	if !input.Type.IsValid() {
		verr.Add("type", "unknown event type")
	}
	if input.Minute < models.MinEventMinute || input.Minute > models.MaxEventMinute {
		verr.Add("minute", fmt.Sprintf("must be between %d and %d", models.MinEventMinute, models.MaxEventMinute))
	}
	if input.PlayerID != nil && *input.PlayerID <= 0 {
		verr.Add("player_id", "must be a positive id")
	}
	if input.SubstitutedPlayerID != nil && *input.SubstitutedPlayerID <= 0 {
		verr.Add("substituted_player_id", "must be a positive id")
	}

	if input.Type == models.EventSubstitution {
		if input.PlayerID == nil {
			verr.Add("player_id", "required for a substitution (player coming on)")
		}
		if input.SubstitutedPlayerID == nil {
			verr.Add("substituted_player_id", "required for a substitution (player leaving)")
		}
		if input.PlayerID != nil && input.SubstitutedPlayerID != nil && *input.PlayerID == *input.SubstitutedPlayerID {
			verr.Add("substituted_player_id", "must differ from player_id")
		}
	} else if input.SubstitutedPlayerID != nil {
		verr.Add("substituted_player_id", "only allowed on a substitution")
	}
	return verr.OrNil()
}

func (s *eventService) AddEvent(ctx context.Context, matchID int, input AddEventInput) (*models.MatchEvent, error) {
	input.Description = trimmedOrNil(input.Description)
	if err := validateEvent(input); err != nil {
		return nil, err
	}

	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusCancelled || match.Status == models.MatchStatusPostponed {
		return nil, stateConflict(match, "record events on")
	}

	var ids []int
	for _, id := range []*int{input.PlayerID, input.SubstitutedPlayerID} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	if len(ids) > 0 {
		players, err := s.playerRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load event players: %w", err)
		}
		for _, id := range ids {
			if _, ok := players[id]; !ok {
				return nil, notFound("player", id)
			}
		}
	}

	event := &models.MatchEvent{
		MatchID:             matchID,
		Type:                input.Type,
		PlayerID:            input.PlayerID,
		SubstitutedPlayerID: input.SubstitutedPlayerID,
		Minute:              input.Minute,
		Description:         input.Description,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		switch {
		case errors.Is(err, repositories.ErrEventMatchInvalid):
			return nil, notFound("match", matchID)
		case errors.Is(err, repositories.ErrEventPlayerInvalid):
			return nil, fmt.Errorf("%w: an event player was removed concurrently", ErrNotFound)
		default:
			return nil, fmt.Errorf("failed to record event on match %d: %w", matchID, err)
		}
	}

	s.notifier.event(ctx, notify.KindEventAdded, match, event)
	return event, nil
}

func (s *eventService) RemoveEvent(ctx context.Context, matchID, eventID int) error {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, matchID, eventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return notFound("event", eventID)
		}
		return fmt.Errorf("failed to remove event %d: %w", eventID, err)
	}

	s.notifier.event(ctx, notify.KindEventRemoved, match, &models.MatchEvent{ID: eventID, MatchID: matchID})
	return nil
}

func (s *eventService) ListEvents(ctx context.Context, matchID int) ([]models.MatchEvent, error) {
	if _, err := s.loadMatch(ctx, matchID); err != nil {
		return nil, err
	}
	events, err := s.eventRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events of match %d: %w", matchID, err)
	}
	if events == nil {
		return []models.MatchEvent{}, nil
	}
	return events, nil
}

func (s *eventService) loadMatch(ctx context.Context, id int) (*models.MatchRecord, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, notFound("match", id)
		}
		return nil, fmt.Errorf("failed to get match by id %d: %w", id, err)
	}
	return match, nil
}
