package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Dosada05/club-system/models"
)

// Umbrella errors. Handlers only need these to pick a status code.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrStateConflict    = errors.New("operation not allowed in the current match state")
	ErrConflict         = errors.New("resource conflict")
)

var (
	ErrSeasonInUse              = fmt.Errorf("%w: season still has teams", ErrConflict)
	ErrSeasonNameConflict       = fmt.Errorf("%w: season name already exists", ErrConflict)
	ErrSeasonActivationConflict = fmt.Errorf("%w: another season was activated concurrently", ErrConflict)
	ErrTeamNameConflict         = fmt.Errorf("%w: team name already used in this season and category", ErrConflict)
	ErrOpponentNameConflict     = fmt.Errorf("%w: opponent team already exists", ErrConflict)
	ErrNoActiveSeason           = fmt.Errorf("%w: no active season", ErrNotFound)
	ErrArchiveUnavailable       = errors.New("season archive storage is not configured")
)

// ValidationError carries field level messages. It is returned before any
// write happens.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns nil when no field failed, so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// ReferentialError names an entity id that does not exist.
type ReferentialError struct {
	Entity string
	ID     int
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *ReferentialError) Unwrap() error {
	return ErrNotFound
}

func notFound(entity string, id int) error {
	return &ReferentialError{Entity: entity, ID: id}
}

// StateConflictError is returned when the match status forbids the
// operation. Callers may retry with an override where one is offered.
type StateConflictError struct {
	MatchID   int
	Status    models.MatchStatus
	Operation string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("cannot %s match %d while %s", e.Operation, e.MatchID, e.Status)
}

func (e *StateConflictError) Unwrap() error {
	return ErrStateConflict
}

func stateConflict(match *models.MatchRecord, operation string) error {
	return &StateConflictError{MatchID: match.ID, Status: match.Status, Operation: operation}
}
