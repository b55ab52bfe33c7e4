package services

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spiceroute/spiceroute-be/internal/models"
)

// EventServiceProvider defines the interface for the editorial audit trail.
type EventServiceProvider interface {
	Record(ctx context.Context, eventType, actor, subject, message string)
	GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error)
}

// EventService records editorial actions (post and account mutations) so
// admins can see who changed what.
type EventService struct {
	db *sql.DB // nil when no database is configured
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

// Record logs an audit event. Recording is best-effort: a failed insert is
// logged and never fails the request that triggered it.
func (s *EventService) Record(ctx context.Context, eventType, actor, subject, message string) {
	if s.db == nil {
		return
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, type, actor, subject, message) VALUES (?, ?, ?, ?, ?)",
		uuid.New().String(), eventType, actor, subject, message)
	if err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record audit event")
	}
}

// GetRecentEvents retrieves the most recent audit events. With no database
// configured it degrades to an empty list.
func (s *EventService) GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	events := []models.Event{}
	if s.db == nil {
		return events, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, actor, subject, message, created_at FROM events ORDER BY created_at DESC, id LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Actor, &event.Subject, &event.Message, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
