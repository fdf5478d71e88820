package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Type identifies a domain event.
type Type string

const (
	TypeCarnivalImported     Type = "carnival.imported"
	TypeCarnivalClaimed      Type = "carnival.claimed"
	TypeAttendanceRegistered Type = "attendance.registered"
	TypePlayerAssigned       Type = "player.assigned"
	TypePlayerWithdrawn      Type = "player.withdrawn"
)

// Event is an immutable record of something that happened in the registration
// core. Consumers must not rely on delivery: emission is fire-and-forget.
type Event struct {
	ID         uuid.UUID   `json:"id"`
	Type       Type        `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

func New(t Type, payload interface{}) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Payloads, one struct per event type.

type CarnivalImported struct {
	CarnivalID   int    `json:"carnival_id"`
	MySidelineID string `json:"mysideline_id"`
	Title        string `json:"title"`
}

type CarnivalClaimed struct {
	CarnivalID int `json:"carnival_id"`
	UserID     int `json:"user_id"`
}

type AttendanceRegistered struct {
	CarnivalClubID int `json:"carnival_club_id"`
	CarnivalID     int `json:"carnival_id"`
	ClubID         int `json:"club_id"`
	NumberOfTeams  int `json:"number_of_teams"`
}

type PlayerAssigned struct {
	AssignmentID   int  `json:"assignment_id"`
	CarnivalClubID int  `json:"carnival_club_id"`
	ClubPlayerID   int  `json:"club_player_id"`
	TeamNumber     *int `json:"team_number,omitempty"`
}

type PlayerWithdrawn struct {
	AssignmentID   int `json:"assignment_id"`
	CarnivalClubID int `json:"carnival_club_id"`
	ClubPlayerID   int `json:"club_player_id"`
}

// Sink receives domain events. Implementations must be non-blocking from the
// caller's point of view and must never return delivery problems to the core.
type Sink interface {
	Publish(ctx context.Context, event Event)
}

// LogSink writes every event to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(_ context.Context, event Event) {
	s.logger.Info("domain event",
		slog.String("event_id", event.ID.String()),
		slog.String("type", string(event.Type)),
		slog.Time("occurred_at", event.OccurredAt),
		slog.Any("payload", event.Payload),
	)
}

// MultiSink fans an event out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) Publish(ctx context.Context, event Event) {
	for _, sink := range m {
		sink.Publish(ctx, event)
	}
}
