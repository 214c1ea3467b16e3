// Package activity keeps the recent-changes feed shown on the dashboard.
package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action names a mutation kind.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Label is the Portuguese verb shown in the feed.
func (a Action) Label() string {
	switch a {
	case ActionCreated:
		return "cadastrou"
	case ActionUpdated:
		return "alterou"
	case ActionDeleted:
		return "excluiu"
	default:
		return string(a)
	}
}

// Event records one successful mutation.
type Event struct {
	ID       string    `json:"id"`
	Resource string    `json:"resource"`
	Action   Action    `json:"action"`
	Key      string    `json:"key"`
	Actor    string    `json:"actor"`
	At       time.Time `json:"at"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(resource string, action Action, key, actor string) Event {
	return Event{
		ID:       uuid.NewString(),
		Resource: resource,
		Action:   action,
		Key:      key,
		Actor:    actor,
		At:       time.Now().UTC(),
	}
}

// Recorder accepts events for asynchronous persistence.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// Discard drops every event.
type Discard struct{}

// Record implements Recorder.
func (Discard) Record(context.Context, Event) error { return nil }
