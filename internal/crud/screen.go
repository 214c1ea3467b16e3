package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thelab/backoffice/internal/platform/apiclient"
)

// ErrNotFound is returned when a key is not in the loaded list.
var ErrNotFound = errors.New("crud: record not found")

// Screen is the list state of one resource for a single request.
type Screen[T any] struct {
	resource *Resource[T]
	gateway  Gateway[T]
	token    string
	logger   *slog.Logger
	loaded   bool

	Items []T
	// Failure is shown above the table when the last operation failed.
	Failure string
	// Notice is shown after a successful delete.
	Notice string
}

// NewScreen returns an empty screen bound to the caller's API token.
func NewScreen[T any](res *Resource[T], gw Gateway[T], token string, logger *slog.Logger) *Screen[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Screen[T]{resource: res, gateway: gw, token: token, logger: logger}
}

// Load replaces the list with the server's collection. On failure the list
// is left empty; a 401 is returned as apiclient.ErrUnauthorized.
func (s *Screen[T]) Load(ctx context.Context) error {
	items, err := s.gateway.List(ctx, s.token)
	if err != nil {
		s.Items = nil
		s.loaded = false
		s.logger.Error("load list", slog.String("resource", s.resource.Slug), slog.Any("error", err))
		if !errors.Is(err, apiclient.ErrUnauthorized) {
			s.Failure = apiclient.Message(err, MsgConnection)
		}
		return fmt.Errorf("crud: load %s: %w", s.resource.Slug, err)
	}
	s.Items = items
	s.loaded = true
	return nil
}

// Create opens an empty form whose successful submit reloads this screen.
func (s *Screen[T]) Create() *Form[T] {
	f := NewForm(s.resource, s.gateway, s.token, s.Load)
	f.OpenCreate()
	return f
}

// Edit opens a form pre-filled with the loaded entity identified by key.
func (s *Screen[T]) Edit(key string) (*Form[T], error) {
	entity, ok := s.resource.find(s.Items, key)
	if !ok {
		return nil, ErrNotFound
	}
	f := NewForm(s.resource, s.gateway, s.token, s.Load)
	f.OpenEdit(entity)
	return f, nil
}

// Delete removes key from the server and, once the server confirms, from
// the loaded list. An unconfirmed delete does nothing.
func (s *Screen[T]) Delete(ctx context.Context, key string, confirmed bool) error {
	if !confirmed {
		return nil
	}
	if err := s.gateway.Delete(ctx, s.token, key); err != nil {
		s.logger.Error("delete", slog.String("resource", s.resource.Slug), slog.String("key", key), slog.Any("error", err))
		if !errors.Is(err, apiclient.ErrUnauthorized) {
			s.Failure = apiclient.Message(err, MsgConnection)
		}
		return fmt.Errorf("crud: delete %s %s: %w", s.resource.Slug, key, err)
	}
	kept := s.Items[:0:0]
	for _, item := range s.Items {
		if s.resource.Key(item) != key {
			kept = append(kept, item)
		}
	}
	s.Items = kept
	s.Notice = s.resource.Messages.Deleted
	if s.resource.Changed != nil {
		s.resource.Changed(ctx)
	}
	return nil
}
