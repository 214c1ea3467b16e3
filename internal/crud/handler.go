package crud

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thelab/backoffice/internal/activity"
	"github.com/thelab/backoffice/internal/platform/apiclient"
	"github.com/thelab/backoffice/internal/platform/httpx"
	"github.com/thelab/backoffice/internal/shared"
	"github.com/thelab/backoffice/internal/view"
)

// Template names rendered by Handler.
const (
	TemplateList   = "pages/entity_list.html"
	TemplateForm   = "pages/entity_form.html"
	TemplateDelete = "pages/entity_delete.html"
)

// ConfirmField carries the answer of the delete confirmation.
const ConfirmField = "confirm"

const msgNotFound = "Registro não encontrado."

// Handler serves the list, form and delete pages of one resource. Requests
// must have passed shared.RequireAPIToken.
type Handler[T any] struct {
	resource  *Resource[T]
	gateway   Gateway[T]
	pages     *view.Renderer
	recorder  activity.Recorder
	logger    *slog.Logger
	loginPath string
}

// NewHandler constructs a Handler. A nil recorder discards activity.
func NewHandler[T any](res *Resource[T], gw Gateway[T], pages *view.Renderer, recorder activity.Recorder, logger *slog.Logger) *Handler[T] {
	if recorder == nil {
		recorder = activity.Discard{}
	}
	return &Handler[T]{
		resource:  res,
		gateway:   gw,
		pages:     pages,
		recorder:  recorder,
		logger:    logger,
		loginPath: "/",
	}
}

// MountRoutes registers the resource routes under r.
func (h *Handler[T]) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/new", h.New)
	r.Get("/{key}/edit", h.Edit)
	r.Post("/{key}", h.Update)
	r.Get("/{key}/delete", h.ConfirmDelete)
	r.Post("/{key}/delete", h.Delete)
}

// List renders the freshly fetched collection.
func (h *Handler[T]) List(w http.ResponseWriter, r *http.Request) {
	screen := h.screen(r)
	if err := screen.Load(r.Context()); h.expired(w, r, err) {
		return
	}
	h.renderList(w, r, screen, http.StatusOK)
}

// New renders an empty form.
func (h *Handler[T]) New(w http.ResponseWriter, r *http.Request) {
	form := h.screen(r).Create()
	h.renderForm(w, r, form, http.StatusOK)
}

// Edit renders the form pre-filled with the record identified in the URL.
func (h *Handler[T]) Edit(w http.ResponseWriter, r *http.Request) {
	screen := h.screen(r)
	if err := screen.Load(r.Context()); h.expired(w, r, err) {
		return
	}
	form, err := screen.Edit(chi.URLParam(r, "key"))
	if err != nil {
		h.pages.Redirect(w, r, h.resource.BasePath(), "error", msgNotFound)
		return
	}
	h.renderForm(w, r, form, http.StatusOK)
}

// Create submits a new record.
func (h *Handler[T]) Create(w http.ResponseWriter, r *http.Request) {
	screen := h.screen(r)
	form := screen.Create()
	h.submit(w, r, screen, form, activity.ActionCreated)
}

// Update submits changes to the record identified in the URL.
func (h *Handler[T]) Update(w http.ResponseWriter, r *http.Request) {
	screen := h.screen(r)
	form := NewForm(h.resource, h.gateway, screen.token, screen.Load)
	form.OpenUpdate(chi.URLParam(r, "key"))
	h.submit(w, r, screen, form, activity.ActionUpdated)
}

// ConfirmDelete asks the operator to confirm a delete.
func (h *Handler[T]) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	base := h.resource.BasePath()
	v := DeleteView{
		Title:  "Excluir " + h.resource.Singular,
		Key:    key,
		Label:  h.resource.keyLabel(),
		Value:  key,
		Prompt: h.resource.Messages.ConfirmDelete,
		Action: base + "/" + key + "/delete",
		Cancel: base,
	}
	if h.resource.Describe != nil {
		screen := h.screen(r)
		if err := screen.Load(r.Context()); h.expired(w, r, err) {
			return
		}
		if entity, ok := h.resource.find(screen.Items, key); ok {
			v.Value = h.resource.Describe(entity)
		}
	}
	h.pages.Page(w, r, TemplateDelete, h.resource.Title, v, http.StatusOK)
}

// Delete removes the record when confirmed and renders the list without
// refetching it. When the list could not be fetched beforehand the operator
// is redirected to a fresh list instead.
func (h *Handler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	if r.PostFormValue(ConfirmField) != "yes" {
		http.Redirect(w, r, h.resource.BasePath(), http.StatusSeeOther)
		return
	}
	key := chi.URLParam(r, "key")
	screen := h.screen(r)
	loadErr := screen.Load(r.Context())
	if h.expired(w, r, loadErr) {
		return
	}
	if err := screen.Delete(r.Context(), key, true); err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.renderList(w, r, screen, httpx.StatusFor(err))
		return
	}
	h.record(r, activity.ActionDeleted, key)
	if loadErr != nil {
		h.pages.Redirect(w, r, h.resource.BasePath(), "success", h.resource.Messages.Deleted)
		return
	}
	h.renderList(w, r, screen, http.StatusOK)
}

func (h *Handler[T]) submit(w http.ResponseWriter, r *http.Request, screen *Screen[T], form *Form[T], action activity.Action) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form.Bind(ValuesFrom(r.PostForm))
	summary := h.resource.summary(form.Values)

	err := form.Submit(r.Context())
	switch form.State() {
	case StateInvalid, StateFailed:
		if h.expired(w, r, err) {
			return
		}
		if form.State() == StateFailed {
			h.logger.Warn("submit rejected", slog.String("resource", h.resource.Slug), slog.Any("error", err))
		}
		if form.Mode == ModeUpdate && h.resource.hasDisplay() {
			h.restoreDisplay(r.Context(), screen, form)
		}
		h.renderForm(w, r, form, httpx.StatusFor(err))
		return
	}

	h.record(r, action, summary)
	if h.expired(w, r, err) {
		return
	}
	if action == activity.ActionCreated {
		screen.Notice = h.resource.Messages.Created
	} else {
		screen.Notice = h.resource.Messages.Updated
	}
	h.renderList(w, r, screen, http.StatusOK)
}

// restoreDisplay refills the read-only fields of a rejected update from the
// current server copy. A failed fetch leaves them blank.
func (h *Handler[T]) restoreDisplay(ctx context.Context, screen *Screen[T], form *Form[T]) {
	if err := screen.Load(ctx); err != nil {
		h.logger.Warn("reload display fields", slog.String("resource", h.resource.Slug), slog.Any("error", err))
		return
	}
	if entity, ok := h.resource.find(screen.Items, form.Key); ok {
		form.Restore(entity)
	}
}

func (h *Handler[T]) screen(r *http.Request) *Screen[T] {
	return NewScreen(h.resource, h.gateway, shared.APITokenFromContext(r.Context()), h.logger)
}

// expired signs out and redirects when err says the API no longer accepts
// the token.
func (h *Handler[T]) expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil || !errors.Is(err, apiclient.ErrUnauthorized) {
		return false
	}
	shared.ExpireSession(w, r, h.loginPath)
	return true
}

func (h *Handler[T]) record(r *http.Request, action activity.Action, key string) {
	actor := ""
	if op := shared.SessionFromContext(r.Context()).Operator(); op != nil {
		actor = op.Label()
	}
	ev := activity.NewEvent(h.resource.Slug, action, key, actor)
	if err := h.recorder.Record(context.WithoutCancel(r.Context()), ev); err != nil {
		h.logger.Warn("record activity", slog.String("resource", h.resource.Slug), slog.Any("error", err))
	}
}

func (h *Handler[T]) renderList(w http.ResponseWriter, r *http.Request, screen *Screen[T], status int) {
	h.pages.Page(w, r, TemplateList, h.resource.Title, screen.view(), status)
}

func (h *Handler[T]) renderForm(w http.ResponseWriter, r *http.Request, form *Form[T], status int) {
	var choices map[string][]Choice
	if h.resource.Choices != nil {
		var err error
		choices, err = h.resource.Choices(r.Context(), form.token)
		if err != nil {
			if h.expired(w, r, err) {
				return
			}
			h.logger.Error("load choices", slog.String("resource", h.resource.Slug), slog.Any("error", err))
		}
	}
	h.pages.Page(w, r, TemplateForm, h.resource.Title, form.view(choices), status)
}
