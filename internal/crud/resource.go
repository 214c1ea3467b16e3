// Package crud implements the list, form and delete workflow shared by every
// back-office screen. A Resource describes one entity; Screen, Form and
// Handler drive it against the remote API.
package crud

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/thelab/backoffice/internal/platform/httpx"
)

// FieldKind selects the input widget for a field.
type FieldKind int

const (
	KindText FieldKind = iota
	KindNumber
	KindDecimal
	KindEmail
	KindPassword
	KindSelect
	KindCheckbox
	// KindDisplay fields are shown on edit but never submitted.
	KindDisplay
)

// Field describes one input of a resource form.
type Field struct {
	Name        string
	Label       string
	Kind        FieldKind
	Placeholder string
	// Identity fields hold the resource key and are locked in update mode.
	Identity bool
	// CreateOnly fields are hidden in update mode.
	CreateOnly bool
	MaxLength  int
}

// Choice is one option of a select field.
type Choice struct {
	Value string
	Label string
}

// Column renders one cell of the list table.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// Messages holds the user-facing text of a resource.
type Messages struct {
	Empty         string
	ConfirmDelete string
	Created       string
	Updated       string
	Deleted       string
}

// Values is the raw form input keyed by field name.
type Values map[string]string

// ValuesFrom copies the first value of every key in form.
func ValuesFrom(form url.Values) Values {
	v := make(Values, len(form))
	for key, vals := range form {
		if len(vals) > 0 {
			v[key] = strings.TrimSpace(vals[0])
		}
	}
	return v
}

// FieldErrors maps a field name to its first violated rule message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "crud: invalid input: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, httpx.ErrValidation) match FieldErrors.
func (e FieldErrors) Is(target error) bool {
	return target == httpx.ErrValidation
}

// Resource describes one entity managed by the back office.
type Resource[T any] struct {
	// Slug is the browser path segment, e.g. "produtos".
	Slug     string
	Title    string
	Singular string
	Fields   []Field
	Columns  []Column[T]
	Messages Messages
	// Defaults pre-fill a create form.
	Defaults Values

	// Key returns the identifier used in API member paths.
	Key func(T) string
	// ToValues pre-fills the form from an existing entity.
	ToValues func(T) Values
	// Normalize rewrites raw input before validation. Optional.
	Normalize func(Values) Values
	// Decode validates input and builds the request body sent to the API.
	Decode func(mode Mode, v Values) (any, FieldErrors)
	// Choices supplies select options. Optional.
	Choices func(ctx context.Context, token string) (map[string][]Choice, error)
	// Changed runs after every successful mutation. Optional.
	Changed func(ctx context.Context)
	// Summary names a submitted record in the activity feed. Optional;
	// defaults to the identity field.
	Summary func(Values) string
	// KeyLabel names the key on the delete prompt. Defaults to "Código".
	KeyLabel string
	// Describe names a loaded entity on the delete prompt. Optional;
	// without it the prompt shows the raw key and makes no API call.
	Describe func(T) string
}

// BasePath is the browser path of the list screen.
func (r *Resource[T]) BasePath() string {
	return "/" + r.Slug
}

func (r *Resource[T]) summary(v Values) string {
	if r.Summary != nil {
		return r.Summary(v)
	}
	for _, field := range r.Fields {
		if field.Identity {
			return v[field.Name]
		}
	}
	return ""
}

func (r *Resource[T]) keyLabel() string {
	if r.KeyLabel != "" {
		return r.KeyLabel
	}
	return "Código"
}

func (r *Resource[T]) hasDisplay() bool {
	for _, field := range r.Fields {
		if field.Kind == KindDisplay {
			return true
		}
	}
	return false
}

func (r *Resource[T]) find(items []T, key string) (T, bool) {
	for _, item := range items {
		if r.Key(item) == key {
			return item, true
		}
	}
	var zero T
	return zero, false
}
