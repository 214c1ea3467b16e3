package crud

import (
	"context"
	"errors"
	"fmt"

	"github.com/thelab/backoffice/internal/platform/apiclient"
)

// Mode tells whether a submit inserts or updates.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// State is the lifecycle position of a Form.
type State int

const (
	StateClosed State = iota
	StateEditing
	StateInvalid
	StateSubmitting
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateEditing:
		return "editing"
	case StateInvalid:
		return "invalid"
	case StateSubmitting:
		return "submitting"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Generic failure texts.
const (
	MsgConnection    = "Erro de conexão com o servidor."
	MsgUnknownSubmit = "Erro desconhecido ao cadastrar."
	submitFailPrefix = "Falha no cadastro: "
)

// ErrFormClosed is returned by Submit on a form that was never opened.
var ErrFormClosed = errors.New("crud: form is closed")

// Gateway is the remote collection a screen works against.
type Gateway[T any] interface {
	List(ctx context.Context, token string) ([]T, error)
	Create(ctx context.Context, token string, body any) error
	Update(ctx context.Context, token, key string, body any) error
	Delete(ctx context.Context, token, key string) error
}

// Form holds the input of one create or update and its validation state.
type Form[T any] struct {
	resource  *Resource[T]
	gateway   Gateway[T]
	token     string
	onSuccess func(context.Context) error

	state   State
	Mode    Mode
	Key     string
	Values  Values
	Errors  FieldErrors
	Failure string
}

// NewForm returns a closed form. onSuccess runs after the API accepts a
// submit; screens use it to refetch their list.
func NewForm[T any](res *Resource[T], gw Gateway[T], token string, onSuccess func(context.Context) error) *Form[T] {
	return &Form[T]{resource: res, gateway: gw, token: token, onSuccess: onSuccess}
}

// State reports the current lifecycle position.
func (f *Form[T]) State() State {
	return f.state
}

// OpenCreate opens an empty form.
func (f *Form[T]) OpenCreate() {
	f.reset()
	f.Mode = ModeCreate
	f.Values = make(Values, len(f.resource.Defaults))
	for k, v := range f.resource.Defaults {
		f.Values[k] = v
	}
	f.state = StateEditing
}

// OpenEdit opens the form pre-filled from entity.
func (f *Form[T]) OpenEdit(entity T) {
	f.reset()
	f.Mode = ModeUpdate
	f.Key = f.resource.Key(entity)
	f.Values = f.resource.ToValues(entity)
	f.state = StateEditing
}

// OpenUpdate opens an update of key without pre-filled values; Bind
// supplies them.
func (f *Form[T]) OpenUpdate(key string) {
	f.reset()
	f.Mode = ModeUpdate
	f.Key = key
	f.Values = Values{}
	f.state = StateEditing
}

// Restore copies the display-only values of entity into the form. Those
// fields are never posted back, so a re-rendered update needs them.
func (f *Form[T]) Restore(entity T) {
	if f.Values == nil {
		f.Values = Values{}
	}
	src := f.resource.ToValues(entity)
	for _, field := range f.resource.Fields {
		if field.Kind == KindDisplay {
			f.Values[field.Name] = src[field.Name]
		}
	}
}

// Bind replaces the input with what the operator typed. In update mode
// the identity fields keep the key taken from the URL.
func (f *Form[T]) Bind(v Values) {
	if v == nil {
		v = Values{}
	}
	if f.resource.Normalize != nil {
		v = f.resource.Normalize(v)
	}
	if f.Mode == ModeUpdate {
		for _, field := range f.resource.Fields {
			if field.Identity {
				v[field.Name] = f.Key
			}
		}
	}
	f.Values = v
}

// Close discards everything typed so far.
func (f *Form[T]) Close() {
	f.reset()
	f.state = StateClosed
}

// Submit validates and, when valid, sends the input to the API. Invalid
// input never reaches the network.
func (f *Form[T]) Submit(ctx context.Context) error {
	if f.state == StateClosed {
		return ErrFormClosed
	}
	f.Errors = nil
	f.Failure = ""

	body, ferrs := f.resource.Decode(f.Mode, f.Values)
	if len(ferrs) > 0 {
		f.Errors = ferrs
		f.state = StateInvalid
		return ferrs
	}

	f.state = StateSubmitting
	var err error
	if f.Mode == ModeUpdate {
		err = f.gateway.Update(ctx, f.token, f.Key, body)
	} else {
		err = f.gateway.Create(ctx, f.token, body)
	}
	if err != nil {
		f.state = StateFailed
		f.Failure = submitFailure(err)
		return err
	}

	if f.resource.Changed != nil {
		f.resource.Changed(ctx)
	}
	f.Close()
	if f.onSuccess != nil {
		return f.onSuccess(ctx)
	}
	return nil
}

func (f *Form[T]) reset() {
	f.Key = ""
	f.Values = nil
	f.Errors = nil
	f.Failure = ""
}

func submitFailure(err error) string {
	if apiclient.IsTransport(err) {
		return MsgConnection
	}
	if msg := apiclient.Message(err, ""); msg != "" {
		return submitFailPrefix + msg
	}
	return MsgUnknownSubmit
}
