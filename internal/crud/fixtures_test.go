package crud

import (
	"context"
	"strconv"
	"sync"

	"github.com/thelab/backoffice/internal/activity"
)

type widget struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type widgetInput struct {
	Code  string `form:"code" validate:"required,digits,positive"`
	Name  string `form:"name" validate:"required"`
	Price string `form:"price" validate:"required,positive"`
}

var widgetMessages = map[string]string{
	"code.required":  "Código é obrigatório.",
	"code.digits":    "Código deve conter apenas números.",
	"code.positive":  "Código deve ser maior que zero.",
	"name.required":  "Nome é obrigatório.",
	"price.required": "Preço é obrigatório.",
	"price.positive": "Preço deve ser maior que zero.",
}

func widgetResource() *Resource[widget] {
	return &Resource[widget]{
		Slug:     "widgets",
		Title:    "Widgets",
		Singular: "widget",
		Fields: []Field{
			{Name: "code", Label: "Código", Kind: KindText, Identity: true},
			{Name: "name", Label: "Nome", Kind: KindText},
			{Name: "price", Label: "Preço", Kind: KindDecimal},
		},
		Columns: []Column[widget]{
			{Header: "Código", Value: func(w widget) string { return w.Code }},
			{Header: "Nome", Value: func(w widget) string { return w.Name }},
		},
		Messages: Messages{
			Empty:         "Nenhum widget encontrado.",
			ConfirmDelete: "Excluir este widget?",
			Created:       "Widget cadastrado!",
			Updated:       "Widget atualizado!",
			Deleted:       "Widget excluído!",
		},
		Key: func(w widget) string { return w.Code },
		ToValues: func(w widget) Values {
			return Values{"code": w.Code, "name": w.Name, "price": strconv.FormatFloat(w.Price, 'f', -1, 64)}
		},
		Normalize: func(v Values) Values {
			v["price"] = NormalizeDecimal(v["price"])
			return v
		},
		Decode: func(_ Mode, v Values) (any, FieldErrors) {
			in := widgetInput{Code: v["code"], Name: v["name"], Price: v["price"]}
			if errs := Check(in, widgetMessages); errs != nil {
				return nil, errs
			}
			price, _ := ParseDecimal(in.Price)
			return widget{Code: in.Code, Name: in.Name, Price: price.InexactFloat64()}, nil
		},
	}
}

// fakeGateway is an in-memory API collection that records every call.
type fakeGateway struct {
	mu     sync.Mutex
	items  []widget
	calls  []string
	bodies []any
	tokens []string

	listErr   error
	createErr error
	updateErr error
	deleteErr error
}

func (g *fakeGateway) List(_ context.Context, token string) ([]widget, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "GET")
	g.tokens = append(g.tokens, token)
	if g.listErr != nil {
		return nil, g.listErr
	}
	return append([]widget(nil), g.items...), nil
}

func (g *fakeGateway) Create(_ context.Context, token string, body any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "POST")
	g.tokens = append(g.tokens, token)
	g.bodies = append(g.bodies, body)
	if g.createErr != nil {
		return g.createErr
	}
	g.items = append(g.items, body.(widget))
	return nil
}

func (g *fakeGateway) Update(_ context.Context, token, key string, body any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "PUT "+key)
	g.tokens = append(g.tokens, token)
	g.bodies = append(g.bodies, body)
	if g.updateErr != nil {
		return g.updateErr
	}
	for i, item := range g.items {
		if item.Code == key {
			g.items[i] = body.(widget)
		}
	}
	return nil
}

func (g *fakeGateway) Delete(_ context.Context, token, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "DELETE "+key)
	g.tokens = append(g.tokens, token)
	if g.deleteErr != nil {
		return g.deleteErr
	}
	kept := g.items[:0]
	for _, item := range g.items {
		if item.Code != key {
			kept = append(kept, item)
		}
	}
	g.items = kept
	return nil
}

func (g *fakeGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

type recordingRecorder struct {
	mu     sync.Mutex
	events []activity.Event
}

func (r *recordingRecorder) Record(_ context.Context, ev activity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}
