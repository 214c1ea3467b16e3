package crud

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thelab/backoffice/internal/platform/apiclient"
)

func TestLoadReplacesWholesale(t *testing.T) {
	gw := &fakeGateway{items: []widget{{Code: "1", Name: "Whey"}}}
	screen := NewScreen[widget](widgetResource(), gw, "tok", nil)
	screen.Items = []widget{{Code: "stale"}}

	require.NoError(t, screen.Load(context.Background()))
	assert.Equal(t, []widget{{Code: "1", Name: "Whey"}}, screen.Items)
	assert.Equal(t, []string{"tok"}, gw.tokens)
}

func TestLoadFailureLeavesListEmpty(t *testing.T) {
	gw := &fakeGateway{listErr: fmt.Errorf("dial: %w", apiclient.ErrTransport)}
	screen := NewScreen[widget](widgetResource(), gw, "tok", nil)
	screen.Items = []widget{{Code: "1"}}

	err := screen.Load(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrTransport)
	assert.Empty(t, screen.Items)
	assert.Equal(t, MsgConnection, screen.Failure)
}

func TestLoadUnauthorized(t *testing.T) {
	gw := &fakeGateway{listErr: &apiclient.Error{Status: http.StatusUnauthorized}}
	screen := NewScreen[widget](widgetResource(), gw, "tok", nil)

	err := screen.Load(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	assert.Empty(t, screen.Failure)
}

func TestDeclinedDeleteMakesNoRequest(t *testing.T) {
	gw := &fakeGateway{items: []widget{{Code: "1"}, {Code: "2"}}}
	screen := NewScreen[widget](widgetResource(), gw, "tok", nil)
	require.NoError(t, screen.Load(context.Background()))

	require.NoError(t, screen.Delete(context.Background(), "1", false))
	assert.Len(t, screen.Items, 2)
	assert.Equal(t, []string{"GET"}, gw.Calls())
}

func TestConfirmedDeleteRemovesRowWithoutRefetch(t *testing.T) {
	gw := &fakeGateway{items: []widget{{Code: "1"}, {Code: "2"}}}
	changed := 0
	res := widgetResource()
	res.Changed = func(context.Context) { changed++ }
	screen := NewScreen[widget](res, gw, "tok", nil)
	require.NoError(t, screen.Load(context.Background()))

	require.NoError(t, screen.Delete(context.Background(), "1", true))
	assert.Equal(t, []widget{{Code: "2"}}, screen.Items)
	assert.Equal(t, []string{"GET", "DELETE 1"}, gw.Calls())
	assert.Equal(t, "Widget excluído!", screen.Notice)
	assert.Equal(t, 1, changed)
}

func TestFailedDeleteKeepsRow(t *testing.T) {
	gw := &fakeGateway{
		items:     []widget{{Code: "1"}},
		deleteErr: &apiclient.Error{Status: http.StatusConflict, Message: "Produto possui promoções"},
	}
	screen := NewScreen[widget](widgetResource(), gw, "tok", nil)
	require.NoError(t, screen.Load(context.Background()))

	require.Error(t, screen.Delete(context.Background(), "1", true))
	assert.Len(t, screen.Items, 1)
	assert.Equal(t, "Produto possui promoções", screen.Failure)
	assert.Empty(t, screen.Notice)
}

func TestEditFlow(t *testing.T) {
	gw := &fakeGateway{items: []widget{{Code: "1", Name: "Whey", Price: 129.9}}}
	screen := NewScreen[widget](widgetResource(), gw, "tok", nil)
	require.NoError(t, screen.Load(context.Background()))

	form, err := screen.Edit("1")
	require.NoError(t, err)
	assert.Equal(t, ModeUpdate, form.Mode)
	assert.Equal(t, Values{"code": "1", "name": "Whey", "price": "129.9"}, form.Values)

	values := Values{}
	for k, v := range form.Values {
		values[k] = v
	}
	values["name"] = "Whey 2"
	form.Bind(values)
	require.NoError(t, form.Submit(context.Background()))

	assert.Equal(t, []string{"GET", "PUT 1", "GET"}, gw.Calls())
	assert.Equal(t, widget{Code: "1", Name: "Whey 2", Price: 129.9}, gw.bodies[0])
	require.Len(t, screen.Items, 1)
	assert.Equal(t, "Whey 2", screen.Items[0].Name)
}

func TestEditUnknownKey(t *testing.T) {
	screen := NewScreen[widget](widgetResource(), &fakeGateway{}, "tok", nil)
	_, err := screen.Edit("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFieldErrorsMessage(t *testing.T) {
	err := FieldErrors{"name": "b", "code": "a"}
	assert.Equal(t, "crud: invalid input: code: a; name: b", err.Error())
}
