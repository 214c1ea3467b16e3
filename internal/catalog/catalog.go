package catalog

import (
	"context"
	"encoding/hex"
	"log/slog"
	"strconv"

	"golang.org/x/crypto/blake2b"

	"github.com/thelab/backoffice/internal/crud"
	"github.com/thelab/backoffice/internal/platform/apiclient"
	"github.com/thelab/backoffice/internal/platform/cache"
	"github.com/thelab/backoffice/internal/view"
)

// Catalog wires the product screen to the API and keeps the product
// options used by the promotion form.
type Catalog struct {
	products *apiclient.Resource[Product]
	options  *cache.Versioned
	logger   *slog.Logger
	resource *crud.Resource[Product]
}

// Option is a cached product summary.
type Option struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// New constructs a Catalog. A nil options cache fetches options on every call.
func New(client *apiclient.Client, options *cache.Versioned, logger *slog.Logger) *Catalog {
	c := &Catalog{
		products: apiclient.NewResource[Product](client, APIPath),
		options:  options,
		logger:   logger,
	}
	c.resource = &crud.Resource[Product]{
		Slug:     "produtos",
		Title:    "Produtos",
		Singular: "produto",
		Fields: []crud.Field{
			{Name: "code", Label: "Código", Kind: crud.KindText, Identity: true, Placeholder: "Ex: 101"},
			{Name: "name", Label: "Nome", Kind: crud.KindText},
			{Name: "category", Label: "Categoria", Kind: crud.KindText},
			{Name: "price", Label: "Preço (R$)", Kind: crud.KindDecimal, Placeholder: "0,00"},
			{Name: "stock", Label: "Estoque", Kind: crud.KindNumber},
			{Name: "status", Label: "Ativo", Kind: crud.KindCheckbox},
		},
		Columns: []crud.Column[Product]{
			{Header: "Código", Value: func(p Product) string { return p.Code.String() }},
			{Header: "Nome", Value: func(p Product) string { return p.Name }},
			{Header: "Categoria", Value: func(p Product) string { return p.Category }},
			{Header: "Estoque", Value: func(p Product) string { return strconv.Itoa(p.Stock) }},
			{Header: "Preço", Value: func(p Product) string { return view.Money(p.Price) }},
			{Header: "Status", Value: func(p Product) string { return view.Status(p.Status, "Ativo", "Inativo") }},
		},
		Messages: crud.Messages{
			Empty:         "Nenhum produto encontrado.",
			ConfirmDelete: "Tem certeza que deseja excluir esse produto?",
			Created:       "Produto cadastrado com sucesso!",
			Updated:       "Produto atualizado com sucesso!",
			Deleted:       "Produto excluído com sucesso!",
		},
		Defaults:  crud.Values{"status": "on", "stock": "0"},
		Key:       func(p Product) string { return p.Code.String() },
		ToValues:  toValues,
		Normalize: normalize,
		Decode:    decode,
		Changed:   c.invalidate,
	}
	return c
}

// Resource describes the product screen.
func (c *Catalog) Resource() *crud.Resource[Product] {
	return c.resource
}

// Gateway is the product collection on the API.
func (c *Catalog) Gateway() *apiclient.Resource[Product] {
	return c.products
}

// Options lists the products visible to token, cached per token.
func (c *Catalog) Options(ctx context.Context, token string) ([]Option, error) {
	key, err := c.options.Key(ctx, "options", tokenDigest(token))
	if err != nil {
		return nil, err
	}
	var opts []Option
	err = c.options.FetchJSON(ctx, key, &opts, func(ctx context.Context) (any, error) {
		products, err := c.products.List(ctx, token)
		if err != nil {
			return nil, err
		}
		out := make([]Option, 0, len(products))
		for _, p := range products {
			out = append(out, Option{Code: p.Code.String(), Name: p.Name, Price: p.Price})
		}
		return out, nil
	})
	return opts, err
}

// Choices renders Options as select choices.
func (c *Catalog) Choices(ctx context.Context, token string) ([]crud.Choice, error) {
	opts, err := c.Options(ctx, token)
	if err != nil {
		return nil, err
	}
	choices := make([]crud.Choice, 0, len(opts))
	for _, o := range opts {
		choices = append(choices, crud.Choice{Value: o.Code, Label: o.Name + " (" + view.Money(o.Price) + ")"})
	}
	return choices, nil
}

func (c *Catalog) invalidate(ctx context.Context) {
	if err := c.options.Bump(ctx); err != nil && c.logger != nil {
		c.logger.Warn("invalidate product options", slog.Any("error", err))
	}
}

// tokenDigest keeps bearer tokens out of Redis key names.
func tokenDigest(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}
