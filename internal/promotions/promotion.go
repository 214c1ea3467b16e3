// Package promotions defines the promotion screen. Discounted prices are
// computed by the API and only displayed here.
package promotions

import (
	"context"
	"strconv"

	"github.com/thelab/backoffice/internal/crud"
	"github.com/thelab/backoffice/internal/platform/apiclient"
	"github.com/thelab/backoffice/internal/view"
)

// APIPath is the promotion collection on the remote API.
const APIPath = "/promotion"

// Promotion is a discount on one product as returned by the API.
type Promotion struct {
	ID                 string                `json:"_id,omitempty"`
	Code               apiclient.LooseString `json:"code"`
	ProductCode        apiclient.LooseString `json:"productCode"`
	ProductName        string                `json:"productName"`
	OriginalPrice      float64               `json:"originalPrice"`
	DiscountPercentage float64               `json:"discountPercentage"`
	DiscountedPrice    float64               `json:"discountedPrice"`
	Status             bool                  `json:"status"`
}

// Body is the payload of promotion create and update calls.
type Body struct {
	Code               string  `json:"code"`
	ProductCode        string  `json:"productCode"`
	DiscountPercentage float64 `json:"discountPercentage"`
	Status             bool    `json:"status"`
}

// ProductChoices lists the products a promotion can target.
type ProductChoices interface {
	Choices(ctx context.Context, token string) ([]crud.Choice, error)
}

type input struct {
	Code        string `form:"code" validate:"required,digits,positive"`
	ProductCode string `form:"productCode" validate:"required"`
	Discount    string `form:"discountPercentage" validate:"required,percent"`
}

var messages = map[string]string{
	"code.required":               "O código da promoção é obrigatório.",
	"code.digits":                 "O código deve conter apenas números (sem espaços ou caracteres especiais).",
	"code.positive":               "O código da promoção deve ser um número positivo (maior que zero).",
	"productCode.required":        "Selecione o produto da promoção.",
	"discountPercentage.required": "Desconto é obrigatório.",
	"discountPercentage.percent":  "O desconto deve ser maior que zero e no máximo 100%.",
}

func normalize(v crud.Values) crud.Values {
	v["discountPercentage"] = crud.NormalizeDecimal(v["discountPercentage"])
	return v
}

func decode(_ crud.Mode, v crud.Values) (any, crud.FieldErrors) {
	in := input{
		Code:        v["code"],
		ProductCode: v["productCode"],
		Discount:    v["discountPercentage"],
	}
	if errs := crud.Check(in, messages); errs != nil {
		return nil, errs
	}
	discount, _ := crud.ParseDecimal(in.Discount)
	return Body{
		Code:               in.Code,
		ProductCode:        in.ProductCode,
		DiscountPercentage: discount.InexactFloat64(),
		Status:             v.Checked("status"),
	}, nil
}

func toValues(p Promotion) crud.Values {
	v := crud.Values{
		"code":               p.Code.String(),
		"productCode":        p.ProductCode.String(),
		"discountPercentage": strconv.FormatFloat(p.DiscountPercentage, 'f', -1, 64),
		"originalPrice":      view.Money(p.OriginalPrice),
		"discountedPrice":    view.Money(p.DiscountedPrice),
	}
	if p.Status {
		v["status"] = "on"
	}
	return v
}

// NewResource describes the promotion screen.
func NewResource(products ProductChoices) *crud.Resource[Promotion] {
	return &crud.Resource[Promotion]{
		Slug:     "promocoes",
		Title:    "Promoções",
		Singular: "promoção",
		Fields: []crud.Field{
			{Name: "code", Label: "Código da promoção", Kind: crud.KindText, Identity: true},
			{Name: "productCode", Label: "Produto", Kind: crud.KindSelect},
			{Name: "discountPercentage", Label: "Desconto (%)", Kind: crud.KindDecimal, Placeholder: "10"},
			{Name: "originalPrice", Label: "Preço original", Kind: crud.KindDisplay},
			{Name: "discountedPrice", Label: "Preço com desconto", Kind: crud.KindDisplay},
			{Name: "status", Label: "Ativa", Kind: crud.KindCheckbox},
		},
		Columns: []crud.Column[Promotion]{
			{Header: "Cód. Promo", Value: func(p Promotion) string { return p.Code.String() }},
			{Header: "Produto (Alvo)", Value: func(p Promotion) string { return p.ProductName }},
			{Header: "Preço Original", Value: func(p Promotion) string { return view.Money(p.OriginalPrice) }},
			{Header: "Preço c/ Desc", Value: func(p Promotion) string { return view.Money(p.DiscountedPrice) }},
			{Header: "Desconto", Value: func(p Promotion) string { return view.Percent(p.DiscountPercentage) }},
			{Header: "Status", Value: func(p Promotion) string { return view.Status(p.Status, "Ativa", "Inativa") }},
		},
		Messages: crud.Messages{
			Empty:         "Nenhuma promoção cadastrada.",
			ConfirmDelete: "Tem certeza que deseja excluir essa promoção?",
			Created:       "Promoção cadastrada com sucesso!",
			Updated:       "Promoção atualizada com sucesso!",
			Deleted:       "Promoção excluída com sucesso!",
		},
		Defaults:  crud.Values{"status": "on"},
		Key:       func(p Promotion) string { return p.Code.String() },
		ToValues:  toValues,
		Normalize: normalize,
		Decode:    decode,
		Choices: func(ctx context.Context, token string) (map[string][]crud.Choice, error) {
			choices, err := products.Choices(ctx, token)
			if err != nil {
				return nil, err
			}
			return map[string][]crud.Choice{"productCode": choices}, nil
		},
	}
}

// NewGateway returns the promotion collection on the API.
func NewGateway(client *apiclient.Client) *apiclient.Resource[Promotion] {
	return apiclient.NewResource[Promotion](client, APIPath)
}
