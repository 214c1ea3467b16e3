// Package catalog defines the product screen and the product options
// offered by other forms.
package catalog

import (
	"strconv"

	"github.com/thelab/backoffice/internal/crud"
	"github.com/thelab/backoffice/internal/platform/apiclient"
)

// APIPath is the product collection on the remote API.
const APIPath = "/product"

// Product is a catalog item as returned by the API.
type Product struct {
	ID       string                `json:"_id,omitempty"`
	Code     apiclient.LooseString `json:"code"`
	Name     string                `json:"name"`
	Category string                `json:"category"`
	Price    float64               `json:"price"`
	Stock    int                   `json:"stock"`
	Status   bool                  `json:"status"`
}

// Body is the payload of product create and update calls.
type Body struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Status   bool    `json:"status"`
}

type input struct {
	Code     string `form:"code" validate:"required,digits,positive"`
	Name     string `form:"name" validate:"required"`
	Category string `form:"category" validate:"required"`
	Price    string `form:"price" validate:"required,positive"`
	Stock    string `form:"stock" validate:"nonneg"`
}

var messages = map[string]string{
	"code.required":     "O código do produto é obrigatório.",
	"code.digits":       "O código deve conter apenas números (sem espaços ou caracteres especiais).",
	"code.positive":     "O código do produto deve ser um número positivo (maior que zero).",
	"name.required":     "Nome do produto é obrigatório.",
	"category.required": "Categoria é obrigatória.",
	"price.required":    "Preço deve ser um valor positivo maior que zero.",
	"price.positive":    "Preço deve ser um valor positivo maior que zero.",
	"stock.nonneg":      "Estoque deve ser um número maior que zero.",
}

func normalize(v crud.Values) crud.Values {
	v["price"] = crud.NormalizeDecimal(v["price"])
	if v["stock"] == "" {
		v["stock"] = "0"
	}
	return v
}

func decode(_ crud.Mode, v crud.Values) (any, crud.FieldErrors) {
	in := input{
		Code:     v["code"],
		Name:     v["name"],
		Category: v["category"],
		Price:    v["price"],
		Stock:    v["stock"],
	}
	if errs := crud.Check(in, messages); errs != nil {
		return nil, errs
	}
	price, _ := crud.ParseDecimal(in.Price)
	stock, _ := strconv.Atoi(in.Stock)
	return Body{
		Code:     in.Code,
		Name:     in.Name,
		Category: in.Category,
		Price:    price.InexactFloat64(),
		Stock:    stock,
		Status:   v.Checked("status"),
	}, nil
}

func toValues(p Product) crud.Values {
	v := crud.Values{
		"code":     p.Code.String(),
		"name":     p.Name,
		"category": p.Category,
		"price":    strconv.FormatFloat(p.Price, 'f', -1, 64),
		"stock":    strconv.Itoa(p.Stock),
	}
	if p.Status {
		v["status"] = "on"
	}
	return v
}
