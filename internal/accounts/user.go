// Package accounts defines the back-office user screen.
package accounts

import (
	"strings"
	"unicode"

	"github.com/thelab/backoffice/internal/crud"
	"github.com/thelab/backoffice/internal/platform/apiclient"
)

// APIPath is the user collection on the remote API.
const APIPath = "/users"

// User is an account as returned by the API. Passwords never come back.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	CPF   string `json:"cpf"`
	Email string `json:"email"`
}

// Body is the payload of user create and update calls. An empty password
// is left out so an update keeps the current one.
type Body struct {
	Name     string `json:"name"`
	CPF      string `json:"cpf"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

type createInput struct {
	Name     string `form:"name" validate:"required"`
	CPF      string `form:"cpf" validate:"required,cpf"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

type updateInput struct {
	Name     string `form:"name" validate:"required"`
	CPF      string `form:"cpf" validate:"required,cpf"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"omitempty,min=6"`
}

var messages = map[string]string{
	"name.required":     "Nome é obrigatório.",
	"cpf.required":      "CPF é obrigatório.",
	"cpf.cpf":           "CPF inválido.",
	"email.required":    "Email é obrigatório.",
	"email.email":       "Email inválido.",
	"password.required": "Senha é obrigatória.",
	"password.min":      "A senha deve ter no mínimo 6 caracteres.",
}

// MaskCPF keeps the first eleven digits of raw and groups them as
// 000.000.000-00. Partial input is grouped as far as it goes.
func MaskCPF(raw string) string {
	digits := make([]rune, 0, 11)
	for _, r := range raw {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			digits = append(digits, r)
			if len(digits) == 11 {
				break
			}
		}
	}
	var b strings.Builder
	for i, r := range digits {
		switch {
		case i == 3 || i == 6:
			b.WriteByte('.')
		case i == 9:
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func normalize(v crud.Values) crud.Values {
	v["cpf"] = MaskCPF(v["cpf"])
	return v
}

func decode(mode crud.Mode, v crud.Values) (any, crud.FieldErrors) {
	body := Body{Name: v["name"], CPF: v["cpf"], Email: v["email"], Password: v["password"]}
	var in any = createInput(body)
	if mode == crud.ModeUpdate {
		in = updateInput(body)
	}
	if errs := crud.Check(in, messages); errs != nil {
		return nil, errs
	}
	return body, nil
}

func toValues(u User) crud.Values {
	return crud.Values{"name": u.Name, "cpf": u.CPF, "email": u.Email}
}

// NewResource describes the user screen.
func NewResource() *crud.Resource[User] {
	return &crud.Resource[User]{
		Slug:     "usuarios",
		Title:    "Usuários",
		Singular: "usuário",
		Fields: []crud.Field{
			{Name: "name", Label: "Nome", Kind: crud.KindText},
			{Name: "cpf", Label: "CPF", Kind: crud.KindText, Placeholder: "000.000.000-00", MaxLength: 14},
			{Name: "email", Label: "Email", Kind: crud.KindEmail},
			{Name: "password", Label: "Senha", Kind: crud.KindPassword, Placeholder: "Mínimo de 6 caracteres"},
		},
		Columns: []crud.Column[User]{
			{Header: "Nome", Value: func(u User) string { return u.Name }},
			{Header: "CPF", Value: func(u User) string { return u.CPF }},
			{Header: "Email", Value: func(u User) string { return u.Email }},
		},
		Messages: crud.Messages{
			Empty:         "Nenhum usuário cadastrado.",
			ConfirmDelete: "Tem certeza que deseja excluir esse usuário?",
			Created:       "Usuário cadastrado com sucesso!",
			Updated:       "Usuário atualizado com sucesso!",
			Deleted:       "Usuário excluído com sucesso!",
		},
		Key:       func(u User) string { return u.ID },
		ToValues:  toValues,
		Normalize: normalize,
		Decode:    decode,
		Summary:   func(v crud.Values) string { return v["email"] },
		KeyLabel:  "Email",
		Describe:  func(u User) string { return u.Email },
	}
}

// NewGateway returns the user collection on the API.
func NewGateway(client *apiclient.Client) *apiclient.Resource[User] {
	return apiclient.NewResource[User](client, APIPath)
}
