// Package auth signs operators in against the remote API.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/thelab/backoffice/internal/platform/apiclient"
	"github.com/thelab/backoffice/internal/shared"
)

// Failure texts shown on the login page.
const (
	MsgInvalidCredentials = "Email ou senha inválidos."
	MsgConnection         = "Erro de conexão com o servidor."
	MsgBadResponse        = "Resposta inválida do servidor."
)

// Gateway is the remote login endpoint.
type Gateway interface {
	Login(ctx context.Context, creds apiclient.Credentials) (apiclient.LoginResult, error)
}

// Service wraps authentication against the API.
type Service struct {
	gateway Gateway
}

// NewService constructs a new Service.
func NewService(gateway Gateway) *Service {
	return &Service{gateway: gateway}
}

// Authenticate exchanges credentials for an API token and the operator
// identity to keep in session.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, shared.Operator, error) {
	res, err := s.gateway.Login(ctx, apiclient.Credentials{Email: email, Password: password})
	if err != nil {
		return "", shared.Operator{}, err
	}
	op := shared.Operator{Email: email}
	if res.User != nil {
		op.ID = res.User.ID
		op.Name = res.User.Name
		if res.User.Email != "" {
			op.Email = res.User.Email
		}
	}
	return res.Token, op, nil
}

// FailureMessage is the text shown for a failed Authenticate.
func FailureMessage(err error) string {
	var apiErr *apiclient.Error
	switch {
	case apiclient.IsTransport(err):
		return MsgConnection
	case errors.Is(err, apiclient.ErrNoToken):
		return MsgBadResponse
	case errors.As(err, &apiErr) && apiErr.Status >= http.StatusInternalServerError:
		return apiclient.Message(err, MsgConnection)
	default:
		return apiclient.Message(err, MsgInvalidCredentials)
	}
}
