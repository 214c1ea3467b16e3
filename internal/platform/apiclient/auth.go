package apiclient

import (
	"context"
	"net/http"
	"strings"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Account is the optional user block some server revisions return on login.
type Account struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResult is the body of a successful POST /users/login.
type LoginResult struct {
	Token   string   `json:"token"`
	Message string   `json:"message"`
	User    *Account `json:"user,omitempty"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/users/login", "", creds, &result); err != nil {
		return LoginResult{}, err
	}
	result.Token = strings.TrimSpace(result.Token)
	if result.Token == "" {
		return LoginResult{}, ErrNoToken
	}
	return result, nil
}
