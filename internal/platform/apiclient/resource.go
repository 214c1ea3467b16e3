package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

// envelope is the list wrapper used by the remote API: {"data": [...]}.
type envelope[T any] struct {
	Data    []T    `json:"data"`
	Message string `json:"message"`
}

// Resource exposes the list/create/update/delete endpoints under one base path.
type Resource[T any] struct {
	client *Client
	path   string
}

// NewResource binds a resource path such as "/product" to the client.
func NewResource[T any](client *Client, path string) *Resource[T] {
	return &Resource[T]{client: client, path: path}
}

// List fetches the whole collection. A response without a data field yields an
// empty slice.
func (r *Resource[T]) List(ctx context.Context, token string) ([]T, error) {
	var env envelope[T]
	if err := r.client.do(ctx, http.MethodGet, r.path, token, nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []T{}, nil
	}
	return env.Data, nil
}

// Create posts body to the collection.
func (r *Resource[T]) Create(ctx context.Context, token string, body any) error {
	return r.client.do(ctx, http.MethodPost, r.path, token, body, nil)
}

// Update puts body to the member identified by key.
func (r *Resource[T]) Update(ctx context.Context, token, key string, body any) error {
	return r.client.do(ctx, http.MethodPut, r.memberPath(key), token, body, nil)
}

// Delete removes the member identified by key.
func (r *Resource[T]) Delete(ctx context.Context, token, key string) error {
	return r.client.do(ctx, http.MethodDelete, r.memberPath(key), token, nil, nil)
}

func (r *Resource[T]) memberPath(key string) string {
	return r.path + "/" + url.PathEscape(key)
}
