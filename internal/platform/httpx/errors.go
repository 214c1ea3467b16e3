package httpx

import (
	"errors"
	"net/http"

	"github.com/thelab/backoffice/internal/platform/apiclient"
)

// ErrValidation marks input rejected before any remote call.
var ErrValidation = errors.New("validation failed")

// StatusFor picks the status of a page re-rendered after err. Remote answers
// in the 4xx range are passed through; anything the remote side could not
// answer becomes 502.
func StatusFor(err error) int {
	var apiErr *apiclient.Error
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apiclient.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		return apiErr.Status
	default:
		return http.StatusBadGateway
	}
}
