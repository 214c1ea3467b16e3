package shared

import "errors"

var (
	// ErrNotSignedIn indicates the session holds no API token.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrSessionExpired indicates the stored API token is past its exp claim.
	ErrSessionExpired = errors.New("session expired")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
