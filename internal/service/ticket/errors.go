package ticket

import "errors"

var (
	ErrNotFound      = errors.New("ticket not found")
	ErrQuotaExceeded = errors.New("monthly ticket quota exceeded")
	ErrNoSession     = errors.New("no authenticated session")
)
