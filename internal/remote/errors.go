package remote

import (
	"errors"
	"net"
	"net/url"
	"strings"
)

// APIError is a structured error response from the remote store.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return "remote store: " + e.Code + ": " + e.Message
	}
	return "remote store: " + e.Message
}

// Postgres error codes the prober relies on.
const (
	codeUndefinedColumn = "42703"
	codeUndefinedTable  = "42P01"
)

// IsMissingColumn reports whether err is the store telling us an optional
// column does not exist. Recognized either by the undefined-column code or by
// a message naming the column alongside the word "column" or "chat".
func IsMissingColumn(err error, column string) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code == codeUndefinedColumn {
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	if column != "" && strings.Contains(msg, strings.ToLower(column)) {
		return strings.Contains(msg, "column") || strings.Contains(msg, "chat")
	}
	return false
}

// IsMissingRelation reports whether err is the store telling us a whole table
// does not exist.
func IsMissingRelation(err error, table string) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code == codeUndefinedTable {
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	if table != "" && strings.Contains(msg, strings.ToLower(table)) {
		return strings.Contains(msg, "relation") || strings.Contains(msg, "table") || strings.Contains(msg, "chat")
	}
	return false
}

// IsSchemaAbsence reports whether err is an expected absence of an optional
// column or table, as opposed to a real failure.
func IsSchemaAbsence(err error, name string) bool {
	return IsMissingColumn(err, name) || IsMissingRelation(err, name)
}

// IsNetworkError reports whether err looks like a transient transport
// failure rather than a store-level rejection.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "failed to fetch") ||
		strings.Contains(msg, "network error") ||
		strings.Contains(msg, "connection refused")
}

// IsQuotaError reports whether err is the store refusing a write because the
// tenant's plan is exhausted.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") || strings.Contains(msg, "limit")
}
