// Package remote talks to the relational store over its HTTP API. The store's
// schema is not known at compile time, so rows travel as loosely-typed maps
// and column lists are chosen by the caller at runtime.
package remote

import (
	"context"
	"encoding/json"
	"strings"
)

// Row is one record as returned by (or sent to) the remote store.
type Row map[string]any

// Filter is a single condition on a read or write.
type Filter struct {
	Column string
	Op     string
	Value  string
}

// Eq matches rows whose column equals value.
func Eq(column, value string) Filter {
	return Filter{Column: column, Op: "eq", Value: value}
}

// In matches rows whose column is one of values.
func In(column string, values []string) Filter {
	return Filter{Column: column, Op: "in", Value: "(" + strings.Join(values, ",") + ")"}
}

// Query describes a read. A zero Limit means no limit; OrderBy is optional.
type Query struct {
	Table     string
	Columns   []string
	Filters   []Filter
	OrderBy   string
	Ascending bool
	Limit     int
}

// Store is the surface of the remote relational store consumed by the sync
// layer. *Client implements it; tests substitute in-memory fakes.
type Store interface {
	Select(ctx context.Context, q Query) ([]Row, error)
	Insert(ctx context.Context, table string, rows []Row, returning bool) ([]Row, error)
	Update(ctx context.Context, table string, patch Row, filters []Filter, returning bool) ([]Row, error)
	Delete(ctx context.Context, table string, filters []Filter) error
	RPC(ctx context.Context, fn string, args Row) (json.RawMessage, error)
}
