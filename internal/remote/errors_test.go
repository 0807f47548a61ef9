package remote

import (
	"errors"
	"fmt"
	"net/url"
	"testing"
)

func TestIsMissingColumn(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		column string
		want   bool
	}{
		{
			name:   "undefined column code",
			err:    &APIError{StatusCode: 400, Code: "42703", Message: "column tickets.chat_history does not exist"},
			column: "chat_history",
			want:   true,
		},
		{
			name:   "message naming the column",
			err:    &APIError{StatusCode: 400, Message: "could not find the 'chat_history' column of 'tickets'"},
			column: "chat_history",
			want:   true,
		},
		{
			name:   "message naming a different column",
			err:    &APIError{StatusCode: 400, Message: "could not find the 'other_col' column of 'tickets'"},
			column: "chat_history",
			want:   false,
		},
		{
			name:   "wrapped api error",
			err:    fmt.Errorf("probe: %w", &APIError{Code: "42703", Message: "no such column"}),
			column: "internal_notes",
			want:   true,
		},
		{
			name:   "plain error",
			err:    errors.New("column chat_history does not exist"),
			column: "chat_history",
			want:   false,
		},
		{
			name:   "server error",
			err:    &APIError{StatusCode: 500, Message: "internal server error"},
			column: "chat_history",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMissingColumn(tt.err, tt.column); got != tt.want {
				t.Errorf("IsMissingColumn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsMissingRelation(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		table string
		want  bool
	}{
		{
			name:  "undefined table code",
			err:   &APIError{StatusCode: 404, Code: "42P01", Message: "relation does not exist"},
			table: "ticket_messages",
			want:  true,
		},
		{
			name:  "message naming the relation",
			err:   &APIError{StatusCode: 404, Message: `relation "public.ticket_messages" does not exist`},
			table: "ticket_messages",
			want:  true,
		},
		{
			name:  "unrelated rejection",
			err:   &APIError{StatusCode: 403, Message: "permission denied"},
			table: "ticket_messages",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMissingRelation(tt.err, tt.table); got != tt.want {
				t.Errorf("IsMissingRelation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "url error", err: &url.Error{Op: "Get", URL: "http://x", Err: errors.New("dial tcp: refused")}, want: true},
		{name: "fetch wording", err: errors.New("failed to fetch"), want: true},
		{name: "connection refused wording", err: errors.New("connection refused"), want: true},
		{name: "api rejection", err: &APIError{StatusCode: 400, Message: "bad request"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNetworkError(tt.err); got != tt.want {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsQuotaError(t *testing.T) {
	if !IsQuotaError(&APIError{StatusCode: 403, Message: "monthly ticket quota exceeded"}) {
		t.Error("IsQuotaError() should recognize quota wording")
	}
	if !IsQuotaError(errors.New("plan limit reached")) {
		t.Error("IsQuotaError() should recognize limit wording")
	}
	if IsQuotaError(&APIError{StatusCode: 500, Message: "internal server error"}) {
		t.Error("IsQuotaError() should not flag unrelated errors")
	}
	if IsQuotaError(nil) {
		t.Error("IsQuotaError(nil) should be false")
	}
}

func TestFilterIn(t *testing.T) {
	f := In("ticket_id", []string{"a", "b", "c"})
	if f.Op != "in" {
		t.Errorf("In() op = %q, want %q", f.Op, "in")
	}
	if f.Value != "(a,b,c)" {
		t.Errorf("In() value = %q, want %q", f.Value, "(a,b,c)")
	}
}
