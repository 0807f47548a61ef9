// Package session declares the authentication session collaborator consumed
// by the sync layer. Desksync never authenticates anyone itself.
package session

import "context"

// Role of the acting user within the tenant.
type Role string

const (
	RoleUser    Role = "user"
	RoleAgent   Role = "agent"
	RoleManager Role = "manager"
)

// Session describes the single authenticated actor of this sync session.
type Session struct {
	UserID      string
	AgentID     string // set when the actor is an agent
	Role        Role
	AccessToken string
}

// CanActAsAgent reports whether the session may perform agent-branded
// operations.
func (s Session) CanActAsAgent() bool {
	return s.Role == RoleAgent || s.Role == RoleManager
}

// Provider supplies the current session and change notifications.
type Provider interface {
	Session(ctx context.Context) (Session, error)
	OnChange(fn func(Session))
}

// StaticProvider is a fixed-session Provider for standalone use and tests.
type StaticProvider struct {
	Current Session
}

func (p *StaticProvider) Session(ctx context.Context) (Session, error) {
	return p.Current, nil
}

func (p *StaticProvider) OnChange(fn func(Session)) {}
