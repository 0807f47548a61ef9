// Package capability discovers which optional columns and tables exist on the
// remote store. Probing happens at most once per session; concurrent callers
// share one in-flight negotiation.
package capability

import (
	"context"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"

	"desksync/internal/model"
	"desksync/internal/remote"
)

const meterName = "desksync/internal/capability"

const (
	tableTickets  = "tickets"
	tableMessages = "ticket_messages"

	columnChatHistory        = "chat_history"
	columnInternalNotes      = "internal_notes"
	columnCurrentAppointment = "current_appointment"
)

// Candidate column names tried in order, richer names first. Kept as package
// configuration rather than inline fallback chains.
var (
	messageTextCandidates  = []string{"content", "message_text", "text", "body"}
	messageAgentCandidates = []string{"agent_id"}
)

// Prober negotiates SchemaCapabilities against the remote store.
type Prober struct {
	store remote.Store
	cache Cache
	log   *slog.Logger

	group    singleflight.Group
	caps     *model.SchemaCapabilities
	resolved atomic.Bool
	probes   metric.Int64Counter
}

// Option configures a Prober.
type Option func(*Prober)

// WithCache layers a shared cache (e.g. redis) in front of live probing.
func WithCache(c Cache) Option {
	return func(p *Prober) { p.cache = c }
}

func WithLogger(log *slog.Logger) Option {
	return func(p *Prober) { p.log = log }
}

func NewProber(store remote.Store, opts ...Option) *Prober {
	p := &Prober{
		store: store,
		caps:  &model.SchemaCapabilities{},
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	meter := otel.Meter(meterName)
	p.probes, _ = meter.Int64Counter(
		"schema_capability_probes_total",
		metric.WithDescription("Schema capability probes by outcome"),
		metric.WithUnit("{probe}"),
	)

	return p
}

// Capabilities returns the stable capabilities struct this prober fills in.
// Collaborators may hold the pointer at construction time; its fields carry
// negotiated values once Resolve has run.
func (p *Prober) Capabilities() *model.SchemaCapabilities {
	return p.caps
}

// Resolve negotiates all capabilities once and memoizes the result for the
// lifetime of the session. Concurrent callers await the same negotiation
// instead of issuing duplicate probes.
func (p *Prober) Resolve(ctx context.Context) *model.SchemaCapabilities {
	if p.resolved.Load() {
		return p.caps
	}

	p.group.Do("negotiate", func() (any, error) {
		if p.resolved.Load() {
			return p.caps, nil
		}
		if p.cache != nil {
			if caps, ok := p.cache.Get(ctx); ok {
				p.log.Debug("schema capabilities loaded from cache", "chat_mode", caps.ChatMode)
				*p.caps = *caps
				p.resolved.Store(true)
				return p.caps, nil
			}
		}

		*p.caps = *p.negotiate(ctx)
		p.resolved.Store(true)
		if p.cache != nil {
			p.cache.Put(ctx, p.caps)
		}
		return p.caps, nil
	})
	return p.caps
}

// ChatStorageMode reports where chat transcripts live on the remote store.
func (p *Prober) ChatStorageMode(ctx context.Context) model.ChatMode {
	return p.Resolve(ctx).ChatMode
}

// MessageTextColumn returns the resolved text column of the message table,
// or empty when chat is not relational or no candidate matched.
func (p *Prober) MessageTextColumn(ctx context.Context) string {
	return p.Resolve(ctx).MessageTextColumn
}

// MessageAgentColumn returns the agent-id column of the message table, or
// empty when the deployment lacks one.
func (p *Prober) MessageAgentColumn(ctx context.Context) string {
	return p.Resolve(ctx).MessageAgentColumn
}

func (p *Prober) HasInternalNotesColumn(ctx context.Context) bool {
	return p.Resolve(ctx).HasInternalNotes
}

func (p *Prober) HasCurrentAppointmentColumn(ctx context.Context) bool {
	return p.Resolve(ctx).HasCurrentAppointment
}

func (p *Prober) negotiate(ctx context.Context) *model.SchemaCapabilities {
	caps := &model.SchemaCapabilities{}

	caps.ChatMode = p.detectChatMode(ctx)
	if caps.ChatMode == model.ChatRelational {
		caps.MessageTextColumn = p.firstPresentColumn(ctx, tableMessages, messageTextCandidates)
		caps.MessageAgentColumn = p.firstPresentColumn(ctx, tableMessages, messageAgentCandidates)
	}

	caps.HasInternalNotes = p.columnPresent(ctx, tableTickets, columnInternalNotes)
	caps.HasCurrentAppointment = p.columnPresent(ctx, tableTickets, columnCurrentAppointment)

	p.log.Info("schema capabilities negotiated",
		"chat_mode", caps.ChatMode,
		"message_text_column", caps.MessageTextColumn,
		"message_agent_column", caps.MessageAgentColumn,
		"internal_notes", caps.HasInternalNotes,
		"current_appointment", caps.HasCurrentAppointment,
	)

	return caps
}

func (p *Prober) detectChatMode(ctx context.Context) model.ChatMode {
	if p.columnPresent(ctx, tableTickets, columnChatHistory) {
		return model.ChatEmbedded
	}
	if p.tablePresent(ctx, tableMessages) {
		return model.ChatRelational
	}
	return model.ChatUnavailable
}

// firstPresentColumn tries the candidates in order and returns the first the
// store accepts. Empty when none match.
func (p *Prober) firstPresentColumn(ctx context.Context, table string, candidates []string) string {
	for _, col := range candidates {
		if p.columnPresent(ctx, table, col) {
			return col
		}
	}
	return ""
}

// columnPresent issues a minimal read selecting only the candidate column and
// classifies the outcome: present, absent, or unexpected failure. Unexpected
// failures are logged distinctly so a real outage is not mistaken for an
// intentionally missing optional feature; the feature is assumed absent.
func (p *Prober) columnPresent(ctx context.Context, table, column string) bool {
	_, err := p.store.Select(ctx, remote.Query{
		Table:   table,
		Columns: []string{column},
		Limit:   1,
	})
	switch {
	case err == nil:
		p.count(ctx, table, column, "present")
		return true
	case remote.IsSchemaAbsence(err, column):
		p.count(ctx, table, column, "absent")
		p.log.Debug("optional column absent", "table", table, "column", column)
		return false
	default:
		p.count(ctx, table, column, "unexpected_failure")
		p.log.Error("capability probe failed unexpectedly, assuming feature absent",
			"table", table, "column", column, "error", err)
		return false
	}
}

func (p *Prober) tablePresent(ctx context.Context, table string) bool {
	_, err := p.store.Select(ctx, remote.Query{Table: table, Limit: 1})
	switch {
	case err == nil:
		p.count(ctx, table, "", "present")
		return true
	case remote.IsSchemaAbsence(err, table):
		p.count(ctx, table, "", "absent")
		p.log.Debug("optional table absent", "table", table)
		return false
	default:
		p.count(ctx, table, "", "unexpected_failure")
		p.log.Error("capability probe failed unexpectedly, assuming feature absent",
			"table", table, "error", err)
		return false
	}
}

func (p *Prober) count(ctx context.Context, table, column, outcome string) {
	p.probes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("table", table),
		attribute.String("column", column),
		attribute.String("outcome", outcome),
	))
}
