// Package chat persists and loads ticket transcripts using whichever storage
// strategy the remote store supports: embedded on the ticket row, rows in a
// separate message table, or none at all (degraded, empty transcripts).
package chat

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"desksync/internal/model"
	"desksync/internal/remote"
)

const (
	tableTickets  = "tickets"
	tableMessages = "ticket_messages"
)

// Candidate row fields tried in order when normalizing heterogeneous message
// rows. Richer names first, then increasingly generic synonyms.
var (
	textFields = []string{"content", "message_text", "text", "body"}
	timeFields = []string{"created_at", "inserted_at", "timestamp"}
)

// Adapter reads and writes chat transcripts. Both operations degrade into
// logged errors rather than failing the surrounding ticket operation.
type Adapter struct {
	store remote.Store
	caps  *model.SchemaCapabilities
	log   *slog.Logger
}

func New(store remote.Store, caps *model.SchemaCapabilities, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{store: store, caps: caps, log: log}
}

// LoadTranscripts returns the transcript of each given ticket, ordered by
// timestamp ascending. Tickets without messages are simply absent from the
// result. Failures yield empty transcripts, never an error.
func (a *Adapter) LoadTranscripts(ctx context.Context, ticketIDs []string) map[string][]model.ChatMessage {
	transcripts := make(map[string][]model.ChatMessage)
	if len(ticketIDs) == 0 {
		return transcripts
	}

	switch a.caps.ChatMode {
	case model.ChatEmbedded:
		a.loadEmbedded(ctx, ticketIDs, transcripts)
	case model.ChatRelational:
		a.loadRelational(ctx, ticketIDs, transcripts)
	default:
		// Chat is unavailable on this deployment; the rest of the ticket
		// still loads.
	}

	for id := range transcripts {
		sortTranscript(transcripts[id])
	}
	return transcripts
}

func (a *Adapter) loadEmbedded(ctx context.Context, ticketIDs []string, out map[string][]model.ChatMessage) {
	rows, err := a.store.Select(ctx, remote.Query{
		Table:   tableTickets,
		Columns: []string{"id", "chat_history"},
		Filters: []remote.Filter{remote.In("id", ticketIDs)},
	})
	if err != nil {
		a.log.Error("load embedded transcripts failed", "tickets", len(ticketIDs), "error", err)
		return
	}

	for _, row := range rows {
		id, ok := rowString(row, "id")
		if !ok {
			continue
		}
		out[id] = DecodeTranscript(row["chat_history"])
	}
}

func (a *Adapter) loadRelational(ctx context.Context, ticketIDs []string, out map[string][]model.ChatMessage) {
	q := remote.Query{
		Table:     tableMessages,
		Filters:   []remote.Filter{remote.In("ticket_id", ticketIDs)},
		OrderBy:   "created_at",
		Ascending: true,
	}

	rows, err := a.store.Select(ctx, q)
	if err != nil {
		// Some deployments lack the timestamp column the order-by needs.
		// Retry unordered; client-side sorting covers ordering either way.
		a.log.Debug("ordered transcript read failed, retrying without ordering", "error", err)
		q.OrderBy = ""
		rows, err = a.store.Select(ctx, q)
	}
	if err != nil {
		a.log.Error("load relational transcripts failed", "tickets", len(ticketIDs), "error", err)
		return
	}

	for _, row := range rows {
		ticketID, msg, ok := a.normalizeRow(row)
		if !ok {
			a.log.Debug("dropping malformed message row without ticket id")
			continue
		}
		out[ticketID] = append(out[ticketID], msg)
	}
}

// AppendMessages persists new transcript entries for the ticket. In embedded
// mode the ticket row carries the full (already extended) transcript; in
// relational mode one row is written per message. Errors are logged, never
// returned: the optimistic local transcript stays the best-effort truth.
func (a *Adapter) AppendMessages(ctx context.Context, t *model.Ticket, msgs []model.ChatMessage) {
	if len(msgs) == 0 {
		return
	}

	switch a.caps.ChatMode {
	case model.ChatEmbedded:
		patch := remote.Row{
			"chat_history": t.ChatHistory,
			"updated_at":   t.UpdatedAt.Format(time.RFC3339Nano),
		}
		_, err := a.store.Update(ctx, tableTickets, patch, []remote.Filter{remote.Eq("id", t.ID)}, false)
		if err != nil {
			a.log.Error("append embedded chat failed", "ticket_id", t.ID, "error", err)
		}

	case model.ChatRelational:
		if a.caps.MessageTextColumn == "" {
			a.log.Warn("no message text column resolved, dropping chat write", "ticket_id", t.ID)
			return
		}
		rows := make([]remote.Row, 0, len(msgs))
		for _, m := range msgs {
			row := remote.Row{
				"id":                     m.ID,
				"ticket_id":              t.ID,
				"sender":                 string(m.Sender),
				"created_at":             m.Timestamp.Format(time.RFC3339Nano),
				a.caps.MessageTextColumn: m.Text,
			}
			if a.caps.MessageAgentColumn != "" && m.AgentID != nil {
				row[a.caps.MessageAgentColumn] = *m.AgentID
			}
			rows = append(rows, row)
		}
		if _, err := a.store.Insert(ctx, tableMessages, rows, false); err != nil {
			a.log.Error("append relational chat failed", "ticket_id", t.ID, "messages", len(rows), "error", err)
		}

	default:
		a.log.Debug("chat storage unavailable, message kept locally only", "ticket_id", t.ID)
	}
}

// normalizeRow converts a heterogeneous message row into the canonical
// ChatMessage. Rows without a ticket id are dropped.
func (a *Adapter) normalizeRow(row remote.Row) (string, model.ChatMessage, bool) {
	ticketID, ok := rowString(row, "ticket_id")
	if !ok {
		return "", model.ChatMessage{}, false
	}

	msg := model.ChatMessage{Sender: model.SenderUser}

	if id, ok := rowString(row, "id"); ok {
		msg.ID = id
	} else {
		msg.ID = uuid.NewString()
	}
	if sender, ok := rowString(row, "sender"); ok {
		msg.Sender = model.ChatSender(sender)
	}
	if text, ok := rowString(row, textFields...); ok {
		msg.Text = text
	}
	msg.Timestamp = rowTime(row, timeFields...)

	agentFields := []string{"agent_id"}
	if a.caps.MessageAgentColumn != "" {
		agentFields = []string{a.caps.MessageAgentColumn, "agent_id"}
	}
	if agentID, ok := rowString(row, agentFields...); ok {
		msg.AgentID = &agentID
	}

	return ticketID, msg, true
}

func sortTranscript(msgs []model.ChatMessage) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
}

// rowString returns the first non-empty string among the candidate fields.
func rowString(row remote.Row, fields ...string) (string, bool) {
	for _, f := range fields {
		if v, ok := row[f].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// rowTime returns the first parseable timestamp among the candidate fields,
// defaulting to now only when all are absent.
func rowTime(row remote.Row, fields ...string) time.Time {
	for _, f := range fields {
		switch v := row[f].(type) {
		case time.Time:
			return v
		case string:
			if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
				return ts
			}
			if ts, err := time.Parse(time.RFC3339, v); err == nil {
				return ts
			}
			if ts, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				return ts
			}
		}
	}
	return time.Now()
}
