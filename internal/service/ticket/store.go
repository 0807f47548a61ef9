// Package ticket holds the sync store: the canonical in-memory ticket
// collection kept consistent with the remote relational store.
//
// Consistency is per operation class. Ticket field mutations (status,
// assignment) are optimistic and rolled back if the remote write fails. Chat
// appends are optimistic and never rolled back: the local transcript stays
// the best-effort truth and the remote row simply goes stale until the next
// refresh. Appointment mutations are the inverse — confirm-then-apply — since
// a stale proposal shown to both parties is worse than a visible delay.
package ticket

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"desksync/internal/ai"
	"desksync/internal/model"
	"desksync/internal/remote"
	"desksync/internal/service/appointment"
	"desksync/internal/service/chat"
	"desksync/internal/service/quota"
	"desksync/internal/session"
)

const (
	tableTickets      = "tickets"
	tableMessages     = "ticket_messages"
	tableAppointments = "appointment_details"
)

// SyncStore is the single writer of the in-memory ticket collection. All
// reads by presentation code are snapshot copies of what it currently holds.
type SyncStore struct {
	store    remote.Store
	caps     *model.SchemaCapabilities
	chat     *chat.Adapter
	quota    *quota.Guard
	sessions session.Provider

	summarizer ai.Summarizer
	assistant  ai.Assistant
	nc         *nats.Conn
	log        *slog.Logger
	locale     string

	mu      sync.RWMutex
	tickets []*model.Ticket
	byID    map[string]*model.Ticket
}

// Option configures a SyncStore.
type Option func(*SyncStore)

func WithSummarizer(s ai.Summarizer) Option {
	return func(st *SyncStore) { st.summarizer = s }
}

func WithAssistant(a ai.Assistant) Option {
	return func(st *SyncStore) { st.assistant = a }
}

func WithNATS(nc *nats.Conn) Option {
	return func(st *SyncStore) { st.nc = nc }
}

func WithLogger(log *slog.Logger) Option {
	return func(st *SyncStore) { st.log = log }
}

func WithLocale(locale string) Option {
	return func(st *SyncStore) { st.locale = locale }
}

func New(store remote.Store, caps *model.SchemaCapabilities, chatAdapter *chat.Adapter, guard *quota.Guard, sessions session.Provider, opts ...Option) *SyncStore {
	s := &SyncStore{
		store:    store,
		caps:     caps,
		chat:     chatAdapter,
		quota:    guard,
		sessions: sessions,
		log:      slog.Default(),
		locale:   "en",
		byID:     make(map[string]*model.Ticket),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ---------------------------------------------------------------------------
// Snapshot reads
// ---------------------------------------------------------------------------

// Tickets returns a snapshot copy of the collection.
func (s *SyncStore) Tickets() []model.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, t.Clone())
	}
	return out
}

// Ticket returns a snapshot copy of one ticket.
func (s *SyncStore) Ticket(id string) (model.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byID[id]
	if !ok {
		return model.Ticket{}, false
	}
	return t.Clone(), true
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// LoadTickets replaces the collection with the remote store's current rows,
// selecting only the columns the deployment is known to have and attaching
// transcripts per the resolved chat mode.
func (s *SyncStore) LoadTickets(ctx context.Context) error {
	sess, err := s.sessions.Session(ctx)
	if err != nil {
		return ErrNoSession
	}

	q := remote.Query{
		Table:     tableTickets,
		Columns:   selectColumns(s.caps),
		OrderBy:   "created_at",
		Ascending: true,
	}
	// Regular users only see their own tickets; agents and managers see all.
	if !sess.CanActAsAgent() {
		q.Filters = []remote.Filter{remote.Eq("user_id", sess.UserID)}
	}

	rows, err := s.store.Select(ctx, q)
	if err != nil {
		if remote.IsNetworkError(err) {
			s.log.Warn("ticket load failed, keeping stale collection", "error", err)
			return nil
		}
		return fmt.Errorf("load tickets: %w", err)
	}

	loaded := make([]*model.Ticket, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		t, err := reviveTicket(row, s.caps)
		if err != nil {
			s.log.Debug("dropping malformed ticket row", "error", err)
			continue
		}
		loaded = append(loaded, t)
		ids = append(ids, t.ID)
	}

	// Embedded transcripts arrived on the rows themselves.
	if s.caps.ChatMode == model.ChatRelational {
		transcripts := s.chat.LoadTranscripts(ctx, ids)
		for _, t := range loaded {
			t.ChatHistory = transcripts[t.ID]
		}
	}

	s.mu.Lock()
	s.tickets = loaded
	s.byID = make(map[string]*model.Ticket, len(loaded))
	for _, t := range loaded {
		s.byID[t.ID] = t
	}
	s.mu.Unlock()

	s.log.Info("tickets loaded", "count", len(loaded), "chat_mode", s.caps.ChatMode)
	return nil
}

// ---------------------------------------------------------------------------
// Ticket creation
// ---------------------------------------------------------------------------

type AddTicketRequest struct {
	Title         string
	Description   string
	Category      string
	Priority      model.TicketPriority
	WorkstationID *string

	// Messages seeds the transcript, e.g. the intake conversation.
	Messages []model.ChatMessage

	// UseAISummary derives title/description/category/priority from the
	// seeded messages via the summarizer collaborator.
	UseAISummary bool
}

// AddTicket creates a ticket. It is the one path gated by the quota guard:
// when the tenant's monthly quota is exhausted it returns ErrQuotaExceeded
// without issuing any remote write. A remote rejection carrying a quota
// signature takes the same path after the fact.
func (s *SyncStore) AddTicket(ctx context.Context, req AddTicketRequest) (*model.Ticket, error) {
	sess, err := s.sessions.Session(ctx)
	if err != nil {
		return nil, ErrNoSession
	}

	if q := s.quota.Check(ctx); !s.quota.Allow(q) {
		s.log.Info("ticket creation refused by quota",
			"used", q.Used, "limit", q.Limit, "percent", q.PercentUsed())
		return nil, ErrQuotaExceeded
	}

	if req.UseAISummary && s.summarizer != nil {
		intake, aiErr := s.summarizer.SummarizeAndCategorizeChat(ctx, req.Messages, s.locale)
		if aiErr != nil {
			s.log.Warn("AI intake failed, using request fields as-is", "error", aiErr)
		} else {
			req.Title = intake.Title
			req.Description = intake.Description
			req.Category = intake.Category
			req.Priority = intake.Priority
		}
	}
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}

	now := time.Now()
	t := &model.Ticket{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Priority:      req.Priority,
		Status:        model.StatusOpen,
		UserID:        sess.UserID,
		WorkstationID: req.WorkstationID,
		CreatedAt:     now,
		UpdatedAt:     now,
		ChatHistory:   normalizeSeed(req.Messages, now),
	}

	// Optimistic: visible to the UI before the insert resolves.
	s.mu.Lock()
	s.tickets = append(s.tickets, t)
	s.byID[t.ID] = t
	snap := t.Clone()
	s.mu.Unlock()

	rows, err := s.store.Insert(ctx, tableTickets, []remote.Row{insertPayload(&snap, s.caps)}, true)
	if err != nil {
		if remote.IsQuotaError(err) {
			s.removeLocal(t.ID)
			s.log.Info("ticket creation refused remotely by quota", "error", err)
			return nil, ErrQuotaExceeded
		}
		s.log.Error("ticket insert failed, keeping optimistic local copy",
			"ticket_id", t.ID, "error", err)
		return t, nil
	}

	if len(rows) > 0 {
		s.reconcile(t.ID, rows[0])
	}
	if s.caps.ChatMode != model.ChatEmbedded {
		s.chat.AppendMessages(ctx, &snap, snap.ChatHistory)
	}

	s.publish(EventCreated, t.ID)
	return t, nil
}

func normalizeSeed(msgs []model.ChatMessage, now time.Time) []model.ChatMessage {
	out := make([]model.ChatMessage, len(msgs))
	for i, m := range msgs {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.Timestamp.IsZero() {
			m.Timestamp = now
		}
		out[i] = m
	}
	return out
}

// ---------------------------------------------------------------------------
// Optimistic field mutations (confirm-or-rollback)
// ---------------------------------------------------------------------------

// UpdateTicketStatus applies the status locally, then confirms it remotely.
// On remote failure the local status is rolled back and the error swallowed
// into a log line: the UI re-reads last known-good state, nothing throws.
func (s *SyncStore) UpdateTicketStatus(ctx context.Context, id string, status model.TicketStatus) error {
	s.mu.Lock()
	t, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	prevStatus, prevUpdated := t.Status, t.UpdatedAt
	t.Status = status
	s.touch(t)
	updatedAt := t.UpdatedAt
	s.mu.Unlock()

	patch := remote.Row{
		"status":     string(status),
		"updated_at": updatedAt.Format(time.RFC3339Nano),
	}
	rows, err := s.store.Update(ctx, tableTickets, patch, []remote.Filter{remote.Eq("id", id)}, true)
	if err != nil {
		s.rollback(id, func(t *model.Ticket) {
			t.Status = prevStatus
			t.UpdatedAt = prevUpdated
		})
		s.log.Error("status update failed, rolled back", "ticket_id", id, "status", status, "error", err)
		return nil
	}

	if len(rows) > 0 {
		s.reconcile(id, rows[0])
	}
	s.publish(EventStatusUpdated, id)
	return nil
}

// AssignTicket sets the assigned agent, confirm-or-rollback.
func (s *SyncStore) AssignTicket(ctx context.Context, id, agentID string) error {
	s.mu.Lock()
	t, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	prevAssigned, prevUpdated := t.AssignedTo, t.UpdatedAt
	t.AssignedTo = &agentID
	s.touch(t)
	updatedAt := t.UpdatedAt
	s.mu.Unlock()

	patch := remote.Row{
		"assigned_to": agentID,
		"updated_at":  updatedAt.Format(time.RFC3339Nano),
	}
	rows, err := s.store.Update(ctx, tableTickets, patch, []remote.Filter{remote.Eq("id", id)}, true)
	if err != nil {
		s.rollback(id, func(t *model.Ticket) {
			t.AssignedTo = prevAssigned
			t.UpdatedAt = prevUpdated
		})
		s.log.Error("assignment failed, rolled back", "ticket_id", id, "agent_id", agentID, "error", err)
		return nil
	}

	if len(rows) > 0 {
		s.reconcile(id, rows[0])
	}
	s.publish(EventAssigned, id)
	return nil
}

// AgentTakeTicket assigns the given agent and moves the ticket to InProgress
// in one optimistic mutation. Silently no-ops for non-agent sessions. An empty
// agentID takes for the session's own agent.
func (s *SyncStore) AgentTakeTicket(ctx context.Context, id, agentID string) error {
	sess, err := s.sessions.Session(ctx)
	if err != nil {
		return ErrNoSession
	}
	if !sess.CanActAsAgent() {
		s.log.Debug("take ticket ignored for non-agent session", "ticket_id", id, "role", sess.Role)
		return nil
	}
	if agentID == "" {
		agentID = sess.AgentID
	}

	s.mu.Lock()
	t, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	prevAssigned, prevStatus, prevUpdated := t.AssignedTo, t.Status, t.UpdatedAt
	t.AssignedTo = &agentID
	t.Status = model.StatusInProgress
	s.touch(t)
	updatedAt := t.UpdatedAt
	s.mu.Unlock()

	patch := remote.Row{
		"assigned_to": agentID,
		"status":      string(model.StatusInProgress),
		"updated_at":  updatedAt.Format(time.RFC3339Nano),
	}
	rows, err := s.store.Update(ctx, tableTickets, patch, []remote.Filter{remote.Eq("id", id)}, true)
	if err != nil {
		s.rollback(id, func(t *model.Ticket) {
			t.AssignedTo = prevAssigned
			t.Status = prevStatus
			t.UpdatedAt = prevUpdated
		})
		s.log.Error("take ticket failed, rolled back", "ticket_id", id, "error", err)
		return nil
	}

	if len(rows) > 0 {
		s.reconcile(id, rows[0])
	}
	s.publish(EventAssigned, id)
	return nil
}

// ---------------------------------------------------------------------------
// Chat (optimistic, never rolled back)
// ---------------------------------------------------------------------------

// AddChatMessage appends a message to the transcript. The optimistic message
// stays visible even when the remote write fails: the row goes stale until
// the next refresh. Agent-branded messages from non-agent sessions are
// silently dropped. An empty agentID on an agent message falls back to the
// session's own agent id.
func (s *SyncStore) AddChatMessage(ctx context.Context, id string, sender model.ChatSender, text, agentID string) error {
	sess, err := s.sessions.Session(ctx)
	if err != nil {
		return ErrNoSession
	}
	if sender == model.SenderAgent && !sess.CanActAsAgent() {
		s.log.Debug("agent message ignored for non-agent session", "ticket_id", id, "role", sess.Role)
		return nil
	}

	msg := model.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	}
	if sender == model.SenderAgent {
		if agentID == "" {
			agentID = sess.AgentID
		}
		msg.AgentID = &agentID
	}

	return s.appendChat(ctx, id, msg, nil)
}

// SendAgentMessage appends an agent-branded reply and moves the ticket to
// InProgress. Silently no-ops unless the session can act as an agent.
func (s *SyncStore) SendAgentMessage(ctx context.Context, id, text string) error {
	sess, err := s.sessions.Session(ctx)
	if err != nil {
		return ErrNoSession
	}
	if !sess.CanActAsAgent() {
		s.log.Debug("agent message ignored for non-agent session", "ticket_id", id, "role", sess.Role)
		return nil
	}

	agentID := sess.AgentID
	msg := model.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    model.SenderAgent,
		Text:      text,
		Timestamp: time.Now(),
		AgentID:   &agentID,
	}

	return s.appendChat(ctx, id, msg, func(t *model.Ticket, patch remote.Row) {
		t.Status = model.StatusInProgress
		patch["status"] = string(model.StatusInProgress)
	})
}

// AddAIFollowUp asks the assistant collaborator for a follow-up reply and
// appends it as an AI message. No-op when no assistant is configured.
func (s *SyncStore) AddAIFollowUp(ctx context.Context, id string, aiLevel int) error {
	if s.assistant == nil {
		return nil
	}

	snap, ok := s.Ticket(id)
	if !ok {
		return ErrNotFound
	}

	reply, err := s.assistant.FollowUpHelpResponse(ctx, snap.Title, snap.Category, snap.ChatHistory, aiLevel, s.locale)
	if err != nil {
		s.log.Warn("AI follow-up failed", "ticket_id", id, "error", err)
		return nil
	}

	msg := model.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    model.SenderAI,
		Text:      reply.Text,
		Timestamp: time.Now(),
	}
	return s.appendChat(ctx, id, msg, nil)
}

// appendChat applies the optimistic transcript append (plus any extra ticket
// mutation), then issues the remote write. The update payload carries
// chat_history only in embedded mode; relational rows go through the adapter.
func (s *SyncStore) appendChat(ctx context.Context, id string, msg model.ChatMessage, extra func(*model.Ticket, remote.Row)) error {
	patch := remote.Row{}

	s.mu.Lock()
	t, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	t.ChatHistory = append(t.ChatHistory, msg)
	if extra != nil {
		extra(t, patch)
	}
	s.touch(t)
	patch["updated_at"] = t.UpdatedAt.Format(time.RFC3339Nano)
	if s.caps.ChatMode == model.ChatEmbedded {
		patch["chat_history"] = append([]model.ChatMessage(nil), t.ChatHistory...)
	}
	snap := t.Clone()
	s.mu.Unlock()

	rows, err := s.store.Update(ctx, tableTickets, patch, []remote.Filter{remote.Eq("id", id)}, true)
	if err != nil {
		// Optimistic message stays; the remote row is stale until refresh.
		s.log.Error("chat send failed, keeping optimistic message", "ticket_id", id, "error", err)
		return nil
	}

	if len(rows) > 0 {
		s.reconcile(id, rows[0])
	}
	if s.caps.ChatMode != model.ChatEmbedded {
		s.chat.AppendMessages(ctx, &snap, []model.ChatMessage{msg})
	}

	s.publish(EventMessageAdded, id)
	return nil
}

// ---------------------------------------------------------------------------
// Appointments (confirm-then-apply)
// ---------------------------------------------------------------------------

// ProposeAppointment runs the workflow transition and commits it remotely
// before touching local state. Unlike ticket and chat mutations there is no
// optimistic update here: both parties see appointment state, so a proposal
// must not appear locally unless the store accepted it.
func (s *SyncStore) ProposeAppointment(ctx context.Context, id string, details model.AppointmentDetails, proposedBy model.ProposedBy, status model.AppointmentStatus) error {
	snap, ok := s.Ticket(id)
	if !ok {
		return ErrNotFound
	}

	next, sideMsg := appointment.Propose(&snap, details, proposedBy, status)

	apptRow := remote.Row{
		"id":                 next.ID,
		"ticket_id":          id,
		"proposed_by":        string(next.ProposedBy),
		"proposed_date":      next.ProposedDate,
		"proposed_time":      next.ProposedTime,
		"location_or_method": next.LocationOrMethod,
		"status":             string(next.Status),
	}
	if next.Notes != nil {
		apptRow["notes"] = *next.Notes
	}

	if _, err := s.store.Insert(ctx, tableAppointments, []remote.Row{apptRow}, false); err != nil {
		s.log.Error("appointment write failed, local state unchanged", "ticket_id", id, "error", err)
		return fmt.Errorf("propose appointment: %w", err)
	}

	s.mu.Lock()
	t, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	t.CurrentAppointment = &next
	t.Appointments = append(t.Appointments, next)
	if sideMsg != nil {
		t.ChatHistory = append(t.ChatHistory, *sideMsg)
	}
	s.touch(t)
	updatedAt := t.UpdatedAt
	applied := t.Clone()
	s.mu.Unlock()

	if s.caps.HasCurrentAppointment {
		patch := remote.Row{
			"current_appointment": next,
			"updated_at":          updatedAt.Format(time.RFC3339Nano),
		}
		if s.caps.ChatMode == model.ChatEmbedded && sideMsg != nil {
			patch["chat_history"] = applied.ChatHistory
		}
		if _, err := s.store.Update(ctx, tableTickets, patch, []remote.Filter{remote.Eq("id", id)}, false); err != nil {
			s.log.Error("current_appointment column update failed", "ticket_id", id, "error", err)
		}
	} else if s.caps.ChatMode == model.ChatEmbedded && sideMsg != nil {
		s.chat.AppendMessages(ctx, &applied, []model.ChatMessage{*sideMsg})
	}
	if s.caps.ChatMode == model.ChatRelational && sideMsg != nil {
		s.chat.AppendMessages(ctx, &applied, []model.ChatMessage{*sideMsg})
	}

	s.publish(EventAppointmentProposed, id)
	return nil
}

// DeleteAppointment removes the ticket's current appointment without
// validating its state — delete is unconditional. Remote first, then local.
func (s *SyncStore) DeleteAppointment(ctx context.Context, id string) error {
	s.mu.RLock()
	_, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	if err := s.store.Delete(ctx, tableAppointments, []remote.Filter{remote.Eq("ticket_id", id)}); err != nil {
		s.log.Error("appointment delete failed, local state unchanged", "ticket_id", id, "error", err)
		return fmt.Errorf("delete appointment: %w", err)
	}

	s.mu.Lock()
	t, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	var currentID string
	if t.CurrentAppointment != nil {
		currentID = t.CurrentAppointment.ID
	}
	t.CurrentAppointment = nil
	if currentID != "" {
		kept := t.Appointments[:0]
		for _, a := range t.Appointments {
			if a.ID != currentID {
				kept = append(kept, a)
			}
		}
		t.Appointments = kept
	}
	s.touch(t)
	updatedAt := t.UpdatedAt
	s.mu.Unlock()

	if s.caps.HasCurrentAppointment {
		patch := remote.Row{
			"current_appointment": nil,
			"updated_at":          updatedAt.Format(time.RFC3339Nano),
		}
		if _, err := s.store.Update(ctx, tableTickets, patch, []remote.Filter{remote.Eq("id", id)}, false); err != nil {
			s.log.Error("current_appointment column clear failed", "ticket_id", id, "error", err)
		}
	}

	s.publish(EventAppointmentDeleted, id)
	return nil
}

// ---------------------------------------------------------------------------
// Deletion
// ---------------------------------------------------------------------------

// DeleteTicket permanently removes a ticket. Only managers may delete;
// everyone else silently no-ops.
func (s *SyncStore) DeleteTicket(ctx context.Context, id string) error {
	sess, err := s.sessions.Session(ctx)
	if err != nil {
		return ErrNoSession
	}
	if sess.Role != session.RoleManager {
		s.log.Debug("ticket delete ignored for non-manager session", "ticket_id", id, "role", sess.Role)
		return nil
	}

	if s.caps.ChatMode == model.ChatRelational {
		if err := s.store.Delete(ctx, tableMessages, []remote.Filter{remote.Eq("ticket_id", id)}); err != nil {
			s.log.Warn("message rows cleanup failed", "ticket_id", id, "error", err)
		}
	}
	if err := s.store.Delete(ctx, tableTickets, []remote.Filter{remote.Eq("id", id)}); err != nil {
		s.log.Error("ticket delete failed, keeping local copy", "ticket_id", id, "error", err)
		return fmt.Errorf("delete ticket: %w", err)
	}

	s.removeLocal(id)
	s.publish(EventDeleted, id)
	return nil
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

// touch refreshes UpdatedAt, keeping it strictly increasing even when the
// wall clock has not advanced past the previous value.
func (s *SyncStore) touch(t *model.Ticket) {
	now := time.Now()
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Millisecond)
	}
	t.UpdatedAt = now
}

// rollback re-applies previous field values after a failed remote write.
func (s *SyncStore) rollback(id string, undo func(*model.Ticket)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.byID[id]; ok {
		undo(t)
	}
}

// reconcile replaces local state with the server's authoritative row. Local
// chat is preserved when the row cannot carry it (relational mode), as are
// the sub-entities whose columns the deployment lacks. A ticket removed in
// the meantime makes this a no-op.
func (s *SyncStore) reconcile(id string, row remote.Row) {
	revived, err := reviveTicket(row, s.caps)
	if err != nil {
		s.log.Debug("server row not revivable, keeping local state", "ticket_id", id, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	local, ok := s.byID[id]
	if !ok {
		return
	}

	if s.caps.ChatMode != model.ChatEmbedded {
		revived.ChatHistory = local.ChatHistory
	}
	if !s.caps.HasInternalNotes {
		revived.InternalNotes = local.InternalNotes
	}
	if !s.caps.HasCurrentAppointment {
		revived.CurrentAppointment = local.CurrentAppointment
	}
	revived.Appointments = local.Appointments

	// Monotonic updated_at even if the server clock lags the local bump.
	if revived.UpdatedAt.Before(local.UpdatedAt) {
		revived.UpdatedAt = local.UpdatedAt
	}

	*local = *revived
}

func (s *SyncStore) removeLocal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	kept := s.tickets[:0]
	for _, t := range s.tickets {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tickets = kept
}
