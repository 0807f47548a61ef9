package chat

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"desksync/internal/model"
	"desksync/internal/remote"
)

type fakeStore struct {
	selectResponses [][]remote.Row
	selectErrs      []error
	selectQueries   []remote.Query

	inserted      []remote.Row
	insertedTable string
	updates       []remote.Row
	updatedTable  string
}

func (f *fakeStore) Select(ctx context.Context, q remote.Query) ([]remote.Row, error) {
	f.selectQueries = append(f.selectQueries, q)
	i := len(f.selectQueries) - 1
	var rows []remote.Row
	var err error
	if i < len(f.selectResponses) {
		rows = f.selectResponses[i]
	}
	if i < len(f.selectErrs) {
		err = f.selectErrs[i]
	}
	return rows, err
}

func (f *fakeStore) Insert(ctx context.Context, table string, rows []remote.Row, returning bool) ([]remote.Row, error) {
	f.insertedTable = table
	f.inserted = append(f.inserted, rows...)
	return nil, nil
}

func (f *fakeStore) Update(ctx context.Context, table string, patch remote.Row, filters []remote.Filter, returning bool) ([]remote.Row, error) {
	f.updatedTable = table
	f.updates = append(f.updates, patch)
	return nil, nil
}

func (f *fakeStore) Delete(ctx context.Context, table string, filters []remote.Filter) error {
	return nil
}

func (f *fakeStore) RPC(ctx context.Context, fn string, args remote.Row) (json.RawMessage, error) {
	return nil, nil
}

func ts(s string) string { return s + "T10:00:00Z" }

func TestLoadTranscriptsEmbedded(t *testing.T) {
	store := &fakeStore{
		selectResponses: [][]remote.Row{{
			{"id": "t1", "chat_history": `[
				{"id":"m2","sender":"agent","text":"hi","timestamp":"2026-01-02T10:00:00Z"},
				{"id":"m1","sender":"user","text":"help","timestamp":"2026-01-01T10:00:00Z"}
			]`},
		}},
	}
	a := New(store, &model.SchemaCapabilities{ChatMode: model.ChatEmbedded}, nil)

	got := a.LoadTranscripts(context.Background(), []string{"t1"})

	msgs := got["t1"]
	if len(msgs) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(msgs))
	}
	// Must come back ordered by timestamp regardless of stored order.
	if msgs[0].ID != "m1" || msgs[1].ID != "m2" {
		t.Errorf("transcript order = [%s %s], want [m1 m2]", msgs[0].ID, msgs[1].ID)
	}
}

func TestLoadTranscriptsRelational(t *testing.T) {
	store := &fakeStore{
		selectResponses: [][]remote.Row{{
			{"id": "m1", "ticket_id": "t1", "content": "help", "sender": "user", "created_at": ts("2026-01-01")},
			{"id": "m2", "ticket_id": "t1", "content": "hi", "sender": "agent", "agent_id": "a9", "created_at": ts("2026-01-02")},
			{"id": "m3", "ticket_id": "t2", "content": "other", "created_at": ts("2026-01-03")},
		}},
	}
	a := New(store, &model.SchemaCapabilities{
		ChatMode:           model.ChatRelational,
		MessageTextColumn:  "content",
		MessageAgentColumn: "agent_id",
	}, nil)

	got := a.LoadTranscripts(context.Background(), []string{"t1", "t2"})

	if len(got["t1"]) != 2 || len(got["t2"]) != 1 {
		t.Fatalf("transcripts per ticket = %d/%d, want 2/1", len(got["t1"]), len(got["t2"]))
	}
	agent := got["t1"][1]
	if agent.Sender != model.SenderAgent {
		t.Errorf("sender = %q, want agent", agent.Sender)
	}
	if agent.AgentID == nil || *agent.AgentID != "a9" {
		t.Errorf("agent id = %v, want a9", agent.AgentID)
	}
}

// A deployment whose message table has no created_at rejects the ordered
// read; the adapter retries unordered and sorts client-side.
func TestLoadTranscriptsRelationalRetriesUnordered(t *testing.T) {
	store := &fakeStore{
		selectErrs: []error{
			&remote.APIError{StatusCode: 400, Code: "42703", Message: "column ticket_messages.created_at does not exist"},
			nil,
		},
		selectResponses: [][]remote.Row{
			nil,
			{
				{"id": "m2", "ticket_id": "t1", "text": "second", "timestamp": ts("2026-01-02")},
				{"id": "m1", "ticket_id": "t1", "text": "first", "timestamp": ts("2026-01-01")},
			},
		},
	}
	a := New(store, &model.SchemaCapabilities{ChatMode: model.ChatRelational, MessageTextColumn: "text"}, nil)

	got := a.LoadTranscripts(context.Background(), []string{"t1"})

	if len(store.selectQueries) != 2 {
		t.Fatalf("select calls = %d, want 2 (ordered then unordered)", len(store.selectQueries))
	}
	if store.selectQueries[0].OrderBy == "" || store.selectQueries[1].OrderBy != "" {
		t.Error("first query should be ordered, retry should not")
	}
	msgs := got["t1"]
	if len(msgs) != 2 || msgs[0].ID != "m1" {
		t.Errorf("retry result not sorted client-side: %+v", msgs)
	}
}

// Heterogeneous deployments name the text and time fields differently; the
// normalizer tries candidates in a fixed order.
func TestNormalizeRowCandidates(t *testing.T) {
	a := New(&fakeStore{}, &model.SchemaCapabilities{ChatMode: model.ChatRelational}, nil)

	tests := []struct {
		name     string
		row      remote.Row
		wantOK   bool
		wantText string
	}{
		{
			name:     "content field",
			row:      remote.Row{"ticket_id": "t1", "content": "a"},
			wantOK:   true,
			wantText: "a",
		},
		{
			name:     "body fallback",
			row:      remote.Row{"ticket_id": "t1", "body": "b"},
			wantOK:   true,
			wantText: "b",
		},
		{
			name:     "content wins over body",
			row:      remote.Row{"ticket_id": "t1", "content": "a", "body": "b"},
			wantOK:   true,
			wantText: "a",
		},
		{
			name:   "missing ticket id drops the row",
			row:    remote.Row{"content": "orphan"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, msg, ok := a.normalizeRow(tt.row)
			if ok != tt.wantOK {
				t.Fatalf("normalizeRow() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && msg.Text != tt.wantText {
				t.Errorf("text = %q, want %q", msg.Text, tt.wantText)
			}
		})
	}
}

func TestNormalizeRowDefaults(t *testing.T) {
	a := New(&fakeStore{}, &model.SchemaCapabilities{ChatMode: model.ChatRelational}, nil)

	_, msg, ok := a.normalizeRow(remote.Row{"ticket_id": "t1", "text": "hello"})
	if !ok {
		t.Fatal("normalizeRow() dropped a valid row")
	}
	if msg.ID == "" {
		t.Error("missing id should be filled with a generated one")
	}
	if msg.Sender != model.SenderUser {
		t.Errorf("sender = %q, want default user", msg.Sender)
	}
	if msg.Timestamp.IsZero() {
		t.Error("missing timestamp should default to now, not zero")
	}
}

func TestRowTimeFormats(t *testing.T) {
	tests := []struct {
		name string
		row  remote.Row
		want string
	}{
		{name: "rfc3339", row: remote.Row{"created_at": "2026-01-05T08:30:00Z"}, want: "2026-01-05T08:30:00Z"},
		{name: "space separated", row: remote.Row{"created_at": "2026-01-05 08:30:00"}, want: "2026-01-05T08:30:00Z"},
		{name: "inserted_at fallback", row: remote.Row{"inserted_at": "2026-01-05T08:30:00Z"}, want: "2026-01-05T08:30:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rowTime(tt.row, timeFields...)
			want, _ := time.Parse(time.RFC3339, tt.want)
			if !got.Equal(want) {
				t.Errorf("rowTime() = %v, want %v", got, want)
			}
		})
	}
}

func TestAppendMessagesRelational(t *testing.T) {
	store := &fakeStore{}
	a := New(store, &model.SchemaCapabilities{
		ChatMode:           model.ChatRelational,
		MessageTextColumn:  "message_text",
		MessageAgentColumn: "agent_id",
	}, nil)

	agentID := "a9"
	ticket := &model.Ticket{ID: "t1"}
	a.AppendMessages(context.Background(), ticket, []model.ChatMessage{
		{ID: "m1", Sender: model.SenderAgent, Text: "hi", Timestamp: time.Now(), AgentID: &agentID},
		{ID: "m2", Sender: model.SenderUser, Text: "thanks", Timestamp: time.Now()},
	})

	if store.insertedTable != "ticket_messages" {
		t.Fatalf("insert table = %q, want ticket_messages", store.insertedTable)
	}
	if len(store.inserted) != 2 {
		t.Fatalf("inserted rows = %d, want 2", len(store.inserted))
	}
	first := store.inserted[0]
	if first["message_text"] != "hi" {
		t.Errorf("text written to %q = %v, want under resolved column", "message_text", first["message_text"])
	}
	if first["agent_id"] != "a9" {
		t.Errorf("agent_id = %v, want a9", first["agent_id"])
	}
	if _, ok := store.inserted[1]["agent_id"]; ok {
		t.Error("user message should not carry agent_id")
	}
}

func TestAppendMessagesEmbedded(t *testing.T) {
	store := &fakeStore{}
	a := New(store, &model.SchemaCapabilities{ChatMode: model.ChatEmbedded}, nil)

	ticket := &model.Ticket{
		ID:        "t1",
		UpdatedAt: time.Now(),
		ChatHistory: []model.ChatMessage{
			{ID: "m1", Sender: model.SenderUser, Text: "help"},
			{ID: "m2", Sender: model.SenderAgent, Text: "hi"},
		},
	}
	a.AppendMessages(context.Background(), ticket, ticket.ChatHistory[1:])

	if store.updatedTable != "tickets" {
		t.Fatalf("update table = %q, want tickets", store.updatedTable)
	}
	if len(store.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(store.updates))
	}
	history, ok := store.updates[0]["chat_history"].([]model.ChatMessage)
	if !ok || len(history) != 2 {
		t.Errorf("patch should carry the full transcript, got %v", store.updates[0]["chat_history"])
	}
}

// A message persisted under either storage strategy must reload as the same
// message: text, sender, agent id, and timestamp survive both the embedded
// column round-trip and the relational row round-trip, and the two strategies
// agree with each other.
func TestAppendReloadEquivalentAcrossModes(t *testing.T) {
	agentID := "a9"
	msg := model.ChatMessage{
		ID:        "m1",
		Sender:    model.SenderAgent,
		Text:      "restarting the print spooler now",
		Timestamp: time.Date(2026, 1, 5, 8, 30, 0, 123456789, time.UTC),
		AgentID:   &agentID,
	}

	// Embedded: write the transcript column, then reload from what was
	// actually written.
	embCaps := &model.SchemaCapabilities{ChatMode: model.ChatEmbedded}
	embWriter := &fakeStore{}
	ticket := &model.Ticket{ID: "t1", UpdatedAt: msg.Timestamp, ChatHistory: []model.ChatMessage{msg}}
	New(embWriter, embCaps, nil).AppendMessages(context.Background(), ticket, []model.ChatMessage{msg})
	if len(embWriter.updates) != 1 {
		t.Fatalf("embedded writes = %d, want 1", len(embWriter.updates))
	}
	embReader := &fakeStore{selectResponses: [][]remote.Row{{
		{"id": "t1", "chat_history": embWriter.updates[0]["chat_history"]},
	}}}
	embedded := New(embReader, embCaps, nil).LoadTranscripts(context.Background(), []string{"t1"})["t1"]

	// Relational: write message rows, then reload from those rows.
	relCaps := &model.SchemaCapabilities{
		ChatMode:           model.ChatRelational,
		MessageTextColumn:  "content",
		MessageAgentColumn: "agent_id",
	}
	relWriter := &fakeStore{}
	New(relWriter, relCaps, nil).AppendMessages(context.Background(), &model.Ticket{ID: "t1"}, []model.ChatMessage{msg})
	if len(relWriter.inserted) != 1 {
		t.Fatalf("relational writes = %d, want 1", len(relWriter.inserted))
	}
	relReader := &fakeStore{selectResponses: [][]remote.Row{relWriter.inserted}}
	relational := New(relReader, relCaps, nil).LoadTranscripts(context.Background(), []string{"t1"})["t1"]

	if len(embedded) != 1 || len(relational) != 1 {
		t.Fatalf("reloaded transcripts = %d/%d messages, want 1/1", len(embedded), len(relational))
	}
	for _, got := range []model.ChatMessage{embedded[0], relational[0]} {
		if got.Text != msg.Text {
			t.Errorf("text = %q, want %q", got.Text, msg.Text)
		}
		if got.Sender != msg.Sender {
			t.Errorf("sender = %q, want %q", got.Sender, msg.Sender)
		}
		if !got.Timestamp.Equal(msg.Timestamp) {
			t.Errorf("timestamp = %v, want %v", got.Timestamp, msg.Timestamp)
		}
		if got.AgentID == nil || *got.AgentID != agentID {
			t.Errorf("agent id = %v, want %q", got.AgentID, agentID)
		}
	}
}

func TestAppendMessagesUnavailable(t *testing.T) {
	store := &fakeStore{}
	a := New(store, &model.SchemaCapabilities{ChatMode: model.ChatUnavailable}, nil)

	a.AppendMessages(context.Background(), &model.Ticket{ID: "t1"}, []model.ChatMessage{{ID: "m1", Text: "x"}})

	if len(store.inserted) != 0 || len(store.updates) != 0 {
		t.Error("unavailable mode must not issue remote writes")
	}
}

func TestAppendMessagesNoTextColumn(t *testing.T) {
	store := &fakeStore{}
	a := New(store, &model.SchemaCapabilities{ChatMode: model.ChatRelational}, nil)

	a.AppendMessages(context.Background(), &model.Ticket{ID: "t1"}, []model.ChatMessage{{ID: "m1", Text: "x"}})

	if len(store.inserted) != 0 {
		t.Error("without a resolved text column the write must be dropped, not sent")
	}
}

func TestDecodeTranscript(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{name: "nil", in: nil, want: 0},
		{name: "json string", in: `[{"id":"m1","sender":"user","text":"a","timestamp":"2026-01-01T10:00:00Z"}]`, want: 1},
		{name: "decoded objects", in: []any{map[string]any{"id": "m1", "sender": "user", "text": "a"}}, want: 1},
		{name: "garbage", in: "not json", want: 0},
		{name: "already typed", in: []model.ChatMessage{{ID: "m1"}}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeTranscript(tt.in); len(got) != tt.want {
				t.Errorf("DecodeTranscript() length = %d, want %d", len(got), tt.want)
			}
		})
	}
}
