package ticket

import (
	"encoding/json"
	"fmt"
	"time"

	"desksync/internal/model"
	"desksync/internal/remote"
	"desksync/internal/service/chat"
)

// baseColumns are the ticket columns every deployment has. Optional columns
// are added per the negotiated capabilities.
var baseColumns = []string{
	"id", "title", "description", "category", "priority", "status",
	"user_id", "assigned_to", "workstation_id", "created_at", "updated_at",
}

func selectColumns(caps *model.SchemaCapabilities) []string {
	cols := append([]string(nil), baseColumns...)
	if caps.ChatMode == model.ChatEmbedded {
		cols = append(cols, "chat_history")
	}
	if caps.HasInternalNotes {
		cols = append(cols, "internal_notes")
	}
	if caps.HasCurrentAppointment {
		cols = append(cols, "current_appointment")
	}
	return cols
}

// insertPayload shapes a new ticket row, including only the optional columns
// the remote store is known to have.
func insertPayload(t *model.Ticket, caps *model.SchemaCapabilities) remote.Row {
	row := remote.Row{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"category":    t.Category,
		"priority":    string(t.Priority),
		"status":      string(t.Status),
		"user_id":     t.UserID,
		"created_at":  t.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  t.UpdatedAt.Format(time.RFC3339Nano),
	}
	if t.AssignedTo != nil {
		row["assigned_to"] = *t.AssignedTo
	}
	if t.WorkstationID != nil {
		row["workstation_id"] = *t.WorkstationID
	}
	if caps.ChatMode == model.ChatEmbedded {
		row["chat_history"] = t.ChatHistory
	}
	if caps.HasInternalNotes && len(t.InternalNotes) > 0 {
		row["internal_notes"] = t.InternalNotes
	}
	if caps.HasCurrentAppointment && t.CurrentAppointment != nil {
		row["current_appointment"] = t.CurrentAppointment
	}
	return row
}

// reviveTicket rebuilds a Ticket from the server's authoritative row. The
// optional columns are decoded tolerantly: their values may arrive as decoded
// JSON or as re-encoded strings depending on the store.
func reviveTicket(row remote.Row, caps *model.SchemaCapabilities) (*model.Ticket, error) {
	base := make(remote.Row, len(row))
	for k, v := range row {
		base[k] = v
	}
	chatRaw := base["chat_history"]
	notesRaw := base["internal_notes"]
	apptRaw := base["current_appointment"]
	delete(base, "chat_history")
	delete(base, "internal_notes")
	delete(base, "current_appointment")

	b, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("encode ticket row: %w", err)
	}
	var t model.Ticket
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("decode ticket row: %w", err)
	}
	if t.ID == "" {
		return nil, fmt.Errorf("ticket row missing id")
	}

	if caps.ChatMode == model.ChatEmbedded {
		t.ChatHistory = chat.DecodeTranscript(chatRaw)
	}
	if caps.HasInternalNotes {
		t.InternalNotes = decodeNotes(notesRaw)
	}
	if caps.HasCurrentAppointment {
		t.CurrentAppointment = decodeAppointment(apptRaw)
	}

	return &t, nil
}

func decodeNotes(v any) []model.InternalNote {
	raw, ok := reencode(v)
	if !ok {
		return nil
	}
	var notes []model.InternalNote
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil
	}
	return notes
}

func decodeAppointment(v any) *model.AppointmentDetails {
	raw, ok := reencode(v)
	if !ok {
		return nil
	}
	var appt model.AppointmentDetails
	if err := json.Unmarshal(raw, &appt); err != nil || appt.ID == "" {
		return nil
	}
	return &appt
}

func reencode(v any) ([]byte, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case string:
		return []byte(t), true
	case json.RawMessage:
		return t, true
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return nil, false
		}
		return b, true
	}
}
