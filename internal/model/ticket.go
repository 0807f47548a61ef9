package model

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "Open"
	StatusInProgress TicketStatus = "InProgress"
	StatusResolved   TicketStatus = "Resolved"
	StatusClosed     TicketStatus = "Closed"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "Low"
	PriorityMedium TicketPriority = "Medium"
	PriorityHigh   TicketPriority = "High"
	PriorityUrgent TicketPriority = "Urgent"
)

// Ticket is the aggregate for support requests. It is the unit the sync store
// keeps consistent between the in-memory collection and the remote row.
type Ticket struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	Priority      TicketPriority `json:"priority"`
	Status        TicketStatus   `json:"status"`
	UserID        string         `json:"user_id"`
	AssignedTo    *string        `json:"assigned_to,omitempty"`
	WorkstationID *string        `json:"workstation_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	// ChatHistory is ordered by timestamp ascending under both storage
	// strategies. When chat lives in a separate table the remote ticket row
	// does not carry it.
	ChatHistory []ChatMessage `json:"chat_history,omitempty"`

	// InternalNotes and CurrentAppointment only round-trip when the remote
	// store exposes the matching optional columns.
	InternalNotes      []InternalNote      `json:"internal_notes,omitempty"`
	CurrentAppointment *AppointmentDetails `json:"current_appointment,omitempty"`

	// Appointments tracks the current and past appointments of the ticket.
	Appointments []AppointmentDetails `json:"-"`
}

// Clone returns a deep-enough copy for snapshot reads: slices are copied so
// callers cannot mutate the store's canonical state through the snapshot.
func (t *Ticket) Clone() Ticket {
	c := *t
	c.ChatHistory = append([]ChatMessage(nil), t.ChatHistory...)
	c.InternalNotes = append([]InternalNote(nil), t.InternalNotes...)
	c.Appointments = append([]AppointmentDetails(nil), t.Appointments...)
	if t.CurrentAppointment != nil {
		appt := *t.CurrentAppointment
		c.CurrentAppointment = &appt
	}
	return c
}

// InternalNote is an agent-only annotation on a ticket.
type InternalNote struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
