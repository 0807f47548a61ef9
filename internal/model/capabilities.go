package model

// ChatMode tells where a ticket's chat transcript lives on the remote store.
type ChatMode string

const (
	// ChatEmbedded: the transcript is a structured column on the ticket row.
	ChatEmbedded ChatMode = "embedded"
	// ChatRelational: messages are rows in a dedicated message table.
	ChatRelational ChatMode = "relational"
	// ChatUnavailable: neither storage form exists; transcripts are empty.
	ChatUnavailable ChatMode = "unavailable"
)

// SchemaCapabilities is the result of the schema negotiation performed once
// per session. It is immutable after resolution and passed by reference to
// every component that shapes reads or writes from it.
type SchemaCapabilities struct {
	ChatMode ChatMode `json:"chat_mode"`

	// MessageTextColumn is the column holding message text in the relational
	// message table; empty when ChatMode is not relational.
	MessageTextColumn string `json:"message_text_column,omitempty"`

	// MessageAgentColumn is the agent-id column of the message table, empty
	// when the deployment lacks one.
	MessageAgentColumn string `json:"message_agent_column,omitempty"`

	HasInternalNotes      bool `json:"has_internal_notes"`
	HasCurrentAppointment bool `json:"has_current_appointment"`
}
