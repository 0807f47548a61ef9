package model

import "time"

// ChatSender identifies who produced a chat message.
type ChatSender string

const (
	SenderUser          ChatSender = "user"
	SenderAI            ChatSender = "ai"
	SenderAgent         ChatSender = "agent"
	SenderSystemSummary ChatSender = "system_summary"
)

// ChatMessage is one entry of a ticket transcript. The id is generated
// locally before the remote write is issued and reused as the durable id.
// Messages are append-only; never edited or removed once committed.
type ChatMessage struct {
	ID        string     `json:"id"`
	Sender    ChatSender `json:"sender"`
	Text      string     `json:"text"`
	Timestamp time.Time  `json:"timestamp"`
	// AgentID is only meaningful when Sender is SenderAgent.
	AgentID *string `json:"agent_id,omitempty"`
}
