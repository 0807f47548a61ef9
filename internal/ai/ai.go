// Package ai declares the interfaces of the AI text-generation collaborator.
// Desksync consumes these; implementations live in the embedding application.
package ai

import (
	"context"

	"desksync/internal/model"
)

// Intake is AI-generated ticket metadata derived from a chat transcript.
type Intake struct {
	Title       string
	Description string
	Category    string
	Priority    model.TicketPriority
}

// Summarizer turns an intake conversation into ticket metadata.
type Summarizer interface {
	SummarizeAndCategorizeChat(ctx context.Context, messages []model.ChatMessage, locale string) (Intake, error)
}

// Reply is an AI follow-up help response.
type Reply struct {
	Text                string
	EscalationSuggested bool
}

// Assistant produces follow-up replies inside an open ticket conversation.
type Assistant interface {
	FollowUpHelpResponse(ctx context.Context, title, category string, messages []model.ChatMessage, aiLevel int, locale string) (Reply, error)
}
