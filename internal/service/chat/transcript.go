package chat

import (
	"encoding/json"

	"desksync/internal/model"
)

// DecodeTranscript turns the embedded chat_history column value into a
// transcript. The column arrives as decoded JSON (a slice of objects) or as a
// raw JSON string depending on the store; anything undecodable yields nil.
func DecodeTranscript(v any) []model.ChatMessage {
	if v == nil {
		return nil
	}

	var raw []byte
	switch t := v.(type) {
	case []model.ChatMessage:
		return t
	case string:
		raw = []byte(t)
	case json.RawMessage:
		raw = t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return nil
		}
		raw = b
	}

	var msgs []model.ChatMessage
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil
	}
	return msgs
}
