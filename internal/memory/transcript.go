package memory

import (
	"encoding/json"
	"sort"

	"github.com/sandevgo/parley/internal/core"
)

// Payload item shapes vary by writer, so every field is optional and
// checked before use. Anything that does not decode cleanly into a
// conversational item is skipped.
type payloadItem struct {
	Conversational *conversationalPayload `json:"conversational"`
}

type conversationalPayload struct {
	Content *payloadContent `json:"content"`
	Role    string          `json:"role"`
}

type payloadContent struct {
	Text *string `json:"text"`
}

// Normalize extracts role-tagged messages from raw store events and
// orders them for rendering. Malformed events or items never abort the
// pass; they contribute nothing.
//
// Ordering: ascending by timestamp, with timestamp-less messages ahead
// of dated ones. Ties and all-missing comparisons keep retrieval order.
// Store writes are not fully time-ordered, so this re-derived order is
// the only ordering guarantee readers get.
func Normalize(events []core.Event) []core.ConversationMessage {
	var messages []core.ConversationMessage

	for _, ev := range events {
		var items []json.RawMessage
		if err := json.Unmarshal(ev.Payload, &items); err != nil {
			continue
		}

		for _, raw := range items {
			var item payloadItem
			if err := json.Unmarshal(raw, &item); err != nil {
				continue
			}

			conv := item.Conversational
			if conv == nil || conv.Content == nil || conv.Content.Text == nil {
				continue
			}

			role := core.Role(conv.Role)
			if !role.Known() {
				continue
			}

			messages = append(messages, core.ConversationMessage{
				Role:      role,
				Text:      *conv.Content.Text,
				Timestamp: ev.Timestamp,
			})
		}
	}

	sort.SliceStable(messages, func(i, j int) bool {
		a, b := messages[i].Timestamp, messages[j].Timestamp
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return true
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})

	return messages
}
