package memory

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/sandevgo/parley/internal/core"
)

func convEvent(t *testing.T, role, text string, ts *time.Time) core.Event {
	t.Helper()
	payload := fmt.Sprintf(`[{"conversational":{"content":{"text":%q},"role":%q}}]`, text, role)
	return core.Event{Payload: json.RawMessage(payload), Timestamp: ts}
}

func rawEvent(payload string, ts *time.Time) core.Event {
	return core.Event{Payload: json.RawMessage(payload), Timestamp: ts}
}

func at(t *testing.T, minute int) *time.Time {
	t.Helper()
	ts := time.Date(2026, 8, 1, 12, minute, 0, 0, time.UTC)
	return &ts
}

func texts(messages []core.ConversationMessage) []string {
	out := make([]string, len(messages))
	for i, m := range messages {
		out[i] = m.Text
	}
	return out
}

func TestNormalize_Ordering(t *testing.T) {
	tests := []struct {
		name   string
		events []core.Event
		want   []string
	}{
		{
			name: "sorted ascending regardless of input order",
			events: []core.Event{
				convEvent(t, "USER", "third", at(t, 30)),
				convEvent(t, "ASSISTANT", "first", at(t, 10)),
				convEvent(t, "USER", "second", at(t, 20)),
			},
			want: []string{"first", "second", "third"},
		},
		{
			name: "equal timestamps keep retrieval order",
			events: []core.Event{
				convEvent(t, "USER", "a", at(t, 10)),
				convEvent(t, "ASSISTANT", "b", at(t, 10)),
				convEvent(t, "USER", "c", at(t, 10)),
			},
			want: []string{"a", "b", "c"},
		},
		{
			name: "missing timestamps keep retrieval order",
			events: []core.Event{
				convEvent(t, "USER", "a", nil),
				convEvent(t, "ASSISTANT", "b", nil),
			},
			want: []string{"a", "b"},
		},
		{
			name: "missing timestamp sorts before any dated event",
			events: []core.Event{
				convEvent(t, "ASSISTANT", "dated", at(t, 10)),
				convEvent(t, "USER", "undated", nil),
			},
			want: []string{"undated", "dated"},
		},
		{
			name: "mixed missing and present",
			events: []core.Event{
				convEvent(t, "USER", "late", at(t, 40)),
				convEvent(t, "USER", "undated-1", nil),
				convEvent(t, "ASSISTANT", "early", at(t, 5)),
				convEvent(t, "USER", "undated-2", nil),
			},
			want: []string{"undated-1", "undated-2", "early", "late"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(Normalize(tt.events))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("position %d = %q, want %q (full order %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

func TestNormalize_SkipsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		events []core.Event
		want   int
	}{
		{
			name:   "payload is not an array",
			events: []core.Event{rawEvent(`{"conversational":{}}`, at(t, 1))},
			want:   0,
		},
		{
			name:   "payload is not json",
			events: []core.Event{rawEvent(`not json at all`, at(t, 1))},
			want:   0,
		},
		{
			name:   "item without conversational wrapper",
			events: []core.Event{rawEvent(`[{"blob":{"data":"x"}}]`, at(t, 1))},
			want:   0,
		},
		{
			name:   "missing text",
			events: []core.Event{rawEvent(`[{"conversational":{"content":{},"role":"USER"}}]`, at(t, 1))},
			want:   0,
		},
		{
			name:   "text is not a string",
			events: []core.Event{rawEvent(`[{"conversational":{"content":{"text":42},"role":"USER"}}]`, at(t, 1))},
			want:   0,
		},
		{
			name:   "unknown role",
			events: []core.Event{rawEvent(`[{"conversational":{"content":{"text":"hi"},"role":"SYSTEM"}}]`, at(t, 1))},
			want:   0,
		},
		{
			name: "bad item does not affect its neighbours",
			events: []core.Event{rawEvent(`[
				{"conversational":{"content":{"text":"ok-1"},"role":"USER"}},
				{"conversational":{"content":{"text":99},"role":"USER"}},
				{"conversational":{"content":{"text":"ok-2"},"role":"ASSISTANT"}}
			]`, at(t, 1))},
			want: 2,
		},
		{
			name: "bad event does not affect other events",
			events: []core.Event{
				rawEvent(`broken`, at(t, 1)),
				convEvent(t, "USER", "survives", at(t, 2)),
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.events)
			if len(got) != tt.want {
				t.Errorf("got %d messages (%v), want %d", len(got), texts(got), tt.want)
			}
		})
	}
}

func TestNormalize_CarriesRoleAndTimestamp(t *testing.T) {
	ts := at(t, 15)
	got := Normalize([]core.Event{convEvent(t, "ASSISTANT", "hello", ts)})

	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	if got[0].Role != core.RoleAssistant {
		t.Errorf("role = %q, want %q", got[0].Role, core.RoleAssistant)
	}
	if got[0].Timestamp == nil || !got[0].Timestamp.Equal(*ts) {
		t.Errorf("timestamp = %v, want %v", got[0].Timestamp, ts)
	}
}

func TestNormalize_MultipleItemsPerEvent(t *testing.T) {
	ev := rawEvent(`[
		{"conversational":{"content":{"text":"one"},"role":"USER"}},
		{"conversational":{"content":{"text":"two"},"role":"ASSISTANT"}}
	]`, at(t, 1))

	got := Normalize([]core.Event{ev})
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Text != "one" || got[1].Text != "two" {
		t.Errorf("unexpected order: %v", texts(got))
	}
}

func TestNormalize_Empty(t *testing.T) {
	if got := Normalize(nil); len(got) != 0 {
		t.Errorf("expected no messages, got %d", len(got))
	}
}
