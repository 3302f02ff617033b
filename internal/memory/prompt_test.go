package memory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandevgo/parley/internal/core"
)

func TestAssemble_SectionOrder(t *testing.T) {
	messages := []core.ConversationMessage{
		{Role: core.RoleUser, Text: "hi"},
		{Role: core.RoleAssistant, Text: "hello"},
	}

	out := Assemble("be helpful", "we talked about go", messages, "what next?")

	sections := []string{
		"## System Instructions (trusted)",
		"be helpful",
		"## Conversation Summary (trusted)",
		"we talked about go",
		"## Conversation History (untrusted)",
		"User: hi",
		"Assistant: hello",
		"## Current Request (untrusted)",
		"what next?",
		trailingInstructions,
	}

	pos := -1
	for _, section := range sections {
		idx := strings.Index(out, section)
		if idx < 0 {
			t.Fatalf("missing section %q in envelope:\n%s", section, out)
		}
		if idx <= pos {
			t.Fatalf("section %q out of order in envelope:\n%s", section, out)
		}
		pos = idx
	}
}

func TestAssemble_Placeholders(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		want    string
	}{
		{"empty summary", "", noSummaryPlaceholder},
		{"whitespace summary", "   \n\t", noSummaryPlaceholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Assemble("sys", tt.summary, nil, "req")
			if !strings.Contains(out, tt.want) {
				t.Errorf("envelope missing %q:\n%s", tt.want, out)
			}
		})
	}

	out := Assemble("sys", "", nil, "req")
	if !strings.Contains(out, noHistoryPlaceholder) {
		t.Errorf("empty history should render %q:\n%s", noHistoryPlaceholder, out)
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	messages := []core.ConversationMessage{
		{Role: core.RoleUser, Text: "question"},
		{Role: core.RoleAssistant, Text: "answer"},
	}

	a := Assemble("sys", "sum", messages, "req")
	b := Assemble("sys", "sum", messages, "req")
	if a != b {
		t.Error("identical inputs should render byte-identical envelopes")
	}
}

func TestAssemble_RendersMessagesInGivenOrder(t *testing.T) {
	messages := []core.ConversationMessage{
		{Role: core.RoleAssistant, Text: "second"},
		{Role: core.RoleUser, Text: "first"},
	}

	out := Assemble("sys", "", messages, "req")

	// The assembler must not reorder; ordering is the normalizer's job.
	if strings.Index(out, "Assistant: second") > strings.Index(out, "User: first") {
		t.Errorf("assembler reordered messages:\n%s", out)
	}
}

func TestSysPrompt_Default(t *testing.T) {
	p := NewSysPrompt(filepath.Join(t.TempDir(), "SYSTEM.md"))
	if got := p.Build(); got != defaultSystemPrompt {
		t.Errorf("missing override file should fall back to the default prompt, got %q", got)
	}
}

func TestSysPrompt_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SYSTEM.md")
	if err := os.WriteFile(path, []byte("custom persona\n"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	p := NewSysPrompt(path)
	if got := p.Build(); got != "custom persona" {
		t.Errorf("Build() = %q, want %q", got, "custom persona")
	}
}
