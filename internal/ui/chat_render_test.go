package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/chatmodal/internal/chat"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		notWant []string
	}{
		{"bold", "es **importante** saberlo", []string{"es importante saberlo"}, []string{"**"}},
		{"italic", "un *plazo* legal", []string{"un plazo legal"}, []string{"*plazo*"}},
		{"inline code", "usa `art. 56`", []string{"art. 56"}, []string{"`"}},
		{"link", "[BOE](https://boe.es)", []string{"BOE (https://boe.es)"}, nil},
		{"heading", "## Plazos", []string{"Plazos"}, []string{"##"}},
		{"bullets", "- primero\n* segundo", []string{"• primero", "• segundo"}, nil},
		{"numbered", "1. demanda\n2. juicio", []string{"1. demanda", "2. juicio"}, nil},
		{"code fence", "```go\nfmt.Println(\"hola\")\n```", []string{"fmt", "Println"}, []string{"```"}},
		{"unterminated fence", "```\nsin cerrar", []string{"sin cerrar"}, []string{"```"}},
		{"blockquote", "> cita textual", []string{"cita textual"}, []string{"> "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ansi.Strip(renderMarkdown(tt.in, 60))
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output %q should not contain %q", out, w)
				}
			}
		})
	}
}

func TestWrapText(t *testing.T) {
	out := wrapText(strings.Repeat("palabra ", 20), 30)
	for _, line := range strings.Split(out, "\n") {
		if ansi.StringWidth(line) > 30 {
			t.Errorf("line %q wider than 30", line)
		}
	}
	if wrapText("abc", 0) != "abc" {
		t.Error("zero width leaves text unchanged")
	}
}

func TestRenderMessage(t *testing.T) {
	user := chat.NewUserMessage("¿Cuánto dura el preaviso?")
	user.Attachments = []chat.Attachment{{Name: "contrato.pdf"}}
	out := ansi.Strip(renderMessage(user, 60))
	if !strings.HasPrefix(out, UserLabel+":") || !strings.Contains(out, "contrato.pdf") {
		t.Errorf("user render = %q", out)
	}

	reply := chat.NewAssistantMessage(chat.StringContent("Quince días."))
	reply.Status = chat.StatusIncomplete
	out = ansi.Strip(renderMessage(reply, 60))
	if !strings.HasPrefix(out, AssistantLabel+":") || !strings.Contains(out, "incompleta") {
		t.Errorf("assistant render = %q", out)
	}
}

func TestHighlightCode_UnknownLanguage(t *testing.T) {
	out := ansi.Strip(highlightCode("plain text", "no-such-lang"))
	if !strings.Contains(out, "plain text") {
		t.Errorf("fallback lost content: %q", out)
	}
}
