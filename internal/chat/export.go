package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// ToMarkdown renders a transcript as a Markdown document.
func ToMarkdown(title string, msgs []Message, exportedAt time.Time) string {
	var sb strings.Builder
	if title == "" {
		title = "Conversación"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "_Exportado el %s_\n\n", exportedAt.Format("2006-01-02 15:04"))

	for _, m := range msgs {
		switch m.Role {
		case RoleUser:
			sb.WriteString("## Usuario\n\n")
		default:
			sb.WriteString("## Asistente\n\n")
		}
		sb.WriteString(strings.TrimSpace(m.Text()))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// Preview flattens text to a single line no wider than width cells,
// cutting on grapheme boundaries and marking truncation with "…".
func Preview(text string, width int) string {
	flat := strings.Join(strings.Fields(text), " ")
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(flat) <= width {
		return flat
	}

	var sb strings.Builder
	used := 0
	state := -1
	rest := flat
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > width-1 {
			break
		}
		sb.WriteString(cluster)
		used += w
	}
	return strings.TrimRight(sb.String(), " ") + "…"
}

// Title derives a conversation title from its first user message.
func Title(msgs []Message, width int) string {
	for _, m := range msgs {
		if m.Role == RoleUser {
			if t := Preview(m.Text(), width); t != "" {
				return t
			}
		}
	}
	return ""
}
