package ui

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/chatmodal/internal/chat"
)

// Role labels shown above each turn.
const (
	UserLabel      = "Tú"
	AssistantLabel = "Asistente"
)

// Welcome screen texts for an empty transcript.
const (
	WelcomeTitle = "Hola!"
	WelcomeText  = "Soy tu asistente jurídico personal. ¿En qué puedo ayudarte?"
)

var (
	boldPattern       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	starItalicPattern = regexp.MustCompile(`(^|[^*])\*([^*\s][^*]*)\*`)
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	numberedPattern   = regexp.MustCompile(`^(\d{1,3})[.)] (.*)$`)
)

// highlightCode colors a fenced block with chroma. Unknown languages are
// guessed from the code. On any failure the code is returned as is.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		if lexer = lexers.Analyse(code); lexer == nil {
			lexer = lexers.Fallback
		}
	}
	style := styles.Get(CurrentTheme().CodeStyle)
	if style == nil {
		style = styles.Fallback
	}
	format := formatters.Get("terminal256")
	if format == nil {
		format = formatters.Fallback
	}

	tokens, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return code
	}
	var out bytes.Buffer
	if format.Format(&out, style, tokens) != nil {
		return code
	}
	return strings.TrimRight(out.String(), "\n")
}

// renderInlineMarkdown applies bold, italic, code and link formatting.
func renderInlineMarkdown(line string) string {
	// Code spans are swapped for placeholders so nothing inside them is
	// formatted.
	var spans []string
	line = inlineCodePattern.ReplaceAllStringFunc(line, func(match string) string {
		code := inlineCodePattern.FindStringSubmatch(match)[1]
		spans = append(spans, MarkdownInlineCodeStyle.Render(code))
		return fmt.Sprintf("\x00%d\x00", len(spans)-1)
	})

	line = boldPattern.ReplaceAllStringFunc(line, func(match string) string {
		return MarkdownBoldStyle.Render(boldPattern.FindStringSubmatch(match)[1])
	})
	line = starItalicPattern.ReplaceAllStringFunc(line, func(match string) string {
		sub := starItalicPattern.FindStringSubmatch(match)
		return sub[1] + MarkdownItalicStyle.Render(sub[2])
	})
	line = linkPattern.ReplaceAllStringFunc(line, func(match string) string {
		parts := linkPattern.FindStringSubmatch(match)
		return MarkdownLinkStyle.Render(parts[1]) + " (" + parts[2] + ")"
	})

	for i, rendered := range spans {
		line = strings.Replace(line, fmt.Sprintf("\x00%d\x00", i), rendered, 1)
	}
	return line
}

// wrapText wraps text to width, keeping ANSI sequences intact.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return ansi.Wrap(text, width, "")
}

// indentContinuation indents every wrapped line after the first.
func indentContinuation(wrapped string, indent int) string {
	lines := strings.Split(wrapped, "\n")
	pad := strings.Repeat(" ", indent)
	for i := 1; i < len(lines); i++ {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

// renderMarkdownLine renders one line outside code fences: headings,
// rules, quotes and lists get their own style, anything else is inline
// markdown.
func renderMarkdownLine(line string, width int) string {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, "#") {
		heading := strings.TrimLeft(trimmed, "#")
		if strings.HasPrefix(heading, " ") {
			return MarkdownHeadingStyle.Render(wrapText(strings.TrimSpace(heading), width))
		}
	}

	switch trimmed {
	case "---", "***", "___":
		return MarkdownHRStyle.Render(strings.Repeat("─", min(width, 32)))
	}

	if quote, ok := strings.CutPrefix(trimmed, "> "); ok {
		return MarkdownBlockquoteStyle.Render(wrapText(renderInlineMarkdown(quote), width-4))
	}

	if len(trimmed) > 1 && (trimmed[0] == '-' || trimmed[0] == '*') && trimmed[1] == ' ' {
		bullet := MarkdownListBulletStyle.Render("•")
		wrapped := wrapText(renderInlineMarkdown(trimmed[2:]), width-4)
		return "  " + bullet + " " + indentContinuation(wrapped, 4)
	}

	if m := numberedPattern.FindStringSubmatch(trimmed); m != nil {
		number := MarkdownListBulletStyle.Render(m[1] + ".")
		wrapped := wrapText(renderInlineMarkdown(m[2]), width-len(m[1])-4)
		return "  " + number + " " + indentContinuation(wrapped, len(m[1])+4)
	}

	return wrapText(renderInlineMarkdown(line), width)
}

// fence collects the lines of a ``` block.
type fence struct {
	open bool
	lang string
	body []string
}

// renderMarkdown renders an assistant reply. Fenced blocks are syntax
// highlighted and an unterminated fence still shows its content.
func renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}

	var (
		rendered []string
		block    fence
	)
	closeFence := func() {
		code := highlightCode(strings.Join(block.body, "\n"), block.lang)
		rendered = append(rendered, MarkdownCodeBlockStyle.Render(code))
		block = fence{}
	}

	for _, line := range strings.Split(content, "\n") {
		if info, ok := strings.CutPrefix(strings.TrimSpace(line), "```"); ok {
			if block.open {
				closeFence()
			} else {
				block = fence{open: true, lang: strings.TrimSpace(info)}
			}
			continue
		}
		if block.open {
			block.body = append(block.body, line)
			continue
		}
		rendered = append(rendered, renderMarkdownLine(line, width))
	}
	if block.open {
		closeFence()
	}
	return strings.TrimRight(strings.Join(rendered, "\n"), "\n")
}

// renderMessage renders one transcript turn under its role label. User
// text is wrapped as typed and assistant text goes through renderMarkdown.
func renderMessage(m chat.Message, width int) string {
	text := strings.TrimSpace(m.Text())
	if m.Role == chat.RoleUser {
		parts := []string{
			ChatUserStyle.Render(UserLabel + ":"),
			ChatMessageStyle.Render(wrapText(text, width)),
		}
		for _, a := range m.Attachments {
			parts = append(parts, WelcomeTextStyle.Render("📎 "+a.Name))
		}
		return strings.Join(parts, "\n")
	}

	parts := []string{
		ChatAssistantStyle.Render(AssistantLabel + ":"),
		renderMarkdown(text, width),
	}
	if m.Status == chat.StatusIncomplete {
		parts = append(parts, StatusErrorStyle.Render("(respuesta incompleta)"))
	}
	return strings.Join(parts, "\n")
}

// renderWelcome renders the greeting shown on an empty transcript.
func renderWelcome(width int) string {
	return WelcomeTitleStyle.Render(WelcomeTitle) + "\n\n" +
		WelcomeTextStyle.Render(wrapText(WelcomeText, width))
}
