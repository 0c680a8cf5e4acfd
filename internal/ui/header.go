package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// HeaderTitle is the fixed product label on the left of the header.
const HeaderTitle = "Asistente jurídico"

// Header is the top bar of the expanded panel.
type Header struct {
	width int
	title string
	busy  bool
}

func NewHeader() *Header { return &Header{} }

func (h *Header) SetWidth(width int) { h.width = width }

// SetConversationTitle sets the title shown on the right. Empty hides it.
func (h *Header) SetConversationTitle(title string) {
	h.title = title
}

// SetBusy marks that a reply is being generated.
func (h *Header) SetBusy(busy bool) {
	h.busy = busy
}

// View renders the product label on the left and the conversation title,
// truncated to fit, on the right.
func (h *Header) View() string {
	left := " " + HeaderTitle
	if h.busy {
		left += " ·"
	}

	var right string
	if h.title != "" {
		room := h.width - ansi.StringWidth(left) - 3
		if room > 0 {
			right = ansi.Truncate(h.title, room, "…") + " "
		}
	}

	padding := max(0, h.width-ansi.StringWidth(left)-ansi.StringWidth(right))
	return h.renderGradient(left+strings.Repeat(" ", padding)+right, len([]rune(left)))
}

type rgb struct{ r, g, b int }

// parseHexColor reads "#RRGGBB". Anything else is black.
func parseHexColor(s string) (r, g, b int) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0
	}
	fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b)
	return r, g, b
}

func rgbOf(s string) rgb {
	r, g, b := parseHexColor(s)
	return rgb{r, g, b}
}

// mix returns the color a fraction f of the way from c to d.
func (c rgb) mix(d rgb, f float64) string {
	lerp := func(x, y int) int { return x + int(float64(y-x)*f) }
	return fmt.Sprintf("#%02X%02X%02X", lerp(c.r, d.r), lerp(c.g, d.g), lerp(c.b, d.b))
}

// renderGradient draws content on a background that fades from the primary
// color into the theme background. The first boldUntil runes are the
// product label.
func (h *Header) renderGradient(content string, boldUntil int) string {
	cells := []rune(content)
	if len(cells) == 0 {
		return ""
	}

	palette := CurrentTheme()
	from, to := rgbOf(palette.Primary), rgbOf(palette.Bg)
	label := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(palette.TextInverse))
	rest := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Text))

	var out strings.Builder
	for i, c := range cells {
		st := rest
		if i < boldUntil {
			st = label
		}
		bg := from.mix(to, float64(i)/float64(len(cells)))
		out.WriteString(st.Background(lipgloss.Color(bg)).Render(string(c)))
	}
	return out.String()
}
