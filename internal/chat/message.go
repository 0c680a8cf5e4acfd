// Package chat defines the transcript model shown in the thread view and its
// conversion from the backend's stored turns.
package chat

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/chatmodal/internal/backend"
)

// Role is who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Status is the completion state of an assistant message.
type Status string

const (
	StatusNone       Status = ""
	StatusComplete   Status = "complete"
	StatusIncomplete Status = "incomplete"
)

// PartType tags a content part.
type PartType string

const PartText PartType = "text"

// Part is one typed piece of message content.
type Part struct {
	Type PartType
	Text string
}

// TextPart returns a text-typed part.
func TextPart(s string) Part {
	return Part{Type: PartText, Text: s}
}

// Content is either a plain string or an ordered list of typed parts.
type Content struct {
	str     string
	parts   []Part
	isParts bool
}

// StringContent returns plain string content.
func StringContent(s string) Content {
	return Content{str: s}
}

// PartsContent returns content made of parts.
func PartsContent(parts ...Part) Content {
	return Content{parts: slices.Clone(parts), isParts: true}
}

// IsParts reports whether c holds a list of parts.
func (c Content) IsParts() bool {
	return c.isParts
}

// Parts returns the content as parts. String content becomes one text part.
func (c Content) Parts() []Part {
	if !c.isParts {
		return []Part{TextPart(c.str)}
	}
	return slices.Clone(c.parts)
}

// Text extracts the textual content. For parts, every text part is
// concatenated with no separator and other part types are skipped.
func (c Content) Text() string {
	if !c.isParts {
		return c.str
	}
	var sb strings.Builder
	for _, p := range c.parts {
		if p.Type == PartText {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// Attachment is a file attached to a user message.
type Attachment struct {
	Name        string
	ContentType string
}

// Message is one turn of the transcript.
type Message struct {
	ID          string
	Role        Role
	Content     Content
	Status      Status
	Attachments []Attachment
	CreatedAt   time.Time
}

// NewUserMessage builds a user turn from composer text.
func NewUserMessage(text string) Message {
	return Message{
		ID:          uuid.NewString(),
		Role:        RoleUser,
		Content:     PartsContent(TextPart(text)),
		Attachments: []Attachment{},
		CreatedAt:   time.Now(),
	}
}

// NewAssistantMessage builds a completed assistant turn.
func NewAssistantMessage(content Content) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		Status:    StatusComplete,
		CreatedAt: time.Now(),
	}
}

// Text is shorthand for m.Content.Text().
func (m Message) Text() string {
	return m.Content.Text()
}

// FromBackend adapts a stored turn. Human turns become user messages with an
// empty attachment list; anything else is a completed assistant message.
func FromBackend(bm backend.Message) Message {
	m := Message{
		ID:        backendID(bm),
		Content:   PartsContent(TextPart(bm.Mensaje.Contenido)),
		CreatedAt: parseCreated(bm.Creado),
	}
	if isHuman(bm.Mensaje.Tipo) {
		m.Role = RoleUser
		m.Attachments = []Attachment{}
	} else {
		m.Role = RoleAssistant
		m.Status = StatusComplete
	}
	return m
}

// AdaptPage adapts one history page and reverses it from the backend's
// newest-first order to display order.
func AdaptPage(page []backend.Message) []Message {
	out := make([]Message, len(page))
	for i, bm := range page {
		out[len(page)-1-i] = FromBackend(bm)
	}
	return out
}

// LastUserText returns the text of the most recent user message, or "".
func LastUserText(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content.Text()
		}
	}
	return ""
}

// LastIndex returns the index of the last message with role, or -1.
func LastIndex(msgs []Message, role Role) int {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == role {
			return i
		}
	}
	return -1
}

func isHuman(s backend.Speaker) bool {
	return s == backend.SpeakerHuman || s == "human"
}

func backendID(bm backend.Message) string {
	if bm.ID == 0 {
		return uuid.NewString()
	}
	return "msg-" + strconv.FormatInt(bm.ID, 10)
}

var createdLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05",
}

func parseCreated(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
