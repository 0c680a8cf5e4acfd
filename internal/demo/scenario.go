// Package demo is an in-memory stand-in for the chat backend. It serves the
// same four endpoints the widget consumes, seeded from a Scenario, so the
// widget can be exercised end to end without a real assistant service.
package demo

import (
	"strconv"
	"time"

	"github.com/zhubert/chatmodal/internal/backend"
)

// Turn is one seeded message.
type Turn struct {
	Speaker backend.Speaker
	Text    string
}

// Human returns a human turn.
func Human(text string) Turn { return Turn{Speaker: backend.SpeakerHuman, Text: text} }

// AI returns an assistant turn.
func AI(text string) Turn { return Turn{Speaker: backend.SpeakerAI, Text: text} }

// SeedConversation is a conversation present when the server starts.
type SeedConversation struct {
	SessionID string
	Title     string
	// Age is how long ago the first turn happened.
	Age   time.Duration
	Turns []Turn
}

// Scenario defines the initial backend state and canned replies.
type Scenario struct {
	Name          string
	Description   string
	UserID        int
	Conversations []SeedConversation
	// Replies are returned in order for sent messages, cycling when
	// exhausted. An empty list echoes the message back.
	Replies []string
	// Latency delays every response.
	Latency time.Duration
}

// Validate checks that the scenario is usable and fills defaults.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "Name", Message: "scenario name is required"}
	}
	if s.UserID <= 0 {
		return &ValidationError{Field: "UserID", Message: "user id must be positive"}
	}
	seen := make(map[string]bool)
	for i, c := range s.Conversations {
		if c.SessionID == "" {
			return &ValidationError{Field: "Conversations", Message: "conversation " + strconv.Itoa(i) + " has no session id"}
		}
		if seen[c.SessionID] {
			return &ValidationError{Field: "Conversations", Message: "duplicate session id " + c.SessionID}
		}
		seen[c.SessionID] = true
	}
	if s.Latency < 0 {
		s.Latency = 0
	}
	return nil
}

// ValidationError represents a scenario validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + ": " + e.Message
}
