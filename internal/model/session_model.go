package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message is one turn in a conversation. Messages are append-only: they
// are never edited or removed once recorded.
type Message struct {
	Id        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"` // "user" | "ai" | "system"
	Timestamp time.Time `json:"timestamp"`
}

// Session is one PDF-grounded conversation thread. ProcessedDocument is
// the opaque payload returned by the ingestion endpoint; it is forwarded
// verbatim on every answer call and never inspected.
type Session struct {
	Id                uuid.UUID       `json:"id"`
	Title             string          `json:"title"`
	Messages          []Message       `json:"messages"`
	ProcessedDocument json.RawMessage `json:"processed_document,omitempty"`
	DocumentName      string          `json:"document_name,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Clone returns a deep copy so callers can hand sessions out without
// exposing the store's internal slices.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Messages = make([]Message, len(s.Messages))
	copy(cp.Messages, s.Messages)
	if s.ProcessedDocument != nil {
		cp.ProcessedDocument = make(json.RawMessage, len(s.ProcessedDocument))
		copy(cp.ProcessedDocument, s.ProcessedDocument)
	}
	return &cp
}

// SessionSnapshot is the persisted state: the full session list plus the
// active-session identifier, serialized as a single key-value entry and
// fully rewritten on every mutation.
type SessionSnapshot struct {
	Sessions        []*Session `json:"sessions"`
	ActiveSessionId *uuid.UUID `json:"active_session_id,omitempty"`
}
