package contract

import (
	"context"
	"encoding/json"
	"errors"

	"pdf-chat-be/internal/model"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// ISessionRepository is the single source of truth for the session list
// and the active-session identifier. Every mutating operation schedules a
// full-snapshot write to the persistent store, in the order the mutations
// were issued.
type ISessionRepository interface {
	// Load restores persisted state at startup. Unreadable state is
	// recovered locally as an empty list; Load never fails the caller.
	Load(ctx context.Context)

	// Create appends a new empty session at the front of the list and
	// makes it active.
	Create(ctx context.Context) (*model.Session, error)

	// Delete removes the session; clears the active id if it pointed at
	// it. No-op if the id is not present.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetActive changes the active session. A nil id clears it. The id is
	// not validated against the list; a dangling active id reads as "no
	// active session".
	SetActive(ctx context.Context, id *uuid.UUID) error

	GetActive(ctx context.Context) *uuid.UUID

	// AppendMessage appends to the session's transcript. No-op if the
	// session no longer exists (a delete can race an in-flight reply).
	AppendMessage(ctx context.Context, id uuid.UUID, msg model.Message) error

	// AttachDocument sets the processed-document payload, retitles the
	// session after the file, and appends a system message recording the
	// event, as one state update. A later upload replaces the payload.
	AttachDocument(ctx context.Context, id uuid.UUID, payload json.RawMessage, fileName string) (*model.Message, error)

	// SetTitle renames a session.
	SetTitle(ctx context.Context, id uuid.UUID, title string) error

	GetAll(ctx context.Context) []*model.Session
	Get(ctx context.Context, id uuid.UUID) (*model.Session, bool)
}

// SnapshotPublisher hands full-state snapshots to the persistence
// pipeline. Implementations must preserve publish order.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snap *model.SessionSnapshot) error
}
