package implementation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"pdf-chat-be/internal/constant"
	"pdf-chat-be/internal/model"
	"pdf-chat-be/internal/pkg/logger"
	"pdf-chat-be/internal/repository/contract"
	"pdf-chat-be/internal/repository/kv"

	"github.com/google/uuid"
)

// SessionRepository holds the session list in memory and mirrors every
// mutation to the persistent store through the snapshot publisher. All
// mutations funnel through the mutex, so snapshots are published in the
// order mutations were issued.
type SessionRepository struct {
	mu       sync.Mutex
	sessions []*model.Session
	activeId *uuid.UUID

	store    kv.Store
	storeKey string
	pub      contract.SnapshotPublisher
	log      logger.ILogger
}

func NewSessionRepository(store kv.Store, storeKey string, pub contract.SnapshotPublisher, log logger.ILogger) *SessionRepository {
	return &SessionRepository{
		store:    store,
		storeKey: storeKey,
		pub:      pub,
		log:      log,
	}
}

// Load restores the snapshot from the store. A missing entry or an
// unparseable one both start the repository empty; the parse failure is
// logged and swallowed, never returned.
func (r *SessionRepository) Load(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.store.Get(ctx, r.storeKey)
	if err != nil {
		if err != kv.ErrKeyNotFound {
			perr := &kv.PersistenceReadError{Err: err}
			r.log.Warn("SessionRepository", "Persisted state unreadable, starting empty", map[string]interface{}{"error": perr.Error()})
		}
		r.sessions = nil
		r.activeId = nil
		return
	}

	var snap model.SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		perr := &kv.PersistenceReadError{Err: err}
		r.log.Warn("SessionRepository", "Persisted state unparseable, starting empty", map[string]interface{}{"error": perr.Error()})
		r.sessions = nil
		r.activeId = nil
		return
	}

	r.sessions = snap.Sessions
	r.activeId = snap.ActiveSessionId
}

func (r *SessionRepository) Create(ctx context.Context) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := &model.Session{
		Id:        uuid.New(),
		Title:     constant.DefaultSessionTitle,
		Messages:  []model.Message{},
		CreatedAt: time.Now(),
	}

	// Most-recent-first ordering.
	r.sessions = append([]*model.Session{session}, r.sessions...)
	id := session.Id
	r.activeId = &id

	if err := r.publishLocked(ctx); err != nil {
		return nil, err
	}
	return session.Clone(), nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for i, s := range r.sessions {
		if s.Id == id {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	if r.activeId != nil && *r.activeId == id {
		r.activeId = nil
	}

	return r.publishLocked(ctx)
}

func (r *SessionRepository) SetActive(ctx context.Context, id *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Deliberately not validated against the list: a dangling active id
	// reads back as "no active session".
	r.activeId = id

	return r.publishLocked(ctx)
}

func (r *SessionRepository) GetActive(_ context.Context) *uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeId == nil {
		return nil
	}
	id := *r.activeId
	return &id
}

func (r *SessionRepository) AppendMessage(ctx context.Context, id uuid.UUID, msg model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := r.findLocked(id)
	if session == nil {
		// The session was deleted while a call was in flight.
		return nil
	}

	session.Messages = append(session.Messages, msg)

	return r.publishLocked(ctx)
}

func (r *SessionRepository) AttachDocument(ctx context.Context, id uuid.UUID, payload json.RawMessage, fileName string) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := r.findLocked(id)
	if session == nil {
		return nil, contract.ErrSessionNotFound
	}

	// Payload, title and the system message land as one state update; a
	// reader never observes a partially applied upload.
	session.ProcessedDocument = payload
	session.DocumentName = fileName
	session.Title = fmt.Sprintf(constant.SessionTitleFromDocumentFmt, fileName)

	sysMsg := model.Message{
		Id:        uuid.New(),
		Content:   fmt.Sprintf(constant.DocumentAttachedMessageFmt, fileName),
		Sender:    constant.MessageSenderSystem,
		Timestamp: time.Now(),
	}
	session.Messages = append(session.Messages, sysMsg)

	if err := r.publishLocked(ctx); err != nil {
		return nil, err
	}
	return &sysMsg, nil
}

func (r *SessionRepository) SetTitle(ctx context.Context, id uuid.UUID, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := r.findLocked(id)
	if session == nil {
		return nil
	}
	session.Title = title

	return r.publishLocked(ctx)
}

func (r *SessionRepository) GetAll(_ context.Context) []*model.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.Clone())
	}
	return out
}

func (r *SessionRepository) Get(_ context.Context, id uuid.UUID) (*model.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := r.findLocked(id)
	if session == nil {
		return nil, false
	}
	return session.Clone(), true
}

func (r *SessionRepository) findLocked(id uuid.UUID) *model.Session {
	for _, s := range r.sessions {
		if s.Id == id {
			return s
		}
	}
	return nil
}

// publishLocked snapshots the full state and hands it to the persistence
// pipeline. Called with the lock held so snapshot order matches mutation
// order.
func (r *SessionRepository) publishLocked(ctx context.Context) error {
	snap := &model.SessionSnapshot{
		Sessions: make([]*model.Session, 0, len(r.sessions)),
	}
	for _, s := range r.sessions {
		snap.Sessions = append(snap.Sessions, s.Clone())
	}
	if r.activeId != nil {
		id := *r.activeId
		snap.ActiveSessionId = &id
	}

	if err := r.pub.PublishSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("schedule persistence: %w", err)
	}
	return nil
}
