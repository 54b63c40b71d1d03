package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// View states a session can be in while a call is in flight.
const (
	StateIdle             = "idle"
	StateUploading        = "uploading"
	StateWaitingForAnswer = "waiting_for_answer"
)

// StateRepository tracks the transient view state of each session. The
// TTL makes an abandoned in-flight call read as idle again instead of
// wedging the session.
type StateRepository struct {
	cache *cache.Cache
}

func NewStateRepository() *StateRepository {
	c := cache.New(10*time.Minute, 5*time.Minute)
	return &StateRepository{
		cache: c,
	}
}

func (r *StateRepository) Set(sessionID uuid.UUID, state string) {
	r.cache.Set(sessionID.String(), state, cache.DefaultExpiration)
}

func (r *StateRepository) Get(sessionID uuid.UUID) string {
	if x, found := r.cache.Get(sessionID.String()); found {
		return x.(string)
	}
	return StateIdle
}

func (r *StateRepository) Clear(sessionID uuid.UUID) {
	r.cache.Delete(sessionID.String())
}
