package memory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStateDefaultsToIdle(t *testing.T) {
	repo := NewStateRepository()
	assert.Equal(t, StateIdle, repo.Get(uuid.New()))
}

func TestStateSetAndClear(t *testing.T) {
	repo := NewStateRepository()
	id := uuid.New()

	repo.Set(id, StateUploading)
	assert.Equal(t, StateUploading, repo.Get(id))

	repo.Set(id, StateWaitingForAnswer)
	assert.Equal(t, StateWaitingForAnswer, repo.Get(id))

	repo.Clear(id)
	assert.Equal(t, StateIdle, repo.Get(id))
}

func TestStateIsPerSession(t *testing.T) {
	repo := NewStateRepository()
	a, b := uuid.New(), uuid.New()

	repo.Set(a, StateUploading)
	assert.Equal(t, StateUploading, repo.Get(a))
	assert.Equal(t, StateIdle, repo.Get(b))
}
