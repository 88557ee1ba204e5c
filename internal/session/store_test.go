package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"peerprep/interview/internal/models"
)

func TestStorePutAndGet(t *testing.T) {
	store := NewStore()

	sess := &models.InterviewSession{SessionID: "sess-1", UserID: "user-1"}
	assert.True(t, store.Put(sess))

	got, ok := store.Get("sess-1")
	assert.True(t, ok)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, 1, store.Count())
}

func TestStorePutRejectsDuplicate(t *testing.T) {
	store := NewStore()

	assert.True(t, store.Put(&models.InterviewSession{SessionID: "sess-1"}))
	assert.False(t, store.Put(&models.InterviewSession{SessionID: "sess-1"}))
}

func TestStoreGetMissing(t *testing.T) {
	store := NewStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestStoreDelete(t *testing.T) {
	store := NewStore()

	store.Put(&models.InterviewSession{SessionID: "sess-1"})
	store.Delete("sess-1")

	_, ok := store.Get("sess-1")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Count())
}
