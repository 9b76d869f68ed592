package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnerFromKey(t *testing.T) {
	assert.Equal(t, "ann", OwnerFromKey("users/ann/meeting42.wav"))
	assert.Equal(t, "ann", OwnerFromKey("uploads/ann/a/b.mp3"))
	assert.Equal(t, "", OwnerFromKey("meeting42.wav"))
	assert.Equal(t, "", OwnerFromKey("ann/meeting42.wav"))
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.False(t, Status("QUEUED").Terminal())
}
