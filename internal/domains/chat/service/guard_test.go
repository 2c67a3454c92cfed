package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"cumbrecita/config"
	"cumbrecita/shared/timezone"
)

func TestSendGuard_PrunesExpiredStamps(t *testing.T) {
	cfg := &config.Config{}
	cfg.Chat.DedupWindowSeconds = 0

	s := &serviceImpl{
		cfg:      cfg,
		inFlight: make(map[string]bool),
		lastSend: make(map[string]sendStamp),
	}

	// With a zero window every stamp expires immediately, so releasing must
	// leave only the stamp of the session just released.
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("sess-%d", i)

		assert.NoError(t, s.acquireSend(id, "hola", timezone.Now()))
		s.releaseSend(id, "hola")
	}

	assert.Len(t, s.lastSend, 1)
	assert.Empty(t, s.inFlight)
}
