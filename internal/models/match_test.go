package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchStatusValid(t *testing.T) {
	for _, s := range []MatchStatus{MatchStatusPending, MatchStatusAccepted, MatchStatusRejected, MatchStatusActive, MatchStatusCompleted} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, MatchStatus("paused").Valid())
	assert.False(t, MatchStatus("").Valid())
}

func TestMatchStatusTerminal(t *testing.T) {
	assert.True(t, MatchStatusRejected.Terminal())
	assert.True(t, MatchStatusCompleted.Terminal())
	assert.False(t, MatchStatusPending.Terminal())
	assert.False(t, MatchStatusAccepted.Terminal())
	assert.False(t, MatchStatusActive.Terminal())
}

func TestMatchStatusInProgressSynonyms(t *testing.T) {
	assert.True(t, MatchStatusAccepted.InProgress())
	assert.True(t, MatchStatusActive.InProgress())
	assert.False(t, MatchStatusPending.InProgress())
	assert.False(t, MatchStatusCompleted.InProgress())
}

func TestMatchStatusContactVisible(t *testing.T) {
	assert.False(t, MatchStatusPending.ContactVisible())
	assert.True(t, MatchStatusAccepted.ContactVisible())
	assert.True(t, MatchStatusActive.ContactVisible())
	assert.True(t, MatchStatusCompleted.ContactVisible())
	assert.False(t, MatchStatusRejected.ContactVisible())
}
