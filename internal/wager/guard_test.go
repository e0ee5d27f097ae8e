package wager_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wager-program-backend/internal/models"
	"wager-program-backend/internal/wager"
)

func TestAcquireRelease(t *testing.T) {
	session := &models.GameSession{ID: "match-007"}

	require.NoError(t, wager.Acquire(session))
	assert.True(t, session.IsProcessing)

	err := wager.Acquire(session)
	assert.Equal(t, wager.ErrAlreadyProcessing, err)
	assert.True(t, session.IsProcessing)

	wager.Release(session)
	assert.False(t, session.IsProcessing)

	wager.Release(session)
	assert.False(t, session.IsProcessing)

	require.NoError(t, wager.Acquire(session))
}

func TestGuardReleasesOnError(t *testing.T) {
	session := &models.GameSession{}
	boom := errors.New("boom")

	err := wager.Guard(session, func() error {
		assert.True(t, session.IsProcessing)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, session.IsProcessing)
}

func TestGuardReleasesOnPanic(t *testing.T) {
	session := &models.GameSession{}

	assert.Panics(t, func() {
		_ = wager.Guard(session, func() error {
			panic("critical section failed")
		})
	})
	assert.False(t, session.IsProcessing)
}

func TestGuardRejectsReentry(t *testing.T) {
	session := &models.GameSession{}
	var inner error

	err := wager.Guard(session, func() error {
		inner = wager.Guard(session, func() error {
			t.Fatal("nested critical section must not run")
			return nil
		})
		assert.True(t, session.IsProcessing)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, wager.ErrAlreadyProcessing, inner)
	assert.False(t, session.IsProcessing)
}

func TestGuardSkipsBodyWhenBusy(t *testing.T) {
	session := &models.GameSession{IsProcessing: true}
	called := false

	err := wager.Guard(session, func() error {
		called = true
		return nil
	})

	assert.Equal(t, wager.ErrAlreadyProcessing, err)
	assert.False(t, called)
	assert.True(t, session.IsProcessing)
}
