package wager_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"wager-program-backend/internal/wager"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("record kill: %w", wager.ErrInvalidKill)

	kind, ok := wager.KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, wager.ErrInvalidKill, kind)
	assert.True(t, errors.Is(wrapped, wager.ErrInvalidKill))
	assert.True(t, wager.IsKind(wrapped, wager.ErrInvalidKill))
	assert.False(t, wager.IsKind(wrapped, wager.ErrInvalidPlayer))

	_, ok = wager.KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestKindCodes(t *testing.T) {
	seen := make(map[int]wager.Kind)
	for _, k := range wager.Kinds {
		code := k.Code()
		assert.GreaterOrEqual(t, code, 6000)
		if other, dup := seen[code]; dup {
			t.Fatalf("code %d shared by %s and %s", code, k, other)
		}
		seen[code] = k
		assert.NotEqual(t, string(k), k.Error(), "kind %s should have a message", k)
	}

	assert.Equal(t, 6000, wager.ErrInvalidSessionID.Code())
	assert.Equal(t, 6011, wager.ErrAlreadyProcessing.Code())
	assert.Zero(t, wager.Kind("Unknown").Code())
	assert.Len(t, wager.Kinds, 12)
}
