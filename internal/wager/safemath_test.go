package wager_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wager-program-backend/internal/wager"
)

func TestSafeAdd(t *testing.T) {
	sum, err := wager.SafeAdd(2, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), sum)

	sum, err = wager.SafeAdd(math.MaxUint64-1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), sum)

	_, err = wager.SafeAdd(math.MaxUint64, 1)
	assert.Equal(t, wager.ErrArithmeticOverflow, err)
}

func TestSafeSubtract(t *testing.T) {
	diff, err := wager.SafeSubtract(5, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), diff)

	diff, err = wager.SafeSubtract(3, 3)
	require.NoError(t, err)
	assert.Zero(t, diff)

	_, err = wager.SafeSubtract(3, 5)
	assert.Equal(t, wager.ErrArithmeticUnderflow, err)
}

func TestSafeMultiply(t *testing.T) {
	product, err := wager.SafeMultiply(6, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), product)

	product, err = wager.SafeMultiply(math.MaxUint64, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), product)

	_, err = wager.SafeMultiply(math.MaxUint64, 2)
	assert.Equal(t, wager.ErrArithmeticOverflow, err)

	_, err = wager.SafeMultiply(1<<32, 1<<32)
	assert.Equal(t, wager.ErrArithmeticOverflow, err)
}

func TestSafeDivide(t *testing.T) {
	quotient, err := wager.SafeDivide(10, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), quotient)

	_, err = wager.SafeDivide(10, 0)
	assert.Equal(t, wager.ErrArithmeticError, err)
	assert.NotEqual(t, wager.ErrArithmeticOverflow, err)

	_, err = wager.SafeDivide(0, 0)
	assert.Equal(t, wager.ErrArithmeticError, err)
}

func TestSafeEarningsCalculation(t *testing.T) {
	earnings, err := wager.SafeEarningsCalculation(10, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), earnings)

	earnings, err = wager.SafeEarningsCalculation(0, 100)
	require.NoError(t, err)
	assert.Zero(t, earnings)

	earnings, err = wager.SafeEarningsCalculation(7, 15)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), earnings)

	_, err = wager.SafeEarningsCalculation(math.MaxUint16, math.MaxUint64)
	assert.Equal(t, wager.ErrArithmeticOverflow, err)
}
