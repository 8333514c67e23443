package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
)

func TestHoldAndRelease(t *testing.T) {
	l := NewBalanceLedger()
	l.Deposit("alice", 100)

	require.NoError(t, l.Hold("alice", 60))
	assert.Equal(t, domain.Amount(40), l.Free("alice"))
	assert.Equal(t, domain.Amount(60), l.Held("alice"))

	assert.ErrorIs(t, l.Hold("alice", 41), domain.ErrInsufficientBalance)

	l.Release("alice", 60)
	assert.Equal(t, domain.Amount(100), l.Free("alice"))
	assert.Zero(t, l.Held("alice"))
}

func TestReleaseClampsAtHeld(t *testing.T) {
	l := NewBalanceLedger()
	l.Deposit("alice", 100)
	require.NoError(t, l.Hold("alice", 30))

	l.Release("alice", 1000)
	assert.Equal(t, domain.Amount(100), l.Free("alice"))
	assert.Zero(t, l.Held("alice"))
}

func TestHoldUnknownAccount(t *testing.T) {
	l := NewBalanceLedger()
	assert.ErrorIs(t, l.Hold("nobody", 1), domain.ErrInsufficientBalance)
}
