package leaverequest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"leaveflow/internal/leaverequest"
)

func TestCanTransition(t *testing.T) {
	t.Run("pending can resolve or cancel", func(t *testing.T) {
		assert.True(t, leaverequest.CanTransition(leaverequest.StatusPending, leaverequest.StatusApproved))
		assert.True(t, leaverequest.CanTransition(leaverequest.StatusPending, leaverequest.StatusRejected))
		assert.True(t, leaverequest.CanTransition(leaverequest.StatusPending, leaverequest.StatusCancelled))
	})

	t.Run("approved only enters revocation", func(t *testing.T) {
		assert.True(t, leaverequest.CanTransition(leaverequest.StatusApproved, leaverequest.StatusPendingRevocation))
		assert.False(t, leaverequest.CanTransition(leaverequest.StatusApproved, leaverequest.StatusPending))
		assert.False(t, leaverequest.CanTransition(leaverequest.StatusApproved, leaverequest.StatusRejected))
		assert.False(t, leaverequest.CanTransition(leaverequest.StatusApproved, leaverequest.StatusCancelled))
	})

	t.Run("pending revocation resolves both ways", func(t *testing.T) {
		assert.True(t, leaverequest.CanTransition(leaverequest.StatusPendingRevocation, leaverequest.StatusPending))
		assert.True(t, leaverequest.CanTransition(leaverequest.StatusPendingRevocation, leaverequest.StatusApproved))
		assert.False(t, leaverequest.CanTransition(leaverequest.StatusPendingRevocation, leaverequest.StatusRejected))
	})

	t.Run("terminal statuses allow nothing", func(t *testing.T) {
		for _, from := range []string{leaverequest.StatusRejected, leaverequest.StatusCancelled} {
			for _, to := range []string{
				leaverequest.StatusPending,
				leaverequest.StatusApproved,
				leaverequest.StatusRejected,
				leaverequest.StatusCancelled,
				leaverequest.StatusPendingRevocation,
			} {
				assert.False(t, leaverequest.CanTransition(from, to), "%s -> %s must be rejected", from, to)
			}
		}
	})

	t.Run("unknown status allows nothing", func(t *testing.T) {
		assert.False(t, leaverequest.CanTransition("DRAFT", leaverequest.StatusPending))
	})
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, leaverequest.IsTerminal(leaverequest.StatusRejected))
	assert.True(t, leaverequest.IsTerminal(leaverequest.StatusCancelled))
	assert.False(t, leaverequest.IsTerminal(leaverequest.StatusPending))
	assert.False(t, leaverequest.IsTerminal(leaverequest.StatusApproved))
	assert.False(t, leaverequest.IsTerminal(leaverequest.StatusPendingRevocation))
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, leaverequest.IsValidStatus(leaverequest.StatusPending))
	assert.True(t, leaverequest.IsValidStatus(leaverequest.StatusPendingRevocation))
	assert.False(t, leaverequest.IsValidStatus("DRAFT"))
	assert.False(t, leaverequest.IsValidStatus(""))
}
