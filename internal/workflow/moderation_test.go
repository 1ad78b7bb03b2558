package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextModeration_ModeratorActionsRequirePending(t *testing.T) {
	for _, action := range []ModerationAction{ActionApprove, ActionReject, ActionReturn} {
		for _, status := range AllModerationStatuses {
			for _, submitted := range []bool{false, true} {
				current := ModerationState{Status: status, Submitted: submitted}
				next, err := NextModeration(current, action)
				if status == ModerationPending {
					assert.NoError(t, err, "%s from %v", action, current)
					continue
				}
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s from %v", action, current)
				assert.Equal(t, current, next, "state must not change on failure")
			}
		}
	}
}

func TestNextModeration_ModeratorOutcomes(t *testing.T) {
	queued := ModerationState{Status: ModerationPending, Submitted: true}

	next, err := NextModeration(queued, ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, ModerationApproved, next.Status)

	next, err = NextModeration(queued, ActionReject)
	require.NoError(t, err)
	assert.Equal(t, ModerationRejected, next.Status)

	next, err = NextModeration(queued, ActionReturn)
	require.NoError(t, err)
	assert.Equal(t, ModerationReturned, next.Status)
}

func TestNextModeration_Submit(t *testing.T) {
	cases := []struct {
		name    string
		current ModerationState
		wantErr bool
	}{
		{"draft pending", ModerationState{ModerationPending, false}, false},
		{"already queued", ModerationState{ModerationPending, true}, true},
		{"approved", ModerationState{ModerationApproved, true}, true},
		{"approved never submitted", ModerationState{ModerationApproved, false}, true},
		{"rejected", ModerationState{ModerationRejected, true}, false},
		{"returned", ModerationState{ModerationReturned, true}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := NextModeration(tc.current, ActionSubmit)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ModerationState{ModerationPending, true}, next)
		})
	}
}

func TestNextModeration_ReviseResetsToPending(t *testing.T) {
	for _, status := range AllModerationStatuses {
		next, err := NextModeration(ModerationState{Status: status, Submitted: true}, ActionRevise)
		require.NoError(t, err, status)
		assert.Equal(t, ModerationPending, next.Status, status)
	}
}

func TestNextModeration_ApprovedIsTerminalExceptEdit(t *testing.T) {
	approved := ModerationState{Status: ModerationApproved, Submitted: true}
	for _, action := range []ModerationAction{ActionSubmit, ActionApprove, ActionReject, ActionReturn} {
		_, err := NextModeration(approved, action)
		assert.ErrorIs(t, err, ErrInvalidTransition, action)
	}
	next, err := NextModeration(approved, ActionRevise)
	require.NoError(t, err)
	assert.Equal(t, ModerationState{ModerationPending, true}, next)
}

func TestCheckReason(t *testing.T) {
	_, err := CheckReason(ActionReject, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CheckReason(ActionReturn, "")
	assert.ErrorIs(t, err, ErrValidation)

	reason, err := CheckReason(ActionReject, "  incomplete ")
	require.NoError(t, err)
	assert.Equal(t, "incomplete", reason)

	reason, err = CheckReason(ActionApprove, "")
	require.NoError(t, err)
	assert.Empty(t, reason)
}

func TestNextPostingStatus(t *testing.T) {
	for _, from := range AllPostingStatuses {
		for _, to := range AllPostingStatuses {
			next, changed, err := NextPostingStatus(from, to)
			require.NoError(t, err)
			assert.Equal(t, to, next)
			assert.Equal(t, from != to, changed)
		}
	}

	_, _, err := NextPostingStatus(StatusDraft, "PUBLISHED")
	assert.ErrorIs(t, err, ErrValidation)

	next, _, err := NextPostingStatus(StatusDraft, " active ")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, next)
}

func TestErrorMatching(t *testing.T) {
	err := Errorf(CodeInvalidTransition, "cannot approve")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, CodeInvalidTransition, CodeOf(err))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))

	wrapped := NewError(CodeNotFound, "posting not found", errors.New("record not found"))
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Contains(t, wrapped.Error(), "record not found")
}
