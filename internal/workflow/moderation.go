package workflow

import "strings"

// ModerationAction is an event applied to a posting's moderation state.
type ModerationAction string

// Moderation actions. Revise is the owner editing posting content.
const (
	ActionSubmit  ModerationAction = "submit"
	ActionApprove ModerationAction = "approve"
	ActionReject  ModerationAction = "reject"
	ActionReturn  ModerationAction = "return"
	ActionRevise  ModerationAction = "revise"
)

// ModerationState is the moderation status plus whether the owner has
// submitted the posting for review since it was created or last sent back.
type ModerationState struct {
	Status    ModerationStatus
	Submitted bool
}

type moderationKey struct {
	from      ModerationStatus
	submitted bool
	action    ModerationAction
}

// moderationTable is the complete set of allowed moderation transitions.
// Anything missing is an invalid transition.
var moderationTable = map[moderationKey]ModerationState{
	// Freshly created (draft-pending): not yet in the review queue.
	{ModerationPending, false, ActionSubmit}:  {ModerationPending, true},
	{ModerationPending, false, ActionApprove}: {ModerationApproved, false},
	{ModerationPending, false, ActionReject}:  {ModerationRejected, false},
	{ModerationPending, false, ActionReturn}:  {ModerationReturned, false},
	{ModerationPending, false, ActionRevise}:  {ModerationPending, false},

	// Waiting in the review queue.
	{ModerationPending, true, ActionApprove}: {ModerationApproved, true},
	{ModerationPending, true, ActionReject}:  {ModerationRejected, true},
	{ModerationPending, true, ActionReturn}:  {ModerationReturned, true},
	{ModerationPending, true, ActionRevise}:  {ModerationPending, true},

	// Content edits of an approved posting send it back for re-review.
	{ModerationApproved, false, ActionRevise}: {ModerationPending, true},
	{ModerationApproved, true, ActionRevise}:  {ModerationPending, true},

	// Rejected and returned postings re-enter the queue on resubmit or edit.
	{ModerationRejected, false, ActionSubmit}: {ModerationPending, true},
	{ModerationRejected, true, ActionSubmit}:  {ModerationPending, true},
	{ModerationRejected, false, ActionRevise}: {ModerationPending, true},
	{ModerationRejected, true, ActionRevise}:  {ModerationPending, true},
	{ModerationReturned, false, ActionSubmit}: {ModerationPending, true},
	{ModerationReturned, true, ActionSubmit}:  {ModerationPending, true},
	{ModerationReturned, false, ActionRevise}: {ModerationPending, true},
	{ModerationReturned, true, ActionRevise}:  {ModerationPending, true},
}

// NextModeration returns the state reached by applying action to current.
func NextModeration(current ModerationState, action ModerationAction) (ModerationState, error) {
	next, ok := moderationTable[moderationKey{current.Status, current.Submitted, action}]
	if !ok {
		return current, Errorf(CodeInvalidTransition,
			"cannot %s a posting whose moderation status is %s", action, describe(current))
	}
	return next, nil
}

// ModeratorAction reports whether action may only be performed by a moderator.
func ModeratorAction(action ModerationAction) bool {
	switch action {
	case ActionApprove, ActionReject, ActionReturn:
		return true
	}
	return false
}

// RequiresReason reports whether action must carry a non-empty reason.
func RequiresReason(action ModerationAction) bool {
	return action == ActionReject || action == ActionReturn
}

// CheckReason trims reason and validates it against action.
func CheckReason(action ModerationAction, reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if RequiresReason(action) && reason == "" {
		return "", Errorf(CodeValidation, "a reason is required to %s a posting", action)
	}
	return reason, nil
}

// NextPostingStatus validates an owner status change. Owners may move freely
// between every status; setting the current status is a no-op.
func NextPostingStatus(current, target PostingStatus) (PostingStatus, bool, error) {
	target, err := ParsePostingStatus(string(target))
	if err != nil {
		return current, false, err
	}
	return target, target != current, nil
}

func describe(s ModerationState) string {
	if s.Status == ModerationPending && s.Submitted {
		return "PENDING (already submitted)"
	}
	return string(s.Status)
}
