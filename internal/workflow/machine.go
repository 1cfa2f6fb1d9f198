// Package workflow defines the legal status transitions for visa
// applications. Every status mutation goes through Next before anything
// is written, so an application can never be approved out of draft or
// decided twice.
package workflow

import (
	"fmt"

	"github.com/visaflow/backend/internal/models"
)

// Action is something an actor can do to an application.
type Action string

const (
	ActionSubmit        Action = "submit"
	ActionStartReview   Action = "start_review"
	ActionApprove       Action = "approve"
	ActionReject        Action = "reject"
	ActionRequestResend Action = "request_resend"
	ActionResubmit      Action = "resubmit"
)

// InvalidTransitionError reports an action that is not legal from the
// application's current status.
type InvalidTransitionError struct {
	From   models.ApplicationStatus
	Action Action
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s an application in status %q", e.Action, e.From)
}

type transitionKey struct {
	from   models.ApplicationStatus
	action Action
}

// transitions is the full {from × action → to} table. Anything absent is
// forbidden. "resent" hands the application back to the customer, who
// re-enters the submitted state via resubmit.
var transitions = map[transitionKey]models.ApplicationStatus{
	{models.StatusDraft, ActionSubmit}:              models.StatusSubmitted,
	{models.StatusSubmitted, ActionStartReview}:     models.StatusUnderReview,
	{models.StatusSubmitted, ActionApprove}:         models.StatusApproved,
	{models.StatusSubmitted, ActionReject}:          models.StatusRejected,
	{models.StatusSubmitted, ActionRequestResend}:   models.StatusResent,
	{models.StatusUnderReview, ActionApprove}:       models.StatusApproved,
	{models.StatusUnderReview, ActionReject}:        models.StatusRejected,
	{models.StatusUnderReview, ActionRequestResend}: models.StatusResent,
	{models.StatusResent, ActionResubmit}:           models.StatusSubmitted,
}

// Next returns the status an application moves to when action is applied
// from the given status, or an *InvalidTransitionError.
func Next(from models.ApplicationStatus, action Action) (models.ApplicationStatus, error) {
	to, ok := transitions[transitionKey{from, action}]
	if !ok {
		return "", &InvalidTransitionError{From: from, Action: action}
	}
	return to, nil
}

// CanApply reports whether the action is legal from the given status.
func CanApply(from models.ApplicationStatus, action Action) bool {
	_, ok := transitions[transitionKey{from, action}]
	return ok
}

// ActionForStatus maps a requested target status from the review console
// to the action that produces it. Returns false for statuses that cannot
// be requested directly (draft is creation-only, submitted comes from the
// customer's submit).
func ActionForStatus(target models.ApplicationStatus) (Action, bool) {
	switch target {
	case models.StatusUnderReview:
		return ActionStartReview, true
	case models.StatusApproved:
		return ActionApprove, true
	case models.StatusRejected:
		return ActionReject, true
	case models.StatusResent:
		return ActionRequestResend, true
	default:
		return "", false
	}
}

// IsTerminal reports whether no further action can move the application.
func IsTerminal(status models.ApplicationStatus) bool {
	for key := range transitions {
		if key.from == status {
			return false
		}
	}
	return true
}
