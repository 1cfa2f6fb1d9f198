package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/visaflow/backend/internal/models"
)

func TestNextLegalTransitions(t *testing.T) {
	tests := []struct {
		from   models.ApplicationStatus
		action Action
		want   models.ApplicationStatus
	}{
		{models.StatusDraft, ActionSubmit, models.StatusSubmitted},
		{models.StatusSubmitted, ActionStartReview, models.StatusUnderReview},
		{models.StatusSubmitted, ActionApprove, models.StatusApproved},
		{models.StatusUnderReview, ActionApprove, models.StatusApproved},
		{models.StatusUnderReview, ActionReject, models.StatusRejected},
		{models.StatusUnderReview, ActionRequestResend, models.StatusResent},
		{models.StatusResent, ActionResubmit, models.StatusSubmitted},
	}

	for _, tt := range tests {
		got, err := Next(tt.from, tt.action)
		require.NoError(t, err, "%s from %s", tt.action, tt.from)
		assert.Equal(t, tt.want, got)
	}
}

func TestNextForbiddenTransitions(t *testing.T) {
	tests := []struct {
		from   models.ApplicationStatus
		action Action
	}{
		// approval straight out of draft was the main hole in the old
		// ad hoc checks
		{models.StatusDraft, ActionApprove},
		{models.StatusDraft, ActionReject},
		// double submit
		{models.StatusSubmitted, ActionSubmit},
		// deciding twice
		{models.StatusApproved, ActionApprove},
		{models.StatusApproved, ActionReject},
		{models.StatusRejected, ActionApprove},
		// resent applications come back via resubmit, not submit
		{models.StatusResent, ActionSubmit},
	}

	for _, tt := range tests {
		_, err := Next(tt.from, tt.action)
		require.Error(t, err, "%s from %s should be forbidden", tt.action, tt.from)

		var invalid *InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, tt.from, invalid.From)
		assert.Equal(t, tt.action, invalid.Action)
	}
}

func TestActionForStatus(t *testing.T) {
	action, ok := ActionForStatus(models.StatusApproved)
	require.True(t, ok)
	assert.Equal(t, ActionApprove, action)

	// draft and submitted cannot be requested from the review console
	_, ok = ActionForStatus(models.StatusDraft)
	assert.False(t, ok)
	_, ok = ActionForStatus(models.StatusSubmitted)
	assert.False(t, ok)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.StatusApproved))
	assert.True(t, IsTerminal(models.StatusRejected))
	assert.False(t, IsTerminal(models.StatusDraft))
	assert.False(t, IsTerminal(models.StatusResent))
}
