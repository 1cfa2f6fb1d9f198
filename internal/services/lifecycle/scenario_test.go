package lifecycle

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/visaflow/backend/internal/models"
	"github.com/visaflow/backend/internal/services/notify"
)

// memStore is an in-memory Store for exercising full scenarios without
// a database.
type memStore struct {
	applications map[uuid.UUID]*models.VisaApplication
	history      []models.ApplicationStatusHistory
	users        map[uuid.UUID]*models.User
	employees    []*models.User
}

func newMemStore() *memStore {
	return &memStore{
		applications: make(map[uuid.UUID]*models.VisaApplication),
		users:        make(map[uuid.UUID]*models.User),
	}
}

func (s *memStore) addUser(u *models.User) {
	s.users[u.ID] = u
	if u.UserType == models.UserTypeEmployee && u.IsActive() {
		s.employees = append(s.employees, u)
	}
}

func (s *memStore) GetApplication(ctx context.Context, id uuid.UUID) (*models.VisaApplication, error) {
	app, ok := s.applications[id]
	if !ok {
		return nil, ErrNotFound
	}
	return app, nil
}

func (s *memStore) SaveWithHistory(ctx context.Context, app *models.VisaApplication, history *models.ApplicationStatusHistory) error {
	s.applications[app.ID] = app
	s.history = append(s.history, *history)
	return nil
}

func (s *memStore) AppendHistory(ctx context.Context, history *models.ApplicationStatusHistory) error {
	s.history = append(s.history, *history)
	return nil
}

func (s *memStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *memStore) LeastLoadedEmployee(ctx context.Context) (*models.User, error) {
	if len(s.employees) == 0 {
		return nil, ErrNoEmployee
	}
	return s.employees[0], nil
}

// memNotifier counts dispatches per user
type memNotifier struct {
	inputs []notify.Input
}

func (n *memNotifier) Dispatch(ctx context.Context, in notify.Input) []notify.ChannelResult {
	n.inputs = append(n.inputs, in)
	return nil
}

func (n *memNotifier) forUser(id uuid.UUID) []notify.Input {
	var out []notify.Input
	for _, in := range n.inputs {
		if in.UserID == id {
			out = append(out, in)
		}
	}
	return out
}

// TestFullReviewScenario walks an application from draft through
// submission to approval, checking status stamps, the audit trail and
// customer notifications at each step.
func TestFullReviewScenario(t *testing.T) {
	ctx := context.Background()

	store := newMemStore()
	customer := newUser(models.UserTypeCustomer)
	employee := newUser(models.UserTypeEmployee)
	admin := newUser(models.UserTypeAdmin)
	store.addUser(customer)
	store.addUser(employee)
	store.addUser(admin)

	app := draftApplication(customer.ID)
	store.applications[app.ID] = app

	notifier := &memNotifier{}
	svc := NewService(store, notifier, true)

	// customer submits
	submitted, err := svc.Submit(ctx, app.ID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)
	require.Len(t, store.history, 1)
	assert.Equal(t, models.StatusDraft, store.history[0].OldStatus)
	assert.Equal(t, models.StatusSubmitted, store.history[0].NewStatus)

	// a second submit is rejected, history stays at one row
	_, err = svc.Submit(ctx, app.ID, customer.ID)
	require.Error(t, err)
	assert.Len(t, store.history, 1)

	// admin approves
	approved, err := svc.UpdateStatus(ctx, app.ID, admin.ID, models.StatusApproved, "complete dossier")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)

	// two history rows total, the second recording the approval
	require.Len(t, store.history, 2)
	assert.Equal(t, models.StatusSubmitted, store.history[1].OldStatus)
	assert.Equal(t, models.StatusApproved, store.history[1].NewStatus)
	assert.Equal(t, admin.ID, store.history[1].ChangedBy)

	// the customer heard about both the submission and the approval
	customerInputs := notifier.forUser(customer.ID)
	require.Len(t, customerInputs, 2)
	assert.Equal(t, "Application Submitted", customerInputs[0].Title)
	assert.Equal(t, "Application Approved", customerInputs[1].Title)

	// nothing further can be done to an approved application
	_, err = svc.UpdateStatus(ctx, app.ID, admin.ID, models.StatusRejected, "")
	require.Error(t, err)
	assert.Len(t, store.history, 2)
}

// TestResendRoundTrip covers the resend loop: staff requests more
// information, the customer resubmits through the same entry point.
func TestResendRoundTrip(t *testing.T) {
	ctx := context.Background()

	store := newMemStore()
	customer := newUser(models.UserTypeCustomer)
	employee := newUser(models.UserTypeEmployee)
	store.addUser(customer)
	store.addUser(employee)

	app := draftApplication(customer.ID)
	app.Status = models.StatusSubmitted
	store.applications[app.ID] = app

	notifier := &memNotifier{}
	svc := NewService(store, notifier, false)

	resent, err := svc.UpdateStatus(ctx, app.ID, employee.ID, models.StatusResent, "missing bank statement")
	require.NoError(t, err)
	assert.Equal(t, models.StatusResent, resent.Status)
	assert.Equal(t, "missing bank statement", resent.ResendReason)

	resubmitted, err := svc.Submit(ctx, app.ID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, resubmitted.Status)

	require.Len(t, store.history, 2)
	assert.Equal(t, models.StatusResent, store.history[1].OldStatus)
	assert.Equal(t, models.StatusSubmitted, store.history[1].NewStatus)
}
