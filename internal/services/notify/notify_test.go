package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/visaflow/backend/internal/models"
)

// MockStore is a mock implementation of the Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveNotification(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockSender is a mock channel sender
type MockSender struct {
	mock.Mock
	channel Channel
}

func (m *MockSender) Channel() Channel {
	return m.channel
}

func (m *MockSender) Send(ctx context.Context, user *models.User, msg Message) error {
	args := m.Called(ctx, user, msg)
	return args.Error(0)
}

// MockRetrier is a mock retry scheduler
type MockRetrier struct {
	mock.Mock
}

func (m *MockRetrier) ScheduleRetry(ctx context.Context, userID uuid.UUID, channel Channel, msg Message, cause error) error {
	args := m.Called(ctx, userID, channel, msg, cause)
	return args.Error(0)
}

func testUser() *models.User {
	phone := "+233501234567"
	u := &models.User{
		Email:     "ama@example.com",
		FirstName: "Ama",
		LastName:  "Mensah",
		Phone:     &phone,
		UserType:  models.UserTypeCustomer,
		Status:    models.UserStatusActive,
	}
	u.ID = uuid.New()
	return u
}

func TestDispatchSendsOverEnabledChannels(t *testing.T) {
	user := testUser()

	store := new(MockStore)
	store.On("SaveNotification", mock.Anything, mock.Anything).Return(nil)
	store.On("GetUser", mock.Anything, user.ID).Return(user, nil)

	email := &MockSender{channel: ChannelEmail}
	email.On("Send", mock.Anything, user, mock.Anything).Return(nil)
	sms := &MockSender{channel: ChannelSMS}
	sms.On("Send", mock.Anything, user, mock.Anything).Return(nil)

	d := NewDispatcher(store, NewToggles(), []Sender{email, sms}, nil)

	results := d.Dispatch(context.Background(), Input{
		UserID:  user.ID,
		Type:    models.NotificationTypeApplication,
		Title:   "Application Submitted",
		Message: "Your application has been submitted.",
	})

	require.Len(t, results, 2)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
	email.AssertExpectations(t)
	sms.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestDispatchSkipsDisabledChannelButPersistsRow(t *testing.T) {
	user := testUser()

	store := new(MockStore)
	store.On("SaveNotification", mock.Anything, mock.Anything).Return(nil)
	store.On("GetUser", mock.Anything, user.ID).Return(user, nil)

	email := &MockSender{channel: ChannelEmail}
	sms := &MockSender{channel: ChannelSMS}
	sms.On("Send", mock.Anything, user, mock.Anything).Return(nil)

	toggles := NewToggles()
	toggles.Set(false, true, true)

	d := NewDispatcher(store, toggles, []Sender{email, sms}, nil)
	results := d.Dispatch(context.Background(), Input{
		UserID:  user.ID,
		Type:    models.NotificationTypeApplication,
		Title:   "Status Update",
		Message: "Your application is under review.",
	})

	// only the sms attempt is reported; email was never called
	require.Len(t, results, 1)
	assert.Equal(t, ChannelSMS, results[0].Channel)
	email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	store.AssertCalled(t, "SaveNotification", mock.Anything, mock.Anything)
}

func TestDispatchChannelFailureIsIsolated(t *testing.T) {
	user := testUser()

	store := new(MockStore)
	store.On("SaveNotification", mock.Anything, mock.Anything).Return(nil)
	store.On("GetUser", mock.Anything, user.ID).Return(user, nil)

	smtpDown := errors.New("smtp: connection refused")
	email := &MockSender{channel: ChannelEmail}
	email.On("Send", mock.Anything, user, mock.Anything).Return(smtpDown)
	whatsapp := &MockSender{channel: ChannelWhatsApp}
	whatsapp.On("Send", mock.Anything, user, mock.Anything).Return(nil)

	retrier := new(MockRetrier)
	retrier.On("ScheduleRetry", mock.Anything, user.ID, ChannelEmail, mock.Anything, smtpDown).Return(nil)

	d := NewDispatcher(store, NewToggles(), []Sender{email, whatsapp}, retrier)
	results := d.Dispatch(context.Background(), Input{
		UserID:  user.ID,
		Type:    models.NotificationTypeApplication,
		Title:   "Approved",
		Message: "Your visa application has been approved.",
	})

	require.Len(t, results, 2)
	assert.Equal(t, smtpDown, results[0].Err)
	assert.NoError(t, results[1].Err)

	// the failed email got handed to the retrier, the healthy channel did not
	retrier.AssertExpectations(t)
	retrier.AssertNumberOfCalls(t, "ScheduleRetry", 1)
}

func TestDispatchUnknownUserStillPersistsRow(t *testing.T) {
	userID := uuid.New()

	store := new(MockStore)
	store.On("SaveNotification", mock.Anything, mock.Anything).Return(nil)
	store.On("GetUser", mock.Anything, userID).Return(nil, errors.New("record not found"))

	email := &MockSender{channel: ChannelEmail}

	d := NewDispatcher(store, NewToggles(), []Sender{email}, nil)
	results := d.Dispatch(context.Background(), Input{
		UserID:  userID,
		Type:    models.NotificationTypeSystem,
		Title:   "Hello",
		Message: "World",
	})

	assert.Nil(t, results)
	store.AssertCalled(t, "SaveNotification", mock.Anything, mock.Anything)
	email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestTogglesDefaultEnabled(t *testing.T) {
	toggles := NewToggles()
	assert.True(t, toggles.Enabled(ChannelEmail))
	assert.True(t, toggles.Enabled(ChannelSMS))
	assert.True(t, toggles.Enabled(ChannelWhatsApp))
	assert.False(t, toggles.Enabled(Channel("carrier_pigeon")))
}
