package payment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/visaflow/backend/internal/models"
	"github.com/visaflow/backend/internal/utils"
)

const testSecret = "test_gateway_secret"

// MockStore is a mock implementation of the Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateOrder(ctx context.Context, order *models.PaymentOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockStore) GetOrderByApplication(ctx context.Context, applicationID uuid.UUID) (*models.PaymentOrder, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentOrder), args.Error(1)
}

func (m *MockStore) UpdateOrder(ctx context.Context, order *models.PaymentOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockStore) ExpireStaleOrders(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func openOrder(appID uuid.UUID) *models.PaymentOrder {
	order := &models.PaymentOrder{
		ApplicationID: appID,
		Reference:     "PAY_20260115_AB12CD34",
		Amount:        decimal.NewFromInt(150),
		Currency:      "USD",
		Status:        models.PaymentStatusCreated,
	}
	order.ID = uuid.New()
	return order
}

func TestCreateOrder(t *testing.T) {
	appID := uuid.New()
	store := new(MockStore)
	store.On("GetOrderByApplication", mock.Anything, appID).Return(nil, ErrOrderNotFound)
	store.On("CreateOrder", mock.Anything, mock.Anything).Return(nil)

	tracker := NewTracker(store, testSecret)
	order, err := tracker.CreateOrder(context.Background(), appID, decimal.NewFromInt(150), "USD")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusCreated, order.Status)
	assert.Contains(t, order.Reference, "PAY_")
	assert.True(t, order.Amount.Equal(decimal.NewFromInt(150)))
}

func TestCreateOrderRejectsOpenDuplicate(t *testing.T) {
	appID := uuid.New()
	store := new(MockStore)
	store.On("GetOrderByApplication", mock.Anything, appID).Return(openOrder(appID), nil)

	tracker := NewTracker(store, testSecret)
	_, err := tracker.CreateOrder(context.Background(), appID, decimal.NewFromInt(150), "USD")
	assert.ErrorIs(t, err, ErrOrderOpen)
	store.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	tracker := NewTracker(new(MockStore), testSecret)
	_, err := tracker.CreateOrder(context.Background(), uuid.New(), decimal.Zero, "USD")
	assert.Error(t, err)
}

func TestVerifyMarksOrderPaid(t *testing.T) {
	appID := uuid.New()
	order := openOrder(appID)
	paymentID := "gw_12345"
	signature := utils.SignHMAC(order.Reference+"|"+paymentID, testSecret)

	store := new(MockStore)
	store.On("GetOrderByApplication", mock.Anything, appID).Return(order, nil)
	store.On("UpdateOrder", mock.Anything, order).Return(nil)

	tracker := NewTracker(store, testSecret)

	var event *VerifiedEvent
	tracker.OnVerified(func(ctx context.Context, e VerifiedEvent) {
		event = &e
	})

	got, err := tracker.Verify(context.Background(), appID, paymentID, signature)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusPaid, got.Status)
	assert.Equal(t, paymentID, got.GatewayPaymentID)
	require.NotNil(t, got.VerifiedAt)

	// verification published the event for the lifecycle service
	require.NotNil(t, event)
	assert.Equal(t, appID, event.ApplicationID)
	assert.Equal(t, order.Reference, event.Reference)
}

func TestVerifyRejectsInvalidSignature(t *testing.T) {
	appID := uuid.New()
	order := openOrder(appID)

	store := new(MockStore)
	store.On("GetOrderByApplication", mock.Anything, appID).Return(order, nil)

	tracker := NewTracker(store, testSecret)
	_, err := tracker.Verify(context.Background(), appID, "gw_12345", "not-a-signature")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	// row untouched
	assert.Equal(t, models.PaymentStatusCreated, order.Status)
	assert.Nil(t, order.VerifiedAt)
	store.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything)
}

func TestVerifyReplayIsIdempotent(t *testing.T) {
	appID := uuid.New()
	order := openOrder(appID)
	paymentID := "gw_12345"
	now := time.Now()
	order.Status = models.PaymentStatusPaid
	order.GatewayPaymentID = paymentID
	order.VerifiedAt = &now

	store := new(MockStore)
	store.On("GetOrderByApplication", mock.Anything, appID).Return(order, nil)

	tracker := NewTracker(store, testSecret)

	fired := false
	tracker.OnVerified(func(ctx context.Context, e VerifiedEvent) { fired = true })

	signature := utils.SignHMAC(order.Reference+"|"+paymentID, testSecret)
	got, err := tracker.Verify(context.Background(), appID, paymentID, signature)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, got.Status)

	// no second write, no second event
	store.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything)
	assert.False(t, fired)
}

func TestVerifyRejectsDifferentPaymentAgainstPaidOrder(t *testing.T) {
	appID := uuid.New()
	order := openOrder(appID)
	now := time.Now()
	order.Status = models.PaymentStatusPaid
	order.GatewayPaymentID = "gw_original"
	order.VerifiedAt = &now

	store := new(MockStore)
	store.On("GetOrderByApplication", mock.Anything, appID).Return(order, nil)

	tracker := NewTracker(store, testSecret)
	signature := utils.SignHMAC(order.Reference+"|gw_other", testSecret)
	_, err := tracker.Verify(context.Background(), appID, "gw_other", signature)
	assert.ErrorIs(t, err, ErrOrderClosed)
}
