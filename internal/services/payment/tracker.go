// Package payment tracks fee collection for visa applications against an
// external payment gateway. One open order exists per application; the
// gateway's verification callback is authenticated with an HMAC
// signature over the order reference and gateway payment id.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/visaflow/backend/internal/models"
	"github.com/visaflow/backend/internal/utils"
)

var (
	// ErrOrderNotFound means no payment order exists for the application.
	ErrOrderNotFound = errors.New("payment order not found")
	// ErrOrderOpen means an order awaiting payment already exists.
	ErrOrderOpen = errors.New("an open payment order already exists for this application")
	// ErrInvalidSignature means the gateway callback failed HMAC verification.
	ErrInvalidSignature = errors.New("invalid payment signature")
	// ErrOrderClosed means the order is no longer payable.
	ErrOrderClosed = errors.New("payment order is no longer open")
)

// VerifiedEvent is published after an order transitions to paid. The
// lifecycle service subscribes so payment completion is recorded on the
// application without the HTTP handler having to remember to do it.
type VerifiedEvent struct {
	OrderID       uuid.UUID
	ApplicationID uuid.UUID
	Reference     string
	Amount        decimal.Decimal
	Currency      string
}

// VerifiedHandler consumes VerifiedEvents.
type VerifiedHandler func(ctx context.Context, event VerifiedEvent)

// Store persists payment orders.
type Store interface {
	CreateOrder(ctx context.Context, order *models.PaymentOrder) error
	GetOrderByApplication(ctx context.Context, applicationID uuid.UUID) (*models.PaymentOrder, error)
	UpdateOrder(ctx context.Context, order *models.PaymentOrder) error
	ExpireStaleOrders(ctx context.Context, olderThan time.Time) (int64, error)
}

// Tracker creates and verifies payment orders.
type Tracker struct {
	store        Store
	sharedSecret string
	handlers     []VerifiedHandler
}

// NewTracker creates a tracker. sharedSecret is the gateway's webhook
// signing secret.
func NewTracker(store Store, sharedSecret string) *Tracker {
	return &Tracker{store: store, sharedSecret: sharedSecret}
}

// OnVerified registers a handler invoked synchronously after each
// successful verification. Register before serving traffic.
func (t *Tracker) OnVerified(h VerifiedHandler) {
	t.handlers = append(t.handlers, h)
}

// CreateOrder records a payment intent for an application and returns
// the order carrying the gateway-compatible reference. A second call
// while an order is still open returns ErrOrderOpen; closed orders
// (failed, cancelled, expired) allow a fresh attempt.
func (t *Tracker) CreateOrder(ctx context.Context, applicationID uuid.UUID, amount decimal.Decimal, currency string) (*models.PaymentOrder, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("payment amount must be positive")
	}

	existing, err := t.store.GetOrderByApplication(ctx, applicationID)
	if err != nil && !errors.Is(err, ErrOrderNotFound) {
		return nil, err
	}
	if existing != nil && existing.IsOpen() {
		return nil, ErrOrderOpen
	}
	if existing != nil && existing.Status == models.PaymentStatusPaid {
		return nil, fmt.Errorf("application fee has already been paid")
	}

	order := &models.PaymentOrder{
		ApplicationID: applicationID,
		Reference:     utils.GenerateReference("PAY"),
		Amount:        amount,
		Currency:      currency,
		Status:        models.PaymentStatusCreated,
	}
	if err := t.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Verify authenticates the gateway callback and marks the order paid.
// The signature is HMAC-SHA256 over "reference|gatewayPaymentID". A
// replayed callback for an already-paid order with the same gateway
// payment id is treated as idempotent success; a different payment id
// against a paid order is rejected.
func (t *Tracker) Verify(ctx context.Context, applicationID uuid.UUID, gatewayPaymentID, signature string) (*models.PaymentOrder, error) {
	order, err := t.store.GetOrderByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if !utils.VerifyHMAC(order.Reference+"|"+gatewayPaymentID, signature, t.sharedSecret) {
		return nil, ErrInvalidSignature
	}

	if order.Status == models.PaymentStatusPaid {
		if order.GatewayPaymentID == gatewayPaymentID {
			return order, nil
		}
		return nil, ErrOrderClosed
	}
	if !order.IsOpen() {
		return nil, ErrOrderClosed
	}

	now := time.Now()
	order.Status = models.PaymentStatusPaid
	order.GatewayPaymentID = gatewayPaymentID
	order.VerifiedAt = &now
	if err := t.store.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}

	event := VerifiedEvent{
		OrderID:       order.ID,
		ApplicationID: order.ApplicationID,
		Reference:     order.Reference,
		Amount:        order.Amount,
		Currency:      order.Currency,
	}
	for _, h := range t.handlers {
		h(ctx, event)
	}

	return order, nil
}

// MarkFailed records a gateway-reported failure on an open order.
func (t *Tracker) MarkFailed(ctx context.Context, applicationID uuid.UUID, reason string) (*models.PaymentOrder, error) {
	order, err := t.store.GetOrderByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !order.IsOpen() {
		return nil, ErrOrderClosed
	}

	order.Status = models.PaymentStatusFailed
	order.FailureReason = reason
	if err := t.store.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ExpireStaleOrders cancels orders that sat unpaid past the cutoff.
// Called from the scheduled expiry job.
func (t *Tracker) ExpireStaleOrders(ctx context.Context, maxAge time.Duration) (int64, error) {
	n, err := t.store.ExpireStaleOrders(ctx, time.Now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("payment: expired %d stale orders", n)
	}
	return n, nil
}
