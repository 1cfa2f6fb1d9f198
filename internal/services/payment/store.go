package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/visaflow/backend/internal/models"
	"gorm.io/gorm"
)

// GormStore is the database-backed Store used in production.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a gorm connection as a payment Store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateOrder(ctx context.Context, order *models.PaymentOrder) error {
	return s.db.WithContext(ctx).Create(order).Error
}

// GetOrderByApplication returns the most recent order for an
// application. Earlier failed or expired attempts stay in the table for
// reconciliation.
func (s *GormStore) GetOrderByApplication(ctx context.Context, applicationID uuid.UUID) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := s.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *GormStore) UpdateOrder(ctx context.Context, order *models.PaymentOrder) error {
	return s.db.WithContext(ctx).Save(order).Error
}

func (s *GormStore) ExpireStaleOrders(ctx context.Context, olderThan time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&models.PaymentOrder{}).
		Where("status = ? AND created_at < ?", models.PaymentStatusCreated, olderThan).
		Update("status", models.PaymentStatusExpired)
	return result.RowsAffected, result.Error
}
