package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/visaflow/backend/internal/models"
	"gorm.io/gorm"
)

// GormStore is the database-backed Store used in production.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a gorm connection as a notification Store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) SaveNotification(ctx context.Context, n *models.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

func (s *GormStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
