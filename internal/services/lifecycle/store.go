package lifecycle

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/visaflow/backend/internal/models"
	"gorm.io/gorm"
)

// GormStore is the database-backed Store used in production.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a gorm connection as a lifecycle Store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetApplication(ctx context.Context, id uuid.UUID) (*models.VisaApplication, error) {
	var app models.VisaApplication
	err := s.db.WithContext(ctx).
		Preload("Country").
		Preload("VisaType").
		First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// SaveWithHistory writes the application row and its history entry in a
// single transaction.
func (s *GormStore) SaveWithHistory(ctx context.Context, app *models.VisaApplication, history *models.ApplicationStatusHistory) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(app).Error; err != nil {
			return err
		}
		return tx.Create(history).Error
	})
}

func (s *GormStore) AppendHistory(ctx context.Context, history *models.ApplicationStatusHistory) error {
	return s.db.WithContext(ctx).Create(history).Error
}

func (s *GormStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// LeastLoadedEmployee picks the active employee carrying the fewest
// applications still in flight.
func (s *GormStore) LeastLoadedEmployee(ctx context.Context) (*models.User, error) {
	var employee models.User
	err := s.db.WithContext(ctx).
		Raw(`
			SELECT u.* FROM users u
			LEFT JOIN visa_applications a
				ON a.assigned_to = u.id
				AND a.status IN ('submitted', 'under_review')
				AND a.deleted_at IS NULL
			WHERE u.user_type = 'employee' AND u.status = 'active' AND u.deleted_at IS NULL
			GROUP BY u.id
			ORDER BY COUNT(a.id) ASC, u.created_at ASC
			LIMIT 1`).
		Scan(&employee).Error
	if err != nil {
		return nil, err
	}
	if employee.ID == uuid.Nil {
		return nil, ErrNoEmployee
	}
	return &employee, nil
}
