// Package settings manages the admin-editable key/value configuration.
// Reads go through a redis cache since the frontend polls settings;
// writes invalidate the cache and refresh the notification dispatcher's
// typed channel toggles.
package settings

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/visaflow/backend/internal/models"
	"github.com/visaflow/backend/internal/services/notify"
	"gorm.io/gorm"
)

const (
	cacheKeyPrefix = "setting:"
	cacheTTL       = 5 * time.Minute
)

// ErrNotFound means no setting exists under the key.
var ErrNotFound = errors.New("setting not found")

// Service reads and writes system settings.
type Service struct {
	db      *gorm.DB
	cache   *redis.Client
	toggles *notify.Toggles
}

// NewService creates a settings service. cache may be nil, in which case
// every read hits the database. toggles, when non-nil, is kept in sync
// with the notification toggle keys.
func NewService(db *gorm.DB, cache *redis.Client, toggles *notify.Toggles) *Service {
	return &Service{db: db, cache: cache, toggles: toggles}
}

// Get returns one setting value, preferring the cache.
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	if s.cache != nil {
		if value, err := s.cache.Get(ctx, cacheKeyPrefix+key).Result(); err == nil {
			return value, nil
		}
	}

	var setting models.SystemSetting
	if err := s.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKeyPrefix+key, setting.Value, cacheTTL).Err(); err != nil {
			log.Printf("settings: cache set failed for %s: %v", key, err)
		}
	}
	return setting.Value, nil
}

// GetBool returns a setting interpreted as a toggle; missing keys
// default to true.
func (s *Service) GetBool(ctx context.Context, key string) bool {
	value, err := s.Get(ctx, key)
	if err != nil {
		return true
	}
	return value != "false"
}

// List returns every setting row for the admin console.
func (s *Service) List(ctx context.Context) ([]models.SystemSetting, error) {
	var settings []models.SystemSetting
	if err := s.db.WithContext(ctx).Order("key ASC").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// Set upserts one setting, drops its cache entry and, for notification
// toggle keys, refreshes the dispatcher's typed toggles.
func (s *Service) Set(ctx context.Context, key, value, description string) (*models.SystemSetting, error) {
	var setting models.SystemSetting
	err := s.db.WithContext(ctx).First(&setting, "key = ?", key).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		setting = models.SystemSetting{Key: key, Value: value, Description: description}
		if err := s.db.WithContext(ctx).Create(&setting).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		setting.Value = value
		if description != "" {
			setting.Description = description
		}
		if err := s.db.WithContext(ctx).Save(&setting).Error; err != nil {
			return nil, err
		}
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, cacheKeyPrefix+key).Err(); err != nil {
			log.Printf("settings: cache invalidation failed for %s: %v", key, err)
		}
	}

	if isToggleKey(key) {
		s.RefreshToggles(ctx)
	}
	return &setting, nil
}

// RefreshToggles re-reads the three notification toggle keys into the
// dispatcher's typed configuration. Called at startup and after toggle
// writes.
func (s *Service) RefreshToggles(ctx context.Context) {
	if s.toggles == nil {
		return
	}
	s.toggles.Set(
		s.GetBool(ctx, models.SettingEmailEnabled),
		s.GetBool(ctx, models.SettingSMSEnabled),
		s.GetBool(ctx, models.SettingWhatsAppEnabled),
	)
}

func isToggleKey(key string) bool {
	switch key {
	case models.SettingEmailEnabled, models.SettingSMSEnabled, models.SettingWhatsAppEnabled:
		return true
	}
	return false
}
