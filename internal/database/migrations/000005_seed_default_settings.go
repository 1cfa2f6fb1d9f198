package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedDefaultSettings inserts the notification channel toggles so the
// admin console has rows to edit from day one.
func SeedDefaultSettings() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000005_seed_default_settings",
		Migrate: func(tx *gorm.DB) error {
			seeds := []struct {
				key, value, description string
			}{
				{"notifications_email_enabled", "true", "Send notifications by email"},
				{"notifications_sms_enabled", "true", "Send notifications by SMS"},
				{"notifications_whatsapp_enabled", "true", "Send notifications by WhatsApp"},
			}
			for _, s := range seeds {
				err := tx.Exec(`
					INSERT INTO system_settings (id, key, value, description, created_at, updated_at)
					VALUES (?, ?, ?, ?, NOW(), NOW())
					ON CONFLICT (key) DO NOTHING
				`, uuid.New(), s.key, s.value, s.description).Error
				if err != nil {
					return err
				}
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`
				DELETE FROM system_settings
				WHERE key IN ('notifications_email_enabled', 'notifications_sms_enabled', 'notifications_whatsapp_enabled')
			`).Error
		},
	}
}
