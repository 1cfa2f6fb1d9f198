package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// CreatePaymentAndNotificationTables creates payment_orders,
// notifications, system_settings and the jobs table for the queue
func CreatePaymentAndNotificationTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000004_create_payment_notification_tables",
		Migrate: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS payment_orders (
					id UUID PRIMARY KEY,
					application_id UUID NOT NULL REFERENCES visa_applications(id),
					reference VARCHAR(32) NOT NULL UNIQUE,
					gateway_payment_id VARCHAR(64),
					amount NUMERIC(12,2) NOT NULL,
					currency VARCHAR(3) NOT NULL,
					status VARCHAR(12) NOT NULL DEFAULT 'created',
					verified_at TIMESTAMP WITH TIME ZONE,
					failure_reason TEXT,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX IF NOT EXISTS idx_payment_orders_application_id ON payment_orders(application_id);
				CREATE INDEX IF NOT EXISTS idx_payment_orders_status ON payment_orders(status);

				CREATE TABLE IF NOT EXISTS notifications (
					id UUID PRIMARY KEY,
					user_id UUID NOT NULL REFERENCES users(id),
					application_id UUID REFERENCES visa_applications(id),
					type VARCHAR(20) NOT NULL,
					title VARCHAR(255) NOT NULL,
					message TEXT NOT NULL,
					is_read BOOLEAN DEFAULT FALSE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id);
				CREATE INDEX IF NOT EXISTS idx_notifications_is_read ON notifications(is_read);

				CREATE TABLE IF NOT EXISTS system_settings (
					id UUID PRIMARY KEY,
					key VARCHAR(100) NOT NULL UNIQUE,
					value TEXT NOT NULL,
					description TEXT,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE TABLE IF NOT EXISTS jobs (
					id UUID PRIMARY KEY,
					type VARCHAR(50) NOT NULL,
					payload JSONB,
					status VARCHAR(12) NOT NULL DEFAULT 'pending',
					retry_count INTEGER DEFAULT 0,
					max_retries INTEGER DEFAULT 5,
					next_retry TIMESTAMP WITH TIME ZONE,
					error TEXT,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
				);

				CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`
				DROP TABLE IF EXISTS jobs;
				DROP TABLE IF EXISTS system_settings;
				DROP TABLE IF EXISTS notifications;
				DROP TABLE IF EXISTS payment_orders;
			`).Error
		},
	}
}
