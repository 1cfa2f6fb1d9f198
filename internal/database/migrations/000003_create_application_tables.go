package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// CreateApplicationTables creates the visa_applications table and its
// status history audit table
func CreateApplicationTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000003_create_application_tables",
		Migrate: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS visa_applications (
					id UUID PRIMARY KEY,
					application_number VARCHAR(32) NOT NULL UNIQUE,
					customer_id UUID NOT NULL REFERENCES users(id),
					country_id UUID NOT NULL REFERENCES countries(id),
					visa_type_id UUID NOT NULL REFERENCES visa_types(id),
					status VARCHAR(20) NOT NULL DEFAULT 'draft',
					priority VARCHAR(10) NOT NULL DEFAULT 'normal',
					assigned_to UUID REFERENCES users(id),
					purpose TEXT,
					travel_date TIMESTAMP WITH TIME ZONE,
					submitted_at TIMESTAMP WITH TIME ZONE,
					reviewed_at TIMESTAMP WITH TIME ZONE,
					approved_at TIMESTAMP WITH TIME ZONE,
					rejection_reason TEXT,
					resend_reason TEXT,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX IF NOT EXISTS idx_visa_applications_customer_id ON visa_applications(customer_id);
				CREATE INDEX IF NOT EXISTS idx_visa_applications_status ON visa_applications(status);
				CREATE INDEX IF NOT EXISTS idx_visa_applications_assigned_to ON visa_applications(assigned_to);

				CREATE TABLE IF NOT EXISTS application_status_history (
					id UUID PRIMARY KEY,
					application_id UUID NOT NULL REFERENCES visa_applications(id),
					old_status VARCHAR(20) NOT NULL,
					new_status VARCHAR(20) NOT NULL,
					changed_by UUID NOT NULL REFERENCES users(id),
					comments TEXT,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX IF NOT EXISTS idx_application_status_history_application_id
					ON application_status_history(application_id);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`DROP TABLE IF EXISTS application_status_history; DROP TABLE IF EXISTS visa_applications`).Error
		},
	}
}
