package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// CreateCatalogTables creates the countries and visa_types tables
func CreateCatalogTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_create_catalog_tables",
		Migrate: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS countries (
					id UUID PRIMARY KEY,
					name VARCHAR(100) NOT NULL,
					code VARCHAR(2) NOT NULL UNIQUE,
					slug VARCHAR(120) NOT NULL UNIQUE,
					flag_emoji VARCHAR(8),
					is_active BOOLEAN DEFAULT TRUE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE TABLE IF NOT EXISTS visa_types (
					id UUID PRIMARY KEY,
					country_id UUID NOT NULL REFERENCES countries(id),
					name VARCHAR(100) NOT NULL,
					slug VARCHAR(120) NOT NULL,
					description TEXT,
					fee NUMERIC(12,2) NOT NULL,
					currency VARCHAR(3) NOT NULL DEFAULT 'USD',
					processing_days INTEGER DEFAULT 14,
					is_active BOOLEAN DEFAULT TRUE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX IF NOT EXISTS idx_visa_types_country_id ON visa_types(country_id);
				CREATE INDEX IF NOT EXISTS idx_visa_types_slug ON visa_types(slug);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`DROP TABLE IF EXISTS visa_types; DROP TABLE IF EXISTS countries`).Error
		},
	}
}
