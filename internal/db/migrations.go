package db

import (
	"fmt"

	"gorm.io/gorm"
)

// The fleet_reports and vehicles tables belong to the reporting and fleet workflows;
// only the override tables are created here.
var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'operating_status') THEN
			CREATE TYPE operating_status AS ENUM ('running', 'stopped', 'breakdown', 'leave', 'offline', 'swapped', 'not_active');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS vehicle_attendance_overrides (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		vehicle_code VARCHAR(64) NOT NULL,
		shift_date DATE NOT NULL,
		shift VARCHAR(16) NOT NULL,
		status operating_status NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		author_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_override_manual_status CHECK (status IN ('running', 'stopped', 'breakdown', 'leave'))
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_attendance_override_slot ON vehicle_attendance_overrides (vehicle_code, shift_date, shift);`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_override_date ON vehicle_attendance_overrides (shift_date);`,
	`CREATE TABLE IF NOT EXISTS vehicle_attendance_override_history (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		override_id UUID NOT NULL REFERENCES vehicle_attendance_overrides(id),
		vehicle_code VARCHAR(64) NOT NULL,
		shift_date DATE NOT NULL,
		shift VARCHAR(16) NOT NULL,
		status operating_status NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		author_id UUID NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_override_history_slot ON vehicle_attendance_override_history (vehicle_code, shift_date, shift, recorded_at DESC);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

// Migrate applies all migration statements; it is safe to run repeatedly.
func Migrate(db *gorm.DB) error {
	return runMigrations(db)
}
