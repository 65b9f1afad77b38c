package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rental-backend/internal/models"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Booking{},
		&models.Message{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Exclusion constraint: two pending/approved bookings for the same
	// property can never hold overlapping date ranges, even if two requests
	// race past the application-level check.
	db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`)
	db.Exec(`
		DO $$ BEGIN
			ALTER TABLE bookings
			ADD CONSTRAINT idx_booking_no_overlap
			EXCLUDE USING gist (
				property_id WITH =,
				daterange(start_date, end_date, '[]') WITH &&
			) WHERE (status IN ('pending', 'approved'));
		EXCEPTION
			WHEN duplicate_table THEN NULL;
			WHEN duplicate_object THEN NULL;
		END $$
	`)

	return db
}
