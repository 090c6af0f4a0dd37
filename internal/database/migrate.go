package database

import (
	"gorm.io/gorm"

	"bloodlink_backend/internal/logger"
	"bloodlink_backend/internal/models"
)

// Migrate brings the schema up to date: extensions, tables, and the indexes
// GORM tags cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS postgis`).Error; err != nil {
		return err
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Hospital{},
		&models.Request{},
		&models.Donation{},
		&models.Notification{},
		&models.Feedback{},
	)
	if err != nil {
		return err
	}

	// At most one admin account in the system.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_single_admin
		ON users (role) WHERE role = 'admin'`).Error
	if err != nil {
		return err
	}

	// Geography indexes backing the nearby-donor and nearby-hospital searches.
	geoIndexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_users_location ON users
			USING GIST ((ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography))`,
		`CREATE INDEX IF NOT EXISTS idx_hospitals_location ON hospitals
			USING GIST ((ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography))`,
		`CREATE INDEX IF NOT EXISTS idx_requests_location ON requests
			USING GIST ((ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography))`,
	}
	for _, stmt := range geoIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	logger.Info("Database migration complete")
	return nil
}
