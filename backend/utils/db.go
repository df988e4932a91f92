package utils

import (
	"fmt"
	"log"
	"time"

	"pathtracker/backend/config"
	"pathtracker/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB connects to Postgres and migrates the schema. Connection attempts
// are retried a few times since a containerized database can lag behind the
// server on startup.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	var db *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		log.Printf("database connection attempt %d failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies the schema for all record kinds.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.LearningPath{},
		&models.Module{},
		&models.LearningItem{},
		&models.Note{},
	)
}
