package database

import (
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/akoka-events/crossover-tickets-api/internal/config"
	"github.com/akoka-events/crossover-tickets-api/internal/models"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Auto Migrate
	err = db.AutoMigrate(&models.Registration{}, &models.GroupMember{}, &models.Payment{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to auto migrate")
	}

	return db
}
