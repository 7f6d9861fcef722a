package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RunMigrations runs data fixes after AutoMigrate. Safe to run repeatedly.
func RunMigrations(db *gorm.DB) error {
	if err := backfillEntryDefaults(db); err != nil {
		return err
	}
	if err := blankNamesToNull(db); err != nil {
		return err
	}
	return nil
}

// backfillEntryDefaults gives rows written by older builds the default
// status and condition
func backfillEntryDefaults(db *gorm.DB) error {
	if !db.Migrator().HasTable("user_cards") {
		return nil
	}

	result := db.Exec(`UPDATE user_cards SET status = 'hidden' WHERE status IS NULL OR status = ''`)
	if result.Error != nil {
		return fmt.Errorf("backfill user_cards.status: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Info().Int64("rows", result.RowsAffected).Msg("Backfilled user_cards.status")
	}

	result = db.Exec(`UPDATE user_cards SET condition = 'NM' WHERE condition IS NULL OR condition = ''`)
	if result.Error != nil {
		return fmt.Errorf("backfill user_cards.condition: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Info().Int64("rows", result.RowsAffected).Msg("Backfilled user_cards.condition")
	}
	return nil
}

// blankNamesToNull lets the first real name fill cards saved with an empty one
func blankNamesToNull(db *gorm.DB) error {
	if !db.Migrator().HasTable("cards_master") {
		return nil
	}

	result := db.Exec(`UPDATE cards_master SET name = NULL WHERE TRIM(name) = ''`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Info().Int64("rows", result.RowsAffected).Msg("Cleared blank card names")
	}
	return nil
}
