package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bramment1/poke-trade-scan-web/internal/metrics"
	"github.com/bramment1/poke-trade-scan-web/internal/models"
)

// MaxSearchResults caps the number of rows a search returns
const MaxSearchResults = 100

// CatalogService owns the canonical card registry and the per-user collection ledger
type CatalogService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCatalogService creates a catalog service over an open database
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{
		db:  db,
		now: time.Now,
	}
}

// AddEntryInput is one listing submission. Name and Price are optional.
type AddEntryInput struct {
	Username  string
	SetID     string
	Number    string
	Name      *string
	Condition string
	Status    string
	Price     *float64
}

// SearchFilter narrows a catalog search. Empty fields do not filter.
type SearchFilter struct {
	Query  string
	SetID  string
	Status string
}

// AddToCollection upserts the canonical card and appends a collection entry in
// one transaction. The card name is only filled while it is still null.
func (s *CatalogService) AddToCollection(ctx context.Context, in AddEntryInput) (string, error) {
	username := strings.TrimSpace(in.Username)
	setID := strings.TrimSpace(in.SetID)
	number := strings.TrimSpace(in.Number)

	switch {
	case username == "":
		return "", fmt.Errorf("%w: username is required", ErrValidation)
	case setID == "":
		return "", fmt.Errorf("%w: setId is required", ErrValidation)
	case number == "":
		return "", fmt.Errorf("%w: number is required", ErrValidation)
	case strings.Contains(setID, models.CardIDSeparator):
		return "", fmt.Errorf("%w: setId may not contain %q", ErrValidation, models.CardIDSeparator)
	}

	status, ok := models.ParseStatus(in.Status)
	if !ok {
		return "", fmt.Errorf("%w: status must be one of hidden, sale, trade, both", ErrValidation)
	}
	if in.Price != nil && (*in.Price < 0 || math.IsNaN(*in.Price) || math.IsInf(*in.Price, 0)) {
		return "", fmt.Errorf("%w: price must be a non-negative number", ErrValidation)
	}

	var name *string
	if in.Name != nil {
		if trimmed := strings.TrimSpace(*in.Name); trimmed != "" {
			name = &trimmed
		}
	}

	cardID := models.DeriveCardID(setID, number)
	now := s.now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card := models.Card{
			ID:        cardID,
			SetID:     setID,
			Number:    number,
			Name:      name,
			CreatedAt: now,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&card).Error; err != nil {
			return fmt.Errorf("create card: %w", err)
		}

		if name != nil {
			err := tx.Model(&models.Card{}).
				Where("card_id = ? AND name IS NULL", cardID).
				Update("name", *name).Error
			if err != nil {
				return fmt.Errorf("fill card name: %w", err)
			}
		}

		entry := models.CollectionEntry{
			Username:  username,
			CardID:    cardID,
			Condition: models.NormalizeCondition(in.Condition),
			Status:    status,
			Price:     in.Price,
			UpdatedAt: now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("create collection entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	metrics.CollectionEntriesCreatedTotal.WithLabelValues(string(status)).Inc()
	log.Info().Str("card_id", cardID).Str("username", username).Str("status", string(status)).Msg("collection entry added")

	return cardID, nil
}

// Search finds cards whose number, name or set id contains the query
// (case-insensitive). Results are ordered by listing count, then set id and
// number, and capped at MaxSearchResults.
func (s *CatalogService) Search(ctx context.Context, f SearchFilter) ([]models.CardSummary, error) {
	like := "%" + escapeLike(strings.ToLower(strings.TrimSpace(f.Query))) + "%"

	query := s.db.WithContext(ctx).
		Table("cards_master AS c").
		Select(`c.card_id, c.set_id, c.number, COALESCE(c.name, '') AS name,
			COALESCE(SUM(CASE WHEN uc.status IS NOT NULL AND uc.status != ? THEN 1 ELSE 0 END), 0) AS listing_count`,
			models.StatusHidden).
		Joins("LEFT JOIN user_cards uc ON uc.card_id = c.card_id").
		Where(`(LOWER(c.number) LIKE ? ESCAPE '\' OR LOWER(COALESCE(c.name, '')) LIKE ? ESCAPE '\' OR LOWER(c.set_id) LIKE ? ESCAPE '\')`,
			like, like, like)

	if setID := strings.TrimSpace(f.SetID); setID != "" {
		query = query.Where("c.set_id = ?", setID)
	}
	if status := strings.TrimSpace(f.Status); status != "" {
		query = query.Where("EXISTS (SELECT 1 FROM user_cards f WHERE f.card_id = c.card_id AND f.status = ?)", status)
	}

	results := make([]models.CardSummary, 0)
	err := query.
		Group("c.card_id").
		Order("listing_count DESC, c.set_id ASC, c.number ASC").
		Limit(MaxSearchResults).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("search cards: %w", err)
	}

	return results, nil
}

// GetDetail returns a card and its listed offers. Offers are ordered sale,
// both, trade, then anything else; within a status by ascending price with
// unpriced offers last, then by id.
func (s *CatalogService) GetDetail(ctx context.Context, cardID string) (*models.CardDetail, error) {
	db := s.db.WithContext(ctx)

	var card models.Card
	if err := db.First(&card, "card_id = ?", cardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: card %s", ErrNotFound, cardID)
		}
		return nil, fmt.Errorf("load card: %w", err)
	}

	offers := make([]models.Offer, 0)
	err := db.Model(&models.CollectionEntry{}).
		Select("id, username, condition, status, price, updated_at").
		Where("card_id = ? AND status != ?", cardID, models.StatusHidden).
		Order(offerPriorityOrder).
		Order("price IS NULL").
		Order("price ASC").
		Order("id ASC").
		Scan(&offers).Error
	if err != nil {
		return nil, fmt.Errorf("load offers: %w", err)
	}

	return &models.CardDetail{Card: card, Offers: offers}, nil
}

// Ping checks that the store is reachable
func (s *CatalogService) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Keep in step with models.Status.OfferPriority.
const offerPriorityOrder = `CASE status WHEN 'sale' THEN 1 WHEN 'both' THEN 2 WHEN 'trade' THEN 3 ELSE 4 END`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
