package models

import (
	"strings"
	"time"
)

type Condition string

const (
	ConditionMint      Condition = "M"
	ConditionNearMint  Condition = "NM"
	ConditionExcellent Condition = "EX"
	ConditionGood      Condition = "GD"
	ConditionLightPlay Condition = "LP"
	ConditionPlayed    Condition = "PL"
	ConditionPoor      Condition = "PR"
)

// AllConditions returns the conventional grading labels. Condition itself is
// free-form; these are only what the UI offers.
func AllConditions() []Condition {
	return []Condition{
		ConditionMint,
		ConditionNearMint,
		ConditionExcellent,
		ConditionGood,
		ConditionLightPlay,
		ConditionPlayed,
		ConditionPoor,
	}
}

// NormalizeCondition trims the label and falls back to near mint when empty
func NormalizeCondition(c string) Condition {
	c = strings.TrimSpace(c)
	if c == "" {
		return ConditionNearMint
	}
	return Condition(c)
}

// Status is the listing state of a collection entry
type Status string

const (
	StatusHidden Status = "hidden"
	StatusSale   Status = "sale"
	StatusTrade  Status = "trade"
	StatusBoth   Status = "both"
)

// AllStatuses returns every valid listing status
func AllStatuses() []Status {
	return []Status{StatusHidden, StatusSale, StatusTrade, StatusBoth}
}

// ParseStatus maps user input to a Status. Empty input means hidden.
// The second return value is false for anything outside the four known values.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hidden":
		return StatusHidden, true
	case "sale":
		return StatusSale, true
	case "trade":
		return StatusTrade, true
	case "both":
		return StatusBoth, true
	default:
		return "", false
	}
}

// IsListed reports whether entries with this status are visible to other users
func (s Status) IsListed() bool {
	return s != StatusHidden
}

// OfferPriority orders offers on the detail page: sale, then both, then trade.
func (s Status) OfferPriority() int {
	switch s {
	case StatusSale:
		return 1
	case StatusBoth:
		return 2
	case StatusTrade:
		return 3
	default:
		return 4
	}
}

// CollectionEntry is one listing event for a card by a user. Entries are
// append-only; resubmitting a card adds a new row.
type CollectionEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"not null;index"`
	CardID    string    `json:"cardId" gorm:"column:card_id;not null;index:idx_user_cards_card_status,priority:1"`
	Card      *Card     `json:"-" gorm:"foreignKey:CardID;references:ID"`
	Condition Condition `json:"condition" gorm:"default:'NM'"`
	Status    Status    `json:"status" gorm:"default:'hidden';index:idx_user_cards_card_status,priority:2"`
	Price     *float64  `json:"price"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null"`
}

func (CollectionEntry) TableName() string {
	return "user_cards"
}

// Offer is the public view of a listed collection entry
type Offer struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Condition Condition `json:"condition"`
	Status    Status    `json:"status"`
	Price     *float64  `json:"price"`
	UpdatedAt time.Time `json:"updatedAt"`
}
