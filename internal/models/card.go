package models

import (
	"strings"
	"time"
)

// CardIDSeparator joins set id and card number in a canonical card id.
// Set ids may not contain it, which keeps DeriveCardID injective.
const CardIDSeparator = ":"

// Card is the catalog-wide canonical row for a set+number pair.
type Card struct {
	ID        string    `json:"cardId" gorm:"column:card_id;primaryKey"`
	SetID     string    `json:"setId" gorm:"column:set_id;not null;index"`
	Number    string    `json:"number" gorm:"not null"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}

func (Card) TableName() string {
	return "cards_master"
}

// DeriveCardID builds the canonical card id from a set id and an in-set number.
func DeriveCardID(setID, number string) string {
	return strings.TrimSpace(setID) + CardIDSeparator + strings.TrimSpace(number)
}

// CardSummary is one row of a catalog search
type CardSummary struct {
	CardID       string `json:"cardId" gorm:"column:card_id"`
	SetID        string `json:"setId" gorm:"column:set_id"`
	Number       string `json:"number" gorm:"column:number"`
	Name         string `json:"name" gorm:"column:name"`
	ListingCount int64  `json:"listings" gorm:"column:listing_count"`
}

// CardDetail is a card plus its visible offers
type CardDetail struct {
	Card   Card    `json:"card"`
	Offers []Offer `json:"offers"`
}
