package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSnapshot is the normalized aggregate state of one oracle account at fetch time.
type PriceSnapshot struct {
	RunID       string          `json:"run_id"`
	Symbol      string          `json:"symbol,omitempty"`
	Account     string          `json:"account"`
	FetchedAt   time.Time       `json:"fetched_at"`
	Exponent    int32           `json:"exponent"`
	Price       decimal.Decimal `json:"price"`
	Confidence  decimal.Decimal `json:"confidence"`
	TWAP        decimal.Decimal `json:"twap"`
	TWAC        decimal.Decimal `json:"twac"`
	Status      uint32          `json:"status"`
	PublishSlot uint64          `json:"publish_slot"`
	ValidSlot   uint64          `json:"valid_slot"`
	Components  int             `json:"components"`
}
