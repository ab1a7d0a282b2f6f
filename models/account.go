package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSnapshot is replaced wholesale on every refresh.
type AccountSnapshot struct {
	UID               string              `json:"uid,omitempty"`
	Balance           decimal.Decimal     `json:"balance"`
	FormattedBalance  string              `json:"formatted_balance"`
	Currency          string              `json:"currency,omitempty"`
	UtilizationRate   decimal.NullDecimal `json:"utilization_rate"`
	MinBalance        decimal.NullDecimal `json:"min_balance"`
	MaxBalance        decimal.NullDecimal `json:"max_balance"`
	IsActive          bool                `json:"is_active"`
	IsFrozen          bool                `json:"is_frozen"`
	CreatedAt         *time.Time          `json:"created_at,omitempty"`
	UpdatedAt         *time.Time          `json:"updated_at,omitempty"`
	LastTransactionAt *time.Time          `json:"last_transaction_at,omitempty"`
}
