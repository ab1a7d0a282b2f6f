package models

import "github.com/shopspring/decimal"

// Network is a mobile-money operator.
type Network struct {
	UID                  string              `json:"uid"`
	Name                 string              `json:"nom"`
	Code                 string              `json:"code"`
	CountryName          string              `json:"country_name,omitempty"`
	CountryCode          string              `json:"country_code,omitempty"`
	IsActive             bool                `json:"is_active"`
	MinAmount            decimal.NullDecimal `json:"min_amount"`
	MaxAmount            decimal.NullDecimal `json:"max_amount"`
	DepositFeePercent    decimal.NullDecimal `json:"deposit_fee_percent"`
	WithdrawalFeePercent decimal.NullDecimal `json:"withdrawal_fee_percent"`
	DepositEnabled       bool                `json:"deposit_enabled"`
	WithdrawalEnabled    bool                `json:"withdrawal_enabled"`
}
