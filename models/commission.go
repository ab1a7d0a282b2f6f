package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommissionStats struct {
	TotalTransactions int                       `json:"total_transactions"`
	TotalCommission   decimal.Decimal           `json:"total_commission"`
	PaidCommission    decimal.Decimal           `json:"paid_commission"`
	UnpaidCommission  decimal.Decimal           `json:"unpaid_commission"`
	ByPlatform        []PlatformCommissionStats `json:"by_platform"`
}

type PlatformCommissionStats struct {
	Platform         string          `json:"platform"`
	PlatformName     string          `json:"platform_name"`
	TransactionCount int             `json:"transaction_count"`
	TotalCommission  decimal.Decimal `json:"total_commission"`
}

type UnpaidCommissions struct {
	TotalUnpaid      decimal.Decimal      `json:"total_unpaid"`
	TransactionCount int                  `json:"transaction_count"`
	Transactions     []BettingTransaction `json:"transactions"`
}

type CommissionRates struct {
	DepositRate    decimal.Decimal `json:"deposit_rate"`
	WithdrawalRate decimal.Decimal `json:"withdrawal_rate"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
	Message        string          `json:"message,omitempty"`
}

type CommissionPayment struct {
	UID              string          `json:"uid"`
	Reference        string          `json:"reference"`
	Amount           decimal.Decimal `json:"amount"`
	TransactionCount int             `json:"transaction_count"`
	PeriodStart      *time.Time      `json:"period_start,omitempty"`
	PeriodEnd        *time.Time      `json:"period_end,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}
