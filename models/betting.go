package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BettingPlatform struct {
	UID                 string              `json:"uid"`
	Name                string              `json:"name"`
	Logo                string              `json:"logo,omitempty"`
	Description         string              `json:"description,omitempty"`
	IsActive            bool                `json:"is_active"`
	CanDeposit          bool                `json:"can_deposit"`
	CanWithdraw         bool                `json:"can_withdraw"`
	MinDepositAmount    decimal.NullDecimal `json:"min_deposit_amount"`
	MaxDepositAmount    decimal.NullDecimal `json:"max_deposit_amount"`
	MinWithdrawalAmount decimal.NullDecimal `json:"min_withdrawal_amount"`
	MaxWithdrawalAmount decimal.NullDecimal `json:"max_withdrawal_amount"`
}

type PlatformWithStats struct {
	BettingPlatform
	TotalTransactions   int             `json:"total_transactions"`
	TotalDeposits       decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals    decimal.Decimal `json:"total_withdrawals"`
	TotalCommission     decimal.Decimal `json:"total_commission"`
	LastTransactionDate *time.Time      `json:"last_transaction_date,omitempty"`
}

type BettingTransactionType string

const (
	BettingDeposit    BettingTransactionType = "deposit"
	BettingWithdrawal BettingTransactionType = "withdrawal"
)

type BettingStatus string

const (
	BettingPending   BettingStatus = "pending"
	BettingSuccess   BettingStatus = "success"
	BettingFailed    BettingStatus = "failed"
	BettingCancelled BettingStatus = "cancelled"
)

func (s BettingStatus) Terminal() bool { return s != BettingPending && s != "" }

type BettingTransaction struct {
	UID                   string                 `json:"uid"`
	Reference             string                 `json:"reference"`
	TransactionType       BettingTransactionType `json:"transaction_type"`
	Amount                decimal.Decimal        `json:"amount"`
	Status                BettingStatus          `json:"status"`
	Platform              string                 `json:"platform"`
	PlatformName          string                 `json:"platform_name,omitempty"`
	BettingUserID         string                 `json:"betting_user_id"`
	WithdrawalCode        string                 `json:"withdrawal_code,omitempty"`
	ExternalTransactionID string                 `json:"external_transaction_id,omitempty"`
	CommissionRate        decimal.NullDecimal    `json:"commission_rate"`
	CommissionAmount      decimal.NullDecimal    `json:"commission_amount"`
	CommissionPaid        bool                   `json:"commission_paid"`
	ErrorMessage          string                 `json:"error_message,omitempty"`
	CreatedAt             time.Time              `json:"created_at"`
}

type BettingDepositInput struct {
	Platform      string          `json:"platform_uid"`
	BettingUserID string          `json:"betting_user_id"`
	Amount        decimal.Decimal `json:"amount"`
}

type BettingWithdrawalInput struct {
	Platform       string `json:"platform_uid"`
	BettingUserID  string `json:"betting_user_id"`
	WithdrawalCode string `json:"withdrawal_code"`
}

type VerifyUserIDInput struct {
	Platform      string `json:"platform_uid"`
	BettingUserID string `json:"betting_user_id"`
}

// VerifyUserIDResponse is relayed from the external platform. UserID == 0 means
// the account does not exist.
type VerifyUserIDResponse struct {
	UserID     int64  `json:"UserId"`
	Name       string `json:"Name"`
	CurrencyID int    `json:"CurrencyId"`
}

func (r VerifyUserIDResponse) Valid() bool { return r.UserID != 0 }

type BettingFilter struct {
	PageParams
	Type     BettingTransactionType
	Status   BettingStatus
	Platform string
}

func (f BettingFilter) Query() map[string]string {
	q := f.PageParams.Query()
	if f.Type != "" {
		q["transaction_type"] = string(f.Type)
	}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	if f.Platform != "" {
		q["platform"] = f.Platform
	}
	return q
}
