package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
)

type TransactionStatus string

const (
	TransactionPending    TransactionStatus = "pending"
	TransactionSentToUser TransactionStatus = "sent_to_user"
	TransactionProcessing TransactionStatus = "processing"
	TransactionSuccess    TransactionStatus = "success"
	TransactionFailed     TransactionStatus = "failed"
	TransactionCancelled  TransactionStatus = "cancelled"
	TransactionTimeout    TransactionStatus = "timeout"
)

func (s TransactionStatus) Terminal() bool {
	switch s {
	case TransactionSuccess, TransactionFailed, TransactionCancelled, TransactionTimeout:
		return true
	}
	return false
}

// Transaction is a mobile-money deposit or withdrawal.
type Transaction struct {
	UID                   string            `json:"uid"`
	Reference             string            `json:"reference"`
	Type                  TransactionType   `json:"type"`
	Amount                decimal.Decimal   `json:"amount"`
	Fees                  decimal.Decimal   `json:"fees"`
	RecipientPhone        string            `json:"recipient_phone"`
	RecipientName         string            `json:"recipient_name,omitempty"`
	Network               string            `json:"network"`
	NetworkName           string            `json:"network_name,omitempty"`
	Objet                 string            `json:"objet,omitempty"`
	Status                TransactionStatus `json:"status"`
	ExternalTransactionID string            `json:"external_transaction_id,omitempty"`
	ErrorMessage          string            `json:"error_message,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             *time.Time        `json:"updated_at,omitempty"`
	CompletedAt           *time.Time        `json:"completed_at,omitempty"`
}

type CreateTransactionInput struct {
	Type           TransactionType `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	RecipientPhone string          `json:"recipient_phone"`
	RecipientName  string          `json:"recipient_name,omitempty"`
	Network        string          `json:"network"`
	Objet          string          `json:"objet,omitempty"`
}

type TransactionFilter struct {
	PageParams
	Type   TransactionType
	Status TransactionStatus
	Search string
}

func (f TransactionFilter) Query() map[string]string {
	q := f.PageParams.Query()
	if f.Type != "" {
		q["type"] = string(f.Type)
	}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	if f.Search != "" {
		q["search"] = f.Search
	}
	return q
}
