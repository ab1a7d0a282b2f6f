package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferFailed    TransferStatus = "failed"
	TransferCancelled TransferStatus = "cancelled"
)

type Transfer struct {
	UID         string          `json:"uid"`
	Reference   string          `json:"reference"`
	Sender      UserSummary     `json:"sender"`
	Receiver    UserSummary     `json:"receiver"`
	Amount      decimal.Decimal `json:"amount"`
	Fees        decimal.Decimal `json:"fees"`
	Status      TransferStatus  `json:"status"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

type CreateTransferInput struct {
	Receiver    string          `json:"receiver"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

type TransferDirection string

const (
	TransferSent     TransferDirection = "sent"
	TransferReceived TransferDirection = "received"
)

type TransferFilter struct {
	PageParams
	Direction TransferDirection
	Status    TransferStatus
	Search    string
}

func (f TransferFilter) Query() map[string]string {
	q := f.PageParams.Query()
	if f.Direction != "" {
		q["direction"] = string(f.Direction)
	}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	if f.Search != "" {
		q["search"] = f.Search
	}
	return q
}
