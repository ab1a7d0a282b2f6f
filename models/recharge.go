package models

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

type RechargeStatus string

const (
	RechargePending        RechargeStatus = "pending"
	RechargeProofSubmitted RechargeStatus = "proof_submitted"
	RechargeApproved       RechargeStatus = "approved"
	RechargeRejected       RechargeStatus = "rejected"
	RechargeExpired        RechargeStatus = "expired"
)

func (s RechargeStatus) Terminal() bool {
	return s == RechargeApproved || s == RechargeRejected || s == RechargeExpired
}

// Recharge is a manual top-up of the user's own wallet backed by a payment proof.
type Recharge struct {
	UID              string          `json:"uid"`
	Reference        string          `json:"reference"`
	Amount           decimal.Decimal `json:"amount"`
	Status           RechargeStatus  `json:"status"`
	ProofDescription string          `json:"proof_description"`
	ProofImage       string          `json:"proof_image,omitempty"`
	TransactionDate  *time.Time      `json:"transaction_date,omitempty"`
	AdminNotes       string          `json:"admin_notes,omitempty"`
	RejectionReason  string          `json:"rejection_reason,omitempty"`
	ExpiresAt        *time.Time      `json:"expires_at,omitempty"`
	ReviewedAt       *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// CreateRechargeInput is sent as multipart/form-data.
type CreateRechargeInput struct {
	Amount           decimal.Decimal
	ProofDescription string
	TransactionDate  time.Time
	ProofImage       io.Reader
	ProofImageName   string
}

type RechargeFilter struct {
	PageParams
	Status RechargeStatus
}

func (f RechargeFilter) Query() map[string]string {
	q := f.PageParams.Query()
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	return q
}
