package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AutoRechargeNetwork struct {
	UID           string              `json:"uid"`
	Network       Network             `json:"network"`
	IsActive      bool                `json:"is_active"`
	MinAmount     decimal.NullDecimal `json:"min_amount"`
	MaxAmount     decimal.NullDecimal `json:"max_amount"`
	FixedFee      decimal.NullDecimal `json:"fixed_fee"`
	PercentageFee decimal.NullDecimal `json:"percentage_fee"`
}

type AutoRechargeStatus string

const (
	AutoRechargeInitiated  AutoRechargeStatus = "initiated"
	AutoRechargePending    AutoRechargeStatus = "pending"
	AutoRechargeProcessing AutoRechargeStatus = "processing"
	AutoRechargeSuccess    AutoRechargeStatus = "success"
	AutoRechargeFailed     AutoRechargeStatus = "failed"
	AutoRechargeCancelled  AutoRechargeStatus = "cancelled"
	AutoRechargeExpired    AutoRechargeStatus = "expired"
)

func (s AutoRechargeStatus) Terminal() bool {
	switch s {
	case AutoRechargeSuccess, AutoRechargeFailed, AutoRechargeCancelled, AutoRechargeExpired:
		return true
	}
	return false
}

type AutoRechargeTransaction struct {
	UID               string             `json:"uid"`
	Reference         string             `json:"reference"`
	Network           string             `json:"network"`
	NetworkName       string             `json:"network_name,omitempty"`
	PhoneNumber       string             `json:"phone_number"`
	Amount            decimal.Decimal    `json:"amount"`
	Fees              decimal.Decimal    `json:"fees"`
	TotalAmount       decimal.Decimal    `json:"total_amount"`
	Status            AutoRechargeStatus `json:"status"`
	PaymentLink       string             `json:"payment_link,omitempty"`
	USSDCode          string             `json:"ussd_code,omitempty"`
	ExternalReference string             `json:"external_reference,omitempty"`
	ErrorMessage      string             `json:"error_message,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	CompletedAt       *time.Time         `json:"completed_at,omitempty"`
}

type InitiateAutoRechargeInput struct {
	Network     string          `json:"network"`
	Amount      decimal.Decimal `json:"amount"`
	PhoneNumber string          `json:"phone_number"`
}

type InitiateAutoRechargeResponse struct {
	Success     bool                    `json:"success"`
	Message     string                  `json:"message,omitempty"`
	Transaction AutoRechargeTransaction `json:"transaction"`
	PaymentLink string                  `json:"payment_link,omitempty"`
	USSDCode    string                  `json:"ussd_code,omitempty"`
}

type AutoRechargeStatusResponse struct {
	UID     string             `json:"uid"`
	Status  AutoRechargeStatus `json:"status"`
	Message string             `json:"message,omitempty"`
}

type AutoRechargeFilter struct {
	PageParams
	Status AutoRechargeStatus
}

func (f AutoRechargeFilter) Query() map[string]string {
	q := f.PageParams.Query()
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	return q
}
