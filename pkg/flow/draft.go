package flow

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"betwallet_client/models"
	"betwallet_client/pkg/apierror"
)

// Kind names a money-moving operation.
type Kind string

const (
	KindDeposit           Kind = "deposit"
	KindWithdraw          Kind = "withdraw"
	KindRecharge          Kind = "recharge"
	KindAutoRecharge      Kind = "auto-recharge"
	KindBettingDeposit    Kind = "betting-deposit"
	KindBettingWithdrawal Kind = "betting-withdrawal"
	KindTransfer          Kind = "transfer"
)

var kinds = map[Kind]bool{
	KindDeposit: true, KindWithdraw: true, KindRecharge: true, KindAutoRecharge: true,
	KindBettingDeposit: true, KindBettingWithdrawal: true, KindTransfer: true,
}

func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	return k, kinds[k]
}

// Betting kinds need a verified external account before they can be prepared.
func (k Kind) Betting() bool { return k == KindBettingDeposit || k == KindBettingWithdrawal }

const (
	minPhoneDigits = 8
	minIDLength    = 4
)

// Form is what the user typed. Amount stays a string until validation.
type Form struct {
	Amount           string     `json:"amount"`
	Network          string     `json:"network,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	RecipientName    string     `json:"recipient_name,omitempty"`
	Objet            string     `json:"objet,omitempty"`
	Platform         string     `json:"platform,omitempty"`
	BettingUserID    string     `json:"betting_user_id,omitempty"`
	WithdrawalCode   string     `json:"withdrawal_code,omitempty"`
	Receiver         string     `json:"receiver,omitempty"`
	Description      string     `json:"description,omitempty"`
	ProofDescription string     `json:"proof_description,omitempty"`
	ProofImage       []byte     `json:"proof_image,omitempty"`
	ProofImageName   string     `json:"proof_image_name,omitempty"`
	TransactionDate  *time.Time `json:"transaction_date,omitempty"`
}

// Limits are the min/max known for the selected network or platform. Invalid
// members mean "unknown" and are not enforced.
type Limits struct {
	Min decimal.NullDecimal `json:"min"`
	Max decimal.NullDecimal `json:"max"`
}

// Draft is a validated, not yet submitted operation. It is never persisted.
type Draft struct {
	ID               string                       `json:"id"`
	Kind             Kind                         `json:"kind"`
	Amount           decimal.Decimal              `json:"amount"`
	Network          string                       `json:"network,omitempty"`
	Phone            string                       `json:"phone,omitempty"`
	RecipientName    string                       `json:"recipient_name,omitempty"`
	Objet            string                       `json:"objet,omitempty"`
	Platform         string                       `json:"platform,omitempty"`
	BettingUserID    string                       `json:"betting_user_id,omitempty"`
	BettingUser      *models.VerifyUserIDResponse `json:"betting_user,omitempty"`
	WithdrawalCode   string                       `json:"withdrawal_code,omitempty"`
	Receiver         string                       `json:"receiver,omitempty"`
	Description      string                       `json:"description,omitempty"`
	ProofDescription string                       `json:"proof_description,omitempty"`
	ProofImage       []byte                       `json:"-"`
	ProofImageName   string                       `json:"proof_image_name,omitempty"`
	TransactionDate  time.Time                    `json:"transaction_date"`
	CreatedAt        time.Time                    `json:"created_at"`
}

// Verification is the betting account a flow was verified against.
type Verification struct {
	Platform string
	UserID   string
	User     models.VerifyUserIDResponse
}

// Validate checks form for kind without touching the network. All problems are
// reported at once, one "field: message" line each.
func Validate(kind Kind, form Form, limits Limits, verified *Verification, now time.Time) (*Draft, error) {
	if !kinds[kind] {
		return nil, apierror.Validation("Unknown operation.")
	}
	v := validator{}
	d := &Draft{
		ID:               uuid.NewString(),
		Kind:             kind,
		Network:          strings.TrimSpace(form.Network),
		Phone:            strings.TrimSpace(form.Phone),
		RecipientName:    strings.TrimSpace(form.RecipientName),
		Objet:            strings.TrimSpace(form.Objet),
		Platform:         strings.TrimSpace(form.Platform),
		BettingUserID:    strings.TrimSpace(form.BettingUserID),
		WithdrawalCode:   strings.TrimSpace(form.WithdrawalCode),
		Receiver:         strings.TrimSpace(form.Receiver),
		Description:      strings.TrimSpace(form.Description),
		ProofDescription: strings.TrimSpace(form.ProofDescription),
		ProofImage:       form.ProofImage,
		ProofImageName:   form.ProofImageName,
		CreatedAt:        now,
	}

	if kind != KindBettingWithdrawal {
		d.Amount = v.amount(form.Amount, limits)
	}

	switch kind {
	case KindDeposit, KindWithdraw, KindAutoRecharge:
		v.required("network", d.Network)
		v.phone("phone", d.Phone)
	case KindRecharge:
		if len(d.ProofImage) == 0 {
			v.add("proof_image", "A payment proof image is required.")
		}
		d.TransactionDate = now
		if form.TransactionDate != nil {
			d.TransactionDate = *form.TransactionDate
		}
	case KindBettingDeposit, KindBettingWithdrawal:
		v.required("platform", d.Platform)
		v.id("betting_user_id", d.BettingUserID)
		if kind == KindBettingWithdrawal {
			v.id("withdrawal_code", d.WithdrawalCode)
		}
		switch {
		case verified == nil:
			v.add("betting_user_id", "Verify the betting account before continuing.")
		case verified.Platform != d.Platform || verified.UserID != d.BettingUserID:
			v.add("betting_user_id", "The betting account changed since it was verified.")
		default:
			user := verified.User
			d.BettingUser = &user
		}
	case KindTransfer:
		v.id("receiver", d.Receiver)
	}

	if err := v.err(); err != nil {
		return nil, err
	}
	return d, nil
}

type validator struct {
	lines []string
	seen  map[string]bool
}

func (v *validator) add(field, msg string) {
	if v.seen == nil {
		v.seen = map[string]bool{}
	}
	if v.seen[field] {
		return
	}
	v.seen[field] = true
	v.lines = append(v.lines, field+": "+msg)
}

func (v *validator) err() error {
	if len(v.lines) == 0 {
		return nil
	}
	return apierror.Validation(strings.Join(v.lines, "\n"))
}

func (v *validator) required(field, value string) bool {
	if value == "" {
		v.add(field, "This field is required.")
		return false
	}
	return true
}

func (v *validator) phone(field, value string) {
	if !v.required(field, value) {
		return
	}
	digits := 0
	for _, r := range value {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < minPhoneDigits {
		v.add(field, "Enter a valid phone number.")
	}
}

func (v *validator) id(field, value string) {
	if !v.required(field, value) {
		return
	}
	if len([]rune(value)) < minIDLength {
		v.add(field, "This value is too short.")
	}
}

func (v *validator) amount(raw string, limits Limits) decimal.Decimal {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	raw = strings.ReplaceAll(raw, ",", ".")
	if raw == "" {
		v.add("amount", "This field is required.")
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		v.add("amount", "Enter a valid amount.")
		return decimal.Zero
	}
	if !amount.IsPositive() {
		v.add("amount", "The amount must be greater than zero.")
		return amount
	}
	if limits.Min.Valid && amount.LessThan(limits.Min.Decimal) {
		v.add("amount", "The minimum amount is "+limits.Min.Decimal.String()+".")
	}
	if limits.Max.Valid && amount.GreaterThan(limits.Max.Decimal) {
		v.add("amount", "The maximum amount is "+limits.Max.Decimal.String()+".")
	}
	return amount
}
