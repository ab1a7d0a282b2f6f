package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRecord is the raw account-ledger row as the backend sends it. Related
// objects are optional and at most one is expected to be set.
type LedgerRecord struct {
	UID                string              `json:"uid"`
	Reference          string              `json:"reference"`
	TransactionType    string              `json:"transaction_type"`
	Amount             decimal.Decimal     `json:"amount"`
	BalanceBefore      decimal.NullDecimal `json:"balance_before"`
	BalanceAfter       decimal.NullDecimal `json:"balance_after"`
	Description        string              `json:"description"`
	CreatedAt          time.Time           `json:"created_at"`
	Transfer           *Transfer           `json:"transfer,omitempty"`
	BettingTransaction *BettingTransaction `json:"betting_transaction,omitempty"`
	Recharge           *Recharge           `json:"recharge,omitempty"`
}

type LedgerKind string

const (
	LedgerTransfer LedgerKind = "transfer"
	LedgerBetting  LedgerKind = "betting"
	LedgerRecharge LedgerKind = "recharge"
	LedgerAccount  LedgerKind = "account"
)

// LedgerEntry is a ledger row whose kind was decided once, at fetch time. Only the
// detail matching Kind is set.
type LedgerEntry struct {
	Kind          LedgerKind          `json:"kind"`
	UID           string              `json:"uid"`
	Reference     string              `json:"reference"`
	Type          string              `json:"type"`
	Amount        decimal.Decimal     `json:"amount"`
	BalanceBefore decimal.NullDecimal `json:"balance_before"`
	BalanceAfter  decimal.NullDecimal `json:"balance_after"`
	Description   string              `json:"description,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`

	Transfer *Transfer           `json:"transfer,omitempty"`
	Betting  *BettingTransaction `json:"betting,omitempty"`
	Recharge *Recharge           `json:"recharge,omitempty"`
}

func ClassifyLedger(r LedgerRecord) LedgerEntry {
	e := LedgerEntry{
		UID:           r.UID,
		Reference:     r.Reference,
		Type:          r.TransactionType,
		Amount:        r.Amount,
		BalanceBefore: r.BalanceBefore,
		BalanceAfter:  r.BalanceAfter,
		Description:   r.Description,
		CreatedAt:     r.CreatedAt,
	}

	t := strings.ToLower(r.TransactionType)
	switch {
	case r.Transfer != nil:
		e.Kind, e.Transfer = LedgerTransfer, r.Transfer
	case r.BettingTransaction != nil:
		e.Kind, e.Betting = LedgerBetting, r.BettingTransaction
	case r.Recharge != nil:
		e.Kind, e.Recharge = LedgerRecharge, r.Recharge
	case strings.HasPrefix(t, "transfer"):
		e.Kind = LedgerTransfer
	case strings.HasPrefix(t, "betting"):
		e.Kind = LedgerBetting
	case strings.HasPrefix(t, "recharge"):
		e.Kind = LedgerRecharge
	default:
		e.Kind = LedgerAccount
	}
	return e
}

func ClassifyLedgerPage(p Page[LedgerRecord]) Page[LedgerEntry] {
	out := Page[LedgerEntry]{Count: p.Count, Next: p.Next, Previous: p.Previous, Results: make([]LedgerEntry, 0, len(p.Results))}
	for _, r := range p.Results {
		out.Results = append(out.Results, ClassifyLedger(r))
	}
	return out
}
