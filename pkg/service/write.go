package service

import (
	"bytes"
	"context"

	"github.com/pkg/errors"

	"betwallet_client/models"
	"betwallet_client/pkg/flow"
)

// ErrSettlementUnsupported is returned for kinds whose status cannot be polled.
var ErrSettlementUnsupported = errors.New("settlement tracking is not available for this operation")

// refreshAfterWrite runs write and, only when it succeeds, re-reads the affected
// history and then the account snapshot, once each and in that order. Refresh
// errors are logged and do not hide the successful write.
func refreshAfterWrite[T any](ctx context.Context, s *Service, name string, write func(context.Context) (T, error), history func(context.Context) error) (T, error) {
	out, err := write(ctx)
	if err != nil {
		s.log.WithField("operation", name).Warnf("write failed: %v", err)
		return out, err
	}
	if err := history(ctx); err != nil {
		s.log.WithField("operation", name).Warnf("history refresh after write: %v", err)
	}
	if err := s.RefreshAccountData(ctx); err != nil {
		s.log.WithField("operation", name).Warnf("account refresh after write: %v", err)
	}
	return out, nil
}

func (s *Service) CreateTransaction(ctx context.Context, in models.CreateTransactionInput) (*models.Transaction, error) {
	return refreshAfterWrite(ctx, s, "create_transaction", func(ctx context.Context) (*models.Transaction, error) {
		return s.api.Transactions.Create(ctx, in)
	}, s.RefreshTransactions)
}

func (s *Service) CreateRecharge(ctx context.Context, in models.CreateRechargeInput) (*models.Recharge, error) {
	return refreshAfterWrite(ctx, s, "create_recharge", func(ctx context.Context) (*models.Recharge, error) {
		return s.api.Recharges.Create(ctx, in)
	}, s.RefreshRecharges)
}

func (s *Service) CreateTransfer(ctx context.Context, in models.CreateTransferInput) (*models.Transfer, error) {
	return refreshAfterWrite(ctx, s, "create_transfer", func(ctx context.Context) (*models.Transfer, error) {
		return s.api.Transfers.Create(ctx, in)
	}, s.RefreshTransfers)
}

func (s *Service) CreateBettingDeposit(ctx context.Context, in models.BettingDepositInput) (*models.BettingTransaction, error) {
	return refreshAfterWrite(ctx, s, "create_betting_deposit", func(ctx context.Context) (*models.BettingTransaction, error) {
		return s.api.Betting.CreateDeposit(ctx, in)
	}, s.RefreshBetting)
}

func (s *Service) CreateBettingWithdrawal(ctx context.Context, in models.BettingWithdrawalInput) (*models.BettingTransaction, error) {
	return refreshAfterWrite(ctx, s, "create_betting_withdrawal", func(ctx context.Context) (*models.BettingTransaction, error) {
		return s.api.Betting.CreateWithdrawal(ctx, in)
	}, s.RefreshBetting)
}

func (s *Service) InitiateAutoRecharge(ctx context.Context, in models.InitiateAutoRechargeInput) (*models.InitiateAutoRechargeResponse, error) {
	return refreshAfterWrite(ctx, s, "initiate_auto_recharge", func(ctx context.Context) (*models.InitiateAutoRechargeResponse, error) {
		return s.api.AutoRecharge.Initiate(ctx, in)
	}, s.RefreshAutoRecharges)
}

// Submit implements flow.Backend.
func (s *Service) Submit(ctx context.Context, d flow.Draft) (*flow.Submission, error) {
	switch d.Kind {
	case flow.KindDeposit, flow.KindWithdraw:
		typ := models.TransactionDeposit
		if d.Kind == flow.KindWithdraw {
			typ = models.TransactionWithdrawal
		}
		txn, err := s.CreateTransaction(ctx, models.CreateTransactionInput{
			Type:           typ,
			Amount:         d.Amount,
			RecipientPhone: d.Phone,
			RecipientName:  d.RecipientName,
			Network:        d.Network,
			Objet:          d.Objet,
		})
		if err != nil {
			return nil, err
		}
		return &flow.Submission{UID: txn.UID, Reference: txn.Reference, Status: string(txn.Status)}, nil

	case flow.KindRecharge:
		r, err := s.CreateRecharge(ctx, models.CreateRechargeInput{
			Amount:           d.Amount,
			ProofDescription: d.ProofDescription,
			TransactionDate:  d.TransactionDate,
			ProofImage:       bytes.NewReader(d.ProofImage),
			ProofImageName:   d.ProofImageName,
		})
		if err != nil {
			return nil, err
		}
		return &flow.Submission{UID: r.UID, Reference: r.Reference, Status: string(r.Status)}, nil

	case flow.KindAutoRecharge:
		res, err := s.InitiateAutoRecharge(ctx, models.InitiateAutoRechargeInput{
			Network:     d.Network,
			Amount:      d.Amount,
			PhoneNumber: d.Phone,
		})
		if err != nil {
			return nil, err
		}
		sub := &flow.Submission{
			UID:         res.Transaction.UID,
			Reference:   res.Transaction.Reference,
			Status:      string(res.Transaction.Status),
			PaymentLink: firstNonEmpty(res.PaymentLink, res.Transaction.PaymentLink),
			USSDCode:    firstNonEmpty(res.USSDCode, res.Transaction.USSDCode),
		}
		return sub, nil

	case flow.KindBettingDeposit:
		bt, err := s.CreateBettingDeposit(ctx, models.BettingDepositInput{
			Platform:      d.Platform,
			BettingUserID: d.BettingUserID,
			Amount:        d.Amount,
		})
		if err != nil {
			return nil, err
		}
		return &flow.Submission{UID: bt.UID, Reference: bt.Reference, Status: string(bt.Status)}, nil

	case flow.KindBettingWithdrawal:
		bt, err := s.CreateBettingWithdrawal(ctx, models.BettingWithdrawalInput{
			Platform:       d.Platform,
			BettingUserID:  d.BettingUserID,
			WithdrawalCode: d.WithdrawalCode,
		})
		if err != nil {
			return nil, err
		}
		return &flow.Submission{UID: bt.UID, Reference: bt.Reference, Status: string(bt.Status)}, nil

	case flow.KindTransfer:
		tr, err := s.CreateTransfer(ctx, models.CreateTransferInput{
			Receiver:    d.Receiver,
			Amount:      d.Amount,
			Description: d.Description,
		})
		if err != nil {
			return nil, err
		}
		return &flow.Submission{UID: tr.UID, Reference: tr.Reference, Status: string(tr.Status)}, nil
	}
	return nil, errors.Errorf("unsupported operation %q", d.Kind)
}

// VerifyBettingUser implements flow.UserVerifier.
func (s *Service) VerifyBettingUser(ctx context.Context, platform, userID string) (*models.VerifyUserIDResponse, error) {
	return s.api.Betting.VerifyUserID(ctx, models.VerifyUserIDInput{Platform: platform, BettingUserID: userID})
}

// SettlementStatus reads the server status of a submitted operation once.
func (s *Service) SettlementStatus(ctx context.Context, kind flow.Kind, uid string) (flow.Status, error) {
	switch kind {
	case flow.KindDeposit, flow.KindWithdraw:
		txn, err := s.api.Transactions.Get(ctx, uid)
		if err != nil {
			return flow.Status{}, err
		}
		return flow.Status{
			Value:     string(txn.Status),
			Terminal:  txn.Status.Terminal(),
			Succeeded: txn.Status == models.TransactionSuccess,
		}, nil
	case flow.KindAutoRecharge:
		st, err := s.api.AutoRecharge.Status(ctx, uid)
		if err != nil {
			return flow.Status{}, err
		}
		return flow.Status{
			Value:     string(st.Status),
			Terminal:  st.Status.Terminal(),
			Succeeded: st.Status == models.AutoRechargeSuccess,
		}, nil
	}
	return flow.Status{}, ErrSettlementUnsupported
}

// LimitsFor returns the amount bounds known for the selected network or platform.
func (s *Service) LimitsFor(kind flow.Kind, network, platform string) flow.Limits {
	snap := s.Snapshot()
	switch kind {
	case flow.KindDeposit, flow.KindWithdraw:
		for _, n := range snap.Networks {
			if n.UID == network {
				return flow.Limits{Min: n.MinAmount, Max: n.MaxAmount}
			}
		}
	case flow.KindAutoRecharge:
		for _, n := range snap.AutoRechargeNetworks {
			if n.UID == network || n.Network.UID == network {
				return flow.Limits{Min: n.MinAmount, Max: n.MaxAmount}
			}
		}
	case flow.KindBettingDeposit:
		for _, p := range snap.Platforms {
			if p.UID == platform {
				return flow.Limits{Min: p.MinDepositAmount, Max: p.MaxDepositAmount}
			}
		}
	}
	return flow.Limits{}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
