package service

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/sourcegraph/conc"

	"betwallet_client/models"
	"betwallet_client/pkg/apierror"
)

// Dashboard sections fetched by RefreshAll.
const (
	SectionUser         = "user"
	SectionAccount      = "account"
	SectionTransactions = "transactions"
	SectionNetworks     = "networks"
	SectionRecharges    = "recharges"
)

// Lookup lists loaded on demand.
const (
	SectionPlatforms            = "platforms"
	SectionAutoRechargeNetworks = "auto_recharge_networks"
)

// RefreshReport lists the sections that failed during a parallel refresh. Failures
// never block the other sections.
type RefreshReport struct {
	Failed map[string]string `json:"failed,omitempty"`
}

func (r *RefreshReport) OK() bool { return len(r.Failed) == 0 }

func (r *RefreshReport) Sections() []string {
	out := make([]string, 0, len(r.Failed))
	for k := range r.Failed {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Bootstrap validates a restored session and loads the dashboard. An invalid token
// logs the session out.
func (s *Service) Bootstrap(ctx context.Context) (*RefreshReport, error) {
	if !s.auth.IsAuthenticated() {
		return nil, ErrNoSession
	}
	if !s.auth.ValidateToken(ctx) {
		s.log.Info("stored session rejected, logging out")
		s.auth.Logout(ctx)
		return nil, apierror.AuthExpired(errors.New("stored token rejected"))
	}
	return s.RefreshAll(ctx), nil
}

// RefreshAll fetches profile, account, transactions, networks and recharges in
// parallel.
func (s *Service) RefreshAll(ctx context.Context) *RefreshReport {
	sections := []struct {
		name string
		fn   func(context.Context) error
	}{
		{SectionUser, s.RefreshUser},
		{SectionAccount, s.RefreshAccountData},
		{SectionTransactions, s.RefreshTransactions},
		{SectionNetworks, s.RefreshNetworks},
		{SectionRecharges, s.RefreshRecharges},
	}

	report := &RefreshReport{Failed: map[string]string{}}
	var mu sync.Mutex
	var wg conc.WaitGroup
	for _, sec := range sections {
		sec := sec
		wg.Go(func() {
			if err := sec.fn(ctx); err != nil {
				s.log.WithField("section", sec.name).Warnf("refresh failed: %v", err)
				mu.Lock()
				report.Failed[sec.name] = apierror.Message(err)
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	return report
}

func (s *Service) RefreshUser(ctx context.Context) error {
	gen := s.generation()
	u, err := s.api.Profile.Get(ctx)
	if err != nil {
		return errors.Wrap(err, "refresh user")
	}
	s.apply(gen, func(snap *Snapshot) { snap.User = u })
	return nil
}

func (s *Service) RefreshAccountData(ctx context.Context) error {
	gen := s.generation()
	acc, err := s.api.Account.Get(ctx)
	if err != nil {
		return errors.Wrap(err, "refresh account")
	}
	s.apply(gen, func(snap *Snapshot) { snap.Account = acc })
	return nil
}

func (s *Service) RefreshLedger(ctx context.Context) error {
	gen := s.generation()
	page, err := s.api.Account.Ledger(ctx, models.PageParams{Page: 1, PageSize: historyPageSize})
	if err != nil {
		return errors.Wrap(err, "refresh ledger")
	}
	s.apply(gen, func(snap *Snapshot) { snap.Ledger = page })
	return nil
}

func (s *Service) RefreshTransactions(ctx context.Context) error {
	gen := s.generation()
	page, err := s.api.Transactions.List(ctx, models.TransactionFilter{PageParams: firstPage()})
	if err != nil {
		return errors.Wrap(err, "refresh transactions")
	}
	s.apply(gen, func(snap *Snapshot) { snap.Transactions = page })
	return nil
}

func (s *Service) RefreshNetworks(ctx context.Context) error {
	gen := s.generation()
	networks, err := s.api.Networks.List(ctx)
	if err != nil {
		return errors.Wrap(err, "refresh networks")
	}
	s.apply(gen, func(snap *Snapshot) { snap.Networks = networks })
	return nil
}

func (s *Service) RefreshRecharges(ctx context.Context) error {
	gen := s.generation()
	page, err := s.api.Recharges.List(ctx, models.RechargeFilter{PageParams: firstPage()})
	if err != nil {
		return errors.Wrap(err, "refresh recharges")
	}
	s.apply(gen, func(snap *Snapshot) { snap.Recharges = page })
	return nil
}

func (s *Service) RefreshPlatforms(ctx context.Context) error {
	gen := s.generation()
	platforms, err := s.api.Betting.Platforms(ctx)
	if err != nil {
		return errors.Wrap(err, "refresh platforms")
	}
	s.apply(gen, func(snap *Snapshot) { snap.Platforms = platforms })
	return nil
}

func (s *Service) RefreshBetting(ctx context.Context) error {
	gen := s.generation()
	page, err := s.api.Betting.Transactions(ctx, models.BettingFilter{PageParams: firstPage()})
	if err != nil {
		return errors.Wrap(err, "refresh betting transactions")
	}
	s.apply(gen, func(snap *Snapshot) { snap.BettingTransactions = page })
	return nil
}

func (s *Service) RefreshCommissions(ctx context.Context) error {
	gen := s.generation()
	stats, err := s.api.Commissions.MyStats(ctx)
	if err != nil {
		return errors.Wrap(err, "refresh commissions")
	}
	s.apply(gen, func(snap *Snapshot) { snap.Commissions = stats })
	return nil
}

func (s *Service) RefreshTransfers(ctx context.Context) error {
	gen := s.generation()
	page, err := s.api.Transfers.List(ctx, models.TransferFilter{PageParams: firstPage()})
	if err != nil {
		return errors.Wrap(err, "refresh transfers")
	}
	s.apply(gen, func(snap *Snapshot) { snap.Transfers = page })
	return nil
}

func (s *Service) RefreshAutoRecharges(ctx context.Context) error {
	gen := s.generation()
	page, err := s.api.AutoRecharge.Transactions(ctx, models.AutoRechargeFilter{PageParams: firstPage()})
	if err != nil {
		return errors.Wrap(err, "refresh auto-recharges")
	}
	s.apply(gen, func(snap *Snapshot) { snap.AutoRecharges = page })
	return nil
}

func (s *Service) RefreshAutoRechargeNetworks(ctx context.Context) error {
	gen := s.generation()
	networks, err := s.api.AutoRecharge.AvailableNetworks(ctx)
	if err != nil {
		return errors.Wrap(err, "refresh auto-recharge networks")
	}
	s.apply(gen, func(snap *Snapshot) { snap.AutoRechargeNetworks = networks })
	return nil
}

func firstPage() models.PageParams {
	return models.PageParams{Page: 1, PageSize: historyPageSize}
}
