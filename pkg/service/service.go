package service

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"betwallet_client/models"
	"betwallet_client/pkg/client"
	"betwallet_client/pkg/clock"
)

// ErrNoSession is returned by Bootstrap when there is nothing to restore.
var ErrNoSession = errors.New("no session")

const historyPageSize = 20

// Authorization is the part of the auth manager the aggregator depends on.
type Authorization interface {
	IsAuthenticated() bool
	ValidateToken(ctx context.Context) bool
	Logout(ctx context.Context)
	OnLogout(fn func())
}

// Snapshot is the aggregate state for the logged-in session. Sections are replaced
// wholesale on refresh; nil means "not fetched yet".
type Snapshot struct {
	User                 *models.User                                 `json:"user,omitempty"`
	Account              *models.AccountSnapshot                      `json:"account,omitempty"`
	Ledger               *models.Page[models.LedgerEntry]             `json:"ledger,omitempty"`
	Transactions         *models.Page[models.Transaction]             `json:"transactions,omitempty"`
	Networks             []models.Network                             `json:"networks,omitempty"`
	Recharges            *models.Page[models.Recharge]                `json:"recharges,omitempty"`
	Platforms            []models.BettingPlatform                     `json:"platforms,omitempty"`
	BettingTransactions  *models.Page[models.BettingTransaction]      `json:"betting_transactions,omitempty"`
	Commissions          *models.CommissionStats                      `json:"commissions,omitempty"`
	Transfers            *models.Page[models.Transfer]                `json:"transfers,omitempty"`
	AutoRecharges        *models.Page[models.AutoRechargeTransaction] `json:"auto_recharges,omitempty"`
	AutoRechargeNetworks []models.AutoRechargeNetwork                 `json:"auto_recharge_networks,omitempty"`
	UpdatedAt            time.Time                                    `json:"updated_at"`
}

// Service is the session/state aggregator. It never derives balances or statuses
// locally; every write is followed by a re-read.
type Service struct {
	api   *client.API
	auth  Authorization
	clock clock.Clock
	log   logrus.FieldLogger

	mu   sync.RWMutex
	snap Snapshot
	gen  uint64
}

func NewService(api *client.API, auth Authorization, clk clock.Clock, log logrus.FieldLogger) *Service {
	if clk == nil {
		clk = clock.Real()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Service{
		api:   api,
		auth:  auth,
		clock: clk,
		log:   log.WithField("component", "session"),
	}
	auth.OnLogout(s.clear)
	return s
}

// Snapshot returns a copy of the aggregate.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Service) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// apply stores a fetch result unless the session was cleared since gen was read.
func (s *Service) apply(gen uint64, fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	fn(&s.snap)
	s.snap.UpdatedAt = s.clock.Now()
}

func (s *Service) clear() {
	s.mu.Lock()
	s.snap = Snapshot{}
	s.gen++
	s.mu.Unlock()
	s.log.Debug("session state cleared")
}
