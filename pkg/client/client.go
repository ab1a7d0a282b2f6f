package client

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Credentials supplies the Authorization header for authenticated calls.
type Credentials interface {
	AuthHeaders() (map[string]string, error)
}

type authed struct {
	t     *Transport
	creds Credentials
}

func (a authed) do(ctx context.Context, req Request, out any) error {
	headers, err := a.creds.AuthHeaders()
	if err != nil {
		return err
	}
	if req.Headers == nil {
		req.Headers = make(map[string]string, len(headers))
	}
	for k, v := range headers {
		req.Headers[k] = v
	}
	return a.t.Do(ctx, req, out)
}

// API groups every resource client behind one value.
type API struct {
	Transport    *Transport
	Account      *AccountClient
	Transactions *TransactionClient
	Networks     *NetworkClient
	Recharges    *RechargeClient
	Betting      *BettingClient
	Commissions  *CommissionClient
	Transfers    *TransferClient
	AutoRecharge *AutoRechargeClient
	Profile      *ProfileClient
}

func NewAPI(cfg Config, creds Credentials, log logrus.FieldLogger) *API {
	return NewAPIWithTransport(NewTransport(cfg, log), creds)
}

func NewAPIWithTransport(t *Transport, creds Credentials) *API {
	a := authed{t: t, creds: creds}
	return &API{
		Transport:    t,
		Account:      &AccountClient{a},
		Transactions: &TransactionClient{a},
		Networks:     &NetworkClient{a},
		Recharges:    &RechargeClient{a},
		Betting:      &BettingClient{a},
		Commissions:  &CommissionClient{a},
		Transfers:    &TransferClient{a},
		AutoRecharge: &AutoRechargeClient{a},
		Profile:      &ProfileClient{authed: a, public: t},
	}
}
