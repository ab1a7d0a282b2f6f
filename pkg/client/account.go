package client

import (
	"context"

	"betwallet_client/models"
)

const (
	accountPath       = "/api/payments/user/account/"
	accountLedgerPath = "/api/payments/user/account/transactions/"
)

type AccountClient struct{ authed }

func (c *AccountClient) Get(ctx context.Context) (*models.AccountSnapshot, error) {
	var out models.AccountSnapshot
	if err := c.do(ctx, Request{Path: accountPath}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ledger fetches one page of account movements, classified into LedgerEntry.
func (c *AccountClient) Ledger(ctx context.Context, p models.PageParams) (*models.Page[models.LedgerEntry], error) {
	var raw models.Page[models.LedgerRecord]
	if err := c.do(ctx, Request{Path: accountLedgerPath, Query: p.Query()}, &raw); err != nil {
		return nil, err
	}
	page := models.ClassifyLedgerPage(raw)
	return &page, nil
}
