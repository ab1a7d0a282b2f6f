package client

import (
	"context"
	"net/http"
	"net/url"

	"betwallet_client/models"
)

const (
	transactionsPath = "/api/payments/user/transactions/"
	networksPath     = "/api/payments/networks/"
)

type TransactionClient struct{ authed }

func (c *TransactionClient) List(ctx context.Context, f models.TransactionFilter) (*models.Page[models.Transaction], error) {
	var out models.Page[models.Transaction]
	if err := c.do(ctx, Request{Path: transactionsPath, Query: f.Query()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TransactionClient) Get(ctx context.Context, uid string) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.do(ctx, Request{Path: transactionsPath + url.PathEscape(uid) + "/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TransactionClient) Create(ctx context.Context, in models.CreateTransactionInput) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.do(ctx, Request{Method: http.MethodPost, Path: transactionsPath, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type NetworkClient struct{ authed }

func (c *NetworkClient) List(ctx context.Context) ([]models.Network, error) {
	var out models.List[models.Network]
	if err := c.do(ctx, Request{Path: networksPath}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
