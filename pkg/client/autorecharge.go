package client

import (
	"context"
	"net/http"
	"net/url"

	"betwallet_client/models"
)

const autoRechargeBase = "/api/payments/user/auto-recharge/"

type AutoRechargeClient struct{ authed }

func (c *AutoRechargeClient) AvailableNetworks(ctx context.Context) ([]models.AutoRechargeNetwork, error) {
	var out models.List[models.AutoRechargeNetwork]
	if err := c.do(ctx, Request{Path: autoRechargeBase + "available-networks/"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AutoRechargeClient) Transactions(ctx context.Context, f models.AutoRechargeFilter) (*models.Page[models.AutoRechargeTransaction], error) {
	var out models.Page[models.AutoRechargeTransaction]
	if err := c.do(ctx, Request{Path: autoRechargeBase + "transactions/", Query: f.Query()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AutoRechargeClient) Transaction(ctx context.Context, uid string) (*models.AutoRechargeTransaction, error) {
	var out models.AutoRechargeTransaction
	if err := c.do(ctx, Request{Path: autoRechargeBase + "transactions/" + url.PathEscape(uid) + "/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AutoRechargeClient) Status(ctx context.Context, uid string) (*models.AutoRechargeStatusResponse, error) {
	var out models.AutoRechargeStatusResponse
	if err := c.do(ctx, Request{Path: autoRechargeBase + "transactions/" + url.PathEscape(uid) + "/status/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AutoRechargeClient) Initiate(ctx context.Context, in models.InitiateAutoRechargeInput) (*models.InitiateAutoRechargeResponse, error) {
	var out models.InitiateAutoRechargeResponse
	if err := c.do(ctx, Request{Method: http.MethodPost, Path: autoRechargeBase + "initiate/", Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
