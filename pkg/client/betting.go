package client

import (
	"context"
	"net/http"

	"betwallet_client/models"
)

const (
	bettingBase             = "/api/payments/betting/user/"
	platformsPath           = bettingBase + "platforms/"
	platformsWithStatsPath  = bettingBase + "platforms/platforms_with_stats/"
	bettingTransactionsPath = bettingBase + "transactions/"
	commissionsPath         = bettingBase + "commissions/"
)

type BettingClient struct{ authed }

func (c *BettingClient) Platforms(ctx context.Context) ([]models.BettingPlatform, error) {
	var out models.List[models.BettingPlatform]
	if err := c.do(ctx, Request{Path: platformsPath}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BettingClient) PlatformsWithStats(ctx context.Context) ([]models.PlatformWithStats, error) {
	var out models.List[models.PlatformWithStats]
	if err := c.do(ctx, Request{Path: platformsWithStatsPath}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BettingClient) Transactions(ctx context.Context, f models.BettingFilter) (*models.Page[models.BettingTransaction], error) {
	var out models.Page[models.BettingTransaction]
	if err := c.do(ctx, Request{Path: bettingTransactionsPath + "my_transactions/", Query: f.Query()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BettingClient) CreateDeposit(ctx context.Context, in models.BettingDepositInput) (*models.BettingTransaction, error) {
	return c.create(ctx, "create_deposit/", in)
}

func (c *BettingClient) CreateWithdrawal(ctx context.Context, in models.BettingWithdrawalInput) (*models.BettingTransaction, error) {
	return c.create(ctx, "create_withdrawal/", in)
}

func (c *BettingClient) create(ctx context.Context, action string, body any) (*models.BettingTransaction, error) {
	var out models.BettingTransaction
	req := Request{Method: http.MethodPost, Path: bettingTransactionsPath + action, Body: body}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyUserID asks the platform whether the external betting account exists.
func (c *BettingClient) VerifyUserID(ctx context.Context, in models.VerifyUserIDInput) (*models.VerifyUserIDResponse, error) {
	var out models.VerifyUserIDResponse
	req := Request{Method: http.MethodPost, Path: bettingTransactionsPath + "verify_user_id/", Body: in}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type CommissionClient struct{ authed }

func (c *CommissionClient) MyStats(ctx context.Context) (*models.CommissionStats, error) {
	var out models.CommissionStats
	if err := c.do(ctx, Request{Path: commissionsPath + "my_stats/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CommissionClient) Unpaid(ctx context.Context) (*models.UnpaidCommissions, error) {
	var out models.UnpaidCommissions
	if err := c.do(ctx, Request{Path: commissionsPath + "unpaid_commissions/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CommissionClient) CurrentRates(ctx context.Context) (*models.CommissionRates, error) {
	var out models.CommissionRates
	if err := c.do(ctx, Request{Path: commissionsPath + "current_rates/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CommissionClient) PaymentHistory(ctx context.Context, p models.PageParams) (*models.Page[models.CommissionPayment], error) {
	var out models.Page[models.CommissionPayment]
	if err := c.do(ctx, Request{Path: commissionsPath + "payment_history/", Query: p.Query()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
