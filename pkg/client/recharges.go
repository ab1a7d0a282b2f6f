package client

import (
	"context"
	"net/http"
	"time"

	"betwallet_client/models"
	"betwallet_client/pkg/apierror"
)

const rechargesPath = "/api/payments/user/recharges/"

type RechargeClient struct{ authed }

func (c *RechargeClient) List(ctx context.Context, f models.RechargeFilter) (*models.Page[models.Recharge], error) {
	var out models.Page[models.Recharge]
	if err := c.do(ctx, Request{Path: rechargesPath, Query: f.Query()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create uploads the recharge request as multipart/form-data.
func (c *RechargeClient) Create(ctx context.Context, in models.CreateRechargeInput) (*models.Recharge, error) {
	if in.ProofImage == nil {
		return nil, apierror.Validation("proof_image: A payment proof image is required.")
	}
	name := in.ProofImageName
	if name == "" {
		name = "proof.jpg"
	}
	req := Request{
		Method: http.MethodPost,
		Path:   rechargesPath,
		Form: map[string]string{
			"amount":            in.Amount.String(),
			"proof_description": in.ProofDescription,
			"transaction_date":  in.TransactionDate.UTC().Format(time.RFC3339),
		},
		Files: []File{{Param: "proof_image", Name: name, Reader: in.ProofImage}},
	}
	var out models.Recharge
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
