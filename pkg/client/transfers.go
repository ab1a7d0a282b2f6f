package client

import (
	"context"
	"net/http"
	"strings"

	"betwallet_client/models"
)

const (
	transfersPath   = bettingBase + "transfers/"
	userSearchPath  = "/api/auth/users/search/"
	minSearchLength = 2
)

type TransferClient struct{ authed }

func (c *TransferClient) Create(ctx context.Context, in models.CreateTransferInput) (*models.Transfer, error) {
	var out models.Transfer
	if err := c.do(ctx, Request{Method: http.MethodPost, Path: transfersPath, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TransferClient) List(ctx context.Context, f models.TransferFilter) (*models.Page[models.Transfer], error) {
	var out models.Page[models.Transfer]
	if err := c.do(ctx, Request{Path: transfersPath, Query: f.Query()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchUsers looks up transfer recipients. Queries shorter than two characters
// return an empty result without calling the backend.
func (c *TransferClient) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minSearchLength {
		return []models.UserSummary{}, nil
	}
	var out models.List[models.UserSummary]
	if err := c.do(ctx, Request{Path: userSearchPath, Query: map[string]string{"search": query}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
