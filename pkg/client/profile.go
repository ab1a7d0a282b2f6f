package client

import (
	"context"
	"net/http"

	"betwallet_client/models"
)

const (
	profilePath        = "/api/auth/profile/"
	updatePasswordPath = "/auth/update-password"
	sendOTPPath        = "/auth/send_otp"
	resetPasswordPath  = "/auth/reset_password"
)

// ProfileClient covers the profile and password endpoints. The OTP and reset
// calls are made without credentials.
type ProfileClient struct {
	authed
	public *Transport
}

func (c *ProfileClient) Get(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, Request{Path: profilePath}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ProfileClient) Update(ctx context.Context, in models.UpdateProfileInput) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, Request{Method: http.MethodPatch, Path: profilePath, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ProfileClient) UpdatePassword(ctx context.Context, in models.UpdatePasswordInput) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := c.do(ctx, Request{Method: http.MethodPost, Path: updatePasswordPath, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ProfileClient) SendOTP(ctx context.Context, in models.SendOTPInput) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := c.public.Do(ctx, Request{Method: http.MethodPost, Path: sendOTPPath, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ProfileClient) ResetPassword(ctx context.Context, in models.ResetPasswordInput) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := c.public.Do(ctx, Request{Method: http.MethodPost, Path: resetPasswordPath, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
