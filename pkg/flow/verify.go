package flow

import (
	"context"
	"strings"
	"sync"

	"betwallet_client/models"
	"betwallet_client/pkg/apierror"
)

// ErrInvalidAccount is returned when the platform reports UserId 0.
var ErrInvalidAccount = apierror.Validation("betting_user_id: No betting account matches this ID.")

// UserVerifier resolves an external betting account.
type UserVerifier interface {
	VerifyBettingUser(ctx context.Context, platform, userID string) (*models.VerifyUserIDResponse, error)
}

// Verifier holds the result of the betting-account check for one flow.
type Verifier struct {
	src UserVerifier

	mu       sync.Mutex
	verified *Verification
}

func NewVerifier(src UserVerifier) *Verifier {
	return &Verifier{src: src}
}

// Verify clears any earlier result before asking the platform.
func (v *Verifier) Verify(ctx context.Context, platform, userID string) (*models.VerifyUserIDResponse, error) {
	v.Reset()

	platform, userID = strings.TrimSpace(platform), strings.TrimSpace(userID)
	val := validator{}
	val.required("platform", platform)
	val.id("betting_user_id", userID)
	if err := val.err(); err != nil {
		return nil, err
	}

	res, err := v.src.VerifyBettingUser(ctx, platform, userID)
	if err != nil {
		return nil, err
	}
	if !res.Valid() {
		return nil, ErrInvalidAccount
	}

	v.mu.Lock()
	v.verified = &Verification{Platform: platform, UserID: userID, User: *res}
	v.mu.Unlock()
	return res, nil
}

func (v *Verifier) Verified() *Verification {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.verified == nil {
		return nil
	}
	out := *v.verified
	return &out
}

func (v *Verifier) Reset() {
	v.mu.Lock()
	v.verified = nil
	v.mu.Unlock()
}
