package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betwallet_client/internal/testbackend"
	"betwallet_client/models"
	"betwallet_client/pkg/apierror"
)

type tokenCreds string

func (t tokenCreds) AuthHeaders() (map[string]string, error) {
	return map[string]string{"Authorization": "Bearer " + string(t)}, nil
}

type failingCreds struct{}

func (failingCreds) AuthHeaders() (map[string]string, error) {
	return nil, apierror.AuthExpired(errors.New("no session"))
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestAPI(t *testing.T, timeout time.Duration) (*API, *testbackend.Backend) {
	t.Helper()
	b := testbackend.New()
	t.Cleanup(b.Close)
	api := NewAPI(Config{BaseURL: b.URL + "/", Timeout: timeout}, tokenCreds(testbackend.InitialToken), quietLogger())
	return api, b
}

func TestAccountGetSendsBearer(t *testing.T) {
	api, b := newTestAPI(t, time.Second)

	acc, err := api.Account.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.RequireFromString("125000")))
	assert.Equal(t, "XOF", acc.Currency)

	rec, ok := b.Last(http.MethodGet, "/api/payments/user/account/")
	require.True(t, ok)
	assert.Equal(t, "Bearer access-1", rec.Authorization)
	assert.Equal(t, 1, b.TotalHits())
}

func TestAccountLedgerIsClassified(t *testing.T) {
	api, b := newTestAPI(t, time.Second)

	page, err := api.Account.Ledger(context.Background(), models.PageParams{Page: 2, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, page.Results, 3)
	assert.Equal(t, models.LedgerTransfer, page.Results[0].Kind)
	require.NotNil(t, page.Results[0].Transfer)
	assert.Equal(t, "Awa Traore", page.Results[0].Transfer.Receiver.FullName)
	assert.Equal(t, models.LedgerBetting, page.Results[1].Kind)
	assert.Equal(t, models.LedgerAccount, page.Results[2].Kind)

	rec, _ := b.Last(http.MethodGet, "/api/payments/user/account/transactions/")
	assert.Equal(t, map[string]string{"page": "2", "page_size": "20"}, rec.Query)
}

func TestLookupListsAcceptArrayAndEnvelope(t *testing.T) {
	api, _ := newTestAPI(t, time.Second)
	ctx := context.Background()

	networks, err := api.Networks.List(ctx)
	require.NoError(t, err)
	require.Len(t, networks, 2)
	assert.Equal(t, "Orange Money", networks[0].Name)
	assert.True(t, networks[0].MinAmount.Valid)
	assert.False(t, networks[1].MaxAmount.Valid)

	platforms, err := api.Betting.PlatformsWithStats(ctx)
	require.NoError(t, err)
	require.Len(t, platforms, 1)
	assert.Equal(t, "1xBet", platforms[0].Name)
}

func TestTransactionCreatePostsJSON(t *testing.T) {
	api, b := newTestAPI(t, time.Second)

	txn, err := api.Transactions.Create(context.Background(), models.CreateTransactionInput{
		Type:           models.TransactionDeposit,
		Amount:         decimal.NewFromInt(5000),
		RecipientPhone: "+22670000009",
		Network:        "net-orange",
	})
	require.NoError(t, err)
	assert.Equal(t, "txn-new", txn.UID)
	assert.Equal(t, models.TransactionPending, txn.Status)

	rec, ok := b.Last(http.MethodPost, "/api/payments/user/transactions/")
	require.True(t, ok)
	assert.Equal(t, "application/json", rec.ContentType)
	var sent map[string]any
	require.NoError(t, json.Unmarshal(rec.Body, &sent))
	assert.Equal(t, "5000", sent["amount"])
	assert.Equal(t, "deposit", sent["type"])
	assert.Equal(t, 1, b.Hits(http.MethodPost, "/api/payments/user/transactions/"))
}

func TestTransactionDetailEscapesUID(t *testing.T) {
	api, b := newTestAPI(t, time.Second)
	b.Reply(http.MethodGet, "/api/payments/user/transactions/txn-9/", http.StatusOK, gin.H{"uid": "txn-9", "status": "processing"})

	txn, err := api.Transactions.Get(context.Background(), "txn-9")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionProcessing, txn.Status)
}

func TestBackendErrorsAreNormalized(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		kind    apierror.Kind
		message string
	}{
		{
			name:    "field errors",
			status:  http.StatusBadRequest,
			body:    gin.H{"amount": []string{"Ensure this value is greater than 0."}},
			kind:    apierror.KindValidation,
			message: "amount: Ensure this value is greater than 0.",
		},
		{
			name:    "detail",
			status:  http.StatusForbidden,
			body:    gin.H{"detail": "Account frozen."},
			kind:    apierror.KindHTTP,
			message: "Account frozen.",
		},
		{
			name:    "html gateway page",
			status:  http.StatusBadGateway,
			body:    "<html><body>Bad Gateway</body></html>",
			kind:    apierror.KindHTTP,
			message: apierror.FallbackMessage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, b := newTestAPI(t, time.Second)
			b.Reply(http.MethodPost, "/api/payments/user/transactions/", tt.status, tt.body)

			_, err := api.Transactions.Create(context.Background(), models.CreateTransactionInput{Amount: decimal.NewFromInt(1)})
			require.Error(t, err)
			var apiErr *apierror.Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestUndecodableBody(t *testing.T) {
	api, b := newTestAPI(t, time.Second)
	b.Reply(http.MethodGet, "/api/payments/user/account/", http.StatusOK, "not json")

	_, err := api.Account.Get(context.Background())
	assert.Equal(t, apierror.KindDecode, apierror.KindOf(err))
}

func TestRechargeCreateIsMultipart(t *testing.T) {
	api, b := newTestAPI(t, time.Second)

	r, err := api.Recharges.Create(context.Background(), models.CreateRechargeInput{
		Amount:           decimal.NewFromInt(20000),
		ProofDescription: "Bank deposit",
		TransactionDate:  time.Date(2026, 1, 2, 9, 30, 0, 0, time.UTC),
		ProofImage:       strings.NewReader("fake-jpeg-bytes"),
		ProofImageName:   "receipt.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "rch-new", r.UID)
	assert.True(t, r.Amount.Equal(decimal.NewFromInt(20000)))
	assert.Equal(t, "Bank deposit", r.ProofDescription)

	rec, ok := b.Last(http.MethodPost, "/api/payments/user/recharges/")
	require.True(t, ok)
	assert.Equal(t, "multipart/form-data", rec.ContentType)
	assert.Contains(t, string(rec.Body), `name="transaction_date"`)
	assert.Contains(t, string(rec.Body), "2026-01-02T09:30:00Z")
	assert.Contains(t, string(rec.Body), `filename="receipt.jpg"`)
}

func TestRechargeCreateRequiresProof(t *testing.T) {
	api, b := newTestAPI(t, time.Second)

	_, err := api.Recharges.Create(context.Background(), models.CreateRechargeInput{Amount: decimal.NewFromInt(1)})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	assert.Zero(t, b.TotalHits())
}

func TestBettingVerifyUserID(t *testing.T) {
	api, _ := newTestAPI(t, time.Second)
	ctx := context.Background()

	res, err := api.Betting.VerifyUserID(ctx, models.VerifyUserIDInput{Platform: "plt-1xbet", BettingUserID: "12345678"})
	require.NoError(t, err)
	assert.True(t, res.Valid())
	assert.Equal(t, "Moussa K.", res.Name)

	res, err = api.Betting.VerifyUserID(ctx, models.VerifyUserIDInput{Platform: "plt-1xbet", BettingUserID: "00000000"})
	require.NoError(t, err)
	assert.False(t, res.Valid())
}

func TestCommissionEndpoints(t *testing.T) {
	api, _ := newTestAPI(t, time.Second)
	ctx := context.Background()

	stats, err := api.Commissions.MyStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalTransactions)

	unpaid, err := api.Commissions.Unpaid(ctx)
	require.NoError(t, err)
	assert.True(t, unpaid.TotalUnpaid.Equal(decimal.RequireFromString("50")))

	rates, err := api.Commissions.CurrentRates(ctx)
	require.NoError(t, err)
	assert.True(t, rates.DepositRate.Equal(decimal.RequireFromString("2")))

	history, err := api.Commissions.PaymentHistory(ctx, models.PageParams{})
	require.NoError(t, err)
	assert.Empty(t, history.Results)
}

func TestSearchUsersSkipsShortQueries(t *testing.T) {
	api, b := newTestAPI(t, time.Second)
	ctx := context.Background()

	users, err := api.Transfers.SearchUsers(ctx, " a ")
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Zero(t, b.TotalHits())

	users, err = api.Transfers.SearchUsers(ctx, "awa")
	require.NoError(t, err)
	require.Len(t, users, 1)
	rec, _ := b.Last(http.MethodGet, "/api/auth/users/search/")
	assert.Equal(t, "awa", rec.Query["search"])
}

func TestAutoRechargeInitiateAndStatus(t *testing.T) {
	api, b := newTestAPI(t, time.Second)
	ctx := context.Background()
	b.Reply(http.MethodGet, "/api/payments/user/auto-recharge/transactions/ar-new/status/", http.StatusOK,
		gin.H{"uid": "ar-new", "status": "success"})

	res, err := api.AutoRecharge.Initiate(ctx, models.InitiateAutoRechargeInput{
		Network: "net-orange", Amount: decimal.NewFromInt(1000), PhoneNumber: "+22670000001",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AutoRechargeInitiated, res.Transaction.Status)

	st, err := api.AutoRecharge.Status(ctx, res.Transaction.UID)
	require.NoError(t, err)
	assert.True(t, st.Status.Terminal())
}

func TestPublicPasswordCallsOmitBearer(t *testing.T) {
	api, b := newTestAPI(t, time.Second)

	msg, err := api.Profile.SendOTP(context.Background(), models.SendOTPInput{Email: "ibrahim@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "OTP sent to your email.", msg.Message)

	rec, _ := b.Last(http.MethodPost, "/auth/send_otp")
	assert.Empty(t, rec.Authorization)
}

func TestProfileUpdateUsesPatch(t *testing.T) {
	api, b := newTestAPI(t, time.Second)

	u, err := api.Profile.Update(context.Background(), models.UpdateProfileInput{FirstName: "Ibra"})
	require.NoError(t, err)
	assert.Equal(t, "Ibra", u.FirstName)
	assert.Equal(t, 1, b.Hits(http.MethodPatch, "/api/auth/profile/"))
}

func TestCredentialErrorSkipsRequest(t *testing.T) {
	b := testbackend.New()
	defer b.Close()
	api := NewAPI(Config{BaseURL: b.URL}, failingCreds{}, quietLogger())

	_, err := api.Account.Get(context.Background())
	assert.Equal(t, apierror.KindAuthExpired, apierror.KindOf(err))
	assert.Zero(t, b.TotalHits())
}

func TestRequestTimeout(t *testing.T) {
	api, b := newTestAPI(t, 50*time.Millisecond)
	b.Handle(http.MethodGet, "/api/payments/user/account/", func(c *gin.Context) {
		time.Sleep(300 * time.Millisecond)
		c.JSON(http.StatusOK, testbackend.AccountFixture)
	})

	_, err := api.Account.Get(context.Background())
	assert.Equal(t, apierror.KindTimeout, apierror.KindOf(err))
}

func TestRequestCanceled(t *testing.T) {
	api, _ := newTestAPI(t, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.Account.Get(ctx)
	assert.Equal(t, apierror.KindCanceled, apierror.KindOf(err))
}
