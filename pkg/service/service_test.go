package service

import (
	"context"
	"io"
	"net/http"
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
	"betwallet_client/pkg/auth"
	"betwallet_client/pkg/client"
	"betwallet_client/pkg/clock"
	"betwallet_client/pkg/flow"
	"betwallet_client/pkg/repository"
)

const (
	accountPath      = "/api/payments/user/account/"
	transactionsPath = "/api/payments/user/transactions/"
	rechargesPath    = "/api/payments/user/recharges/"
	networksPath     = "/api/payments/networks/"
)

type env struct {
	backend *testbackend.Backend
	auth    *auth.Manager
	svc     *Service
	clock   *clock.Fake
}

func newEnv(t *testing.T) *env {
	t.Helper()
	b := testbackend.New()
	t.Cleanup(b.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)
	clk := clock.NewFake(time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC))
	tr := client.NewTransport(client.Config{BaseURL: b.URL, Timeout: 2 * time.Second}, log)
	mgr := auth.NewManager(tr, repository.NewMemoryStore(), clk, auth.Options{}, log)
	api := client.NewAPIWithTransport(tr, mgr)
	return &env{backend: b, auth: mgr, svc: NewService(api, mgr, clk, log), clock: clk}
}

func (e *env) login(t *testing.T) {
	t.Helper()
	_, err := e.auth.Login(context.Background(), "user@example.com", testbackend.Password)
	require.NoError(t, err)
}

// requestsSince returns the "METHOD path" entries recorded after the first n.
func (e *env) requestsSince(n int) []string {
	return e.backend.Order()[n:]
}

func TestLoginScenario(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	assert.Equal(t, "access-1", e.auth.AccessToken())
	assert.True(t, e.auth.IsAuthenticated())

	report, err := e.svc.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.True(t, report.OK())
	snap := e.svc.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "ibrahim@example.com", snap.User.Email)
	require.NotNil(t, snap.Account)
	assert.Len(t, snap.Networks, 2)
	assert.Len(t, snap.Transactions.Results, 1)
	assert.Len(t, snap.Recharges.Results, 1)
}

func TestBootstrapWithoutSession(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.Bootstrap(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Zero(t, e.backend.TotalHits())
}

func TestBootstrapWithRejectedToken(t *testing.T) {
	e := newEnv(t)
	e.auth.SetTokens(context.Background(), "stale", "refresh-1")

	_, err := e.svc.Bootstrap(context.Background())
	assert.Equal(t, apierror.KindAuthExpired, apierror.KindOf(err))
	assert.False(t, e.auth.IsAuthenticated())
	assert.Zero(t, e.backend.Hits(http.MethodGet, accountPath))
}

func TestRefreshAllToleratesPartialFailure(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	e.backend.Reply(http.MethodGet, networksPath, http.StatusInternalServerError, gin.H{"detail": "Service unavailable."})

	report := e.svc.RefreshAll(context.Background())
	assert.False(t, report.OK())
	assert.Equal(t, []string{SectionNetworks}, report.Sections())
	assert.Equal(t, "Service unavailable.", report.Failed[SectionNetworks])

	snap := e.svc.Snapshot()
	assert.NotNil(t, snap.User)
	assert.NotNil(t, snap.Account)
	assert.NotNil(t, snap.Transactions)
	assert.NotNil(t, snap.Recharges)
	assert.Nil(t, snap.Networks)
}

func TestCreateTransactionRefreshesHistoryThenAccount(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	before := e.backend.TotalHits()

	txn, err := e.svc.CreateTransaction(context.Background(), models.CreateTransactionInput{
		Type: models.TransactionDeposit, Amount: decimal.NewFromInt(1500), RecipientPhone: "+22670000001", Network: "net-orange",
	})
	require.NoError(t, err)
	assert.Equal(t, "txn-new", txn.UID)

	assert.Equal(t, []string{
		"POST " + transactionsPath,
		"GET " + transactionsPath,
		"GET " + accountPath,
	}, e.requestsSince(before))
	assert.NotNil(t, e.svc.Snapshot().Account)
}

func TestFailedWriteSkipsRefresh(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	e.backend.Reply(http.MethodPost, transactionsPath, http.StatusBadRequest, gin.H{"amount": []string{"Insufficient balance."}})

	_, err := e.svc.CreateTransaction(context.Background(), models.CreateTransactionInput{Amount: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.Equal(t, "amount: Insufficient balance.", apierror.Message(err))
	assert.Zero(t, e.backend.Hits(http.MethodGet, transactionsPath))
	assert.Zero(t, e.backend.Hits(http.MethodGet, accountPath))
}

func TestRefreshErrorDoesNotHideWrite(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	e.backend.Reply(http.MethodGet, accountPath, http.StatusBadGateway, "<html>bad gateway</html>")

	txn, err := e.svc.CreateTransaction(context.Background(), models.CreateTransactionInput{Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.NotNil(t, txn)
	assert.Equal(t, 1, e.backend.Hits(http.MethodGet, accountPath))
	assert.Equal(t, 1, e.backend.Hits(http.MethodGet, transactionsPath))
}

func TestSubmitRoutesEachKind(t *testing.T) {
	const betting = "/api/payments/betting/user/"
	verified := &models.VerifyUserIDResponse{UserID: 1}
	tests := []struct {
		kind    flow.Kind
		draft   flow.Draft
		write   string
		history string
	}{
		{flow.KindDeposit, flow.Draft{Amount: decimal.NewFromInt(1000), Network: "net-orange", Phone: "+22670000001"},
			"POST " + transactionsPath, "GET " + transactionsPath},
		{flow.KindWithdraw, flow.Draft{Amount: decimal.NewFromInt(1000), Network: "net-orange", Phone: "+22670000001"},
			"POST " + transactionsPath, "GET " + transactionsPath},
		{flow.KindRecharge, flow.Draft{Amount: decimal.NewFromInt(1000), ProofImage: []byte("img"), ProofImageName: "p.jpg"},
			"POST " + rechargesPath, "GET " + rechargesPath},
		{flow.KindAutoRecharge, flow.Draft{Amount: decimal.NewFromInt(1000), Network: "net-orange", Phone: "+22670000001"},
			"POST /api/payments/user/auto-recharge/initiate/", "GET /api/payments/user/auto-recharge/transactions/"},
		{flow.KindBettingDeposit, flow.Draft{Amount: decimal.NewFromInt(1000), Platform: "plt-1xbet", BettingUserID: "12345678", BettingUser: verified},
			"POST " + betting + "transactions/create_deposit/", "GET " + betting + "transactions/my_transactions/"},
		{flow.KindBettingWithdrawal, flow.Draft{Platform: "plt-1xbet", BettingUserID: "12345678", WithdrawalCode: "AB12", BettingUser: verified},
			"POST " + betting + "transactions/create_withdrawal/", "GET " + betting + "transactions/my_transactions/"},
		{flow.KindTransfer, flow.Draft{Amount: decimal.NewFromInt(1000), Receiver: "usr-2"},
			"POST " + betting + "transfers/", "GET " + betting + "transfers/"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			e := newEnv(t)
			e.login(t)
			before := e.backend.TotalHits()

			d := tt.draft
			d.Kind = tt.kind
			sub, err := e.svc.Submit(context.Background(), d)
			require.NoError(t, err)
			assert.NotEmpty(t, sub.UID)
			assert.Equal(t, []string{tt.write, tt.history, "GET " + accountPath}, e.requestsSince(before))
		})
	}
}

func TestRechargeScenario(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	registry := flow.NewRegistry()
	navigated := make(chan flow.Receipt, 1)
	f := flow.New(flow.KindRecharge, e.svc, flow.Options{
		Clock: e.clock,
		OnNavigate: func(r flow.Receipt) {
			registry.Remove(r.FlowID)
			navigated <- r
		},
	})
	registry.Add(f)

	_, err := f.Prepare(flow.Form{Amount: "20000", ProofDescription: "Bank deposit", ProofImage: []byte("jpeg"), ProofImageName: "proof.jpg"})
	require.NoError(t, err)
	before := e.backend.TotalHits()

	receipt, err := f.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rch-new", receipt.UID)
	assert.Equal(t, flow.OutcomeSubmitted, receipt.Outcome)
	assert.Equal(t, []string{"POST " + rechargesPath, "GET " + rechargesPath, "GET " + accountPath}, e.requestsSince(before))
	assert.Empty(t, navigated)

	e.clock.Advance(flow.DefaultNavigateDelay)
	select {
	case r := <-navigated:
		assert.Equal(t, f.ID(), r.FlowID)
	case <-time.After(time.Second):
		t.Fatal("navigation did not fire")
	}
	assert.Zero(t, registry.Len())
}

func TestDepositBelowNetworkMinimumNeverPosts(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	e.backend.Reply(http.MethodGet, networksPath, http.StatusOK, []gin.H{
		{"uid": "net-orange", "nom": "Orange Money", "is_active": true, "min_amount": "1000", "max_amount": "500000"},
	})
	require.NoError(t, e.svc.RefreshNetworks(context.Background()))

	f := flow.New(flow.KindDeposit, e.svc, flow.Options{Clock: e.clock})
	f.SetLimits(e.svc.LimitsFor(flow.KindDeposit, "net-orange", ""))

	_, err := f.Prepare(flow.Form{Amount: "500", Network: "net-orange", Phone: "+22670000001"})
	require.Error(t, err)
	assert.Equal(t, "amount: The minimum amount is 1000.", apierror.Message(err))
	_, err = f.Confirm(context.Background())
	assert.ErrorIs(t, err, flow.ErrNotConfirming)
	assert.Zero(t, e.backend.Hits(http.MethodPost, transactionsPath))
}

func TestLimitsFor(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()
	require.NoError(t, e.svc.RefreshPlatforms(ctx))
	require.NoError(t, e.svc.RefreshAutoRechargeNetworks(ctx))
	require.NoError(t, e.svc.RefreshNetworks(ctx))

	l := e.svc.LimitsFor(flow.KindBettingDeposit, "", "plt-1xbet")
	assert.True(t, l.Min.Decimal.Equal(decimal.NewFromInt(200)))
	assert.True(t, l.Max.Decimal.Equal(decimal.NewFromInt(500000)))

	l = e.svc.LimitsFor(flow.KindAutoRecharge, "net-orange", "")
	assert.True(t, l.Min.Valid)

	l = e.svc.LimitsFor(flow.KindDeposit, "net-moov", "")
	assert.False(t, l.Min.Valid)
	assert.False(t, l.Max.Valid)

	assert.Equal(t, flow.Limits{}, e.svc.LimitsFor(flow.KindTransfer, "", ""))
}

func TestSettlementStatus(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	e.backend.Reply(http.MethodGet, transactionsPath+"txn-1/", http.StatusOK, gin.H{"uid": "txn-1", "status": "success"})
	ctx := context.Background()

	st, err := e.svc.SettlementStatus(ctx, flow.KindDeposit, "txn-1")
	require.NoError(t, err)
	assert.Equal(t, flow.Status{Value: "success", Terminal: true, Succeeded: true}, st)

	_, err = e.svc.SettlementStatus(ctx, flow.KindRecharge, "rch-1")
	assert.ErrorIs(t, err, ErrSettlementUnsupported)
}

func TestLogoutClearsAggregate(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	e.svc.RefreshAll(context.Background())
	require.NotNil(t, e.svc.Snapshot().Account)

	e.auth.Logout(context.Background())
	assert.Equal(t, Snapshot{}, e.svc.Snapshot())
}

func TestVerifyBettingUser(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	res, err := e.svc.VerifyBettingUser(context.Background(), "plt-1xbet", "00000000")
	require.NoError(t, err)
	assert.False(t, res.Valid())
}
