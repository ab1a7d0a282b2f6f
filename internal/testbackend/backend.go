// Package testbackend runs an in-process fake of the wallet backend for tests.
package testbackend

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	Password       = "secret"
	InitialToken   = "access-1"
	InitialRefresh = "refresh-1"
)

// Recorded is one request as the backend saw it.
type Recorded struct {
	Method        string
	Path          string
	Query         map[string]string
	Authorization string
	ContentType   string
	Body          []byte
}

type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]gin.HandlerFunc
	public   map[string]bool
	hits     map[string]int
	requests []Recorded
	access   string
	refresh  string
	rotation int
}

// New starts a backend with the default fixtures installed. Callers Close it.
func New() *Backend {
	gin.SetMode(gin.TestMode)
	b := &Backend{
		routes:  map[string]gin.HandlerFunc{},
		public:  map[string]bool{},
		hits:    map[string]int{},
		access:  InitialToken,
		refresh: InitialRefresh,
	}
	router := gin.New()
	router.NoRoute(b.dispatch)
	b.Server = httptest.NewServer(router)
	b.installDefaults()
	return b
}

func key(method, path string) string { return method + " " + path }

// Handle replaces the handler for method and path.
func (b *Backend) Handle(method, path string, h gin.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[key(method, path)] = h
}

// Reply installs a handler that always answers status with body.
func (b *Backend) Reply(method, path string, status int, body any) {
	b.Handle(method, path, func(c *gin.Context) {
		if s, ok := body.(string); ok {
			c.String(status, s)
			return
		}
		c.JSON(status, body)
	})
}

// Public marks a route as not requiring a bearer token.
func (b *Backend) Public(method, path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.public[key(method, path)] = true
}

func (b *Backend) Hits(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[key(method, path)]
}

func (b *Backend) TotalHits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, v := range b.hits {
		n += v
	}
	return n
}

func (b *Backend) Requests() []Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Recorded(nil), b.requests...)
}

// Last returns the most recent request to method and path.
func (b *Backend) Last(method, path string) (Recorded, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		if r := b.requests[i]; r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Recorded{}, false
}

// Order lists "METHOD path" for every recorded request.
func (b *Backend) Order() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.requests))
	for _, r := range b.requests {
		out = append(out, key(r.Method, r.Path))
	}
	return out
}

// SetTokens changes the pair the backend currently accepts.
func (b *Backend) SetTokens(access, refresh string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.access, b.refresh = access, refresh
}

func (b *Backend) Tokens() (string, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.access, b.refresh
}

func (b *Backend) dispatch(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	k := key(c.Request.Method, c.Request.URL.Path)
	query := map[string]string{}
	for name, vals := range c.Request.URL.Query() {
		if len(vals) > 0 {
			query[name] = vals[0]
		}
	}

	b.mu.Lock()
	b.hits[k]++
	b.requests = append(b.requests, Recorded{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Query:         query,
		Authorization: c.GetHeader("Authorization"),
		ContentType:   c.ContentType(),
		Body:          body,
	})
	h, ok := b.routes[k]
	public := b.public[k]
	access := b.access
	b.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	if !public && c.GetHeader("Authorization") != "Bearer "+access {
		c.JSON(http.StatusUnauthorized, gin.H{
			"detail": "Given token not valid for any token type",
			"code":   "token_not_valid",
		})
		return
	}
	h(c)
}

func (b *Backend) rotate() (string, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rotation++
	b.access = fmt.Sprintf("access-%d", b.rotation+1)
	b.refresh = fmt.Sprintf("refresh-%d", b.rotation+1)
	return b.access, b.refresh
}

func (b *Backend) installDefaults() {
	for _, p := range []string{"/api/auth/login/", "/api/auth/token/refresh/", "/auth/send_otp", "/auth/reset_password"} {
		b.public[key(http.MethodPost, p)] = true
	}

	b.routes[key(http.MethodPost, "/api/auth/login/")] = func(c *gin.Context) {
		var in struct {
			Identifier string `json:"email_or_phone"`
			Password   string `json:"password"`
		}
		if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Identifier) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"email_or_phone": []string{"This field is required."}})
			return
		}
		if in.Password != Password {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "No active account found with the given credentials"})
			return
		}
		access, refresh := b.Tokens()
		c.JSON(http.StatusOK, gin.H{"access": access, "refresh": refresh, "user": UserFixture})
	}
	b.routes[key(http.MethodPost, "/api/auth/token/refresh/")] = func(c *gin.Context) {
		var in struct {
			Refresh string `json:"refresh"`
		}
		_ = c.ShouldBindJSON(&in)
		if _, current := b.Tokens(); in.Refresh == "" || in.Refresh != current {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or expired", "code": "token_not_valid"})
			return
		}
		access, refresh := b.rotate()
		c.JSON(http.StatusOK, gin.H{"access": access, "refresh": refresh})
	}

	b.routes[key(http.MethodGet, "/api/auth/profile/")] = func(c *gin.Context) { c.JSON(http.StatusOK, UserFixture) }
	b.routes[key(http.MethodPatch, "/api/auth/profile/")] = func(c *gin.Context) {
		var in map[string]any
		_ = c.ShouldBindJSON(&in)
		out := gin.H{}
		for k, v := range UserFixture {
			out[k] = v
		}
		for k, v := range in {
			out[k] = v
		}
		c.JSON(http.StatusOK, out)
	}
	b.routes[key(http.MethodPost, "/auth/update-password")] = ok("Password updated successfully.")
	b.routes[key(http.MethodPost, "/auth/send_otp")] = ok("OTP sent to your email.")
	b.routes[key(http.MethodPost, "/auth/reset_password")] = ok("Password reset successfully.")
	b.routes[key(http.MethodGet, "/api/auth/users/search/")] = func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"uid": "usr-2", "full_name": "Awa Traore", "phone": "+22670000002"}})
	}

	b.routes[key(http.MethodGet, "/api/payments/user/account/")] = func(c *gin.Context) { c.JSON(http.StatusOK, AccountFixture) }
	b.routes[key(http.MethodGet, "/api/payments/user/account/transactions/")] = func(c *gin.Context) {
		c.JSON(http.StatusOK, page(LedgerFixture))
	}
	b.routes[key(http.MethodGet, "/api/payments/user/transactions/")] = func(c *gin.Context) {
		c.JSON(http.StatusOK, page([]gin.H{TransactionFixture}))
	}
	b.routes[key(http.MethodPost, "/api/payments/user/transactions/")] = func(c *gin.Context) {
		var in map[string]any
		_ = c.ShouldBindJSON(&in)
		out := gin.H{"uid": "txn-new", "reference": "TXN-NEW", "status": "pending", "fees": "0", "created_at": "2026-01-02T10:00:00Z"}
		for k, v := range in {
			out[k] = v
		}
		c.JSON(http.StatusCreated, out)
	}
	b.routes[key(http.MethodGet, "/api/payments/networks/")] = func(c *gin.Context) { c.JSON(http.StatusOK, NetworksFixture) }
	b.routes[key(http.MethodGet, "/api/payments/user/recharges/")] = func(c *gin.Context) {
		c.JSON(http.StatusOK, page([]gin.H{RechargeFixture}))
	}
	b.routes[key(http.MethodPost, "/api/payments/user/recharges/")] = func(c *gin.Context) {
		if _, err := c.FormFile("proof_image"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"proof_image": []string{"No file was submitted."}})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"uid": "rch-new", "reference": "RCH-NEW", "amount": c.PostForm("amount"), "status": "pending",
			"proof_description": c.PostForm("proof_description"), "created_at": "2026-01-02T10:00:00Z",
		})
	}

	const betting = "/api/payments/betting/user/"
	b.routes[key(http.MethodGet, betting+"platforms/")] = func(c *gin.Context) { c.JSON(http.StatusOK, PlatformsFixture) }
	b.routes[key(http.MethodGet, betting+"platforms/platforms_with_stats/")] = func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"count": 1, "next": nil, "previous": nil, "results": PlatformsFixture})
	}
	b.routes[key(http.MethodGet, betting+"transactions/my_transactions/")] = func(c *gin.Context) {
		c.JSON(http.StatusOK, page([]gin.H{}))
	}
	b.routes[key(http.MethodPost, betting+"transactions/create_deposit/")] = bettingCreated("deposit")
	b.routes[key(http.MethodPost, betting+"transactions/create_withdrawal/")] = bettingCreated("withdrawal")
	b.routes[key(http.MethodPost, betting+"transactions/verify_user_id/")] = func(c *gin.Context) {
		var in struct {
			BettingUserID string `json:"betting_user_id"`
		}
		_ = c.ShouldBindJSON(&in)
		if in.BettingUserID == "00000000" {
			c.JSON(http.StatusOK, gin.H{"UserId": 0, "Name": "", "CurrencyId": 0})
			return
		}
		c.JSON(http.StatusOK, gin.H{"UserId": 4242, "Name": "Moussa K.", "CurrencyId": 27})
	}
	b.routes[key(http.MethodGet, betting+"commissions/my_stats/")] = func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"total_transactions": 3, "total_commission": "150.00", "paid_commission": "100.00", "unpaid_commission": "50.00", "by_platform": []gin.H{}})
	}
	b.routes[key(http.MethodGet, betting+"commissions/unpaid_commissions/")] = func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"total_unpaid": "50.00", "transaction_count": 1, "transactions": []gin.H{}})
	}
	b.routes[key(http.MethodGet, betting+"commissions/current_rates/")] = func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"deposit_rate": "2.00", "withdrawal_rate": "1.50"})
	}
	b.routes[key(http.MethodGet, betting+"commissions/payment_history/")] = func(c *gin.Context) {
		c.JSON(http.StatusOK, page([]gin.H{}))
	}
	b.routes[key(http.MethodGet, betting+"transfers/")] = func(c *gin.Context) { c.JSON(http.StatusOK, page([]gin.H{})) }
	b.routes[key(http.MethodPost, betting+"transfers/")] = func(c *gin.Context) {
		var in map[string]any
		_ = c.ShouldBindJSON(&in)
		c.JSON(http.StatusCreated, gin.H{
			"uid": "trf-new", "reference": "TRF-NEW", "amount": in["amount"], "fees": "0", "status": "completed",
			"sender": gin.H{"uid": "usr-1", "full_name": "Ibrahim Ouedraogo"},
			"receiver": gin.H{"uid": in["receiver"], "full_name": "Awa Traore"}, "created_at": "2026-01-02T10:00:00Z",
		})
	}

	const auto = "/api/payments/user/auto-recharge/"
	b.routes[key(http.MethodGet, auto+"available-networks/")] = func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"uid": "arn-1", "network": NetworksFixture[0], "is_active": true, "min_amount": "500", "max_amount": "500000"}})
	}
	b.routes[key(http.MethodGet, auto+"transactions/")] = func(c *gin.Context) { c.JSON(http.StatusOK, page([]gin.H{})) }
	b.routes[key(http.MethodPost, auto+"initiate/")] = func(c *gin.Context) {
		var in map[string]any
		_ = c.ShouldBindJSON(&in)
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"transaction": gin.H{
				"uid": "ar-new", "reference": "AR-NEW", "network": in["network"], "phone_number": in["phone_number"],
				"amount": in["amount"], "fees": "0", "total_amount": in["amount"], "status": "initiated",
				"created_at": "2026-01-02T10:00:00Z",
			},
		})
	}
}

func ok(msg string) gin.HandlerFunc {
	return func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": msg}) }
}

func bettingCreated(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in map[string]any
		_ = c.ShouldBindJSON(&in)
		amount := in["amount"]
		if amount == nil {
			amount = "0"
		}
		c.JSON(http.StatusCreated, gin.H{
			"uid": "bet-new", "reference": "BET-NEW", "transaction_type": kind, "amount": amount,
			"status": "pending", "platform": in["platform_uid"], "betting_user_id": in["betting_user_id"],
			"created_at": "2026-01-02T10:00:00Z",
		})
	}
}

func page[T any](results []T) gin.H {
	return gin.H{"count": len(results), "next": nil, "previous": nil, "results": results}
}
