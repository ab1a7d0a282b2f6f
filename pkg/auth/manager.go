package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"betwallet_client/models"
	"betwallet_client/pkg/apierror"
	"betwallet_client/pkg/client"
	"betwallet_client/pkg/clock"
	"betwallet_client/pkg/repository"
)

const (
	loginPath   = "/api/auth/login/"
	refreshPath = "/api/auth/token/refresh/"
	profilePath = "/api/auth/profile/"

	DefaultRefreshInterval = 55 * time.Minute
	DefaultExpiryLead      = 5 * time.Minute

	minRefreshDelay = 30 * time.Second
)

// ErrNoSession is the cause attached to calls made without an access token.
var ErrNoSession = errors.New("no active session")

type State string

const (
	Unauthenticated State = "unauthenticated"
	Authenticating  State = "authenticating"
	Authenticated   State = "authenticated"
)

type Options struct {
	RefreshInterval time.Duration
	ExpiryLead      time.Duration
}

// Manager owns the token pair, its persistence and the proactive refresh timer.
type Manager struct {
	t     *client.Transport
	store repository.Store
	clock clock.Clock
	opts  Options
	log   logrus.FieldLogger

	mu         sync.RWMutex
	access     string
	refresh    string
	state      State
	sessionGen uint64
	timer      clock.Timer
	timerGen   uint64
	listeners  []func()

	// persistMu orders token writes against Logout's delete.
	persistMu sync.Mutex

	sf singleflight.Group
}

func NewManager(t *client.Transport, store repository.Store, clk clock.Clock, opts Options, log logrus.FieldLogger) *Manager {
	if clk == nil {
		clk = clock.Real()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.ExpiryLead <= 0 {
		opts.ExpiryLead = DefaultExpiryLead
	}
	return &Manager{
		t:     t,
		store: store,
		clock: clk,
		opts:  opts,
		log:   log.WithField("component", "auth"),
		state: Unauthenticated,
	}
}

// Login exchanges credentials for a token pair and starts the refresh timer.
func (m *Manager) Login(ctx context.Context, identifier, password string) (*models.LoginResponse, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apierror.Validation("Please enter your email or phone number and password.")
	}

	gen := m.beginSession(Authenticating)
	var resp models.LoginResponse
	err := m.t.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   loginPath,
		Body:   models.LoginInput{Identifier: identifier, Password: password},
	}, &resp)
	if err != nil {
		m.setState(Unauthenticated)
		var apiErr *apierror.Error
		if errors.As(err, &apiErr) && apiErr.Status != 0 {
			return nil, apierror.AuthFailed(apiErr.Status, apiErr.Body)
		}
		return nil, err
	}
	if resp.Access == "" || resp.Refresh == "" {
		m.setState(Unauthenticated)
		return nil, apierror.AuthFailed(http.StatusOK, nil)
	}

	if !m.install(ctx, gen, resp.Access, resp.Refresh) {
		return nil, apierror.AuthExpired(ErrNoSession)
	}
	m.log.WithField("user", resp.User.UID).Info("logged in")
	return &resp, nil
}

// RefreshAccessToken rotates the token pair. Concurrent callers share one request.
// Any failure ends the session and returns an auth_expired error.
func (m *Manager) RefreshAccessToken(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	_, err, _ := m.sf.Do("refresh", func() (interface{}, error) {
		return nil, m.doRefresh(ctx)
	})
	return err
}

// doRefresh drops its result when the session it started from has ended or been
// replaced in the meantime.
func (m *Manager) doRefresh(ctx context.Context) error {
	m.mu.RLock()
	refresh, gen := m.refresh, m.sessionGen
	m.mu.RUnlock()
	if refresh == "" {
		m.Logout(ctx)
		return apierror.AuthExpired(ErrNoSession)
	}

	var pair models.TokenPair
	err := m.t.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   refreshPath,
		Body:   models.RefreshInput{Refresh: refresh},
	}, &pair)
	if err == nil && pair.Access == "" {
		err = errors.New("refresh response carried no access token")
	}
	if err != nil {
		if m.currentSession(gen) {
			m.log.Warnf("token refresh failed, logging out: %v", err)
			m.logout(ctx, gen)
		}
		return apierror.AuthExpired(err)
	}
	if pair.Refresh == "" {
		pair.Refresh = refresh
	}
	if !m.install(ctx, gen, pair.Access, pair.Refresh) {
		m.log.Debug("session ended during refresh, dropping new tokens")
		return apierror.AuthExpired(ErrNoSession)
	}
	m.log.Debug("token refreshed")
	return nil
}

// ValidateToken reports whether the backend still accepts the access token.
func (m *Manager) ValidateToken(ctx context.Context) bool {
	headers, err := m.AuthHeaders()
	if err != nil {
		return false
	}
	var u models.User
	if err := m.t.Do(ctx, client.Request{Path: profilePath, Headers: headers}, &u); err != nil {
		m.log.Debugf("token validation failed: %v", err)
		return false
	}
	return true
}

// Logout clears the session in memory and in storage and notifies listeners.
// A refresh still in flight is discarded when it returns.
func (m *Manager) Logout(ctx context.Context) {
	m.logout(ctx, 0)
}

// logout ends the session. A non-zero gen limits it to that session, so a stale
// refresh failure cannot end a newer one.
func (m *Manager) logout(ctx context.Context, gen uint64) {
	m.persistMu.Lock()
	m.mu.Lock()
	if gen != 0 && gen != m.sessionGen {
		m.mu.Unlock()
		m.persistMu.Unlock()
		return
	}
	m.access, m.refresh = "", ""
	m.state = Unauthenticated
	m.sessionGen++
	m.stopTimerLocked()
	listeners := append([]func(){}, m.listeners...)
	m.mu.Unlock()

	if err := m.store.Delete(ctx, repository.KeyAccessToken, repository.KeyRefreshToken); err != nil {
		m.log.Warnf("clear stored tokens: %v", err)
	}
	m.persistMu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// SetTokens installs a pair obtained elsewhere. An empty member logs out.
func (m *Manager) SetTokens(ctx context.Context, access, refresh string) {
	if access == "" || refresh == "" {
		m.Logout(ctx)
		return
	}
	m.install(ctx, m.beginSession(Authenticated), access, refresh)
}

// Restore reloads the pair from storage and re-arms the timer. It reports false
// when storage holds no complete session.
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	access, err := m.store.Get(ctx, repository.KeyAccessToken)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return false, errors.Wrap(err, "load access token")
	}
	refresh, err := m.store.Get(ctx, repository.KeyRefreshToken)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return false, errors.Wrap(err, "load refresh token")
	}
	if access == "" || refresh == "" {
		m.mu.Lock()
		m.access, m.refresh = "", ""
		m.state = Unauthenticated
		m.sessionGen++
		m.stopTimerLocked()
		m.mu.Unlock()
		return false, nil
	}

	m.mu.Lock()
	m.access, m.refresh = access, refresh
	m.state = Authenticated
	m.sessionGen++
	m.armLocked()
	m.mu.Unlock()
	return true, nil
}

func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access
}

func (m *Manager) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refresh
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access != "" && m.refresh != ""
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// AuthHeaders implements client.Credentials.
func (m *Manager) AuthHeaders() (map[string]string, error) {
	access := m.AccessToken()
	if access == "" {
		return nil, apierror.AuthExpired(ErrNoSession)
	}
	return map[string]string{"Authorization": "Bearer " + access}, nil
}

// OnLogout registers fn to run after every logout, including forced ones.
func (m *Manager) OnLogout(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// RememberCredentials persists the login form values. Callers only invoke it when
// the user opted in.
func (m *Manager) RememberCredentials(ctx context.Context, creds models.RememberedCredentials) error {
	raw, err := json.Marshal(creds)
	if err != nil {
		return errors.Wrap(err, "encode credentials")
	}
	return m.store.Set(ctx, repository.KeyRememberedCredentials, string(raw))
}

func (m *Manager) RememberedCredentials(ctx context.Context) (*models.RememberedCredentials, error) {
	raw, err := m.store.Get(ctx, repository.KeyRememberedCredentials)
	if err != nil {
		return nil, err
	}
	var creds models.RememberedCredentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, errors.Wrap(err, "decode remembered credentials")
	}
	return &creds, nil
}

func (m *Manager) ForgetCredentials(ctx context.Context) error {
	return m.store.Delete(ctx, repository.KeyRememberedCredentials)
}

// beginSession starts a new session generation. Results of refreshes issued
// under an older generation are dropped.
func (m *Manager) beginSession(s State) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionGen++
	m.state = s
	return m.sessionGen
}

func (m *Manager) currentSession(gen uint64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return gen == m.sessionGen
}

// install stores the pair for session gen and re-arms the timer. It reports false,
// changing nothing, when gen is no longer the current session.
func (m *Manager) install(ctx context.Context, gen uint64, access, refresh string) bool {
	m.persistMu.Lock()
	defer m.persistMu.Unlock()

	m.mu.Lock()
	if gen != m.sessionGen {
		m.mu.Unlock()
		return false
	}
	m.access, m.refresh = access, refresh
	m.state = Authenticated
	m.armLocked()
	m.mu.Unlock()

	if err := m.store.Set(ctx, repository.KeyAccessToken, access); err != nil {
		m.log.Warnf("persist access token: %v", err)
	}
	if err := m.store.Set(ctx, repository.KeyRefreshToken, refresh); err != nil {
		m.log.Warnf("persist refresh token: %v", err)
	}
	return true
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

// NextRefreshIn is the delay the timer would use for the current access token.
func (m *Manager) NextRefreshIn() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshDelayLocked()
}

// Stop cancels the refresh timer and keeps the session, so a restart can Restore it.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
}

func (m *Manager) refreshDelayLocked() time.Duration {
	d := m.opts.RefreshInterval
	if exp, ok := tokenExpiry(m.access); ok {
		if untilLead := exp.Add(-m.opts.ExpiryLead).Sub(m.clock.Now()); untilLead < d {
			d = untilLead
		}
	}
	if d < minRefreshDelay {
		d = minRefreshDelay
	}
	return d
}

func (m *Manager) armLocked() {
	m.stopTimerLocked()
	gen := m.timerGen
	m.timer = m.clock.AfterFunc(m.refreshDelayLocked(), func() { m.onTimer(gen) })
}

func (m *Manager) stopTimerLocked() {
	m.timerGen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Manager) onTimer(gen uint64) {
	m.mu.RLock()
	current := gen == m.timerGen
	m.mu.RUnlock()
	if !current {
		return
	}
	if err := m.RefreshAccessToken(context.Background()); err != nil {
		m.log.Warnf("scheduled refresh: %v", err)
	}
}

// tokenExpiry reads the exp claim without verifying the signature.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
