package flow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"betwallet_client/pkg/apierror"
	"betwallet_client/pkg/clock"
)

type State string

const (
	Editing    State = "editing"
	Confirming State = "confirming"
	Submitting State = "submitting"
	Succeeded  State = "succeeded"
)

// Outcome separates server acceptance from settlement.
type Outcome string

const (
	OutcomeSubmitted Outcome = "submitted"
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
)

const DefaultNavigateDelay = 2500 * time.Millisecond

var (
	ErrNotEditing    = errors.New("flow is not accepting a new form")
	ErrNotConfirming = errors.New("flow has nothing to confirm")
	ErrSubmitting    = errors.New("submission already in flight")
)

// Submission is what the backend returned for an accepted write.
type Submission struct {
	UID         string `json:"uid"`
	Reference   string `json:"reference"`
	Status      string `json:"status"`
	PaymentLink string `json:"payment_link,omitempty"`
	USSDCode    string `json:"ussd_code,omitempty"`
}

// Backend performs the write for a confirmed draft and refreshes whatever it affects.
type Backend interface {
	Submit(ctx context.Context, d Draft) (*Submission, error)
}

type Receipt struct {
	FlowID      string          `json:"flow_id"`
	Kind        Kind            `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Outcome     Outcome         `json:"outcome"`
	SubmittedAt time.Time       `json:"submitted_at"`
	Submission
}

type Options struct {
	Clock         clock.Clock
	NavigateDelay time.Duration
	// OnNavigate runs once, NavigateDelay after a successful confirmation.
	OnNavigate func(Receipt)
	Verifier   UserVerifier
	Log        logrus.FieldLogger
}

// View is a read-only copy of a flow's state.
type View struct {
	ID      string   `json:"id"`
	Kind    Kind     `json:"kind"`
	State   State    `json:"state"`
	Draft   *Draft   `json:"draft,omitempty"`
	Error   string   `json:"error,omitempty"`
	Receipt *Receipt `json:"receipt,omitempty"`
	Limits  Limits   `json:"limits"`
}

// Flow drives one confirm-then-submit interaction.
type Flow struct {
	id         string
	kind       Kind
	backend    Backend
	clock      clock.Clock
	delay      time.Duration
	onNavigate func(Receipt)
	verifier   *Verifier
	log        logrus.FieldLogger

	mu       sync.Mutex
	state    State
	limits   Limits
	draft    *Draft
	lastErr  error
	receipt  *Receipt
	navTimer clock.Timer
}

func New(kind Kind, backend Backend, opts Options) *Flow {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.NavigateDelay <= 0 {
		opts.NavigateDelay = DefaultNavigateDelay
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	f := &Flow{
		id:         uuid.NewString(),
		kind:       kind,
		backend:    backend,
		clock:      opts.Clock,
		delay:      opts.NavigateDelay,
		onNavigate: opts.OnNavigate,
		state:      Editing,
	}
	f.log = opts.Log.WithFields(logrus.Fields{"component": "flow", "kind": kind, "flow": f.id})
	if kind.Betting() && opts.Verifier != nil {
		f.verifier = NewVerifier(opts.Verifier)
	}
	return f
}

func (f *Flow) ID() string { return f.id }

func (f *Flow) Kind() Kind { return f.kind }

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) SetLimits(l Limits) {
	f.mu.Lock()
	f.limits = l
	f.mu.Unlock()
}

// Verify checks the betting account for this flow. Any earlier verification is
// dropped first, so a failed check leaves the flow unverified. A draft awaiting
// confirmation was built on the old result, so it is discarded and the flow goes
// back to Editing.
func (f *Flow) Verify(ctx context.Context, platform, userID string) (*Verification, error) {
	if f.verifier == nil {
		return nil, errors.Errorf("%s does not verify betting accounts", f.kind)
	}

	f.mu.Lock()
	switch f.state {
	case Editing:
	case Confirming:
		f.draft = nil
		f.state = Editing
	default:
		f.mu.Unlock()
		return nil, ErrNotEditing
	}
	f.verifier.Reset()
	f.mu.Unlock()

	if _, err := f.verifier.Verify(ctx, platform, userID); err != nil {
		f.log.Debugf("betting account not verified: %v", err)
		return nil, err
	}
	return f.verifier.Verified(), nil
}

// Prepare validates form and moves Editing to Confirming. On failure the flow stays
// in Editing with the error recorded and nothing is sent.
func (f *Flow) Prepare(form Form) (*Draft, error) {
	var verified *Verification
	if f.verifier != nil {
		verified = f.verifier.Verified()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Editing {
		return nil, ErrNotEditing
	}
	d, err := Validate(f.kind, form, f.limits, verified, f.clock.Now())
	if err != nil {
		f.lastErr = err
		return nil, err
	}
	f.draft, f.lastErr = d, nil
	f.state = Confirming
	out := *d
	return &out, nil
}

// Cancel discards the draft. It is refused while the submission is in flight.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case Confirming:
		f.draft = nil
		f.state = Editing
		return nil
	case Submitting:
		return ErrSubmitting
	default:
		return ErrNotConfirming
	}
}

// Confirm submits the draft. A failure closes the confirmation and returns the
// flow to Editing with the normalized error. Success is acceptance only; the
// receipt says "submitted".
func (f *Flow) Confirm(ctx context.Context) (*Receipt, error) {
	f.mu.Lock()
	switch f.state {
	case Confirming:
	case Submitting:
		f.mu.Unlock()
		return nil, ErrSubmitting
	default:
		f.mu.Unlock()
		return nil, ErrNotConfirming
	}
	f.state = Submitting
	draft := *f.draft
	f.mu.Unlock()

	sub, err := f.backend.Submit(ctx, draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = nil
	if err != nil {
		f.state = Editing
		f.lastErr = err
		f.log.Warnf("submission failed: %s", apierror.Message(err))
		return nil, err
	}

	receipt := Receipt{
		FlowID:      f.id,
		Kind:        f.kind,
		Amount:      draft.Amount,
		Outcome:     OutcomeSubmitted,
		SubmittedAt: f.clock.Now(),
		Submission:  *sub,
	}
	f.state = Succeeded
	f.lastErr = nil
	f.receipt = &receipt
	f.log.WithField("reference", sub.Reference).Info("submitted")
	if f.onNavigate != nil {
		f.navTimer = f.clock.AfterFunc(f.delay, func() { f.onNavigate(receipt) })
	}
	out := receipt
	return &out, nil
}

// Close stops a pending navigation callback.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.navTimer != nil {
		f.navTimer.Stop()
		f.navTimer = nil
	}
}

func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := View{ID: f.id, Kind: f.kind, State: f.state, Limits: f.limits}
	if f.draft != nil {
		d := *f.draft
		v.Draft = &d
	}
	if f.lastErr != nil {
		v.Error = apierror.Message(f.lastErr)
	}
	if f.receipt != nil {
		r := *f.receipt
		v.Receipt = &r
	}
	return v
}
