package flow

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"betwallet_client/pkg/clock"
)

const DefaultPollInterval = 3 * time.Second

// Status is one observation of a submitted operation's server-side state.
type Status struct {
	Value     string `json:"status"`
	Terminal  bool   `json:"terminal"`
	Succeeded bool   `json:"succeeded"`
}

type Settlement struct {
	Status  string  `json:"status"`
	Outcome Outcome `json:"outcome"`
	Polls   int     `json:"polls"`
}

// PollFunc reads the current status once.
type PollFunc func(ctx context.Context) (Status, error)

// AwaitSettlement polls until the operation reaches a terminal status or ctx ends.
// Poll errors end the wait.
func AwaitSettlement(ctx context.Context, clk clock.Clock, interval time.Duration, poll PollFunc) (*Settlement, error) {
	if clk == nil {
		clk = clock.Real()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	for n := 1; ; n++ {
		st, err := poll(ctx)
		if err != nil {
			return nil, err
		}
		if st.Terminal {
			out := &Settlement{Status: st.Value, Outcome: OutcomeFailed, Polls: n}
			if st.Succeeded {
				out.Outcome = OutcomeCompleted
			}
			return out, nil
		}
		select {
		case <-ctx.Done():
			return &Settlement{Status: st.Value, Outcome: OutcomeSubmitted, Polls: n},
				errors.Wrap(ctx.Err(), "waiting for settlement")
		case <-clk.After(interval):
		}
	}
}
