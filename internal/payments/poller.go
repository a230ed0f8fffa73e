// Package payments confirms hosted-checkout payments by polling the backend
// for the provider-side session state after the customer returns.
package payments

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/kmoo25z/ameriduka/internal/api"
	"github.com/kmoo25z/ameriduka/pkg/logger"
)

// State is the terminal outcome of one confirmation run.
type State string

const (
	StatePolling   State = "polling"
	StateConfirmed State = "confirmed"
	StateExhausted State = "exhausted"
)

const (
	defaultMaxAttempts  = 5
	defaultPollInterval = 2 * time.Second

	paidStatus = "paid"
)

// ErrAlreadyPolling reports that a confirmation run for the same session is
// in flight; the caller should wait for that one instead of starting another.
var ErrAlreadyPolling = errors.New("payment confirmation already in progress for this session")

var errCheckerRequired = errors.New("status checker is required")

// StatusChecker is the slice of the API surface the poller needs.
type StatusChecker interface {
	CheckoutStatus(ctx context.Context, sessionID string) (*api.CheckoutStatus, error)
}

// Result summarizes one confirmation run.
type Result struct {
	State    State
	Attempts int
	Status   *api.CheckoutStatus
	CheckErr error
}

// Confirmed reports whether the provider marked the session paid.
func (r *Result) Confirmed() bool {
	return r != nil && r.State == StateConfirmed
}

// PollerParams wires a Poller. Interval and MaxAttempts default when zero.
type PollerParams struct {
	Checker     StatusChecker
	Logger      *logger.Logger
	Interval    time.Duration
	MaxAttempts int
}

// Poller checks a payment session a bounded number of times, sequentially,
// with a fixed delay between attempts. One run per session id at a time.
type Poller struct {
	checker     StatusChecker
	logg        *logger.Logger
	interval    time.Duration
	maxAttempts int

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewPoller(params PollerParams) (*Poller, error) {
	if params.Checker == nil {
		return nil, errCheckerRequired
	}

	interval := params.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	maxAttempts := params.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &Poller{
		checker:     params.Checker,
		logg:        params.Logger,
		interval:    interval,
		maxAttempts: maxAttempts,
		inFlight:    make(map[string]struct{}),
	}, nil
}

// Confirm polls the session until the provider reports it paid or attempts
// run out. Check failures do not stop the run; they are collected and
// reported alongside the outcome. A second Confirm for the same session id
// while one is running returns ErrAlreadyPolling.
func (p *Poller) Confirm(ctx context.Context, sessionID string) (*Result, error) {
	if sessionID == "" {
		return nil, errors.New("payment session ID is required")
	}

	p.mu.Lock()
	if _, running := p.inFlight[sessionID]; running {
		p.mu.Unlock()
		return nil, ErrAlreadyPolling
	}
	p.inFlight[sessionID] = struct{}{}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.inFlight, sessionID)
		p.mu.Unlock()
	}()

	result := &Result{State: StatePolling}
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		result.Attempts = attempt

		status, err := p.checker.CheckoutStatus(ctx, sessionID)
		if err != nil {
			result.CheckErr = multierr.Append(result.CheckErr,
				fmt.Errorf("attempt %d: %w", attempt, err))
			if p.logg != nil {
				p.logg.Warn(p.logg.WithPaymentSession(ctx, sessionID),
					fmt.Sprintf("payment status check %d/%d failed", attempt, p.maxAttempts))
			}
		} else {
			result.Status = status
			if status.PaymentStatus == paidStatus {
				result.State = StateConfirmed
				if p.logg != nil {
					p.logg.Info(p.logg.WithPaymentSession(ctx, sessionID), "payment confirmed")
				}
				return result, nil
			}
		}

		if attempt == p.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			result.State = StateExhausted
			return result, ctx.Err()
		case <-time.After(p.interval):
		}
	}

	result.State = StateExhausted
	if p.logg != nil {
		p.logg.Warn(p.logg.WithPaymentSession(ctx, sessionID),
			"payment not confirmed after final attempt")
	}
	return result, nil
}
