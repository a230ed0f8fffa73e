package payments

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmoo25z/ameriduka/internal/api"
	pkgerrors "github.com/kmoo25z/ameriduka/pkg/errors"
)

type scriptedChecker struct {
	mu       sync.Mutex
	statuses []string
	errs     []error
	calls    int
	block    chan struct{}
}

func (c *scriptedChecker) CheckoutStatus(ctx context.Context, sessionID string) (*api.CheckoutStatus, error) {
	if c.block != nil {
		select {
		case <-c.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.calls
	c.calls++

	if idx < len(c.errs) && c.errs[idx] != nil {
		return nil, c.errs[idx]
	}
	status := "unpaid"
	if idx < len(c.statuses) {
		status = c.statuses[idx]
	}
	return &api.CheckoutStatus{Status: "complete", PaymentStatus: status}, nil
}

func (c *scriptedChecker) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func newTestPoller(t *testing.T, checker StatusChecker) *Poller {
	t.Helper()
	poller, err := NewPoller(PollerParams{
		Checker:  checker,
		Interval: time.Millisecond,
	})
	require.NoError(t, err)
	return poller
}

func TestConfirmStopsOnPaid(t *testing.T) {
	t.Parallel()

	checker := &scriptedChecker{statuses: []string{"unpaid", "unpaid", "paid"}}
	poller := newTestPoller(t, checker)

	result, err := poller.Confirm(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.True(t, result.Confirmed())
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 3, checker.callCount())
}

func TestConfirmExhaustsAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	checker := &scriptedChecker{}
	poller := newTestPoller(t, checker)

	result, err := poller.Confirm(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.Equal(t, StateExhausted, result.State)
	assert.Equal(t, 5, result.Attempts)
	assert.Equal(t, 5, checker.callCount())
	assert.NoError(t, result.CheckErr)
}

func TestConfirmCollectsCheckFailures(t *testing.T) {
	t.Parallel()

	checker := &scriptedChecker{
		errs:     []error{pkgerrors.New(pkgerrors.CodeDependency, "upstream down"), nil},
		statuses: []string{"", "paid"},
	}
	poller := newTestPoller(t, checker)

	result, err := poller.Confirm(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.True(t, result.Confirmed())
	require.Error(t, result.CheckErr)
	assert.Contains(t, result.CheckErr.Error(), "attempt 1")
}

func TestConfirmRejectsConcurrentRunsForSameSession(t *testing.T) {
	t.Parallel()

	checker := &scriptedChecker{block: make(chan struct{})}
	poller := newTestPoller(t, checker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = poller.Confirm(ctx, "cs_1")
	}()

	require.Eventually(t, func() bool {
		_, err := poller.Confirm(context.Background(), "cs_1")
		return err == ErrAlreadyPolling
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	// A finished run releases the slot for the next confirmation.
	checker.block = nil
	checker.mu.Lock()
	checker.statuses = []string{"paid"}
	checker.calls = 0
	checker.mu.Unlock()
	result, err := poller.Confirm(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.True(t, result.Confirmed())
}

func TestConfirmDifferentSessionsRunIndependently(t *testing.T) {
	t.Parallel()

	poller := newTestPoller(t, &scriptedChecker{statuses: []string{"paid"}})
	result, err := poller.Confirm(context.Background(), "cs_a")
	require.NoError(t, err)
	assert.True(t, result.Confirmed())

	poller2 := newTestPoller(t, &scriptedChecker{statuses: []string{"paid"}})
	result2, err := poller2.Confirm(context.Background(), "cs_b")
	require.NoError(t, err)
	assert.True(t, result2.Confirmed())
}

func TestConfirmHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	checker := &scriptedChecker{}
	poller, err := NewPoller(PollerParams{Checker: checker, Interval: time.Minute})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	result, err := poller.Confirm(ctx, "cs_1")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateExhausted, result.State)
	assert.Equal(t, 1, result.Attempts)
}

func TestConfirmRequiresSessionID(t *testing.T) {
	t.Parallel()

	poller := newTestPoller(t, &scriptedChecker{})
	_, err := poller.Confirm(context.Background(), "")
	require.Error(t, err)
}
