package suggest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu      sync.Mutex
	results []Result[string]
	ch      chan struct{}
}

func newCollector() *collector {
	return &collector{ch: make(chan struct{}, 16)}
}

func (c *collector) deliver(r Result[string]) {
	c.mu.Lock()
	c.results = append(c.results, r)
	c.mu.Unlock()
	c.ch <- struct{}{}
}

func (c *collector) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func (c *collector) snapshot() []Result[string] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result[string](nil), c.results...)
}

func echo(_ context.Context, q string) string { return "r:" + q }

func TestDebouncer_OnlyLatestQueryRuns(t *testing.T) {
	c := newCollector()
	var mu sync.Mutex
	var fetched []string
	fetch := func(ctx context.Context, q string) string {
		mu.Lock()
		fetched = append(fetched, q)
		mu.Unlock()
		return echo(ctx, q)
	}

	d := NewDebouncer(context.Background(), 30*time.Millisecond, fetch, c.deliver)
	defer d.Close()

	d.Submit("c")
	d.Submit("co")
	seq := d.Submit("con")
	c.wait(t)

	got := c.snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, seq, got[0].Seq)
	assert.Equal(t, "con", got[0].Query)
	assert.Equal(t, "r:con", got[0].Value)

	mu.Lock()
	assert.Equal(t, []string{"con"}, fetched)
	mu.Unlock()
}

func TestDebouncer_SupersededInFlightIsDiscarded(t *testing.T) {
	c := newCollector()
	release := make(chan struct{})
	started := make(chan struct{}, 1)

	fetch := func(ctx context.Context, q string) string {
		if q == "slow" {
			started <- struct{}{}
			<-release
		}
		return q
	}

	d := NewDebouncer(context.Background(), 5*time.Millisecond, fetch, c.deliver)
	defer d.Close()

	staleBefore := testutil.ToFloat64(suggestionsStale)

	d.Submit("slow")
	<-started
	d.Submit("fast")
	c.wait(t)
	close(release)

	// Give the slow fetch time to return and be dropped.
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(suggestionsStale) == staleBefore+1
	}, time.Second, 5*time.Millisecond)

	got := c.snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, "fast", got[0].Query)
}

func TestDebouncer_SupersessionCancelsContext(t *testing.T) {
	canceled := make(chan struct{})
	started := make(chan struct{}, 1)
	fetch := func(ctx context.Context, q string) string {
		if q == "first" {
			started <- struct{}{}
			<-ctx.Done()
			close(canceled)
		}
		return q
	}

	c := newCollector()
	d := NewDebouncer(context.Background(), 5*time.Millisecond, fetch, c.deliver)
	defer d.Close()

	d.Submit("first")
	<-started
	d.Submit("second")

	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("in-flight fetch was not canceled")
	}
	c.wait(t)
	assert.Equal(t, "second", c.snapshot()[0].Query)
}

func TestDebouncer_SequentialQueriesEachDelivered(t *testing.T) {
	c := newCollector()
	d := NewDebouncer(context.Background(), 5*time.Millisecond, echo, c.deliver)
	defer d.Close()

	s1 := d.Submit("erp")
	c.wait(t)
	s2 := d.Submit("crm")
	c.wait(t)

	got := c.snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, s1, got[0].Seq)
	assert.Equal(t, s2, got[1].Seq)
	assert.Less(t, s1, s2)
}

func TestDebouncer_CloseStopsPending(t *testing.T) {
	c := newCollector()
	d := NewDebouncer(context.Background(), 20*time.Millisecond, echo, c.deliver)

	d.Submit("erp")
	d.Close()
	assert.Equal(t, uint64(0), d.Submit("crm"))

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, c.snapshot())
}

func TestNewDebouncer_DefaultDelay(t *testing.T) {
	d := NewDebouncer(context.Background(), 0, echo, func(Result[string]) {})
	assert.Equal(t, DefaultDelay, d.delay)
}
