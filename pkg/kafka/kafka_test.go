package kafka

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestNewEvent_Fields(t *testing.T) {
	type searchData struct {
		Query string `json:"query"`
		Total int    `json:"total"`
	}

	event, err := NewEvent("catalog.search.performed", "visitor-1", "search", "catalog-service", searchData{Query: "erp", Total: 3})
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, 1, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 2*time.Second)

	var got searchData
	require.NoError(t, event.UnmarshalData(&got))
	assert.Equal(t, "erp", got.Query)
	assert.Equal(t, 3, got.Total)
}

func TestNewEvent_InvalidData(t *testing.T) {
	_, err := NewEvent("x", "a", "b", "c", make(chan int))
	require.Error(t, err)
}

func TestUnmarshalEvent_InvalidJSON(t *testing.T) {
	_, err := UnmarshalEvent([]byte("{not json"))
	require.Error(t, err)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "alternativas.catalog.searches", Topic("catalog", "searches"))
}

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestProducer_Publish_SetsKeyAndHeaders(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, logger: testLogger()}

	event, err := NewEvent("catalog.search.performed", "visitor-1", "search", "catalog-service", map[string]int{"total": 1})
	require.NoError(t, err)
	event.WithCorrelationID("corr-1")

	require.NoError(t, p.Publish(context.Background(), "alternativas.catalog.searches", event))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "visitor-1", string(msg.Key))
	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "catalog.search.performed", headers["event_type"])
	assert.Equal(t, "corr-1", headers["correlation_id"])
}

func TestProducer_Publish_WriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := &Producer{writer: w, logger: testLogger()}
	event, _ := NewEvent("t", "a", "b", "c", nil)

	before := testutil.ToFloat64(producerPublishErrors.WithLabelValues("errs-topic"))
	err := p.Publish(context.Background(), "errs-topic", event)
	require.Error(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(producerPublishErrors.WithLabelValues("errs-topic")))
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	assert.Error(t, PingBrokers(context.Background(), nil))
}

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []kafka.Message
	closed    int
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
	return nil
}

func encoded(t *testing.T, eventType, id string) kafka.Message {
	t.Helper()
	event, err := NewEvent(eventType, id, "product", "catalog-admin", map[string]string{"id": id})
	require.NoError(t, err)
	data, err := event.Marshal()
	require.NoError(t, err)
	return kafka.Message{Topic: "products", Value: data}
}

func TestConsumer_HandlesAndCommitsEachMessage(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{
		encoded(t, "product.updated", "p1"),
		{Topic: "products", Value: []byte("garbage")},
		encoded(t, "product.deleted", "p2"),
	}}

	var mu sync.Mutex
	var seen []string
	ctx, cancel := context.WithCancel(context.Background())
	c := newConsumer(r, "products", "catalog", func(_ context.Context, e *Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e.AggregateID)
		if len(seen) == 2 {
			cancel()
		}
		return nil
	}, testLogger())

	require.NoError(t, c.Start(ctx))

	assert.Equal(t, []string{"p1", "p2"}, seen)
	assert.Len(t, r.committed, 3)
	assert.Equal(t, 1, r.closed)
}

func TestConsumer_RetriesThenSkips(t *testing.T) {
	r := &fakeReader{}
	calls := 0
	c := newConsumer(r, "products", "catalog", func(context.Context, *Event) error {
		calls++
		return errors.New("snapshot busy")
	}, testLogger())
	c.backoff = time.Millisecond

	require.NoError(t, c.process(context.Background(), encoded(t, "product.updated", "p1")))
	assert.Equal(t, maxHandlerRetries, calls)
}

func TestConsumer_CanceledMidRetryLeavesMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := newConsumer(&fakeReader{}, "products", "catalog", func(context.Context, *Event) error {
		cancel()
		return errors.New("fail")
	}, testLogger())

	err := c.process(ctx, encoded(t, "product.updated", "p1"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsumer_CloseIsIdempotent(t *testing.T) {
	r := &fakeReader{}
	c := newConsumer(r, "t", "g", nil, testLogger())
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, 1, r.closed)
}
