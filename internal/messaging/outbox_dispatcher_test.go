package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/bookcheckout/internal/messaging"
	"github.com/nikolayk812/bookcheckout/internal/metrics"
	"github.com/nikolayk812/bookcheckout/internal/port"
	"github.com/nikolayk812/bookcheckout/internal/repository"
	"github.com/nikolayk812/bookcheckout/internal/testpg"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type published struct {
	routingKey string
	payload    []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []published
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, published{routingKey: routingKey, payload: payload})
	return nil
}

func (f *fakePublisher) Close() error {
	return nil
}

type outboxDispatcherSuite struct {
	suite.Suite

	pg  *testpg.Postgres
	uow port.UnitOfWork
}

// entry point to run the tests in the suite
func TestOutboxDispatcherSuite(t *testing.T) {
	suite.Run(t, new(outboxDispatcherSuite))
}

// before all tests in the suite
func (suite *outboxDispatcherSuite) SetupSuite() {
	var err error

	suite.pg, err = testpg.Start(suite.T().Context())
	suite.Require().NoError(err)

	suite.uow = repository.NewUnitOfWork(suite.pg.Pool)
}

// after all tests in the suite
func (suite *outboxDispatcherSuite) TearDownSuite() {
	suite.NoError(suite.pg.Terminate(suite.T().Context()))
}

// before each test
func (suite *outboxDispatcherSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate(suite.T().Context()))
}

func (suite *outboxDispatcherSuite) TestDispatchOnceSendsPending() {
	t := suite.T()
	ctx := t.Context()

	events := suite.enqueue(3)

	pub := &fakePublisher{}
	m := metrics.New()
	d := suite.dispatcher(pub, 10, m)

	sent, err := d.DispatchOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sent)

	require.Len(t, pub.messages, 3)
	for i, msg := range pub.messages {
		assert.Equal(t, messaging.RoutingKeyOrderCompleted, msg.routingKey)

		var got messaging.OrderCompletedEvent
		require.NoError(t, json.Unmarshal(msg.payload, &got))
		assert.Equal(t, events[i].EventID, got.EventID)
	}

	assert.Equal(t, 3, suite.countStatus("sent"))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.OutboxPublished.WithLabelValues("sent")))

	// nothing left to send
	sent, err = d.DispatchOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, pub.messages, 3)
}

func (suite *outboxDispatcherSuite) TestDispatchOnceRespectsBatchSize() {
	t := suite.T()
	ctx := t.Context()

	suite.enqueue(5)

	pub := &fakePublisher{}
	d := suite.dispatcher(pub, 2, nil)

	sent, err := d.DispatchOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, 3, suite.countStatus("pending"))
}

func (suite *outboxDispatcherSuite) TestDispatchOnceSchedulesRetry() {
	t := suite.T()
	ctx := t.Context()

	suite.enqueue(1)

	pub := &fakePublisher{err: errors.New("connection refused")}
	d := suite.dispatcher(pub, 10, nil)

	sent, err := d.DispatchOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)

	var (
		status    string
		attempts  int
		nextRetry time.Time
	)
	err = suite.pg.Pool.QueryRow(ctx, `SELECT status, attempts, next_retry FROM order_outbox`).Scan(&status, &attempts, &nextRetry)
	require.NoError(t, err)

	assert.Equal(t, "pending", status)
	assert.Equal(t, 1, attempts)
	assert.WithinDuration(t, time.Now().Add(time.Second), nextRetry, 500*time.Millisecond, "first retry after 1s")

	// backoff not elapsed, the row is not claimed again
	pub.err = nil
	sent, err = d.DispatchOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, pub.messages)
}

func (suite *outboxDispatcherSuite) TestRetryBackoffDoubles() {
	t := suite.T()
	ctx := t.Context()

	suite.enqueue(1)

	pub := &fakePublisher{err: errors.New("connection refused")}
	d := suite.dispatcher(pub, 10, nil)

	for attempt, wantDelay := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second} {
		_, err := suite.pg.Pool.Exec(ctx, `UPDATE order_outbox SET next_retry = NOW()`)
		require.NoError(t, err)

		sent, err := d.DispatchOnce(ctx)
		require.NoError(t, err)
		require.Zero(t, sent)

		var (
			attempts  int
			nextRetry time.Time
		)
		err = suite.pg.Pool.QueryRow(ctx, `SELECT attempts, next_retry FROM order_outbox`).Scan(&attempts, &nextRetry)
		require.NoError(t, err)

		assert.Equal(t, attempt+1, attempts)
		assert.WithinDuration(t, time.Now().Add(wantDelay), nextRetry, 500*time.Millisecond, "attempt %d", attempt+1)
	}
}

func (suite *outboxDispatcherSuite) TestConcurrentDispatchersDoNotDoublePublish() {
	t := suite.T()
	ctx := t.Context()

	suite.enqueue(20)

	pub := &fakePublisher{}

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d := suite.dispatcher(pub, 5, nil)
			for range 5 {
				_, _ = d.DispatchOnce(ctx)
			}
		}()
	}
	wg.Wait()

	ids := make(map[string]int)
	for _, msg := range pub.messages {
		var got messaging.OrderCompletedEvent
		require.NoError(t, json.Unmarshal(msg.payload, &got))
		ids[got.EventID]++
	}

	assert.Len(t, ids, 20)
	for id, n := range ids {
		assert.Equal(t, 1, n, "event %s published more than once", id)
	}
}

func (suite *outboxDispatcherSuite) TestRunStopsOnCancel() {
	t := suite.T()

	suite.enqueue(1)

	pub := &fakePublisher{}
	d := suite.dispatcher(pub, 10, nil)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return suite.countStatus("sent") == 1
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func (suite *outboxDispatcherSuite) dispatcher(pub port.Publisher, batch int, m *metrics.Metrics) *messaging.OutboxDispatcher {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return messaging.NewOutboxDispatcher(suite.pg.Pool, pub, 10*time.Millisecond, batch, logger, m)
}

// enqueue writes n events in order, the outbox does not reference orders so no fixtures are needed.
func (suite *outboxDispatcherSuite) enqueue(n int) []messaging.OrderCompletedEvent {
	ctx := suite.T().Context()

	events := make([]messaging.OrderCompletedEvent, 0, n)
	for range n {
		eventID := uuid.New()
		event := messaging.OrderCompletedEvent{
			EventID:     eventID.String(),
			OrderID:     uuid.NewString(),
			UserID:      1,
			Total:       "9.99",
			Currency:    "USD",
			CompletedAt: time.Now().UTC(),
		}

		payload, err := json.Marshal(event)
		suite.Require().NoError(err)

		err = suite.uow.Do(ctx, func(ctx context.Context, stores port.Stores) error {
			return stores.Outbox().Enqueue(ctx, eventID, messaging.RoutingKeyOrderCompleted, payload)
		})
		suite.Require().NoError(err)

		events = append(events, event)
	}

	return events
}

func (suite *outboxDispatcherSuite) countStatus(status string) int {
	var n int
	err := suite.pg.Pool.QueryRow(suite.T().Context(), `SELECT COUNT(*) FROM order_outbox WHERE status = $1`, status).Scan(&n)
	suite.Require().NoError(err)
	return n
}
