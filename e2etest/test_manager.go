//go:build e2e

package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosmossdk.io/math"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vetdao/governance-locks/e2etest/container"
	"github.com/vetdao/governance-locks/internal/api"
	"github.com/vetdao/governance-locks/internal/clock"
	"github.com/vetdao/governance-locks/internal/config"
	"github.com/vetdao/governance-locks/internal/db"
	"github.com/vetdao/governance-locks/internal/db/model"
	"github.com/vetdao/governance-locks/internal/lockengine"
	"github.com/vetdao/governance-locks/internal/queue"
	"github.com/vetdao/governance-locks/internal/services"
	"github.com/vetdao/governance-locks/internal/types"
)

const (
	day = 24 * time.Hour

	eventWaitTimeout = 30 * time.Second
)

var genesis = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

type TestManager struct {
	Config    *config.Config
	Clock     *clock.MockClock
	DbClient  *db.Database
	Publisher *queue.QueueManager
	Service   *services.Service
	Server    *httptest.Server
	Events    <-chan amqp.Delivery

	amqpConn *amqp.Connection
	cancel   context.CancelFunc
}

func testParams() *lockengine.Params {
	return &lockengine.Params{
		WarmupDuration: 7 * day,
		MinDuration:    30 * day,
		MaxDuration:    4 * 365 * day,
		CooldownPeriod: 14 * day,
		Transferable:   true,
		AllowCancel:    true,
		Weight: lockengine.LinearCurve{
			Min:     math.LegacyOneDec(),
			Max:     math.LegacyNewDec(4),
			Horizon: 4 * 365 * day,
		},
		Fee: lockengine.FlatFee{Bps: 100},
	}
}

// StartManager runs mongo and rabbitmq in docker and wires the whole service
// against them. Everything is torn down with the test.
func StartManager(t *testing.T) *TestManager {
	t.Helper()

	manager, err := container.NewManager(t)
	require.NoError(t, err)

	dbCfg := manager.RunMongo(t)
	queueCfg := manager.RunRabbitMQ(t)

	cfg := &config.Config{
		Db:      *dbCfg,
		Storage: config.StorageConfig{Type: config.StorageTypeMongo},
		Poller: config.PollerConfig{
			ExitCheckerPollingInterval: 500 * time.Millisecond,
			ClaimableExitsLimit:        100,
			StatsPollingInterval:       time.Second,
		},
		Queue: queueCfg,
	}

	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, model.Setup(ctx, &cfg.Db))
	dbClient, err := db.New(ctx, cfg.Db)
	require.NoError(t, err)

	publisher, err := queue.NewQueueManager(cfg.Queue, zap.NewNop())
	require.NoError(t, err)
	// declares the exchange the consumer binds to
	require.NoError(t, publisher.Start())

	amqpConn, events := consumeEvents(t, cfg.Queue)

	clk := clock.NewMockClock(genesis)
	svc, err := services.NewService(cfg, testParams(), db.NewDbWithMetrics(dbClient), publisher, clk)
	require.NoError(t, err)
	require.NoError(t, svc.Bootstrap(ctx))
	svc.StartBackgroundTasks(ctx)

	server := httptest.NewServer(api.New(&cfg.Server, svc).Handler())

	tm := &TestManager{
		Config:    cfg,
		Clock:     clk,
		DbClient:  dbClient,
		Publisher: publisher,
		Service:   svc,
		Server:    server,
		Events:    events,
		amqpConn:  amqpConn,
		cancel:    cancel,
	}
	t.Cleanup(tm.Stop)

	return tm
}

// consumeEvents binds an exclusive queue to every routing key of the exchange
func consumeEvents(t *testing.T, cfg *config.QueueConfig) (*amqp.Connection, <-chan amqp.Delivery) {
	t.Helper()

	conn, err := amqp.Dial(cfg.AmqpURL())
	require.NoError(t, err)

	ch, err := conn.Channel()
	require.NoError(t, err)

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, "#", cfg.Exchange, false, nil))

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	return conn, deliveries
}

func (tm *TestManager) Stop() {
	tm.cancel()
	tm.Server.Close()
	_ = tm.Publisher.Stop()
	_ = tm.amqpConn.Close()
	_ = tm.DbClient.Close(context.Background())
}

// Post sends body as json and decodes the data of the response into out
func (tm *TestManager) Post(t *testing.T, path string, body any, out any) int {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(tm.Server.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	return decodeData(t, resp, out)
}

func (tm *TestManager) Get(t *testing.T, path string, out any) int {
	t.Helper()

	resp, err := http.Get(tm.Server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	return decodeData(t, resp, out)
}

func decodeData(t *testing.T, resp *http.Response, out any) int {
	t.Helper()

	if out == nil || resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode
	}
	envelope := struct {
		Data any `json:"data"`
	}{Data: out}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode
}

// WaitForEvent returns the next event published on the exchange
func (tm *TestManager) WaitForEvent(t *testing.T) (*types.LockEvent, string) {
	t.Helper()

	select {
	case d, ok := <-tm.Events:
		require.True(t, ok, "event consumer closed")
		var ev types.LockEvent
		require.NoError(t, json.Unmarshal(d.Body, &ev))
		return &ev, d.RoutingKey
	case <-time.After(eventWaitTimeout):
		require.FailNow(t, "timed out waiting for lock event")
		return nil, ""
	}
}
