package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/avast/retry-go/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/vetdao/governance-locks/consumer"
	"github.com/vetdao/governance-locks/internal/config"
	"github.com/vetdao/governance-locks/internal/types"
)

var errNotStarted = errors.New("queue manager is not started")

// QueueManager publishes lock events to a topic exchange, routed by event type
type QueueManager struct {
	cfg    *config.QueueConfig
	logger *zap.Logger

	mu      sync.Mutex
	started bool
	conn    *amqp.Connection
	channel *amqp.Channel
}

var _ consumer.EventPublisher = (*QueueManager)(nil)

func NewQueueManager(cfg *config.QueueConfig, logger *zap.Logger) (*QueueManager, error) {
	if cfg == nil {
		return nil, errors.New("queue config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &QueueManager{
		cfg:    cfg,
		logger: logger.Named("queue-manager"),
	}, nil
}

// Start dials the broker and declares the exchange
func (qm *QueueManager) Start() error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if err := qm.connectLocked(); err != nil {
		return err
	}
	qm.started = true
	return nil
}

func (qm *QueueManager) connectLocked() error {
	conn, err := amqp.Dial(qm.cfg.AmqpURL())
	if err != nil {
		return fmt.Errorf("failed to connect to queue: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open queue channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		qm.cfg.Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", qm.cfg.Exchange, err)
	}

	qm.conn = conn
	qm.channel = ch
	qm.logger.Info("connected to queue", zap.String("exchange", qm.cfg.Exchange))
	return nil
}

func (qm *QueueManager) PushLockEvent(ctx context.Context, ev *types.LockEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal lock event: %w", err)
	}

	return retry.Do(
		func() error {
			return qm.publish(ctx, ev.RoutingKey(), body)
		},
		retry.Context(ctx),
		retry.Attempts(qm.cfg.MaxRetryAttempts),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, errNotStarted)
		}),
		retry.OnRetry(func(n uint, err error) {
			qm.logger.Warn("failed to publish lock event, retrying",
				zap.Uint("attempt", n+1),
				zap.Uint64("lock_id", ev.LockID),
				zap.String("event_type", ev.EventType.String()),
				zap.Error(err),
			)
		}),
	)
}

func (qm *QueueManager) publish(ctx context.Context, routingKey string, body []byte) error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if !qm.started {
		return errNotStarted
	}

	// the broker closes the channel on errors, reconnect lazily
	if qm.channel == nil || qm.channel.IsClosed() {
		if err := qm.closeLocked(); err != nil {
			qm.logger.Warn("failed to close stale queue connection", zap.Error(err))
		}
		if err := qm.connectLocked(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, qm.cfg.PublishTimeout)
	defer cancel()

	return qm.channel.PublishWithContext(ctx,
		qm.cfg.Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Stop gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Stop() error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	qm.logger.Info("shutting down queue manager")

	qm.started = false
	return qm.closeLocked()
}

// closeLocked releases the channel and the connection, already closed ones
// are ignored
func (qm *QueueManager) closeLocked() error {
	var errs []error
	if qm.channel != nil {
		if err := qm.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
		qm.channel = nil
	}
	if qm.conn != nil {
		if err := qm.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
		qm.conn = nil
	}
	return errors.Join(errs...)
}
