package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Source pushes change events from a transport into a Publisher until ctx is done.
type Source interface {
	Run(ctx context.Context, pub Publisher) error
}

// PostgresSource LISTENs on a notify channel fed by row triggers.
type PostgresSource struct {
	pool           *pgxpool.Pool
	channel        string
	reconnectDelay time.Duration
	logger         *zap.Logger
}

// NewPostgresSource creates the source.
func NewPostgresSource(pool *pgxpool.Pool, channel string, reconnectDelay time.Duration, logger *zap.Logger) *PostgresSource {
	return &PostgresSource{pool: pool, channel: channel, reconnectDelay: reconnectDelay, logger: logger}
}

// Run listens until ctx is cancelled, re-listening after connection loss.
// Notifications sent while disconnected are lost.
func (s *PostgresSource) Run(ctx context.Context, pub Publisher) error {
	if s.pool == nil {
		return errors.New("postgres source: no pool configured")
	}
	for {
		err := s.listen(ctx, pub)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("postgres change feed interrupted; reconnecting",
			zap.String("channel", s.channel),
			zap.Duration("delay", s.reconnectDelay),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.reconnectDelay):
		}
	}
}

func (s *PostgresSource) listen(ctx context.Context, pub Publisher) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen conn: %w", err)
	}
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := conn.Exec(cleanupCtx, "UNLISTEN *"); err != nil {
			_ = conn.Conn().Close(cleanupCtx)
		}
		conn.Release()
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{s.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", s.channel, err)
	}
	s.logger.Info("listening for change events", zap.String("channel", s.channel))

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		publishPayload(ctx, pub, []byte(n.Payload), s.logger)
	}
}

// RedisSource receives change events from a Redis pub/sub channel.
type RedisSource struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisSource creates the source.
func NewRedisSource(client *redis.Client, channel string, logger *zap.Logger) *RedisSource {
	return &RedisSource{client: client, channel: channel, logger: logger}
}

// Run subscribes until ctx is cancelled. go-redis reconnects the pub/sub
// connection on its own.
func (s *RedisSource) Run(ctx context.Context, pub Publisher) error {
	ps := s.client.Subscribe(ctx, s.channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.channel, err)
	}
	s.logger.Info("listening for change events", zap.String("redis_channel", s.channel))

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return errors.New("redis change feed closed")
			}
			publishPayload(ctx, pub, []byte(msg.Payload), s.logger)
		}
	}
}

// RedisRelay republishes every hub event onto a Redis channel so other
// instances running a RedisSource see the same feed.
type RedisRelay struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisRelay creates the relay.
func NewRedisRelay(client *redis.Client, channel string, logger *zap.Logger) *RedisRelay {
	return &RedisRelay{client: client, channel: channel, logger: logger}
}

// Run relays until ctx is cancelled or the feed closes.
func (r *RedisRelay) Run(ctx context.Context, feed Feed) error {
	sub, err := feed.Subscribe("redis-relay", AnyTable, nil)
	if err != nil {
		return err
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				r.logger.Error("relay encode", zap.String("event_id", ev.ID), zap.Error(err))
				continue
			}
			if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
				r.logger.Warn("relay publish", zap.String("event_id", ev.ID), zap.Error(err))
			}
		}
	}
}

func publishPayload(ctx context.Context, pub Publisher, payload []byte, logger *zap.Logger) {
	ev, err := DecodeChangeEvent(payload)
	if err != nil {
		logger.Warn("discarding change event", zap.Error(err))
		return
	}
	if err := pub.Publish(ctx, ev); err != nil {
		logger.Warn("publish change event", zap.String("event_id", ev.ID), zap.Error(err))
	}
}
