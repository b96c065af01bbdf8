package stats

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgChannel = "stats_counters"

	pgSchema = `CREATE TABLE IF NOT EXISTS stats_counters (
	doc_key TEXT   NOT NULL,
	field   TEXT   NOT NULL,
	value   BIGINT NOT NULL DEFAULT 0,
	PRIMARY KEY (doc_key, field)
)`
)

// PostgresStore keeps one row per counter and uses LISTEN/NOTIFY for
// subscriptions.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ConnectPostgres opens a pool, pings it and makes sure the table exists.
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return pool, nil
}

func (s *PostgresStore) Increment(ctx context.Context, key, field string) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO stats_counters (doc_key, field, value) VALUES ($1, $2, 1)
			ON CONFLICT (doc_key, field) DO UPDATE SET value = stats_counters.value + 1`,
			key, field); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, pgChannel, key)
		return err
	})
}

func (s *PostgresStore) Set(ctx context.Context, key string, fields Document) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for f, v := range fields {
			if _, err := tx.Exec(ctx, `
				INSERT INTO stats_counters (doc_key, field, value) VALUES ($1, $2, $3)
				ON CONFLICT (doc_key, field) DO NOTHING`,
				key, f, v); err != nil {
				return err
			}
		}
		_, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, pgChannel, key)
		return err
	})
}

func (s *PostgresStore) load(ctx context.Context, key string) (Document, error) {
	rows, err := s.pool.Query(ctx, `SELECT field, value FROM stats_counters WHERE doc_key = $1`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var doc Document
	for rows.Next() {
		var field string
		var value int64
		if err := rows.Scan(&field, &value); err != nil {
			return nil, err
		}
		if doc == nil {
			doc = Document{}
		}
		doc[field] = value
	}
	return doc, rows.Err()
}

func (s *PostgresStore) Subscribe(ctx context.Context, key string, onUpdate func(Document), onError func(error)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("acquire listener: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{pgChannel}.Sanitize()); err != nil {
		conn.Release()
		cancel()
		return nil, fmt.Errorf("listen: %w", err)
	}

	deliver := func() {
		doc, err := s.load(ctx, key)
		if err != nil {
			if ctx.Err() == nil {
				onError(err)
			}
			return
		}
		onUpdate(doc)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer conn.Release()
		deliver()
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					onError(fmt.Errorf("wait for notification: %w", err))
				}
				return
			}
			if n.Payload == key {
				deliver()
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}, nil
}
