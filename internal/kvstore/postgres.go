package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	DefaultTable         = "kv_store"
	DefaultNotifyChannel = "photogrid_kv_changed"
)

// PostgresStore keeps values in a two-column table, one row per key. Every
// write is announced with pg_notify so other instances can reload.
type PostgresStore struct {
	db        *sql.DB
	table     string
	channel   string
	listenDSN string
	origin    string
}

type PostgresOption func(*PostgresStore)

// WithNotifyChannel sets the LISTEN/NOTIFY channel. Empty keeps the default.
func WithNotifyChannel(channel string) PostgresOption {
	return func(p *PostgresStore) {
		if channel != "" {
			p.channel = channel
		}
	}
}

// WithListenDSN sets the connection string Watch uses for its dedicated
// listener connection.
func WithListenDSN(dsn string) PostgresOption {
	return func(p *PostgresStore) { p.listenDSN = dsn }
}

// NewPostgresStore wraps an open database. An empty table uses DefaultTable.
func NewPostgresStore(db *sql.DB, table string, opts ...PostgresOption) *PostgresStore {
	if table == "" {
		table = DefaultTable
	}
	p := &PostgresStore{
		db:      db,
		table:   pq.QuoteIdentifier(table),
		channel: DefaultNotifyChannel,
		origin:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Origin identifies this instance in change notifications.
func (p *PostgresStore) Origin() string {
	return p.origin
}

// EnsureSchema creates the backing table when it does not exist yet.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	q := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`, p.table)

	if _, err := p.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create %s: %w", p.table, err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	q := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, p.table)

	var v string
	err := p.db.QueryRowContext(ctx, q, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select %s: %w", key, err)
	}
	return v, nil
}

func (p *PostgresStore) Set(ctx context.Context, key, value string) error {
	q := fmt.Sprintf(`
INSERT INTO %s (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`, p.table)

	if _, err := p.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}

	// The write already succeeded; a lost announcement only delays other
	// instances until their next reload.
	msg, err := json.Marshal(changeMessage{Key: key, Origin: p.origin})
	if err == nil {
		_, _ = p.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, p.channel, string(msg))
	}
	return nil
}

// Watch listens on the notify channel over a dedicated lib/pq connection
// and calls fn for writes made by other instances. The listener reconnects
// on its own; after a reconnect fn receives an empty key.
func (p *PostgresStore) Watch(ctx context.Context, fn ChangeFunc) error {
	if p.listenDSN == "" {
		return errors.New("postgres watch needs a listen DSN")
	}

	l := pq.NewListener(p.listenDSN, time.Second, time.Minute, nil)
	defer l.Close()

	if err := l.Listen(p.channel); err != nil {
		return fmt.Errorf("listen %s: %w", p.channel, err)
	}

	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-l.Notify:
			if !ok {
				return nil
			}
			p.handleNotification(n, fn)
		case <-ping.C:
			go l.Ping()
		}
	}
}

func (p *PostgresStore) handleNotification(n *pq.Notification, fn ChangeFunc) {
	// lib/pq sends nil after re-establishing the connection.
	if n == nil {
		fn("")
		return
	}

	var msg changeMessage
	if err := json.Unmarshal([]byte(n.Extra), &msg); err != nil {
		return
	}
	if msg.Origin == p.origin {
		return
	}
	fn(msg.Key)
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}
