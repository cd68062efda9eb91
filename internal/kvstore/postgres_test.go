package kvstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return NewPostgresStore(db, ""), mock, db
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	store, mock, db := setupPostgresStore(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "kv_store"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get(t *testing.T) {
	store, mock, db := setupPostgresStore(t)
	defer db.Close()
	ctx := context.Background()

	t.Run("returns stored value", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM "kv_store" WHERE key = $1`)).
			WithArgs("photoTemplates").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[]`))

		v, err := store.Get(ctx, "photoTemplates")
		require.NoError(t, err)
		assert.Equal(t, `[]`, v)
	})

	t.Run("maps no rows to ErrNotFound", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM "kv_store" WHERE key = $1`)).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("wraps driver errors", func(t *testing.T) {
		boom := errors.New("connection reset")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM "kv_store"`)).
			WithArgs("photoTemplates").
			WillReturnError(boom)

		_, err := store.Get(ctx, "photoTemplates")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Set(t *testing.T) {
	store, mock, db := setupPostgresStore(t)
	defer db.Close()
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "kv_store" (key, value, updated_at)`)).
		WithArgs("photoTemplates", `[{"id":"a"}]`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_notify($1, $2)`)).
		WithArgs(DefaultNotifyChannel, changePayload{key: "photoTemplates", origin: store.Origin()}).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Set(ctx, "photoTemplates", `[{"id":"a"}]`))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "kv_store"`)).
		WithArgs("photoTemplates", `[]`).
		WillReturnError(errors.New("disk full"))

	assert.Error(t, store.Set(ctx, "photoTemplates", `[]`))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CustomTableIsQuoted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db, "photo grid")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM "photo grid" WHERE key = $1`)).
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("v"))

	v, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

// changePayload matches the JSON body handed to pg_notify.
type changePayload struct {
	key    string
	origin string
}

func (c changePayload) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	var msg changeMessage
	if err := json.Unmarshal([]byte(s), &msg); err != nil {
		return false
	}
	return msg.Key == c.key && msg.Origin == c.origin
}

func TestPostgresStore_SetNotifiesCustomChannel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db, "", WithNotifyChannel("grid_events"))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "kv_store"`)).
		WithArgs("photoTemplates", `[]`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_notify($1, $2)`)).
		WithArgs("grid_events", changePayload{key: "photoTemplates", origin: store.Origin()}).
		WillReturnError(errors.New("notify failed"))

	// A failed announcement does not fail the committed write.
	require.NoError(t, store.Set(context.Background(), "photoTemplates", `[]`))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_HandleNotification(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db, "")

	var got []string
	record := func(key string) { got = append(got, key) }

	payload := func(key, origin string) *pq.Notification {
		b, err := json.Marshal(changeMessage{Key: key, Origin: origin})
		require.NoError(t, err)
		return &pq.Notification{Channel: DefaultNotifyChannel, Extra: string(b)}
	}

	store.handleNotification(payload("photoTemplates", "other-instance"), record)
	store.handleNotification(payload("photoTemplates", store.Origin()), record)
	store.handleNotification(&pq.Notification{Extra: "not json"}, record)
	store.handleNotification(nil, record)

	assert.Equal(t, []string{"photoTemplates", ""}, got)
}

func TestPostgresStore_WatchNeedsListenDSN(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = NewPostgresStore(db, "").Watch(context.Background(), func(string) {})
	assert.Error(t, err)
}
