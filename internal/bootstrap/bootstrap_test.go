package bootstrap

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/photogrid-backend/config"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/adminauth"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/kvstore"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/repository"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/service"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestOpenStore_Memory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Backend: config.BackendMemory}}
	kv, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &kvstore.MemoryStore{}, kv)
}

func TestOpenStore_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := &config.Config{
		Storage: config.StorageConfig{Backend: config.BackendRedis},
		Redis:   config.RedisConfig{Addr: mr.Addr()},
	}
	kv, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	defer kv.Close()

	assert.IsType(t, &kvstore.RedisStore{}, kv)
	require.NoError(t, kv.Set(context.Background(), "k", "v"))
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestOpenStore_RedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cfg := &config.Config{
		Storage: config.StorageConfig{Backend: config.BackendRedis},
		Redis:   config.RedisConfig{Addr: addr},
	}
	_, err = OpenStore(context.Background(), cfg)
	assert.ErrorContains(t, err, "redis ping")
}

func TestOpenStore_Unknown(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.Config{Storage: config.StorageConfig{Backend: "floppy"}})
	assert.Error(t, err)
}

func newRouterDeps(t *testing.T, origins []string) RouterDeps {
	t.Helper()
	kv := kvstore.NewMemoryStore(0)
	store := service.NewTemplateStore(context.Background(),
		repository.NewCollectionRepository(kv, repository.DefaultKey),
		service.WithLogger(quietLogger()),
	)
	return RouterDeps{
		ServiceName:    "photogrid",
		Version:        "test",
		Backend:        config.BackendMemory,
		AllowedOrigins: origins,
		KV:             kv,
		Store:          store,
		Credentials:    adminauth.NewCredentials(kv, "admin123"),
		Sessions:       adminauth.NewSessions(time.Hour),
		Limiter:        adminauth.NewLoginLimiter(0, 0),
		Log:            quietLogger(),
	}
}

func TestBuildRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := BuildRouter(newRouterDeps(t, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"templates":8`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/templates", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBuildRouter_CORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := BuildRouter(newRouterDeps(t, []string{"https://gallery.example.com"}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/templates", nil)
	req.Header.Set("Origin", "https://gallery.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://gallery.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

type countingReloader struct {
	n atomic.Int32
}

func (c *countingReloader) Reload(context.Context) error {
	c.n.Add(1)
	return nil
}

func TestWatchChanges(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	local := kvstore.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	remote := kvstore.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	defer local.Close()
	defer remote.Close()

	ctx, cancel := context.WithCancel(context.Background())
	reloader := &countingReloader{}
	done := make(chan struct{})
	go func() {
		WatchChanges(ctx, local, repository.DefaultKey, reloader, quietLogger())
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_ = remote.Set(context.Background(), "unrelated", "x")
		_ = remote.Set(context.Background(), repository.DefaultKey, "[]")
		return reloader.n.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchChanges_NoWatcher(t *testing.T) {
	reloader := &countingReloader{}
	WatchChanges(context.Background(), kvstore.NewMemoryStore(0), repository.DefaultKey, reloader, quietLogger())
	assert.Zero(t, reloader.n.Load())
}

// flakyWatcher fails its first subscriptions, then reports one change.
type flakyWatcher struct {
	*kvstore.MemoryStore
	failures int
	attempts atomic.Int32
}

func (f *flakyWatcher) Watch(ctx context.Context, fn kvstore.ChangeFunc) error {
	if int(f.attempts.Add(1)) <= f.failures {
		return errors.New("connection refused")
	}
	fn(repository.DefaultKey)
	<-ctx.Done()
	return ctx.Err()
}

func TestWatchChanges_RetriesFailedSubscribe(t *testing.T) {
	oldMin, oldMax := watchRetryMin, watchRetryMax
	watchRetryMin, watchRetryMax = time.Millisecond, 5*time.Millisecond
	defer func() { watchRetryMin, watchRetryMax = oldMin, oldMax }()

	kv := &flakyWatcher{MemoryStore: kvstore.NewMemoryStore(0), failures: 3}
	reloader := &countingReloader{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		WatchChanges(ctx, kv, repository.DefaultKey, reloader, quietLogger())
		close(done)
	}()

	assert.Eventually(t, func() bool { return kv.attempts.Load() == 4 }, 3*time.Second, 5*time.Millisecond)
	// one catch-up reload per retry plus the change seen by the live subscription
	assert.Eventually(t, func() bool { return reloader.n.Load() == 4 }, 3*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop")
	}
}

// gapWatcher reports a possible gap followed by writes to other keys.
type gapWatcher struct {
	*kvstore.MemoryStore
}

func (g *gapWatcher) Watch(ctx context.Context, fn kvstore.ChangeFunc) error {
	fn("unrelated")
	fn("")
	<-ctx.Done()
	return ctx.Err()
}

func TestWatchChanges_EmptyKeyReloads(t *testing.T) {
	reloader := &countingReloader{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		WatchChanges(ctx, &gapWatcher{MemoryStore: kvstore.NewMemoryStore(0)}, repository.DefaultKey, reloader, quietLogger())
		close(done)
	}()

	assert.Eventually(t, func() bool { return reloader.n.Load() == 1 }, 3*time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return reloader.n.Load() > 1 }, 50*time.Millisecond, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop")
	}
}
