package bootstrap

import (
	"context"
	"time"

	"github.com/GoSim-25-26J-441/photogrid-backend/internal/kvstore"
	"github.com/sirupsen/logrus"
)

// Retry delays for a failed or dropped change subscription.
var (
	watchRetryMin = time.Second
	watchRetryMax = 30 * time.Second
)

// Reloader re-reads persisted state.
type Reloader interface {
	Reload(ctx context.Context) error
}

// WatchChanges reloads r whenever another process writes key. It returns
// immediately when kv cannot signal changes. Otherwise it resubscribes with
// backoff whenever the subscription fails and only returns once ctx is done.
func WatchChanges(ctx context.Context, kv kvstore.Store, key string, r Reloader, log logrus.FieldLogger) {
	w, ok := kv.(kvstore.Watcher)
	if !ok {
		return
	}

	log = log.WithField("component", "watch")
	log.Infof("watching %s for external changes", key)

	onChange := func(changed string) {
		if changed != "" && changed != key {
			return
		}
		if err := r.Reload(ctx); err != nil {
			log.WithError(err).Error("failed to reload after external change")
			return
		}
		log.Info("reloaded after external change")
	}

	delay := watchRetryMin
	for {
		started := time.Now()
		err := w.Watch(ctx, onChange)
		if ctx.Err() != nil {
			return
		}

		// A subscription that stayed up for a while starts over from the
		// shortest delay.
		if time.Since(started) > watchRetryMax {
			delay = watchRetryMin
		}
		log.WithError(err).Warnf("change watch stopped, retrying in %s", delay)

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		delay *= 2
		if delay > watchRetryMax {
			delay = watchRetryMax
		}

		// Writes made while unsubscribed were missed.
		onChange(key)
	}
}
