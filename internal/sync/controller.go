// Package sync orchestrates startup load, periodic update checks and forced
// pulls. It owns the race-prone ordering: local cache first, remote
// bootstrap when the cache is missing, stamp-inequality pulls afterwards.
// Background failures are swallowed (logged, never surfaced); only explicit
// user-initiated syncs return classified errors.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Memaso-max/schedule-sync-service/internal/events"
	"github.com/Memaso-max/schedule-sync-service/internal/models"
	"github.com/Memaso-max/schedule-sync-service/internal/remote"
	"github.com/Memaso-max/schedule-sync-service/internal/repositories"
	"github.com/Memaso-max/schedule-sync-service/internal/store"
)

// DefaultInterval is how often the background update check runs.
const DefaultInterval = 60 * time.Second

type Controller struct {
	store    store.Store
	kv       repositories.KeyValueStore
	client   remote.Client
	logger   *slog.Logger
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewController wires the sync controller. A zero interval falls back to
// DefaultInterval.
func NewController(st store.Store, kv repositories.KeyValueStore, client remote.Client, logger *slog.Logger, interval time.Duration) *Controller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Controller{
		store:    st,
		kv:       kv,
		client:   client,
		logger:   logger,
		interval: interval,
	}
}

// Load performs the startup sequence: hydrate memory from the persisted keys,
// then either bootstrap from the remote (cache absent or partial) or run a
// best-effort update check (cache present). It never fails: a device that is
// offline with no cache simply keeps the baked-in defaults.
func (c *Controller) Load(ctx context.Context) {
	c.store.SetLoading(true)
	defer c.store.SetLoading(false)

	snap := models.DefaultSnapshot()

	var currentUser *models.User
	if ok := c.readInto(ctx, repositories.KeyCurrentUser, &currentUser); !ok {
		currentUser = nil
	}
	usersOK := c.readInto(ctx, repositories.KeyUsers, &snap.Users)
	subjectsOK := c.readInto(ctx, repositories.KeySubjects, &snap.Subjects)
	scheduleOK := c.readInto(ctx, repositories.KeySchedule, &snap.Schedule)
	c.readInto(ctx, repositories.KeyLastUpdated, &snap.LastUpdated)

	c.store.Hydrate(snap, currentUser)

	if !usersOK || !subjectsOK || !scheduleOK {
		// Uninitialized dataset: attempt a full remote bootstrap. Failure is
		// graceful degradation onto the defaults, not an error state.
		if err := c.pull(ctx, events.SourceBootstrap); err != nil {
			c.logger.Info("no remote data available or offline", "error", err)
		}
		return
	}

	if err := c.CheckForUpdates(ctx); err != nil {
		c.logger.Info("startup update check failed", "error", err)
	}
}

// CheckForUpdates compares the remote version stamp against the local one and
// pulls on any difference. The metadata document is tried first; when it is
// unreachable the full document's embedded stamp is used instead.
func (c *Controller) CheckForUpdates(ctx context.Context) error {
	meta, err := c.client.FetchMetadata(ctx)
	if err != nil {
		doc, derr := c.client.FetchDocument(ctx)
		if derr != nil {
			return derr
		}
		meta = remote.Metadata{LastUpdated: doc.LastUpdated}
	}

	local := c.store.LastUpdated()
	// Strict inequality, not ordering: a remote stamp "older" than local by
	// clock skew still overwrites. There is at most one writer in practice.
	if meta.LastUpdated == "" || meta.LastUpdated == local {
		return nil
	}
	return c.pull(ctx, events.SourcePull)
}

// ForceSync unconditionally pulls the remote snapshot and overwrites local
// state. The returned error is classified (ErrRemoteUnavailable,
// ErrRemoteFormat, ErrStorage) so the caller can render an accurate message.
func (c *Controller) ForceSync(ctx context.Context) error {
	return c.pull(ctx, events.SourcePull)
}

func (c *Controller) pull(ctx context.Context, source string) error {
	snap, err := c.client.FetchDocument(ctx)
	if err != nil {
		return err
	}
	return c.store.ReplaceSnapshot(ctx, snap, source)
}

// Start launches the periodic update check. Errors during ticks are swallowed
// so they never interrupt interactive use. Calling Start twice restarts the
// timer.
func (c *Controller) Start(ctx context.Context) {
	c.Stop()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	c.mu.Lock()
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	ticker := time.NewTicker(c.interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				if err := c.CheckForUpdates(runCtx); err != nil && !errors.Is(err, context.Canceled) {
					c.logger.Debug("background update check failed", "error", err)
				}
			}
		}
	}()
}

// Stop tears the periodic timer down and waits for the loop to exit.
// In-flight requests are not cancelled beyond their context; stale results
// are simply discarded.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// readInto loads and decodes one persisted key. Absence and decode failures
// both count as "not present": the original value stays untouched and the
// caller treats the dataset as uninitialized.
func (c *Controller) readInto(ctx context.Context, key string, dest any) bool {
	raw, err := c.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repositories.ErrKeyNotFound) {
			c.logger.Error("reading persisted state failed", "error", err, "key", key)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		// Strings were historically persisted unquoted; accept them as-is.
		if s, ok := dest.(*string); ok {
			*s = raw
			return true
		}
		c.logger.Error("decoding persisted state failed", "error", err, "key", key)
		return false
	}
	return true
}
