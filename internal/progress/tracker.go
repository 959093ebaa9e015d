package progress

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/bep/debounce"
	"go.uber.org/zap"

	"github.com/gelogrammer/voice-gateway/internal/catalog"
	"github.com/gelogrammer/voice-gateway/internal/domain"
	"github.com/gelogrammer/voice-gateway/internal/ports"
)

const (
	DefaultFlushDelay  = time.Second
	remoteFlushTimeout = 10 * time.Second
)

// Purger deletes the stored recordings that back a category's progress, so
// a progress reset and the recordings it covers disappear together.
type Purger interface {
	PurgeCategory(ctx context.Context, userID string, category domain.Category) error
}

// Tracker keeps two copies of a user's progress in step: a local fast-path
// copy written synchronously on every change, and a remote durable copy
// written on a debounce so bursts of completions collapse into one write.
// Remote snapshots are adopted only when strictly newer than the local one.
type Tracker struct {
	local  ports.ProgressStore
	remote ports.ProgressStore
	purger Purger
	events ports.EventSink
	log    *zap.Logger
	now    func() time.Time

	flush func(f func())

	mu          sync.Mutex
	userID      string
	snapshot    domain.ProgressSnapshot
	watchCancel context.CancelFunc
}

func NewTracker(local, remote ports.ProgressStore, purger Purger, events ports.EventSink, flushDelay time.Duration, log *zap.Logger) *Tracker {
	if flushDelay <= 0 {
		flushDelay = DefaultFlushDelay
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		local:  local,
		remote: remote,
		purger: purger,
		events: events,
		log:    log,
		now:    time.Now,
		flush:  debounce.New(flushDelay),
	}
}

// reconcile applies the last-writer-wins rule shared by the load path and
// the live feed path: the incoming snapshot replaces the current one only
// when its timestamp is strictly newer.
func reconcile(current, incoming domain.ProgressSnapshot) (domain.ProgressSnapshot, bool) {
	if incoming.LastUpdated.After(current.LastUpdated) {
		return incoming, true
	}
	return current, false
}

// Load initializes the tracker for a user: the local copy is read first,
// then the remote copy, and the newer of the two wins. An adopted remote
// snapshot is written back to the local store.
func (t *Tracker) Load(ctx context.Context, userID string) (domain.ProgressSnapshot, error) {
	// A feed subscribed for a previous user must not outlive their sign-in.
	t.Unwatch()

	local, _, err := t.local.Load(ctx, userID)
	if err != nil {
		return domain.ProgressSnapshot{}, fmt.Errorf("load local progress: %w", err)
	}

	snapshot := local
	remote, found, err := t.remote.Load(ctx, userID)
	if err != nil {
		// Start from the local copy; the remote catches up on the next flush.
		t.log.Warn("remote progress unavailable, using local copy",
			zap.String("user_id", userID), zap.Error(err))
	} else if found {
		merged, adopted := reconcile(local, remote)
		snapshot = merged
		if adopted {
			if err := t.local.Save(ctx, userID, snapshot); err != nil {
				t.log.Warn("failed to persist adopted remote progress locally",
					zap.String("user_id", userID), zap.Error(err))
			}
		}
	}

	if snapshot.CurrentCategory == "" {
		snapshot.CurrentCategory = domain.CategoryHighFluency
	}

	t.mu.Lock()
	t.userID = userID
	t.snapshot = snapshot
	t.mu.Unlock()

	t.events.ProgressChanged(snapshot)
	return snapshot, nil
}

// Snapshot returns a copy of the current progress.
func (t *Tracker) Snapshot() domain.ProgressSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return copySnapshot(t.snapshot)
}

// Percentage reports overall completion against the full script corpus,
// rounded to the nearest whole percent.
func (t *Tracker) Percentage() int {
	t.mu.Lock()
	completed := len(t.snapshot.CompletedScriptIDs)
	t.mu.Unlock()

	total := catalog.Total()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// MarkCompleted records a finished script. The local copy is written before
// returning; the remote write is debounced. Marking a script twice is a
// no-op.
func (t *Tracker) MarkCompleted(ctx context.Context, scriptID string) error {
	if _, ok := catalog.ByID(scriptID); !ok {
		return fmt.Errorf("unknown script id %q", scriptID)
	}

	t.mu.Lock()
	if t.snapshot.Completed(scriptID) {
		t.mu.Unlock()
		return nil
	}
	t.snapshot.CompletedScriptIDs = append(t.snapshot.CompletedScriptIDs, scriptID)
	t.snapshot.LastUpdated = t.now()
	userID := t.userID
	snapshot := copySnapshot(t.snapshot)
	t.mu.Unlock()

	if err := t.local.Save(ctx, userID, snapshot); err != nil {
		return fmt.Errorf("save local progress: %w", err)
	}
	t.events.ProgressChanged(snapshot)
	t.scheduleRemoteFlush()
	return nil
}

// SelectCategory switches the category the user is working through.
func (t *Tracker) SelectCategory(ctx context.Context, category domain.Category) error {
	if !category.Valid() {
		return fmt.Errorf("unknown category %q", category)
	}

	t.mu.Lock()
	if t.snapshot.CurrentCategory == category {
		t.mu.Unlock()
		return nil
	}
	t.snapshot.CurrentCategory = category
	t.snapshot.LastUpdated = t.now()
	userID := t.userID
	snapshot := copySnapshot(t.snapshot)
	t.mu.Unlock()

	if err := t.local.Save(ctx, userID, snapshot); err != nil {
		return fmt.Errorf("save local progress: %w", err)
	}
	t.events.ProgressChanged(snapshot)
	t.scheduleRemoteFlush()
	return nil
}

// ResetCategory clears one category's completions and deletes its stored
// recordings. The recordings go first: when the purge fails, progress is
// left untouched so the two never diverge.
func (t *Tracker) ResetCategory(ctx context.Context, category domain.Category) error {
	if !category.Valid() {
		return fmt.Errorf("unknown category %q", category)
	}

	t.mu.Lock()
	userID := t.userID
	t.mu.Unlock()

	if err := t.purger.PurgeCategory(ctx, userID, category); err != nil {
		return fmt.Errorf("purge %s recordings: %w", category, err)
	}

	categoryIDs := map[string]bool{}
	for _, id := range catalog.IDsByCategory(category) {
		categoryIDs[id] = true
	}

	t.mu.Lock()
	kept := t.snapshot.CompletedScriptIDs[:0]
	for _, id := range t.snapshot.CompletedScriptIDs {
		if !categoryIDs[id] {
			kept = append(kept, id)
		}
	}
	t.snapshot.CompletedScriptIDs = kept
	t.snapshot.LastUpdated = t.now()
	snapshot := copySnapshot(t.snapshot)
	t.mu.Unlock()

	return t.persistReset(ctx, userID, snapshot)
}

// ResetAll clears all progress and deletes every stored recording.
func (t *Tracker) ResetAll(ctx context.Context) error {
	t.mu.Lock()
	userID := t.userID
	t.mu.Unlock()

	for _, category := range domain.Categories() {
		if err := t.purger.PurgeCategory(ctx, userID, category); err != nil {
			return fmt.Errorf("purge %s recordings: %w", category, err)
		}
	}

	t.mu.Lock()
	t.snapshot.CompletedScriptIDs = nil
	t.snapshot.CurrentCategory = domain.CategoryHighFluency
	t.snapshot.LastUpdated = t.now()
	snapshot := copySnapshot(t.snapshot)
	t.mu.Unlock()

	return t.persistReset(ctx, userID, snapshot)
}

// persistReset writes both copies synchronously. Resets are destructive, so
// the remote copy must not be left behind on a debounce timer.
func (t *Tracker) persistReset(ctx context.Context, userID string, snapshot domain.ProgressSnapshot) error {
	if err := t.local.Save(ctx, userID, snapshot); err != nil {
		return fmt.Errorf("save local progress: %w", err)
	}
	if err := t.remote.Save(ctx, userID, snapshot); err != nil {
		t.log.Warn("remote progress save failed after reset",
			zap.String("user_id", userID), zap.Error(err))
	}
	t.events.ProgressChanged(snapshot)
	return nil
}

// ApplyRemote feeds a pushed remote snapshot through the same reconcile
// rule as Load. Stale snapshots are dropped.
func (t *Tracker) ApplyRemote(ctx context.Context, incoming domain.ProgressSnapshot) {
	t.mu.Lock()
	userID := t.userID
	t.mu.Unlock()
	t.applyRemoteFor(ctx, userID, incoming)
}

// applyRemoteFor applies a pushed snapshot only while forUser is still the
// loaded user. Snapshots arriving on a subscription created for an earlier
// sign-in are dropped rather than reconciled into another user's progress.
func (t *Tracker) applyRemoteFor(ctx context.Context, forUser string, incoming domain.ProgressSnapshot) {
	if ctx.Err() != nil {
		return
	}
	t.mu.Lock()
	if forUser == "" || forUser != t.userID {
		t.mu.Unlock()
		return
	}
	merged, adopted := reconcile(t.snapshot, incoming)
	if !adopted {
		t.mu.Unlock()
		return
	}
	t.snapshot = merged
	userID := t.userID
	snapshot := copySnapshot(merged)
	t.mu.Unlock()

	if err := t.local.Save(ctx, userID, snapshot); err != nil {
		t.log.Warn("failed to persist pushed remote progress locally",
			zap.String("user_id", userID), zap.Error(err))
	}
	t.events.ProgressChanged(snapshot)
}

// Flush writes the current snapshot to the remote store immediately,
// bypassing the debounce. Called on shutdown and sign-out.
func (t *Tracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	userID := t.userID
	snapshot := copySnapshot(t.snapshot)
	t.mu.Unlock()

	if userID == "" {
		return nil
	}
	if err := t.remote.Save(ctx, userID, snapshot); err != nil {
		return fmt.Errorf("save remote progress: %w", err)
	}
	return nil
}

// Watch subscribes to pushed remote snapshots for the loaded user and
// reconciles them until Unwatch is called, the feed closes, or ctx is
// canceled. A previous subscription is torn down first.
func (t *Tracker) Watch(ctx context.Context, feed ports.ProgressFeed) error {
	t.mu.Lock()
	userID := t.userID
	t.mu.Unlock()
	if userID == "" {
		return fmt.Errorf("no user loaded")
	}

	t.Unwatch()

	watchCtx, cancel := context.WithCancel(ctx)
	ch, err := feed.Subscribe(watchCtx, userID)
	if err != nil {
		cancel()
		return fmt.Errorf("subscribe to progress feed: %w", err)
	}

	t.mu.Lock()
	t.watchCancel = cancel
	t.mu.Unlock()

	go func() {
		for snapshot := range ch {
			t.applyRemoteFor(watchCtx, userID, snapshot)
		}
	}()
	return nil
}

// Unwatch ends the active feed subscription, if any.
func (t *Tracker) Unwatch() {
	t.mu.Lock()
	cancel := t.watchCancel
	t.watchCancel = nil
	t.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (t *Tracker) scheduleRemoteFlush() {
	t.flush(func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteFlushTimeout)
		defer cancel()
		if err := t.Flush(ctx); err != nil {
			t.log.Warn("debounced remote progress flush failed", zap.Error(err))
		}
	})
}

func copySnapshot(s domain.ProgressSnapshot) domain.ProgressSnapshot {
	out := s
	out.CompletedScriptIDs = append([]string(nil), s.CompletedScriptIDs...)
	return out
}
