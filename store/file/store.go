// Package file keeps the webhook directory in a YAML file that operators
// can edit by hand. Edits are picked up while the process runs; writes made
// through the admin API are written back to the same file. Jobs and the
// failure log are held in memory.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/fsnotify/fsnotify"

	"github.com/byceps/announce"
	"github.com/byceps/announce/id"
	announcestore "github.com/byceps/announce/store"
	"github.com/byceps/announce/store/memory"
	"github.com/byceps/announce/webhook"
)

// compile-time interface check.
var _ announcestore.Store = (*Store)(nil)

// DefaultDebounce is how long the file must stay quiet before a reload.
const DefaultDebounce = 200 * time.Millisecond

// Store serves webhooks from a YAML file and everything else from memory.
type Store struct {
	*memory.Store

	path     string
	logger   *slog.Logger
	debounce time.Duration
	onReload func(n int)
	retry    retry.Config

	mu       sync.RWMutex
	webhooks map[string]*webhook.Webhook

	// writeMu is held across a directory change and the file write that
	// follows it, and across reloads, so a reload never lands in between.
	writeMu sync.Mutex

	watcher   *fsnotify.Watcher
	stopped   chan struct{}
	closeOnce sync.Once
}

// Option configures a file Store.
type Option func(*Store)

// WithLogger sets the logger for reload messages.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithDebounce sets the quiet period before a changed file is reloaded.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) { s.debounce = d }
}

// WithOnReload registers a callback run after every successful reload
// with the number of webhooks loaded.
func WithOnReload(fn func(n int)) Option {
	return func(s *Store) { s.onReload = fn }
}

// New loads the webhook file at path and starts watching it. A missing
// file is an empty directory; it is created on the first write.
func New(path string, opts ...Option) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("announce/file: resolve %q: %w", path, err)
	}

	s := &Store{
		Store:    memory.New(),
		path:     filepath.Clean(abs),
		logger:   slog.Default(),
		debounce: DefaultDebounce,
		retry: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  20 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
		webhooks: make(map[string]*webhook.Webhook),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := s.read(context.Background())
	if err != nil {
		return nil, err
	}
	whs, assigned, err := doc.webhooks()
	if err != nil {
		return nil, fmt.Errorf("announce/file: %s: %w", s.path, err)
	}
	s.replace(whs)

	if assigned {
		if err := s.saveLocked(); err != nil {
			return nil, err
		}
	}

	// Watch the directory: editors often replace the file instead of
	// writing it in place, which drops a watch on the file itself.
	s.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("announce/file: create watcher: %w", err)
	}
	if err := s.watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = s.watcher.Close()
		return nil, fmt.Errorf("announce/file: watch %s: %w", filepath.Dir(s.path), err)
	}

	go s.watch()

	return s, nil
}

// Path returns the absolute path of the webhook file.
func (s *Store) Path() string { return s.path }

// Close stops watching the file and closes the in-memory parts.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.watcher != nil {
			_ = s.watcher.Close()
			<-s.stopped
		}
	})
	return s.Store.Close()
}

// ──────────────────────────────────────────────────
// Loading
// ──────────────────────────────────────────────────

func (s *Store) read(ctx context.Context) (*document, error) {
	r := retry.New[*document](s.retry)

	return r.Do(ctx, func(_ context.Context) (*document, error) {
		data, err := os.ReadFile(s.path)
		if err != nil {
			if os.IsNotExist(err) {
				return &document{}, nil
			}
			return nil, fmt.Errorf("announce/file: read %s: %w", s.path, err)
		}
		return parseDocument(data)
	})
}

// Reload rereads the file. On error the previous directory stays in place.
func (s *Store) Reload(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	doc, err := s.read(ctx)
	if err != nil {
		return err
	}
	whs, assigned, err := doc.webhooks()
	if err != nil {
		return fmt.Errorf("announce/file: %s: %w", s.path, err)
	}
	s.replace(whs)

	if assigned {
		if err := s.saveLocked(); err != nil {
			return err
		}
	}

	s.logger.InfoContext(ctx, "webhook file reloaded",
		"path", s.path,
		"webhooks", len(whs),
	)
	if s.onReload != nil {
		s.onReload(len(whs))
	}
	return nil
}

func (s *Store) replace(whs []*webhook.Webhook) {
	m := make(map[string]*webhook.Webhook, len(whs))
	for _, wh := range whs {
		m[wh.ID.String()] = wh
	}

	s.mu.Lock()
	s.webhooks = m
	s.mu.Unlock()
}

func (s *Store) watch() {
	defer close(s.stopped)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	reload := func() {
		if err := s.Reload(context.Background()); err != nil {
			s.logger.Warn("webhook file reload failed, keeping previous directory",
				"path", s.path,
				"error", err,
			)
		}
	}

	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != s.path || ev.Op == fsnotify.Chmod {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(s.debounce, reload)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("webhook file watcher error", "path", s.path, "error", err)
		}
	}
}

// saveLocked writes the current directory to the file through a temporary
// file in the same directory, so readers never see a partial document. The
// caller holds writeMu.
func (s *Store) saveLocked() error {
	s.mu.RLock()
	whs := make([]*webhook.Webhook, 0, len(s.webhooks))
	for _, wh := range s.webhooks {
		whs = append(whs, wh)
	}
	s.mu.RUnlock()
	sortByID(whs)

	data, err := encodeDocument(whs)
	if err != nil {
		return fmt.Errorf("announce/file: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".webhooks-*.yaml")
	if err != nil {
		return fmt.Errorf("announce/file: write %s: %w", s.path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("announce/file: write %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("announce/file: write %s: %w", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("announce/file: write %s: %w", s.path, err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// webhook.Store
// ──────────────────────────────────────────────────

// CreateWebhook adds a webhook and writes the file.
func (s *Store) CreateWebhook(_ context.Context, wh *webhook.Webhook) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.webhooks[wh.ID.String()] = cloneWebhook(wh)
	s.mu.Unlock()

	return s.saveLocked()
}

// GetWebhook returns a webhook by ID.
func (s *Store) GetWebhook(_ context.Context, whID id.ID) (*webhook.Webhook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wh, ok := s.webhooks[whID.String()]
	if !ok {
		return nil, announce.ErrWebhookNotFound
	}
	return cloneWebhook(wh), nil
}

// UpdateWebhook replaces a webhook and writes the file.
func (s *Store) UpdateWebhook(_ context.Context, wh *webhook.Webhook) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if _, ok := s.webhooks[wh.ID.String()]; !ok {
		s.mu.Unlock()
		return announce.ErrWebhookNotFound
	}
	wh.Touch()
	s.webhooks[wh.ID.String()] = cloneWebhook(wh)
	s.mu.Unlock()

	return s.saveLocked()
}

// DeleteWebhook removes a webhook and writes the file.
func (s *Store) DeleteWebhook(_ context.Context, whID id.ID) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if _, ok := s.webhooks[whID.String()]; !ok {
		s.mu.Unlock()
		return announce.ErrWebhookNotFound
	}
	delete(s.webhooks, whID.String())
	s.mu.Unlock()

	return s.saveLocked()
}

// ListWebhooks returns webhooks ordered by ID.
func (s *Store) ListWebhooks(_ context.Context, opts webhook.ListOpts) ([]*webhook.Webhook, error) {
	s.mu.RLock()
	result := make([]*webhook.Webhook, 0, len(s.webhooks))
	for _, wh := range s.webhooks {
		if opts.Enabled != nil && wh.Enabled != *opts.Enabled {
			continue
		}
		if opts.Format != "" && wh.Format != opts.Format {
			continue
		}
		result = append(result, cloneWebhook(wh))
	}
	s.mu.RUnlock()

	sortByID(result)

	if opts.Offset > 0 {
		if opts.Offset >= len(result) {
			return nil, nil
		}
		result = result[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result, nil
}

// ListEnabledFor returns the enabled webhooks subscribed to eventName.
func (s *Store) ListEnabledFor(_ context.Context, eventName string) ([]*webhook.Webhook, error) {
	s.mu.RLock()
	var result []*webhook.Webhook
	for _, wh := range s.webhooks {
		if wh.Enabled && wh.Subscribes(eventName) {
			result = append(result, cloneWebhook(wh))
		}
	}
	s.mu.RUnlock()

	sortByID(result)
	return result, nil
}

// SetEnabled flips the enabled flag and writes the file.
func (s *Store) SetEnabled(_ context.Context, whID id.ID, enabled bool) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	wh, ok := s.webhooks[whID.String()]
	if !ok {
		s.mu.Unlock()
		return announce.ErrWebhookNotFound
	}
	cp := cloneWebhook(wh)
	cp.Enabled = enabled
	cp.Touch()
	s.webhooks[whID.String()] = cp
	s.mu.Unlock()

	return s.saveLocked()
}

func cloneWebhook(wh *webhook.Webhook) *webhook.Webhook {
	cp := *wh
	cp.EventTypes = slices.Clone(wh.EventTypes)
	cp.EventFilters = slices.Clone(wh.EventFilters)
	cp.ExtraFields = slices.Clone(wh.ExtraFields)
	return &cp
}

func sortByID(whs []*webhook.Webhook) {
	sort.Slice(whs, func(i, k int) bool {
		return whs[i].ID.Compare(whs[k].ID) < 0
	})
}
