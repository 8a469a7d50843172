package formdef

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrymomot/formguard/pkg/logger"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

// Holder gives concurrent access to a definition file with hot reload.
type Holder struct {
	mu       sync.RWMutex
	file     *File
	path     string
	catalog  *validator.Catalog
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	onChange []func(*File)
	onReload []func(error)
	stopCh   chan struct{}
	stopOnce sync.Once
}

// HolderOption configures a Holder.
type HolderOption func(*Holder)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) HolderOption {
	return func(h *Holder) {
		h.logger = l
	}
}

// WithCatalog verifies rule kinds against catalog on every load.
func WithCatalog(c *validator.Catalog) HolderOption {
	return func(h *Holder) {
		h.catalog = c
	}
}

// NewHolder loads the definition file at path.
func NewHolder(path string, opts ...HolderOption) (*Holder, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	h := &Holder{path: absPath, stopCh: make(chan struct{})}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = logger.Or(h.logger).With(logger.Component("formdef"))

	f, err := h.load()
	if err != nil {
		return nil, err
	}
	h.file = f
	return h, nil
}

// Get returns the current file.
func (h *Holder) Get() *File {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.file
}

// Form returns a form of the current file.
func (h *Holder) Form(name string) (*Definition, error) {
	return h.Get().Form(name)
}

// OnChange registers a callback run after every successful reload.
func (h *Holder) OnChange(fn func(*File)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// OnReload registers a callback run after every reload attempt with its error.
func (h *Holder) OnReload(fn func(error)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onReload = append(h.onReload, fn)
}

// Reload reads the file again. On failure the previous version is kept.
func (h *Holder) Reload() error {
	f, err := h.load()

	h.mu.Lock()
	if err == nil {
		h.file = f
	}
	onChange := h.onChange
	onReload := h.onReload
	h.mu.Unlock()

	for _, fn := range onReload {
		fn(err)
	}
	if err != nil {
		h.logger.Error("form definitions reload failed, keeping previous version",
			slog.String("path", h.path), logger.Error(err))
		return fmt.Errorf("reload form definitions: %w", err)
	}
	for _, fn := range onChange {
		fn(f)
	}
	h.logger.Info("form definitions reloaded", slog.String("path", h.path), slog.Any("forms", f.Names()))
	return nil
}

// Watch reloads the file whenever it is written or replaced. The directory
// is watched so editors that save atomically are picked up.
func (h *Holder) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	h.mu.Lock()
	h.watcher = watcher
	h.mu.Unlock()

	go h.watchLoop(watcher)
	h.logger.Info("watching form definitions", slog.String("path", h.path))
	return nil
}

// WatchSignals reloads the file on SIGHUP.
func (h *Holder) WatchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		defer signal.Stop(sigCh)
		for {
			select {
			case <-sigCh:
				h.logger.Info("received SIGHUP, reloading form definitions")
				_ = h.Reload()
			case <-h.stopCh:
				return
			}
		}
	}()
}

// Run watches the file until ctx is done.
func (h *Holder) Run(ctx context.Context) error {
	if err := h.Watch(); err != nil {
		return err
	}
	h.WatchSignals()
	<-ctx.Done()
	h.Stop()
	return nil
}

// Stop ends watching. It is safe to call more than once.
func (h *Holder) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.watcher != nil {
			_ = h.watcher.Close()
		}
	})
}

func (h *Holder) watchLoop(watcher *fsnotify.Watcher) {
	filename := filepath.Base(h.path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.logger.Debug("form definitions changed",
					slog.String("event", event.Op.String()),
					slog.String("file", event.Name))
				_ = h.Reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error("file watcher error", logger.Error(err))
		case <-h.stopCh:
			return
		}
	}
}

func (h *Holder) load() (*File, error) {
	f, err := Load(h.path)
	if err != nil {
		return nil, err
	}
	if h.catalog != nil {
		if err := f.Verify(h.catalog); err != nil {
			return nil, fmt.Errorf("%s: %w", h.path, err)
		}
	}
	return f, nil
}
