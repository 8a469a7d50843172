package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/formguard/pkg/cache"
	"github.com/dmitrymomot/formguard/pkg/logger"
)

// DefaultManagerCapacity is the number of live containers a Manager keeps by default.
const DefaultManagerCapacity = 1024

// Manager keeps one live Container per container id. The least recently
// used containers are detached once capacity is exceeded; their state stays
// in the StateStore and is picked up again by the next Ensure.
type Manager struct {
	state      StateStore
	opts       []Option
	logger     *slog.Logger
	containers *cache.LRU[string, *Container]
}

// NewManager creates a manager. opts apply to every attached container.
func NewManager(state StateStore, capacity int, opts ...Option) *Manager {
	if capacity <= 0 {
		capacity = DefaultManagerCapacity
	}
	var o attachOptions
	for _, opt := range opts {
		opt(&o)
	}
	m := &Manager{
		state:      state,
		opts:       opts,
		logger:     logger.Or(o.logger),
		containers: cache.NewLRU[string, *Container](capacity),
	}
	m.containers.OnEvict(func(id string, c *Container) {
		if err := c.Detach(context.Background(), false); err != nil {
			m.logger.Error("detach evicted container", logger.Container(id), logger.Error(err))
		}
	})
	return m
}

// Get returns the live container for id.
func (m *Manager) Get(id string) (*Container, bool) {
	return m.containers.Get(id)
}

// Ensure returns the live container for id or attaches a new one to the UI
// built by newUI. The boolean reports whether a container was attached.
func (m *Manager) Ensure(ctx context.Context, id string, newUI func() UI, opts ...Option) (*Container, bool, error) {
	return m.containers.GetOrCreate(id, func() (*Container, error) {
		c, err := Attach(ctx, id, newUI(), m.state, slices.Concat(m.opts, opts)...)
		if err != nil {
			return nil, fmt.Errorf("ensure container %q: %w", id, err)
		}
		return c, nil
	})
}

// Remove detaches the container for id. With purge its stored state is deleted too.
func (m *Manager) Remove(ctx context.Context, id string, purge bool) error {
	c, ok := m.containers.Remove(id)
	if !ok {
		if purge {
			return m.state.Delete(ctx, id)
		}
		return nil
	}
	return c.Detach(ctx, purge)
}

// Len returns the number of live containers.
func (m *Manager) Len() int {
	return m.containers.Len()
}

// Close detaches every live container.
func (m *Manager) Close(ctx context.Context) error {
	var errs []error
	for _, id := range m.containers.Keys() {
		if c, ok := m.containers.Remove(id); ok {
			if err := c.Detach(ctx, false); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
