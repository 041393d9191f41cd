// Package lifecycle coordinates named startup and shutdown hooks.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// StartupHook runs once during startup with the coordinator's context.
type StartupHook func(ctx context.Context) error

// ShutdownHook runs once during shutdown with a context bounded by the
// shutdown timeout.
type ShutdownHook func(ctx context.Context)

// Coordinator runs startup hooks concurrently, tracks which are still
// pending, and fans shutdown hooks out when Shutdown is called.
type Coordinator struct {
	ctx     context.Context
	cancel  context.CancelFunc
	startup sync.WaitGroup

	mu       sync.RWMutex
	ready    bool
	pending  map[string]struct{}
	errs     []error
	shutdown []ShutdownHook
}

// New creates a Coordinator whose context is cancelled on Shutdown.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[string]struct{}),
	}
}

// Context returns the coordinator's context.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup starts fn in its own goroutine. The hook stays pending under
// name until it returns; a returned error is reported by WaitForStartup.
func (c *Coordinator) OnStartup(name string, fn StartupHook) {
	c.mu.Lock()
	c.pending[name] = struct{}{}
	c.mu.Unlock()

	c.startup.Go(func() {
		err := fn(c.ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.pending, name)
		if err != nil {
			c.errs = append(c.errs, fmt.Errorf("%s: %w", name, err))
		}
	})
}

// OnShutdown registers fn to run when Shutdown is called.
func (c *Coordinator) OnShutdown(fn ShutdownHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdown = append(c.shutdown, fn)
}

// Ready reports whether every startup hook has returned.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Pending returns the sorted names of startup hooks still running.
func (c *Coordinator) Pending() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.pending))
}

// WaitForStartup blocks until all startup hooks return, marks the
// coordinator ready, and returns the joined hook errors. Failed hooks do
// not prevent readiness.
func (c *Coordinator) WaitForStartup() error {
	c.startup.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = true
	return errors.Join(c.errs...)
}

// Shutdown cancels the coordinator's context and runs every shutdown hook
// concurrently, waiting at most timeout for them to return.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	c.mu.Lock()
	c.ready = false
	hooks := slices.Clone(c.shutdown)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, fn := range hooks {
		wg.Go(func() { fn(ctx) })
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
