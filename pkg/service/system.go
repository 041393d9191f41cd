package service

import (
	"context"
	"sync"
	"time"

	"github.com/JaimeStill/renci-ner/pkg/lifecycle"
)

// Start registers a startup hook that resolves the service version
// before the application reports ready.
func (c *Client) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("registering service", "url", c.baseURL)

	lc.OnStartup(c.name, func(ctx context.Context) error {
		timeout := c.timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		c.Resolve(ctx)
		return nil
	})

	return nil
}

// ResolveAll resolves every client's version concurrently and waits for all.
func ResolveAll(ctx context.Context, clients ...*Client) {
	var wg sync.WaitGroup
	for _, c := range clients {
		wg.Go(func() {
			c.Resolve(ctx)
		})
	}
	wg.Wait()
}
