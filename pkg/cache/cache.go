// Package cache memoizes annotator results in a bounded LRU so repeated
// spans, common when linking a whole table, reach the remote service once.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/renci-ner/annotation"
)

// Annotator wraps another annotation.Annotator with a result cache.
// Concurrent calls for the same key share one upstream request, which
// is bounded by the wrapped service client's timeout rather than by any
// single caller's context.
type Annotator struct {
	next  annotation.Annotator
	cache *lru.Cache[string, *annotation.AnnotatedText]
	group singleflight.Group
}

// New wraps next with an LRU of at most size entries.
func New(next annotation.Annotator, size int) (*Annotator, error) {
	c, err := lru.New[string, *annotation.AnnotatedText](size)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Annotator{next: next, cache: c}, nil
}

// Annotate returns a copy of the cached result for text and props, calling
// the wrapped annotator on a miss. Failures are not cached.
func (a *Annotator) Annotate(ctx context.Context, text string, props annotation.Props) (*annotation.AnnotatedText, error) {
	key, err := cacheKey(text, props)
	if err != nil {
		return a.next.Annotate(ctx, text, props)
	}

	if hit, ok := a.cache.Get(key); ok {
		return hit.Clone(), nil
	}

	// The shared call outlives any one caller; each caller stops waiting
	// on its own cancellation only.
	shared := context.WithoutCancel(ctx)
	ch := a.group.DoChan(key, func() (any, error) {
		result, err := a.next.Annotate(shared, text, props)
		if err != nil {
			return nil, err
		}
		a.cache.Add(key, result)
		return result, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*annotation.AnnotatedText).Clone(), nil
	}
}

func (a *Annotator) SupportedProperties() map[string]string {
	return a.next.SupportedProperties()
}

func (a *Annotator) Provenance() annotation.Provenance {
	return a.next.Provenance()
}

// Len reports the number of cached results.
func (a *Annotator) Len() int {
	return a.cache.Len()
}

// Purge drops every cached result.
func (a *Annotator) Purge() {
	a.cache.Purge()
}

// encoding/json sorts map keys, which makes the encoding canonical.
func cacheKey(text string, props annotation.Props) (string, error) {
	data, err := json.Marshal(struct {
		Text  string           `json:"t"`
		Props annotation.Props `json:"p"`
	}{text, props})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
