package hdrview

import "context"

// Renderer produces a cache entry for one path. Implementations are pure
// functions of their inputs and may run fully in parallel across files.
type Renderer func(ctx context.Context, path string, tok AccessToken) (*ImageEntry, error)

// Preloader drives the cache from the navigation model: it prefetches
// neighbors of the current item over a bounded worker pool and evicts
// stale entries afterwards.
//
// Superseded requests are not cancelled; they complete, land in the cache
// and are reclaimed by a later eviction if never viewed.
type Preloader struct {
	cache  *Cache
	render Renderer
	opts   Options
	sem    chan struct{}
}

// NewPreloader builds a preloader over cache using render for decode work.
func NewPreloader(cache *Cache, render Renderer, opts ...func(o *Options)) *Preloader {
	o := defaultOptions()
	for _, applyOpt := range opts {
		applyOpt(&o)
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return &Preloader{
		cache:  cache,
		render: render,
		opts:   o,
		sem:    make(chan struct{}, o.Workers),
	}
}

// Visit records a view of paths[index], schedules renders for the item and
// its prefetch window, and evicts entries outside the window and the
// history budget. Tokens, when present, are keyed by path. Visit never
// blocks on decode work; lookups and bookkeeping are the only synchronous
// steps.
func (p *Preloader) Visit(ctx context.Context, paths []string, index int, tokens map[string]AccessToken) {
	if index < 0 || index >= len(paths) {
		return
	}
	p.cache.RecordView(paths[index])

	lo := index - p.opts.PrefetchCount
	if lo < 0 {
		lo = 0
	}
	hi := index + p.opts.PrefetchCount
	if hi > len(paths)-1 {
		hi = len(paths) - 1
	}

	keep := make(map[string]struct{}, hi-lo+1)
	for i := lo; i <= hi; i++ {
		path := paths[i]
		keep[path] = struct{}{}
		if _, ok := p.cache.Get(path); ok {
			continue
		}
		if p.cache.IsLoading(path) {
			continue
		}
		// Flag before any suspension point so concurrent visits cannot
		// double-schedule.
		p.cache.MarkLoading(path)
		go p.fetch(ctx, path, tokens[path])
	}

	p.cache.Evict(keep, p.opts.CacheHistoryCount, int64(p.opts.CacheHistoryMemoryLimitMB)*1024*1024)
}

func (p *Preloader) fetch(ctx context.Context, path string, tok AccessToken) {
	p.sem <- struct{}{}
	defer func() { <-p.sem }()

	entry, err := p.render(ctx, path, tok)
	if err != nil || entry == nil {
		// Surface as "no image"; the next navigation may re-trigger.
		p.cache.ClearLoading(path)
		return
	}
	p.cache.Set(path, entry)
}

// DefaultRenderer renders through the format registry with the given
// environment.
func DefaultRenderer(env RenderEnv) Renderer {
	return func(_ context.Context, path string, tok AccessToken) (*ImageEntry, error) {
		pair, spec, err := RenderFile(path, tok, env)
		if err != nil {
			return nil, err
		}
		return &ImageEntry{Pair: pair, Spec: spec}, nil
	}
}
