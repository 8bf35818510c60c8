package hdrview

import "sync"

// ImageEntry is a rendered still image held by the cache. The entry
// exclusively owns its pair until eviction.
type ImageEntry struct {
	Pair *RenderedPair
	// Spec is the matched render spec, or nil for a plain decode.
	Spec RenderSpec
}

// VideoEntry is a classified video held by the cache.
type VideoEntry struct {
	Handle         PlayHandle
	Transfer       ColorTransfer
	HDRComposition CompositionDescriptor
	SDRComposition CompositionDescriptor
}

// footprint estimates entry memory as width*height*8 bytes per stored
// bitmap (16-bit, 4-channel), summed over the HDR/SDR members.
func (e *ImageEntry) footprint() int64 {
	if e == nil || e.Pair == nil {
		return 0
	}
	var n int64
	if b := e.Pair.HDR; b != nil {
		n += int64(b.Width) * int64(b.Height) * 8
	}
	if b := e.Pair.SDR; b != nil {
		n += int64(b.Width) * int64(b.Height) * 8
	}
	return n
}

// historyFloor bounds view-history growth independent of configured
// limits.
const historyFloor = 50

// Cache is the preload cache: image and video entries keyed by path, a
// loading set for duplicate-fetch suppression and an ordered view history.
//
// All state is mutated under a single mutex and no method blocks or calls
// out while holding it, so check-then-act sequences (IsLoading followed by
// MarkLoading) and read-modify-write sequences (Evict) stay race-free.
type Cache struct {
	mu      sync.Mutex
	images  map[string]*ImageEntry
	videos  map[string]*VideoEntry
	loading map[string]struct{}
	history []string // oldest to newest, deduplicated
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		images:  make(map[string]*ImageEntry),
		videos:  make(map[string]*VideoEntry),
		loading: make(map[string]struct{}),
	}
}

// Get returns the image entry for path, if present.
func (c *Cache) Get(path string) (*ImageEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.images[path]
	return e, ok
}

// GetVideo returns the video entry for path, if present.
func (c *Cache) GetVideo(path string) (*VideoEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.videos[path]
	return e, ok
}

// Set inserts or replaces the image entry for path and clears its loading
// flag.
func (c *Cache) Set(path string, e *ImageEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images[path] = e
	delete(c.loading, path)
}

// SetVideo inserts or replaces the video entry for path and clears its
// loading flag.
func (c *Cache) SetVideo(path string, e *VideoEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.videos[path] = e
	delete(c.loading, path)
}

// MarkLoading flags path as being fetched. Callers must check IsLoading
// first and call MarkLoading before any suspension point.
func (c *Cache) MarkLoading(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading[path] = struct{}{}
}

// IsLoading reports whether a fetch for path is in flight.
func (c *Cache) IsLoading(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.loading[path]
	return ok
}

// ClearLoading drops the loading flag without storing an entry, so a
// failed fetch can be re-triggered by the next navigation.
func (c *Cache) ClearLoading(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.loading, path)
}

// RecordView moves path to the most-recent position in the view history.
func (c *Cache) RecordView(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, p := range c.history {
		if p == path {
			c.history = append(c.history[:i], c.history[i+1:]...)
			break
		}
	}
	c.history = append(c.history, path)
}

// Evict drops stale entries. Paths in keep (the current item and its
// prefetch window) are never evicted. Beyond that, the view history is
// walked newest to oldest, accumulating retained paths until historyCount
// entries are retained or adding the next entry's estimated footprint
// would exceed memLimitBytes (0 = unlimited). Every entry outside
// keep and the retained set is dropped; video handles are stopped first.
func (c *Cache) Evict(keep map[string]struct{}, historyCount int, memLimitBytes int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	retained := make(map[string]struct{}, historyCount)
	var usedMem int64
	for i := len(c.history) - 1; i >= 0; i-- {
		p := c.history[i]
		if _, ok := keep[p]; ok {
			continue
		}
		if len(retained) >= historyCount {
			break
		}
		fp := c.images[p].footprint()
		if memLimitBytes > 0 && usedMem+fp > memLimitBytes {
			break
		}
		retained[p] = struct{}{}
		usedMem += fp
	}

	for p, e := range c.videos {
		if _, ok := keep[p]; ok {
			continue
		}
		if _, ok := retained[p]; ok {
			continue
		}
		if e.Handle != nil {
			e.Handle.Stop()
		}
		delete(c.videos, p)
	}
	for p := range c.images {
		if _, ok := keep[p]; ok {
			continue
		}
		if _, ok := retained[p]; ok {
			continue
		}
		delete(c.images, p)
	}

	max := 2 * historyCount
	if max < historyFloor {
		max = historyFloor
	}
	if len(c.history) > max {
		c.history = append([]string(nil), c.history[len(c.history)-max:]...)
	}
}

// History returns a copy of the view history, oldest first.
func (c *Cache) History() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.history...)
}
