package hdrview

// Options are the externally-owned configuration inputs read by the
// preloader.
type Options struct {
	// PrefetchCount is how many neighbors each direction to preload.
	PrefetchCount int
	// CacheHistoryCount bounds eviction retention by entry count.
	CacheHistoryCount int
	// CacheHistoryMemoryLimitMB bounds eviction retention by estimated
	// memory; 0 means unlimited.
	CacheHistoryMemoryLimitMB int
	// ToneMapMode selects the HLG tone-mapping algorithm.
	ToneMapMode ToneMapMode
	// DeveloperMode gates mode-switching affordances in tooling; it
	// changes no core behavior.
	DeveloperMode bool
	// Workers bounds the decode/render pool.
	Workers int
}

func defaultOptions() Options {
	return Options{
		PrefetchCount:     2,
		CacheHistoryCount: 12,
		ToneMapMode:       ToneMapReferenceCurve,
		Workers:           4,
	}
}
