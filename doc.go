// Package hdrview reconstructs and tone-maps HDR still images and video
// frames from consumer camera files whose HDR encoding is non-standard or
// mislabeled by their containers.
//
// Detection and rendering are dispatched through a fixed-priority list of
// format handlers (gain-map containers first, HLG-declared files second,
// then a vendor maker-note fallback). Rendered HDR/SDR pairs feed a
// preload cache with adjacency-based prefetch and a combined count/memory
// eviction policy, so interactive browsing stays smooth.
package hdrview
