package hdrview

import "bytes"

// PlayHandle is an active playback resource owned by a video cache entry.
// Eviction stops the handle before dropping the entry.
type PlayHandle interface {
	Stop()
}

// CompositionDescriptor instructs the playback surface how to compose a
// video layer. Two descriptors are precomputed per entry so the surface
// can toggle dynamic range without re-probing the file.
type CompositionDescriptor struct {
	// PreserveHDR keeps the content headroom; false forces SDR.
	PreserveHDR bool
	Transfer    ColorTransfer
	// Headroom is the target peak-to-reference ratio for this layer.
	Headroom float32
}

// ClassifyVideoTransfer probes container-level colour information for the
// transfer characteristic. No codec-level decoding happens here; the
// result is a render instruction for the downstream playback engine.
func ClassifyVideoTransfer(data []byte) ColorTransfer {
	if t, ok := nclxTransfer(data); ok {
		switch t {
		case transferCodeHLG:
			return TransferHLG
		case transferCodePQ:
			return TransferPQ
		}
	}
	lower := bytes.ToLower(data)
	for _, tok := range hlgTokens {
		if bytes.Contains(lower, tok) {
			return TransferHLG
		}
	}
	for _, tok := range pqTokens {
		if bytes.Contains(lower, tok) {
			return TransferPQ
		}
	}
	return TransferSRGB
}

// BuildVideoEntry classifies the container and precomputes the
// HDR-preserving and SDR-forcing composition descriptors.
func BuildVideoEntry(data []byte, handle PlayHandle, displayHeadroom float32) *VideoEntry {
	transfer := ClassifyVideoTransfer(data)
	if displayHeadroom < 1 {
		displayHeadroom = 1
	}
	hdrHeadroom := displayHeadroom
	if transfer == TransferSRGB {
		hdrHeadroom = 1
	}
	return &VideoEntry{
		Handle:   handle,
		Transfer: transfer,
		HDRComposition: CompositionDescriptor{
			PreserveHDR: transfer != TransferSRGB,
			Transfer:    transfer,
			Headroom:    hdrHeadroom,
		},
		SDRComposition: CompositionDescriptor{
			PreserveHDR: false,
			Transfer:    transfer,
			Headroom:    1,
		},
	}
}
