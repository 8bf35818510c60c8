package hdrview

// RenderSpec describes one detected file format: a display badge label,
// whether SDR output is a separately rendered bitmap (vs a runtime
// dynamic-range toggle), and the detect/render pair. Specs are bound to
// one file transiently during a render call and never persisted.
type RenderSpec interface {
	// Label is the badge shown for files matching this format.
	Label() string
	// SeparateSDR reports whether the SDR member is rendered as its own
	// bitmap rather than toggled at playback time.
	SeparateSDR() bool
	// Detect reports whether src matches this format. It must be
	// side-effect-free beyond reading file bytes.
	Detect(src *Source) bool
	// Render produces the HDR/SDR pair. A returned error is advisory:
	// callers degrade to a plain decode and keep the badge.
	Render(src *Source, env RenderEnv) (*RenderedPair, error)
}

// RenderEnv carries per-render runtime parameters, read once per call.
type RenderEnv struct {
	// DisplayHeadroom is the display's current peak-to-reference ratio.
	DisplayHeadroom float32
	// ToneMapMode selects the HLG tone-mapping algorithm.
	ToneMapMode ToneMapMode
	// MaxDimension, when >0, bounds the decoded size before rendering.
	MaxDimension int
}

// renderSpecs is the fixed priority list. Order matters: gain-map
// containers can also pass the coarse HLG heuristics, so the gain-map
// spec is tried first and ties resolve to it.
var renderSpecs = []RenderSpec{
	gainMapSpec{},
	hlgSpec{},
}

// DetectRenderSpec returns the first matching spec in priority order. When
// no registered spec matches, the vendor maker-note secondary detector is
// consulted; nil means plain decode.
func DetectRenderSpec(src *Source) RenderSpec {
	for _, s := range renderSpecs {
		if s.Detect(src) {
			return s
		}
	}
	return detectVendorProfile(src)
}

// RenderFile resolves path (under the token's scoped access), detects its
// format and renders an HDR/SDR pair. Recoverable decode failures degrade
// to a plain decoded bitmap; the returned error is non-nil only when even
// the plain decode failed ("no image").
func RenderFile(path string, tok AccessToken, env RenderEnv) (*RenderedPair, RenderSpec, error) {
	src, err := NewSource(path, tok)
	if err != nil {
		return nil, nil, err
	}
	return RenderSource(src, env)
}

// RenderSource is RenderFile over an already-read source.
func RenderSource(src *Source, env RenderEnv) (*RenderedPair, RenderSpec, error) {
	spec := DetectRenderSpec(src)
	if spec != nil {
		if pair, err := spec.Render(src, env); err == nil {
			return pair, spec, nil
		}
		// Degrade but keep the badge.
	}
	pair, err := plainPair(src, env)
	if err != nil {
		return nil, spec, err
	}
	return pair, spec, nil
}

// plainPair is the non-HDR fallback: a plain decoded bitmap, no SDR pair.
func plainPair(src *Source, env RenderEnv) (*RenderedPair, error) {
	bm, err := decodePlain(src.Bytes(), env.MaxDimension)
	if err != nil {
		return nil, err
	}
	return &RenderedPair{SDR: bm}, nil
}

// hlgSpec renders files whose container correctly declares the HLG
// transfer characteristic.
type hlgSpec struct{}

func (hlgSpec) Label() string { return "HLG" }

func (hlgSpec) SeparateSDR() bool { return true }

func (hlgSpec) Detect(src *Source) bool {
	return src.DeclaredSpace().Transfer == TransferHLG
}

func (hlgSpec) Render(src *Source, env RenderEnv) (*RenderedPair, error) {
	return renderHLG(src, env)
}

func renderHLG(src *Source, env RenderEnv) (*RenderedPair, error) {
	img, err := decodeImage(src.Bytes(), env.MaxDimension)
	if err != nil {
		return nil, err
	}
	// The decoded samples are raw HLG signal values.
	signal := bitmapFromImage(img, ColorSpace{Gamut: GamutBT2020, Transfer: TransferHLG}, DepthClipped8)
	return ToneMapHLG(signal, env.ToneMapMode, env.DisplayHeadroom)
}

// vendorProfileSpec is produced by the secondary detector when the vendor
// maker note identifies an HDR encoding the container mislabels.
type vendorProfileSpec struct {
	profile  uint8
	transfer ColorTransfer
}

func (s vendorProfileSpec) Label() string { return ProfileName(s.profile) }

func (s vendorProfileSpec) SeparateSDR() bool { return s.transfer == TransferHLG }

func (s vendorProfileSpec) Detect(src *Source) bool {
	v, ok := DecodeVendorProfile(src.Bytes())
	return ok && v == s.profile
}

func (s vendorProfileSpec) Render(src *Source, env RenderEnv) (*RenderedPair, error) {
	if s.transfer == TransferHLG {
		// Override the container's (incorrect) declared color space with
		// the standard HLG transfer and run the shared engine.
		return renderHLG(src, env)
	}
	// Logarithmic profiles are detected but passed through undecoded; the
	// badge still reflects detection.
	return plainPair(src, env)
}

// detectVendorProfile consults the maker-note decoder after the primary
// registry finds no match.
func detectVendorProfile(src *Source) RenderSpec {
	v, ok := DecodeVendorProfile(src.Bytes())
	if !ok {
		return nil
	}
	if hlgProfileCodes[v] {
		return vendorProfileSpec{profile: v, transfer: TransferHLG}
	}
	if t, ok := logProfileCodes[v]; ok {
		return vendorProfileSpec{profile: v, transfer: t}
	}
	return nil
}
