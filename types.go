package hdrview

// ColorGamut identifies a supported color gamut.
type ColorGamut int

const (
	GamutUnspecified ColorGamut = iota
	GamutSRGB
	GamutDisplayP3
	GamutBT2020
)

// ColorTransfer identifies a supported transfer function.
type ColorTransfer int

const (
	TransferUnspecified ColorTransfer = iota
	TransferSRGB
	TransferLinear
	TransferHLG
	TransferPQ
	TransferSLog2
	TransferSLog3
)

// ColorSpace pairs a gamut with a transfer function.
type ColorSpace struct {
	Gamut    ColorGamut
	Transfer ColorTransfer
}

// BitDepth selects one of the two render targets.
type BitDepth int

const (
	// DepthExtended16 is the extended-range wide-gamut target; pixel values
	// may exceed 1.0 to preserve headroom.
	DepthExtended16 BitDepth = iota
	// DepthClipped8 is the standard-gamut target; pixel values are
	// hard-clipped to [0, 1].
	DepthClipped8
)

// Bitmap stores decoded pixel data in RGB float32.
// Pixel values are display-referred with 1.0 at SDR reference white;
// DepthExtended16 bitmaps may carry values above 1.0.
type Bitmap struct {
	Width  int
	Height int
	Pix    []float32 // RGB triplets, len = Width*Height*3
	Space  ColorSpace
	Depth  BitDepth
}

// NewBitmap allocates a zeroed bitmap.
func NewBitmap(w, h int, space ColorSpace, depth BitDepth) *Bitmap {
	return &Bitmap{
		Width:  w,
		Height: h,
		Pix:    make([]float32, w*h*3),
		Space:  space,
		Depth:  depth,
	}
}

// At returns the pixel at (x, y).
func (b *Bitmap) At(x, y int) (r, g, bl float32) {
	i := (y*b.Width + x) * 3
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

// Set stores the pixel at (x, y).
func (b *Bitmap) Set(x, y int, r, g, bl float32) {
	i := (y*b.Width + x) * 3
	b.Pix[i], b.Pix[i+1], b.Pix[i+2] = r, g, bl
}

// Clone returns a deep copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	c := *b
	c.Pix = append([]float32(nil), b.Pix...)
	return &c
}

// clipSDR hard-clips all channels to [0, 1] and marks the bitmap as the
// 8-bit standard-gamut target.
func (b *Bitmap) clipSDR() *Bitmap {
	for i, v := range b.Pix {
		b.Pix[i] = clamp01(v)
	}
	b.Depth = DepthClipped8
	return b
}

// RenderedPair is the output of one render call. Either member may be nil
// on failure; a plain (non-HDR) decode populates SDR only.
type RenderedPair struct {
	HDR *Bitmap
	SDR *Bitmap
}
