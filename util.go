package hdrview

import "math"

func log2f(v float32) float32 { return float32(math.Log2(float64(v))) }

func exp2f(v float32) float32 { return float32(math.Exp2(float64(v))) }

func log10f(v float32) float32 { return float32(math.Log10(float64(v))) }

func powf(v, p float32) float32 { return float32(math.Pow(float64(v), float64(p))) }

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func srgbInvOetf(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return powf((v+0.055)/1.055, 2.4)
}

func srgbOetf(v float32) float32 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*powf(v, 1.0/2.4) - 0.055
}

// HLG OETF constants per ITU-R BT.2100.
const (
	hlgA = 0.17883277
	hlgB = 0.28466892
	hlgC = 0.55991073
)

// hlgInvOetf maps an HLG signal in [0, 1] to normalized scene light in
// [0, 1].
func hlgInvOetf(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v <= 0.5 {
		return v * v / 3.0
	}
	return (float32(math.Exp(float64((v-hlgC)/hlgA))) + hlgB) / 12.0
}

// hlgOetf is the inverse of hlgInvOetf.
func hlgOetf(e float32) float32 {
	if e < 0 {
		return 0
	}
	if e <= 1.0/12.0 {
		return float32(math.Sqrt(float64(3.0 * e)))
	}
	return hlgA*float32(math.Log(float64(12.0*e-hlgB))) + hlgC
}

// BT.2020 luma weights.
const (
	lumaR2020 = 0.2627
	lumaG2020 = 0.6780
	lumaB2020 = 0.0593
)

func luma2020(r, g, b float32) float32 {
	return lumaR2020*r + lumaG2020*g + lumaB2020*b
}
