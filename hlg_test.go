package hdrview

import "testing"

func TestSystemGamma(t *testing.T) {
	// At a display peak of 1000 nits the reference exponent is exactly 1.2.
	h := float32(1000.0 / sdrWhiteNits)
	if g := systemGamma(h); g < 1.1999 || g > 1.2001 {
		t.Fatalf("systemGamma(%v) = %v, want 1.2", h, g)
	}
	if systemGamma(4) <= systemGamma(2) {
		t.Fatalf("systemGamma not increasing with headroom")
	}
}

func TestToneCurve(t *testing.T) {
	if toneCurve(0, 2) != 0 {
		t.Fatalf("toneCurve(0) != 0")
	}
	prev := float32(-1)
	for i := 0; i <= 200; i++ {
		v := toneCurve(float32(i)/20.0, 4)
		if v < prev {
			t.Fatalf("tone curve not monotone at %d", i)
		}
		if v > 4 {
			t.Fatalf("tone curve exceeds headroom: %v", v)
		}
		prev = v
	}
}

func TestHLGOetfRoundTrip(t *testing.T) {
	for i := 0; i <= 100; i++ {
		s := float32(i) / 100.0
		got := hlgOetf(hlgInvOetf(s))
		if diff := got - s; diff > 1e-4 || diff < -1e-4 {
			t.Fatalf("round trip at %v: got %v", s, got)
		}
	}
}

func TestBoostSatPreservesGray(t *testing.T) {
	r, g, b := boostSat(0.5, 0.5, 0.5)
	for _, v := range []float32{r, g, b} {
		if v < 0.4999 || v > 0.5001 {
			t.Fatalf("gray shifted by saturation boost: %v %v %v", r, g, b)
		}
	}
}

func signalBitmap() *Bitmap {
	b := NewBitmap(2, 2, ColorSpace{Gamut: GamutBT2020, Transfer: TransferHLG}, DepthClipped8)
	vals := []float32{0.1, 0.5, 0.75, 1.0}
	for p, v := range vals {
		b.Pix[p*3], b.Pix[p*3+1], b.Pix[p*3+2] = v, v, v
	}
	return b
}

func TestToneMapHLGModes(t *testing.T) {
	modes := []struct {
		name string
		mode ToneMapMode
	}{
		{name: "reference-curve", mode: ToneMapReferenceCurve},
		{name: "headroom", mode: ToneMapHeadroom},
		{name: "reference-ootf", mode: ToneMapReferenceOOTF},
		{name: "midtone-lift", mode: ToneMapMidtoneLift},
		{name: "uniform-gamma", mode: ToneMapUniformGamma},
	}
	for _, tc := range modes {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			pair, err := ToneMapHLG(signalBitmap(), tc.mode, 2.0)
			if err != nil {
				t.Fatalf("tone map: %v", err)
			}
			if pair.HDR == nil || pair.SDR == nil {
				t.Fatalf("incomplete pair")
			}
			if pair.HDR.Depth != DepthExtended16 {
				t.Fatalf("hdr depth = %v", pair.HDR.Depth)
			}
			if pair.SDR.Depth != DepthClipped8 {
				t.Fatalf("sdr depth = %v", pair.SDR.Depth)
			}
			for i, v := range pair.SDR.Pix {
				if v > 1.0 {
					t.Fatalf("sdr[%d] = %v, exceeds 1.0", i, v)
				}
			}
		})
	}
}

func TestToneMapHLGEmptyInput(t *testing.T) {
	if _, err := ToneMapHLG(nil, ToneMapHeadroom, 2); err == nil {
		t.Fatalf("expected error for nil signal")
	}
}

func TestToneMapHLGReferenceWhite(t *testing.T) {
	// A 75%-signal gray is reference white: the exact mode must map it to
	// 1.0 before the perceptual curve, so at high headroom the rendered
	// value sits near toneCurve(1, h).
	b := grayBitmap(1, 1, 0.75)
	pair, err := ToneMapHLG(b, ToneMapReferenceCurve, 8)
	if err != nil {
		t.Fatalf("tone map: %v", err)
	}
	want := toneCurve(1.0, 8)
	got := pair.HDR.Pix[0]
	if diff := got - want; diff > 0.01 || diff < -0.01 {
		t.Fatalf("reference white rendered at %v, want about %v", got, want)
	}
}
