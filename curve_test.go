package hdrview

import (
	"math"
	"testing"
)

func TestLoadToneCurve(t *testing.T) {
	p := LoadToneCurve()
	if p == nil {
		t.Fatalf("bundled profile missing")
	}
	if len(p.Samples) != curveSampleCount {
		t.Fatalf("sample count = %d", len(p.Samples))
	}
	s := p.ReferenceWhiteScale
	if s <= 0 || math.IsInf(float64(s), 0) || math.IsNaN(float64(s)) {
		t.Fatalf("reference white scale = %v", s)
	}
	// The 75%-signal sample must map back to 1.0 under the scale.
	white := float32(p.Samples[referenceWhiteIndex]) / 65535.0
	if got := white * s; got < 0.999 || got > 1.001 {
		t.Fatalf("white*scale = %v, want 1.0", got)
	}
}

func TestParseToneCurveTruncated(t *testing.T) {
	if _, err := parseToneCurve(make([]byte, 64)); err == nil {
		t.Fatalf("expected error for short profile")
	}
	data := make([]byte, curveTagOffset+12)
	copy(data[curveTagOffset:], curveTagSig)
	// Count says 1024 but no samples follow.
	data[curveTagOffset+10] = 0x04
	if _, err := parseToneCurve(data); err == nil {
		t.Fatalf("expected error for truncated samples")
	}
}

func TestParseToneCurveBadSignature(t *testing.T) {
	data := make([]byte, curveTagOffset+12+curveSampleCount*2)
	if _, err := parseToneCurve(data); err == nil {
		t.Fatalf("expected error for missing signature")
	}
}

func TestToneCurveApplyMonotone(t *testing.T) {
	p := LoadToneCurve()
	if p == nil {
		t.Skip("bundled profile missing")
	}
	prev := float32(-1)
	for i := 0; i <= 100; i++ {
		v := p.Apply(float32(i) / 100.0)
		if v < prev {
			t.Fatalf("curve not monotone at %d: %v < %v", i, v, prev)
		}
		prev = v
	}
	if p.Apply(0) > 0.001 {
		t.Fatalf("curve at 0 = %v", p.Apply(0))
	}
}

func TestReferenceWhiteScaleFallback(t *testing.T) {
	if s := referenceWhiteScale(); s <= 0 {
		t.Fatalf("scale = %v", s)
	}
}
