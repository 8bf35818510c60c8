package hdrview

import (
	"bytes"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
)

//go:embed profiles/hlgref.icc
var profileFS embed.FS

const bundledProfilePath = "profiles/hlgref.icc"

const (
	curveTagOffset   = 128
	curveSampleCount = 1024
	// referenceWhiteIndex is the 75%-signal sample; the curve value there
	// defines SDR reference white.
	referenceWhiteIndex = 768
)

var curveTagSig = []byte("curv")

// ToneCurveProfile holds the bundled profile's tone-response curve.
// Loaded once per process and never mutated afterwards; safe for
// concurrent read.
type ToneCurveProfile struct {
	// Samples are the 1024 big-endian curve samples, signal-ordered.
	Samples []uint16
	// ReferenceWhiteScale is the inverse of the curve value at the
	// 75%-signal index: multiplying curve output by it maps reference
	// white to 1.0 and brighter content above 1.0.
	ReferenceWhiteScale float32
}

var (
	curveOnce    sync.Once
	curveProfile *ToneCurveProfile
)

// LoadToneCurve returns the bundled tone-curve profile, or nil when the
// resource is missing or malformed. The result is cached process-wide.
func LoadToneCurve() *ToneCurveProfile {
	curveOnce.Do(func() {
		data, err := profileFS.ReadFile(bundledProfilePath)
		if err != nil {
			return
		}
		p, err := parseToneCurve(data)
		if err != nil {
			return
		}
		curveProfile = p
	})
	return curveProfile
}

// parseToneCurve decodes the fixed-layout curve tag: signature, 4 reserved
// bytes and a sample count at curveTagOffset, followed by 2-byte big-endian
// samples.
func parseToneCurve(data []byte) (*ToneCurveProfile, error) {
	off := curveTagOffset
	if len(data) < off+12 {
		return nil, errors.New("profile too short")
	}
	if !bytes.Equal(data[off:off+4], curveTagSig) {
		return nil, errors.New("curve tag signature missing")
	}
	count := int(binary.BigEndian.Uint32(data[off+8:]))
	if count != curveSampleCount {
		return nil, fmt.Errorf("unexpected curve sample count: %d", count)
	}
	if len(data) < off+12+count*2 {
		return nil, errors.New("curve tag truncated")
	}
	samples := make([]uint16, count)
	for i := 0; i < count; i++ {
		samples[i] = binary.BigEndian.Uint16(data[off+12+i*2:])
	}
	white := float32(samples[referenceWhiteIndex]) / 65535.0
	if white <= 0 {
		return nil, errors.New("degenerate reference white sample")
	}
	return &ToneCurveProfile{
		Samples:             samples,
		ReferenceWhiteScale: 1.0 / white,
	}, nil
}

// Apply evaluates the curve at signal in [0, 1] with linear interpolation
// between samples.
func (p *ToneCurveProfile) Apply(signal float32) float32 {
	s := clamp01(signal) * float32(len(p.Samples)-1)
	i := int(s)
	if i >= len(p.Samples)-1 {
		return float32(p.Samples[len(p.Samples)-1]) / 65535.0
	}
	frac := s - float32(i)
	a := float32(p.Samples[i]) / 65535.0
	b := float32(p.Samples[i+1]) / 65535.0
	return a + (b-a)*frac
}

// referenceWhiteScale returns the bundled profile's scale, or the fixed
// default when the resource is unavailable.
func referenceWhiteScale() float32 {
	if p := LoadToneCurve(); p != nil {
		return p.ReferenceWhiteScale
	}
	return defaultReferenceWhiteScale
}
