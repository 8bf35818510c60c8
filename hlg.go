package hdrview

import "errors"

// ToneMapMode selects one of the five HLG tone-mapping algorithms.
type ToneMapMode int

const (
	// ToneMapReferenceCurve bypasses the container's declared transfer and
	// reinterprets raw samples through the bundled tone-curve profile.
	// This is the default mode.
	ToneMapReferenceCurve ToneMapMode = iota
	// ToneMapHeadroom applies the perceptual tone curve at the target
	// headroom.
	ToneMapHeadroom
	// ToneMapReferenceOOTF applies the reference OOTF with a per-pixel
	// luminance gain.
	ToneMapReferenceOOTF
	// ToneMapMidtoneLift is ToneMapHeadroom followed by a fixed gamma
	// lift.
	ToneMapMidtoneLift
	// ToneMapUniformGamma applies a single scalar power to all channels;
	// trades per-pixel accuracy for smoother highlight rolloff.
	ToneMapUniformGamma
)

// systemGamma is the reference OOTF exponent for a display peak of
// headroom times SDR reference white.
func systemGamma(headroom float32) float32 {
	return 1.2 + 0.42*log10f(headroom*sdrWhiteNits/1000.0)
}

// toneCurve is the perceptual tone-curve operator: monotone, near-identity
// in shadows, saturating at the target headroom.
func toneCurve(v, headroom float32) float32 {
	if v <= 0 {
		return 0
	}
	return v * headroom / (headroom + v)
}

// boostSat moves each channel away from its BT.2020 luminance by the
// saturation boost factor.
func boostSat(r, g, b float32) (float32, float32, float32) {
	y := luma2020(r, g, b)
	return y + (r-y)*saturationBoost,
		y + (g-y)*saturationBoost,
		y + (b-y)*saturationBoost
}

// ToneMapHLG converts an HLG-encoded signal bitmap into a display-referred
// HDR/SDR pair at the given display headroom. The signal bitmap carries raw
// transfer-encoded values in [0, 1].
//
// The HDR member preserves headroom in the extended-range target; the SDR
// member is rendered at headroom clamped to 1.0 and hard-clipped.
func ToneMapHLG(signal *Bitmap, mode ToneMapMode, headroom float32) (*RenderedPair, error) {
	if signal == nil || len(signal.Pix) == 0 {
		return nil, errors.New("empty signal bitmap")
	}
	if headroom < 1 {
		headroom = 1
	}
	var curve *ToneCurveProfile
	if mode == ToneMapReferenceCurve {
		curve = LoadToneCurve()
		if curve == nil {
			return nil, errors.New("bundled tone-curve profile unavailable")
		}
	}
	hdr := toneMapPass(signal, mode, headroom, curve)
	hdr.Depth = DepthExtended16
	sdr := toneMapPass(signal, mode, 1.0, curve).clipSDR()
	return &RenderedPair{HDR: hdr, SDR: sdr}, nil
}

func toneMapPass(signal *Bitmap, mode ToneMapMode, headroom float32, curve *ToneCurveProfile) *Bitmap {
	out := NewBitmap(signal.Width, signal.Height, ColorSpace{Gamut: GamutBT2020, Transfer: TransferLinear}, DepthExtended16)
	// Normalize scene light so the 75%-signal point (reference white)
	// lands at 1.0.
	whiteScale := 1.0 / hlgInvOetf(0.75)
	refScale := float32(1)
	if curve != nil {
		refScale = curve.ReferenceWhiteScale
	}
	n := len(signal.Pix)
	for i := 0; i < n; i += 3 {
		var r, g, b float32
		if mode == ToneMapReferenceCurve {
			// Exact mode: the curve's sampled values apply natively, then
			// reference white is rescaled to 1.0.
			r = curve.Apply(signal.Pix[i]) * refScale
			g = curve.Apply(signal.Pix[i+1]) * refScale
			b = curve.Apply(signal.Pix[i+2]) * refScale
		} else {
			r = hlgInvOetf(signal.Pix[i]) * whiteScale
			g = hlgInvOetf(signal.Pix[i+1]) * whiteScale
			b = hlgInvOetf(signal.Pix[i+2]) * whiteScale
		}

		switch mode {
		case ToneMapReferenceCurve, ToneMapHeadroom:
			r = toneCurve(r, headroom)
			g = toneCurve(g, headroom)
			b = toneCurve(b, headroom)
		case ToneMapReferenceOOTF:
			y := luma2020(r, g, b)
			if y > 0 {
				gain := powf(y, systemGamma(headroom)-1)
				r *= gain
				g *= gain
				b *= gain
			}
		case ToneMapMidtoneLift:
			r = powf(toneCurve(r, headroom), midtoneLiftGamma)
			g = powf(toneCurve(g, headroom), midtoneLiftGamma)
			b = powf(toneCurve(b, headroom), midtoneLiftGamma)
		case ToneMapUniformGamma:
			p := systemGamma(headroom) / 1.2
			r = powf(r, p)
			g = powf(g, p)
			b = powf(b, p)
		}

		r, g, b = boostSat(r, g, b)
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = r, g, b
	}
	return out
}
