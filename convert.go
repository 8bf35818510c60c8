package hdrview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Convert reprojects a decoded bitmap into the target color space and
// returns a 16-bit-per-channel representation. It fails when the source is
// unreadable or the target space cannot be constructed; it performs no
// caching.
func Convert(src *Bitmap, target ColorSpace) (*image.RGBA64, error) {
	if src == nil || len(src.Pix) == 0 {
		return nil, errors.New("source bitmap unreadable")
	}
	encode, err := transferEncoder(target.Transfer)
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA64(image.Rect(0, 0, src.Width, src.Height))
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			r, g, b := src.At(x, y)
			r, g, b = convertGamut(r, g, b, src.Space.Gamut, target.Gamut)
			out.SetRGBA64(x, y, color.RGBA64{
				R: uint16(clamp01(encode(r)) * 65535.0),
				G: uint16(clamp01(encode(g)) * 65535.0),
				B: uint16(clamp01(encode(b)) * 65535.0),
				A: 0xffff,
			})
		}
	}
	return out, nil
}

func transferEncoder(t ColorTransfer) (func(float32) float32, error) {
	switch t {
	case TransferSRGB, TransferUnspecified:
		return srgbOetf, nil
	case TransferLinear:
		return func(v float32) float32 { return v }, nil
	case TransferHLG:
		return func(v float32) float32 { return hlgOetf(v / 12.0) }, nil
	default:
		return nil, fmt.Errorf("unconstructable target transfer: %d", t)
	}
}

func convertGamut(r, g, b float32, from, to ColorGamut) (float32, float32, float32) {
	if from == to || from == GamutUnspecified || to == GamutUnspecified {
		return r, g, b
	}
	x, y, z := rgbToXYZ(r, g, b, from)
	return xyzToRGB(x, y, z, to)
}

// Matrices are D65 linear RGB <-> XYZ.
func rgbToXYZ(r, g, b float32, from ColorGamut) (float32, float32, float32) {
	switch from {
	case GamutDisplayP3:
		return 0.48657095*r + 0.2656677*g + 0.19821729*b,
			0.22897457*r + 0.69173855*g + 0.07928691*b,
			0.04511338*g + 1.0439444*b
	case GamutBT2020:
		return 0.6369580*r + 0.1446169*g + 0.1688810*b,
			0.2627002*r + 0.6779981*g + 0.0593017*b,
			0.0280727*g + 1.0609851*b
	default:
		return 0.4123908*r + 0.35758433*g + 0.1804808*b,
			0.212639*r + 0.71516865*g + 0.07219232*b,
			0.019330818*r + 0.11919478*g + 0.95053214*b
	}
}

func xyzToRGB(x, y, z float32, to ColorGamut) (float32, float32, float32) {
	switch to {
	case GamutDisplayP3:
		return 2.493497*x - 0.9313836*y - 0.4027108*z,
			-0.829489*x + 1.7626641*y + 0.023624685*z,
			0.03584583*x - 0.07617239*y + 0.9568845*z
	case GamutBT2020:
		return 1.7166512*x - 0.3556708*y - 0.2533663*z,
			-0.6666844*x + 1.6164812*y + 0.0157685*z,
			0.0176399*x - 0.0427706*y + 0.9421031*z
	default:
		return 3.24097*x - 1.5373832*y - 0.49861076*z,
			-0.96924365*x + 1.8759675*y + 0.041555058*z,
			0.05563008*x - 0.20397696*y + 1.0569715*z
	}
}
