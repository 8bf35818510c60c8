package hdrview

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg" // decode jpeg format
	_ "image/png"  // decode png format

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"  // decode bmp format
	_ "golang.org/x/image/tiff" // decode tiff format
	_ "golang.org/x/image/webp" // decode webp format
)

// decodeImage decodes container bytes into an image, optionally bounding
// the larger dimension to maxDim before any pixel math runs. The bound
// keeps prefetch renders cheap.
func decodeImage(data []byte, maxDim int) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.New("invalid image dimensions")
	}
	if maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim) {
		img = resize.Thumbnail(uint(maxDim), uint(maxDim), img, resize.Lanczos3)
	}
	return img, nil
}

// bitmapFromImage converts a decoded image into a normalized float32
// bitmap tagged with space.
func bitmapFromImage(img image.Image, space ColorSpace, depth BitDepth) *Bitmap {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := NewBitmap(w, h, space, depth)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := (y*w + x) * 3
			out.Pix[i] = float32(r) / 65535.0
			out.Pix[i+1] = float32(g) / 65535.0
			out.Pix[i+2] = float32(bl) / 65535.0
		}
	}
	return out
}

// grayFromImage converts a decoded image into a single-channel normalized
// buffer (w*h values), averaging channels for non-gray sources.
func grayFromImage(img image.Image) (pix []float32, w, h int) {
	b := img.Bounds()
	w, h = b.Dx(), b.Dy()
	pix = make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			pix[y*w+x] = (float32(r) + float32(g) + float32(bl)) / (3.0 * 65535.0)
		}
	}
	return pix, w, h
}

// decodePlain is the non-HDR fallback: a standard-gamut clipped bitmap.
func decodePlain(data []byte, maxDim int) (*Bitmap, error) {
	img, err := decodeImage(data, maxDim)
	if err != nil {
		return nil, err
	}
	return bitmapFromImage(img, ColorSpace{Gamut: GamutSRGB, Transfer: TransferSRGB}, DepthClipped8), nil
}
