package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/vearutop/hdrview"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "detect":
		if err := runDetect(os.Args[2:]); err != nil {
			fail(err)
		}
	case "render":
		if err := runRender(os.Args[2:]); err != nil {
			fail(err)
		}
	case "profile":
		if err := runProfile(os.Args[2:]); err != nil {
			fail(err)
		}
	case "convert":
		if err := runConvert(os.Args[2:]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: hdrviewtool <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  detect  -in input.jpg")
	fmt.Fprintln(os.Stderr, "  render  -in input.jpg -sdr-out sdr.png [-hdr-out hdr.png] [-headroom 2.0] [-max-dim N] [-dev -mode 0..4]")
	fmt.Fprintln(os.Stderr, "  profile -in input.jpg")
	fmt.Fprintln(os.Stderr, "  convert -in input.jpg -out out.png [-gamut srgb|p3|bt2020]")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func runDetect(args []string) error {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}
	src, err := newSource(*inPath)
	if err != nil {
		return err
	}
	spec := hdrview.DetectRenderSpec(src)
	if spec == nil {
		fmt.Println("no HDR format detected")
		return nil
	}
	fmt.Printf("%s (separate SDR: %v)\n", spec.Label(), spec.SeparateSDR())
	return nil
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	sdrOut := fs.String("sdr-out", "", "write SDR render as PNG")
	hdrOut := fs.String("hdr-out", "", "write HDR render as 16-bit PNG")
	headroom := fs.Float64("headroom", 2.0, "target display headroom")
	maxDim := fs.Int("max-dim", 0, "bound the larger decode dimension")
	dev := fs.Bool("dev", false, "expose developer affordances")
	mode := fs.Int("mode", int(hdrview.ToneMapReferenceCurve), "tone-map mode (requires -dev)")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *sdrOut == "" {
		return errors.New("missing required arguments")
	}
	env := hdrview.RenderEnv{
		DisplayHeadroom: float32(*headroom),
		ToneMapMode:     hdrview.ToneMapReferenceCurve,
		MaxDimension:    *maxDim,
	}
	if *dev {
		env.ToneMapMode = hdrview.ToneMapMode(*mode)
	}
	pair, spec, err := hdrview.RenderFile(*inPath, nil, env)
	if err != nil {
		return err
	}
	if spec != nil {
		fmt.Println("format:", spec.Label())
	}
	if pair.SDR != nil {
		if err := writePNG(*sdrOut, bitmapToNRGBA(pair.SDR)); err != nil {
			return fmt.Errorf("write sdr: %w", err)
		}
	}
	if *hdrOut != "" && pair.HDR != nil {
		img, err := hdrview.Convert(pair.HDR, hdrview.ColorSpace{Gamut: hdrview.GamutBT2020, Transfer: hdrview.TransferHLG})
		if err != nil {
			return fmt.Errorf("convert hdr: %w", err)
		}
		if err := writePNG(*hdrOut, img); err != nil {
			return fmt.Errorf("write hdr: %w", err)
		}
	}
	return nil
}

func runProfile(args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}
	data, err := os.ReadFile(filepath.Clean(*inPath))
	if err != nil {
		return err
	}
	v, ok := hdrview.DecodeVendorProfile(data)
	if !ok {
		fmt.Println("no profile")
		return nil
	}
	fmt.Printf("%d: %s\n", v, hdrview.ProfileName(v))
	return nil
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	outPath := fs.String("out", "", "output PNG")
	gamut := fs.String("gamut", "srgb", "target gamut: srgb, p3 or bt2020")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}
	var g hdrview.ColorGamut
	switch *gamut {
	case "srgb":
		g = hdrview.GamutSRGB
	case "p3":
		g = hdrview.GamutDisplayP3
	case "bt2020":
		g = hdrview.GamutBT2020
	default:
		return fmt.Errorf("unknown gamut: %s", *gamut)
	}
	pair, _, err := hdrview.RenderFile(*inPath, nil, hdrview.RenderEnv{DisplayHeadroom: 1})
	if err != nil {
		return err
	}
	bm := pair.HDR
	if bm == nil {
		bm = pair.SDR
	}
	if bm == nil {
		return errors.New("no image")
	}
	img, err := hdrview.Convert(bm, hdrview.ColorSpace{Gamut: g, Transfer: hdrview.TransferSRGB})
	if err != nil {
		return err
	}
	return writePNG(*outPath, img)
}

func newSource(path string) (*hdrview.Source, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	return hdrview.SourceFromBytes(path, data), nil
}

func bitmapToNRGBA(b *hdrview.Bitmap) image.Image {
	out := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			r, g, bl := b.At(x, y)
			out.SetNRGBA(x, y, color.NRGBA{
				R: uint8(clamp01(r)*255.0 + 0.5),
				G: uint8(clamp01(g)*255.0 + 0.5),
				B: uint8(clamp01(bl)*255.0 + 0.5),
				A: 0xff,
			})
		}
	}
	return out
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
