package hdrview

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strconv"

	"github.com/disintegration/imaging"
)

// JPEG markers.
const (
	markerStart = 0xff
	markerSOI   = 0xd8
	markerEOI   = 0xd9
	markerSOS   = 0xda
	markerAPP1  = 0xe1
	markerAPP2  = 0xe2
)

const (
	xmpNamespace = "http://ns.adobe.com/xap/1.0/"
	isoNamespace = "urn:iso:std:iso:ts:21496:-1"
)

var (
	xmpPrefix = append([]byte(xmpNamespace), 0)
	isoPrefix = append([]byte(isoNamespace), 0)
)

var capacityMaxAttr = []byte(`hdrgm:HDRCapacityMax="`)

// gainMapSpec renders containers that carry an SDR base image plus an
// auxiliary single-channel gain map as a secondary JPEG image.
type gainMapSpec struct{}

func (gainMapSpec) Label() string { return "HDR Gain Map" }

func (gainMapSpec) SeparateSDR() bool { return true }

func (gainMapSpec) Detect(src *Source) bool {
	data := src.Bytes()
	if off := secondaryImageOffset(data); off >= 0 && hasGainMapMetadata(data[off:]) {
		return true
	}
	// Fallback heuristic for containers that drop the auxiliary metadata
	// segments but keep the vendor sentinel.
	v, ok := customRendered(data)
	return ok && v == customRenderedGainMap
}

func (gainMapSpec) Render(src *Source, env RenderEnv) (*RenderedPair, error) {
	data := src.Bytes()
	off := secondaryImageOffset(data)
	if off < 0 {
		return nil, errors.New("no auxiliary gain-map image")
	}
	baseImg, err := decodeImage(data[:off], env.MaxDimension)
	if err != nil {
		return nil, err
	}
	gmImg, err := decodeImage(data[off:], 0)
	if err != nil {
		return nil, err
	}
	base := bitmapFromImage(baseImg, ColorSpace{Gamut: GamutSRGB, Transfer: TransferSRGB}, DepthClipped8)

	// Align the gain map to the base resolution.
	gmImg = imaging.Resize(gmImg, base.Width, base.Height, imaging.Linear)
	gain, _, _ := grayFromImage(gmImg)

	headroom := contentHeadroom(data[off:])
	if headroom <= 0 {
		headroom = env.DisplayHeadroom
		if headroom < defaultHeadroom {
			headroom = defaultHeadroom
		}
	}

	// Both outputs come from the same composited intermediate: the SDR
	// member is the hard-clipped rendition of it.
	hdr := compositeGainMap(base, gain, headroom)
	sdr := hdr.Clone().clipSDR()
	sdr.Space = ColorSpace{Gamut: GamutSRGB, Transfer: TransferLinear}
	return &RenderedPair{HDR: hdr, SDR: sdr}, nil
}

// compositeGainMap reconstructs the HDR bitmap from an SDR base and a
// single-channel gain map aligned to the base resolution:
//
//	hdr = base + base*gain*(headroom-1)
func compositeGainMap(base *Bitmap, gain []float32, headroom float32) *Bitmap {
	out := NewBitmap(base.Width, base.Height, ColorSpace{Gamut: GamutDisplayP3, Transfer: TransferLinear}, DepthExtended16)
	boost := headroom - 1.0
	for p := 0; p < base.Width*base.Height; p++ {
		g := gain[p] * boost
		i := p * 3
		out.Pix[i] = base.Pix[i] + base.Pix[i]*g
		out.Pix[i+1] = base.Pix[i+1] + base.Pix[i+1]*g
		out.Pix[i+2] = base.Pix[i+2] + base.Pix[i+2]*g
	}
	return out
}

// contentHeadroom reads the content-declared peak-to-reference ratio from
// the gain-map metadata, or 0 when absent. The attribute stores log2.
func contentHeadroom(data []byte) float32 {
	idx := bytes.Index(data, capacityMaxAttr)
	if idx < 0 {
		return 0
	}
	rest := data[idx+len(capacityMaxAttr):]
	end := bytes.IndexByte(rest, '"')
	if end <= 0 {
		return 0
	}
	v, err := strconv.ParseFloat(string(rest[:end]), 32)
	if err != nil {
		return 0
	}
	return exp2f(float32(v))
}

// secondaryImageOffset walks the primary JPEG's segments and entropy-coded
// data and returns the byte offset of the secondary image's SOI, or -1.
func secondaryImageOffset(data []byte) int {
	if len(data) < 4 || data[0] != markerStart || data[1] != markerSOI {
		return -1
	}
	i := 2
	for i+4 <= len(data) {
		if data[i] != markerStart {
			return -1
		}
		m := data[i+1]
		switch m {
		case markerEOI:
			idx := bytes.Index(data[i+2:], []byte{markerStart, markerSOI})
			if idx < 0 {
				return -1
			}
			return i + 2 + idx
		case markerSOS:
			j := scanToEOI(data, i+2)
			if j < 0 {
				return -1
			}
			i = j
		default:
			length := int(binary.BigEndian.Uint16(data[i+2:]))
			if length < 2 {
				return -1
			}
			i += 2 + length
		}
	}
	return -1
}

// scanToEOI skips entropy-coded data starting at j and returns the offset
// of the EOI marker, or -1.
func scanToEOI(data []byte, j int) int {
	for j+1 < len(data) {
		if data[j] != markerStart {
			j++
			continue
		}
		m := data[j+1]
		switch {
		case m == 0x00 || (m >= 0xd0 && m <= 0xd7):
			j += 2
		case m == markerEOI:
			return j
		case m == markerStart:
			j++
		default:
			return -1
		}
	}
	return -1
}

// hasGainMapMetadata scans the secondary image's APP segments (up to its
// scan data) for gain-map XMP or ISO metadata payloads.
func hasGainMapMetadata(data []byte) bool {
	if len(data) < 4 || data[0] != markerStart || data[1] != markerSOI {
		return false
	}
	i := 2
	for i+4 <= len(data) {
		if data[i] != markerStart {
			return false
		}
		m := data[i+1]
		if m == markerSOS || m == markerEOI {
			return false
		}
		length := int(binary.BigEndian.Uint16(data[i+2:]))
		if length < 2 || i+2+length > len(data) {
			return false
		}
		payload := data[i+4 : i+2+length]
		if m == markerAPP1 && bytes.HasPrefix(payload, xmpPrefix) {
			return true
		}
		if m == markerAPP2 && bytes.HasPrefix(payload, isoPrefix) {
			return true
		}
		i += 2 + length
	}
	return false
}
