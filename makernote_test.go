package hdrview

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// encipher is the forward direction of the vendor substitution:
// enc = plain^3 mod 249 for plain in [2, 248], identity elsewhere.
func encipher(p uint8) uint8 {
	if p < 2 || p > 248 {
		return p
	}
	v := int(p)
	return uint8(v * v % 249 * v % 249)
}

type exifBuilder struct {
	bo  binary.ByteOrder
	buf []byte
}

func (b *exifBuilder) u16(v uint16) {
	var tmp [2]byte
	b.bo.PutUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *exifBuilder) u32(v uint32) {
	var tmp [4]byte
	b.bo.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *exifBuilder) entry(tag, typ uint16, count, val uint32) {
	b.u16(tag)
	b.u16(typ)
	b.u32(count)
	b.u32(val)
}

// buildVendorEXIF assembles a minimal EXIF block with a vendor maker note
// carrying the enciphered settings blob. Offsets are relative to the TIFF
// base, per the standard tag-directory convention.
func buildVendorEXIF(bo binary.ByteOrder, profile uint8, customRenderedVal uint16) []byte {
	b := &exifBuilder{bo: bo}
	if bo == binary.LittleEndian {
		b.buf = append(b.buf, 'I', 'I')
	} else {
		b.buf = append(b.buf, 'M', 'M')
	}
	b.u16(tiffMagic)
	b.u32(8) // IFD0 offset

	const (
		exifIFDOff = 26
		mnOff      = 56
		encOff     = 86
		encLen     = 256
	)

	// IFD0: one entry pointing at the Exif sub-directory.
	b.u16(1)
	b.entry(tagExifIFD, 4, 1, exifIFDOff)
	b.u32(0) // next IFD

	// Exif IFD: maker note + CustomRendered.
	b.u16(2)
	b.entry(tagMakerNote, 7, 12+2+12+4+encLen, mnOff)
	b.entry(tagCustomRendered, 3, 1, uint32(customRenderedVal))
	b.u32(0)

	// Maker note: signature, then the vendor-internal directory.
	b.buf = append(b.buf, vendorSignature...)
	b.u16(1)
	b.entry(tagVendorSettings, 7, encLen, encOff)
	b.u32(0)

	plain := make([]byte, encLen)
	plain[profileByteOffset] = profile
	for _, p := range plain {
		b.buf = append(b.buf, encipher(p))
	}

	out := append([]byte("xxxx"), exifMarker...)
	return append(out, b.buf...)
}

func TestDecodeVendorProfile(t *testing.T) {
	for _, tc := range []struct {
		name string
		bo   binary.ByteOrder
	}{
		{name: "little-endian", bo: binary.LittleEndian},
		{name: "big-endian", bo: binary.BigEndian},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			data := buildVendorEXIF(tc.bo, 29, 0)
			v, ok := DecodeVendorProfile(data)
			if !ok {
				t.Fatalf("profile not decoded")
			}
			if v != 29 {
				t.Fatalf("profile = %d, want 29", v)
			}
		})
	}
}

func TestDecodeVendorProfileSpuriousMarker(t *testing.T) {
	// A marker without a valid directory header magic must be skipped in
	// favor of the leftmost validated candidate.
	data := append([]byte{}, exifMarker...)
	data = append(data, []byte("notatiff")...)
	data = append(data, buildVendorEXIF(binary.LittleEndian, 30, 0)...)
	v, ok := DecodeVendorProfile(data)
	if !ok || v != 30 {
		t.Fatalf("got (%d, %v), want (30, true)", v, ok)
	}
}

func TestDecodeVendorProfileNoMarker(t *testing.T) {
	if _, ok := DecodeVendorProfile([]byte("no exif markers in here at all")); ok {
		t.Fatalf("expected no profile")
	}
	if _, ok := DecodeVendorProfile(nil); ok {
		t.Fatalf("expected no profile for empty input")
	}
}

func TestDecodeVendorProfileTruncatedSignature(t *testing.T) {
	data := buildVendorEXIF(binary.LittleEndian, 29, 0)
	// Cut inside the vendor signature.
	cut := bytes.Index(data, vendorSignature) + 6
	if _, ok := DecodeVendorProfile(data[:cut]); ok {
		t.Fatalf("expected no profile for truncated signature")
	}
}

func TestDecodeVendorProfileCorruptSignature(t *testing.T) {
	data := buildVendorEXIF(binary.LittleEndian, 29, 0)
	idx := bytes.Index(data, vendorSignature)
	data[idx] = 'X'
	if _, ok := DecodeVendorProfile(data); ok {
		t.Fatalf("expected no profile for corrupt signature")
	}
}

func TestDecipherRoundTrip(t *testing.T) {
	for x := 2; x <= 248; x++ {
		got := decipher([]byte{encipher(uint8(x))})
		if got[0] != uint8(x) {
			t.Fatalf("decipher(encipher(%d)) = %d", x, got[0])
		}
	}
	out := decipher([]byte{encipher(100)})
	if out[0] != 100 {
		t.Fatalf("decipher(encipher(100)) = %d", out[0])
	}
}

func TestDecipherIdentityRange(t *testing.T) {
	for _, x := range []uint8{0, 1, 249, 250, 251, 252, 253, 254, 255} {
		if got := decipher([]byte{x})[0]; got != x {
			t.Fatalf("decipher(%d) = %d, want identity", x, got)
		}
	}
}

func TestCustomRendered(t *testing.T) {
	data := buildVendorEXIF(binary.LittleEndian, 0, customRenderedGainMap)
	v, ok := customRendered(data)
	if !ok || v != customRenderedGainMap {
		t.Fatalf("got (%d, %v), want (%d, true)", v, ok, customRenderedGainMap)
	}
	if _, ok := customRendered([]byte("nope")); ok {
		t.Fatalf("expected no flag")
	}
}

func TestProfileName(t *testing.T) {
	if got := ProfileName(29); got != "HLG1" {
		t.Fatalf("ProfileName(29) = %q", got)
	}
	if got := ProfileName(200); got != "Unknown (200)" {
		t.Fatalf("ProfileName(200) = %q", got)
	}
}
