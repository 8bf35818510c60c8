package hdrview

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
)

// Maker-note decoder for the vendor's encrypted picture-profile tag.
//
// The walker is a byte-offset state machine over an immutable buffer with
// explicit bounds checks at every read. Every failure path reports "no
// profile"; this is advisory metadata, nothing here is fatal.

var exifMarker = []byte("Exif\x00\x00")

// vendorSignature precedes the vendor-internal tag directory inside the
// MakerNote payload.
var vendorSignature = []byte("SONY DSC \x00\x00\x00")

const (
	tagExifIFD        = 0x8769
	tagMakerNote      = 0x927c
	tagCustomRendered = 0xa401
	tagVendorSettings = 0x9403

	decipheredMinLen  = 0x71
	profileByteOffset = 0x70
)

const tiffMagic = 42

// Picture-profile codes carrying an HLG variant that the container
// mislabels.
var hlgProfileCodes = map[uint8]bool{
	28: true,
	29: true,
	30: true,
	31: true,
}

// Logarithmic (non-HLG) profile codes; detected but passed through
// undecoded.
var logProfileCodes = map[uint8]ColorTransfer{
	7: TransferSLog2,
	8: TransferSLog3,
}

var pictureProfileNames = map[uint8]string{
	0:  "Off",
	1:  "PP1 (Movie)",
	2:  "PP2 (Still)",
	3:  "PP3 (ITU709)",
	4:  "PP4 (ITU709 Matrix)",
	5:  "PP5 (Cine1)",
	6:  "PP6 (Cine2)",
	7:  "PP7 (S-Log2)",
	8:  "PP8 (S-Log3)",
	9:  "PP9 (S-Log3/S-Gamut3)",
	10: "PP10 (HLG2)",
	11: "PP11 (S-Cinetone)",
	28: "HLG",
	29: "HLG1",
	30: "HLG2",
	31: "HLG3",
}

// ProfileName maps a decoded picture-profile value to a display name.
func ProfileName(v uint8) string {
	if name, ok := pictureProfileNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%d)", v)
}

var (
	decipherOnce  sync.Once
	decipherTable [256]uint8
)

// decipherTableInit builds the inverse of enc = plain^3 mod 249 for plain
// in [2, 248]; all other values map to themselves.
func decipherTableInit() {
	for i := range decipherTable {
		decipherTable[i] = uint8(i)
	}
	for p := 2; p <= 248; p++ {
		enc := p * p % 249 * p % 249
		decipherTable[enc] = uint8(p)
	}
}

func decipher(data []byte) []byte {
	decipherOnce.Do(decipherTableInit)
	out := make([]byte, len(data))
	for i, v := range data {
		out[i] = decipherTable[v]
	}
	return out
}

// tiffBase locates the EXIF marker and validates the directory header magic
// that must immediately follow it, in either byte order. The leftmost valid
// candidate wins; the marker can appear spuriously in container index
// structures.
func tiffBase(data []byte) (int, binary.ByteOrder, bool) {
	from := 0
	for {
		idx := bytes.Index(data[from:], exifMarker)
		if idx < 0 {
			return 0, nil, false
		}
		base := from + idx + len(exifMarker)
		if base+8 <= len(data) {
			switch {
			case data[base] == 'I' && data[base+1] == 'I' &&
				binary.LittleEndian.Uint16(data[base+2:]) == tiffMagic:
				return base, binary.LittleEndian, true
			case data[base] == 'M' && data[base+1] == 'M' &&
				binary.BigEndian.Uint16(data[base+2:]) == tiffMagic:
				return base, binary.BigEndian, true
			}
		}
		from += idx + 1
	}
}

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	// raw holds the 4-byte inline value field.
	raw [4]byte
}

func (e ifdEntry) byteLen() int {
	size := 1
	switch e.typ {
	case 3: // SHORT
		size = 2
	case 4, 9, 11: // LONG, SLONG, FLOAT
		size = 4
	case 5, 10, 12: // RATIONAL, SRATIONAL, DOUBLE
		size = 8
	}
	return size * int(e.count)
}

// findTag walks one tag directory at ifdOff (relative to base) and returns
// the entry for tag, if present.
func findTag(data []byte, base, ifdOff int, bo binary.ByteOrder, tag uint16) (ifdEntry, bool) {
	off := base + ifdOff
	if off < 0 || off+2 > len(data) {
		return ifdEntry{}, false
	}
	count := int(bo.Uint16(data[off:]))
	off += 2
	for i := 0; i < count; i++ {
		if off+12 > len(data) {
			return ifdEntry{}, false
		}
		e := ifdEntry{
			tag:   bo.Uint16(data[off:]),
			typ:   bo.Uint16(data[off+2:]),
			count: bo.Uint32(data[off+4:]),
		}
		copy(e.raw[:], data[off+8:off+12])
		if e.tag == tag {
			return e, true
		}
		off += 12
	}
	return ifdEntry{}, false
}

// entryData resolves an entry's value bytes: inline iff the declared byte
// count fits in the 4-byte value field, otherwise at the offset the field
// points to (relative to base).
func entryData(data []byte, base int, bo binary.ByteOrder, e ifdEntry) ([]byte, bool) {
	n := e.byteLen()
	if n <= 0 {
		return nil, false
	}
	if n <= 4 {
		return e.raw[:n], true
	}
	off := base + int(bo.Uint32(e.raw[:]))
	if off < 0 || off+n > len(data) {
		return nil, false
	}
	return data[off : off+n], true
}

func entryOffset(bo binary.ByteOrder, e ifdEntry) int {
	return int(bo.Uint32(e.raw[:]))
}

// exifIFDOffset walks IFD0 for the Exif sub-directory pointer.
func exifIFDOffset(data []byte, base int, bo binary.ByteOrder) (int, bool) {
	if base+8 > len(data) {
		return 0, false
	}
	ifd0 := int(bo.Uint32(data[base+4:]))
	e, ok := findTag(data, base, ifd0, bo, tagExifIFD)
	if !ok {
		return 0, false
	}
	return entryOffset(bo, e), true
}

// DecodeVendorProfile extracts the encrypted picture-profile byte from the
// vendor maker note embedded in data. It reports ok=false on any parse or
// verification failure; it never guesses.
func DecodeVendorProfile(data []byte) (uint8, bool) {
	base, bo, ok := tiffBase(data)
	if !ok {
		return 0, false
	}
	exifOff, ok := exifIFDOffset(data, base, bo)
	if !ok {
		return 0, false
	}
	mn, ok := findTag(data, base, exifOff, bo, tagMakerNote)
	if !ok {
		return 0, false
	}
	mnOff := base + entryOffset(bo, mn)
	if mnOff < 0 || mnOff+len(vendorSignature) > len(data) {
		return 0, false
	}
	if !bytes.Equal(data[mnOff:mnOff+len(vendorSignature)], vendorSignature) {
		return 0, false
	}
	// The vendor-internal directory uses offsets relative to the TIFF base
	// and starts immediately after the signature.
	vendorIFD := mnOff + len(vendorSignature) - base
	e, ok := findTag(data, base, vendorIFD, bo, tagVendorSettings)
	if !ok {
		return 0, false
	}
	enc, ok := entryData(data, base, bo, e)
	if !ok {
		return 0, false
	}
	dec := decipher(enc)
	if len(dec) < decipheredMinLen {
		return 0, false
	}
	return dec[profileByteOffset], true
}

// customRendered extracts the EXIF CustomRendered flag, used as a fallback
// gain-map heuristic on containers that drop the auxiliary metadata.
func customRendered(data []byte) (uint16, bool) {
	base, bo, ok := tiffBase(data)
	if !ok {
		return 0, false
	}
	exifOff, ok := exifIFDOffset(data, base, bo)
	if !ok {
		return 0, false
	}
	e, ok := findTag(data, base, exifOff, bo, tagCustomRendered)
	if !ok || e.typ != 3 || e.count < 1 {
		return 0, false
	}
	return bo.Uint16(e.raw[:]), true
}
