package hdrview

import "bytes"

// Source is one media file under detection/rendering. It is read-only
// during detection; detectors must not mutate it beyond the lazy probes.
type Source struct {
	Path string

	data     []byte
	declared ColorSpace
	probed   bool
}

// NewSource reads the file at path, holding the optional capability token's
// scoped access only for the read itself.
func NewSource(path string, tok AccessToken) (*Source, error) {
	data, err := readFileScoped(path, tok)
	if err != nil {
		return nil, err
	}
	return SourceFromBytes(path, data), nil
}

// SourceFromBytes wraps already-read container bytes.
func SourceFromBytes(path string, data []byte) *Source {
	return &Source{Path: path, data: data}
}

// Bytes returns the raw container bytes.
func (s *Source) Bytes() []byte { return s.data }

// DeclaredSpace probes the container-level color space declaration. The
// probe is coarse: it classifies transfer characteristics only and does
// not validate them (cameras mislabel these, which is exactly why the
// vendor secondary detector exists).
func (s *Source) DeclaredSpace() ColorSpace {
	if !s.probed {
		s.declared = probeDeclaredSpace(s.data)
		s.probed = true
	}
	return s.declared
}

var (
	nclxSig = []byte("nclx")

	hlgTokens = [][]byte{[]byte("arib-std-b67"), []byte("rec2100-hlg")}
	pqTokens  = [][]byte{[]byte("smpte2084"), []byte("rec2100-pq")}
)

// H.273 transfer characteristics codes.
const (
	transferCodePQ  = 16
	transferCodeHLG = 18
)

func probeDeclaredSpace(data []byte) ColorSpace {
	sp := ColorSpace{Gamut: GamutSRGB, Transfer: TransferSRGB}
	if t, ok := nclxTransfer(data); ok {
		switch t {
		case transferCodeHLG:
			sp = ColorSpace{Gamut: GamutBT2020, Transfer: TransferHLG}
		case transferCodePQ:
			sp = ColorSpace{Gamut: GamutBT2020, Transfer: TransferPQ}
		}
		return sp
	}
	lower := bytes.ToLower(data)
	for _, t := range hlgTokens {
		if bytes.Contains(lower, t) {
			return ColorSpace{Gamut: GamutBT2020, Transfer: TransferHLG}
		}
	}
	for _, t := range pqTokens {
		if bytes.Contains(lower, t) {
			return ColorSpace{Gamut: GamutBT2020, Transfer: TransferPQ}
		}
	}
	return sp
}

// nclxTransfer reads the transfer characteristics field of an nclx colour
// information box, when one is present.
func nclxTransfer(data []byte) (uint16, bool) {
	idx := bytes.Index(data, nclxSig)
	if idx < 0 || idx+8 > len(data) {
		return 0, false
	}
	// nclx: colour_primaries(2) transfer_characteristics(2) matrix(2).
	return uint16(data[idx+6])<<8 | uint16(data[idx+7]), true
}
