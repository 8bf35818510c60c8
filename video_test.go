package hdrview

import "testing"

func nclxBytes(transfer uint16) []byte {
	return []byte{'n', 'c', 'l', 'x', 0x00, 0x09, byte(transfer >> 8), byte(transfer), 0x00, 0x09, 0x80}
}

func TestClassifyVideoTransfer(t *testing.T) {
	for _, tc := range []struct {
		name string
		data []byte
		want ColorTransfer
	}{
		{name: "nclx-hlg", data: nclxBytes(transferCodeHLG), want: TransferHLG},
		{name: "nclx-pq", data: nclxBytes(transferCodePQ), want: TransferPQ},
		{name: "token-hlg", data: []byte("....arib-std-b67...."), want: TransferHLG},
		{name: "token-pq", data: []byte("....smpte2084...."), want: TransferPQ},
		{name: "sdr", data: []byte("no color tokens here"), want: TransferSRGB},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyVideoTransfer(tc.data); got != tc.want {
				t.Fatalf("transfer = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBuildVideoEntry(t *testing.T) {
	h := &fakeHandle{}
	e := BuildVideoEntry(nclxBytes(transferCodeHLG), h, 4.0)
	if e.Transfer != TransferHLG {
		t.Fatalf("transfer = %v", e.Transfer)
	}
	if !e.HDRComposition.PreserveHDR || e.HDRComposition.Headroom != 4.0 {
		t.Fatalf("hdr descriptor = %+v", e.HDRComposition)
	}
	if e.SDRComposition.PreserveHDR || e.SDRComposition.Headroom != 1.0 {
		t.Fatalf("sdr descriptor = %+v", e.SDRComposition)
	}
	if e.Handle != h {
		t.Fatalf("handle not carried")
	}
}

func TestBuildVideoEntrySDRContent(t *testing.T) {
	e := BuildVideoEntry([]byte("sdr clip"), &fakeHandle{}, 4.0)
	if e.HDRComposition.PreserveHDR {
		t.Fatalf("SDR content must not preserve headroom")
	}
	if e.HDRComposition.Headroom != 1.0 {
		t.Fatalf("headroom = %v", e.HDRComposition.Headroom)
	}
}
