// internal/record/record_test.go
package record

import (
	"bytes"
	"testing"
)

func sampleRecord() Record {
	r := Record{
		Cause:     CauseHardFault,
		Interrupt: 3,
		Corrupted: false,
		FailCount: 7,
		Line:      42,
		File:      "main.cpp",
	}
	r.Trace[0] = 0x0000_4132
	r.Trace[1] = 0x0000_40f0
	r.Trace[2] = 0x0000_22a4
	for i := range r.Regs.R {
		r.Regs.R[i] = uint32(0x1000 + i)
	}
	r.Regs.XPSR = 0x2100_0003
	return r
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	want := sampleRecord()

	img := Encode(want)
	got, ok := Decode(img[:])
	if !ok {
		t.Fatalf("Decode reported no image")
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got=%+v\nwant=%+v", got, want)
	}
}

func TestEncodeDecode_FullCapacityTrace(t *testing.T) {
	want := sampleRecord()
	for i := range want.Trace {
		want.Trace[i] = uint32(0x2000 + 4*i)
	}

	img := Encode(want)
	got, ok := Decode(img[:])
	if !ok {
		t.Fatalf("Decode reported no image")
	}
	if got.TraceLen() != MaxTrace {
		t.Fatalf("TraceLen = %d, want %d", got.TraceLen(), MaxTrace)
	}
	if got != want {
		t.Fatalf("round trip mismatch")
	}
}

func TestEncodeDecode_EmptyTrace(t *testing.T) {
	want := Record{Cause: CauseUser, FailCount: 1}

	img := Encode(want)
	got, ok := Decode(img[:])
	if !ok {
		t.Fatalf("Decode reported no image")
	}
	if got.TraceLen() != 0 {
		t.Fatalf("TraceLen = %d, want 0", got.TraceLen())
	}
	if got != want {
		t.Fatalf("round trip mismatch")
	}
}

func TestDecode_ErasedRegion(t *testing.T) {
	erased := bytes.Repeat([]byte{0xFF}, RegionSize)

	got, ok := Decode(erased)
	if ok {
		t.Fatalf("Decode found an image in an erased region")
	}
	if got != (Record{}) {
		t.Fatalf("erased region decoded to non-zero record: %+v", got)
	}
}

func TestDecode_BlankRegion(t *testing.T) {
	blank := make([]byte, RegionSize)

	got, ok := Decode(blank)
	if ok {
		t.Fatalf("Decode found an image in a blank region")
	}
	if got != (Record{}) {
		t.Fatalf("blank region decoded to non-zero record: %+v", got)
	}
}

func TestEncode_FilenameTruncation(t *testing.T) {
	long := make([]byte, 2*FileLen)
	for i := range long {
		long[i] = 'a'
	}

	img := Encode(Record{Cause: CauseUser, File: string(long)})
	got, ok := Decode(img[:])
	if !ok {
		t.Fatalf("Decode reported no image")
	}
	if len(got.File) != FileLen-1 {
		t.Fatalf("file length = %d, want %d", len(got.File), FileLen-1)
	}
}

func TestEncode_MarkersVisible(t *testing.T) {
	img := Encode(sampleRecord())

	for _, mark := range []string{Ident, "Caused:", "I type:", "Traced:", "Regdmp:", "My Bad:", "Fail #:", "Line #:", "File n:", "End"} {
		if !bytes.Contains(img[:], []byte(mark)) {
			t.Fatalf("marker %q missing from image", mark)
		}
	}
}

func TestLocate(t *testing.T) {
	img := Encode(sampleRecord())

	dump := make([]byte, 4096)
	const off = 1024
	copy(dump[off:], img[:])

	if got := Locate(dump); got != off {
		t.Fatalf("Locate = %d, want %d", got, off)
	}

	if got := Locate(make([]byte, 4096)); got != -1 {
		t.Fatalf("Locate on empty dump = %d, want -1", got)
	}
}

func TestCauseString(t *testing.T) {
	cases := map[Cause]string{
		CauseNone:        "NONE",
		CauseUnknown:     "UNKNOWN",
		CauseHung:        "HUNG",
		CauseHardFault:   "HARDFAULT",
		CauseOutOfMemory: "OUTOFMEMORY",
		CauseUser:        "USER",
		Cause(99):        "CORRUPTED",
	}
	for c, want := range cases {
		if got := c.String(); got != want {
			t.Fatalf("Cause(%d).String() = %q, want %q", uint32(c), got, want)
		}
	}
}
