// internal/probe/modbus/client_test.go
package modbus

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	gomodbus "github.com/goburrow/modbus"

	"github.com/tamzrod/faulttrace/internal/record"
)

// fakeTransport serves a register window backed by a byte image, the
// way a device exposes its record region: two image bytes per
// register, transmitted in register order. Only holding-register
// reads are implemented; the embedded interface covers the rest of
// the contract and panics if anything else is touched.
type fakeTransport struct {
	gomodbus.Client

	base  uint16
	image []byte

	reads  []readCall
	failAt int  // read call index that fails, 0 = never
	short  bool // truncate every response by one register
}

type readCall struct {
	addr     uint16
	quantity uint16
}

func (f *fakeTransport) ReadHoldingRegisters(addr, quantity uint16) ([]byte, error) {
	f.reads = append(f.reads, readCall{addr, quantity})

	if f.failAt != 0 && len(f.reads) >= f.failAt {
		return nil, errors.New("fake: transport failure")
	}
	if quantity > 125 {
		return nil, fmt.Errorf("fake: quantity %d exceeds protocol limit", quantity)
	}

	off := 2 * (int(addr) - int(f.base))
	end := off + 2*int(quantity)
	if off < 0 || end > len(f.image) {
		return nil, fmt.Errorf("fake: read %d+%d outside served window", addr, quantity)
	}

	out := f.image[off:end]
	if f.short {
		out = out[:len(out)-2]
	}
	return out, nil
}

func TestReadRegion_ChunksAtProtocolLimit(t *testing.T) {
	rec := record.Record{
		Cause:     record.CauseHardFault,
		Interrupt: 3,
		FailCount: 7,
		Line:      42,
		File:      "main.cpp",
	}
	rec.Trace[0] = 0x4000
	rec.Trace[1] = 0x4104
	for i := range rec.Regs.R {
		rec.Regs.R[i] = 0x1000 + uint32(i)
	}
	img := record.Encode(rec)

	fake := &fakeTransport{base: 0x100, image: img[:]}
	c := &Client{client: fake}

	got, err := c.ReadRegion(0x100, record.RegionSize/2)
	if err != nil {
		t.Fatalf("ReadRegion err=%v", err)
	}
	if !bytes.Equal(got, img[:]) {
		t.Fatal("reassembled payload differs from the region image")
	}

	// The 256-register region must split at the 125-register ceiling
	// with addresses advancing past each chunk.
	want := []readCall{
		{0x100, 125},
		{0x100 + 125, 125},
		{0x100 + 250, 6},
	}
	if len(fake.reads) != len(want) {
		t.Fatalf("reads = %+v, want %+v", fake.reads, want)
	}
	for i, w := range want {
		if fake.reads[i] != w {
			t.Errorf("read[%d] = %+v, want %+v", i, fake.reads[i], w)
		}
	}

	decoded, ok := record.Decode(got)
	if !ok {
		t.Fatal("reassembled payload did not decode")
	}
	if decoded != rec {
		t.Fatalf("decoded record mismatch:\n got=%+v\nwant=%+v", decoded, rec)
	}
}

func TestReadRegion_SingleChunkBelowLimit(t *testing.T) {
	img := bytes.Repeat([]byte{0xAB}, 100)
	fake := &fakeTransport{base: 0x10, image: img}
	c := &Client{client: fake}

	got, err := c.ReadRegion(0x10, 50)
	if err != nil {
		t.Fatalf("ReadRegion err=%v", err)
	}
	if !bytes.Equal(got, img) {
		t.Fatal("payload mismatch")
	}
	if len(fake.reads) != 1 || fake.reads[0] != (readCall{0x10, 50}) {
		t.Fatalf("reads = %+v", fake.reads)
	}
}

func TestReadRegion_ChunkFailurePropagates(t *testing.T) {
	img := make([]byte, record.RegionSize)
	fake := &fakeTransport{base: 0, image: img, failAt: 2}
	c := &Client{client: fake}

	if _, err := c.ReadRegion(0, record.RegionSize/2); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestReadRegion_ShortChunkRejected(t *testing.T) {
	img := make([]byte, record.RegionSize)
	fake := &fakeTransport{base: 0, image: img, short: true}
	c := &Client{client: fake}

	if _, err := c.ReadRegion(0, record.RegionSize/2); err == nil {
		t.Fatal("expected error, got nil")
	}
}
