// internal/store/store.go
package store

import (
	"errors"
	"fmt"

	"github.com/tamzrod/faulttrace/internal/record"
)

// Storage abstracts the non-volatile medium holding the fault region.
// Granularities are reported by the medium, never assumed: flash parts
// differ in erase row and program page sizes.
type Storage interface {
	// EraseGranule is the smallest erasable unit, in bytes.
	EraseGranule() int
	// ProgramGranule is the smallest programmable unit, in bytes.
	ProgramGranule() int
	// Erase resets [off, off+n) to the erased state. n must be a
	// multiple of EraseGranule and off aligned to it.
	Erase(off, n int) error
	// Program writes p at off. len(p) must be a multiple of
	// ProgramGranule and off aligned to it.
	Program(off int, p []byte) error
	// Read returns n bytes at off.
	Read(off, n int) ([]byte, error)
}

// Store owns the reserved fault region within a Storage.
// Write is only ever invoked from the unrecoverable fault path, never
// concurrently; Read may run at any time before the watchdog starts.
type Store struct {
	nvm Storage
	off int
}

// New validates the region placement against the medium's geometry.
func New(nvm Storage, off int) (*Store, error) {
	eg := nvm.EraseGranule()
	pg := nvm.ProgramGranule()

	if eg <= 0 || pg <= 0 {
		return nil, fmt.Errorf("store: invalid granules erase=%d program=%d", eg, pg)
	}
	if eg%pg != 0 {
		return nil, fmt.Errorf("store: erase granule %d not a multiple of program granule %d", eg, pg)
	}
	if pg > record.RegionSize || record.RegionSize%pg != 0 {
		return nil, fmt.Errorf("store: program granule %d does not divide region size %d", pg, record.RegionSize)
	}
	// An erase row larger than the region is fine: the store erases
	// the single covering row and must own it outright.
	if eg < record.RegionSize && record.RegionSize%eg != 0 {
		return nil, fmt.Errorf("store: erase granule %d does not divide region size %d", eg, record.RegionSize)
	}
	if off%eg != 0 {
		return nil, fmt.Errorf("store: region offset %d not aligned to erase granule %d", off, eg)
	}

	return &Store{nvm: nvm, off: off}, nil
}

// Write replaces the persisted record: erase the whole region, then
// program the new image one program granule at a time. The write runs
// to completion before the caller resets the device; a power loss in
// between leaves a torn region, which Decode treats as no record.
func (s *Store) Write(r record.Record) error {
	img := record.Encode(r)

	eg := s.nvm.EraseGranule()
	span := record.RegionSize
	if eg > span {
		span = eg
	}
	for off := 0; off < span; off += eg {
		if err := s.nvm.Erase(s.off+off, eg); err != nil {
			return fmt.Errorf("store: erase at %d: %w", s.off+off, err)
		}
	}

	pg := s.nvm.ProgramGranule()
	for off := 0; off < record.RegionSize; off += pg {
		if err := s.nvm.Program(s.off+off, img[off:off+pg]); err != nil {
			return fmt.Errorf("store: program at %d: %w", s.off+off, err)
		}
	}

	return nil
}

// Read returns the persisted record. A region with no valid image
// (erased, blank or torn) reads as the zero record, cause None.
func (s *Store) Read() (record.Record, error) {
	raw, err := s.nvm.Read(s.off, record.RegionSize)
	if err != nil {
		return record.Record{}, fmt.Errorf("store: read: %w", err)
	}
	if len(raw) < record.RegionSize {
		return record.Record{}, errors.New("store: short region read")
	}

	r, ok := record.Decode(raw)
	if !ok {
		return record.Record{}, nil
	}
	return r, nil
}

// FailCount returns the persisted cumulative failure count, 0 when no
// record is present. The capture engine reads this before writing the
// incremented value.
func (s *Store) FailCount() uint32 {
	r, err := s.Read()
	if err != nil {
		return 0
	}
	return r.FailCount
}
