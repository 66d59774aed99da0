// internal/symbolize/symbolize.go

// Package symbolize resolves trace addresses against the firmware ELF.
// The ELF must come from the exact build running on the device or the
// output is garbage.
package symbolize

import (
	"debug/dwarf"
	"debug/elf"
	"errors"
	"fmt"
)

// Unknown fills any field that could not be resolved.
const Unknown = "unknown"

// Location is one resolved trace address.
type Location struct {
	Addr uint32 `json:"addr"`
	Func string `json:"func"`
	File string `json:"file"`
	Line int    `json:"line"`
}

func (l Location) String() string {
	if l.Line > 0 {
		return fmt.Sprintf("%#010x: %s() at %s:%d", l.Addr, l.Func, l.File, l.Line)
	}
	return fmt.Sprintf("%#010x: %s()", l.Addr, l.Func)
}

// Symbolizer holds the parsed symbol table and line tables for one
// firmware image.
type Symbolizer struct {
	funcs funcIndex
	dw    *dwarf.Data
}

// New parses the ELF at path. Either a symbol table or DWARF line
// tables must be present; a fully stripped image is rejected.
func New(path string) (*Symbolizer, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("symbolize: open %s: %w", path, err)
	}
	defer f.Close()

	s := &Symbolizer{}

	if syms, err := f.Symbols(); err == nil {
		s.funcs = buildFuncIndex(syms)
	}
	if dw, err := f.DWARF(); err == nil {
		s.dw = dw
	}

	if len(s.funcs) == 0 && s.dw == nil {
		return nil, errors.New("symbolize: image carries no symbols and no line tables")
	}
	return s, nil
}

// Locate resolves one address. Fields that cannot be resolved come
// back as Unknown rather than failing the lookup.
func (s *Symbolizer) Locate(addr uint32) Location {
	// Code addresses on the target carry the instruction set selector
	// in bit 0; symbol values do not.
	pc := addr &^ 1

	loc := Location{
		Addr: addr,
		Func: Unknown,
		File: Unknown,
	}

	if name, ok := s.funcs.lookup(pc); ok {
		loc.Func = name
	}

	if s.dw != nil {
		if file, line, ok := s.lineFor(uint64(pc)); ok {
			loc.File = file
			loc.Line = line
		}
	}
	return loc
}

// Resolve maps a whole trace, preserving order.
func (s *Symbolizer) Resolve(trace []uint32) []Location {
	out := make([]Location, 0, len(trace))
	for _, addr := range trace {
		out = append(out, s.Locate(addr))
	}
	return out
}

// lineFor walks the compilation units until one's line table covers pc.
func (s *Symbolizer) lineFor(pc uint64) (string, int, bool) {
	r := s.dw.Reader()
	for {
		cu, err := r.Next()
		if err != nil || cu == nil {
			return "", 0, false
		}
		if cu.Tag != dwarf.TagCompileUnit {
			r.SkipChildren()
			continue
		}

		lr, err := s.dw.LineReader(cu)
		if err != nil || lr == nil {
			r.SkipChildren()
			continue
		}

		var le dwarf.LineEntry
		if err := lr.SeekPC(pc, &le); err == nil {
			return le.File.Name, le.Line, true
		}
		r.SkipChildren()
	}
}
