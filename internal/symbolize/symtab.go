// internal/symbolize/symtab.go
package symbolize

import (
	"debug/elf"
	"sort"
)

type funcSym struct {
	start uint32
	size  uint32
	name  string
}

// funcIndex is the function symbols sorted by start address.
type funcIndex []funcSym

func buildFuncIndex(syms []elf.Symbol) funcIndex {
	idx := make(funcIndex, 0, len(syms))
	for _, s := range syms {
		if elf.ST_TYPE(s.Info) != elf.STT_FUNC || s.Name == "" {
			continue
		}
		idx = append(idx, funcSym{
			start: uint32(s.Value) &^ 1,
			size:  uint32(s.Size),
			name:  s.Name,
		})
	}
	sort.Slice(idx, func(i, j int) bool { return idx[i].start < idx[j].start })
	return idx
}

// lookup finds the function containing pc. Symbols with a zero size
// claim everything up to the next symbol.
func (idx funcIndex) lookup(pc uint32) (string, bool) {
	i := sort.Search(len(idx), func(i int) bool { return idx[i].start > pc })
	if i == 0 {
		return "", false
	}
	s := idx[i-1]
	if s.size > 0 && pc >= s.start+s.size {
		return "", false
	}
	return s.name, true
}
