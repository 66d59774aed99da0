// internal/unwind/chain.go
package unwind

// Memory is word-granular read access to the stack being unwound.
type Memory interface {
	Word(addr uint32) (uint32, bool)
}

// ChainUnwinder walks frames linked through stack memory: each frame
// holds the caller's return address at its frame pointer and the
// caller's frame pointer one word above. A zero return address means
// the frame did not save one, which surfaces to the caller of Next as
// a repeated instruction pointer.
type ChainUnwinder struct {
	Mem Memory
	// RegionOf resolves an instruction pointer to the start address of
	// its function, 0 if unknown. Optional.
	RegionOf func(ip uint32) uint32
}

// Begin starts a pass at the given context.
func (u *ChainUnwinder) Begin(s Start) Cursor {
	return &chainCursor{u: u, ip: s.PC, fp: s.SP, lr: s.LR}
}

type chainCursor struct {
	u       *ChainUnwinder
	ip      uint32
	fp      uint32
	lr      uint32
	lrSub   uint32
	started bool
}

func (c *chainCursor) Next() bool {
	if !c.started {
		c.started = true
		return c.ip != 0
	}
	if c.fp == 0 {
		return false
	}

	ret, ok := c.u.Mem.Word(c.fp)
	if !ok {
		return false
	}
	prev, ok := c.u.Mem.Word(c.fp + 4)
	if !ok {
		return false
	}

	if ret == 0 {
		// No saved return address in this frame. If a link register
		// was substituted, step through it once; otherwise report the
		// same instruction pointer and let the caller decide.
		if c.lrSub != 0 {
			c.ip = c.lrSub
			c.lr = c.lrSub
			c.lrSub = 0
			c.fp = prev
		}
		return true
	}

	c.ip = ret
	c.lr = ret
	c.fp = prev
	return true
}

func (c *chainCursor) IP() uint32 { return c.ip }

func (c *chainCursor) RegionStart() uint32 {
	if c.u.RegionOf == nil {
		return 0
	}
	return c.u.RegionOf(c.ip)
}

func (c *chainCursor) LR() uint32 { return c.lr }

func (c *chainCursor) SetLR(v uint32) {
	c.lr = v
	c.lrSub = v
}
