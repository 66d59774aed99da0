// internal/record/encode.go
package record

import "encoding/binary"

// Encode converts a Record into its flash image.
// Layout is protocol-locked. No IO. No side effects.
func Encode(r Record) [RegionSize]byte {
	var img [RegionSize]byte

	le := binary.LittleEndian

	le.PutUint32(img[offHead:], Head)
	copy(img[offIdent:offIdent+identLen], Ident)
	le.PutUint32(img[offVersion:], Version)

	copy(img[offCauseMark:], markCause)
	le.PutUint32(img[offCause:], uint32(r.Cause))

	copy(img[offIntrMark:], markIntr)
	le.PutUint32(img[offInterrupt:], r.Interrupt)

	copy(img[offTraceMark:], markTrace)
	for i, a := range r.Trace {
		le.PutUint32(img[offTrace+4*i:], a)
	}

	copy(img[offRegsMark:], markRegs)
	for i, v := range r.Regs.R {
		le.PutUint32(img[offRegs+4*i:], v)
	}
	le.PutUint32(img[offXPSR:], r.Regs.XPSR)

	copy(img[offCorrMark:], markCorr)
	if r.Corrupted {
		le.PutUint32(img[offCorrupted:], 1)
	}

	copy(img[offFailMark:], markFail)
	le.PutUint32(img[offFailCount:], r.FailCount)

	copy(img[offLineMark:], markLine)
	le.PutUint32(img[offLine:], uint32(r.Line))

	copy(img[offFileMark:], markFile)
	file := r.File
	if len(file) > FileLen-1 {
		file = file[:FileLen-1]
	}
	copy(img[offFile:offFile+FileLen-1], file)

	copy(img[offEndMarker:], markEnd)

	return img
}

// Decode reads a flash image back into a Record.
// ok is false when no image is present: an erased region (all 0xFF), a
// blank region (all zero) or anything without the Head/Ident identity
// decodes to the zero Record.
func Decode(img []byte) (Record, bool) {
	var r Record

	if len(img) < ImageSize {
		return r, false
	}

	le := binary.LittleEndian

	if le.Uint32(img[offHead:]) != Head {
		return r, false
	}
	if string(img[offIdent:offIdent+len(Ident)]) != Ident {
		return r, false
	}

	r.Cause = Cause(le.Uint32(img[offCause:]))
	r.Interrupt = le.Uint32(img[offInterrupt:])
	for i := range r.Trace {
		r.Trace[i] = le.Uint32(img[offTrace+4*i:])
	}
	for i := range r.Regs.R {
		r.Regs.R[i] = le.Uint32(img[offRegs+4*i:])
	}
	r.Regs.XPSR = le.Uint32(img[offXPSR:])
	r.Corrupted = le.Uint32(img[offCorrupted:]) != 0
	r.FailCount = le.Uint32(img[offFailCount:])
	r.Line = int32(le.Uint32(img[offLine:]))
	r.File = fileString(img[offFile : offFile+FileLen])

	return r, true
}

// Locate scans a raw dump for an image by its Head word and identity
// string. Returns the byte offset of the image, or -1.
func Locate(dump []byte) int {
	le := binary.LittleEndian
	for off := 0; off+ImageSize <= len(dump); off += 4 {
		if le.Uint32(dump[off:]) != Head {
			continue
		}
		if string(dump[off+offIdent:off+offIdent+len(Ident)]) == Ident {
			return off
		}
	}
	return -1
}

func fileString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
