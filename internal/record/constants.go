// internal/record/constants.go
package record

// Flash image layout constants.
// These values define the persisted format and MUST NOT be configurable:
// the same bytes are read by the on-device reporter, the recovery CLI and
// any third-party dump tooling.

// ---- REGION GEOMETRY ----

// RegionSize is the reserved flash area, in bytes. The encoded image is
// smaller; the remainder stays erased.
const RegionSize = 512

// ImageSize is the number of meaningful bytes in an encoded image.
const ImageSize = offEndMarker + 4

// ---- IDENTITY ----

// Head is the word that opens every image. Dump tools locate the record
// by scanning for this value followed by the identity string.
const Head uint32 = 0xFEFE2A2A

// Ident is the human-recognizable identity string stored after Head.
// NUL-padded to identLen bytes.
const Ident = "FaultTrace Data Here:"

const identLen = 24

// Version is the layout version word. Bump only with a layout change.
const Version uint32 = 1

// ---- CAPACITIES ----

// MaxTrace is the stack trace capacity. A trace shorter than MaxTrace is
// terminated by a zero entry.
const MaxTrace = 32

// NumRegs is the number of saved core registers (r0-r12, sp, lr, pc).
const NumRegs = 16

// FileLen is the filename field size, including the NUL terminator.
const FileLen = 64

// ---- FIELD OFFSETS (bytes from region start, all word aligned) ----

const (
	offHead      = 0
	offIdent     = 4
	offVersion   = 28
	offCauseMark = 32  // "Caused:"
	offCause     = 40
	offIntrMark  = 44  // "I type:"
	offInterrupt = 52
	offTraceMark = 56  // "Traced:"
	offTrace     = 64  // MaxTrace words
	offRegsMark  = 192 // "Regdmp:"
	offRegs      = 200 // NumRegs words
	offXPSR      = 264
	offCorrMark  = 268 // "My Bad:"
	offCorrupted = 276
	offFailMark  = 280 // "Fail #:"
	offFailCount = 288
	offLineMark  = 292 // "Line #:"
	offLine      = 300
	offFileMark  = 304 // "File n:"
	offFile      = 312 // FileLen bytes
	offEndMarker = 376 // "End"
)

// ---- INTERLEAVED MARKERS ----

// Seven-character ASCII tags stored before each field group so a raw
// flash dump stays readable by eye. Each occupies 8 bytes (NUL padded).
const (
	markCause = "Caused:"
	markIntr  = "I type:"
	markTrace = "Traced:"
	markRegs  = "Regdmp:"
	markCorr  = "My Bad:"
	markFail  = "Fail #:"
	markLine  = "Line #:"
	markFile  = "File n:"
	markEnd   = "End"
)

// ---- REGISTER SLOTS ----

// Fixed slots within the register dump.
const (
	RegSP = 13
	RegLR = 14
	RegPC = 15
)
