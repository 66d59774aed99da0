// internal/report/report.go

// Package report renders fault records for humans.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/tamzrod/faulttrace/internal/record"
	"github.com/tamzrod/faulttrace/internal/symbolize"
)

// DidFault reports whether rec describes an actual fault rather than
// an erased or never-written region.
func DidFault(rec record.Record) bool {
	return rec.Cause != record.CauseNone
}

// Fprint writes the plain text report with a raw address trace.
func Fprint(w io.Writer, rec record.Record) {
	fprintHeader(w, rec)
	fmt.Fprintf(w, "Stacktrace: %s\n", formatTrace(rec))
	fprintFooter(w, rec)
}

// FprintSymbolized writes the report with the trace resolved against
// the firmware image. locs must come from Resolve on the same trace.
func FprintSymbolized(w io.Writer, rec record.Record, locs []symbolize.Location) {
	fprintHeader(w, rec)
	fmt.Fprintln(w, "Decoded Stacktrace:")
	for _, loc := range locs {
		fmt.Fprintf(w, "\t%s\n", loc)
	}
	fprintFooter(w, rec)
}

func fprintHeader(w io.Writer, rec record.Record) {
	fmt.Fprintf(w, "Fault: %s\n", rec.Cause)

	during := "No"
	if rec.Corrupted {
		during = "Yes"
	}
	fmt.Fprintf(w, "Faulted during recording: %s\n", during)

	fmt.Fprintf(w, "Last Marked Line: %d\n", rec.Line)
	fmt.Fprintf(w, "Last Marked File: %s\n", rec.File)
	fmt.Fprintf(w, "Interrupt type: %d\n", rec.Interrupt)
}

func fprintFooter(w io.Writer, rec record.Record) {
	// Registers exist only for asynchronous captures.
	if rec.HasRegisters() {
		fmt.Fprintln(w, "Registers:")

		var general [13]string
		for i := 0; i < 13; i++ {
			general[i] = fmt.Sprintf("R%d %#010x", i, rec.Regs.R[i])
		}
		fmt.Fprintf(w, "\t%s\n", strings.Join(general[:7], ", "))
		fmt.Fprintf(w, "\t%s\n", strings.Join(general[7:], ", "))
		fmt.Fprintf(w, "\tSP: %#010x\tLR: %#010x\tPC: %#010x\txPSR: %#010x\n",
			rec.Regs.R[record.RegSP],
			rec.Regs.R[record.RegLR],
			rec.Regs.R[record.RegPC],
			rec.Regs.XPSR,
		)
	}

	fmt.Fprintf(w, "Failures since upload: %d\n", rec.FailCount)
}

func formatTrace(rec record.Record) string {
	n := rec.TraceLen()
	if n == 0 {
		return "(empty)"
	}
	parts := make([]string, 0, n)
	for _, addr := range rec.Trace[:n] {
		parts = append(parts, fmt.Sprintf("%#010x", addr))
	}
	return strings.Join(parts, ", ")
}
