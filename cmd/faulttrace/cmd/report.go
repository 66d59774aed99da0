package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tamzrod/faulttrace/internal/record"
	"github.com/tamzrod/faulttrace/internal/report"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <dump.bin>",
	Short: "Extract and print the fault record from a raw flash dump",
	Long: `Scan a raw flash dump for a fault record and print it. The dump is
whatever the board's bootloader read-back produced; the record is found
by its head marker, so the dump offset does not matter.

With an ELF (--elf or config) the stack trace is symbolized.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, args []string) error {
	dump, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	idx := record.Locate(dump)
	if idx < 0 {
		return fmt.Errorf("no fault record found in %s; did the device fault?", args[0])
	}

	rec, ok := record.Decode(dump[idx:])
	if !ok {
		return fmt.Errorf("record at offset %#x failed to decode", idx)
	}

	fmt.Printf("Found fault record at offset %#x\n", idx)
	printRecord(rec)
	return nil
}

// printRecord renders rec, symbolized when an ELF is available.
func printRecord(rec record.Record) {
	sym, err := newSymbolizer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot symbolize: %v\n", err)
		sym = nil
	}
	if sym == nil {
		report.Fprint(os.Stdout, rec)
		return
	}
	report.FprintSymbolized(os.Stdout, rec, sym.Resolve(rec.Trace[:rec.TraceLen()]))
}
