package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <addr>...",
	Short: "Symbolize a pasted stack trace",
	Long: `Decode stack trace addresses into function/file/line information.
Requires the ELF file from the exact build running on the device being
debugged, otherwise the output will be inaccurate.

Addresses must be hexadecimal and space separated, but may also carry
commas and 0x prefixes, so a trace line can be pasted as-is.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(_ *cobra.Command, args []string) error {
	sym, err := newSymbolizer()
	if err != nil {
		return err
	}
	if sym == nil {
		return errors.New("decode requires an ELF; use --elf")
	}

	var addrs []uint32
	for _, raw := range args {
		addr, ok := parseAddr(raw)
		if !ok {
			fmt.Fprintf(os.Stderr, "Discarding invalid address %s\n", raw)
			continue
		}
		addrs = append(addrs, addr)
	}

	fmt.Println("Decoded stacktrace:")
	for _, loc := range sym.Resolve(addrs) {
		fmt.Printf("\t%s\n", loc)
	}
	return nil
}

// parseAddr accepts the formats a report line pastes as: bare hex,
// 0x-prefixed, with trailing or leading commas.
func parseAddr(raw string) (uint32, bool) {
	s := strings.Trim(raw, ", \t")
	s = strings.TrimPrefix(s, "0x")
	if s == "" || len(s) > 8 {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}
