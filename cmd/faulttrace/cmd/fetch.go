package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamzrod/faulttrace/internal/config"
	"github.com/tamzrod/faulttrace/internal/probe"
	"github.com/tamzrod/faulttrace/internal/report"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [device-id]",
	Short: "Read fault records off live devices",
	Long: `Read the fault record region off configured devices over Modbus TCP
and print what is there. With a device id only that device is read;
without arguments every configured device is probed once.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	devices := cfg.Recovery.Devices
	if len(args) == 1 {
		devices = nil
		for _, d := range cfg.Recovery.Devices {
			if d.ID == args[0] {
				devices = append(devices, d)
			}
		}
		if len(devices) == 0 {
			return fmt.Errorf("unknown device %q", args[0])
		}
	}

	interval := time.Duration(cfg.Recovery.Poll.IntervalMs) * time.Millisecond
	results := make([]probe.Result, 0, len(devices))

	for _, d := range devices {
		results = append(results, fetchOne(d, interval))
	}

	report.Table(os.Stdout, results)

	for _, res := range results {
		if res.Err != nil || !res.Found {
			continue
		}
		fmt.Printf("\nDevice %s:\n", res.DeviceID)
		printRecord(res.Rec)
	}
	return nil
}

// fetchOne probes a single device, folding connect failures into the
// result the way a failed cycle would look.
func fetchOne(d config.DeviceConfig, interval time.Duration) probe.Result {
	p, closeClient, err := probe.Build(d, interval)
	if err != nil {
		return probe.Result{DeviceID: d.ID, At: time.Now(), Err: err}
	}
	defer func() {
		if err := closeClient(); err != nil {
			log.Printf("close failed (device=%s): %v", d.ID, err)
		}
	}()

	return p.ProbeOnce()
}
