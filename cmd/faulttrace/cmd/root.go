package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tamzrod/faulttrace/internal/config"
	"github.com/tamzrod/faulttrace/internal/symbolize"
)

var (
	cfgFile string
	elfPath string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "faulttrace",
	Short: "Fault record recovery and fleet monitoring",
	Long: `faulttrace recovers post-mortem fault records from instrumented
microcontrollers: decode traces against a firmware ELF, extract records
from raw flash dumps, read them off live devices over Modbus TCP, and
export fleet health for Prometheus.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.faulttrace/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&elfPath, "elf", "", "firmware ELF for stack trace symbolization (default from config)")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		viper.AddConfigPath(filepath.Join(home, ".faulttrace"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("faulttrace")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if elfPath == "" {
			elfPath = viper.GetString("recovery.elf")
		}
	}
}

// loadConfig loads, validates, and normalizes the device configuration
// the fetch and export commands need.
func loadConfig() (*config.Config, error) {
	path := viper.ConfigFileUsed()
	if path == "" {
		return nil, errors.New("no configuration file found; use --config")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)

	if elfPath == "" {
		elfPath = cfg.Recovery.ELF
	}
	return cfg, nil
}

// newSymbolizer returns (nil, nil) when no ELF is configured: callers
// fall back to raw addresses.
func newSymbolizer() (*symbolize.Symbolizer, error) {
	if elfPath == "" {
		return nil, nil
	}
	return symbolize.New(elfPath)
}
