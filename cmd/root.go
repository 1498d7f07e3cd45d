// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"firestige.xyz/nxwire/internal/config"
	"firestige.xyz/nxwire/internal/log"
)

var configFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nxwire",
	Short: "nxwire - IPv6 extension chain and NXM flow match codec tool",
	Long: `nxwire decodes and encodes two self-describing wire formats:
IPv6 packet headers with chained extension headers, and NXM (Nicira
Extensible Match) flow-match records.

Buffers come in as hex on the command line or from files; nothing here
opens a socket.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if configFile != "" {
			loaded, err := config.Load(configFile)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		log.Init(cfg.Log)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (optional)")

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(matchCmd)
}

// exitWithError prints error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
