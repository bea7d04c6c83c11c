// Package ctlmap is the cobra command tree for the ctlmap binary: list
// MIDI ports, watch a mapping file live against an input port, and
// validate a mapping file without opening any hardware.
package ctlmap

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ctlmap",
	Short: "Map MIDI controllers onto application parameters",
	Long: "ctlmap decodes MIDI controller messages (7-bit and 14-bit CC, " +
		"RPN/NRPN, pitch bend, notes, clock) and routes them through a " +
		"configurable value-transformation pipeline onto named targets.",
	SilenceUsage: true,
}

// Execute runs the command tree; main.go's only job is to call this. On
// failure Execute prints the error and exits the process with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(validateCmd)
}
