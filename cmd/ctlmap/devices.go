package ctlmap

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schollz/ctlmap/internal/midiio"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available MIDI input and output ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("inputs:")
		for _, name := range midiio.InputNames() {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println("outputs:")
		for _, name := range midiio.OutputNames() {
			fmt.Printf("  %s\n", name)
		}
		return nil
	},
}
