package ctlmap

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schollz/ctlmap/internal/mappingstore"
)

var validateCmd = &cobra.Command{
	Use:   "validate [mapping-file]",
	Short: "Check that every source, mode and target in a mapping file builds cleanly",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	set, err := mappingstore.Load(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	var failures int
	for _, m := range set.Mappings {
		if _, err := m.Source.Build(); err != nil {
			failures++
			fmt.Printf("%-24s source: %v\n", m.Name, err)
		}
		if _, err := m.Mode.Build(); err != nil {
			failures++
			fmt.Printf("%-24s mode:   %v\n", m.Name, err)
		}
		if _, err := m.Target.Build(); err != nil {
			failures++
			fmt.Printf("%-24s target: %v\n", m.Name, err)
		}
	}

	fmt.Printf("%d mapping(s), %d failure(s)\n", len(set.Mappings), failures)
	if failures > 0 {
		return fmt.Errorf("validate: %d mapping error(s)", failures)
	}
	return nil
}
