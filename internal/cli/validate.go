package cli

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/worldos/console/internal/domain/project"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a project or a project collection against the schema",
		Long: `Check a JSON file without writing anything. A top-level array is checked as a
whole collection (the backing storage format), an object as a single project.

Examples:
  worldos validate data/projects.json
  worldos validate ashfall.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			count := 1
			if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
				projects, err := project.DecodeCollection(trimmed)
				if err != nil {
					return err
				}
				count = len(projects)
			} else if _, err := project.Decode(data); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d project(s)\n", color.New(color.FgGreen).Sprint("valid"), args[0], count)
			return nil
		},
	}
}
