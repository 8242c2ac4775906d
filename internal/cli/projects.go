package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/worldos/console/internal/domain/project"
)

func projectsCmd(flags *storageFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "List, show, write and delete projects",
	}

	cmd.AddCommand(projectsListCmd(flags))
	cmd.AddCommand(projectsGetCmd(flags))
	cmd.AddCommand(projectsPutCmd(flags))
	cmd.AddCommand(projectsDeleteCmd(flags))

	return cmd
}

func projectsListCmd(flags *storageFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects in storage order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := flags.open()
			if err != nil {
				return err
			}
			defer a.Close()

			projects, err := a.Projects.List(context.Background())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), projects)
			}
			displayProjects(cmd.OutOrStdout(), projects)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full documents as JSON")
	return cmd
}

func projectsGetCmd(flags *storageFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one project as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.open()
			if err != nil {
				return err
			}
			defer a.Close()

			proj, err := a.Projects.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), proj)
		},
	}
}

func projectsPutCmd(flags *storageFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "put <file>",
		Short: "Create or replace a project from a JSON file",
		Long: `Create or replace a project from a JSON file ("-" reads stdin).

The document is validated before anything is written. An existing project with
the same id keeps its created_at.

Examples:
  worldos projects put ashfall.json
  cat ashfall.json | worldos projects put -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			proj, err := project.Decode(data)
			if err != nil {
				return err
			}

			a, err := flags.open()
			if err != nil {
				return err
			}
			defer a.Close()

			stored, err := a.Projects.Create(context.Background(), proj)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", color.New(color.FgGreen).Sprint("saved"), stored.ID, stored.Name)
			return nil
		},
	}
}

func projectsDeleteCmd(flags *storageFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Projects.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.New(color.FgRed).Sprint("deleted"), args[0])
			return nil
		},
	}
}

func displayProjects(out io.Writer, projects []project.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tCHARACTERS\tZONES\tUPDATED")
	for _, p := range projects {
		s := p.Summary()
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			s.ID, s.Name, typeLabel(s.Type), s.Characters, s.Zones, project.FormatTimestamp(s.UpdatedAt))
	}
	w.Flush()
}

func typeLabel(t project.ProjectType) string {
	switch t {
	case project.TypeNovel:
		return color.New(color.FgHiBlue).Sprint(t)
	case project.TypeGame:
		return color.New(color.FgHiGreen).Sprint(t)
	case project.TypeTTRPG:
		return color.New(color.FgYellow).Sprint(t)
	case project.TypeScreenplay:
		return color.New(color.FgHiMagenta).Sprint(t)
	default:
		return color.New(color.FgWhite).Sprint(t)
	}
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
