package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"treedit/internal/application"
	"treedit/internal/application/commands"
)

var (
	pathsFrom     string
	pathsMaxDepth int
)

var pathsCmd = &cobra.Command{
	Use:   "paths <file>",
	Short: "List node paths with their keys and kinds",
	Long: `List every node below a starting point in document order.

Examples:
  treedit-cli paths config.yaml
  treedit-cli paths config.yaml --from 2 --depth 1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		from, err := application.ValidatePath("from", pathsFrom)
		if err != nil {
			return err
		}

		entries, err := commands.NewListPathsCommand(doc.session.Root(), from, pathsMaxDepth).Execute(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range entries {
			indent := strings.Repeat("  ", e.Depth-1)
			fmt.Fprintf(out, "%-12s %s%s  (%s)\n", e.Path, indent, e.Key, e.Kind)
		}
		return nil
	},
}

func init() {
	pathsCmd.Flags().StringVar(&pathsFrom, "from", ".", "path to start from")
	pathsCmd.Flags().IntVarP(&pathsMaxDepth, "depth", "d", 0, "levels to descend, 0 for all")
	rootCmd.AddCommand(pathsCmd)
}
