package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"treedit/internal/application/commands"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <file> <query...>",
	Short: "Fuzzy search keys and values",
	Long: `Search keys, dotted key paths and scalar values with fuzzy matching,
best matches first.

Examples:
  treedit-cli search config.yaml port
  treedit-cli search config.yaml server.port`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		query := strings.Join(args[1:], " ")

		results, err := commands.NewSearchCommand(doc.session.Root(), query).Execute(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No results found")
			return nil
		}
		if searchLimit > 0 && len(results) > searchLimit {
			results = results[:searchLimit]
		}
		for _, r := range results {
			fmt.Fprintf(out, "%-12s %s  %s\n", r.Path, r.KeyPath, r.Preview)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 20, "maximum results, 0 for all")
	rootCmd.AddCommand(searchCmd)
}
