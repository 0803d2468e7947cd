package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"treedit/internal/application"
	"treedit/internal/domain"
)

var (
	viewExpandAll bool
	viewAt        string
)

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Print the document outline",
	Long: `Print the document as the editor would show it, one line per visible
node with its path.

Examples:
  treedit-cli view config.yaml
  treedit-cli view --all config.yaml
  treedit-cli view --at 2.0 config.yaml   # reveal and mark a node`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		s := doc.session

		if viewExpandAll {
			s.ExpandAll()
		}
		var cursor domain.Path
		if viewAt != "" {
			if err := doc.focus(viewAt); err != nil {
				return err
			}
			cursor = s.Cursor()
		}

		lines := s.Lines()
		out := cmd.OutOrStdout()
		if len(lines) == 0 {
			fmt.Fprintln(out, domain.Preview(s.Root(), cfg.PreviewWidth))
			return nil
		}
		return application.WriteLines(out, lines, cursor)
	},
}

func init() {
	viewCmd.Flags().BoolVarP(&viewExpandAll, "all", "a", false, "expand every container")
	viewCmd.Flags().StringVar(&viewAt, "at", "", "path to reveal and mark")
	rootCmd.AddCommand(viewCmd)
}
