package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"treedit/internal/adapters/codec"
	"treedit/internal/adapters/filesystem"
	"treedit/internal/application"
	"treedit/internal/application/commands"
	"treedit/internal/ports"
)

var (
	insertMode string
	insertKey  string
)

var setCmd = &cobra.Command{
	Use:   "set <file> <path> <value>",
	Short: "Replace the value at a path",
	Long: `Replace the value at a path, keeping its key. The value is read like
YAML: 42 is a number, "42" a string, [] an empty array.

Examples:
  treedit-cli set config.yaml 1.0 8080
  treedit-cli set config.yaml 3 '{level: debug}'`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		if err := doc.focus(args[1]); err != nil {
			return err
		}

		result, err := commands.NewSetValueCommand(doc.session, cdc, args[2]).Execute(ctx)
		if err != nil {
			return err
		}
		return doc.commit(ctx, cmd, result.Message)
	},
}

var insertCmd = &cobra.Command{
	Use:   "insert <file> <path> [value]",
	Short: "Insert a value next to or inside a node",
	Long: `Insert a value after, before or inside the node at path. A key is
required when the value lands in an object. An omitted value is null.

Examples:
  treedit-cli insert config.yaml 2 --key replicas 3
  treedit-cli insert config.yaml 1 --mode child 8443
  treedit-cli insert config.yaml . --mode child --key extra '{}'`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		mode, err := application.ParseInsertMode(insertMode)
		if err != nil {
			return err
		}
		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		if err := doc.focus(args[1]); err != nil {
			return err
		}

		value := ""
		if len(args) == 3 {
			value = args[2]
		}
		result, err := commands.NewInsertCommand(doc.session, cdc, mode, insertKey, value).Execute(ctx)
		if err != nil {
			return err
		}
		return doc.commit(ctx, cmd, result.Message)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <file> <path>",
	Short: "Delete the node at a path",
	Long: `Delete the node at a path together with everything below it.
Later siblings move up by one index.

Examples:
  treedit-cli delete config.yaml 1.0
  treedit-cli delete -n config.yaml 3     # preview the result`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		if err := doc.focus(args[1]); err != nil {
			return err
		}

		result, err := commands.NewDeleteCommand(doc.session, nil, 0).Execute(ctx)
		if err != nil {
			return err
		}
		return doc.commit(ctx, cmd, result.Message)
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <file> <path> <new-key>",
	Short: "Rename an object key",
	Long: `Rename the key of the object entry at path. The entry keeps its position.

Examples:
  treedit-cli rename config.yaml 0 service`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		if err := doc.focus(args[1]); err != nil {
			return err
		}

		result, err := commands.NewRenameCommand(doc.session, args[2]).Execute(ctx)
		if err != nil {
			return err
		}
		return doc.commit(ctx, cmd, result.Message)
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <file> <output>",
	Short: "Write a document in another format",
	Long: `Read a document and write it to output, choosing the format from the
output extension. Aliases are expanded and comments dropped when writing JSON.

Examples:
  treedit-cli convert config.yaml config.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		format, err := detectOutputFormat(args[1])
		if err != nil {
			return err
		}
		doc.path = filesystem.ExpandPath(args[1])
		doc.format = format
		return doc.commit(ctx, cmd, "Wrote "+doc.path)
	},
}

func init() {
	insertCmd.Flags().StringVarP(&insertMode, "mode", "m", "after", "where to insert: after, before or child")
	insertCmd.Flags().StringVarP(&insertKey, "key", "k", "", "key for the new entry when inserting into an object")

	for _, c := range []*cobra.Command{setCmd, insertCmd, deleteCmd, renameCmd, convertCmd} {
		addDryRunFlag(c)
		rootCmd.AddCommand(c)
	}
}

// detectOutputFormat honors --format before the output extension
func detectOutputFormat(path string) (ports.Format, error) {
	if formatName != "" {
		return codec.ParseFormat(formatName)
	}
	return codec.DetectFormat(path), nil
}
