package cmd

import (
	"github.com/spf13/cobra"

	"treedit/internal/adapters/codec"
	"treedit/internal/ports"
)

var getAs string

var getCmd = &cobra.Command{
	Use:   "get <file> <path>",
	Short: "Print the value at a path",
	Long: `Print the value at a path, serialized as YAML unless --as says otherwise.

Examples:
  treedit-cli get config.yaml 1
  treedit-cli get config.yaml 1.0 --as json
  treedit-cli get config.yaml .             # whole document`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}

		format := ports.FormatYAML
		if getAs != "" {
			if format, err = codec.ParseFormat(getAs); err != nil {
				return err
			}
		}

		n, err := nodeAt(doc.session.Root(), args[1])
		if err != nil {
			return err
		}
		data, err := cdc.Encode(n, format)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	getCmd.Flags().StringVar(&getAs, "as", "", "output format: yaml, json or jsonl")
	rootCmd.AddCommand(getCmd)
}
