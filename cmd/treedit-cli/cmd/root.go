package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"treedit/internal/adapters/codec"
	"treedit/internal/adapters/filesystem"
	"treedit/internal/application"
	"treedit/internal/application/commands"
	"treedit/internal/config"
	"treedit/internal/domain"
	"treedit/internal/ports"
)

var (
	configPath   string
	formatName   string
	dryRun       bool
	previewWidth int

	cfg  *config.Config
	cdc  *codec.Codec
	repo ports.DocumentRepository
)

var rootCmd = &cobra.Command{
	Use:   "treedit-cli",
	Short: "Inspect and edit YAML and JSON documents from the shell",
	Long: `treedit-cli reads a YAML, JSON or JSON Lines document, applies one
edit or query and writes the result back.

Nodes are addressed by dotted child indexes from the root, as printed by
the view and paths commands: 0 is the first top-level entry, 1.2 the third
child of the second one. Key order, comments and number spelling are kept.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("preview-width") {
			cfg.PreviewWidth = previewWidth
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		cdc = codec.New()
		repo = filesystem.NewRepository(cdc)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.Path(), "path to the config file")
	rootCmd.PersistentFlags().StringVarP(&formatName, "format", "f", "", "output format: yaml, json or jsonl (default: from the file extension)")
	rootCmd.PersistentFlags().IntVar(&previewWidth, "preview-width", config.DefaultPreviewWidth, "characters available for value previews")
}

// addDryRunFlag registers --dry-run on an editing command
func addDryRunFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the edited document instead of writing it")
}

// document is a loaded file ready for one command
type document struct {
	path    string
	format  ports.Format
	session *application.Session
}

func openDocument(path string) (*document, error) {
	path = filesystem.ExpandPath(path)
	root, format, err := repo.Load(path)
	if err != nil {
		return nil, err
	}
	if formatName != "" {
		if format, err = codec.ParseFormat(formatName); err != nil {
			return nil, err
		}
	}
	return &document{
		path:    path,
		format:  format,
		session: application.NewSession(root, cfg.SessionOptions()),
	}, nil
}

// focus parses pathText and moves the cursor there
func (d *document) focus(pathText string) error {
	p, err := application.ValidatePath("path", pathText)
	if err != nil {
		return err
	}
	return d.session.SetCursor(p)
}

// commit writes the document, or prints it when --dry-run is set, then reports message
func (d *document) commit(ctx context.Context, cmd *cobra.Command, message string) error {
	out := cmd.OutOrStdout()
	if dryRun {
		data, err := cdc.Encode(d.session.Root(), d.format)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	save := commands.NewSaveCommand(d.session, repo, d.path, d.format)
	if _, err := save.Execute(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, message)
	return nil
}

func nodeAt(root *domain.Node, pathText string) (*domain.Node, error) {
	p, err := application.ValidatePath("path", pathText)
	if err != nil {
		return nil, err
	}
	if err := domain.Validate(root, p); err != nil {
		return nil, err
	}
	return domain.Get(root, p), nil
}
