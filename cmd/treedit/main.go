package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"treedit/internal/adapters/clipboard"
	"treedit/internal/adapters/codec"
	"treedit/internal/adapters/editor"
	"treedit/internal/adapters/filesystem"
	"treedit/internal/adapters/sqlite"
	"treedit/internal/adapters/tui"
	"treedit/internal/application"
	"treedit/internal/config"
)

func main() {
	configFlag := flag.String("config", config.Path(), "path to the config file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: treedit [flags] <file>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if os.Getenv("TREEDIT_DEBUG") != "" {
		f, err := tea.LogToFile("treedit-debug.log", "debug")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	if err := run(*configFlag, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, filePath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Initialize adapters
	c := codec.New()
	repo := filesystem.NewRepository(c)

	path := filesystem.ExpandPath(filePath)
	root, format, err := repo.Load(path)
	if err != nil {
		return err
	}

	deps := tui.Deps{
		Codec:     c,
		Repo:      repo,
		Registers: clipboard.NewRegisters(c),
		Editor:    editor.NewOpener(),
	}

	store, err := sqlite.Open(cfg.StateDir)
	if err != nil {
		log.Printf("view state disabled: %v", err)
	} else {
		defer store.Close()
		deps.Store = store
	}

	doc := tui.Document{
		Path:    path,
		Format:  format,
		Session: application.NewSession(root, cfg.SessionOptions()),
	}

	p := tea.NewProgram(tui.NewApp(doc, deps), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
