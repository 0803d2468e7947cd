package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"treedit/internal/adapters/codec"
	"treedit/internal/adapters/filesystem"
	mcpadapter "treedit/internal/adapters/mcp"
	"treedit/internal/config"
)

func main() {
	configFlag := flag.String("config", config.Path(), "path to the config file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: treedit-mcp [flags] <file>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("treedit-mcp: %v", err)
	}

	c := codec.New()
	repo := filesystem.NewRepository(c)
	doc, err := mcpadapter.OpenDocument(repo, c, filesystem.ExpandPath(flag.Arg(0)), cfg.SessionOptions())
	if err != nil {
		log.Fatalf("treedit-mcp: %v", err)
	}

	mcpServer := server.NewMCPServer(
		"treedit-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, doc)
	mcpadapter.RegisterWriteTools(mcpServer, doc)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("treedit-mcp: %v", err)
	}
}
