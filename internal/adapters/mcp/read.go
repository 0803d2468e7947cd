package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"treedit/internal/application"
	"treedit/internal/application/commands"
	"treedit/internal/domain"
	"treedit/internal/ports"
)

// RegisterReadTools adds all read-only document tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, doc *Document) {
	s.AddTool(viewTool(), viewHandler(doc))
	s.AddTool(getTool(), getHandler(doc))
	s.AddTool(pathsTool(), pathsHandler(doc))
	s.AddTool(searchTool(), searchHandler(doc))
}

// --- view ---

func viewTool() mcp.Tool {
	return mcp.NewTool("view",
		mcp.WithDescription("Show the document as an outline of visible lines with their paths. Containers marked ▸ are collapsed, ▾ expanded."),
		mcp.WithBoolean("expand_all",
			mcp.Description("Expand every container before rendering"),
		),
	)
}

func viewHandler(doc *Document) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		expandAll := req.GetBool("expand_all", false)

		var sb strings.Builder
		err := doc.with(func(s *application.Session) error {
			if expandAll {
				s.ExpandAll()
			}
			lines := s.Lines()
			if len(lines) == 0 {
				sb.WriteString(domain.Preview(s.Root(), domain.DefaultPreviewWidth))
				sb.WriteByte('\n')
				return nil
			}
			return application.WriteLines(&sb, lines, nil)
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- get ---

func getTool() mcp.Tool {
	return mcp.NewTool("get",
		mcp.WithDescription("Return the value at a path as YAML (or JSON)."),
		mcp.WithString("path",
			mcp.Description("Dotted child indexes from the root, e.g. 0.2.1. Use . for the whole document."),
			mcp.Required(),
		),
		mcp.WithString("format",
			mcp.Description("Output format"),
			mcp.Enum("yaml", "json"),
		),
	)
}

func getHandler(doc *Document) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		format := ports.FormatYAML
		if req.GetString("format", "yaml") == "json" {
			format = ports.FormatJSON
		}

		var out []byte
		err := doc.with(func(s *application.Session) error {
			p, err := application.ValidatePath("path", req.GetString("path", "."))
			if err != nil {
				return err
			}
			if err := domain.Validate(s.Root(), p); err != nil {
				return err
			}
			out, err = doc.codec.Encode(s.Get(p), format)
			return err
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}

// --- paths ---

func pathsTool() mcp.Tool {
	return mcp.NewTool("paths",
		mcp.WithDescription("List paths below a node with their keys and kinds."),
		mcp.WithString("from",
			mcp.Description("Path to start from. Omit for the root."),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("How many levels to descend. 0 means unlimited."),
		),
	)
}

func pathsHandler(doc *Document) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var entries []commands.PathEntry
		err := doc.with(func(s *application.Session) error {
			from, err := application.ValidatePath("from", req.GetString("from", "."))
			if err != nil {
				return err
			}
			cmd := commands.NewListPathsCommand(s.Root(), from, req.GetInt("max_depth", 0))
			entries, err = cmd.Execute(ctx)
			return err
		})
		if err != nil {
			return toolError(err)
		}
		return formatEntries(entries, formatPathEntry)
	}
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Fuzzy search keys and scalar values. Returns matching paths, best first."),
		mcp.WithString("query",
			mcp.Description("Search query, at least two characters"),
			mcp.Required(),
		),
	)
}

func searchHandler(doc *Document) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		var results []commands.SearchResult
		err := doc.with(func(s *application.Session) error {
			var err error
			results, err = commands.NewSearchCommand(s.Root(), query).Execute(ctx)
			return err
		})
		if err != nil {
			return toolError(err)
		}

		if len(results) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}
		return formatEntries(results, formatSearchResult)
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntries[T any](entries []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entries) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatPathEntry(e commands.PathEntry) string {
	return fmt.Sprintf("%s  %s  %s", e.Path, e.Key, e.Kind)
}

func formatSearchResult(r commands.SearchResult) string {
	return fmt.Sprintf("%s  %s  %s", r.Path, r.KeyPath, r.Preview)
}
