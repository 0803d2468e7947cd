package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"treedit/internal/application"
	"treedit/internal/application/commands"
	"treedit/internal/domain"
)

// RegisterWriteTools adds all editing tools to the MCP server.
// Edits stay in memory until save is called.
func RegisterWriteTools(s *server.MCPServer, doc *Document) {
	s.AddTool(insertTool(), insertHandler(doc))
	s.AddTool(setTool(), setHandler(doc))
	s.AddTool(renameTool(), renameHandler(doc))
	s.AddTool(deleteTool(), deleteHandler(doc))
	s.AddTool(undoTool(), undoHandler(doc))
	s.AddTool(redoTool(), redoHandler(doc))
	s.AddTool(saveTool(), saveHandler(doc))
}

func pathArg(description string) mcp.ToolOption {
	return mcp.WithString("path",
		mcp.Description(description),
		mcp.Required(),
	)
}

// --- insert ---

func insertTool() mcp.Tool {
	return mcp.NewTool("insert",
		mcp.WithDescription("Insert a value next to or inside the node at path. Values are parsed like YAML: 42, true, \"text\", [1, 2], {a: 1}."),
		pathArg("Path of the reference node. Use . with mode child to insert at the top level."),
		mcp.WithString("mode",
			mcp.Description("Where the value goes relative to path"),
			mcp.Enum("after", "before", "child"),
		),
		mcp.WithString("key",
			mcp.Description("Key for the new entry. Required when the target container is an object."),
		),
		mcp.WithString("value",
			mcp.Description("Value text. Empty means null."),
		),
	)
}

func insertHandler(doc *Document) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		mode, err := application.ParseInsertMode(req.GetString("mode", "after"))
		if err != nil {
			return toolError(err)
		}

		var message string
		err = doc.with(func(s *application.Session) error {
			if path := req.GetString("path", ""); path == "." || path == "" {
				if mode != application.InsertChild {
					return fmt.Errorf("inserting at the root requires mode child")
				}
				if err := s.SetCursor(domain.Root); err != nil {
					return err
				}
			} else if err := focus(s, path); err != nil {
				return err
			}

			cmd := commands.NewInsertCommand(s, doc.codec, mode, req.GetString("key", ""), req.GetString("value", ""))
			result, err := cmd.Execute(ctx)
			if err != nil {
				return err
			}
			message = result.Message
			return nil
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(message), nil
	}
}

// --- set ---

func setTool() mcp.Tool {
	return mcp.NewTool("set",
		mcp.WithDescription("Replace the value at path, keeping its key."),
		pathArg("Path of the node to replace"),
		mcp.WithString("value",
			mcp.Description("New value text, parsed like YAML"),
			mcp.Required(),
		),
	)
}

func setHandler(doc *Document) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var message string
		err := doc.with(func(s *application.Session) error {
			if err := focus(s, req.GetString("path", "")); err != nil {
				return err
			}
			result, err := commands.NewSetValueCommand(s, doc.codec, req.GetString("value", "")).Execute(ctx)
			if err != nil {
				return err
			}
			message = result.Message
			return nil
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(message), nil
	}
}

// --- rename ---

func renameTool() mcp.Tool {
	return mcp.NewTool("rename",
		mcp.WithDescription("Rename the key of an object entry."),
		pathArg("Path of the entry to rename"),
		mcp.WithString("new_key",
			mcp.Description("New key"),
			mcp.Required(),
		),
	)
}

func renameHandler(doc *Document) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var message string
		err := doc.with(func(s *application.Session) error {
			if err := focus(s, req.GetString("path", "")); err != nil {
				return err
			}
			result, err := commands.NewRenameCommand(s, req.GetString("new_key", "")).Execute(ctx)
			if err != nil {
				return err
			}
			message = result.Message
			return nil
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(message), nil
	}
}

// --- delete ---

func deleteTool() mcp.Tool {
	return mcp.NewTool("delete",
		mcp.WithDescription("Delete the node at path. Later siblings shift down by one, so paths returned earlier may no longer be valid."),
		pathArg("Path of the node to delete"),
	)
}

func deleteHandler(doc *Document) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var message string
		err := doc.with(func(s *application.Session) error {
			if err := focus(s, req.GetString("path", "")); err != nil {
				return err
			}
			result, err := commands.NewDeleteCommand(s, nil, 0).Execute(ctx)
			if err != nil {
				return err
			}
			message = result.Message
			return nil
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(message), nil
	}
}

// --- undo / redo ---

func undoTool() mcp.Tool {
	return mcp.NewTool("undo",
		mcp.WithDescription("Undo the last edit."),
	)
}

func undoHandler(doc *Document) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var message string
		err := doc.with(func(s *application.Session) error {
			result, err := commands.NewUndoCommand(s).Execute(ctx)
			if err != nil {
				return err
			}
			message = result.Message
			return nil
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(message), nil
	}
}

func redoTool() mcp.Tool {
	return mcp.NewTool("redo",
		mcp.WithDescription("Redo an undone edit. After undoing and editing again there may be several redo branches."),
		mcp.WithNumber("branch",
			mcp.Description("Redo branch index. Omit for the most recent one."),
		),
	)
}

func redoHandler(doc *Document) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var message string
		err := doc.with(func(s *application.Session) error {
			cmd := commands.NewRedoCommand(s)
			cmd.Branch = req.GetInt("branch", -1)
			result, err := cmd.Execute(ctx)
			if err != nil {
				return err
			}
			message = result.Message
			return nil
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(message), nil
	}
}

// --- save ---

func saveTool() mcp.Tool {
	return mcp.NewTool("save",
		mcp.WithDescription("Write the document back to its file."),
	)
}

func saveHandler(doc *Document) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var message string
		err := doc.with(func(s *application.Session) error {
			result, err := commands.NewSaveCommand(s, doc.repo, doc.path, doc.format).Execute(ctx)
			if err != nil {
				return err
			}
			message = result.Message
			return nil
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(message), nil
	}
}
