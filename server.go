package main

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func wrapTextHandler[TArgs any, TResult any](h mcp.StructuredToolHandlerFunc[TArgs, TResult], format func(TResult) string) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args TArgs
		if err := req.BindArguments(&args); err != nil {
			return errorResult(err), nil
		}
		res, err := h(ctx, req, args)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(format(res)), nil
	}
}

func wrapStructuredHandler[TArgs any, TResult any](h mcp.StructuredToolHandlerFunc[TArgs, TResult]) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args TArgs
		if err := req.BindArguments(&args); err != nil {
			return errorResult(err), nil
		}
		res, err := h(ctx, req, args)
		if err != nil {
			return errorResult(err), nil
		}
		fallback, merr := json.Marshal(res)
		if merr != nil {
			return errorResult(merr), nil
		}
		return mcp.NewToolResultStructured(res, string(fallback)), nil
	}
}

// errorResult renders a failure as "Error: <message>" fallback text plus
// the structured response carrying a closed error code.
func errorResult(err error) *mcp.CallToolResult {
	errResp := toErrorResponse(err)
	out := mcp.NewToolResultStructured(errResp, "Error: "+errResp.Error)
	out.IsError = true
	return out
}

// addTool registers one tool, honoring the -compat text/structured split.
func addTool[TArgs any, TResult any](s *server.MCPServer, name string, h mcp.StructuredToolHandlerFunc[TArgs, TResult], format func(TResult) string, opts ...mcp.ToolOption) {
	if !*compatFlag {
		opts = append(opts, mcp.WithOutputSchema[TResult]())
	}
	tool := mcp.NewTool(name, opts...)
	if *compatFlag {
		s.AddTool(tool, wrapTextHandler(h, format))
	} else {
		s.AddTool(tool, wrapStructuredHandler(h))
	}
}

func formatRootsResult(r RootsResult) string {
	out := ""
	for i, root := range r.Roots {
		if i > 0 {
			out += "\n"
		}
		out += root
	}
	return out
}

func handleRoots(guard *PathGuard) mcp.StructuredToolHandlerFunc[RootsArgs, RootsResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args RootsArgs) (RootsResult, error) {
		return RootsResult{Roots: guard.Roots()}, nil
	}
}

func setupServer(guard *PathGuard, history *HistoryStore) *server.MCPServer {
	s := server.NewMCPServer("sandboxfs", "0.2.0")

	addTool(s, "fs_patch", handlePatch(guard, history), formatPatchResult,
		mcp.WithDescription("Apply ordered text edits to a file; exact match first, whitespace-tolerant fallback. Returns a fenced unified diff."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Target text file within an allowed root")),
		mcp.WithArray("edits", mcp.Required(), mcp.Description("Ordered {old_text,new_text} edits applied left to right")),
		mcp.WithBoolean("dry_run", mcp.Description("Preview the diff without writing or recording history")),
	)

	addTool(s, "fs_insert", handleInsert(guard, history), formatInsertResult,
		mcp.WithDescription("Insert a text block verbatim after a line; 0 prepends, past-end appends. Returns a fenced unified diff."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Target text file")),
		mcp.WithNumber("line", mcp.Required(), mcp.Min(0), mcp.Description("1-based line to insert after; 0 prepends")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Block inserted verbatim")),
	)

	addTool(s, "fs_undo", handleUndo(guard, history), formatUndoResult,
		mcp.WithDescription("Revert a file to its most recent pre-edit snapshot"),
		mcp.WithString("path", mcp.Required(), mcp.Description("File whose last edit should be reverted")),
	)

	addTool(s, "fs_read", handleRead(guard), formatReadResult,
		mcp.WithDescription("Read a file up to a byte limit."),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path or file:// URI within an allowed root")),
		mcp.WithNumber("max_bytes", mcp.Min(1), mcp.Description("Maximum bytes to return")),
	)

	addTool(s, "fs_write", handleWrite(guard), formatWriteResult,
		mcp.WithDescription("Create or modify a file with a strategy"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Target file path")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Data to write")),
		mcp.WithString("strategy", mcp.Enum(string(strategyOverwrite), string(strategyNoClobber), string(strategyAppend)), mcp.Description("Write strategy: overwrite, no_clobber, append")),
		mcp.WithString("mode", mcp.Pattern("^0?[0-7]{3,4}$"), mcp.Description("File mode in octal, keep existing if omitted")),
	)

	addTool(s, "fs_list", handleList(guard), formatListResult,
		mcp.WithDescription("List directory contents"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Directory to list")),
		mcp.WithBoolean("recursive", mcp.Description("Recurse into subdirectories")),
		mcp.WithNumber("max_entries", mcp.Min(1), mcp.Description("Maximum entries to return")),
	)

	addTool(s, "fs_tree", handleTree(guard), formatTreeResult,
		mcp.WithDescription("Render a recursive directory tree"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Directory to render")),
		mcp.WithNumber("max_depth", mcp.Min(1), mcp.Description("Depth cap")),
	)

	addTool(s, "fs_stat", handleStat(guard), formatStatResult,
		mcp.WithDescription("Retrieve metadata for a file or directory"),
		mcp.WithString("path", mcp.Required(), mcp.Description("File or directory path")),
	)

	addTool(s, "fs_move", handleMove(guard), formatMoveResult,
		mcp.WithDescription("Rename or move a file or directory; destination must not exist"),
		mcp.WithString("source", mcp.Required(), mcp.Description("Existing path")),
		mcp.WithString("destination", mcp.Required(), mcp.Description("New path")),
	)

	addTool(s, "fs_remove", handleRemove(guard), formatRemoveResult,
		mcp.WithDescription("Delete a file or directory"),
		mcp.WithString("path", mcp.Required(), mcp.Description("File or directory to remove")),
		mcp.WithBoolean("recursive", mcp.Description("Remove directory contents recursively")),
	)

	addTool(s, "fs_mkdir", handleMkdir(guard), formatMkdirResult,
		mcp.WithDescription("Create a directory; supports brace expansion"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Directory path to create")),
		mcp.WithBoolean("parents", mcp.Description("Create missing parent directories")),
		mcp.WithString("mode", mcp.Pattern("^0?[0-7]{3,4}$"), mcp.Description("Directory mode in octal")),
	)

	addTool(s, "fs_search", handleSearch(guard), formatSearchResult,
		mcp.WithDescription("Search files recursively for text, with optional glob filters"),
		mcp.WithString("pattern", mcp.Required(), mcp.Description("Substring or regex to find")),
		mcp.WithString("path", mcp.Description("Start directory; defaults to every allowed root")),
		mcp.WithBoolean("regex", mcp.Description("Interpret pattern as regular expression")),
		mcp.WithString("include", mcp.Description("Glob filter files must match")),
		mcp.WithString("exclude", mcp.Description("Glob filter matching files are skipped by")),
		mcp.WithNumber("max_results", mcp.Min(1), mcp.Description("Maximum matches to return")),
	)

	addTool(s, "fs_find_dirs", handleFindDirs(guard), formatFindDirsResult,
		mcp.WithDescription("Find directories whose name contains a substring"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Case-insensitive name substring")),
		mcp.WithString("path", mcp.Description("Start directory; defaults to every allowed root")),
		mcp.WithString("exclude", mcp.Description("Glob filter matching directories are skipped by")),
		mcp.WithNumber("max_results", mcp.Min(1), mcp.Description("Maximum matches to return")),
	)

	addTool(s, "fs_glob", handleGlob(guard), formatGlobResult,
		mcp.WithDescription("Match paths using shell-style globbing; ** enables recursion"),
		mcp.WithString("pattern", mcp.Required(), mcp.Description("Glob pattern relative to the allowed roots")),
		mcp.WithNumber("max_results", mcp.Min(1), mcp.Description("Maximum matches to return")),
	)

	addTool(s, "fs_roots", handleRoots(guard), formatRootsResult,
		mcp.WithDescription("List the allowed roots this server may touch"),
	)

	return s
}
