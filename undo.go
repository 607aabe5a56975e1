package main

import (
	"context"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func formatUndoResult(r UndoResult) string {
	return r.Message + "\n\n" + r.Diff
}

// handleUndo pops the most recent pre-edit snapshot for a path and writes
// it back. The reverted-from content is not pushed, so repeated undo walks
// further back through history rather than toggling.
func handleUndo(guard *PathGuard, history *HistoryStore) mcp.StructuredToolHandlerFunc[UndoArgs, UndoResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args UndoArgs) (UndoResult, error) {
		start := time.Now()
		dprintf("-> fs_undo path=%q", args.Path)
		var res UndoResult
		full, err := guard.Resolve(args.Path)
		if err != nil {
			dprintf("fs_undo resolve error: %v", err)
			return res, err
		}

		unlock := lockPath(full)
		defer unlock()

		snapshot, err := history.Pop(full)
		if err != nil {
			dprintf("fs_undo error: %v", err)
			return res, err
		}

		current := ""
		if b, err := os.ReadFile(full); err == nil {
			current = normalizeLineEndings(string(b))
		} else if !os.IsNotExist(err) {
			dprintf("fs_undo read error: %v", err)
			return res, err
		}

		mode := os.FileMode(0o644)
		if fi, err := os.Stat(full); err == nil {
			if m := fi.Mode() & os.ModePerm; m != 0 {
				mode = m
			}
		}
		if err := os.WriteFile(full, []byte(snapshot), mode); err != nil {
			dprintf("fs_undo write error: %v", err)
			return res, err
		}

		res = UndoResult{
			Path:      args.Path,
			Message:   "Reverted to previous version.",
			Remaining: history.Depth(full),
			Diff:      renderDiff(current, snapshot, args.Path),
		}
		dprintf("<- fs_undo ok remaining=%d dur=%s", res.Remaining, time.Since(start))
		return res, nil
	}
}
