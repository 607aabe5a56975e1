package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// insertAfterLine splices text into content after the 1-based line index.
// Index 0 prepends; an index past the last line appends. The inserted text
// goes in verbatim, never normalized or reindented.
func insertAfterLine(content string, line int, text string) string {
	lines := strings.Split(content, "\n")
	if line > len(lines) {
		line = len(lines)
	}
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:line]...)
	out = append(out, text)
	out = append(out, lines[line:]...)
	return strings.Join(out, "\n")
}

func formatInsertResult(r InsertResult) string {
	return r.Diff
}

func handleInsert(guard *PathGuard, history *HistoryStore) mcp.StructuredToolHandlerFunc[InsertArgs, InsertResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args InsertArgs) (InsertResult, error) {
		start := time.Now()
		dprintf("-> fs_insert path=%q line=%d bytes=%d", args.Path, args.Line, len(args.Text))
		var res InsertResult
		if args.Line < 0 {
			return res, newOpError("insert", args.Path, ErrInvalidLine)
		}
		full, err := guard.Resolve(args.Path)
		if err != nil {
			dprintf("fs_insert resolve error: %v", err)
			return res, err
		}
		fi, err := os.Stat(full)
		if err != nil {
			dprintf("fs_insert stat error: %v", err)
			return res, err
		}
		if !fi.Mode().IsRegular() {
			return res, newOpError("insert", args.Path, ErrPathNotRegular)
		}

		unlock := lockPath(full)
		defer unlock()

		b, err := os.ReadFile(full)
		if err != nil {
			dprintf("fs_insert read error: %v", err)
			return res, err
		}
		original := normalizeLineEndings(string(b))

		history.Snapshot(full, original)

		buffer := insertAfterLine(original, args.Line, args.Text)
		diff := renderDiff(original, buffer, args.Path)

		mode := fi.Mode() & os.ModePerm
		if mode == 0 {
			mode = 0o644
		}
		if err := os.WriteFile(full, []byte(buffer), mode); err != nil {
			dprintf("fs_insert write error: %v", err)
			return res, err
		}

		res = InsertResult{
			Path:  args.Path,
			Line:  args.Line,
			Bytes: len(buffer),
			Diff:  diff,
		}
		dprintf("<- fs_insert ok line=%d bytes=%d dur=%s", args.Line, len(buffer), time.Since(start))
		return res, nil
	}
}
