package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// normalizeLineEndings rewrites CRLF to LF. Buffers are normalized once on
// read and written back as-is, so edits never reintroduce CRLF.
func normalizeLineEndings(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// leadingWhitespace returns the run of spaces and tabs opening a line.
func leadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// applyExact replaces the first literal occurrence of oldText. The second
// return reports whether a replacement happened.
func applyExact(buffer, oldText, newText string) (string, bool) {
	if !strings.Contains(buffer, oldText) {
		return buffer, false
	}
	return strings.Replace(buffer, oldText, newText, 1), true
}

// applyFuzzy slides a window of len(oldText lines) over the buffer and
// replaces the first window whose lines equal the old lines after trimming
// leading and trailing whitespace. Interior whitespace must match exactly.
//
// The replacement keeps the indentation structure of the matched region:
// the first new line adopts the matched line's indent verbatim, and each
// later new line re-emits that indent widened by the old-to-new indent
// delta, floored at zero extra spaces. New lines with no corresponding old
// line, and blank new lines, are spliced in unchanged.
func applyFuzzy(buffer, oldText, newText string) (string, bool) {
	oldLines := strings.Split(oldText, "\n")
	bufLines := strings.Split(buffer, "\n")

	for i := 0; i+len(oldLines) <= len(bufLines); i++ {
		matched := true
		for j := range oldLines {
			if strings.TrimSpace(oldLines[j]) != strings.TrimSpace(bufLines[i+j]) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}

		origIndent := leadingWhitespace(bufLines[i])
		newLines := strings.Split(newText, "\n")
		repl := make([]string, 0, len(newLines))
		for k, nl := range newLines {
			if k == 0 {
				repl = append(repl, origIndent+strings.TrimLeft(nl, " \t"))
				continue
			}
			if k >= len(oldLines) || strings.TrimSpace(nl) == "" {
				repl = append(repl, nl)
				continue
			}
			extra := len(leadingWhitespace(nl)) - len(leadingWhitespace(oldLines[k]))
			if extra < 0 {
				extra = 0
			}
			repl = append(repl, origIndent+strings.Repeat(" ", extra)+strings.TrimLeft(nl, " \t"))
		}

		out := make([]string, 0, len(bufLines)-len(oldLines)+len(repl))
		out = append(out, bufLines[:i]...)
		out = append(out, repl...)
		out = append(out, bufLines[i+len(oldLines):]...)
		return strings.Join(out, "\n"), true
	}
	return buffer, false
}

// applyEdits runs each edit in order against the evolving buffer: an exact
// substring replacement wins, otherwise the whitespace-tolerant window
// match runs. The first edit with neither match aborts the whole request.
func applyEdits(content string, edits []TextEdit) (string, error) {
	buffer := normalizeLineEndings(content)
	for _, e := range edits {
		oldText := normalizeLineEndings(e.OldText)
		newText := normalizeLineEndings(e.NewText)
		if next, ok := applyExact(buffer, oldText, newText); ok {
			buffer = next
			continue
		}
		next, ok := applyFuzzy(buffer, oldText, newText)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrNoMatch, truncateForError(oldText))
		}
		buffer = next
	}
	return buffer, nil
}

func truncateForError(s string) string {
	if len(s) > 120 {
		return s[:117] + "..."
	}
	return s
}

// pathLocks serializes mutating operations per resolved path when the
// -serialize flag is set, closing the lost-update window between two
// concurrent read-modify-write requests on the same file.
var pathLocks sync.Map

func lockPath(path string) func() {
	if !*serializeFlag {
		return func() {}
	}
	v, _ := pathLocks.LoadOrStore(path, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func formatPatchResult(r PatchResult) string {
	return r.Diff
}

func handlePatch(guard *PathGuard, history *HistoryStore) mcp.StructuredToolHandlerFunc[PatchArgs, PatchResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args PatchArgs) (PatchResult, error) {
		start := time.Now()
		dprintf("-> fs_patch path=%q edits=%d dry_run=%v", args.Path, len(args.Edits), args.DryRun)
		var res PatchResult
		if len(args.Edits) == 0 {
			return res, newOpError("patch", args.Path, ErrPatternRequired, "at least one edit required")
		}
		full, err := guard.Resolve(args.Path)
		if err != nil {
			dprintf("fs_patch resolve error: %v", err)
			return res, err
		}
		fi, err := os.Stat(full)
		if err != nil {
			dprintf("fs_patch stat error: %v", err)
			return res, err
		}
		if !fi.Mode().IsRegular() {
			return res, newOpError("patch", args.Path, ErrPathNotRegular)
		}

		unlock := lockPath(full)
		defer unlock()

		b, err := os.ReadFile(full)
		if err != nil {
			dprintf("fs_patch read error: %v", err)
			return res, err
		}
		original := normalizeLineEndings(string(b))

		if !args.DryRun {
			history.Snapshot(full, original)
		}

		buffer, err := applyEdits(original, args.Edits)
		if err != nil {
			dprintf("fs_patch error: %v", err)
			return res, err
		}

		diff := renderDiff(original, buffer, args.Path)

		if !args.DryRun {
			mode := fi.Mode() & os.ModePerm
			if mode == 0 {
				mode = 0o644
			}
			if err := os.WriteFile(full, []byte(buffer), mode); err != nil {
				dprintf("fs_patch write error: %v", err)
				return res, err
			}
		}

		res = PatchResult{
			Path:   args.Path,
			Edits:  len(args.Edits),
			DryRun: args.DryRun,
			Bytes:  len(buffer),
			Diff:   diff,
		}
		dprintf("<- fs_patch ok edits=%d bytes=%d dry_run=%v dur=%s", len(args.Edits), len(buffer), args.DryRun, time.Since(start))
		return res, nil
	}
}
