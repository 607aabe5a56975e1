package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func formatListResult(r ListResult) string {
	var b strings.Builder
	for i, e := range r.Entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s %d %s %s", e.Path, e.Name, e.Kind, e.Size, e.Mode, e.ModifiedAt)
	}
	return b.String()
}

func handleList(guard *PathGuard) mcp.StructuredToolHandlerFunc[ListArgs, ListResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args ListArgs) (ListResult, error) {
		start := time.Now()
		dprintf("-> fs_list path=%q recursive=%v max_entries=%d", args.Path, args.Recursive, args.MaxEntries)
		var out ListResult
		base, err := guard.Resolve(args.Path)
		if err != nil {
			dprintf("fs_list resolve error: %v", err)
			return out, err
		}
		max := args.MaxEntries
		if max <= 0 {
			max = defaultListMaxEntries
		}
		count := 0
		add := func(path string, fi os.FileInfo) {
			if count >= max {
				return
			}
			out.Entries = append(out.Entries, ListEntry{
				Path:       guard.relTo(path),
				Name:       fi.Name(),
				Kind:       kindOf(fi),
				Size:       fi.Size(),
				Mode:       fmt.Sprintf("%#o", fi.Mode()&os.ModePerm),
				ModifiedAt: fi.ModTime().UTC().Format(time.RFC3339),
			})
			count++
		}
		fi, err := os.Stat(base)
		if err != nil {
			dprintf("fs_list stat error: %v", err)
			return out, err
		}
		if fi.IsDir() {
			if !args.Recursive {
				ents, err := os.ReadDir(base)
				if err != nil {
					dprintf("fs_list readdir error: %v", err)
					return out, err
				}
				for _, e := range ents {
					select {
					case <-ctx.Done():
						return out, ctx.Err()
					default:
					}
					info, err := e.Info()
					if err != nil {
						continue
					}
					add(filepath.Join(base, e.Name()), info)
				}
			} else {
				err := filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
					if err != nil {
						return nil
					}
					select {
					case <-ctx.Done():
						return ctx.Err()
					default:
					}
					add(path, info)
					if count >= max {
						return io.EOF
					}
					return nil
				})
				if err != nil && !errors.Is(err, io.EOF) {
					dprintf("fs_list walk error: %v", err)
					return out, err
				}
			}
		} else {
			add(base, fi)
		}
		dprintf("<- fs_list ok entries=%d dur=%s", len(out.Entries), time.Since(start))
		return out, nil
	}
}

func formatTreeResult(r TreeResult) string {
	return r.Tree
}

// renderTree writes an indented recursive listing of dir, directories
// suffixed with a slash, two spaces per level, capped at maxDepth.
func renderTree(b *strings.Builder, dir string, depth, maxDepth int) {
	if depth >= maxDepth {
		return
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	sort.Slice(ents, func(i, j int) bool { return ents[i].Name() < ents[j].Name() })
	indent := strings.Repeat("  ", depth)
	for _, e := range ents {
		if e.IsDir() {
			fmt.Fprintf(b, "%s%s/\n", indent, e.Name())
			renderTree(b, filepath.Join(dir, e.Name()), depth+1, maxDepth)
		} else {
			fmt.Fprintf(b, "%s%s\n", indent, e.Name())
		}
	}
}

func handleTree(guard *PathGuard) mcp.StructuredToolHandlerFunc[TreeArgs, TreeResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args TreeArgs) (TreeResult, error) {
		start := time.Now()
		dprintf("-> fs_tree path=%q max_depth=%d", args.Path, args.MaxDepth)
		var out TreeResult
		base, err := guard.Resolve(args.Path)
		if err != nil {
			dprintf("fs_tree resolve error: %v", err)
			return out, err
		}
		fi, err := os.Stat(base)
		if err != nil {
			dprintf("fs_tree stat error: %v", err)
			return out, err
		}
		if !fi.IsDir() {
			return out, fmt.Errorf("not a directory: %s", args.Path)
		}
		depth := args.MaxDepth
		if depth <= 0 {
			depth = defaultTreeDepth
		}
		var b strings.Builder
		renderTree(&b, base, 0, depth)
		out = TreeResult{Path: args.Path, Tree: b.String()}
		dprintf("<- fs_tree ok bytes=%d dur=%s", len(out.Tree), time.Since(start))
		return out, nil
	}
}
