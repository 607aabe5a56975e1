package main

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mark3labs/mcp-go/mcp"
)

func formatFindDirsResult(r FindDirsResult) string {
	return strings.Join(r.Matches, "\n")
}

// handleFindDirs searches directory names for a case-insensitive substring
// across the allowed roots.
func handleFindDirs(guard *PathGuard) mcp.StructuredToolHandlerFunc[FindDirsArgs, FindDirsResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args FindDirsArgs) (FindDirsResult, error) {
		start := time.Now()
		dprintf("-> fs_find_dirs query=%q path=%q exclude=%q max=%d", args.Query, args.Path, args.Exclude, args.MaxResults)
		var out FindDirsResult
		if args.Query == "" {
			return out, newOpError("find_dirs", args.Path, ErrPatternRequired, "query required")
		}
		if args.Exclude != "" {
			if _, err := doublestar.Match(args.Exclude, ""); err != nil {
				return out, newOpError("find_dirs", args.Path, ErrInvalidGlob, args.Exclude)
			}
		}
		max := args.MaxResults
		if max <= 0 {
			max = defaultFindMaxResults
		}
		startPaths := guard.Roots()
		if args.Path != "" {
			p, err := guard.Resolve(args.Path)
			if err != nil {
				return out, err
			}
			startPaths = []string{p}
		}
		query := strings.ToLower(args.Query)
		matches := []string{}
		for _, startPath := range startPaths {
			err := filepath.WalkDir(startPath, func(path string, d fs.DirEntry, err error) error {
				if err != nil || !d.IsDir() {
					return nil
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				rel := guard.relTo(path)
				if args.Exclude != "" {
					if ok, merr := doublestar.Match(args.Exclude, rel); merr == nil && ok {
						return filepath.SkipDir
					}
				}
				if path != startPath && strings.Contains(strings.ToLower(d.Name()), query) {
					matches = append(matches, rel)
					if len(matches) >= max {
						return filepath.SkipAll
					}
				}
				return nil
			})
			if err != nil {
				dprintf("fs_find_dirs walk error: %v", err)
				return out, err
			}
			if len(matches) >= max {
				break
			}
		}
		out.Matches = matches
		dprintf("<- fs_find_dirs ok matches=%d dur=%s", len(out.Matches), time.Since(start))
		return out, nil
	}
}
