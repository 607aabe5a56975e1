package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func formatMkdirResult(r MkdirResult) string {
	return fmt.Sprintf("created=%d paths=%s", r.Created, strings.Join(r.Paths, ","))
}

func handleMkdir(guard *PathGuard) mcp.StructuredToolHandlerFunc[MkdirArgs, MkdirResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args MkdirArgs) (MkdirResult, error) {
		start := time.Now()
		dprintf("-> fs_mkdir path=%q parents=%v mode=%s", args.Path, args.Parents, args.Mode)
		var out MkdirResult
		mode, err := parseMode(args.Mode)
		if err != nil {
			dprintf("fs_mkdir mode error: %v", err)
			return out, fmt.Errorf("invalid mode: %w", err)
		}
		if args.Mode == "" {
			mode = 0o755
		}
		for _, p := range expandBraces(args.Path) {
			var full string
			if args.Parents {
				full, err = guard.resolveForCreate(p)
			} else {
				full, err = guard.Resolve(p)
			}
			if err != nil {
				dprintf("fs_mkdir resolve error: %v", err)
				return out, err
			}
			if fi, err := os.Lstat(full); err == nil {
				if !fi.IsDir() {
					return out, fmt.Errorf("exists and not a directory: %s", p)
				}
				out.Paths = append(out.Paths, p)
				continue
			} else if !os.IsNotExist(err) {
				dprintf("fs_mkdir lstat error: %v", err)
				return out, err
			}
			if args.Parents {
				err = os.MkdirAll(full, mode)
			} else {
				err = os.Mkdir(full, mode)
			}
			if err != nil {
				dprintf("fs_mkdir error: %v", err)
				return out, err
			}
			out.Paths = append(out.Paths, p)
			out.Created++
		}
		dprintf("<- fs_mkdir ok created=%d dur=%s", out.Created, time.Since(start))
		return out, nil
	}
}
