package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func formatMoveResult(r MoveResult) string {
	return fmt.Sprintf("moved %s -> %s", r.Source, r.Destination)
}

func handleMove(guard *PathGuard) mcp.StructuredToolHandlerFunc[MoveArgs, MoveResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args MoveArgs) (MoveResult, error) {
		start := time.Now()
		dprintf("-> fs_move source=%q destination=%q", args.Source, args.Destination)
		var out MoveResult
		src, err := guard.Resolve(args.Source)
		if err != nil {
			dprintf("fs_move resolve error: %v", err)
			return out, err
		}
		dst, err := guard.Resolve(args.Destination)
		if err != nil {
			dprintf("fs_move resolve error: %v", err)
			return out, err
		}
		if _, err := os.Lstat(src); err != nil {
			dprintf("fs_move lstat error: %v", err)
			return out, err
		}
		if _, err := os.Lstat(dst); err == nil {
			return out, fmt.Errorf("destination exists: %s", args.Destination)
		}
		if err := os.Rename(src, dst); err != nil {
			dprintf("fs_move rename error: %v", err)
			return out, err
		}
		out = MoveResult{Source: args.Source, Destination: args.Destination}
		dprintf("<- fs_move ok dur=%s", time.Since(start))
		return out, nil
	}
}

func formatRemoveResult(r RemoveResult) string {
	return fmt.Sprintf("path=%s removed=%v", r.Path, r.Removed)
}

func handleRemove(guard *PathGuard) mcp.StructuredToolHandlerFunc[RemoveArgs, RemoveResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args RemoveArgs) (RemoveResult, error) {
		start := time.Now()
		dprintf("-> fs_remove path=%q recursive=%v", args.Path, args.Recursive)
		var out RemoveResult
		full, err := guard.Resolve(args.Path)
		if err != nil {
			dprintf("fs_remove resolve error: %v", err)
			return out, err
		}
		fi, err := os.Lstat(full)
		if err != nil {
			dprintf("fs_remove lstat error: %v", err)
			return out, err
		}
		if fi.IsDir() && args.Recursive {
			if err := os.RemoveAll(full); err != nil {
				dprintf("fs_remove RemoveAll error: %v", err)
				return out, err
			}
		} else {
			if err := os.Remove(full); err != nil {
				dprintf("fs_remove Remove error: %v", err)
				return out, err
			}
		}
		out = RemoveResult{Path: args.Path, Removed: true}
		dprintf("<- fs_remove ok dur=%s", time.Since(start))
		return out, nil
	}
}
