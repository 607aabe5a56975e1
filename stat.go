package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func formatStatResult(r StatResult) string {
	return fmt.Sprintf("path=%s kind=%s size=%d mode=%s modified_at=%s mime=%s", r.Path, r.Kind, r.Size, r.Mode, r.ModifiedAt, r.MIMEType)
}

func handleStat(guard *PathGuard) mcp.StructuredToolHandlerFunc[StatArgs, StatResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args StatArgs) (StatResult, error) {
		start := time.Now()
		dprintf("-> fs_stat path=%q", args.Path)
		var res StatResult
		full, err := guard.Resolve(args.Path)
		if err != nil {
			dprintf("fs_stat resolve error: %v", err)
			return res, err
		}
		fi, err := os.Stat(full)
		if err != nil {
			dprintf("fs_stat stat error: %v", err)
			return res, err
		}
		mimeType := ""
		if fi.Mode().IsRegular() {
			if f, err := os.Open(full); err == nil {
				sample, _ := io.ReadAll(io.LimitReader(f, maxSniffBytes))
				f.Close()
				mimeType = detectMIME(full, sample)
			}
		}
		res = StatResult{
			Path:       args.Path,
			Kind:       kindOf(fi),
			Size:       fi.Size(),
			Mode:       fmt.Sprintf("%#o", fi.Mode()&os.ModePerm),
			ModifiedAt: fi.ModTime().UTC().Format(time.RFC3339),
			MIMEType:   mimeType,
		}
		dprintf("<- fs_stat ok kind=%s size=%d dur=%s", res.Kind, res.Size, time.Since(start))
		return res, nil
	}
}
