package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func formatWriteResult(r WriteResult) string {
	return fmt.Sprintf("path=%s action=%s bytes=%d created=%v sha=%s", r.Path, r.Action, r.Bytes, r.Created, r.SHA256)
}

func handleWrite(guard *PathGuard) mcp.StructuredToolHandlerFunc[WriteArgs, WriteResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args WriteArgs) (WriteResult, error) {
		start := time.Now()
		dprintf("-> fs_write path=%q strategy=%q bytes=%d", args.Path, args.Strategy, len(args.Content))
		var res WriteResult
		full, err := guard.Resolve(args.Path)
		if err != nil {
			dprintf("fs_write resolve error: %v", err)
			return res, err
		}
		mode, err := parseMode(args.Mode)
		if err != nil {
			dprintf("fs_write mode error: %v", err)
			return res, fmt.Errorf("invalid mode: %w", err)
		}
		modeProvided := args.Mode != ""
		data := []byte(args.Content)
		st := args.Strategy
		if st == "" {
			st = strategyOverwrite
		}

		preFi, preErr := os.Lstat(full)
		if preErr == nil && preFi.IsDir() {
			return res, fmt.Errorf("target is a directory: %s", args.Path)
		}
		if preErr == nil && !modeProvided {
			if pm := preFi.Mode() & os.ModePerm; pm != 0 {
				mode = pm
			} else {
				mode = 0o644
			}
		}

		unlock := lockPath(full)
		defer unlock()

		created := false

		switch st {
		case strategyNoClobber:
			if preErr == nil {
				dprintf("fs_write noclobber exists")
				return res, fmt.Errorf("exists: %s", args.Path)
			}
			if err := atomicWrite(full, data, mode); err != nil {
				dprintf("fs_write error: %v", err)
				return res, err
			}
			created = true

		case strategyOverwrite:
			if errors.Is(preErr, os.ErrNotExist) {
				created = true
			}
			if err := atomicWrite(full, data, mode); err != nil {
				dprintf("fs_write error: %v", err)
				return res, err
			}

		case strategyAppend:
			if preErr == nil && !preFi.Mode().IsRegular() {
				return res, newOpError("write", args.Path, ErrPathNotRegular, "append target")
			}
			var old []byte
			if preErr == nil {
				old, err = os.ReadFile(full)
				if err != nil {
					return res, err
				}
			} else if errors.Is(preErr, os.ErrNotExist) {
				created = true
			}
			buf := append(append([]byte{}, old...), data...)
			if err := atomicWrite(full, buf, mode); err != nil {
				dprintf("fs_write error: %v", err)
				return res, err
			}
			data = buf

		default:
			return res, fmt.Errorf("unknown write strategy: %s", st)
		}

		fi, err := os.Stat(full)
		if err != nil {
			dprintf("fs_write stat error: %v", err)
			return res, err
		}
		res = WriteResult{
			Path:    args.Path,
			Action:  string(st),
			Bytes:   len(data),
			Created: created,
			SHA256:  sha256sum(data),
			MetaFields: MetaFields{
				Mode:       fmt.Sprintf("%#o", fi.Mode()&os.ModePerm),
				ModifiedAt: fi.ModTime().UTC().Format(time.RFC3339),
			},
		}
		dprintf("<- fs_write ok action=%s bytes=%d created=%v dur=%s", st, len(data), created, time.Since(start))
		return res, nil
	}
}
