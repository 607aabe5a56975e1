package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Configuration constants with tunable defaults
const (
	// Size limits for operations
	maxSniffBytes = 1 << 20  // 1 MiB for MIME detection
	maxHashBytes  = 32 << 20 // 32 MiB hashing cap

	// Default operation limits
	defaultReadMaxBytes     = 64 * 1024 // 64 KiB
	defaultListMaxEntries   = 1000
	defaultGlobMaxResults   = 1000
	defaultSearchMaxResults = 100
	defaultFindMaxResults   = 100
	defaultTreeDepth        = 8
)

// Command-line flags
var (
	rootsFlag     = flag.String("roots", "", "comma-separated allowed roots (defaults to $SANDBOXFS_ROOTS or the current working directory)")
	debugFlag     = flag.String("debug", "", "write debug logs to this file")
	compatFlag    = flag.Bool("compat", false, "return tool results as plain text instead of JSON")
	serializeFlag = flag.Bool("serialize", false, "serialize mutating operations per resolved path")
)

// loadRoots determines the allowed roots from flags/env/cwd.
// Priority: flag > environment variable > current directory.
func loadRoots() ([]string, error) {
	raw := *rootsFlag
	if raw == "" {
		raw = os.Getenv("SANDBOXFS_ROOTS")
	}
	if raw == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		raw = cwd
	}
	var roots []string
	for _, r := range strings.Split(raw, ",") {
		r = strings.TrimSpace(r)
		if r != "" {
			roots = append(roots, r)
		}
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("no allowed roots configured")
	}
	return roots, nil
}

// validateRoots ensures every configured root exists and is a directory.
// main exits non-zero when this fails; a misconfigured sandbox must not
// come up half-open.
func validateRoots(roots []string) error {
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("allowed root does not exist: %s", root)
			}
			return fmt.Errorf("cannot access allowed root %s: %w", root, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("allowed root is not a directory: %s", root)
		}
	}
	return nil
}
