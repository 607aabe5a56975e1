package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mark3labs/mcp-go/mcp"
)

// SearchConfig holds search configuration
type SearchConfig struct {
	Workers    int
	ScanBuffer int
}

// DefaultSearchConfig returns optimized search configuration
func DefaultSearchConfig() SearchConfig {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8 // Cap workers to prevent resource exhaustion
	}
	return SearchConfig{
		Workers:    workers,
		ScanBuffer: 64 * 1024, // 64KB initial buffer
	}
}

func formatSearchResult(r SearchResult) string {
	var b strings.Builder
	for i, m := range r.Matches {
		if i > 0 {
			b.WriteByte('\n')
		}
		text := m.Text
		if len(text) > 200 {
			text = text[:197] + "..."
		}
		fmt.Fprintf(&b, "%s:%d:%s", m.Path, m.Line, text)
	}
	return b.String()
}

func handleSearch(guard *PathGuard) mcp.StructuredToolHandlerFunc[SearchArgs, SearchResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args SearchArgs) (SearchResult, error) {
		start := time.Now()
		dprintf("-> fs_search path=%q pattern=%q regex=%v include=%q exclude=%q max=%d",
			args.Path, args.Pattern, args.Regex, args.Include, args.Exclude, args.MaxResults)

		var out SearchResult
		if args.Pattern == "" {
			return out, newOpError("search", args.Path, ErrPatternRequired)
		}

		max := args.MaxResults
		if max <= 0 {
			max = defaultSearchMaxResults
		}

		var rx *regexp.Regexp
		if args.Regex {
			r, err := regexp.Compile(args.Pattern)
			if err != nil {
				return out, newOpError("search", args.Path, ErrInvalidRegex, err.Error())
			}
			rx = r
		}
		for _, pat := range []string{args.Include, args.Exclude} {
			if pat == "" {
				continue
			}
			if _, err := doublestar.Match(pat, ""); err != nil {
				return out, newOpError("search", args.Path, ErrInvalidGlob, pat)
			}
		}

		startPaths := guard.Roots()
		if args.Path != "" {
			p, err := guard.Resolve(args.Path)
			if err != nil {
				return out, err
			}
			if _, err := os.Stat(p); err != nil {
				return out, newOpError("search", args.Path, ErrPathNotFound)
			}
			startPaths = []string{p}
		}

		config := DefaultSearchConfig()
		matches, stats, err := performSearch(ctx, startPaths, guard, args, rx, max, config)
		if err != nil {
			return out, err
		}

		out.Matches = matches
		out.Statistics = map[string]interface{}{
			"files_scanned": stats.filesScanned,
			"bytes_read":    stats.bytesRead,
			"duration_ms":   time.Since(start).Milliseconds(),
		}

		dprintf("<- fs_search ok matches=%d files=%d bytes=%d dur=%s",
			len(out.Matches), stats.filesScanned, stats.bytesRead, time.Since(start))
		return out, nil
	}
}

type searchStats struct {
	filesScanned int64
	bytesRead    int64
}

// wantFile applies the include/exclude glob filters to a root-relative path.
func wantFile(rel, include, exclude string) bool {
	if include != "" {
		if ok, err := doublestar.Match(include, rel); err != nil || !ok {
			return false
		}
	}
	if exclude != "" {
		if ok, err := doublestar.Match(exclude, rel); err == nil && ok {
			return false
		}
	}
	return true
}

func performSearch(ctx context.Context, startPaths []string, guard *PathGuard, args SearchArgs, rx *regexp.Regexp, max int, config SearchConfig) ([]SearchMatch, *searchStats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	files := make(chan string, 64)
	stats := &searchStats{}

	var walkErr error
	var walkWG sync.WaitGroup
	walkWG.Add(1)
	go func() {
		defer walkWG.Done()
		defer close(files)

		for _, startPath := range startPaths {
			err := filepath.WalkDir(startPath, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					dprintf("walk error at %s: %v", path, err)
					return nil // Continue walking
				}

				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				if d.IsDir() || d.Type()&os.ModeSymlink != 0 {
					return nil
				}
				if !wantFile(guard.relTo(path), args.Include, args.Exclude) {
					return nil
				}

				info, err := d.Info()
				if err != nil {
					return nil
				}
				// Skip huge files (>100MB)
				if info.Size() > 100<<20 {
					dprintf("skipping large file: %s (%d bytes)", path, info.Size())
					return nil
				}

				select {
				case files <- path:
				case <-ctx.Done():
					return ctx.Err()
				}
				return nil
			})
			if err != nil {
				walkErr = err
				return
			}
		}
	}()

	var mu sync.Mutex
	matches := []SearchMatch{}
	matchCount := int32(0)

	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for path := range files {
				if ctx.Err() != nil {
					return
				}
				if atomic.LoadInt32(&matchCount) >= int32(max) {
					return
				}

				fileMatches, bytesRead := searchFile(path, args.Pattern, rx, guard, max-int(atomic.LoadInt32(&matchCount)), config)

				atomic.AddInt64(&stats.filesScanned, 1)
				atomic.AddInt64(&stats.bytesRead, bytesRead)

				if len(fileMatches) > 0 {
					mu.Lock()
					if len(matches) < max {
						remaining := max - len(matches)
						if len(fileMatches) > remaining {
							fileMatches = fileMatches[:remaining]
						}
						matches = append(matches, fileMatches...)
						atomic.StoreInt32(&matchCount, int32(len(matches)))
						if len(matches) >= max {
							cancel()
						}
					}
					mu.Unlock()
				}
			}
		}()
	}

	wg.Wait()
	walkWG.Wait()

	if walkErr != nil && ctx.Err() == nil {
		return matches, stats, walkErr
	}

	return matches, stats, nil
}

func searchFile(path, pattern string, rx *regexp.Regexp, guard *PathGuard, maxMatches int, config SearchConfig) ([]SearchMatch, int64) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0
	}
	defer f.Close()

	var matches []SearchMatch
	var bytesRead int64

	reader := bufio.NewReaderSize(f, config.ScanBuffer)

	lineNo := 1
	for len(matches) < maxMatches {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			dprintf("read error in %s: %v", path, err)
			break
		}
		if len(line) == 0 && err == io.EOF {
			break
		}

		bytesRead += int64(len(line))
		line = strings.TrimRight(line, "\n")

		var found bool
		if rx != nil {
			found = rx.MatchString(line)
		} else {
			found = strings.Contains(line, pattern)
		}

		if found {
			displayText := line
			if len(displayText) > 500 {
				displayText = displayText[:497] + "..."
			}
			matches = append(matches, SearchMatch{
				Path: guard.relTo(path),
				Line: lineNo,
				Text: displayText,
			})
		}

		lineNo++

		// Bail out if line count gets suspiciously high (likely binary file)
		if lineNo > 1000000 {
			dprintf("stopping search in %s: too many lines", path)
			break
		}

		if err == io.EOF {
			break
		}
	}

	return matches, bytesRead
}
