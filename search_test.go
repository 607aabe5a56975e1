package main

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func searchFixture(t *testing.T) (string, *PathGuard) {
	t.Helper()
	root := tempRoot(t)
	mustWrite(t, filepath.Join(root, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644)
	mustWrite(t, filepath.Join(root, "notes.txt"), []byte("remember the main thing\nand the other thing\n"), 0o644)
	mustWrite(t, filepath.Join(root, "vendor", "dep.go"), []byte("package main // vendored\n"), 0o644)
	return root, newGuard(t, root)
}

func TestSearchLiteral(t *testing.T) {
	_, guard := searchFixture(t)
	h := handleSearch(guard)

	res, err := h(context.Background(), mcp.CallToolRequest{}, SearchArgs{Pattern: "package main"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("matches = %d, want 2: %+v", len(res.Matches), res.Matches)
	}
	for _, m := range res.Matches {
		if m.Line != 1 {
			t.Fatalf("match on line %d, want 1", m.Line)
		}
	}
	if res.Statistics["files_scanned"].(int64) < 3 {
		t.Fatalf("statistics missing: %+v", res.Statistics)
	}
}

func TestSearchRegex(t *testing.T) {
	_, guard := searchFixture(t)
	h := handleSearch(guard)

	res, err := h(context.Background(), mcp.CallToolRequest{}, SearchArgs{Pattern: `^and\b`, Regex: true})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Matches) != 1 || res.Matches[0].Path != "notes.txt" || res.Matches[0].Line != 2 {
		t.Fatalf("unexpected matches: %+v", res.Matches)
	}

	if _, err := h(context.Background(), mcp.CallToolRequest{}, SearchArgs{Pattern: "(", Regex: true}); !errors.Is(err, ErrInvalidRegex) {
		t.Fatalf("expected ErrInvalidRegex, got %v", err)
	}
}

func TestSearchIncludeExclude(t *testing.T) {
	_, guard := searchFixture(t)
	h := handleSearch(guard)
	ctx := context.Background()

	res, err := h(ctx, mcp.CallToolRequest{}, SearchArgs{Pattern: "package main", Include: "**/*.go"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("include matches = %d: %+v", len(res.Matches), res.Matches)
	}

	res, err = h(ctx, mcp.CallToolRequest{}, SearchArgs{Pattern: "package main", Include: "**/*.go", Exclude: "vendor/**"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Matches) != 1 || res.Matches[0].Path != "main.go" {
		t.Fatalf("exclude matches: %+v", res.Matches)
	}
}

func TestSearchMaxResults(t *testing.T) {
	_, guard := searchFixture(t)
	h := handleSearch(guard)

	res, err := h(context.Background(), mcp.CallToolRequest{}, SearchArgs{Pattern: "thing", MaxResults: 1})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(res.Matches))
	}
}

func TestSearchEmptyPattern(t *testing.T) {
	_, guard := searchFixture(t)
	h := handleSearch(guard)
	if _, err := h(context.Background(), mcp.CallToolRequest{}, SearchArgs{}); !errors.Is(err, ErrPatternRequired) {
		t.Fatalf("expected ErrPatternRequired, got %v", err)
	}
}

func TestSearchScopedPath(t *testing.T) {
	root, guard := searchFixture(t)
	h := handleSearch(guard)

	res, err := h(context.Background(), mcp.CallToolRequest{}, SearchArgs{Pattern: "package main", Path: filepath.Join(root, "vendor")})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Matches) != 1 || res.Matches[0].Path != "vendor/dep.go" {
		t.Fatalf("scoped matches: %+v", res.Matches)
	}
}

func TestFindDirs(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, filepath.Join(root, "api", "v1", "x.txt"), []byte("x"), 0o644)
	mustWrite(t, filepath.Join(root, "internal", "apiserver", "y.txt"), []byte("y"), 0o644)
	mustWrite(t, filepath.Join(root, "docs", "z.txt"), []byte("z"), 0o644)
	h := handleFindDirs(newGuard(t, root))
	ctx := context.Background()

	res, err := h(ctx, mcp.CallToolRequest{}, FindDirsArgs{Query: "API"})
	if err != nil {
		t.Fatalf("find_dirs: %v", err)
	}
	sort.Strings(res.Matches)
	want := []string{"api", "internal/apiserver"}
	if len(res.Matches) != len(want) || res.Matches[0] != want[0] || res.Matches[1] != want[1] {
		t.Fatalf("matches = %v, want %v", res.Matches, want)
	}

	res, err = h(ctx, mcp.CallToolRequest{}, FindDirsArgs{Query: "api", Exclude: "internal/**"})
	if err != nil {
		t.Fatalf("find_dirs: %v", err)
	}
	if len(res.Matches) != 1 || res.Matches[0] != "api" {
		t.Fatalf("excluded matches = %v", res.Matches)
	}

	if _, err := h(ctx, mcp.CallToolRequest{}, FindDirsArgs{}); !errors.Is(err, ErrPatternRequired) {
		t.Fatalf("expected ErrPatternRequired, got %v", err)
	}
}

func TestGlob(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, filepath.Join(root, "a.go"), []byte("a"), 0o644)
	mustWrite(t, filepath.Join(root, "b.txt"), []byte("b"), 0o644)
	mustWrite(t, filepath.Join(root, "pkg", "c.go"), []byte("c"), 0o644)
	h := handleGlob(newGuard(t, root))
	ctx := context.Background()

	res, err := h(ctx, mcp.CallToolRequest{}, GlobArgs{Pattern: "**/*.go"})
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	sort.Strings(res.Matches)
	if len(res.Matches) != 2 || res.Matches[0] != "a.go" || res.Matches[1] != "pkg/c.go" {
		t.Fatalf("matches = %v", res.Matches)
	}

	res, err = h(ctx, mcp.CallToolRequest{}, GlobArgs{Pattern: "*.txt"})
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(res.Matches) != 1 || res.Matches[0] != "b.txt" {
		t.Fatalf("matches = %v", res.Matches)
	}

	if _, err := h(ctx, mcp.CallToolRequest{}, GlobArgs{}); !errors.Is(err, ErrPatternRequired) {
		t.Fatalf("expected ErrPatternRequired, got %v", err)
	}
}
