package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestHandleReadBasic(t *testing.T) {
	root := tempRoot(t)
	p := filepath.Join(root, "a.txt")
	mustWrite(t, p, []byte("hello"), 0o644)
	h := handleRead(newGuard(t, root))

	res, err := h(context.Background(), mcp.CallToolRequest{}, ReadArgs{Path: p})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if res.Content != "hello" || res.Size != 5 || res.Truncated {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.SHA256 != sha256sum([]byte("hello")) {
		t.Fatalf("sha mismatch")
	}
}

func TestHandleReadTruncates(t *testing.T) {
	root := tempRoot(t)
	p := filepath.Join(root, "a.txt")
	mustWrite(t, p, []byte("0123456789"), 0o644)
	h := handleRead(newGuard(t, root))

	res, err := h(context.Background(), mcp.CallToolRequest{}, ReadArgs{Path: p, MaxBytes: 4})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if res.Content != "0123" || !res.Truncated || res.Size != 10 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestHandleReadOutsideRoot(t *testing.T) {
	root := tempRoot(t)
	h := handleRead(newGuard(t, root))
	if _, err := h(context.Background(), mcp.CallToolRequest{}, ReadArgs{Path: "/etc/hostname"}); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestHandleWriteStrategies(t *testing.T) {
	root := tempRoot(t)
	p := filepath.Join(root, "w.txt")
	h := handleWrite(newGuard(t, root))
	ctx := context.Background()

	res, err := h(ctx, mcp.CallToolRequest{}, WriteArgs{Path: p, Content: "one"})
	if err != nil || !res.Created {
		t.Fatalf("overwrite create: %+v %v", res, err)
	}
	res, err = h(ctx, mcp.CallToolRequest{}, WriteArgs{Path: p, Content: "two", Strategy: strategyAppend})
	if err != nil || res.Bytes != 6 {
		t.Fatalf("append: %+v %v", res, err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "onetwo" {
		t.Fatalf("content %q", b)
	}
	if _, err = h(ctx, mcp.CallToolRequest{}, WriteArgs{Path: p, Content: "x", Strategy: strategyNoClobber}); err == nil {
		t.Fatalf("no_clobber overwrote existing file")
	}
}

func TestHandleWriteNewFileInMissingDir(t *testing.T) {
	root := tempRoot(t)
	h := handleWrite(newGuard(t, root))
	_, err := h(context.Background(), mcp.CallToolRequest{}, WriteArgs{Path: filepath.Join(root, "no", "dir.txt"), Content: "x"})
	if !errors.Is(err, ErrParentNotFound) {
		t.Fatalf("expected ErrParentNotFound, got %v", err)
	}
}

func TestHandleStat(t *testing.T) {
	root := tempRoot(t)
	p := filepath.Join(root, "s.txt")
	mustWrite(t, p, []byte("abc"), 0o600)
	h := handleStat(newGuard(t, root))

	res, err := h(context.Background(), mcp.CallToolRequest{}, StatArgs{Path: p})
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if res.Kind != "file" || res.Size != 3 || res.Mode != "0600" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.ModifiedAt == "" {
		t.Fatalf("modified_at empty")
	}
}

func TestHandleMoveAndRemove(t *testing.T) {
	root := tempRoot(t)
	src := filepath.Join(root, "src.txt")
	dst := filepath.Join(root, "dst.txt")
	mustWrite(t, src, []byte("m"), 0o644)
	guard := newGuard(t, root)
	ctx := context.Background()

	if _, err := handleMove(guard)(ctx, mcp.CallToolRequest{}, MoveArgs{Source: src, Destination: dst}); err != nil {
		t.Fatalf("move: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source survived move")
	}
	b, err := os.ReadFile(dst)
	if err != nil || string(b) != "m" {
		t.Fatalf("destination wrong: %q %v", b, err)
	}

	// Destination collision is refused.
	mustWrite(t, src, []byte("again"), 0o644)
	if _, err := handleMove(guard)(ctx, mcp.CallToolRequest{}, MoveArgs{Source: src, Destination: dst}); err == nil {
		t.Fatalf("move clobbered existing destination")
	}

	if _, err := handleRemove(guard)(ctx, mcp.CallToolRequest{}, RemoveArgs{Path: dst}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("file survived remove")
	}

	// Non-empty directory needs recursive.
	dir := filepath.Join(root, "d")
	mustWrite(t, filepath.Join(dir, "x.txt"), []byte("x"), 0o644)
	if _, err := handleRemove(guard)(ctx, mcp.CallToolRequest{}, RemoveArgs{Path: dir}); err == nil {
		t.Fatalf("non-recursive remove deleted non-empty dir")
	}
	if _, err := handleRemove(guard)(ctx, mcp.CallToolRequest{}, RemoveArgs{Path: dir, Recursive: true}); err != nil {
		t.Fatalf("recursive remove: %v", err)
	}
}

func TestHandleMkdir(t *testing.T) {
	root := tempRoot(t)
	guard := newGuard(t, root)
	ctx := context.Background()
	h := handleMkdir(guard)

	res, err := h(ctx, mcp.CallToolRequest{}, MkdirArgs{Path: filepath.Join(root, "plain")})
	if err != nil || res.Created != 1 {
		t.Fatalf("mkdir: %+v %v", res, err)
	}

	// Existing directory is confirmed, not an error.
	res, err = h(ctx, mcp.CallToolRequest{}, MkdirArgs{Path: filepath.Join(root, "plain")})
	if err != nil || res.Created != 0 {
		t.Fatalf("mkdir existing: %+v %v", res, err)
	}

	// parents creates intermediate levels.
	res, err = h(ctx, mcp.CallToolRequest{}, MkdirArgs{Path: filepath.Join(root, "a", "b", "c"), Parents: true})
	if err != nil || res.Created != 1 {
		t.Fatalf("mkdir -p: %+v %v", res, err)
	}
	fi, err := os.Stat(filepath.Join(root, "a", "b", "c"))
	if err != nil || !fi.IsDir() {
		t.Fatalf("deep dir missing: %v", err)
	}

	// brace expansion
	res, err = h(ctx, mcp.CallToolRequest{}, MkdirArgs{Path: filepath.Join(root, "set", "{x,y}"), Parents: true})
	if err != nil || res.Created != 2 {
		t.Fatalf("brace mkdir: %+v %v", res, err)
	}
}

func TestHandleListFlatAndRecursive(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, filepath.Join(root, "top.txt"), []byte("t"), 0o644)
	mustWrite(t, filepath.Join(root, "sub", "deep.txt"), []byte("d"), 0o644)
	h := handleList(newGuard(t, root))
	ctx := context.Background()

	res, err := h(ctx, mcp.CallToolRequest{}, ListArgs{Path: root})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("flat entries = %d", len(res.Entries))
	}

	res, err = h(ctx, mcp.CallToolRequest{}, ListArgs{Path: root, Recursive: true})
	if err != nil {
		t.Fatalf("list -r: %v", err)
	}
	found := false
	for _, e := range res.Entries {
		if e.Path == "sub/deep.txt" && e.Kind == "file" {
			found = true
		}
	}
	if !found {
		t.Fatalf("recursive listing missed sub/deep.txt: %+v", res.Entries)
	}
}

func TestHandleTree(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, filepath.Join(root, "sub", "deep.txt"), []byte("d"), 0o644)
	mustWrite(t, filepath.Join(root, "top.txt"), []byte("t"), 0o644)
	h := handleTree(newGuard(t, root))

	res, err := h(context.Background(), mcp.CallToolRequest{}, TreeArgs{Path: root})
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	want := "sub/\n  deep.txt\ntop.txt\n"
	if res.Tree != want {
		t.Fatalf("tree = %q want %q", res.Tree, want)
	}

	// Depth cap hides the nested file.
	res, err = h(context.Background(), mcp.CallToolRequest{}, TreeArgs{Path: root, MaxDepth: 1})
	if err != nil {
		t.Fatalf("tree depth: %v", err)
	}
	if strings.Contains(res.Tree, "deep.txt") {
		t.Fatalf("depth cap ignored: %q", res.Tree)
	}
}
