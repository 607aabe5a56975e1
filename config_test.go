package main

import (
	"path/filepath"
	"testing"
)

func TestLoadRootsFlagWinsOverEnv(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	old := *rootsFlag
	*rootsFlag = a + "," + b
	defer func() { *rootsFlag = old }()
	t.Setenv("SANDBOXFS_ROOTS", "/ignored")

	roots, err := loadRoots()
	if err != nil {
		t.Fatalf("loadRoots: %v", err)
	}
	if len(roots) != 2 || roots[0] != a || roots[1] != b {
		t.Fatalf("roots = %v", roots)
	}
}

func TestLoadRootsFromEnv(t *testing.T) {
	dir := t.TempDir()
	old := *rootsFlag
	*rootsFlag = ""
	defer func() { *rootsFlag = old }()
	t.Setenv("SANDBOXFS_ROOTS", " "+dir+" , ")

	roots, err := loadRoots()
	if err != nil {
		t.Fatalf("loadRoots: %v", err)
	}
	if len(roots) != 1 || roots[0] != dir {
		t.Fatalf("roots = %v", roots)
	}
}

func TestLoadRootsDefaultsToCwd(t *testing.T) {
	old := *rootsFlag
	*rootsFlag = ""
	defer func() { *rootsFlag = old }()
	t.Setenv("SANDBOXFS_ROOTS", "")

	roots, err := loadRoots()
	if err != nil {
		t.Fatalf("loadRoots: %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("roots = %v", roots)
	}
}

func TestValidateRoots(t *testing.T) {
	dir := t.TempDir()
	if err := validateRoots([]string{dir}); err != nil {
		t.Fatalf("valid root rejected: %v", err)
	}
	if err := validateRoots([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Fatalf("missing root accepted")
	}
	f := filepath.Join(dir, "file.txt")
	mustWrite(t, f, []byte("x"), 0o644)
	if err := validateRoots([]string{f}); err == nil {
		t.Fatalf("file accepted as root")
	}
}
