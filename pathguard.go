package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

func mustAbs(p string) string {
	ap, err := filepath.Abs(p)
	if err != nil {
		panic(err)
	}
	return ap
}

// PathGuard confines caller-supplied paths to a fixed set of allowed roots.
// The root set is canonicalized once at startup and never changes; every
// filesystem-touching handler accepts only paths returned by Resolve.
type PathGuard struct {
	roots []string
}

// NewPathGuard canonicalizes each root (absolute + symlinks resolved) and
// fails if any root cannot be resolved.
func NewPathGuard(roots []string) (*PathGuard, error) {
	if len(roots) == 0 {
		return nil, errors.New("at least one allowed root is required")
	}
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		abs := mustAbs(expandHome(r))
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return nil, fmt.Errorf("cannot resolve root %s: %w", r, err)
		}
		out = append(out, resolved)
	}
	return &PathGuard{roots: out}, nil
}

// Roots returns a copy of the canonical allowed roots.
func (g *PathGuard) Roots() []string {
	out := make([]string, len(g.roots))
	copy(out, g.roots)
	return out
}

// underRoot reports whether p is one of the roots or sits below one.
// The comparison appends a separator to both sides so the check respects
// path segment boundaries: a root /a/allowed does not admit /a/allowed-evil.
func (g *PathGuard) underRoot(p string) bool {
	sep := string(os.PathSeparator)
	for _, r := range g.roots {
		if p == r || strings.HasPrefix(p+sep, r+sep) {
			return true
		}
	}
	return false
}

// Resolve turns a caller path into a canonical on-disk path proven to lie
// under an allowed root, or fails closed.
//
// Existing targets are symlink-resolved and re-checked so a link planted
// inside a root cannot point the operation outside it. A target that does
// not exist yet is accepted when its parent directory resolves under a
// root, enabling new-file writes.
func (g *PathGuard) Resolve(reqPath string) (string, error) {
	if reqPath == "" {
		return "", ErrPathRequired
	}
	p := reqPath
	if strings.HasPrefix(p, "file://") {
		u, err := url.Parse(p)
		if err != nil {
			return "", fmt.Errorf("invalid file URI: %w", err)
		}
		if unesc, err := url.PathUnescape(u.Path); err == nil && unesc != "" {
			p = unesc
		} else {
			p = u.Path
		}
	}
	p = expandHome(p)
	clean := mustAbs(filepath.Clean(p))
	if !g.underRoot(clean) {
		return "", newOpError("resolve", reqPath, ErrAccessDenied)
	}
	resolved, err := filepath.EvalSymlinks(clean)
	if err == nil {
		if !g.underRoot(resolved) {
			return "", newOpError("resolve", reqPath, ErrAccessDenied, "symlink target escapes allowed roots")
		}
		return resolved, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	// New-file case: the target is allowed to be missing as long as its
	// parent exists and resolves under a root.
	parentResolved, perr := filepath.EvalSymlinks(filepath.Dir(clean))
	if perr != nil {
		return "", newOpError("resolve", reqPath, ErrParentNotFound)
	}
	if !g.underRoot(parentResolved) {
		return "", newOpError("resolve", reqPath, ErrParentNotFound, "parent escapes allowed roots")
	}
	return clean, nil
}

// resolveForCreate accepts a path whose ancestors may not exist yet, for
// directory creation: the nearest existing ancestor must resolve under a
// root. Returns the cleaned target path.
func (g *PathGuard) resolveForCreate(reqPath string) (string, error) {
	if reqPath == "" {
		return "", ErrPathRequired
	}
	clean := mustAbs(filepath.Clean(expandHome(reqPath)))
	if !g.underRoot(clean) {
		return "", newOpError("resolve", reqPath, ErrAccessDenied)
	}
	anc := clean
	for {
		resolved, err := filepath.EvalSymlinks(anc)
		if err == nil {
			if !g.underRoot(resolved) {
				return "", newOpError("resolve", reqPath, ErrAccessDenied, "ancestor escapes allowed roots")
			}
			return clean, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		next := filepath.Dir(anc)
		if next == anc {
			return "", newOpError("resolve", reqPath, ErrParentNotFound)
		}
		anc = next
	}
}

// expandHome rewrites a leading ~ or ~/ to the caller's home directory.
// Paths like ~other are returned unchanged.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~"+string(os.PathSeparator)) && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}

// relTo returns p relative to the first root containing it, slash
// separated, for display in search and listing results. Paths outside all
// roots come back unchanged.
func (g *PathGuard) relTo(p string) string {
	for _, r := range g.roots {
		if p == r {
			return ""
		}
		prefix := r + string(os.PathSeparator)
		if strings.HasPrefix(p, prefix) {
			return filepath.ToSlash(strings.TrimPrefix(p, prefix))
		}
	}
	return filepath.ToSlash(p)
}
