package main

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// unifiedDiff renders a standard unified diff between two text snapshots,
// using label for both file identifiers with descriptive suffixes.
func unifiedDiff(before, after, label string) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: label + " (original)",
		ToFile:   label + " (modified)",
		Context:  3,
	})
	if err != nil {
		// SplitLines never yields inputs GetUnifiedDiffString rejects.
		return fmt.Sprintf("diff failed: %v", err)
	}
	return text
}

// fenceDiff wraps diff text in a backtick fence carrying a diff language
// tag. The fence length starts at three and grows until the body contains
// no run of that many backticks, so content inside the diff can never
// close the fence early.
func fenceDiff(diff string) string {
	n := 3
	for strings.Contains(diff, strings.Repeat("`", n)) {
		n++
	}
	fence := strings.Repeat("`", n)
	return fmt.Sprintf("%sdiff\n%s\n%s", fence, strings.TrimSuffix(diff, "\n"), fence)
}

// renderDiff is the composition every mutating handler returns.
func renderDiff(before, after, label string) string {
	return fenceDiff(unifiedDiff(before, after, label))
}
