// Package gitfiles discovers the files a PR changes by shelling out to
// git. The host normally supplies the list itself; this is the
// fallback used by the CLI.
package gitfiles

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Changed lists the files changed between baseRef's merge base and
// HEAD, deduplicated with order preserved. baseRef defaults to
// origin/main when empty.
func Changed(ctx context.Context, repoRoot, baseRef string) ([]string, error) {
	if baseRef == "" {
		baseRef = "origin/main"
	}

	cmd := exec.CommandContext(ctx, "git", "diff", "--name-only", baseRef+"...HEAD")
	cmd.Dir = repoRoot

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("git diff failed: %w", err)
		}
		return nil, fmt.Errorf("git diff failed: %s: %w", msg, err)
	}

	return Normalize(strings.Split(stdout.String(), "\n")), nil
}

// Normalize trims, drops empties, and deduplicates while preserving
// first-seen order.
func Normalize(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
