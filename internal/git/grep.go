package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// GrepMatch is one line reported by git grep.
type GrepMatch struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// parseGrep parses `git grep -n` output ("file:line:text").
func parseGrep(output string) []GrepMatch {
	var matches []GrepMatch
	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}
		file, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		num, text, ok := strings.Cut(rest, ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		matches = append(matches, GrepMatch{File: file, Line: n, Text: text})
	}
	return matches
}

// Grep searches tracked files in the worktree at path for query.
// No matches is not an error.
func (c *Client) Grep(ctx context.Context, path, query string) ([]GrepMatch, error) {
	out, err := outputGit(ctx, path, "grep", "-n", "-I", "-e", query)
	if err != nil {
		// Exit code 1 means no matches
		if isExit(err, 1) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	return parseGrep(string(out)), nil
}
