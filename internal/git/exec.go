package git

import (
	"context"
	"strings"

	"github.com/raphi011/wtm/internal/cmd"
)

// gitEnv forces untranslated git messages. Errors from git are shown to the
// user and some are matched on.
var gitEnv = []string{"LC_ALL=C"}

func gitCommand(dir string, args []string) cmd.Command {
	if dir != "" {
		args = append([]string{"-C", dir}, args...)
	}
	return cmd.Command{Name: "git", Args: args, Env: gitEnv}
}

func runGit(ctx context.Context, dir string, args ...string) error {
	_, _, err := gitCommand(dir, args).Run(ctx)
	return err
}

func outputGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	stdout, _, err := gitCommand(dir, args).Run(ctx)
	if err != nil {
		return nil, err
	}
	return []byte(stdout), nil
}

// outputGitString is outputGit with surrounding whitespace trimmed.
func outputGitString(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := outputGit(ctx, dir, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// isExit reports whether err is a git exit with the given code.
func isExit(err error, code int) bool {
	return cmd.ExitCode(err) == code
}
