package main

import (
	"errors"
	"fmt"
)

// errCancelled is returned when the user dismisses a prompt.
var errCancelled = errors.New("cancelled")

// errDetachedNote is returned when a note targets a detached worktree.
var errDetachedNote = errors.New("cannot attach a note to a detached worktree")

// errNotInteractive reports a command that only works on a terminal.
func errNotInteractive(command string) error {
	return fmt.Errorf("%s needs an interactive terminal", command)
}
