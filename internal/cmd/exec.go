package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/wtm/internal/log"
)

// ExitError is returned when a command ran but exited non-zero.
// Message holds the trimmed stderr of the child.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode returns the exit code carried by err, or -1 if err is not an
// *ExitError.
func ExitCode(err error) int {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return -1
}

// Command is a single external command invocation.
type Command struct {
	Dir  string
	Name string
	Args []string
	// Env entries (KEY=VALUE) are appended to the current environment.
	Env []string
}

// Run executes c and returns its stdout and stderr. A non-zero exit becomes
// an *ExitError carrying stderr; a cancelled context yields ctx.Err().
func (c Command) Run(ctx context.Context) (stdout, stderr string, err error) {
	done := log.FromContext(ctx).Command(c.Dir, c.Name, c.Args...)
	start := time.Now()

	ec := exec.CommandContext(ctx, c.Name, c.Args...)
	ec.Dir = c.Dir
	if len(c.Env) > 0 {
		ec.Env = append(os.Environ(), c.Env...)
	}
	var out, errOut bytes.Buffer
	ec.Stdout = &out
	ec.Stderr = &errOut

	runErr := ec.Run()
	done(time.Since(start))

	stdout, stderr = out.String(), errOut.String()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return stdout, stderr, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return stdout, stderr, &ExitError{Code: exitErr.ExitCode(), Message: strings.TrimSpace(stderr)}
	}
	return stdout, stderr, runErr
}

// RunContext executes a command in dir, discarding its output.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	_, _, err := Command{Dir: dir, Name: name, Args: args}.Run(ctx)
	return err
}

// OutputContext executes a command in dir and returns stdout.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	stdout, _, err := Command{Dir: dir, Name: name, Args: args}.Run(ctx)
	if err != nil {
		return nil, err
	}
	return []byte(stdout), nil
}
