package hooks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/raphi011/wtm/internal/cmd"
	"github.com/raphi011/wtm/internal/config"
	"github.com/raphi011/wtm/internal/log"
)

// Event identifies a lifecycle hook.
type Event string

const (
	EventCreate Event = "on_create"
	EventDelete Event = "on_delete"
	EventSwitch Event = "on_switch"
)

// Events lists the lifecycle events in config order.
var Events = []Event{EventCreate, EventDelete, EventSwitch}

// Command returns the configured command for ev, or "".
func Command(cfg config.HooksConfig, ev Event) string {
	switch ev {
	case EventCreate:
		return cfg.OnCreate
	case EventDelete:
		return cfg.OnDelete
	case EventSwitch:
		return cfg.OnSwitch
	}
	return ""
}

// ParseEvent accepts "create", "on_create", etc.
func ParseEvent(s string) (Event, error) {
	name := strings.TrimPrefix(strings.ReplaceAll(s, "-", "_"), "on_")
	for _, ev := range Events {
		if string(ev) == "on_"+name {
			return ev, nil
		}
	}
	return "", fmt.Errorf("unknown hook %q (expected create, delete or switch)", s)
}

// Vars holds the values for placeholder substitution.
type Vars struct {
	Path     string            // absolute worktree path, also the working directory
	Branch   string            // branch name
	Worktree string            // worktree path
	Env      map[string]string // extra {key} variables
}

// NewVars builds Vars for a worktree. An empty branch becomes "detached".
func NewVars(path, branch string) Vars {
	if branch == "" {
		branch = "detached"
	}
	return Vars{Path: path, Branch: branch, Worktree: path}
}

// Result is the outcome of running a hook command.
type Result struct {
	Success bool
	Output  string // stdout
	Error   string // stderr, or the failure message
}

// shellQuote wraps s in single quotes, escaping embedded single quotes:
// it's becomes 'it'\''s'.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// placeholderRegex matches {key}, {key:raw} and {key:-default}, along with
// a leading $ so shell ${VAR} expansions can be left alone.
var placeholderRegex = regexp.MustCompile(`\$?\{([a-zA-Z_][a-zA-Z0-9_]*)(?:(:raw)|:-([^}]*))?\}`)

// SubstitutePlaceholders replaces {path}, {branch} and {worktree} with
// shell-quoted values and expands other keys from Vars.Env. Unknown keys
// expand to an empty quoted string. Shell parameter expansions such as
// ${WTM_BRANCH} are not placeholders and pass through unchanged.
func SubstitutePlaceholders(command string, v Vars) string {
	builtin := map[string]string{"path": v.Path, "branch": v.Branch, "worktree": v.Worktree}

	return placeholderRegex.ReplaceAllStringFunc(command, func(match string) string {
		if match[0] == '$' {
			return match
		}
		sub := placeholderRegex.FindStringSubmatch(match)
		key, isRaw, defaultVal := sub[1], sub[2] == ":raw", sub[3]

		val, ok := builtin[key]
		if !ok {
			val, ok = v.Env[key]
		}
		if !ok {
			val = defaultVal
		}
		if isRaw {
			return val
		}
		return shellQuote(val)
	})
}

// Execute substitutes placeholders and runs command with "sh -c" in v.Path.
// The worktree is also exported as WTM_PATH, WTM_BRANCH and WTM_WORKTREE.
func Execute(ctx context.Context, command string, v Vars) Result {
	stdout, stderr, err := cmd.Command{
		Dir:  v.Path,
		Name: "sh",
		Args: []string{"-c", SubstitutePlaceholders(command, v)},
		Env:  []string{"WTM_PATH=" + v.Path, "WTM_BRANCH=" + v.Branch, "WTM_WORKTREE=" + v.Worktree},
	}.Run(ctx)
	if err != nil {
		msg := err.Error()
		if s := strings.TrimSpace(stderr); s != "" && s != msg {
			msg = fmt.Sprintf("%s: %s", msg, s)
		}
		return Result{Success: false, Output: stdout, Error: msg}
	}
	return Result{Success: true, Output: stdout, Error: strings.TrimSpace(stderr)}
}

// ParseEnv parses "key=value" strings into a map.
func ParseEnv(entries []string) (map[string]string, error) {
	result := make(map[string]string, len(entries))
	for _, e := range entries {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("invalid env format %q: expected KEY=VALUE", e)
		}
		if key == "" {
			return nil, fmt.Errorf("invalid env format %q: key cannot be empty", e)
		}
		result[key] = value
	}
	return result, nil
}

// Runner runs the configured lifecycle hooks.
type Runner struct {
	cfg config.HooksConfig
}

// NewRunner creates a Runner for the given hook configuration.
func NewRunner(cfg config.HooksConfig) *Runner {
	return &Runner{cfg: cfg}
}

// Run executes the hook for ev. It does nothing when no command is
// configured and returns nil in that case. Success and failure are logged.
func (r *Runner) Run(ctx context.Context, ev Event, v Vars) *Result {
	command := Command(r.cfg, ev)
	if command == "" {
		return nil
	}

	l := log.FromContext(ctx)
	l.Debug("running hook", "event", ev, "path", v.Path)

	res := Execute(ctx, command, v)
	if res.Success {
		l.Printf("%s hook executed successfully\n", ev)
	} else {
		l.Warnf("%s hook failed: %s", ev, res.Error)
	}
	return &res
}

// OnCreate runs the on_create hook.
func (r *Runner) OnCreate(ctx context.Context, path, branch string) *Result {
	return r.Run(ctx, EventCreate, NewVars(path, branch))
}

// OnDelete runs the on_delete hook.
func (r *Runner) OnDelete(ctx context.Context, path, branch string) *Result {
	return r.Run(ctx, EventDelete, NewVars(path, branch))
}

// OnSwitch runs the on_switch hook.
func (r *Runner) OnSwitch(ctx context.Context, path, branch string) *Result {
	return r.Run(ctx, EventSwitch, NewVars(path, branch))
}
