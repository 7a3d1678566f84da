// Package templates manages worktree templates: the built-in presets plus
// custom templates stored per repository.
//
// A template maps a branch name to a worktree location and a full branch
// name. Location patterns are relative to the main worktree and may contain
// a single {branchName} placeholder:
//
//	../features/{branchName}   + "auth/login" -> ../features/auth-login
//	branch prefix "feature/"   + "auth/login" -> feature/auth/login
package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/raphi011/wtm/internal/state"
	"github.com/raphi011/wtm/internal/storage"
	"github.com/raphi011/wtm/internal/worktree"
)

// Placeholder is replaced by the sanitized branch name in location patterns.
const Placeholder = "{branchName}"

// ErrBuiltin is returned when modifying or deleting a built-in template.
var ErrBuiltin = errors.New("built-in templates cannot be modified")

// Template describes how to create a worktree.
type Template struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	LocationPattern string   `json:"locationPattern"`
	BranchPrefix    string   `json:"branchPrefix,omitempty"`
	AutoInstallDeps bool     `json:"autoInstallDeps,omitempty"`
	OpenInNewWindow bool     `json:"openInNewWindow,omitempty"`
	RunHooks        []string `json:"runHooks,omitempty"`
}

// Validate checks the fields required to apply a template.
func (t Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("template name cannot be empty")
	}
	if strings.TrimSpace(t.LocationPattern) == "" {
		return errors.New("location pattern cannot be empty")
	}
	return nil
}

// Builtin returns the predefined templates.
func Builtin() []Template {
	return []Template{
		{
			ID:              "hotfix",
			Name:            "Hotfix Branch",
			Description:     "Create a hotfix worktree from main",
			LocationPattern: "../hotfix/" + Placeholder,
			BranchPrefix:    "hotfix/",
			AutoInstallDeps: true,
		},
		{
			ID:              "feature",
			Name:            "Feature Branch",
			Description:     "Create a feature worktree",
			LocationPattern: "../features/" + Placeholder,
			BranchPrefix:    "feature/",
			AutoInstallDeps: true,
			OpenInNewWindow: true,
		},
		{
			ID:              "review",
			Name:            "PR Review",
			Description:     "Temporary worktree for code review",
			LocationPattern: "../review/" + Placeholder,
			OpenInNewWindow: true,
		},
		{
			ID:              "prototype",
			Name:            "Prototype/Experiment",
			Description:     "Experimental worktree",
			LocationPattern: "../prototype/" + Placeholder,
			BranchPrefix:    "prototype/",
			OpenInNewWindow: true,
		},
	}
}

// IsBuiltin reports whether id names a built-in template.
func IsBuiltin(id string) bool {
	return slices.ContainsFunc(Builtin(), func(t Template) bool { return t.ID == id })
}

// Applied is the result of applying a template to a branch name.
type Applied struct {
	Location string
	Branch   string
}

// Apply computes the worktree location and branch for branchName.
// Only the first placeholder in the pattern is replaced.
func Apply(t Template, branchName string) Applied {
	return Applied{
		Location: strings.Replace(t.LocationPattern, Placeholder, worktree.SanitizeBranch(branchName), 1),
		Branch:   t.BranchPrefix + branchName,
	}
}

// Store persists custom templates.
type Store interface {
	Templates(ctx context.Context) ([]state.TemplateRow, error)
	SaveTemplate(ctx context.Context, id string, data []byte) error
	DeleteTemplate(ctx context.Context, id string) error
}

// Manager provides CRUD over built-in and custom templates.
type Manager struct {
	store Store
}

// NewManager creates a Manager backed by store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Custom returns the stored templates in insertion order.
// Rows that fail to decode are skipped.
func (m *Manager) Custom(ctx context.Context) ([]Template, error) {
	rows, err := m.store.Templates(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Template, 0, len(rows))
	for _, r := range rows {
		var t Template
		if err := json.Unmarshal(r.Data, &t); err != nil {
			continue
		}
		t.ID = r.ID
		out = append(out, t)
	}
	return out, nil
}

// List returns the built-in templates followed by the custom ones.
func (m *Manager) List(ctx context.Context) ([]Template, error) {
	custom, err := m.Custom(ctx)
	if err != nil {
		return nil, err
	}
	return append(Builtin(), custom...), nil
}

// Get looks up a template by ID.
func (m *Manager) Get(ctx context.Context, id string) (Template, error) {
	all, err := m.List(ctx)
	if err != nil {
		return Template{}, err
	}
	for _, t := range all {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("template %q: %w", id, state.ErrNotFound)
}

// Save inserts or replaces a custom template and returns it.
// A template without an ID gets a generated one.
func (m *Manager) Save(ctx context.Context, t Template) (Template, error) {
	if IsBuiltin(t.ID) {
		return Template{}, fmt.Errorf("template %q: %w", t.ID, ErrBuiltin)
	}
	if err := t.Validate(); err != nil {
		return Template{}, err
	}
	if t.ID == "" {
		t.ID = NewID()
	}
	data, err := json.Marshal(t)
	if err != nil {
		return Template{}, err
	}
	if err := m.store.SaveTemplate(ctx, t.ID, data); err != nil {
		return Template{}, err
	}
	return t, nil
}

// Delete removes a custom template.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if IsBuiltin(id) {
		return fmt.Errorf("template %q: %w", id, ErrBuiltin)
	}
	return m.store.DeleteTemplate(ctx, id)
}

// NewID returns an ID for a custom template.
func NewID() string {
	return "custom-" + uuid.NewString()[:8]
}

// Export writes the custom templates to path as a JSON array.
// Returns the number of exported templates.
func (m *Manager) Export(ctx context.Context, path string) (int, error) {
	custom, err := m.Custom(ctx)
	if err != nil {
		return 0, err
	}
	if err := storage.SaveJSON(path, custom); err != nil {
		return 0, fmt.Errorf("export templates: %w", err)
	}
	return len(custom), nil
}

// Import reads a JSON array of templates from path and saves each one.
// Entries colliding with a built-in ID or failing validation are skipped.
// Returns the number of imported templates.
func (m *Manager) Import(ctx context.Context, path string) (int, error) {
	var in []Template
	if err := storage.LoadJSON(path, &in); err != nil {
		return 0, fmt.Errorf("import templates: %w", err)
	}
	n := 0
	for _, t := range in {
		if IsBuiltin(t.ID) || t.Validate() != nil {
			continue
		}
		if _, err := m.Save(ctx, t); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
