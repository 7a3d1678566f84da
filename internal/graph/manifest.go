package graph

import (
	"cmp"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

// Manifest file names, in lookup order.
const (
	PackageJSON = "package.json"
	GoMod       = "go.mod"
	CargoToml   = "Cargo.toml"
	Pubspec     = "pubspec.yaml"
)

// Manifests lists the supported manifest files in lookup order.
var Manifests = []string{PackageJSON, GoMod, CargoToml, Pubspec}

// parser turns manifest content into runtime and dev dependencies.
type parser func(data []byte) (deps, dev []Dependency, err error)

var parsers = map[string]parser{
	PackageJSON: parsePackageJSON,
	GoMod:       parseGoMod,
	CargoToml:   parseCargo,
	Pubspec:     parsePubspec,
}

func sortDeps(deps []Dependency) []Dependency {
	slices.SortFunc(deps, func(a, b Dependency) int { return cmp.Compare(a.Name, b.Name) })
	return deps
}

func parsePackageJSON(data []byte) ([]Dependency, []Dependency, error) {
	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, nil, err
	}
	return fromStringMap(pkg.Dependencies), fromStringMap(pkg.DevDependencies), nil
}

func fromStringMap(m map[string]string) []Dependency {
	deps := make([]Dependency, 0, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		deps = append(deps, Dependency{Name: name, Version: m[name]})
	}
	return deps
}

// parseGoMod treats // indirect requirements as dev dependencies.
func parseGoMod(data []byte) ([]Dependency, []Dependency, error) {
	f, err := modfile.ParseLax(GoMod, data, nil)
	if err != nil {
		return nil, nil, err
	}
	var deps, dev []Dependency
	for _, r := range f.Require {
		d := Dependency{Name: r.Mod.Path, Version: r.Mod.Version}
		if r.Indirect {
			dev = append(dev, d)
		} else {
			deps = append(deps, d)
		}
	}
	return sortDeps(deps), sortDeps(dev), nil
}

// anyVersion reads a version from `"1.0"` or `{ version = "1.0", ... }`.
func anyVersion(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val["version"].(string); ok {
			return s
		}
	}
	return ""
}

func fromAnyMap(m map[string]any) []Dependency {
	deps := make([]Dependency, 0, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		deps = append(deps, Dependency{Name: name, Version: anyVersion(m[name])})
	}
	return deps
}

func parseCargo(data []byte) ([]Dependency, []Dependency, error) {
	var cargo struct {
		Dependencies    map[string]any `toml:"dependencies"`
		DevDependencies map[string]any `toml:"dev-dependencies"`
	}
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return nil, nil, err
	}
	return fromAnyMap(cargo.Dependencies), fromAnyMap(cargo.DevDependencies), nil
}

func parsePubspec(data []byte) ([]Dependency, []Dependency, error) {
	var spec struct {
		Dependencies    map[string]any `yaml:"dependencies"`
		DevDependencies map[string]any `yaml:"dev_dependencies"`
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, nil, fmt.Errorf("parse pubspec: %w", err)
	}
	return fromAnyMap(spec.Dependencies), fromAnyMap(spec.DevDependencies), nil
}
