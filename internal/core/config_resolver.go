package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	"dario.cat/mergo"
	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"rnlink/internal/policies"
	"rnlink/internal/ports"
	"rnlink/internal/shared"
	"rnlink/internal/types"
)

// ConfigResolver turns an installed project into a Config.
type ConfigResolver struct {
	Manifests ports.ManifestPort
	Tree      ports.InstallTreePort
	Platforms []ports.PlatformPort
}

func NewConfigResolver(manifests ports.ManifestPort, tree ports.InstallTreePort, platforms ...ports.PlatformPort) ConfigResolver {
	return ConfigResolver{
		Manifests: manifests,
		Tree:      tree,
		Platforms: platforms,
	}
}

// Config is the resolved view of a project. The project and every
// dependency are computed on first access and memoized for the lifetime
// of the Config; loading again re-reads the disk.
type Config struct {
	Root             string
	Name             string
	Platforms        map[types.PlatformName]ports.PlatformPort
	PlatformPackages []string
	Policy           policies.LinkPolicy

	names        []string
	project      func() (map[types.PlatformName]types.ProjectConfig, error)
	dependencies map[string]func() (types.Dependency, error)
	assets       func() []string
}

func (r ConfigResolver) Load(ctx context.Context, root string) (*Config, error) {
	if r.Manifests == nil || r.Tree == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("config resolver requires manifest and install tree ports")
	}
	if strings.TrimSpace(root) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid project root").
			WithCause(err)
	}
	assert.NotEmpty(ctx, abs, "project root must resolve to a path")

	manifest, err := r.Manifests.ReadManifest(abs)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeOf(err)).
			WithMsg("failed to read project manifest").
			WithCause(err)
	}
	policy, err := policies.NewLinkPolicy(manifest.User.Ignore)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Root:             abs,
		Name:             manifest.Name,
		Platforms:        map[types.PlatformName]ports.PlatformPort{},
		PlatformPackages: []string{},
		Policy:           policy,
		dependencies:     map[string]func() (types.Dependency, error){},
	}
	for _, platform := range r.Platforms {
		cfg.Platforms[platform.Name()] = platform
	}

	discovered, err := r.Tree.Discover(ctx, abs)
	if err != nil {
		return nil, err
	}
	candidates := map[string]bool{}
	for name := range discovered {
		candidates[name] = true
	}
	for name := range manifest.User.Dependencies {
		candidates[name] = true
	}

	for _, name := range shared.SortedKeys(candidates) {
		logger := log.Ctx(ctx).With().Str("package", name).Logger()
		if !policy.Allows(name) {
			logger.Debug().Msg("package ignored by project configuration")
			continue
		}
		override := manifest.User.Dependencies[name]
		path := r.installPath(abs, name, override, discovered)
		if path == "" {
			logger.Warn().Msg("package is declared in the project configuration but not installed")
			continue
		}
		pkg, err := r.Manifests.ReadManifest(path)
		if err != nil {
			logger.Warn().Err(err).Msgf("package %s has been ignored because it contains invalid configuration", name)
			continue
		}
		if pkg.Native.IsPlatformPackage() {
			cfg.PlatformPackages = append(cfg.PlatformPackages, name)
			for _, provided := range pkg.Native.ProvidesPlatforms {
				if _, ok := cfg.Platforms[types.PlatformName(provided)]; !ok {
					logger.Info().Str("platform", provided).Msg("platform has no built-in implementation and is skipped")
				}
			}
			continue
		}
		cfg.names = append(cfg.names, name)
		cfg.dependencies[name] = sync.OnceValues(func() (types.Dependency, error) {
			dep, err := buildDependency(ctx, cfg, name, path, pkg.Native, override)
			if err != nil {
				logger.Warn().Err(err).Msgf("package %s has been ignored because it contains invalid configuration", name)
			}
			return dep, err
		})
	}

	cfg.project = sync.OnceValues(func() (map[types.PlatformName]types.ProjectConfig, error) {
		return buildProject(ctx, cfg, manifest.User.Project)
	})
	cfg.assets = sync.OnceValue(func() []string {
		return resolveAssets(abs, manifest.User.Assets)
	})

	log.Ctx(ctx).Debug().
		Int("dependencies", len(cfg.names)).
		Int("platform_packages", len(cfg.PlatformPackages)).
		Msg("config loaded")
	return cfg, nil
}

func (r ConfigResolver) installPath(root string, name string, override types.DependencyOverride, discovered map[string]string) string {
	if override.Root != "" {
		path := override.Root
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		return path
	}
	if path, ok := discovered[name]; ok {
		return path
	}
	path, _ := r.Tree.Locate(name, root, root)
	return path
}

func buildProject(ctx context.Context, cfg *Config, blocks map[string]json.RawMessage) (map[types.PlatformName]types.ProjectConfig, error) {
	project := map[types.PlatformName]types.ProjectConfig{}
	for _, name := range cfg.PlatformNames() {
		project[name] = nil
		block := blocks[string(name)]
		if isNullBlock(block) {
			continue
		}
		projectCfg, err := cfg.Platforms[name].ProjectConfig(cfg.Root, block)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeOf(err)).
				WithMsg(fmt.Sprintf("invalid %s project configuration", name)).
				WithCause(err)
		}
		if projectCfg == nil {
			log.Ctx(ctx).Debug().Str("platform", string(name)).Msg("no native project found")
		}
		project[name] = projectCfg
	}
	return project, nil
}

func buildDependency(ctx context.Context, cfg *Config, name string, root string, native types.NativeConfig, override types.DependencyOverride) (types.Dependency, error) {
	dep := types.Dependency{
		Name:      name,
		Root:      root,
		Platforms: map[types.PlatformName]types.DependencyConfig{},
		Assets:    resolveAssets(root, native.Assets),
		Hooks:     map[string]string{},
		Params:    native.Params,
	}
	for hook, command := range native.Hooks {
		dep.Hooks[hook] = command
	}
	for _, platformName := range cfg.PlatformNames() {
		dep.Platforms[platformName] = nil
		if !cfg.Policy.AllowsOn(platformName, name) {
			continue
		}
		block := native.Platforms[string(platformName)]
		if isNullBlock(block) {
			continue
		}
		depCfg, err := cfg.Platforms[platformName].DependencyConfig(root, block)
		if err != nil {
			return types.Dependency{}, errbuilder.New().
				WithCode(errbuilder.CodeOf(err)).
				WithMsg(fmt.Sprintf("invalid %s configuration for %s", platformName, name)).
				WithCause(err)
		}
		dep.Platforms[platformName] = depCfg
	}
	if err := applyOverride(ctx, &dep, override); err != nil {
		return types.Dependency{}, err
	}
	return dep, nil
}

// applyOverride merges the project's override for a dependency on top of
// the computed value. Scalars and arrays from the override win; a null
// platform block disables the platform.
func applyOverride(ctx context.Context, dep *types.Dependency, override types.DependencyOverride) error {
	for platform, block := range override.Platforms {
		platformName := types.PlatformName(platform)
		current, known := dep.Platforms[platformName]
		if !known {
			log.Ctx(ctx).Debug().Str("package", dep.Name).Str("platform", platform).Msg("override for unknown platform ignored")
			continue
		}
		if isNullBlock(block) {
			dep.Platforms[platformName] = nil
			continue
		}
		if current == nil {
			continue
		}
		merged, err := mergePlatformConfig(current, block)
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid %s override for %s", platform, dep.Name)).
				WithCause(err)
		}
		dep.Platforms[platformName] = merged
	}
	if len(override.Assets) > 0 {
		dep.Assets = resolveAssets(dep.Root, override.Assets)
	}
	for hook, command := range override.Hooks {
		dep.Hooks[hook] = command
	}
	if len(override.Params) > 0 {
		dep.Params = override.Params
	}
	return nil
}

// mergePlatformConfig decodes block into a fresh value of current's
// concrete type and merges it over current.
func mergePlatformConfig(current types.DependencyConfig, block json.RawMessage) (types.DependencyConfig, error) {
	target := reflect.ValueOf(current)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return current, nil
	}
	fresh := reflect.New(target.Type().Elem()).Interface()
	if err := json.Unmarshal(block, fresh); err != nil {
		return nil, err
	}
	if err := mergo.Merge(current, fresh, mergo.WithOverride); err != nil {
		return nil, err
	}
	return current, nil
}

func isNullBlock(block json.RawMessage) bool {
	return strings.TrimSpace(string(block)) == "null"
}

// resolveAssets expands asset globs relative to base into the files they
// name, descending into directories.
func resolveAssets(base string, patterns []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, pattern := range patterns {
		full := pattern
		if !filepath.IsAbs(full) {
			full = filepath.Join(base, full)
		}
		matches, err := filepath.Glob(full)
		if err != nil {
			continue
		}
		for _, match := range matches {
			_ = filepath.WalkDir(match, func(path string, entry fs.DirEntry, err error) error {
				if err != nil || entry.IsDir() || seen[path] {
					return nil
				}
				seen[path] = true
				out = append(out, path)
				return nil
			})
		}
	}
	return out
}

// PlatformNames returns the available platforms in name order.
func (c *Config) PlatformNames() []types.PlatformName {
	names := make([]types.PlatformName, 0, len(c.Platforms))
	for name := range c.Platforms {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Project returns the host project's configuration per platform. A nil
// entry means the project has no native project for that platform.
func (c *Config) Project() (map[types.PlatformName]types.ProjectConfig, error) {
	if c.project == nil {
		return map[types.PlatformName]types.ProjectConfig{}, nil
	}
	return c.project()
}

// DependencyNames lists the candidate dependencies in name order. A name
// may still fail to resolve; see Dependency.
func (c *Config) DependencyNames() []string {
	return append([]string(nil), c.names...)
}

// HasDependency reports whether name is a candidate dependency.
func (c *Config) HasDependency(name string) bool {
	_, ok := c.dependencies[name]
	return ok
}

// Dependency resolves one dependency, building it on first access.
func (c *Config) Dependency(name string) (types.Dependency, error) {
	load, ok := c.dependencies[name]
	if !ok {
		return types.Dependency{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("unknown dependency %q", name))
	}
	return load()
}

// Dependencies returns every dependency that resolves, in name order.
// A dependency with invalid platform configuration is logged once and
// left out.
func (c *Config) Dependencies() []types.Dependency {
	out := make([]types.Dependency, 0, len(c.names))
	for _, name := range c.names {
		dep, err := c.Dependency(name)
		if err != nil {
			continue
		}
		out = append(out, dep)
	}
	return out
}

// Assets returns the project's own asset files.
func (c *Config) Assets() []string {
	if c.assets == nil {
		return []string{}
	}
	return c.assets()
}

// Snapshot is the serializable form of a Config.
type Snapshot struct {
	Root             string                                     `json:"root"`
	Name             string                                     `json:"name"`
	Platforms        []types.PlatformName                       `json:"platforms"`
	PlatformPackages []string                                   `json:"platformPackages"`
	Project          map[types.PlatformName]types.ProjectConfig `json:"project"`
	Dependencies     map[string]types.Dependency                `json:"dependencies"`
	Assets           []string                                   `json:"assets"`
}

// Snapshot forces every lazy field and returns the result.
func (c *Config) Snapshot() (Snapshot, error) {
	project, err := c.Project()
	if err != nil {
		return Snapshot{}, err
	}
	snapshot := Snapshot{
		Root:             c.Root,
		Name:             c.Name,
		Platforms:        c.PlatformNames(),
		PlatformPackages: c.PlatformPackages,
		Project:          project,
		Dependencies:     map[string]types.Dependency{},
		Assets:           c.Assets(),
	}
	for _, dep := range c.Dependencies() {
		snapshot.Dependencies[dep.Name] = dep
	}
	return snapshot, nil
}
