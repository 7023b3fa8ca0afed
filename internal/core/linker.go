package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"rnlink/internal/ports"
	"rnlink/internal/shared"
	"rnlink/internal/types"
)

// Linker wires dependencies into, and out of, the host project's native
// build files.
type Linker struct {
	Prompter ports.PrompterPort
	Hooks    ports.HookRunnerPort
}

func NewLinker(prompter ports.PrompterPort, hooks ports.HookRunnerPort) Linker {
	return Linker{
		Prompter: prompter,
		Hooks:    hooks,
	}
}

// Link links a single dependency. A trailing "@version" on name is ignored.
func (l Linker) Link(ctx context.Context, cfg *Config, name string, platforms []types.PlatformName) error {
	selected, err := SelectPlatforms(cfg, platforms)
	if err != nil {
		return err
	}
	dep, err := lookupDependency(cfg, name)
	if err != nil {
		return err
	}
	project, err := cfg.Project()
	if err != nil {
		return err
	}
	if err := l.linkDependency(ctx, cfg, dep, selected, project); err != nil {
		return err
	}
	return linkAssets(ctx, cfg, selected, project, dep.Assets)
}

// LinkAll links every dependency in name order, then the assets of the
// project and all dependencies, each basename once.
func (l Linker) LinkAll(ctx context.Context, cfg *Config, platforms []types.PlatformName) error {
	selected, err := SelectPlatforms(cfg, platforms)
	if err != nil {
		return err
	}
	project, err := cfg.Project()
	if err != nil {
		return err
	}
	assets := cfg.Assets()
	for _, dep := range cfg.Dependencies() {
		if err := l.linkDependency(ctx, cfg, dep, selected, project); err != nil {
			return err
		}
		assets = append(assets, dep.Assets...)
	}
	return linkAssets(ctx, cfg, selected, project, dedupeByBasename(assets))
}

// LinkProjectAssets links only the project's own assets.
func (l Linker) LinkProjectAssets(ctx context.Context, cfg *Config, platforms []types.PlatformName) error {
	selected, err := SelectPlatforms(cfg, platforms)
	if err != nil {
		return err
	}
	project, err := cfg.Project()
	if err != nil {
		return err
	}
	return linkAssets(ctx, cfg, selected, project, dedupeByBasename(cfg.Assets()))
}

// Unlink removes a dependency from the native projects. Shared libraries,
// header paths and assets still needed by other dependencies stay.
func (l Linker) Unlink(ctx context.Context, cfg *Config, name string, platforms []types.PlatformName) error {
	selected, err := SelectPlatforms(cfg, platforms)
	if err != nil {
		return err
	}
	dep, err := lookupDependency(cfg, name)
	if err != nil {
		return err
	}
	project, err := cfg.Project()
	if err != nil {
		return err
	}
	others := otherDependencies(cfg, dep.Name)

	if err := l.runHook(ctx, cfg, dep, types.HookPreunlink); err != nil {
		return err
	}
	for _, platformName := range selected {
		if err := unregister(ctx, cfg.Platforms[platformName], dep, project[platformName], others); err != nil {
			return err
		}
	}
	if err := l.runHook(ctx, cfg, dep, types.HookPostunlink); err != nil {
		return err
	}

	shipped := map[string]bool{}
	for _, asset := range cfg.Assets() {
		shipped[filepath.Base(asset)] = true
	}
	for _, other := range others {
		for _, asset := range other.Assets {
			shipped[filepath.Base(asset)] = true
		}
	}
	removable := []string{}
	for _, asset := range dep.Assets {
		if !shipped[filepath.Base(asset)] {
			removable = append(removable, asset)
		}
	}
	return unlinkAssets(ctx, cfg, selected, project, removable)
}

func (l Linker) linkDependency(ctx context.Context, cfg *Config, dep types.Dependency, selected []types.PlatformName, project map[types.PlatformName]types.ProjectConfig) error {
	if err := l.runHook(ctx, cfg, dep, types.HookPrelink); err != nil {
		return err
	}
	params := []types.ParamValue{}
	if len(dep.Params) > 0 && needsRegistration(cfg, dep, selected, project) {
		if l.Prompter == nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("%s needs parameters but no prompt is available", dep.Name))
		}
		answers, err := l.Prompter.Ask(ctx, dep.Params)
		if err != nil {
			return err
		}
		params = answers
	}
	for _, platformName := range selected {
		if err := register(ctx, cfg.Platforms[platformName], dep, params, project[platformName]); err != nil {
			return err
		}
	}
	return l.runHook(ctx, cfg, dep, types.HookPostlink)
}

func (l Linker) runHook(ctx context.Context, cfg *Config, dep types.Dependency, hook types.HookName) error {
	command, ok := dep.Hook(hook)
	if !ok {
		return nil
	}
	if l.Hooks == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("%s declares a %s hook but no hook runner is available", dep.Name, hook))
	}
	log.Ctx(ctx).Info().Str("package", dep.Name).Str("hook", string(hook)).Msg("running hook")
	return l.Hooks.Run(ctx, cfg.Root, command)
}

// needsRegistration reports whether any selected platform would register
// dep, so params are only asked for when they will be used.
func needsRegistration(cfg *Config, dep types.Dependency, selected []types.PlatformName, project map[types.PlatformName]types.ProjectConfig) bool {
	for _, platformName := range selected {
		linker, ok := cfg.Platforms[platformName].(ports.NativeLinkerPort)
		depCfg := dep.Platforms[platformName]
		projectCfg := project[platformName]
		if !ok || depCfg == nil || projectCfg == nil {
			continue
		}
		installed, err := linker.IsInstalled(projectCfg, dep.Name, depCfg)
		if err != nil || !installed {
			return true
		}
	}
	return false
}

func register(ctx context.Context, platform ports.PlatformPort, dep types.Dependency, params []types.ParamValue, project types.ProjectConfig) error {
	logger := log.Ctx(ctx).With().Str("package", dep.Name).Str("platform", string(platform.Name())).Logger()
	linker, ok := platform.(ports.NativeLinkerPort)
	depCfg := dep.Platforms[platform.Name()]
	if !ok || depCfg == nil || project == nil {
		logger.Debug().Msg("nothing to link")
		return nil
	}
	installed, err := linker.IsInstalled(project, dep.Name, depCfg)
	if err != nil {
		return linkError("link", dep.Name, platform.Name(), err)
	}
	if installed {
		logger.Info().Msg("already linked")
		return nil
	}
	logger.Info().Msg("linking")
	if err := linker.Register(dep.Name, depCfg, params, project); err != nil {
		return linkError("link", dep.Name, platform.Name(), err)
	}
	return nil
}

func unregister(ctx context.Context, platform ports.PlatformPort, dep types.Dependency, project types.ProjectConfig, others []types.Dependency) error {
	logger := log.Ctx(ctx).With().Str("package", dep.Name).Str("platform", string(platform.Name())).Logger()
	linker, ok := platform.(ports.NativeLinkerPort)
	depCfg := dep.Platforms[platform.Name()]
	if !ok || depCfg == nil || project == nil {
		logger.Debug().Msg("nothing to unlink")
		return nil
	}
	installed, err := linker.IsInstalled(project, dep.Name, depCfg)
	if err != nil {
		return linkError("unlink", dep.Name, platform.Name(), err)
	}
	if !installed {
		logger.Info().Msg("not linked")
		return nil
	}
	otherConfigs := []types.DependencyConfig{}
	for _, other := range others {
		if cfg := other.Platforms[platform.Name()]; cfg != nil {
			otherConfigs = append(otherConfigs, cfg)
		}
	}
	logger.Info().Msg("unlinking")
	if err := linker.Unregister(dep.Name, depCfg, project, otherConfigs); err != nil {
		return linkError("unlink", dep.Name, platform.Name(), err)
	}
	return nil
}

func linkAssets(ctx context.Context, cfg *Config, selected []types.PlatformName, project map[types.PlatformName]types.ProjectConfig, assets []string) error {
	if len(assets) == 0 {
		return nil
	}
	for _, platformName := range selected {
		linker, ok := cfg.Platforms[platformName].(ports.AssetLinkerPort)
		projectCfg := project[platformName]
		if !ok || projectCfg == nil {
			continue
		}
		log.Ctx(ctx).Info().Str("platform", string(platformName)).Int("assets", len(assets)).Msg("linking assets")
		if err := linker.CopyAssets(assets, projectCfg); err != nil {
			return linkError("link assets", cfg.Name, platformName, err)
		}
	}
	return nil
}

func unlinkAssets(ctx context.Context, cfg *Config, selected []types.PlatformName, project map[types.PlatformName]types.ProjectConfig, assets []string) error {
	if len(assets) == 0 {
		return nil
	}
	for _, platformName := range selected {
		linker, ok := cfg.Platforms[platformName].(ports.AssetLinkerPort)
		projectCfg := project[platformName]
		if !ok || projectCfg == nil {
			continue
		}
		log.Ctx(ctx).Info().Str("platform", string(platformName)).Int("assets", len(assets)).Msg("unlinking assets")
		if err := linker.RemoveAssets(assets, projectCfg); err != nil {
			return linkError("unlink assets", cfg.Name, platformName, err)
		}
	}
	return nil
}

// SelectPlatforms validates the requested platforms against the ones cfg
// supports. No request selects every platform.
func SelectPlatforms(cfg *Config, requested []types.PlatformName) ([]types.PlatformName, error) {
	available := cfg.PlatformNames()
	if len(requested) == 0 {
		return available, nil
	}
	selected := []types.PlatformName{}
	seen := map[types.PlatformName]bool{}
	for _, name := range requested {
		if _, ok := cfg.Platforms[name]; !ok {
			names := make([]string, 0, len(available))
			for _, platform := range available {
				names = append(names, string(platform))
			}
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unknown platform %q, available platforms: %s", name, strings.Join(names, ", ")))
		}
		if !seen[name] {
			seen[name] = true
			selected = append(selected, name)
		}
	}
	return selected, nil
}

func lookupDependency(cfg *Config, name string) (types.Dependency, error) {
	name = shared.StripVersion(strings.TrimSpace(name))
	if !cfg.HasDependency(name) {
		return types.Dependency{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("unknown dependency %q: make sure the package is installed and listed in package.json", name))
	}
	return cfg.Dependency(name)
}

// otherDependencies returns every resolvable dependency except name.
func otherDependencies(cfg *Config, name string) []types.Dependency {
	others := []types.Dependency{}
	for _, dep := range cfg.Dependencies() {
		if dep.Name != name {
			others = append(others, dep)
		}
	}
	return others
}

// dedupeByBasename keeps the first asset for every file name.
func dedupeByBasename(assets []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, asset := range assets {
		base := filepath.Base(asset)
		if seen[base] {
			continue
		}
		seen[base] = true
		out = append(out, asset)
	}
	return out
}

func linkError(action string, name string, platform types.PlatformName, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeOf(err)).
		WithMsg(fmt.Sprintf("failed to %s %s on %s", action, name, platform)).
		WithCause(err)
}
