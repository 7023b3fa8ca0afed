package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"rnlink/internal/core"
	"rnlink/internal/types"
)

// Link links one package, every package (All), or only the project's own
// assets when no package is named.
func (s Service) Link(ctx context.Context, req LinkRequest) (LinkResult, error) {
	name := strings.TrimSpace(req.Package)
	if req.All && name != "" {
		return LinkResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("--all cannot be combined with a package name")
	}
	cfg, err := s.loadConfig(ctx, req.Root)
	if err != nil {
		return LinkResult{}, err
	}
	platforms, err := core.SelectPlatforms(cfg, platformNames(req.Platforms))
	if err != nil {
		return LinkResult{}, err
	}

	linker := core.NewLinker(s.Prompter, s.Hooks)
	switch {
	case req.All:
		err = linker.LinkAll(ctx, cfg, platforms)
	case name == "":
		err = linker.LinkProjectAssets(ctx, cfg, platforms)
	default:
		err = linker.Link(ctx, cfg, name, platforms)
	}
	if err != nil {
		return LinkResult{}, err
	}
	log.Ctx(ctx).Info().Str("package", name).Bool("all", req.All).Msg("link finished")
	return LinkResult{Root: cfg.Root, Package: name, Platforms: platforms}, nil
}

func (s Service) Unlink(ctx context.Context, req UnlinkRequest) (UnlinkResult, error) {
	name := strings.TrimSpace(req.Package)
	if name == "" {
		return UnlinkResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package name is required")
	}
	cfg, err := s.loadConfig(ctx, req.Root)
	if err != nil {
		return UnlinkResult{}, err
	}
	platforms, err := core.SelectPlatforms(cfg, platformNames(req.Platforms))
	if err != nil {
		return UnlinkResult{}, err
	}
	if err := core.NewLinker(s.Prompter, s.Hooks).Unlink(ctx, cfg, name, platforms); err != nil {
		return UnlinkResult{}, err
	}
	log.Ctx(ctx).Info().Str("package", name).Msg("unlink finished")
	return UnlinkResult{Root: cfg.Root, Package: name, Platforms: platforms}, nil
}

func platformNames(values []string) []types.PlatformName {
	out := []types.PlatformName{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part != "" {
				out = append(out, types.PlatformName(part))
			}
		}
	}
	return out
}
