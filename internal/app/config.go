package app

import (
	"context"
	"strings"

	"rnlink/internal/core"
)

func (s Service) Config(ctx context.Context, req ConfigRequest) (ConfigResult, error) {
	cfg, err := s.loadConfig(ctx, req.Root)
	if err != nil {
		return ConfigResult{}, err
	}
	snapshot, err := cfg.Snapshot()
	if err != nil {
		return ConfigResult{}, err
	}
	return ConfigResult{Snapshot: snapshot}, nil
}

func (s Service) loadConfig(ctx context.Context, root string) (*core.Config, error) {
	resolver := core.NewConfigResolver(s.Manifests, s.Tree, s.Platforms...)
	return resolver.Load(ctx, projectRoot(root))
}

func projectRoot(root string) string {
	root = strings.TrimSpace(root)
	if root == "" {
		return "."
	}
	return root
}
