package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"rnlink/internal/core"
)

// PlanPeers computes the peer install plan for the project and, when an
// output path is set, writes it to disk.
func (s Service) PlanPeers(ctx context.Context, req PeersRequest) (PeersResult, error) {
	if s.NewRegistry == nil {
		return PeersResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("registry client is not configured")
	}
	root := projectRoot(req.Root)
	resolver := core.NewPeerResolver(s.Manifests, s.Tree, s.NewRegistry(
		strings.TrimSpace(req.Registry),
		req.TimeoutSec,
		req.Retries,
		req.RetryDelayMs,
	))
	resolver.Progress = s.Progress
	plan, err := resolver.Resolve(ctx, root)
	if err != nil {
		return PeersResult{}, err
	}
	result := PeersResult{Root: root, Plan: plan}

	output := strings.TrimSpace(req.Output)
	if output != "" {
		if s.PlanWriter == nil {
			return PeersResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("plan writer is not configured")
		}
		if err := s.PlanWriter.WritePlan(output, plan); err != nil {
			return PeersResult{}, err
		}
		result.PlanPath = output
	}
	return result, nil
}

// InstallPeers installs every resolvable peer of a computed plan pinned to
// its version. The user is asked first unless Yes is set; nothing is
// installed on a dry run.
func (s Service) InstallPeers(ctx context.Context, req PeersRequest, planned PeersResult) (PeersResult, error) {
	pins := planned.Plan.Resolved()
	if len(pins) == 0 {
		log.Ctx(ctx).Info().Msg("no peer dependencies to install")
		return planned, nil
	}
	if req.DryRun {
		log.Ctx(ctx).Info().Int("peers", len(pins)).Msg("dry run, skipping install")
		return planned, nil
	}
	if !req.Yes {
		ok, err := s.Prompter.Confirm(ctx, fmt.Sprintf("Install %d peer dependencies?", len(pins)))
		if err != nil {
			return PeersResult{}, err
		}
		if !ok {
			planned.Declined = true
			return planned, nil
		}
	}
	if s.NewInstaller == nil {
		return PeersResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package installer is not configured")
	}
	if err := s.NewInstaller(strings.TrimSpace(req.PackageManager)).Install(ctx, planned.Root, pins); err != nil {
		return PeersResult{}, err
	}
	planned.Installed = pins
	return planned, nil
}

// Peers plans and installs in one go without showing the plan in between.
func (s Service) Peers(ctx context.Context, req PeersRequest) (PeersResult, error) {
	planned, err := s.PlanPeers(ctx, req)
	if err != nil {
		return PeersResult{}, err
	}
	return s.InstallPeers(ctx, req, planned)
}
