package core

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"rnlink/internal/ports"
	"rnlink/internal/shared"
	"rnlink/internal/types"
)

const defaultRegistryConcurrency = 4

// Subfolders whose presence marks a package as shipping native code.
var nativeFolders = []string{"android", "ios"}

// PeerResolver finds the peer dependencies native packages need but the
// project does not declare, and picks a version of each that satisfies
// every package asking for it.
type PeerResolver struct {
	Manifests   ports.ManifestPort
	Tree        ports.InstallTreePort
	Registry    ports.RegistryPort
	Progress    ports.ProgressPort
	Concurrency int
}

func NewPeerResolver(manifests ports.ManifestPort, tree ports.InstallTreePort, registry ports.RegistryPort) PeerResolver {
	return PeerResolver{
		Manifests:   manifests,
		Tree:        tree,
		Registry:    registry,
		Concurrency: defaultRegistryConcurrency,
	}
}

type pendingNode struct {
	name    string
	fromDir string
}

// BuildGraph walks the install tree from root. Every distinct physical
// install of a package is kept; a package reached again at a path already
// recorded is not walked twice.
func (r PeerResolver) BuildGraph(ctx context.Context, root string) (types.DependencyGraph, error) {
	realRoot, err := realPath(root)
	if err != nil {
		return types.DependencyGraph{}, err
	}
	manifest, err := r.Manifests.ReadManifest(realRoot)
	if err != nil {
		return types.DependencyGraph{}, errbuilder.New().
			WithCode(errbuilder.CodeOf(err)).
			WithMsg("failed to read project manifest").
			WithCause(err)
	}
	graph := types.NewDependencyGraph(nodeFromManifest(manifest, realRoot))

	queue := []pendingNode{}
	enqueue := func(deps map[string]string, fromDir string) {
		for _, name := range shared.SortedKeys(deps) {
			queue = append(queue, pendingNode{name: name, fromDir: fromDir})
		}
	}
	enqueue(manifest.Dependencies, realRoot)
	enqueue(manifest.DevDependencies, realRoot)

	for len(queue) > 0 {
		if ctx.Err() != nil {
			return types.DependencyGraph{}, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("dependency walk canceled").
				WithCause(ctx.Err())
		}
		next := queue[0]
		queue = queue[1:]
		path, ok := r.Tree.Resolve(next.name, next.fromDir, realRoot)
		if !ok {
			log.Ctx(ctx).Debug().Str("package", next.name).Str("from", next.fromDir).Msg("package is not installed")
			continue
		}
		if graph.Has(next.name, path) {
			continue
		}
		pkg, err := r.Manifests.ReadManifest(path)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("package", next.name).Msg("skipping package with unreadable manifest")
			continue
		}
		node := nodeFromManifest(pkg, path)
		node.Name = next.name
		graph.Add(node)
		enqueue(pkg.Dependencies, path)
	}
	log.Ctx(ctx).Debug().Int("packages", len(graph.Order)).Msg("dependency graph built")
	return graph, nil
}

// NativeConsumers returns the installs that declare at least one peer
// dependency shipping native code.
func (r PeerResolver) NativeConsumers(ctx context.Context, graph types.DependencyGraph) []types.PackageNode {
	consumers := []types.PackageNode{}
	for _, node := range graph.All() {
		for _, peer := range shared.SortedKeys(node.PeerDependencies) {
			path, ok := r.Tree.Resolve(peer, node.Root, graph.Root.Root)
			if ok && hasNativeFolder(path) {
				log.Ctx(ctx).Debug().Str("package", node.Name).Str("peer", peer).Msg("native peer dependency")
				consumers = append(consumers, node)
				break
			}
		}
	}
	return consumers
}

// MissingPeers collects, per peer name the project does not declare
// itself, every range asked for and who asked for it.
func MissingPeers(root types.PackageNode, consumers []types.PackageNode) []types.PeerRequirement {
	byName := map[string]*types.PeerRequirement{}
	for _, consumer := range consumers {
		for _, peer := range shared.SortedKeys(consumer.PeerDependencies) {
			if _, ok := root.Dependencies[peer]; ok {
				continue
			}
			if _, ok := root.DevDependencies[peer]; ok {
				continue
			}
			req, ok := byName[peer]
			if !ok {
				req = &types.PeerRequirement{Name: peer}
				byName[peer] = req
			}
			req.Ranges = appendUnique(req.Ranges, consumer.PeerDependencies[peer])
			req.RequiredBy = appendUnique(req.RequiredBy, consumerLabel(consumer))
		}
	}
	out := make([]types.PeerRequirement, 0, len(byName))
	for _, name := range shared.SortedKeys(byName) {
		out = append(out, *byName[name])
	}
	return out
}

// Plan looks up the published versions of every requirement and picks
// the best one. A peer without a satisfying version is reported in the
// plan rather than failing it.
func (r PeerResolver) Plan(ctx context.Context, requirements []types.PeerRequirement) (types.InstallPlan, error) {
	if len(requirements) == 0 {
		return types.InstallPlan{Peers: []types.PlannedPeer{}}, nil
	}
	if r.Registry == nil {
		return types.InstallPlan{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("peer resolution requires a registry")
	}
	progress := r.Progress
	if progress == nil {
		progress = noopProgress{}
	}
	limit := r.Concurrency
	if limit <= 0 {
		limit = defaultRegistryConcurrency
	}

	planned := make([]types.PlannedPeer, len(requirements))
	progress.Start("resolving peer dependencies", len(requirements))
	defer progress.Finish()
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(limit)
	for i, req := range requirements {
		group.Go(func() error {
			peer, err := r.planPeer(groupCtx, req)
			if err != nil {
				return err
			}
			planned[i] = peer
			progress.Advance(req.Name)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return types.InstallPlan{}, err
	}
	return types.InstallPlan{Peers: planned}, nil
}

func (r PeerResolver) planPeer(ctx context.Context, req types.PeerRequirement) (types.PlannedPeer, error) {
	peer := types.PlannedPeer{
		Name:       req.Name,
		Ranges:     req.Ranges,
		RequiredBy: req.RequiredBy,
	}
	versions, err := r.Registry.Versions(ctx, req.Name)
	if err != nil {
		if errbuilder.CodeOf(err) != errbuilder.CodeNotFound {
			return types.PlannedPeer{}, errbuilder.New().
				WithCode(errbuilder.CodeOf(err)).
				WithMsg(fmt.Sprintf("failed to fetch versions of %s", req.Name)).
				WithCause(err)
		}
		versions = nil
	}
	version, err := bestCompatibleVersion(req.Name, req.Ranges, versions)
	if err != nil {
		peer.Reason = unresolvableReason(err)
		log.Ctx(ctx).Warn().Str("package", req.Name).Strs("ranges", req.Ranges).Msg(peer.Reason)
		return peer, nil
	}
	peer.Version = version
	peer.Resolvable = true
	return peer, nil
}

// Resolve runs the full peer resolution for the project at root.
func (r PeerResolver) Resolve(ctx context.Context, root string) (types.InstallPlan, error) {
	graph, err := r.BuildGraph(ctx, root)
	if err != nil {
		return types.InstallPlan{}, err
	}
	consumers := r.NativeConsumers(ctx, graph)
	requirements := MissingPeers(graph.Root, consumers)
	log.Ctx(ctx).Debug().
		Int("consumers", len(consumers)).
		Int("missing", len(requirements)).
		Msg("missing peer dependencies collected")
	return r.Plan(ctx, requirements)
}

func unresolvableReason(err error) string {
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeNotFound:
		return "no published versions"
	case errbuilder.CodeInvalidArgument:
		return "invalid version range"
	default:
		return "no version satisfies every range"
	}
}

func nodeFromManifest(manifest types.Manifest, root string) types.PackageNode {
	return types.PackageNode{
		Name:             manifest.Name,
		Version:          manifest.Version,
		Root:             root,
		Dependencies:     manifest.Dependencies,
		DevDependencies:  manifest.DevDependencies,
		PeerDependencies: manifest.PeerDependencies,
	}
}

func consumerLabel(node types.PackageNode) string {
	if node.Version == "" {
		return node.Name
	}
	return node.Name + "@" + node.Version
}

func hasNativeFolder(path string) bool {
	for _, folder := range nativeFolders {
		if shared.IsDir(filepath.Join(path, folder)) {
			return true
		}
	}
	return false
}

func realPath(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid project root").
			WithCause(err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("project root does not exist").
			WithCause(err)
	}
	return real, nil
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}

type noopProgress struct{}

func (noopProgress) Start(string, int) {}
func (noopProgress) Advance(string)    {}
func (noopProgress) Finish()           {}
