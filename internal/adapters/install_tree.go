package adapters

import (
	"context"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"rnlink/internal/ports"
	"rnlink/internal/shared"
)

const nodeModules = "node_modules"

// Packages that are part of the toolchain itself and never linked.
var deniedPackages = map[string]bool{
	"react-native":                true,
	"@react-native-community/cli": true,
	"rnlink":                      true,
}

type InstallTreeAdapter struct {
	Manifests ports.ManifestPort
}

func NewInstallTreeAdapter(manifests ports.ManifestPort) InstallTreeAdapter {
	return InstallTreeAdapter{Manifests: manifests}
}

type pendingPackage struct {
	name    string
	fromDir string
}

// Discover walks breadth first from the root manifest's dependencies and
// devDependencies through each package's dependencies.
func (a InstallTreeAdapter) Discover(ctx context.Context, root string) (map[string]string, error) {
	if root == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project root is empty")
	}
	manifest, err := a.Manifests.ReadManifest(root)
	if err != nil {
		return nil, err
	}
	found := map[string]string{}
	visited := map[string]bool{}
	queue := []pendingPackage{}
	enqueue := func(names []string, fromDir string) {
		for _, name := range names {
			queue = append(queue, pendingPackage{name: name, fromDir: fromDir})
		}
	}
	enqueue(shared.SortedKeys(manifest.Dependencies), root)
	enqueue(shared.SortedKeys(manifest.DevDependencies), root)

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if visited[next.name] || deniedPackages[next.name] {
			continue
		}
		path, ok := a.Locate(next.name, root, next.fromDir)
		if !ok {
			log.Ctx(ctx).Debug().Str("package", next.name).Msg("package is not installed")
			continue
		}
		visited[next.name] = true
		pkg, err := a.Manifests.ReadManifest(path)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("package", next.name).Msg("skipping package with unreadable manifest")
			continue
		}
		found[next.name] = path
		enqueue(shared.SortedKeys(pkg.Dependencies), path)
	}
	return found, nil
}

func (a InstallTreeAdapter) Locate(name string, root string, fromDir string) (string, bool) {
	candidates := []string{filepath.Join(root, nodeModules, name)}
	if fromDir != "" && fromDir != root {
		candidates = append(candidates, filepath.Join(fromDir, nodeModules, name))
	}
	for _, candidate := range candidates {
		if shared.IsDir(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (a InstallTreeAdapter) Resolve(name string, fromDir string, root string) (string, bool) {
	root = filepath.Clean(root)
	dir := filepath.Clean(fromDir)
	for {
		candidate := filepath.Join(dir, nodeModules, name)
		if shared.IsDir(candidate) {
			if real, err := filepath.EvalSymlinks(candidate); err == nil {
				return real, true
			}
			return candidate, true
		}
		if dir == root {
			return "", false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

var _ ports.InstallTreePort = InstallTreeAdapter{}
