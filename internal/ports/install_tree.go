package ports

import "context"

type InstallTreePort interface {
	// Discover returns every installed package reachable from the root
	// manifest, keyed by name, with the first-found install path.
	Discover(ctx context.Context, root string) (map[string]string, error)
	// Locate finds the install of name used for linking: the top-level
	// install first, then one nested under fromDir.
	Locate(name string, root string, fromDir string) (string, bool)
	// Resolve finds name using node module resolution starting at fromDir
	// and never leaving root. The returned path has symlinks evaluated.
	Resolve(name string, fromDir string, root string) (string, bool)
}
