package ports

import (
	"encoding/json"

	"rnlink/internal/types"
)

// PlatformPort resolves configuration for one target platform. Params is
// the raw platform block from a manifest and may be empty.
type PlatformPort interface {
	Name() types.PlatformName
	ProjectConfig(root string, params json.RawMessage) (types.ProjectConfig, error)
	DependencyConfig(root string, params json.RawMessage) (types.DependencyConfig, error)
}

// NativeLinkerPort is implemented by platforms that can wire native
// modules into the host project.
type NativeLinkerPort interface {
	IsInstalled(project types.ProjectConfig, name string, dep types.DependencyConfig) (bool, error)
	Register(name string, dep types.DependencyConfig, params []types.ParamValue, project types.ProjectConfig) error
	Unregister(name string, dep types.DependencyConfig, project types.ProjectConfig, others []types.DependencyConfig) error
}

// AssetLinkerPort is implemented by platforms that can ship static assets.
type AssetLinkerPort interface {
	CopyAssets(files []string, project types.ProjectConfig) error
	RemoveAssets(files []string, project types.ProjectConfig) error
}
