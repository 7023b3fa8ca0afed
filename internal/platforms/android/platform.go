// Package android resolves Android project and dependency configuration
// and links native modules into Gradle builds through text patches.
package android

import (
	"encoding/json"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rnlink/internal/ports"
	"rnlink/internal/types"
)

// Platform implements config resolution, linking and asset copying for
// Android projects.
type Platform struct{}

func New() *Platform {
	return &Platform{}
}

// Name returns the key the platform is configured under in package.json.
func (*Platform) Name() types.PlatformName {
	return types.PlatformAndroid
}

// userParams is the android block a manifest may declare. Every field
// overrides the value found by scanning the native sources.
type userParams struct {
	SourceDir          string `json:"sourceDir"`
	ManifestPath       string `json:"manifestPath"`
	PackageName        string `json:"packageName"`
	PackageImportPath  string `json:"packageImportPath"`
	PackageInstance    string `json:"packageInstance"`
	BuildGradlePath    string `json:"buildGradlePath"`
	SettingsGradlePath string `json:"settingsGradlePath"`
	StringsPath        string `json:"stringsPath"`
	MainFilePath       string `json:"mainFilePath"`
	AssetsPath         string `json:"assetsPath"`
}

func decodeParams(raw json.RawMessage) (userParams, error) {
	params := userParams{}
	if len(raw) == 0 || string(raw) == "null" {
		return params, nil
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return params, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid android configuration").
			WithCause(err)
	}
	return params, nil
}

func projectConfig(project types.ProjectConfig) (*types.AndroidProjectConfig, error) {
	cfg, ok := project.(*types.AndroidProjectConfig)
	if !ok || cfg == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("android project configuration is required")
	}
	return cfg, nil
}

func dependencyConfig(dep types.DependencyConfig) (*types.AndroidDependencyConfig, error) {
	cfg, ok := dep.(*types.AndroidDependencyConfig)
	if !ok || cfg == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("android dependency configuration is required")
	}
	return cfg, nil
}

var (
	_ ports.PlatformPort     = (*Platform)(nil)
	_ ports.NativeLinkerPort = (*Platform)(nil)
	_ ports.AssetLinkerPort  = (*Platform)(nil)
)
