// Package ios resolves Xcode project configuration and links native
// modules by editing project.pbxproj.
package ios

import (
	"encoding/json"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rnlink/internal/ports"
	"rnlink/internal/types"
)

// Platform implements config resolution, linking and asset copying for
// iOS projects.
type Platform struct{}

func New() *Platform {
	return &Platform{}
}

// Name returns the key the platform is configured under in package.json.
func (*Platform) Name() types.PlatformName {
	return types.PlatformIOS
}

type userParams struct {
	Project         string   `json:"project"`
	SharedLibraries []string `json:"sharedLibraries"`
	LibraryFolder   string   `json:"libraryFolder"`
	Plist           []string `json:"plist"`
}

func decodeParams(raw json.RawMessage) (userParams, error) {
	params := userParams{}
	if len(raw) == 0 || string(raw) == "null" {
		return params, nil
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return params, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid ios configuration").
			WithCause(err)
	}
	return params, nil
}

func config(value any) (*types.IOSConfig, error) {
	cfg, ok := value.(*types.IOSConfig)
	if !ok || cfg == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("ios configuration is required")
	}
	return cfg, nil
}

var (
	_ ports.PlatformPort     = (*Platform)(nil)
	_ ports.NativeLinkerPort = (*Platform)(nil)
	_ ports.AssetLinkerPort  = (*Platform)(nil)
)
