package types

import "encoding/json"

// Manifest is the subset of a package.json the tool reads. The native
// configuration block is already normalized: the modern "react-native"
// key and the legacy "rnpm" key both end up in Native and User.
type Manifest struct {
	Name             string
	Version          string
	Dependencies     map[string]string
	DevDependencies  map[string]string
	PeerDependencies map[string]string
	Native           NativeConfig
	User             UserConfig
}

// NativeConfig is what a package declares about its own native code.
type NativeConfig struct {
	Platforms         map[string]json.RawMessage
	Assets            []string
	Hooks             map[string]string
	Params            []Param
	ProvidesPlatforms []string
	// LegacyPlatform is set when the legacy block points at a platform
	// integration module.
	LegacyPlatform string
}

// IsPlatformPackage reports whether the package contributes platform
// integrations rather than native code to be linked.
func (n NativeConfig) IsPlatformPackage() bool {
	return len(n.ProvidesPlatforms) > 0 || n.LegacyPlatform != ""
}

// UserConfig is the configuration the project root declares about itself.
type UserConfig struct {
	Project      map[string]json.RawMessage
	Dependencies map[string]DependencyOverride
	Assets       []string
	Ignore       []string
}

type DependencyOverride struct {
	Root      string                     `json:"root,omitempty"`
	Platforms map[string]json.RawMessage `json:"platforms,omitempty"`
	Assets    []string                   `json:"assets,omitempty"`
	Hooks     map[string]string          `json:"hooks,omitempty"`
	Params    []Param                    `json:"params,omitempty"`
}

type Param struct {
	Type    ParamType `json:"type,omitempty" yaml:"type,omitempty"`
	Name    string    `json:"name" yaml:"name"`
	Message string    `json:"message,omitempty" yaml:"message,omitempty"`
	Default any       `json:"default,omitempty" yaml:"default,omitempty"`
	Choices []string  `json:"choices,omitempty" yaml:"choices,omitempty"`
}

// ParamValue is a collected answer for a Param.
type ParamValue struct {
	Name  string
	Value string
}
