package types

// ProjectConfig is a platform-specific description of the host app.
type ProjectConfig interface {
	Platform() PlatformName
}

// DependencyConfig is a platform-specific description of a package's
// native module.
type DependencyConfig interface {
	Platform() PlatformName
}

// Dependency is the resolved view of one installed package. A nil entry
// in Platforms means the package has no native code for that platform.
type Dependency struct {
	Name      string                            `json:"name" yaml:"name"`
	Root      string                            `json:"root" yaml:"root"`
	Platforms map[PlatformName]DependencyConfig `json:"platforms" yaml:"platforms"`
	Assets    []string                          `json:"assets" yaml:"assets"`
	Hooks     map[string]string                 `json:"hooks" yaml:"hooks"`
	Params    []Param                           `json:"params" yaml:"params"`
}

// Hook returns the command registered for a lifecycle hook.
func (d Dependency) Hook(name HookName) (string, bool) {
	cmd, ok := d.Hooks[string(name)]
	if !ok || cmd == "" {
		return "", false
	}
	return cmd, true
}
