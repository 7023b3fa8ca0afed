package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/require"

	"rnlink/internal/adapters"
	"rnlink/internal/ports"
	"rnlink/internal/shared"
	"rnlink/internal/types"
)

func writePackage(t *testing.T, dir string, manifest map[string]any) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	data, err := json.Marshal(manifest)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), data, 0o644))
}

// addRootDependency declares name in the project manifest at root.
func addRootDependency(t *testing.T, root string, name string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	require.NoError(t, err)
	var manifest map[string]any
	require.NoError(t, json.Unmarshal(data, &manifest))
	deps, _ := manifest["dependencies"].(map[string]any)
	if deps == nil {
		deps = map[string]any{}
	}
	deps[name] = "*"
	manifest["dependencies"] = deps
	writePackage(t, root, manifest)
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func mkdirs(t *testing.T, dirs ...string) {
	t.Helper()
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
}

// fakePlatform treats a "<platform>" folder in a package as native code
// and records every link operation.
type fakePlatform struct {
	name types.PlatformName

	projectCalls    int
	dependencyCalls int
	installed       map[string]bool
	registered      []string
	unregistered    []string
	others          map[string]int
	params          map[string][]types.ParamValue
	copied          []string
	removed         []string
	registerErr     error
}

func newFakePlatform(name types.PlatformName) *fakePlatform {
	return &fakePlatform{
		name:      name,
		installed: map[string]bool{},
		others:    map[string]int{},
		params:    map[string][]types.ParamValue{},
	}
}

type fakeParams struct {
	SourceDir string `json:"sourceDir"`
}

func (f *fakePlatform) Name() types.PlatformName {
	return f.name
}

func (f *fakePlatform) decode(root string, raw json.RawMessage) (string, error) {
	params := fakeParams{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid fake configuration").
				WithCause(err)
		}
	}
	if params.SourceDir == "" {
		params.SourceDir = string(f.name)
	}
	return filepath.Join(root, params.SourceDir), nil
}

func (f *fakePlatform) ProjectConfig(root string, raw json.RawMessage) (types.ProjectConfig, error) {
	f.projectCalls++
	dir, err := f.decode(root, raw)
	if err != nil || !shared.IsDir(dir) {
		return nil, err
	}
	if f.name == types.PlatformIOS {
		return &types.IOSConfig{SourceDir: dir, Folder: root}, nil
	}
	return &types.AndroidProjectConfig{SourceDir: dir, Folder: root, AssetsPath: filepath.Join(dir, "assets")}, nil
}

func (f *fakePlatform) DependencyConfig(root string, raw json.RawMessage) (types.DependencyConfig, error) {
	f.dependencyCalls++
	dir, err := f.decode(root, raw)
	if err != nil || !shared.IsDir(dir) {
		return nil, err
	}
	base := filepath.Base(root)
	if f.name == types.PlatformIOS {
		return &types.IOSConfig{SourceDir: dir, Folder: root, ProjectName: base + ".xcodeproj", SharedLibraries: []string{"libz.tbd"}}, nil
	}
	return &types.AndroidDependencyConfig{SourceDir: dir, Folder: root, PackageName: "com." + base, PackageInstance: "new Package()"}, nil
}

func (f *fakePlatform) IsInstalled(_ types.ProjectConfig, name string, _ types.DependencyConfig) (bool, error) {
	return f.installed[name], nil
}

func (f *fakePlatform) Register(name string, _ types.DependencyConfig, params []types.ParamValue, _ types.ProjectConfig) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.installed[name] = true
	f.registered = append(f.registered, name)
	f.params[name] = params
	return nil
}

func (f *fakePlatform) Unregister(name string, _ types.DependencyConfig, _ types.ProjectConfig, others []types.DependencyConfig) error {
	delete(f.installed, name)
	f.unregistered = append(f.unregistered, name)
	f.others[name] = len(others)
	return nil
}

func (f *fakePlatform) CopyAssets(files []string, _ types.ProjectConfig) error {
	f.copied = append(f.copied, files...)
	return nil
}

func (f *fakePlatform) RemoveAssets(files []string, _ types.ProjectConfig) error {
	f.removed = append(f.removed, files...)
	return nil
}

// configOnlyPlatform resolves configuration but cannot link.
type configOnlyPlatform struct {
	inner *fakePlatform
}

func (p configOnlyPlatform) Name() types.PlatformName {
	return p.inner.Name()
}

func (p configOnlyPlatform) ProjectConfig(root string, raw json.RawMessage) (types.ProjectConfig, error) {
	return p.inner.ProjectConfig(root, raw)
}

func (p configOnlyPlatform) DependencyConfig(root string, raw json.RawMessage) (types.DependencyConfig, error) {
	return p.inner.DependencyConfig(root, raw)
}

type recordingHooks struct {
	dirs     []string
	commands []string
	err      error
}

func (h *recordingHooks) Run(_ context.Context, dir string, command string) error {
	h.dirs = append(h.dirs, dir)
	h.commands = append(h.commands, command)
	return h.err
}

type staticPrompter struct {
	answers map[string]string
	asked   [][]types.Param
}

func (p *staticPrompter) Ask(_ context.Context, params []types.Param) ([]types.ParamValue, error) {
	p.asked = append(p.asked, params)
	out := []types.ParamValue{}
	for _, param := range params {
		out = append(out, types.ParamValue{Name: param.Name, Value: p.answers[param.Name]})
	}
	return out, nil
}

func (p *staticPrompter) Confirm(context.Context, string) (bool, error) {
	return true, nil
}

type stubRegistry struct {
	mu       sync.Mutex
	versions map[string][]string
	errs     map[string]error
	calls    []string
}

func (r *stubRegistry) Versions(_ context.Context, name string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
	if err, ok := r.errs[name]; ok {
		return nil, err
	}
	versions, ok := r.versions[name]
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package " + name + " not found in registry")
	}
	return versions, nil
}

type countingProgress struct {
	mu       sync.Mutex
	total    int
	advanced []string
	finished bool
}

func (p *countingProgress) Start(_ string, total int) {
	p.total = total
}

func (p *countingProgress) Advance(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advanced = append(p.advanced, label)
}

func (p *countingProgress) Finish() {
	p.finished = true
}

func newTestResolver(platforms ...ports.PlatformPort) ConfigResolver {
	manifests := adapters.NewManifestFileAdapter()
	return NewConfigResolver(manifests, adapters.NewInstallTreeAdapter(manifests), platforms...)
}
