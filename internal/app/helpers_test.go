package app

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

func mkdirs(t *testing.T, dirs ...string) {
	t.Helper()
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
}

// writeApp creates a project with android/ios folders, one native module
// (camera) peering on native-svg, and one js-only package.
func writeApp(t *testing.T) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	modules := filepath.Join(root, "node_modules")
	writePackage(t, root, map[string]any{
		"name":         "app",
		"version":      "1.0.0",
		"dependencies": map[string]string{"react-native-camera": "^4.0.0", "lodash": "^4.0.0"},
	})
	mkdirs(t, filepath.Join(root, "android"), filepath.Join(root, "ios"))
	writePackage(t, filepath.Join(modules, "react-native-camera"), map[string]any{
		"name":             "react-native-camera",
		"version":          "4.2.0",
		"peerDependencies": map[string]string{"native-svg": "^13.0.0"},
	})
	mkdirs(t, filepath.Join(modules, "react-native-camera", "android"))
	writePackage(t, filepath.Join(modules, "lodash"), map[string]any{"name": "lodash", "version": "4.17.21"})
	writePackage(t, filepath.Join(modules, "native-svg"), map[string]any{"name": "native-svg", "version": "12.0.0"})
	mkdirs(t, filepath.Join(modules, "native-svg", "ios"))
	return root
}

// stubPlatform resolves a config whenever "<root>/<platform>" exists and
// records registrations.
type stubPlatform struct {
	name       types.PlatformName
	installed  map[string]bool
	registered []string
	removed    []string
}

func newStubPlatform(name types.PlatformName) *stubPlatform {
	return &stubPlatform{name: name, installed: map[string]bool{}}
}

func (p *stubPlatform) Name() types.PlatformName {
	return p.name
}

func (p *stubPlatform) ProjectConfig(root string, _ json.RawMessage) (types.ProjectConfig, error) {
	dir := filepath.Join(root, string(p.name))
	if !shared.IsDir(dir) {
		return nil, nil
	}
	if p.name == types.PlatformIOS {
		return &types.IOSConfig{SourceDir: dir, Folder: root}, nil
	}
	return &types.AndroidProjectConfig{SourceDir: dir, Folder: root}, nil
}

func (p *stubPlatform) DependencyConfig(root string, _ json.RawMessage) (types.DependencyConfig, error) {
	dir := filepath.Join(root, string(p.name))
	if !shared.IsDir(dir) {
		return nil, nil
	}
	if p.name == types.PlatformIOS {
		return &types.IOSConfig{SourceDir: dir, Folder: root}, nil
	}
	return &types.AndroidDependencyConfig{SourceDir: dir, Folder: root, PackageName: "com.example"}, nil
}

func (p *stubPlatform) IsInstalled(_ types.ProjectConfig, name string, _ types.DependencyConfig) (bool, error) {
	return p.installed[name], nil
}

func (p *stubPlatform) Register(name string, _ types.DependencyConfig, _ []types.ParamValue, _ types.ProjectConfig) error {
	p.installed[name] = true
	p.registered = append(p.registered, name)
	return nil
}

func (p *stubPlatform) Unregister(name string, _ types.DependencyConfig, _ types.ProjectConfig, _ []types.DependencyConfig) error {
	delete(p.installed, name)
	p.removed = append(p.removed, name)
	return nil
}

type stubPrompter struct {
	confirm   bool
	confirmed []string
}

func (p *stubPrompter) Ask(_ context.Context, params []types.Param) ([]types.ParamValue, error) {
	out := []types.ParamValue{}
	for _, param := range params {
		out = append(out, types.ParamValue{Name: param.Name})
	}
	return out, nil
}

func (p *stubPrompter) Confirm(_ context.Context, message string) (bool, error) {
	p.confirmed = append(p.confirmed, message)
	return p.confirm, nil
}

type stubHooks struct {
	commands []string
}

func (h *stubHooks) Run(_ context.Context, _ string, command string) error {
	h.commands = append(h.commands, command)
	return nil
}

type stubRegistry struct {
	mu       sync.Mutex
	versions map[string][]string
}

func (r *stubRegistry) Versions(_ context.Context, name string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	versions, ok := r.versions[name]
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package " + name + " not found in registry")
	}
	return versions, nil
}

type stubInstaller struct {
	manager string
	root    string
	pins    map[string]string
}

func (i *stubInstaller) Install(_ context.Context, root string, pins map[string]string) error {
	i.root = root
	i.pins = pins
	return nil
}

type stubPlanWriter struct {
	path string
	plan types.InstallPlan
}

func (w *stubPlanWriter) WritePlan(path string, plan types.InstallPlan) error {
	w.path = path
	w.plan = plan
	return nil
}

type serviceFixture struct {
	service   Service
	android   *stubPlatform
	ios       *stubPlatform
	prompter  *stubPrompter
	hooks     *stubHooks
	registry  *stubRegistry
	installer *stubInstaller
	writer    *stubPlanWriter
	baseURL   string
}

func newServiceFixture() *serviceFixture {
	fx := &serviceFixture{
		android:   newStubPlatform(types.PlatformAndroid),
		ios:       newStubPlatform(types.PlatformIOS),
		prompter:  &stubPrompter{confirm: true},
		hooks:     &stubHooks{},
		registry:  &stubRegistry{versions: map[string][]string{"native-svg": {"12.0.0", "13.0.0", "13.1.2", "14.0.0"}}},
		installer: &stubInstaller{},
		writer:    &stubPlanWriter{},
	}
	manifests := adapters.NewManifestFileAdapter()
	fx.service = Service{
		Manifests:  manifests,
		Tree:       adapters.NewInstallTreeAdapter(manifests),
		Platforms:  []ports.PlatformPort{fx.android, fx.ios},
		Prompter:   fx.prompter,
		Hooks:      fx.hooks,
		Progress:   adapters.NoopProgress{},
		PlanWriter: fx.writer,
		NewRegistry: func(baseURL string, _ int, _ int, _ int) ports.RegistryPort {
			fx.baseURL = baseURL
			return fx.registry
		},
		NewInstaller: func(packageManager string) ports.PackageInstallerPort {
			fx.installer.manager = packageManager
			return fx.installer
		},
	}
	return fx
}
