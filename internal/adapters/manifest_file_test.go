package adapters

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rnlink/internal/types"
)

func TestManifestFileAdapterReadsModernBlock(t *testing.T) {
	dir := t.TempDir()
	writePackage(t, dir, map[string]any{
		"name":             "react-native-foo",
		"version":          "1.2.3",
		"dependencies":     map[string]string{"lodash": "^4.0.0"},
		"peerDependencies": map[string]string{"react-native-bar": ">=2.0.0"},
		"react-native": map[string]any{
			"dependency": map[string]any{
				"platforms": map[string]any{"ios": nil, "android": map[string]any{"packageInstance": "new Foo()"}},
				"assets":    []string{"./fonts"},
				"hooks":     map[string]string{"postlink": "echo linked"},
				"params":    []map[string]any{{"name": "apiKey", "type": "input", "message": "API key"}},
			},
		},
	})

	manifest, err := NewManifestFileAdapter().ReadManifest(dir)
	require.NoError(t, err)

	assert.Equal(t, "react-native-foo", manifest.Name)
	assert.Equal(t, "1.2.3", manifest.Version)
	assert.Equal(t, map[string]string{"react-native-bar": ">=2.0.0"}, manifest.PeerDependencies)
	assert.Equal(t, map[string]string{}, manifest.DevDependencies)
	assert.Equal(t, []string{"./fonts"}, manifest.Native.Assets)
	assert.Equal(t, map[string]string{"postlink": "echo linked"}, manifest.Native.Hooks)
	assert.JSONEq(t, `{"packageInstance":"new Foo()"}`, string(manifest.Native.Platforms["android"]))
	assert.Equal(t, "null", string(manifest.Native.Platforms["ios"]))
	want := []types.Param{{Name: "apiKey", Type: types.ParamTypeInput, Message: "API key"}}
	if diff := cmp.Diff(want, manifest.Native.Params); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, manifest.Native.IsPlatformPackage())
}

func TestManifestFileAdapterReadsLegacyBlock(t *testing.T) {
	dir := t.TempDir()
	writePackage(t, dir, map[string]any{
		"name": "app",
		"rnpm": map[string]any{
			"android":  map[string]any{"sourceDir": "./native"},
			"assets":   []string{"./assets/fonts"},
			"commands": map[string]string{"prelink": "echo pre"},
		},
		"react-native": map[string]any{
			"dependency": map[string]any{
				"hooks": map[string]string{"prelink": "echo modern"},
			},
		},
	})

	manifest, err := NewManifestFileAdapter().ReadManifest(dir)
	require.NoError(t, err)

	assert.JSONEq(t, `{"sourceDir":"./native"}`, string(manifest.Native.Platforms["android"]))
	assert.JSONEq(t, `{"sourceDir":"./native"}`, string(manifest.User.Project["android"]))
	assert.Equal(t, []string{"./assets/fonts"}, manifest.User.Assets)
	assert.Equal(t, "echo modern", manifest.Native.Hooks["prelink"])
}

func TestManifestFileAdapterReadsProjectConfig(t *testing.T) {
	dir := t.TempDir()
	writePackage(t, dir, map[string]any{
		"name": "app",
		"react-native": map[string]any{
			"project": map[string]any{"ios": map[string]any{"project": "ios/App.xcodeproj"}},
			"dependencies": map[string]any{
				"react-native-foo": map[string]any{
					"root":      "./vendor/foo",
					"platforms": map[string]any{"ios": nil},
				},
			},
			"assets": []string{"./assets"},
			"ignore": []string{"react-native-internal-*"},
		},
	})

	manifest, err := NewManifestFileAdapter().ReadManifest(dir)
	require.NoError(t, err)

	override := manifest.User.Dependencies["react-native-foo"]
	assert.Equal(t, "./vendor/foo", override.Root)
	assert.Equal(t, json.RawMessage("null"), override.Platforms["ios"])
	assert.Equal(t, []string{"./assets"}, manifest.User.Assets)
	assert.Equal(t, []string{"react-native-internal-*"}, manifest.User.Ignore)
	assert.JSONEq(t, `{"project":"ios/App.xcodeproj"}`, string(manifest.User.Project["ios"]))
}

func TestManifestFileAdapterPlatformPackage(t *testing.T) {
	dir := t.TempDir()
	writePackage(t, dir, map[string]any{
		"name": "react-native-windows",
		"react-native": map[string]any{
			"platforms": map[string]any{"windows": map[string]any{"npmPackageName": "react-native-windows"}},
		},
	})

	manifest, err := NewManifestFileAdapter().ReadManifest(dir)
	require.NoError(t, err)
	assert.True(t, manifest.Native.IsPlatformPackage())
	assert.Equal(t, []string{"windows"}, manifest.Native.ProvidesPlatforms)
}

func TestManifestFileAdapterErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode errbuilder.ErrCode
	}{
		{name: "malformed json", content: `{"name": `, wantCode: errbuilder.CodeInvalidArgument},
		{name: "assets not an array", content: `{"name":"x","react-native":{"assets":"fonts"}}`, wantCode: errbuilder.CodeInvalidArgument},
		{name: "param without name", content: `{"name":"x","react-native":{"dependency":{"params":[{"type":"input"}]}}}`, wantCode: errbuilder.CodeInvalidArgument},
		{name: "unknown param type", content: `{"name":"x","rnpm":{"params":[{"name":"a","type":"slider"}]}}`, wantCode: errbuilder.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(tt.content), 0o644))

			_, err := NewManifestFileAdapter().ReadManifest(dir)
			require.Error(t, err)
			if diff := cmp.Diff(tt.wantCode, errbuilder.CodeOf(err)); diff != "" {
				t.Fatalf("unexpected error code (-want +got):\n%s", diff)
			}
		})
	}
}

func TestManifestFileAdapterMissing(t *testing.T) {
	_, err := NewManifestFileAdapter().ReadManifest(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
