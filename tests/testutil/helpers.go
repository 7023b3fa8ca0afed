// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"howett.net/plist"

	"rnlink/internal/pbxproj"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

func WriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func WriteManifest(t *testing.T, dir string, manifest map[string]any) {
	t.Helper()
	data, err := json.MarshalIndent(manifest, "", "  ")
	require.NoError(t, err)
	WriteFile(t, filepath.Join(dir, "package.json"), data)
}

// NativeApp describes the files of a project written by WriteNativeApp.
type NativeApp struct {
	Root            string
	SettingsGradle  string
	AppBuildGradle  string
	MainApplication string
	AssetsDir       string
	Pbxproj         string
	InfoPlist       string
}

const mainApplication = `package com.example.app;

import android.app.Application;
import com.facebook.react.ReactApplication;
import com.facebook.react.shell.MainReactPackage;

public class MainApplication extends Application implements ReactApplication {
  protected List<ReactPackage> getPackages() {
    return Arrays.<ReactPackage>asList(
        new MainReactPackage()
    );
  }
}
`

// WriteNativeApp lays out an Android and iOS host app plus one installed
// native module, react-native-foo, that ships both platforms and a font.
func WriteNativeApp(t *testing.T) NativeApp {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	repo := RepoRoot(t)

	WriteManifest(t, root, map[string]any{
		"name":         "app",
		"version":      "1.0.0",
		"dependencies": map[string]string{"react-native-foo": "^1.0.0"},
	})

	android := filepath.Join(root, "android")
	app := NativeApp{
		Root:            root,
		SettingsGradle:  filepath.Join(android, "settings.gradle"),
		AppBuildGradle:  filepath.Join(android, "app", "build.gradle"),
		MainApplication: filepath.Join(android, "app", "src", "main", "java", "com", "example", "app", "MainApplication.java"),
		AssetsDir:       filepath.Join(android, "app", "src", "main", "assets"),
		Pbxproj:         filepath.Join(root, "ios", "App.xcodeproj", "project.pbxproj"),
		InfoPlist:       filepath.Join(root, "ios", "App", "Info.plist"),
	}
	WriteFile(t, app.SettingsGradle, []byte("rootProject.name = 'App'\ninclude ':app'\n"))
	WriteFile(t, app.AppBuildGradle, []byte("apply plugin: \"com.android.application\"\n\ndependencies {\n    implementation \"com.facebook.react:react-native:+\"\n}\n"))
	WriteFile(t, filepath.Join(android, "app", "src", "main", "AndroidManifest.xml"),
		[]byte(`<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.app"></manifest>`))
	WriteFile(t, filepath.Join(android, "app", "src", "main", "res", "values", "strings.xml"),
		[]byte("<resources>\n    <string name=\"app_name\">App</string>\n</resources>\n"))
	WriteFile(t, app.MainApplication, []byte(mainApplication))

	appProject, err := os.ReadFile(filepath.Join(repo, "internal", "platforms", "ios", "testdata", "app.pbxproj"))
	require.NoError(t, err)
	parsed, err := pbxproj.Parse(appProject)
	require.NoError(t, err)
	WriteFile(t, app.Pbxproj, parsed.Bytes())
	infoPlist, err := plist.MarshalIndent(map[string]any{"CFBundleName": "App"}, plist.XMLFormat, "\t")
	require.NoError(t, err)
	WriteFile(t, app.InfoPlist, infoPlist)

	dep := filepath.Join(root, "node_modules", "react-native-foo")
	WriteManifest(t, dep, map[string]any{
		"name":    "react-native-foo",
		"version": "1.2.0",
		"react-native": map[string]any{
			"dependency": map[string]any{
				"assets": []string{"fonts"},
				"hooks":  map[string]string{"postlink": "echo linked > postlink.txt"},
			},
		},
	})
	WriteFile(t, filepath.Join(dep, "android", "build.gradle"), []byte("android {\n    namespace \"com.foo\"\n}\n"))
	WriteFile(t, filepath.Join(dep, "android", "src", "main", "AndroidManifest.xml"), []byte(`<manifest></manifest>`))
	WriteFile(t, filepath.Join(dep, "android", "src", "main", "java", "com", "foo", "FooPackage.java"),
		[]byte("package com.foo;\n\npublic class FooPackage implements ReactPackage {\n}\n"))
	libProject, err := os.ReadFile(filepath.Join(repo, "internal", "platforms", "ios", "testdata", "lib.pbxproj"))
	require.NoError(t, err)
	WriteFile(t, filepath.Join(dep, "ios", "RNFoo.xcodeproj", "project.pbxproj"), libProject)
	WriteFile(t, filepath.Join(dep, "ios", "RNFoo.h"), []byte("#import <React/RCTBridgeModule.h>\n"))
	WriteFile(t, filepath.Join(dep, "fonts", "Brand.ttf"), []byte("font"))
	return app
}

// ReadFiles returns the contents of paths keyed by path.
func ReadFiles(t *testing.T, paths ...string) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		out[path] = string(data)
	}
	return out
}
