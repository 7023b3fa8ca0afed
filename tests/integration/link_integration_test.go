package integration

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rnlink/internal/adapters"
	"rnlink/internal/app"
	"rnlink/tests/testutil"
)

func newService(t *testing.T) app.Service {
	t.Helper()
	service := app.NewService()
	service.Prompter = adapters.NewTerminalPromptAdapterWithIO(strings.NewReader(""), io.Discard)
	service.Hooks = adapters.ExecHookAdapter{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	service.Progress = adapters.NoopProgress{}
	return service
}

// TestLinkUnlinkRoundTrip links a native module into both platforms of a
// host app with the real platform resolvers and then removes it again.
func TestLinkUnlinkRoundTrip(t *testing.T) {
	nativeApp := testutil.WriteNativeApp(t)
	service := newService(t)
	androidFiles := []string{nativeApp.SettingsGradle, nativeApp.AppBuildGradle, nativeApp.MainApplication}
	before := testutil.ReadFiles(t, androidFiles...)
	plistBefore := testutil.ReadFiles(t, nativeApp.InfoPlist)
	pbxBefore := testutil.ReadFiles(t, nativeApp.Pbxproj)

	result, err := service.Link(t.Context(), app.LinkRequest{Root: nativeApp.Root, Package: "react-native-foo@1.2.0"})
	require.NoError(t, err)
	assert.Equal(t, "react-native-foo@1.2.0", result.Package)

	linked := testutil.ReadFiles(t, append(androidFiles, nativeApp.Pbxproj)...)
	assert.Contains(t, linked[nativeApp.SettingsGradle], "include ':react-native-foo'")
	assert.Contains(t, linked[nativeApp.AppBuildGradle], "implementation project(':react-native-foo')")
	assert.Contains(t, linked[nativeApp.MainApplication], "new FooPackage()")
	assert.Contains(t, linked[nativeApp.Pbxproj], "RNFoo.xcodeproj")
	assert.Contains(t, linked[nativeApp.Pbxproj], "Brand.ttf")
	assert.FileExists(t, filepath.Join(nativeApp.AssetsDir, "fonts", "Brand.ttf"))
	assert.FileExists(t, filepath.Join(nativeApp.Root, "postlink.txt"), "postlink hook runs in the project root")

	// Linking again changes nothing.
	_, err = service.Link(t.Context(), app.LinkRequest{Root: nativeApp.Root, Package: "react-native-foo"})
	require.NoError(t, err)
	if diff := cmp.Diff(linked, testutil.ReadFiles(t, append(androidFiles, nativeApp.Pbxproj)...)); diff != "" {
		t.Fatalf("second link changed files (-want +got):\n%s", diff)
	}

	_, err = service.Unlink(t.Context(), app.UnlinkRequest{Root: nativeApp.Root, Package: "react-native-foo"})
	require.NoError(t, err)
	if diff := cmp.Diff(before, testutil.ReadFiles(t, androidFiles...)); diff != "" {
		t.Fatalf("unlink did not restore android files (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(plistBefore, testutil.ReadFiles(t, nativeApp.InfoPlist)); diff != "" {
		t.Fatalf("unlink did not restore Info.plist (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(pbxBefore, testutil.ReadFiles(t, nativeApp.Pbxproj)); diff != "" {
		t.Fatalf("unlink did not restore the Xcode project (-want +got):\n%s", diff)
	}
	assert.NoFileExists(t, filepath.Join(nativeApp.AssetsDir, "fonts", "Brand.ttf"))
}

func TestLinkSinglePlatform(t *testing.T) {
	nativeApp := testutil.WriteNativeApp(t)
	service := newService(t)
	pbxBefore := testutil.ReadFiles(t, nativeApp.Pbxproj)

	_, err := service.Link(t.Context(), app.LinkRequest{
		Root:      nativeApp.Root,
		Package:   "react-native-foo",
		Platforms: []string{"android"},
	})
	require.NoError(t, err)

	settings, err := os.ReadFile(nativeApp.SettingsGradle)
	require.NoError(t, err)
	assert.Contains(t, string(settings), "include ':react-native-foo'")
	if diff := cmp.Diff(pbxBefore, testutil.ReadFiles(t, nativeApp.Pbxproj)); diff != "" {
		t.Fatalf("ios project changed when linking android only (-want +got):\n%s", diff)
	}
}

func TestConfigReportsBothPlatforms(t *testing.T) {
	nativeApp := testutil.WriteNativeApp(t)

	result, err := newService(t).Config(t.Context(), app.ConfigRequest{Root: nativeApp.Root})
	require.NoError(t, err)

	dep, ok := result.Snapshot.Dependencies["react-native-foo"]
	require.True(t, ok)
	assert.NotNil(t, dep.Platforms["android"])
	assert.NotNil(t, dep.Platforms["ios"])
	assert.Equal(t, []string{filepath.Join(nativeApp.Root, "node_modules", "react-native-foo", "fonts", "Brand.ttf")}, dep.Assets)
}
