package e2e

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rnlink/tests/testutil"
)

func runCLI(t *testing.T, args ...string) ([]byte, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "./cmd/rnlink"}, args...)...)
	cmd.Dir = testutil.RepoRoot(t)
	cmd.Env = append(os.Environ(), "GO111MODULE=on", "RNLINK_LOG_LEVEL=error")
	return cmd.Output()
}

func TestConfigCommandE2E(t *testing.T) {
	nativeApp := testutil.WriteNativeApp(t)

	out, err := runCLI(t, "config", "--root", nativeApp.Root)
	require.NoError(t, err, string(out))

	var snapshot struct {
		Name         string                     `json:"name"`
		Platforms    []string                   `json:"platforms"`
		Dependencies map[string]json.RawMessage `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(out, &snapshot))
	assert.Equal(t, "app", snapshot.Name)
	assert.Equal(t, []string{"android", "ios"}, snapshot.Platforms)
	assert.Contains(t, snapshot.Dependencies, "react-native-foo")
}

func TestLinkCommandE2E(t *testing.T) {
	nativeApp := testutil.WriteNativeApp(t)

	out, err := runCLI(t, "link", "react-native-foo", "--platforms", "android", "--root", nativeApp.Root)
	require.NoError(t, err, string(out))
	assert.Contains(t, string(out), "Linked react-native-foo for android")

	settings, err := os.ReadFile(nativeApp.SettingsGradle)
	require.NoError(t, err)
	assert.Contains(t, string(settings), "include ':react-native-foo'")
	assert.FileExists(t, filepath.Join(nativeApp.AssetsDir, "fonts", "Brand.ttf"))
}

func TestUnknownDependencyExitCodeE2E(t *testing.T) {
	nativeApp := testutil.WriteNativeApp(t)

	_, err := runCLI(t, "unlink", "react-native-missing", "--root", nativeApp.Root)
	require.Error(t, err)
	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.ExitCode(), "go run reports a failing program with exit status 1")
}
