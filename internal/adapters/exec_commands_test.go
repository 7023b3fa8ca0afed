package adapters

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecInstallerAdapterCommand(t *testing.T) {
	pins := map[string]string{"react-native-svg": "13.0.0", "@scope/peer": "1.2.0"}
	tests := []struct {
		name     string
		manager  string
		yarnLock bool
		wantName string
		wantArgs []string
		wantErr  bool
		wantCode errbuilder.ErrCode
	}{
		{
			name:     "auto picks npm",
			manager:  PackageManagerAuto,
			wantName: "npm",
			wantArgs: []string{"install", "--save", "@scope/peer@1.2.0", "react-native-svg@13.0.0"},
		},
		{
			name:     "auto picks yarn with lockfile",
			manager:  "",
			yarnLock: true,
			wantName: "yarn",
			wantArgs: []string{"add", "@scope/peer@1.2.0", "react-native-svg@13.0.0"},
		},
		{
			name:     "explicit npm ignores lockfile",
			manager:  PackageManagerNpm,
			yarnLock: true,
			wantName: "npm",
			wantArgs: []string{"install", "--save", "@scope/peer@1.2.0", "react-native-svg@13.0.0"},
		},
		{
			name:     "unknown manager",
			manager:  "pnpm",
			wantErr:  true,
			wantCode: errbuilder.CodeInvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			if tt.yarnLock {
				require.NoError(t, os.WriteFile(filepath.Join(root, "yarn.lock"), nil, 0o644))
			}
			name, args, err := NewExecInstallerAdapter(tt.manager).command(root, pins)
			if tt.wantErr {
				require.Error(t, err)
				if diff := cmp.Diff(tt.wantCode, errbuilder.CodeOf(err)); diff != "" {
					t.Fatalf("unexpected error code (-want +got):\n%s", diff)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			if diff := cmp.Diff(tt.wantArgs, args); diff != "" {
				t.Fatalf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecInstallerAdapterNothingToInstall(t *testing.T) {
	require.NoError(t, NewExecInstallerAdapter("pnpm").Install(t.Context(), t.TempDir(), nil))
}

func TestExecHookAdapterRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("hooks run through sh")
	}
	dir := t.TempDir()
	var stdout bytes.Buffer
	adapter := ExecHookAdapter{Stdout: &stdout, Stderr: &bytes.Buffer{}}

	require.NoError(t, adapter.Run(t.Context(), dir, "echo linked > marker && echo done"))
	data, err := os.ReadFile(filepath.Join(dir, "marker"))
	require.NoError(t, err)
	assert.Equal(t, "linked\n", string(data))
	assert.Equal(t, "done\n", stdout.String())

	err = adapter.Run(t.Context(), dir, "exit 3")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
}
