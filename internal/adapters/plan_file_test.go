package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"rnlink/internal/types"
)

func TestPlanFileAdapterWritePlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "peers.yaml")
	plan := types.InstallPlan{Peers: []types.PlannedPeer{
		{Name: "react-native-svg", Version: "13.4.0", Ranges: []string{">=12.0.0"}, RequiredBy: []string{"react-native-chart"}, Resolvable: true},
		{Name: "react-native-reanimated", Ranges: []string{"^2.0.0", "^3.0.0"}, RequiredBy: []string{"a", "b"}, Reason: "no version satisfies every range"},
	}}

	require.NoError(t, NewPlanFileAdapter().WritePlan(path, plan))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got planFile
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, map[string]string{"react-native-svg": "13.4.0"}, got.Install)
	assert.Equal(t, map[string][]string{"react-native-reanimated": {"^2.0.0", "^3.0.0"}}, got.Unresolvable)
	assert.Equal(t, plan.Peers, got.Peers)
}

func TestPlanFileAdapterEmptyPath(t *testing.T) {
	err := NewPlanFileAdapter().WritePlan("", types.InstallPlan{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
