package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServicePlanPeers(t *testing.T) {
	root := writeApp(t)
	fx := newServiceFixture()

	result, err := fx.service.PlanPeers(t.Context(), PeersRequest{
		Root:     root,
		Registry: " https://registry.example.com ",
		Output:   "peers.yaml",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://registry.example.com", fx.baseURL)
	assert.Equal(t, map[string]string{"native-svg": "13.1.2"}, result.Plan.Resolved())
	assert.Equal(t, "peers.yaml", result.PlanPath)
	assert.Equal(t, "peers.yaml", fx.writer.path)
	assert.Equal(t, result.Plan, fx.writer.plan)
	assert.Nil(t, fx.installer.pins, "planning never installs")
}

func TestServicePeersInstallsAfterConfirmation(t *testing.T) {
	root := writeApp(t)
	fx := newServiceFixture()

	result, err := fx.service.Peers(t.Context(), PeersRequest{Root: root, PackageManager: "yarn"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Install 1 peer dependencies?"}, fx.prompter.confirmed)
	assert.Equal(t, "yarn", fx.installer.manager)
	assert.Equal(t, root, fx.installer.root)
	assert.Equal(t, map[string]string{"native-svg": "13.1.2"}, fx.installer.pins)
	assert.Equal(t, fx.installer.pins, result.Installed)
	assert.Empty(t, fx.writer.path)
}

func TestServicePeersSkipsInstall(t *testing.T) {
	tests := []struct {
		name         string
		req          PeersRequest
		confirm      bool
		wantDeclined bool
		wantAsked    bool
	}{
		{name: "dry run", req: PeersRequest{DryRun: true}},
		{name: "declined", confirm: false, wantDeclined: true, wantAsked: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeApp(t)
			fx := newServiceFixture()
			fx.prompter.confirm = tt.confirm
			tt.req.Root = root

			result, err := fx.service.Peers(t.Context(), tt.req)
			require.NoError(t, err)
			assert.Nil(t, fx.installer.pins)
			assert.Nil(t, result.Installed)
			assert.Equal(t, tt.wantDeclined, result.Declined)
			assert.Equal(t, tt.wantAsked, len(fx.prompter.confirmed) == 1)
		})
	}
}

func TestServicePeersYesSkipsPrompt(t *testing.T) {
	root := writeApp(t)
	fx := newServiceFixture()
	fx.prompter.confirm = false

	result, err := fx.service.Peers(t.Context(), PeersRequest{Root: root, Yes: true})
	require.NoError(t, err)
	assert.Empty(t, fx.prompter.confirmed)
	assert.Equal(t, map[string]string{"native-svg": "13.1.2"}, result.Installed)
}

func TestServicePeersNothingResolvable(t *testing.T) {
	root := writeApp(t)
	fx := newServiceFixture()
	fx.registry.versions = map[string][]string{"native-svg": {"12.0.0", "14.0.0"}}

	result, err := fx.service.Peers(t.Context(), PeersRequest{Root: root})
	require.NoError(t, err)
	require.Len(t, result.Plan.Unresolvable(), 1)
	assert.Equal(t, "native-svg", result.Plan.Unresolvable()[0].Name)
	assert.Empty(t, fx.prompter.confirmed)
	assert.Nil(t, fx.installer.pins)
}
