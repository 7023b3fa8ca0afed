package adapters

import (
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"rnlink/internal/ports"
	"rnlink/internal/types"
)

type PlanFileAdapter struct{}

func NewPlanFileAdapter() PlanFileAdapter {
	return PlanFileAdapter{}
}

type planFile struct {
	Install      map[string]string   `yaml:"install"`
	Unresolvable map[string][]string `yaml:"unresolvable,omitempty"`
	Peers        []types.PlannedPeer `yaml:"peers"`
}

func (a PlanFileAdapter) WritePlan(path string, plan types.InstallPlan) error {
	if path == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("plan output path is empty")
	}
	doc := planFile{
		Install: plan.Resolved(),
		Peers:   plan.Peers,
	}
	for _, peer := range plan.Unresolvable() {
		if doc.Unresolvable == nil {
			doc.Unresolvable = map[string][]string{}
		}
		doc.Unresolvable[peer.Name] = peer.Ranges
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode install plan").
			WithCause(err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create plan directory").
				WithCause(err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write install plan").
			WithCause(err)
	}
	return nil
}

var _ ports.PlanWriterPort = PlanFileAdapter{}
