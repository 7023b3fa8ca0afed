package app

import (
	"rnlink/internal/core"
	"rnlink/internal/types"
)

type ConfigRequest struct {
	Root string
}

type ConfigResult struct {
	Snapshot core.Snapshot
}

type LinkRequest struct {
	Root      string
	Package   string
	Platforms []string
	All       bool
}

type LinkResult struct {
	Root      string
	Package   string
	Platforms []types.PlatformName
}

type UnlinkRequest struct {
	Root      string
	Package   string
	Platforms []string
}

type UnlinkResult struct {
	Root      string
	Package   string
	Platforms []types.PlatformName
}

type PeersRequest struct {
	Root           string
	Registry       string
	TimeoutSec     int
	Retries        int
	RetryDelayMs   int
	Yes            bool
	DryRun         bool
	Output         string
	PackageManager string
}

type PeersResult struct {
	Root      string
	Plan      types.InstallPlan
	PlanPath  string
	Installed map[string]string
	Declined  bool
}
