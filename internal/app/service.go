package app

import (
	"rnlink/internal/adapters"
	"rnlink/internal/platforms/android"
	"rnlink/internal/platforms/ios"
	"rnlink/internal/ports"
)

// RegistryFactory builds a registry client for one peers run.
type RegistryFactory func(baseURL string, timeoutSec int, retries int, retryDelayMs int) ports.RegistryPort

// InstallerFactory builds the package installer for a package manager name.
type InstallerFactory func(packageManager string) ports.PackageInstallerPort

type Service struct {
	Manifests    ports.ManifestPort
	Tree         ports.InstallTreePort
	Platforms    []ports.PlatformPort
	Prompter     ports.PrompterPort
	Hooks        ports.HookRunnerPort
	Progress     ports.ProgressPort
	PlanWriter   ports.PlanWriterPort
	NewRegistry  RegistryFactory
	NewInstaller InstallerFactory
}

func NewService() Service {
	manifests := adapters.NewManifestFileAdapter()
	return Service{
		Manifests:  manifests,
		Tree:       adapters.NewInstallTreeAdapter(manifests),
		Platforms:  []ports.PlatformPort{android.New(), ios.New()},
		Prompter:   adapters.NewTerminalPromptAdapter(),
		Hooks:      adapters.NewExecHookAdapter(),
		Progress:   adapters.NewProgressBarAdapter(),
		PlanWriter: adapters.NewPlanFileAdapter(),
		NewRegistry: func(baseURL string, timeoutSec int, retries int, retryDelayMs int) ports.RegistryPort {
			return adapters.NewNpmRegistryAdapter(baseURL, timeoutSec, retries, retryDelayMs)
		},
		NewInstaller: func(packageManager string) ports.PackageInstallerPort {
			return adapters.NewExecInstallerAdapter(packageManager)
		},
	}
}
