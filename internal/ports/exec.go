package ports

import "context"

type HookRunnerPort interface {
	Run(ctx context.Context, dir string, command string) error
}

type PackageInstallerPort interface {
	Install(ctx context.Context, root string, pins map[string]string) error
}
