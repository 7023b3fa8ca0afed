package ports

import "context"

type RegistryPort interface {
	Versions(ctx context.Context, name string) ([]string, error)
}
