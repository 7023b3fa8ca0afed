package ports

import "rnlink/internal/types"

type ManifestPort interface {
	ReadManifest(dir string) (types.Manifest, error)
}
