package ports

import (
	"context"

	"rnlink/internal/types"
)

type PrompterPort interface {
	Ask(ctx context.Context, params []types.Param) ([]types.ParamValue, error)
	Confirm(ctx context.Context, message string) (bool, error)
}

type ProgressPort interface {
	Start(description string, total int)
	Advance(label string)
	Finish()
}
