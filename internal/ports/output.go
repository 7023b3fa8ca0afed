package ports

import "rnlink/internal/types"

type PlanWriterPort interface {
	WritePlan(path string, plan types.InstallPlan) error
}
