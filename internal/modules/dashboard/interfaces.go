package dashboard

import (
	"context"

	"careboard/internal/domain"
)

// HierarchyRepository reads the region/branch tree.
type HierarchyRepository interface {
	Regions(ctx context.Context) ([]string, error)
	Branches(ctx context.Context, region string) ([]string, error)
	BranchExists(ctx context.Context, branch string) (bool, error)
	BranchCode(ctx context.Context, branch string) (string, error)
	RegionOfBranch(ctx context.Context, branch string) (string, error)
}

// UnitRepository returns joined unit rows for units without a CARE submission.
type UnitRepository interface {
	OpenUnitsByBranch(ctx context.Context, branch string) ([]domain.UnitRow, error)
	OpenUnit(ctx context.Context, unitID string) (*domain.UnitRow, error)
}

type ContractRepository interface {
	ByBranch(ctx context.Context, branch string) ([]domain.Contract, error)
}
