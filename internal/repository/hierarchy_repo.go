package repository

import (
	"context"

	"careboard/internal/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type HierarchyRepository struct {
	db *gorm.DB
}

func NewHierarchyRepository(db *gorm.DB) *HierarchyRepository {
	return &HierarchyRepository{db: db}
}

func (r *HierarchyRepository) Regions(ctx context.Context) ([]string, error) {
	var regions []string
	if err := r.db.WithContext(ctx).
		Model(&domain.Hierarchy{}).
		Distinct().
		Order("region ASC").
		Pluck("region", &regions).Error; err != nil {
		return nil, errors.Wrap(err, "list regions")
	}
	return regions, nil
}

func (r *HierarchyRepository) Branches(ctx context.Context, region string) ([]string, error) {
	var branches []string
	if err := r.db.WithContext(ctx).
		Model(&domain.Hierarchy{}).
		Where("region = ?", region).
		Distinct().
		Order("parent_branch ASC").
		Pluck("parent_branch", &branches).Error; err != nil {
		return nil, errors.Wrapf(err, "list branches for region %q", region)
	}
	return branches, nil
}

// BranchExists matches either the branch or the parent branch column, since
// the dashboard selects by parent branch and units carry the branch name.
func (r *HierarchyRepository) BranchExists(ctx context.Context, branch string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Hierarchy{}).
		Where("branch = ? OR parent_branch = ?", branch, branch).
		Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "check branch %q", branch)
	}
	return count > 0, nil
}

// BranchCode returns "" with no error when the branch is unknown.
func (r *HierarchyRepository) BranchCode(ctx context.Context, branch string) (string, error) {
	var h domain.Hierarchy
	err := r.db.WithContext(ctx).Where("branch = ?", branch).Limit(1).Find(&h).Error
	if err != nil {
		return "", errors.Wrapf(err, "branch code for %q", branch)
	}
	return h.BranchCode, nil
}

// RegionOfBranch returns the region a branch belongs to, "" when unknown.
func (r *HierarchyRepository) RegionOfBranch(ctx context.Context, branch string) (string, error) {
	var h domain.Hierarchy
	err := r.db.WithContext(ctx).
		Where("branch = ? OR parent_branch = ?", branch, branch).
		Limit(1).
		Find(&h).Error
	if err != nil {
		return "", errors.Wrapf(err, "region for branch %q", branch)
	}
	return h.Region, nil
}
