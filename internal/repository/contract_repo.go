package repository

import (
	"context"

	"careboard/internal/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// ByBranch returns every contract of a branch ordered by contract number.
func (r *ContractRepository) ByBranch(ctx context.Context, branch string) ([]domain.Contract, error) {
	var contracts []domain.Contract
	if err := r.db.WithContext(ctx).
		Where("branch = ?", branch).
		Order("contract_number ASC").
		Find(&contracts).Error; err != nil {
		return nil, errors.Wrapf(err, "contracts for branch %q", branch)
	}
	return contracts, nil
}
