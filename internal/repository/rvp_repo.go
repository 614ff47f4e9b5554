package repository

import (
	"context"

	"careboard/internal/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type RVPRepository struct {
	db *gorm.DB
}

func NewRVPRepository(db *gorm.DB) *RVPRepository {
	return &RVPRepository{db: db}
}

func (r *RVPRepository) All(ctx context.Context) ([]domain.RVP, error) {
	var rvps []domain.RVP
	if err := r.db.WithContext(ctx).Order("email ASC").Find(&rvps).Error; err != nil {
		return nil, errors.Wrap(err, "list rvps")
	}
	return rvps, nil
}
