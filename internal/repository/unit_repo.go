package repository

import (
	"context"

	"careboard/internal/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UnitRepository struct {
	db *gorm.DB
}

func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

const unitRowSelect = `
	uos.branch AS branch,
	uos.serial_number AS unit_id,
	uos.building_address AS address,
	uos.building_salesperson AS salesperson,
	uos.out_of_service_date AS out_of_service_date,
	uos.route AS route,
	uos.care_submission AS care_submission,
	cu.contract_number AS contract_number,
	cu.controller_name AS controller_name,
	cc.customer AS customer,
	cc.expiration_date AS contract_expiry_date,
	cc.current_monthly_amount AS current_monthly_amount,
	cc.billing_frequency AS billing_frequency,
	r.supervisor AS supervisor`

func (r *UnitRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("units_out_of_service uos").
		Select(unitRowSelect).
		Joins("LEFT JOIN units cu ON uos.serial_number = cu.serial_number").
		Joins("LEFT JOIN contracts cc ON cu.contract_number = cc.contract_number").
		Joins("LEFT JOIN routes r ON uos.route = r.route").
		Where("uos.care_submission = ?", domain.CareSubmittedNo)
}

// OpenUnitsByBranch returns joined rows for units without a CARE submission,
// ordered by serial number.
func (r *UnitRepository) OpenUnitsByBranch(ctx context.Context, branch string) ([]domain.UnitRow, error) {
	var rows []domain.UnitRow
	if err := r.joined(ctx).
		Where("uos.branch = ?", branch).
		Order("uos.serial_number ASC").
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "units for branch %q", branch)
	}
	return rows, nil
}

// OpenUnit returns the joined row for one unit without a CARE submission,
// or ErrNotFound.
func (r *UnitRepository) OpenUnit(ctx context.Context, unitID string) (*domain.UnitRow, error) {
	var rows []domain.UnitRow
	if err := r.joined(ctx).
		Where("uos.serial_number = ?", unitID).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "unit %q", unitID)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}
