package repository

import (
	"context"
	stderrors "errors"

	"careboard/internal/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// UpsertPending inserts the pending row or replaces the one already stored
// for the same unit.
func (r *SubmissionRepository) UpsertPending(ctx context.Context, p *domain.PendingSubmission) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "unit_id"}},
			UpdateAll: true,
		}).
		Create(p).Error
	return errors.Wrapf(err, "upsert pending submission for unit %q", p.UnitID)
}

func (r *SubmissionRepository) PendingByUnit(ctx context.Context, unitID string) (*domain.PendingSubmission, error) {
	var p domain.PendingSubmission
	err := r.db.WithContext(ctx).Where("unit_id = ?", unitID).First(&p).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "pending submission for unit %q", unitID)
	}
	return &p, nil
}

func (r *SubmissionRepository) ApprovedByUnit(ctx context.Context, unitID string) (*domain.Submission, error) {
	var s domain.Submission
	err := r.db.WithContext(ctx).Where("unit_id = ?", unitID).First(&s).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "approved submission for unit %q", unitID)
	}
	return &s, nil
}

// Approve stores the completed submission and marks the unit as submitted in
// one transaction. It returns ErrDuplicate when the unit is already approved
// and ErrNotFound when the unit row does not exist; nothing is written then.
func (r *SubmissionRepository) Approve(ctx context.Context, s *domain.Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&domain.Submission{}).Where("unit_id = ?", s.UnitID).Count(&existing).Error; err != nil {
			return errors.Wrap(err, "check existing approval")
		}
		if existing > 0 {
			return ErrDuplicate
		}

		if err := tx.Create(s).Error; err != nil {
			if IsUniqueConstraintError(err) {
				return ErrDuplicate
			}
			return errors.Wrap(err, "insert approved submission")
		}

		res := tx.Model(&domain.OutOfServiceUnit{}).
			Where("serial_number = ?", s.UnitID).
			Update("care_submission", domain.CareSubmittedYes)
		if res.Error != nil {
			return errors.Wrap(res.Error, "update unit care status")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
