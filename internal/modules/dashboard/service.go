package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"careboard/internal/pkg/money"
	"careboard/internal/repository"

	"github.com/sirupsen/logrus"
)

type Service struct {
	hierarchy HierarchyRepository
	units     UnitRepository
	contracts ContractRepository
	params    FilterParams
	log       logrus.FieldLogger
}

func NewService(
	hierarchy HierarchyRepository,
	units UnitRepository,
	contracts ContractRepository,
	params FilterParams,
	log logrus.FieldLogger,
) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if params.TopCustomers <= 0 {
		params.TopCustomers = 20
	}
	return &Service{
		hierarchy: hierarchy,
		units:     units,
		contracts: contracts,
		params:    params,
		log:       log.WithField("module", "dashboard"),
	}
}

// Params returns the window the service filters with.
func (s *Service) Params() FilterParams { return s.params }

func (s *Service) Regions(ctx context.Context) ([]string, error) {
	regions, err := s.hierarchy.Regions(ctx)
	if err != nil {
		return nil, persistence(err)
	}
	return regions, nil
}

func (s *Service) Branches(ctx context.Context, region string) ([]string, error) {
	branches, err := s.hierarchy.Branches(ctx, region)
	if err != nil {
		return nil, persistence(err)
	}
	return branches, nil
}

// BranchCode returns "N/A" for branches without a code.
func (s *Service) BranchCode(ctx context.Context, branch string) (string, error) {
	code, err := s.hierarchy.BranchCode(ctx, branch)
	if err != nil {
		return "", persistence(err)
	}
	if strings.TrimSpace(code) == "" {
		return branchCodeUnknown, nil
	}
	return code, nil
}

// EligibleUnits is batch mode: every unit of branch that passes Filter, with
// top customers computed from the branch's contracts.
func (s *Service) EligibleUnits(ctx context.Context, branch string, now time.Time) ([]EligibleUnit, error) {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return nil, ErrValidation
	}
	ok, err := s.hierarchy.BranchExists(ctx, branch)
	if err != nil {
		return nil, persistence(err)
	}
	if !ok {
		return nil, ErrBranchNotFound
	}

	rows, err := s.units.OpenUnitsByBranch(ctx, branch)
	if err != nil {
		return nil, persistence(err)
	}
	contracts, err := s.contracts.ByBranch(ctx, branch)
	if err != nil {
		return nil, persistence(err)
	}

	top := TopCustomers(contracts, s.params.TopCustomers)
	units := Filter(rows, s.params, top, now)

	s.log.WithFields(logrus.Fields{
		"branch":    branch,
		"retrieved": len(rows),
		"eligible":  len(units),
		"cutoff":    s.params.Cutoff(now).Format(dateLayout),
	}).Debug("eligible units computed")
	return units, nil
}

// UnitDetails is single-unit mode: display fields only, no filtering.
func (s *Service) UnitDetails(ctx context.Context, unitID string, now time.Time) (*UnitDetails, error) {
	unitID = strings.TrimSpace(unitID)
	if unitID == "" {
		return nil, ErrValidation
	}
	row, err := s.units.OpenUnit(ctx, unitID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnitNotFound
	}
	if err != nil {
		return nil, persistence(err)
	}

	code, err := s.BranchCode(ctx, row.Branch)
	if err != nil {
		return nil, err
	}
	region, err := s.hierarchy.RegionOfBranch(ctx, row.Branch)
	if err != nil {
		return nil, persistence(err)
	}

	annual := money.AnnualValue(row.CurrentMonthlyAmount, row.BillingFrequency)
	details := &UnitDetails{
		UnitID:             row.UnitID,
		Branch:             row.Branch,
		Region:             region,
		BranchCode:         code,
		Address:            row.Address,
		Salesperson:        row.Salesperson,
		Supervisor:         deref(row.Supervisor),
		Customer:           deref(row.Customer),
		ContractNumber:     ContractNumber(row.ContractNumber),
		ContractExpiryDate: deref(row.ContractExpiryDate),
		ControllerName:     deref(row.ControllerName),
		TACController:      HasTACController(row.ControllerName),
		AnnualValue:        annual,
		AnnualValueDisplay: FormatCurrency(annual),
	}
	if days, ok := DaysOutOfService(deref(row.OutOfServiceDate), now); ok {
		details.DaysOutOfService = &days
	}
	return details, nil
}

// Lookup dispatches on the selector; exactly one of Branch and UnitID is required.
func (s *Service) Lookup(ctx context.Context, sel Selector, now time.Time) (*LookupResult, error) {
	hasBranch := strings.TrimSpace(sel.Branch) != ""
	hasUnit := strings.TrimSpace(sel.UnitID) != ""
	if hasBranch == hasUnit {
		return nil, fmt.Errorf("%w: exactly one of branch or unit_id is required", ErrValidation)
	}

	if hasUnit {
		unit, err := s.UnitDetails(ctx, sel.UnitID, now)
		if err != nil {
			return nil, err
		}
		return &LookupResult{Unit: unit}, nil
	}

	units, err := s.EligibleUnits(ctx, sel.Branch, now)
	if err != nil {
		return nil, err
	}
	return &LookupResult{Units: units}, nil
}

// ExportEligibleUnits renders the batch view of branch as an xlsx workbook.
func (s *Service) ExportEligibleUnits(ctx context.Context, branch string, now time.Time) ([]byte, error) {
	units, err := s.EligibleUnits(ctx, branch, now)
	if err != nil {
		return nil, err
	}
	return WriteWorkbook(branch, units)
}

func persistence(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
