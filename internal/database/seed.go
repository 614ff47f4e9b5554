package database

import (
	"fmt"
	"time"

	"careboard/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seed replaces the reference tables with a small demo data set. Dates are
// relative to now so the demo units fall inside the eligibility windows.
// Submission tables are cleared too.
func Seed(db *gorm.DB, now time.Time) error {
	day := func(offset int) string { return now.AddDate(0, 0, offset).Format("2006-01-02") }

	hierarchy := []domain.Hierarchy{
		{Region: "West", Branch: "Vancouver", ParentBranch: "Vancouver", BranchCode: "VAN1"},
		{Region: "West", Branch: "Vancouver North", ParentBranch: "Vancouver", BranchCode: "VAN2"},
		{Region: "West", Branch: "Calgary", ParentBranch: "Calgary", BranchCode: "CAL1"},
		{Region: "East", Branch: "Toronto", ParentBranch: "Toronto", BranchCode: "TOR1"},
		{Region: "East", Branch: "Montreal", ParentBranch: "Montreal"},
	}
	routes := []domain.Route{
		{Route: "VAN-01", Supervisor: "Morgan Reyes"},
		{Route: "CAL-01", Supervisor: "Jordan Blake"},
		{Route: "TOR-01", Supervisor: "Casey Lin"},
	}
	rvps := []domain.RVP{
		{Email: "rvp.west@example.com", Name: "Pat West", Region: "West"},
		{Email: "rvp.east@example.com", Name: "Lee East", Region: "East"},
	}

	var (
		units     []domain.OutOfServiceUnit
		links     []domain.UnitContract
		contracts []domain.Contract
	)
	customers := []string{"Harbour Towers", "Maple Medical", "Northgate Mall", "Summit Condos", "Riverside Hotel"}
	frequencies := []string{"Monthly", "Quarterly", "Annually", "Semi-Annually", "Bi-Monthly"}
	controllers := []string{"TAC 32", "Miconic TX", "TAC 50", "Otis LCB", ""}
	branches := []struct{ name, route string }{
		{"Vancouver", "VAN-01"},
		{"Calgary", "CAL-01"},
		{"Toronto", "TOR-01"},
	}

	n := 0
	for _, b := range branches {
		for i := 0; i < 6; i++ {
			n++
			serial := fmt.Sprintf("%s-%04d", b.name[:3], n)
			contract := fmt.Sprintf("%d", 500000+n)
			units = append(units, domain.OutOfServiceUnit{
				SerialNumber:        serial,
				Branch:              b.name,
				BuildingAddress:     fmt.Sprintf("%d %s Street", 100+n, b.name),
				BuildingSalesperson: "Alex Morgan",
				OutOfServiceDate:    day(-(i*15 + 3)),
				Route:               b.route,
				CareSubmission:      domain.CareSubmittedNo,
			})
			links = append(links, domain.UnitContract{
				SerialNumber:   serial,
				ContractNumber: contract,
				ControllerName: controllers[i%len(controllers)],
			})
			contracts = append(contracts, domain.Contract{
				ContractNumber:       contract,
				Branch:               b.name,
				Customer:             &customers[i%len(customers)],
				ExpirationDate:       now.AddDate(0, 2+i*3, 0).Format("2006-01-02"),
				CurrentMonthlyAmount: fmt.Sprintf("$%d,%03d.00", 1+i, 250*i%1000),
				BillingFrequency:     frequencies[i%len(frequencies)],
			})
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&domain.Submission{},
			&domain.PendingSubmission{},
			&domain.UnitContract{},
			&domain.Contract{},
			&domain.OutOfServiceUnit{},
			&domain.Route{},
			&domain.RVP{},
			&domain.Hierarchy{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}

		for _, rows := range []interface{}{&hierarchy, &routes, &rvps, &units, &links, &contracts} {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error; err != nil {
				return fmt.Errorf("insert %T: %w", rows, err)
			}
		}
		return nil
	})
}
