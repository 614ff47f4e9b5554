package dashboard

import (
	"math"
	"strconv"
	"strings"
	"time"

	"careboard/internal/domain"
	"careboard/internal/pkg/money"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FilterParams configures the batch eligibility window. A zero ReferenceDate
// means the evaluation time is used as the reference.
type FilterParams struct {
	ReferenceDate time.Time
	WindowMonths  int
	RecencyDays   int
	TopCustomers  int
}

// DefaultFilterParams is the current production window: 13 months from the
// 2024-10-01 checkpoint, units down for less than 60 days.
func DefaultFilterParams() FilterParams {
	return FilterParams{
		ReferenceDate: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
		WindowMonths:  13,
		RecencyDays:   60,
		TopCustomers:  20,
	}
}

// Cutoff is the latest contract expiration date still inside the window, as
// midnight in now's location. Only the reference date's calendar day counts.
func (p FilterParams) Cutoff(now time.Time) time.Time {
	ref := p.ReferenceDate
	if ref.IsZero() {
		ref = now
	}
	y, m, d := ref.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, p.WindowMonths, 0)
}

// EligibleUnit is one display row of the CARE unit list, in column order.
type EligibleUnit struct {
	Branch             string          `json:"branch"`
	Address            string          `json:"address"`
	Customer           string          `json:"customer"`
	Top20Customer      bool            `json:"top_20_customer"`
	ContractExpiryDate string          `json:"contract_expiry_date"`
	AnnualValue        decimal.Decimal `json:"annual_value"`
	AnnualValueDisplay string          `json:"annual_value_display"`
	ContractNumber     int64           `json:"contract_number"`
	UnitID             string          `json:"unit_id"`
	Salesperson        string          `json:"salesperson"`
	Supervisor         string          `json:"supervisor"`
	TACController      bool            `json:"tac_controller"`
	DaysOutOfService   int             `json:"days_out_of_service"`
}

// Filter keeps the rows eligible for CARE review and derives display fields.
// Input order is preserved. Rows with an unparsable expiry or out-of-service
// date are dropped; unparsable amounts count as zero.
func Filter(rows []domain.UnitRow, params FilterParams, top map[string]struct{}, now time.Time) []EligibleUnit {
	cutoff := params.Cutoff(now)
	out := make([]EligibleUnit, 0, len(rows))

	for _, row := range rows {
		if row.CareSubmission != domain.CareSubmittedNo {
			continue
		}

		expiry, ok := parseDate(deref(row.ContractExpiryDate), now.Location())
		if !ok || truncateDay(expiry, cutoff.Location()).After(cutoff) {
			continue
		}

		days, ok := DaysOutOfService(deref(row.OutOfServiceDate), now)
		if !ok || days >= params.RecencyDays {
			continue
		}

		customer := deref(row.Customer)
		_, isTop := top[customer]
		annual := money.AnnualValue(row.CurrentMonthlyAmount, row.BillingFrequency)

		out = append(out, EligibleUnit{
			Branch:             row.Branch,
			Address:            row.Address,
			Customer:           customer,
			Top20Customer:      row.Customer != nil && isTop,
			ContractExpiryDate: expiry.Format(dateLayout),
			AnnualValue:        annual,
			AnnualValueDisplay: FormatCurrency(annual),
			ContractNumber:     ContractNumber(row.ContractNumber),
			UnitID:             row.UnitID,
			Salesperson:        row.Salesperson,
			Supervisor:         deref(row.Supervisor),
			TACController:      HasTACController(row.ControllerName),
			DaysOutOfService:   days,
		})
	}
	return out
}

// HasTACController reports whether the controller name contains "TAC".
// The match is case-sensitive; a missing name is not a TAC controller.
func HasTACController(controller *string) bool {
	return controller != nil && strings.Contains(*controller, "TAC")
}

// ContractNumber coerces the contract number to an integer, 0 when it is
// missing or not numeric.
func ContractNumber(raw *string) int64 {
	if raw == nil {
		return 0
	}
	s := strings.TrimSpace(*raw)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}

// DaysOutOfService returns whole days between the out-of-service date and
// now, rounded down. ok is false when the date cannot be parsed.
func DaysOutOfService(raw string, now time.Time) (int, bool) {
	since, ok := parseDate(raw, now.Location())
	if !ok {
		return 0, false
	}
	return int(math.Floor(now.Sub(since).Hours() / 24)), true
}

// FormatCurrency renders "$1,234.50".
func FormatCurrency(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", f)
}

const dateLayout = "2006-01-02"

var dateLayouts = []string{
	dateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
}

func parseDate(raw string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// truncateDay keeps t's calendar day and moves it to midnight in loc.
func truncateDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
