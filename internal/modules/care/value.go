package care

import "github.com/shopspring/decimal"

var (
	teamHourRate   = decimal.RequireFromString("190.70")
	labourHourRate = decimal.RequireFromString("101.50")
)

// ComputeValueApproved applies the hour exclusivity rule before pricing:
// any team hours zero the labour hours, and only the remaining field is
// billed. The value is rounded to cents.
func ComputeValueApproved(teamHours, labourHours float64) (team, labour, value float64) {
	team, labour = teamHours, labourHours
	if team > 0 {
		labour = 0
		value, _ = decimal.NewFromFloat(team).Mul(teamHourRate).Round(2).Float64()
		return team, labour, value
	}
	value, _ = decimal.NewFromFloat(labour).Mul(labourHourRate).Round(2).Float64()
	return team, labour, value
}
