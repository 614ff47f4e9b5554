package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// frequencyMultipliers converts a billing frequency to billings per year.
// Unknown frequencies contribute nothing.
var frequencyMultipliers = map[string]int64{
	"Monthly":       12,
	"Bi-Monthly":    6,
	"Quarterly":     4,
	"Semi-Annually": 2,
	"Annually":      1,
	"Non-Billable":  0,
}

var amountStripper = strings.NewReplacer("$", "", ",", "", "€", "", "£", "", "¥", "", " ", "")

// ParseAmount parses a currency string such as "$1,250.50". Anything that is
// not a number after stripping symbols and separators yields zero.
func ParseAmount(raw string) decimal.Decimal {
	cleaned := amountStripper.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FrequencyMultiplier returns the number of billings per year, 0 when unknown.
func FrequencyMultiplier(frequency string) int64 {
	return frequencyMultipliers[frequency]
}

// AnnualValue is the billed amount normalized to a year. A nil amount or
// frequency counts as zero.
func AnnualValue(amount, frequency *string) decimal.Decimal {
	if amount == nil || frequency == nil {
		return decimal.Zero
	}
	m := FrequencyMultiplier(*frequency)
	if m == 0 {
		return decimal.Zero
	}
	return ParseAmount(*amount).Mul(decimal.NewFromInt(m))
}
