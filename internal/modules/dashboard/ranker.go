package dashboard

import (
	"sort"

	"careboard/internal/domain"
	"careboard/internal/pkg/money"

	"github.com/shopspring/decimal"
)

// CustomerValue is a customer's summed annual contract value.
type CustomerValue struct {
	Customer    string          `json:"customer"`
	AnnualValue decimal.Decimal `json:"annual_value"`
}

// RankCustomers sums annual value per customer name (exact match) and sorts
// descending. Ties keep the order in which customers first appear. Contracts
// with a NULL customer are ignored; an empty name is ranked like any other.
func RankCustomers(contracts []domain.Contract) []CustomerValue {
	index := make(map[string]int)
	ranked := make([]CustomerValue, 0)

	for _, c := range contracts {
		if c.Customer == nil {
			continue
		}
		name := *c.Customer
		amount, freq := c.CurrentMonthlyAmount, c.BillingFrequency
		value := money.AnnualValue(&amount, &freq)

		i, ok := index[name]
		if !ok {
			index[name] = len(ranked)
			ranked = append(ranked, CustomerValue{Customer: name, AnnualValue: value})
			continue
		}
		ranked[i].AnnualValue = ranked[i].AnnualValue.Add(value)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AnnualValue.GreaterThan(ranked[j].AnnualValue)
	})
	return ranked
}

// TopCustomers returns the n highest-value customers as a set.
func TopCustomers(contracts []domain.Contract, n int) map[string]struct{} {
	ranked := RankCustomers(contracts)
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	top := make(map[string]struct{}, len(ranked))
	for _, cv := range ranked {
		top[cv.Customer] = struct{}{}
	}
	return top
}
