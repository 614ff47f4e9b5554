package domain

type BillingFrequency string

const (
	BillingMonthly      BillingFrequency = "Monthly"
	BillingBiMonthly    BillingFrequency = "Bi-Monthly"
	BillingQuarterly    BillingFrequency = "Quarterly"
	BillingSemiAnnually BillingFrequency = "Semi-Annually"
	BillingAnnually     BillingFrequency = "Annually"
	BillingNonBillable  BillingFrequency = "Non-Billable"
)

// Contract is a customer service contract. CurrentMonthlyAmount is free text
// ("$1,250.00") and ExpirationDate is an unparsed date string. Customer is nil
// when the column is NULL, which is distinct from an empty name.
type Contract struct {
	ContractNumber       string  `json:"contract_number" gorm:"primaryKey"`
	Branch               string  `json:"branch" gorm:"index"`
	Customer             *string `json:"customer"`
	ExpirationDate       string  `json:"expiration_date"`
	CurrentMonthlyAmount string  `json:"current_monthly_amount"`
	BillingFrequency     string  `json:"billing_frequency"`
}

func (Contract) TableName() string { return "contracts" }
