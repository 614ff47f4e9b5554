package domain

const (
	CareSubmittedYes = "Yes"
	CareSubmittedNo  = "No"
)

// OutOfServiceUnit is a unit that is currently down. Dates are kept as the raw
// text the source extract carries; parsing happens in the eligibility filter.
type OutOfServiceUnit struct {
	SerialNumber        string `json:"serial_number" gorm:"primaryKey"`
	Branch              string `json:"branch" gorm:"index"`
	BuildingAddress     string `json:"building_address"`
	BuildingSalesperson string `json:"building_salesperson"`
	OutOfServiceDate    string `json:"out_of_service_date"`
	Route               string `json:"route"`
	CareSubmission      string `json:"care_submission" gorm:"default:'No';index"`
}

func (OutOfServiceUnit) TableName() string { return "units_out_of_service" }

// UnitContract links a unit serial number to its service contract.
type UnitContract struct {
	SerialNumber   string `json:"serial_number" gorm:"primaryKey"`
	ContractNumber string `json:"contract_number" gorm:"index"`
	ControllerName string `json:"controller_name"`
}

func (UnitContract) TableName() string { return "units" }

// UnitRow is one row of the units/contracts/routes join. Every joined column
// is nullable because the joins are LEFT joins.
type UnitRow struct {
	Branch               string
	UnitID               string
	Address              string
	Salesperson          string
	OutOfServiceDate     *string
	Route                *string
	CareSubmission       string
	ContractNumber       *string
	ControllerName       *string
	Customer             *string
	ContractExpiryDate   *string
	CurrentMonthlyAmount *string
	BillingFrequency     *string
	Supervisor           *string
}
