package dashboard

import "github.com/shopspring/decimal"

const branchCodeUnknown = "N/A"

// Selector picks batch mode (Branch) or single-unit mode (UnitID). Exactly
// one must be set.
type Selector struct {
	Branch string `form:"branch"`
	UnitID string `form:"unit_id"`
}

// UnitDetails is the single-unit view used to pre-fill the CARE form. No
// window or recency filtering is applied.
type UnitDetails struct {
	UnitID             string          `json:"unit_id"`
	Branch             string          `json:"branch"`
	Region             string          `json:"region"`
	BranchCode         string          `json:"branch_code"`
	Address            string          `json:"address"`
	Salesperson        string          `json:"salesperson"`
	Supervisor         string          `json:"supervisor"`
	Customer           string          `json:"customer"`
	ContractNumber     int64           `json:"contract_number"`
	ContractExpiryDate string          `json:"contract_expiry_date"`
	ControllerName     string          `json:"controller_name"`
	TACController      bool            `json:"tac_controller"`
	AnnualValue        decimal.Decimal `json:"annual_value"`
	AnnualValueDisplay string          `json:"annual_value_display"`
	DaysOutOfService   *int            `json:"days_out_of_service,omitempty"`
}

// LookupResult carries Units in batch mode and Unit in single-unit mode.
type LookupResult struct {
	Units []EligibleUnit `json:"units,omitempty"`
	Unit  *UnitDetails   `json:"unit,omitempty"`
}

type BranchUnitsResponse struct {
	Branch     string         `json:"branch"`
	BranchCode string         `json:"branch_code"`
	Cutoff     string         `json:"cutoff"`
	Count      int            `json:"count"`
	Units      []EligibleUnit `json:"units"`
}
