package domain

import "time"

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "Pending"
	SubmissionApproved SubmissionStatus = "Approved"
)

type WorkOrderType string

const (
	WORopeReplacement    WorkOrderType = "Rope Replacement"
	WOMachineBearRepair  WorkOrderType = "Machine/Bear Repair"
	WOHydroPackingChange WorkOrderType = "Hydro Packing Change"
	WOSheaveReplacement  WorkOrderType = "Sheave Replacement"
	WOOther              WorkOrderType = "Other"
)

// SubmissionFields are the form fields shared by pending and approved records.
type SubmissionFields struct {
	Region                 string  `json:"region"`
	Area                   string  `json:"area"`
	BranchCode             string  `json:"branch_code"`
	WONumber               string  `json:"wo_number"`
	Customer               string  `json:"customer"`
	WOType                 string  `json:"wo_type"`
	Description            string  `json:"description" gorm:"type:text"`
	OrderDate              string  `json:"order_date"`
	EstimatedCompletion    string  `json:"estimated_completion"`
	PreCalcLabourHours     float64 `json:"pre_calc_labour_hours"`
	BranchName             string  `json:"branch_name"`
	UnitOnList             string  `json:"unit_on_list"`
	ContractExpiryDate     string  `json:"contract_expiry_date"`
	Temperament            string  `json:"temperament" gorm:"type:text"`
	POCName                string  `json:"poc_name"`
	CustomerEmail          string  `json:"customer_email"`
	ControllerManufacturer string  `json:"controller_manufacturer"`
	MaxConnected           string  `json:"max_connected"`
	TKExtendStatus         string  `json:"tk_extend_status"`
	NumberOfStops          int     `json:"number_of_stops"`
	CustomerVisitDate      string  `json:"customer_visit_date"`
	DMApprovalDate         string  `json:"dm_approval_date"`
	ApprovalByDM           string  `json:"approval_by_dm"`
	DMNotes                string  `json:"dm_notes" gorm:"type:text"`
	RepairTeamHours        float64 `json:"repair_team_hours"`
	RepairLabourHours      float64 `json:"repair_labour_hours"`
	Notes                  string  `json:"notes" gorm:"type:text"`
	ValueApproved          float64 `json:"value_approved"`
}

// PendingSubmission is keyed by unit id so a resubmission replaces the
// previous pending row.
type PendingSubmission struct {
	UnitID string `json:"unit_id" gorm:"primaryKey"`
	SubmissionFields
	Status      SubmissionStatus `json:"status" gorm:"default:'Pending'"`
	SubmittedBy string           `json:"submitted_by"`
	SubmittedAt time.Time        `json:"submitted_at"`
}

func (PendingSubmission) TableName() string { return "care_pending_submissions" }

// Submission is a completed (RVP approved) CARE record. At most one exists per unit.
type Submission struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UnitID string `json:"unit_id" gorm:"uniqueIndex"`
	SubmissionFields
	RVPApprovalDate string           `json:"rvp_approval_date"`
	ApprovalByRVP   string           `json:"approval_by_rvp"`
	Status          SubmissionStatus `json:"status"`
	ApprovedBy      string           `json:"approved_by"`
	ApprovedAt      time.Time        `json:"approved_at"`
}

func (Submission) TableName() string { return "care_submissions" }
