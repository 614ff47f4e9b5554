package care

import (
	"strings"
	"time"

	"careboard/internal/domain"
	"careboard/internal/modules/dashboard"
	"careboard/internal/pkg/validator"
)

// Request identifies who is acting and when.
type Request struct {
	ActorEmail string
	Now        time.Time
}

// SubmissionForm is the CARE form. RVP fields are only read on approval.
type SubmissionForm struct {
	UnitID                 string  `json:"unit_id" validate:"required,max=64"`
	Region                 string  `json:"region" validate:"max=128"`
	Area                   string  `json:"area" validate:"max=128"`
	BranchCode             string  `json:"branch_code" validate:"max=32"`
	WONumber               string  `json:"wo_number" validate:"max=64"`
	Customer               string  `json:"customer" validate:"max=255"`
	WOType                 string  `json:"wo_type" validate:"required,oneof='Rope Replacement' 'Machine/Bear Repair' 'Hydro Packing Change' 'Sheave Replacement' 'Other'"`
	Description            string  `json:"description"`
	OrderDate              string  `json:"order_date"`
	EstimatedCompletion    string  `json:"estimated_completion"`
	PreCalcLabourHours     float64 `json:"pre_calc_labour_hours" validate:"gte=0"`
	BranchName             string  `json:"branch_name" validate:"max=128"`
	UnitOnList             string  `json:"unit_on_list" validate:"omitempty,oneof=Yes No"`
	ContractExpiryDate     string  `json:"contract_expiry_date"`
	Temperament            string  `json:"temperament"`
	POCName                string  `json:"poc_name" validate:"max=255"`
	CustomerEmail          string  `json:"customer_email" validate:"omitempty,email"`
	ControllerManufacturer string  `json:"controller_manufacturer" validate:"max=255"`
	MaxConnected           string  `json:"max_connected" validate:"omitempty,oneof=Yes No"`
	TKExtendStatus         string  `json:"tk_extend_status" validate:"max=128"`
	NumberOfStops          int     `json:"number_of_stops" validate:"gte=0"`
	CustomerVisitDate      string  `json:"customer_visit_date"`
	DMApprovalDate         string  `json:"dm_approval_date"`
	ApprovalByDM           string  `json:"approval_by_dm" validate:"max=255"`
	DMNotes                string  `json:"dm_notes"`
	RepairTeamHours        float64 `json:"repair_team_hours" validate:"gte=0"`
	RepairLabourHours      float64 `json:"repair_labour_hours" validate:"gte=0"`
	Notes                  string  `json:"notes"`

	RVPApprovalDate string `json:"rvp_approval_date"`
	ApprovalByRVP   string `json:"approval_by_rvp" validate:"max=255"`
}

// Validate returns FieldErrors keyed by json name, or nil.
func (f *SubmissionForm) Validate() error {
	f.UnitID = strings.TrimSpace(f.UnitID)
	errs := validator.Validate(f)
	if len(errs) == 0 {
		return nil
	}
	out := make(FieldErrors, len(errs))
	for field, tag := range errs {
		out[jsonName(field)] = tag
	}
	return out
}

func (f *SubmissionForm) hasRVPFields() bool {
	return strings.TrimSpace(f.RVPApprovalDate) != "" && strings.TrimSpace(f.ApprovalByRVP) != ""
}

// fields prices the form and returns the persisted field set.
func (f *SubmissionForm) fields() domain.SubmissionFields {
	team, labour, value := ComputeValueApproved(f.RepairTeamHours, f.RepairLabourHours)
	return domain.SubmissionFields{
		Region:                 f.Region,
		Area:                   f.Area,
		BranchCode:             f.BranchCode,
		WONumber:               f.WONumber,
		Customer:               f.Customer,
		WOType:                 f.WOType,
		Description:            f.Description,
		OrderDate:              f.OrderDate,
		EstimatedCompletion:    f.EstimatedCompletion,
		PreCalcLabourHours:     f.PreCalcLabourHours,
		BranchName:             f.BranchName,
		UnitOnList:             f.UnitOnList,
		ContractExpiryDate:     f.ContractExpiryDate,
		Temperament:            f.Temperament,
		POCName:                f.POCName,
		CustomerEmail:          f.CustomerEmail,
		ControllerManufacturer: f.ControllerManufacturer,
		MaxConnected:           f.MaxConnected,
		TKExtendStatus:         f.TKExtendStatus,
		NumberOfStops:          f.NumberOfStops,
		CustomerVisitDate:      f.CustomerVisitDate,
		DMApprovalDate:         f.DMApprovalDate,
		ApprovalByDM:           f.ApprovalByDM,
		DMNotes:                f.DMNotes,
		RepairTeamHours:        team,
		RepairLabourHours:      labour,
		Notes:                  f.Notes,
		ValueApproved:          value,
	}
}

var jsonNames = map[string]string{
	"UnitID":                 "unit_id",
	"Region":                 "region",
	"Area":                   "area",
	"BranchCode":             "branch_code",
	"WONumber":               "wo_number",
	"Customer":               "customer",
	"WOType":                 "wo_type",
	"PreCalcLabourHours":     "pre_calc_labour_hours",
	"BranchName":             "branch_name",
	"UnitOnList":             "unit_on_list",
	"POCName":                "poc_name",
	"CustomerEmail":          "customer_email",
	"ControllerManufacturer": "controller_manufacturer",
	"MaxConnected":           "max_connected",
	"TKExtendStatus":         "tk_extend_status",
	"NumberOfStops":          "number_of_stops",
	"ApprovalByDM":           "approval_by_dm",
	"RepairTeamHours":        "repair_team_hours",
	"RepairLabourHours":      "repair_labour_hours",
	"ApprovalByRVP":          "approval_by_rvp",
}

func jsonName(field string) string {
	if n, ok := jsonNames[field]; ok {
		return n
	}
	return field
}

// WorkOrderTypes lists the wo_type choices in display order.
var WorkOrderTypes = []domain.WorkOrderType{
	domain.WORopeReplacement,
	domain.WOMachineBearRepair,
	domain.WOHydroPackingChange,
	domain.WOSheaveReplacement,
	domain.WOOther,
}

// PrefillResponse seeds the form for one unit.
type PrefillResponse struct {
	Unit           *dashboard.UnitDetails    `json:"unit"`
	BranchCode     string                    `json:"branch_code"`
	Pending        *domain.PendingSubmission `json:"pending,omitempty"`
	RVPMode        bool                      `json:"rvp_mode"`
	WorkOrderTypes []domain.WorkOrderType    `json:"work_order_types"`
}

type SubmitResult struct {
	Pending    *domain.PendingSubmission `json:"pending"`
	Notified   bool                      `json:"notified"`
	Recipients []string                  `json:"recipients,omitempty"`
}
