package dashboard

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportHeader mirrors the column order of EligibleUnit.
var ExportHeader = []string{
	"Branch",
	"Address",
	"Customer",
	"Top 20 Customer",
	"Contract Expiry Date",
	"Annual Value",
	"Contract Number",
	"Unit ID",
	"Salesperson",
	"Supervisor",
	"TAC Controller",
	"Days Out of Service",
}

const exportSheet = "CARE Units"

// WriteWorkbook renders units as a single-sheet workbook and returns its bytes.
func WriteWorkbook(branch string, units []EligibleUnit) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &ExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(ExportHeader), 1)
	if err := f.SetCellStyle(exportSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, u := range units {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{
			u.Branch,
			u.Address,
			u.Customer,
			yesNo(u.Top20Customer),
			u.ContractExpiryDate,
			u.AnnualValueDisplay,
			u.ContractNumber,
			u.UnitID,
			u.Salesperson,
			u.Supervisor,
			yesNo(u.TACController),
			u.DaysOutOfService,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "CARE eligible units",
		Subject: branch,
	}); err != nil {
		return nil, fmt.Errorf("failed to set properties: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
