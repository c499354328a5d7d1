package interfaces

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	ledger "siteledger/internal/ledger/domain"
	application "siteledger/internal/report/application"
)

// ErrEmptyReport is returned when a report has no rows to export. No
// file artifact is produced in that case.
var ErrEmptyReport = errors.New("export: empty report")

// BuildProjectXLSX renders a project ledger summary as a workbook: a
// titled header block, one data table with a totals row, and a summary
// block below it. Every figure comes from the summary as-is; nothing is
// recomputed here.
func BuildProjectXLSX(report *application.ProjectReport, diagnosticsTotal int) ([]byte, error) {
	if report == nil {
		return nil, errors.New("export: nil report")
	}
	summary := report.Summary
	if len(summary.Entries) == 0 {
		return nil, ErrEmptyReport
	}
	format := report.Format

	f := excelize.NewFile()
	sheet := "Daily Expenses"
	f.SetSheetName("Sheet1", sheet)
	if err := applySheetView(f, sheet, format.RightToLeft); err != nil {
		return nil, err
	}
	styles, err := newSheetStyles(f, format.CurrencySuffix)
	if err != nil {
		return nil, err
	}

	_ = f.SetColWidth(sheet, "A", "C", 16)
	_ = f.SetColWidth(sheet, "D", "G", 14)

	_ = f.SetCellValue(sheet, "A1", "Project Ledger Statement - "+report.ProjectName)
	_ = f.MergeCell(sheet, "A1", "G1")
	_ = f.SetCellStyle(sheet, "A1", "G1", styles.title)
	_ = f.SetCellValue(sheet, "A2", summary.RangeStart.Format(format.DateLayout)+" - "+summary.RangeEnd.Format(format.DateLayout))
	_ = f.MergeCell(sheet, "A2", "G2")

	headers := []string{"Date", "Category", "Description", "Income", "Expense", "Deferred", "Balance"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		_ = f.SetCellValue(sheet, cell, header)
	}
	_ = f.SetCellStyle(sheet, "A4", "G4", styles.header)

	row := 5
	for _, line := range summary.Entries {
		_ = f.SetCellValue(sheet, cell("A", row), line.Date.Format(format.DateLayout))
		_ = f.SetCellValue(sheet, cell("B", row), string(line.Category))
		_ = f.SetCellValue(sheet, cell("C", row), line.Description)
		switch line.Kind {
		case ledger.KindIncome, ledger.KindTransferIn:
			_ = f.SetCellValue(sheet, cell("D", row), line.Amount)
		case ledger.KindExpense:
			_ = f.SetCellValue(sheet, cell("E", row), line.Amount)
		case ledger.KindDeferred:
			_ = f.SetCellValue(sheet, cell("F", row), line.Amount)
		}
		_ = f.SetCellValue(sheet, cell("G", row), line.Balance)
		_ = f.SetCellStyle(sheet, cell("D", row), cell("G", row), styles.currency)
		row++
	}

	_ = f.SetCellValue(sheet, cell("A", row), "Totals")
	_ = f.SetCellValue(sheet, cell("D", row), summary.TotalIncome)
	_ = f.SetCellValue(sheet, cell("E", row), summary.TotalExpenses)
	_ = f.SetCellValue(sheet, cell("F", row), summary.TotalDeferred)
	_ = f.SetCellValue(sheet, cell("G", row), summary.RemainingBalance)
	_ = f.SetCellStyle(sheet, cell("A", row), cell("G", row), styles.totals)

	row += 2
	writeSummaryBlock(f, sheet, row, styles, [][2]any{
		{"Carried Forward", summary.CarriedForward},
		{"Total Income", summary.TotalIncome},
		{"Total Expenses", summary.TotalExpenses},
		{"Total Deferred", summary.TotalDeferred},
		{"Remaining Balance", summary.RemainingBalance},
		{"Entries", summary.EntriesCount},
		{"Data Warnings", diagnosticsTotal},
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildWorkerXLSX renders a worker statement workbook with the same
// section layout as the project export.
func BuildWorkerXLSX(report *application.WorkerReport, diagnosticsTotal int) ([]byte, error) {
	if report == nil {
		return nil, errors.New("export: nil report")
	}
	statement := report.Statement
	if len(statement.Records) == 0 {
		return nil, ErrEmptyReport
	}
	format := report.Format

	f := excelize.NewFile()
	sheet := "Worker Statement"
	f.SetSheetName("Sheet1", sheet)
	if err := applySheetView(f, sheet, format.RightToLeft); err != nil {
		return nil, err
	}
	styles, err := newSheetStyles(f, format.CurrencySuffix)
	if err != nil {
		return nil, err
	}

	_ = f.SetColWidth(sheet, "A", "B", 14)
	_ = f.SetColWidth(sheet, "C", "E", 16)
	_ = f.SetColWidth(sheet, "F", "F", 24)

	title := "Worker Statement - " + statement.Worker.Name
	if statement.Worker.Trade != "" {
		title += " (" + statement.Worker.Trade + ")"
	}
	_ = f.SetCellValue(sheet, "A1", title)
	_ = f.MergeCell(sheet, "A1", "F1")
	_ = f.SetCellStyle(sheet, "A1", "F1", styles.title)
	_ = f.SetCellValue(sheet, "A2", statement.RangeStart.Format(format.DateLayout)+" - "+statement.RangeEnd.Format(format.DateLayout))
	_ = f.MergeCell(sheet, "A2", "F2")

	headers := []string{"Date", "Status", "Due Wage", "Paid", "Payment", "Notes"}
	for i, header := range headers {
		name, _ := excelize.CoordinatesToCellName(i+1, 4)
		_ = f.SetCellValue(sheet, name, header)
	}
	_ = f.SetCellStyle(sheet, "A4", "F4", styles.header)

	row := 5
	for _, record := range statement.Records {
		_ = f.SetCellValue(sheet, cell("A", row), record.Date.Format(format.DateLayout))
		_ = f.SetCellValue(sheet, cell("B", row), string(record.Status))
		_ = f.SetCellValue(sheet, cell("C", row), record.DueWage)
		_ = f.SetCellValue(sheet, cell("D", row), record.Paid)
		_ = f.SetCellValue(sheet, cell("E", row), string(record.Payment))
		_ = f.SetCellValue(sheet, cell("F", row), record.Notes)
		_ = f.SetCellStyle(sheet, cell("C", row), cell("D", row), styles.currency)
		row++
	}

	_ = f.SetCellValue(sheet, cell("A", row), "Totals")
	_ = f.SetCellValue(sheet, cell("C", row), statement.TotalWagesEarned)
	_ = f.SetCellValue(sheet, cell("D", row), statement.TotalPaidAmount)
	_ = f.SetCellStyle(sheet, cell("A", row), cell("F", row), styles.totals)

	row += 2
	writeSummaryBlock(f, sheet, row, styles, [][2]any{
		{"Work Days", statement.TotalWorkDays},
		{"Wages Earned", statement.TotalWagesEarned},
		{"Total Paid", statement.TotalPaidAmount},
		{"Transfers", statement.TotalTransfers},
		{"Remaining Balance", statement.RemainingBalance},
		{"Paid Ratio", statement.PaidRatio},
		{"Data Warnings", diagnosticsTotal},
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type sheetStyles struct {
	title    int
	header   int
	totals   int
	currency int
}

func newSheetStyles(f *excelize.File, currencySuffix string) (sheetStyles, error) {
	var styles sheetStyles
	var err error
	styles.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return styles, err
	}
	styles.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDE6F0"}},
	})
	if err != nil {
		return styles, err
	}
	// Zero decimal places with the project currency as suffix.
	numFmt := fmt.Sprintf("#,##0 \"%s\"", currencySuffix)
	styles.totals, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F0E6C8"}},
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return styles, err
	}
	styles.currency, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	return styles, err
}

func applySheetView(f *excelize.File, sheet string, rightToLeft bool) error {
	if !rightToLeft {
		return nil
	}
	rtl := true
	return f.SetSheetView(sheet, -1, &excelize.ViewOptions{RightToLeft: &rtl})
}

func writeSummaryBlock(f *excelize.File, sheet string, row int, styles sheetStyles, lines [][2]any) {
	for _, line := range lines {
		_ = f.SetCellValue(sheet, cell("A", row), line[0])
		_ = f.SetCellValue(sheet, cell("B", row), line[1])
		if _, ok := line[1].(float64); ok {
			_ = f.SetCellStyle(sheet, cell("B", row), cell("B", row), styles.currency)
		}
		row++
	}
}

func cell(column string, row int) string {
	return fmt.Sprintf("%s%d", column, row)
}
