package interfaces

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	ledger "siteledger/internal/ledger/domain"
	application "siteledger/internal/report/application"
)

// BuildProjectPDF renders the same logical sections as the XLSX export
// into a print-ready document. Values are formatted, never recomputed.
func BuildProjectPDF(report *application.ProjectReport, diagnosticsTotal int) ([]byte, error) {
	if report == nil {
		return nil, errors.New("export: nil report")
	}
	summary := report.Summary
	if len(summary.Entries) == 0 {
		return nil, ErrEmptyReport
	}
	format := report.Format

	pdf := newReportPDF(format.RightToLeft)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Project Ledger Statement - "+report.ProjectName)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, summary.RangeStart.Format(format.DateLayout)+" - "+summary.RangeEnd.Format(format.DateLayout))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(22, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Category", "1", 0, "C", false, 0, "")
	pdf.CellFormat(48, 6, "Description", "1", 0, "C", false, 0, "")
	pdf.CellFormat(24, 6, "Income", "1", 0, "C", false, 0, "")
	pdf.CellFormat(24, 6, "Expense", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Deferred", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Balance", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, line := range summary.Entries {
		var income, expense, deferred string
		switch line.Kind {
		case ledger.KindIncome, ledger.KindTransferIn:
			income = money(line.Amount, format.CurrencySuffix)
		case ledger.KindExpense:
			expense = money(line.Amount, format.CurrencySuffix)
		case ledger.KindDeferred:
			deferred = money(line.Amount, format.CurrencySuffix)
		}
		pdf.CellFormat(22, 6, line.Date.Format(format.DateLayout), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, string(line.Category), "1", 0, "C", false, 0, "")
		pdf.CellFormat(48, 6, line.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(24, 6, income, "1", 0, "R", false, 0, "")
		pdf.CellFormat(24, 6, expense, "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, deferred, "1", 0, "R", false, 0, "")
		pdf.CellFormat(22, 6, money(line.Balance, format.CurrencySuffix), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(100, 6, "Totals", "1", 0, "L", true, 0, "")
	pdf.CellFormat(24, 6, money(summary.TotalIncome, format.CurrencySuffix), "1", 0, "R", true, 0, "")
	pdf.CellFormat(24, 6, money(summary.TotalExpenses, format.CurrencySuffix), "1", 0, "R", true, 0, "")
	pdf.CellFormat(20, 6, money(summary.TotalDeferred, format.CurrencySuffix), "1", 0, "R", true, 0, "")
	pdf.CellFormat(22, 6, money(summary.RemainingBalance, format.CurrencySuffix), "1", 0, "R", true, 0, "")
	pdf.Ln(10)

	writePDFSummary(pdf, [][2]string{
		{"Carried Forward", money(summary.CarriedForward, format.CurrencySuffix)},
		{"Total Income", money(summary.TotalIncome, format.CurrencySuffix)},
		{"Total Expenses", money(summary.TotalExpenses, format.CurrencySuffix)},
		{"Total Deferred", money(summary.TotalDeferred, format.CurrencySuffix)},
		{"Remaining Balance", money(summary.RemainingBalance, format.CurrencySuffix)},
		{"Entries", fmt.Sprintf("%d", summary.EntriesCount)},
		{"Data Warnings", fmt.Sprintf("%d", diagnosticsTotal)},
	})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildWorkerPDF renders a worker statement as a print-ready document.
func BuildWorkerPDF(report *application.WorkerReport, diagnosticsTotal int) ([]byte, error) {
	if report == nil {
		return nil, errors.New("export: nil report")
	}
	statement := report.Statement
	if len(statement.Records) == 0 {
		return nil, ErrEmptyReport
	}
	format := report.Format

	pdf := newReportPDF(format.RightToLeft)
	pdf.SetFont("Arial", "B", 14)
	title := "Worker Statement - " + statement.Worker.Name
	if statement.Worker.Trade != "" {
		title += " (" + statement.Worker.Trade + ")"
	}
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, statement.RangeStart.Format(format.DateLayout)+" - "+statement.RangeEnd.Format(format.DateLayout))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(24, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(24, 6, "Status", "1", 0, "C", false, 0, "")
	pdf.CellFormat(28, 6, "Due Wage", "1", 0, "C", false, 0, "")
	pdf.CellFormat(28, 6, "Paid", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Payment", "1", 0, "C", false, 0, "")
	pdf.CellFormat(56, 6, "Notes", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, record := range statement.Records {
		pdf.CellFormat(24, 6, record.Date.Format(format.DateLayout), "1", 0, "C", false, 0, "")
		pdf.CellFormat(24, 6, string(record.Status), "1", 0, "C", false, 0, "")
		pdf.CellFormat(28, 6, money(record.DueWage, format.CurrencySuffix), "1", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, money(record.Paid, format.CurrencySuffix), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, string(record.Payment), "1", 0, "C", false, 0, "")
		pdf.CellFormat(56, 6, record.Notes, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(48, 6, "Totals", "1", 0, "L", true, 0, "")
	pdf.CellFormat(28, 6, money(statement.TotalWagesEarned, format.CurrencySuffix), "1", 0, "R", true, 0, "")
	pdf.CellFormat(28, 6, money(statement.TotalPaidAmount, format.CurrencySuffix), "1", 0, "R", true, 0, "")
	pdf.CellFormat(86, 6, "", "1", 0, "L", true, 0, "")
	pdf.Ln(10)

	writePDFSummary(pdf, [][2]string{
		{"Work Days", fmt.Sprintf("%d", statement.TotalWorkDays)},
		{"Wages Earned", money(statement.TotalWagesEarned, format.CurrencySuffix)},
		{"Total Paid", money(statement.TotalPaidAmount, format.CurrencySuffix)},
		{"Transfers", money(statement.TotalTransfers, format.CurrencySuffix)},
		{"Remaining Balance", money(statement.RemainingBalance, format.CurrencySuffix)},
		{"Paid Ratio", fmt.Sprintf("%.0f%%", statement.PaidRatio*100)},
		{"Data Warnings", fmt.Sprintf("%d", diagnosticsTotal)},
	})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newReportPDF(rightToLeft bool) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFillColor(232, 232, 232)
	pdf.AddPage()
	if rightToLeft {
		pdf.RTL()
	}
	return pdf
}

func writePDFSummary(pdf *gofpdf.Fpdf, lines [][2]string) {
	pdf.SetFont("Arial", "", 10)
	for _, line := range lines {
		pdf.CellFormat(50, 6, line[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, line[1], "", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
}

// money formats an amount with zero decimal places and the project
// currency suffix, matching the spreadsheet number format.
func money(amount float64, suffix string) string {
	return fmt.Sprintf("%.0f %s", amount, suffix)
}
