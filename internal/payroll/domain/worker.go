package payroll

import (
	"time"

	ledger "siteledger/internal/ledger/domain"
)

// AttendanceStatus is the recorded presence for one day.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusHalfDay AttendanceStatus = "half_day"
	StatusAbsent  AttendanceStatus = "absent"
)

// NormalizeAttendanceStatus maps a raw status string onto the known set.
// Unrecognized values are treated as absent so they never inflate the
// work-day count.
func NormalizeAttendanceStatus(raw string) AttendanceStatus {
	switch AttendanceStatus(raw) {
	case StatusPresent, StatusHalfDay, StatusAbsent:
		return AttendanceStatus(raw)
	default:
		return StatusAbsent
	}
}

// Worker is the master record a statement is built for.
type Worker struct {
	ID        string  `json:"id"`
	TenantID  string  `json:"-"`
	Name      string  `json:"name"`
	Trade     string  `json:"trade"`
	DailyWage float64 `json:"daily_wage"`
}

// AttendanceRecord is the strict form of a raw attendance row, coerced
// at the normalization boundary.
type AttendanceRecord struct {
	SourceID  string           `json:"source_id"`
	WorkerID  string           `json:"worker_id"`
	ProjectID string           `json:"project_id"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
	Wage      float64          `json:"wage"`
	Paid      float64          `json:"paid"`
	Notes     string           `json:"notes,omitempty"`
}

// Transfer is a payment sent on behalf of a worker to a third party
// (family, bank, cash pickup). Informational: it does not reduce the
// earned-minus-paid balance.
type Transfer struct {
	SourceID  string    `json:"source_id"`
	WorkerID  string    `json:"worker_id"`
	Date      time.Time `json:"date"`
	Amount    float64   `json:"amount"`
	Recipient string    `json:"recipient"`
	Method    string    `json:"method"`
}

// TransferRow is a raw worker transfer record from the data layer.
type TransferRow struct {
	ID            string `json:"id"`
	WorkerID      string `json:"worker_id"`
	Date          string `json:"date"`
	Amount        any    `json:"amount"`
	RecipientName string `json:"recipient_name"`
	Method        string `json:"method"`
}

// NormalizeAttendanceRecord coerces a raw attendance row into the strict
// shape. The second return value is false when the date is unusable; the
// row then cannot be bucketed into any range and is reported through the
// diagnostics tally instead.
func NormalizeAttendanceRecord(row ledger.AttendanceRow, diag *ledger.Diagnostics) (AttendanceRecord, bool) {
	record := AttendanceRecord{
		SourceID:  row.ID,
		WorkerID:  row.WorkerID,
		ProjectID: row.ProjectID,
		Date:      ledger.ParseDay(row.Date, diag),
		Status:    NormalizeAttendanceStatus(row.Status),
		Paid:      ledger.CoerceAmount(row.PaidAmount, diag),
		Notes:     row.Notes,
	}
	// A missing explicit wage is the normal fallback case, not a
	// data-quality issue; coerce it without counting.
	if row.Wage != nil {
		record.Wage = ledger.CoerceAmount(row.Wage, diag)
	}
	return record, !record.Date.IsZero()
}

// NormalizeTransfer coerces a raw worker transfer row.
func NormalizeTransfer(row TransferRow, diag *ledger.Diagnostics) (Transfer, bool) {
	transfer := Transfer{
		SourceID:  row.ID,
		WorkerID:  row.WorkerID,
		Date:      ledger.ParseDay(row.Date, diag),
		Amount:    ledger.CoerceAmount(row.Amount, diag),
		Recipient: row.RecipientName,
		Method:    row.Method,
	}
	return transfer, !transfer.Date.IsZero()
}
