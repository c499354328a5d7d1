package payroll

import (
	"sort"
	"time"

	ledger "siteledger/internal/ledger/domain"
)

// StatementRecord is one attendance day of a worker statement, tagged
// with its payment status. Absent days appear with a zero due wage so
// the statement stays a complete day-by-day record.
type StatementRecord struct {
	SourceID  string               `json:"source_id"`
	ProjectID string               `json:"project_id"`
	Date      time.Time            `json:"date"`
	Status    AttendanceStatus     `json:"status"`
	DueWage   float64              `json:"due_wage"`
	Paid      float64              `json:"paid"`
	Payment   ledger.PaymentStatus `json:"payment"`
	Notes     string               `json:"notes,omitempty"`
}

// WorkerStatement is the derived earned/paid/transferred record for one
// worker over a date range. Recomputed on every request.
type WorkerStatement struct {
	Worker           Worker            `json:"worker"`
	RangeStart       time.Time         `json:"range_start"`
	RangeEnd         time.Time         `json:"range_end"`
	TotalWorkDays    int               `json:"total_work_days"`
	TotalWagesEarned float64           `json:"total_wages_earned"`
	TotalPaidAmount  float64           `json:"total_paid_amount"`
	TotalTransfers   float64           `json:"total_transfers"`
	RemainingBalance float64           `json:"remaining_balance"`
	PaidRatio        float64           `json:"paid_ratio"`
	Records          []StatementRecord `json:"records"`
	Transfers        []Transfer        `json:"transfers"`
}

// DueWage resolves the effective daily amount for an attendance record:
// the row's explicit wage when non-zero, the worker's daily wage
// otherwise. Absent days owe nothing. Every place a daily amount is
// displayed must go through this resolution so totals never diverge
// between screens.
func DueWage(record AttendanceRecord, worker Worker) float64 {
	if record.Status == StatusAbsent {
		return 0
	}
	if record.Wage > 0 {
		return record.Wage
	}
	return worker.DailyWage
}

// BuildStatement computes a worker statement over the inclusive range
// [rangeStart, rangeEnd]. Attendance and transfers are filtered to the
// worker and range; a day counts toward TotalWorkDays only when present
// or half-day, while absent days still appear in Records.
func BuildStatement(worker Worker, attendance []AttendanceRecord, transfers []Transfer, rangeStart, rangeEnd time.Time) (*WorkerStatement, error) {
	rangeStart = ledger.Day(rangeStart)
	rangeEnd = ledger.Day(rangeEnd)
	if rangeEnd.Before(rangeStart) {
		return nil, ledger.ErrInvalidRange
	}

	stmt := &WorkerStatement{
		Worker:     worker,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
	}

	for _, record := range attendance {
		if record.WorkerID != worker.ID || !inRange(record.Date, rangeStart, rangeEnd) {
			continue
		}
		due := DueWage(record, worker)
		if record.Status == StatusPresent || record.Status == StatusHalfDay {
			stmt.TotalWorkDays++
			stmt.TotalWagesEarned += due
		}
		// Paid amounts count on every row: a zero-wage day can still
		// record a payment correction.
		stmt.TotalPaidAmount += record.Paid
		stmt.Records = append(stmt.Records, StatementRecord{
			SourceID:  record.SourceID,
			ProjectID: record.ProjectID,
			Date:      record.Date,
			Status:    record.Status,
			DueWage:   due,
			Paid:      record.Paid,
			Payment:   ledger.Classify(record.Paid, due),
			Notes:     record.Notes,
		})
	}

	for _, transfer := range transfers {
		if transfer.WorkerID != worker.ID || !inRange(transfer.Date, rangeStart, rangeEnd) {
			continue
		}
		stmt.TotalTransfers += transfer.Amount
		stmt.Transfers = append(stmt.Transfers, transfer)
	}

	sort.SliceStable(stmt.Records, func(i, j int) bool {
		if !stmt.Records[i].Date.Equal(stmt.Records[j].Date) {
			return stmt.Records[i].Date.Before(stmt.Records[j].Date)
		}
		return stmt.Records[i].SourceID < stmt.Records[j].SourceID
	})
	sort.SliceStable(stmt.Transfers, func(i, j int) bool {
		if !stmt.Transfers[i].Date.Equal(stmt.Transfers[j].Date) {
			return stmt.Transfers[i].Date.Before(stmt.Transfers[j].Date)
		}
		return stmt.Transfers[i].SourceID < stmt.Transfers[j].SourceID
	})

	stmt.RemainingBalance = stmt.TotalWagesEarned - stmt.TotalPaidAmount
	stmt.PaidRatio = ledger.SafeRatio(stmt.TotalPaidAmount, stmt.TotalWagesEarned)
	return stmt, nil
}

func inRange(day, start, end time.Time) bool {
	return !day.Before(start) && !day.After(end)
}
