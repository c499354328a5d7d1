package payroll

import (
	"testing"
	"time"

	ledger "siteledger/internal/ledger/domain"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func attendance(id, date string, status AttendanceStatus, wage, paid float64) AttendanceRecord {
	return AttendanceRecord{
		SourceID: id,
		WorkerID: "w-1",
		Date:     day(date),
		Status:   status,
		Wage:     wage,
		Paid:     paid,
	}
}

func TestBuildStatementTotalsAndStatuses(t *testing.T) {
	worker := Worker{ID: "w-1", Name: "Hassan", Trade: "mason", DailyWage: 200}
	records := []AttendanceRecord{
		attendance("a1", "2025-08-01", StatusPresent, 0, 200),
		attendance("a2", "2025-08-02", StatusPresent, 0, 100),
	}
	stmt, err := BuildStatement(worker, records, nil, day("2025-08-01"), day("2025-08-31"))
	if err != nil {
		t.Fatalf("build statement: %v", err)
	}
	if stmt.TotalWorkDays != 2 {
		t.Fatalf("work days = %d, want 2", stmt.TotalWorkDays)
	}
	if stmt.TotalWagesEarned != 400 {
		t.Fatalf("wages earned = %v, want 400", stmt.TotalWagesEarned)
	}
	if stmt.TotalPaidAmount != 300 {
		t.Fatalf("paid = %v, want 300", stmt.TotalPaidAmount)
	}
	if stmt.Records[0].Payment != ledger.FullyPaid {
		t.Fatalf("day 1 status = %q, want fully paid", stmt.Records[0].Payment)
	}
	if stmt.Records[1].Payment != ledger.PartiallyPaid {
		t.Fatalf("day 2 status = %q, want partially paid", stmt.Records[1].Payment)
	}
	if stmt.RemainingBalance != 100 {
		t.Fatalf("remaining = %v, want 100", stmt.RemainingBalance)
	}
	if stmt.PaidRatio != 0.75 {
		t.Fatalf("paid ratio = %v, want 0.75", stmt.PaidRatio)
	}
}

func TestBuildStatementWageFallback(t *testing.T) {
	worker := Worker{ID: "w-1", DailyWage: 180}
	records := []AttendanceRecord{
		attendance("a1", "2025-08-01", StatusPresent, 250, 0), // explicit wage wins
		attendance("a2", "2025-08-02", StatusPresent, 0, 0),   // fallback to daily wage
	}
	stmt, err := BuildStatement(worker, records, nil, day("2025-08-01"), day("2025-08-31"))
	if err != nil {
		t.Fatalf("build statement: %v", err)
	}
	if stmt.TotalWagesEarned != 430 {
		t.Fatalf("wages earned = %v, want 430", stmt.TotalWagesEarned)
	}
	if stmt.Records[0].DueWage != 250 || stmt.Records[1].DueWage != 180 {
		t.Fatalf("due wages = %v, %v; want 250, 180", stmt.Records[0].DueWage, stmt.Records[1].DueWage)
	}
}

func TestBuildStatementAbsentDaysVisibleButNotCounted(t *testing.T) {
	worker := Worker{ID: "w-1", DailyWage: 200}
	records := []AttendanceRecord{
		attendance("a1", "2025-08-01", StatusPresent, 0, 200),
		attendance("a2", "2025-08-02", StatusAbsent, 0, 0),
		attendance("a3", "2025-08-03", StatusHalfDay, 100, 100),
	}
	stmt, err := BuildStatement(worker, records, nil, day("2025-08-01"), day("2025-08-31"))
	if err != nil {
		t.Fatalf("build statement: %v", err)
	}
	if stmt.TotalWorkDays != 2 {
		t.Fatalf("work days = %d, want 2 (absent excluded)", stmt.TotalWorkDays)
	}
	if len(stmt.Records) != 3 {
		t.Fatalf("records = %d, want 3 (absent visible)", len(stmt.Records))
	}
	absent := stmt.Records[1]
	if absent.DueWage != 0 {
		t.Fatalf("absent day owes %v, want 0", absent.DueWage)
	}
	if absent.Payment != ledger.FullyPaid {
		t.Fatalf("absent day with nothing owed = %q, want settled", absent.Payment)
	}
}

func TestBuildStatementPaidOnZeroWageDay(t *testing.T) {
	// A payment correction on an absent day still counts toward paid.
	worker := Worker{ID: "w-1", DailyWage: 200}
	records := []AttendanceRecord{
		attendance("a1", "2025-08-01", StatusAbsent, 0, 50),
	}
	stmt, err := BuildStatement(worker, records, nil, day("2025-08-01"), day("2025-08-31"))
	if err != nil {
		t.Fatalf("build statement: %v", err)
	}
	if stmt.TotalPaidAmount != 50 {
		t.Fatalf("paid = %v, want 50", stmt.TotalPaidAmount)
	}
	if stmt.RemainingBalance != -50 {
		t.Fatalf("remaining = %v, want -50 (overpaid)", stmt.RemainingBalance)
	}
}

func TestBuildStatementFiltersWorkerAndRange(t *testing.T) {
	worker := Worker{ID: "w-1", DailyWage: 200}
	other := attendance("x1", "2025-08-01", StatusPresent, 0, 999)
	other.WorkerID = "w-2"
	records := []AttendanceRecord{
		other,
		attendance("a1", "2025-07-31", StatusPresent, 0, 200), // before range
		attendance("a2", "2025-08-01", StatusPresent, 0, 200),
	}
	transfers := []Transfer{
		{SourceID: "t1", WorkerID: "w-1", Date: day("2025-08-10"), Amount: 150, Recipient: "family"},
		{SourceID: "t2", WorkerID: "w-2", Date: day("2025-08-10"), Amount: 500},
		{SourceID: "t3", WorkerID: "w-1", Date: day("2025-09-10"), Amount: 75},
	}
	stmt, err := BuildStatement(worker, records, transfers, day("2025-08-01"), day("2025-08-31"))
	if err != nil {
		t.Fatalf("build statement: %v", err)
	}
	if len(stmt.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(stmt.Records))
	}
	if stmt.TotalTransfers != 150 {
		t.Fatalf("transfers = %v, want 150", stmt.TotalTransfers)
	}
}

func TestBuildStatementZeroEarnedRatio(t *testing.T) {
	worker := Worker{ID: "w-1", DailyWage: 0}
	records := []AttendanceRecord{
		attendance("a1", "2025-08-01", StatusAbsent, 0, 0),
	}
	stmt, err := BuildStatement(worker, records, nil, day("2025-08-01"), day("2025-08-31"))
	if err != nil {
		t.Fatalf("build statement: %v", err)
	}
	if stmt.PaidRatio != 0 {
		t.Fatalf("paid ratio with zero earned = %v, want 0", stmt.PaidRatio)
	}
}

func TestBuildStatementInvalidRange(t *testing.T) {
	worker := Worker{ID: "w-1"}
	if _, err := BuildStatement(worker, nil, nil, day("2025-08-31"), day("2025-08-01")); err != ledger.ErrInvalidRange {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestNormalizeAttendanceRecord(t *testing.T) {
	var diag ledger.Diagnostics
	record, ok := NormalizeAttendanceRecord(ledger.AttendanceRow{
		ID: "a1", WorkerID: "w-1", ProjectID: "p-1",
		Date: "2025-08-01", Status: "present", Wage: 250.0, PaidAmount: 100.0,
	}, &diag)
	if !ok {
		t.Fatalf("expected usable record")
	}
	if record.Wage != 250 || record.Paid != 100 {
		t.Fatalf("unexpected record %+v", record)
	}

	// Missing wage is the fallback case, not a warning.
	record, ok = NormalizeAttendanceRecord(ledger.AttendanceRow{
		ID: "a2", WorkerID: "w-1", Date: "2025-08-02", Status: "half_day", PaidAmount: 0.0,
	}, &diag)
	if !ok || record.Wage != 0 {
		t.Fatalf("unexpected record %+v ok=%v", record, ok)
	}
	if diag.Total() != 0 {
		t.Fatalf("warnings = %d, want 0", diag.Total())
	}

	// Unknown status must not inflate work days.
	record, _ = NormalizeAttendanceRecord(ledger.AttendanceRow{
		ID: "a3", WorkerID: "w-1", Date: "2025-08-03", Status: "vacation", PaidAmount: 0.0,
	}, &diag)
	if record.Status != StatusAbsent {
		t.Fatalf("unknown status normalized to %q, want absent", record.Status)
	}

	if _, ok := NormalizeAttendanceRecord(ledger.AttendanceRow{ID: "a4", WorkerID: "w-1", Date: "garbage"}, &diag); ok {
		t.Fatalf("undated record must be excluded")
	}
	if diag.BadDates != 1 {
		t.Fatalf("bad dates = %d, want 1", diag.BadDates)
	}
}
