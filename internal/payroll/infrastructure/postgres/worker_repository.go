package postgres

import (
	"context"
	"database/sql"
	"errors"

	ledger "siteledger/internal/ledger/domain"
	payroll "siteledger/internal/payroll/domain"
)

// WorkerRepository reads worker master data and the raw rows a worker
// statement is built from.
type WorkerRepository struct {
	db *sql.DB
}

// NewWorkerRepository constructs a repository.
func NewWorkerRepository(db *sql.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

// GetWorker fetches a worker master record, nil when absent.
func (r *WorkerRepository) GetWorker(ctx context.Context, workerID string) (*payroll.Worker, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("worker repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, tenant_id, name, COALESCE(trade, ''), COALESCE(daily_wage, 0)
FROM workers
WHERE id = $1
LIMIT 1`, workerID)
	var worker payroll.Worker
	if err := row.Scan(&worker.ID, &worker.TenantID, &worker.Name, &worker.Trade, &worker.DailyWage); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if worker.DailyWage < 0 {
		worker.DailyWage = 0
	}
	return &worker, nil
}

// ListAttendance returns every attendance row for a worker across all
// projects.
func (r *WorkerRepository) ListAttendance(ctx context.Context, workerID string) ([]ledger.AttendanceRow, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("worker repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, worker_id, project_id, to_char(work_date, 'YYYY-MM-DD'), status, wage, paid_amount, COALESCE(notes, '')
FROM attendance
WHERE worker_id = $1
ORDER BY work_date, id`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ledger.AttendanceRow
	for rows.Next() {
		var row ledger.AttendanceRow
		var date sql.NullString
		var wage, paid sql.NullFloat64
		if err := rows.Scan(&row.ID, &row.WorkerID, &row.ProjectID, &date, &row.Status, &wage, &paid, &row.Notes); err != nil {
			return nil, err
		}
		row.Date = date.String
		if wage.Valid {
			row.Wage = wage.Float64
		}
		if paid.Valid {
			row.PaidAmount = paid.Float64
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// ListTransfers returns transfers sent to the worker or the worker's
// named beneficiary. Attribution is by worker id; project-level
// transfers never show up here.
func (r *WorkerRepository) ListTransfers(ctx context.Context, workerID string) ([]payroll.TransferRow, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("worker repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, worker_id, to_char(transfer_date, 'YYYY-MM-DD'), amount, COALESCE(recipient_name, ''), COALESCE(method, '')
FROM worker_transfers
WHERE worker_id = $1
ORDER BY transfer_date, id`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []payroll.TransferRow
	for rows.Next() {
		var row payroll.TransferRow
		var date sql.NullString
		var amount sql.NullFloat64
		if err := rows.Scan(&row.ID, &row.WorkerID, &date, &amount, &row.RecipientName, &row.Method); err != nil {
			return nil, err
		}
		row.Date = date.String
		if amount.Valid {
			row.Amount = amount.Float64
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
