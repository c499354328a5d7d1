package postgres

import (
	"context"
	"database/sql"
	"errors"

	ledger "siteledger/internal/ledger/domain"
)

// Project is the master record reports are scoped to.
type Project struct {
	ID       string
	TenantID string
	Name     string
}

// SourceRepository reads the raw transaction rows a project ledger is
// built from. Dates are selected as text and amounts as nullable
// numerics on purpose: coercion belongs to the normalizer, not to the
// scan loop.
type SourceRepository struct {
	db *sql.DB
}

// NewSourceRepository constructs a repository.
func NewSourceRepository(db *sql.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// GetProject fetches a project master record, nil when absent.
func (r *SourceRepository) GetProject(ctx context.Context, projectID string) (*Project, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("source repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, tenant_id, name
FROM projects
WHERE id = $1
LIMIT 1`, projectID)
	var project Project
	if err := row.Scan(&project.ID, &project.TenantID, &project.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// ListAttendance returns every attendance row for a project.
func (r *SourceRepository) ListAttendance(ctx context.Context, projectID string) ([]ledger.AttendanceRow, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("source repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, worker_id, project_id, to_char(work_date, 'YYYY-MM-DD'), status, wage, paid_amount, COALESCE(notes, '')
FROM attendance
WHERE project_id = $1
ORDER BY work_date, id`, projectID)
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
		row.Wage = nullableAmount(wage)
		row.PaidAmount = nullableAmount(paid)
		result = append(result, row)
	}
	return result, rows.Err()
}

// ListMaterialPurchases returns every material purchase for a project.
func (r *SourceRepository) ListMaterialPurchases(ctx context.Context, projectID string) ([]ledger.MaterialPurchaseRow, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("source repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, project_id, to_char(purchase_date, 'YYYY-MM-DD'), material_name, quantity, unit_price, total_amount, payment_type
FROM material_purchases
WHERE project_id = $1
ORDER BY purchase_date, id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ledger.MaterialPurchaseRow
	for rows.Next() {
		var row ledger.MaterialPurchaseRow
		var date sql.NullString
		var quantity, unitPrice, total sql.NullFloat64
		if err := rows.Scan(&row.ID, &row.ProjectID, &date, &row.MaterialName, &quantity, &unitPrice, &total, &row.PaymentType); err != nil {
			return nil, err
		}
		row.Date = date.String
		row.Quantity = nullableAmount(quantity)
		row.UnitPrice = nullableAmount(unitPrice)
		row.TotalAmount = nullableAmount(total)
		result = append(result, row)
	}
	return result, rows.Err()
}

// ListTransportExpenses returns every transportation expense for a project.
func (r *SourceRepository) ListTransportExpenses(ctx context.Context, projectID string) ([]ledger.ExpenseRow, error) {
	return r.listExpenses(ctx, `
SELECT id, project_id, to_char(expense_date, 'YYYY-MM-DD'), COALESCE(description, ''), amount
FROM transport_expenses
WHERE project_id = $1
ORDER BY expense_date, id`, projectID)
}

// ListMiscExpenses returns every miscellaneous expense for a project.
func (r *SourceRepository) ListMiscExpenses(ctx context.Context, projectID string) ([]ledger.ExpenseRow, error) {
	return r.listExpenses(ctx, `
SELECT id, project_id, to_char(expense_date, 'YYYY-MM-DD'), COALESCE(description, ''), amount
FROM misc_expenses
WHERE project_id = $1
ORDER BY expense_date, id`, projectID)
}

func (r *SourceRepository) listExpenses(ctx context.Context, query, projectID string) ([]ledger.ExpenseRow, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("source repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ledger.ExpenseRow
	for rows.Next() {
		var row ledger.ExpenseRow
		var date sql.NullString
		var amount sql.NullFloat64
		if err := rows.Scan(&row.ID, &row.ProjectID, &date, &row.Description, &amount); err != nil {
			return nil, err
		}
		row.Date = date.String
		row.Amount = nullableAmount(amount)
		result = append(result, row)
	}
	return result, rows.Err()
}

// ListFundTransfers returns every money-in transfer for a project.
func (r *SourceRepository) ListFundTransfers(ctx context.Context, projectID string) ([]ledger.FundTransferRow, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("source repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, project_id, to_char(transfer_date, 'YYYY-MM-DD'), COALESCE(sender_name, ''), amount
FROM fund_transfers
WHERE project_id = $1
ORDER BY transfer_date, id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ledger.FundTransferRow
	for rows.Next() {
		var row ledger.FundTransferRow
		var date sql.NullString
		var amount sql.NullFloat64
		if err := rows.Scan(&row.ID, &row.ProjectID, &date, &row.SenderName, &amount); err != nil {
			return nil, err
		}
		row.Date = date.String
		row.Amount = nullableAmount(amount)
		result = append(result, row)
	}
	return result, rows.Err()
}

// ListInterProjectTransfers returns transfers where the project is
// either side. Status filtering stays in the normalizer so incomplete
// transfers remain visible to diagnostics.
func (r *SourceRepository) ListInterProjectTransfers(ctx context.Context, projectID string) ([]ledger.InterProjectTransferRow, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("source repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, from_project_id, to_project_id, to_char(transfer_date, 'YYYY-MM-DD'), amount, status
FROM project_transfers
WHERE from_project_id = $1 OR to_project_id = $1
ORDER BY transfer_date, id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ledger.InterProjectTransferRow
	for rows.Next() {
		var row ledger.InterProjectTransferRow
		var date sql.NullString
		var amount sql.NullFloat64
		if err := rows.Scan(&row.ID, &row.FromProjectID, &row.ToProjectID, &date, &amount, &row.Status); err != nil {
			return nil, err
		}
		row.Date = date.String
		row.Amount = nullableAmount(amount)
		result = append(result, row)
	}
	return result, rows.Err()
}

func nullableAmount(v sql.NullFloat64) any {
	if !v.Valid {
		return nil
	}
	return v.Float64
}
