package ledger

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// PaymentTypeDeferred marks a material purchase acquired on credit.
// Every other payment type (cash, bank, check) is an immediate expense.
const PaymentTypeDeferred = "credit"

// TransferStatusCompleted is the only inter-project transfer status that
// feeds the ledger.
const TransferStatusCompleted = "completed"

// Diagnostics tallies data-quality issues encountered while normalizing.
// Bad rows are repaired, never dropped, so counts stay consistent with
// the raw sources.
type Diagnostics struct {
	BadAmounts        int `json:"bad_amounts"`
	BadDates          int `json:"bad_dates"`
	NegativeAmounts   int `json:"negative_amounts"`
	MissingCategories int `json:"missing_categories"`
}

// Total returns the overall warning count.
func (d *Diagnostics) Total() int {
	if d == nil {
		return 0
	}
	return d.BadAmounts + d.BadDates + d.NegativeAmounts + d.MissingCategories
}

func (d *Diagnostics) badAmount() {
	if d != nil {
		d.BadAmounts++
	}
}

func (d *Diagnostics) badDate() {
	if d != nil {
		d.BadDates++
	}
}

func (d *Diagnostics) negativeAmount() {
	if d != nil {
		d.NegativeAmounts++
	}
}

// Raw source rows as delivered by the data layer. Amounts are loosely
// typed on purpose: the coercion boundary lives here, not in callers.

// AttendanceRow is a raw daily attendance record.
type AttendanceRow struct {
	ID         string `json:"id"`
	WorkerID   string `json:"worker_id"`
	ProjectID  string `json:"project_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	Wage       any    `json:"wage"`
	PaidAmount any    `json:"paid_amount"`
	Notes      string `json:"notes"`
}

// MaterialPurchaseRow is a raw material purchase record.
type MaterialPurchaseRow struct {
	ID           string `json:"id"`
	ProjectID    string `json:"project_id"`
	Date         string `json:"date"`
	MaterialName string `json:"material_name"`
	Quantity     any    `json:"quantity"`
	UnitPrice    any    `json:"unit_price"`
	TotalAmount  any    `json:"total_amount"`
	PaymentType  string `json:"payment_type"`
}

// ExpenseRow is a raw transportation or miscellaneous expense record.
type ExpenseRow struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      any    `json:"amount"`
}

// FundTransferRow is a raw money-in transfer record.
type FundTransferRow struct {
	ID         string `json:"id"`
	ProjectID  string `json:"project_id"`
	Date       string `json:"date"`
	SenderName string `json:"sender_name"`
	Amount     any    `json:"amount"`
}

// InterProjectTransferRow is a raw transfer between two projects.
type InterProjectTransferRow struct {
	ID            string `json:"id"`
	FromProjectID string `json:"from_project_id"`
	ToProjectID   string `json:"to_project_id"`
	Date          string `json:"date"`
	Amount        any    `json:"amount"`
	Status        string `json:"status"`
}

// CoerceAmount converts a loosely typed raw amount into a non-negative
// float64. Unparseable, NaN, infinite and nil values become 0; negative
// values are clamped to 0. The row is never skipped.
func CoerceAmount(value any, diag *Diagnostics) float64 {
	var amount float64
	switch v := value.(type) {
	case nil:
		diag.badAmount()
		return 0
	case float64:
		amount = v
	case float32:
		amount = float64(v)
	case int:
		amount = float64(v)
	case int64:
		amount = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			diag.badAmount()
			return 0
		}
		amount = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			diag.badAmount()
			return 0
		}
		amount = parsed
	default:
		diag.badAmount()
		return 0
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		diag.badAmount()
		return 0
	}
	if amount < 0 {
		diag.negativeAmount()
		return 0
	}
	return amount
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "02/01/2006"}

// ParseDay parses a raw date into a UTC calendar day. The zero time is
// returned when no layout matches; such entries stay in the ledger but
// are excluded from date-range filtering.
func ParseDay(raw string, diag *Diagnostics) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		diag.badDate()
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Day(t)
		}
	}
	diag.badDate()
	return time.Time{}
}

// NormalizeAttendance converts an attendance row into the project wage
// expense for that day. Cash ledger: the amount is what was actually
// paid out, not what was earned.
func NormalizeAttendance(row AttendanceRow, diag *Diagnostics) LedgerEntry {
	return LedgerEntry{
		ProjectID:   row.ProjectID,
		Date:        ParseDay(row.Date, diag),
		Kind:        KindExpense,
		Category:    CategoryWorkerWages,
		Amount:      CoerceAmount(row.PaidAmount, diag),
		Description: row.Notes,
		SourceID:    row.ID,
	}
}

// NormalizeMaterialPurchase converts a purchase row. Purchases on credit
// are Deferred: tracked separately, excluded from cash expense totals.
func NormalizeMaterialPurchase(row MaterialPurchaseRow, diag *Diagnostics) LedgerEntry {
	kind := KindExpense
	if strings.EqualFold(strings.TrimSpace(row.PaymentType), PaymentTypeDeferred) {
		kind = KindDeferred
	}
	return LedgerEntry{
		ProjectID:   row.ProjectID,
		Date:        ParseDay(row.Date, diag),
		Kind:        kind,
		Category:    CategoryMaterials,
		Amount:      CoerceAmount(row.TotalAmount, diag),
		Description: row.MaterialName,
		SourceID:    row.ID,
	}
}

// NormalizeExpense converts a transportation or miscellaneous expense row.
// An empty category is recorded as unknown and counted, not rejected.
func NormalizeExpense(row ExpenseRow, category Category, diag *Diagnostics) LedgerEntry {
	if category == "" {
		category = CategoryUnknown
		if diag != nil {
			diag.MissingCategories++
		}
	}
	return LedgerEntry{
		ProjectID:   row.ProjectID,
		Date:        ParseDay(row.Date, diag),
		Kind:        KindExpense,
		Category:    category,
		Amount:      CoerceAmount(row.Amount, diag),
		Description: row.Description,
		SourceID:    row.ID,
	}
}

// NormalizeFundTransfer converts a money-in transfer row.
func NormalizeFundTransfer(row FundTransferRow, diag *Diagnostics) LedgerEntry {
	return LedgerEntry{
		ProjectID:   row.ProjectID,
		Date:        ParseDay(row.Date, diag),
		Kind:        KindIncome,
		Category:    CategoryFundTransfer,
		Amount:      CoerceAmount(row.Amount, diag),
		Description: row.SenderName,
		SourceID:    row.ID,
	}
}

// NormalizeInterProjectTransfer converts an inter-project transfer row
// from the point of view of projectID. Only completed transfers feed the
// ledger; the destination sees a TransferIn, the source an Expense. The
// second return value is false when the row does not concern projectID.
func NormalizeInterProjectTransfer(row InterProjectTransferRow, projectID string, diag *Diagnostics) (LedgerEntry, bool) {
	if !strings.EqualFold(strings.TrimSpace(row.Status), TransferStatusCompleted) {
		return LedgerEntry{}, false
	}
	entry := LedgerEntry{
		ProjectID: projectID,
		Date:      ParseDay(row.Date, diag),
		Category:  CategoryInterProjectTransfer,
		Amount:    CoerceAmount(row.Amount, diag),
		SourceID:  row.ID,
	}
	switch projectID {
	case row.ToProjectID:
		entry.Kind = KindTransferIn
		entry.Description = "from " + row.FromProjectID
	case row.FromProjectID:
		entry.Kind = KindExpense
		entry.Description = "to " + row.ToProjectID
	default:
		return LedgerEntry{}, false
	}
	return entry, true
}
