package ledger

import "time"

// Kind classifies how an entry moves money through the project ledger.
type Kind string

const (
	KindIncome     Kind = "income"
	KindExpense    Kind = "expense"
	KindDeferred   Kind = "deferred"
	KindTransferIn Kind = "transfer_in"
)

// Category is the human-facing label of an entry's origin.
type Category string

const (
	CategoryFundTransfer         Category = "fund_transfer"
	CategoryWorkerWages          Category = "worker_wages"
	CategoryMaterials            Category = "materials"
	CategoryTransportation       Category = "transportation"
	CategoryMiscellaneous        Category = "miscellaneous"
	CategoryInterProjectTransfer Category = "inter_project_transfer"
	CategoryUnknown              Category = "unknown"
)

// LedgerEntry is the normalized form every raw source row is reduced to.
// Amount is always non-negative; Date is a UTC calendar day, zero when
// the raw date could not be parsed.
type LedgerEntry struct {
	ProjectID   string    `json:"project_id"`
	Date        time.Time `json:"date"`
	Kind        Kind      `json:"kind"`
	Category    Category  `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	SourceID    string    `json:"source_id"`
}

// Dated reports whether the entry carries a usable calendar date.
func (e LedgerEntry) Dated() bool { return !e.Date.IsZero() }

// LedgerLine is one entry of a summary with its running balance snapshot.
type LedgerLine struct {
	LedgerEntry
	Balance float64 `json:"balance"`
}

// ProjectLedgerSummary is the aggregated financial record for a project
// over a date range. Derived data: recomputed from source rows on every
// request, never persisted.
type ProjectLedgerSummary struct {
	ProjectID        string       `json:"project_id"`
	RangeStart       time.Time    `json:"range_start"`
	RangeEnd         time.Time    `json:"range_end"`
	TotalIncome      float64      `json:"total_income"`
	TotalExpenses    float64      `json:"total_expenses"`
	TotalDeferred    float64      `json:"total_deferred"`
	CarriedForward   float64      `json:"carried_forward"`
	RemainingBalance float64      `json:"remaining_balance"`
	EntriesCount     int          `json:"entries_count"`
	Entries          []LedgerLine `json:"entries"`
}

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
