package application

import (
	"context"
	"errors"
	"time"

	ledger "siteledger/internal/ledger/domain"
	ledgerrepo "siteledger/internal/ledger/infrastructure/postgres"
	"siteledger/internal/observability/metrics"
	payroll "siteledger/internal/payroll/domain"
)

// Report kinds accepted by the service and exporters.
const (
	KindProjectLedger   = "project_ledger"
	KindWorkerStatement = "worker_statement"
)

var (
	// ErrProjectNotFound is returned when the project does not exist.
	ErrProjectNotFound = errors.New("report: project not found")
	// ErrWorkerNotFound is returned when the worker does not exist.
	ErrWorkerNotFound = errors.New("report: worker not found")
	// ErrUnknownKind is returned for an unrecognized report kind.
	ErrUnknownKind = errors.New("report: unknown report kind")
)

// LedgerSource supplies the raw rows a project report is built from.
type LedgerSource interface {
	GetProject(ctx context.Context, projectID string) (*ledgerrepo.Project, error)
	ListAttendance(ctx context.Context, projectID string) ([]ledger.AttendanceRow, error)
	ListMaterialPurchases(ctx context.Context, projectID string) ([]ledger.MaterialPurchaseRow, error)
	ListTransportExpenses(ctx context.Context, projectID string) ([]ledger.ExpenseRow, error)
	ListMiscExpenses(ctx context.Context, projectID string) ([]ledger.ExpenseRow, error)
	ListFundTransfers(ctx context.Context, projectID string) ([]ledger.FundTransferRow, error)
	ListInterProjectTransfers(ctx context.Context, projectID string) ([]ledger.InterProjectTransferRow, error)
}

// PayrollSource supplies the raw rows a worker statement is built from.
type PayrollSource interface {
	GetWorker(ctx context.Context, workerID string) (*payroll.Worker, error)
	ListAttendance(ctx context.Context, workerID string) ([]ledger.AttendanceRow, error)
	ListTransfers(ctx context.Context, workerID string) ([]payroll.TransferRow, error)
}

// ProjectReport wraps the aggregated summary with everything an export
// needs: display name, formatting rules, and the data-quality tally.
type ProjectReport struct {
	ProjectName string                      `json:"project_name"`
	Summary     ledger.ProjectLedgerSummary `json:"summary"`
	Diagnostics ledger.Diagnostics          `json:"diagnostics"`
	Format      Format                      `json:"-"`
}

// WorkerReport wraps a worker statement for rendering.
type WorkerReport struct {
	Statement   payroll.WorkerStatement `json:"statement"`
	Diagnostics ledger.Diagnostics      `json:"diagnostics"`
	Format      Format                  `json:"-"`
}

// ReportService turns raw source rows into derived reports. It holds no
// state beyond its collaborators; every report is recomputed from the
// current rows.
type ReportService struct {
	ledgerSource  LedgerSource
	payrollSource PayrollSource
	formats       FormatConfig
}

// NewReportService constructs a service.
func NewReportService(ledgerSource LedgerSource, payrollSource PayrollSource, formats FormatConfig) (*ReportService, error) {
	if ledgerSource == nil {
		return nil, errors.New("report service: nil ledger source")
	}
	if payrollSource == nil {
		return nil, errors.New("report service: nil payroll source")
	}
	return &ReportService{ledgerSource: ledgerSource, payrollSource: payrollSource, formats: formats}, nil
}

// ProjectReport aggregates all transaction sources of a project into a
// date-ordered ledger summary for [from, to].
func (s *ReportService) ProjectReport(ctx context.Context, projectID string, from, to time.Time) (*ProjectReport, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReportGenerate(KindProjectLedger, result, time.Since(start))
	}()

	project, err := s.ledgerSource.GetProject(ctx, projectID)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if project == nil {
		result = metrics.ResultError
		return nil, ErrProjectNotFound
	}

	var diag ledger.Diagnostics
	entries, err := s.collectEntries(ctx, projectID, &diag)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	summary, err := ledger.Aggregate(entries, projectID, from, to)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	recordWarnings(diag)

	return &ProjectReport{
		ProjectName: project.Name,
		Summary:     *summary,
		Diagnostics: diag,
		Format:      s.formats.FormatForProject(projectID),
	}, nil
}

// WorkerReport builds the earned/paid/transferred statement of a worker
// for [from, to].
func (s *ReportService) WorkerReport(ctx context.Context, workerID string, from, to time.Time) (*WorkerReport, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReportGenerate(KindWorkerStatement, result, time.Since(start))
	}()

	worker, err := s.payrollSource.GetWorker(ctx, workerID)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if worker == nil {
		result = metrics.ResultError
		return nil, ErrWorkerNotFound
	}

	var diag ledger.Diagnostics
	attendanceRows, err := s.payrollSource.ListAttendance(ctx, workerID)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	transferRows, err := s.payrollSource.ListTransfers(ctx, workerID)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	attendance := make([]payroll.AttendanceRecord, 0, len(attendanceRows))
	for _, row := range attendanceRows {
		record, ok := payroll.NormalizeAttendanceRecord(row, &diag)
		if !ok {
			continue
		}
		attendance = append(attendance, record)
	}
	transfers := make([]payroll.Transfer, 0, len(transferRows))
	for _, row := range transferRows {
		transfer, ok := payroll.NormalizeTransfer(row, &diag)
		if !ok {
			continue
		}
		transfers = append(transfers, transfer)
	}

	statement, err := payroll.BuildStatement(*worker, attendance, transfers, from, to)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	recordWarnings(diag)

	return &WorkerReport{
		Statement:   *statement,
		Diagnostics: diag,
		Format:      s.formats.Defaults,
	}, nil
}

// ProjectDiagnostics reruns normalization for a project and returns the
// data-quality tally alone.
func (s *ReportService) ProjectDiagnostics(ctx context.Context, projectID string) (*ledger.Diagnostics, error) {
	project, err := s.ledgerSource.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	var diag ledger.Diagnostics
	if _, err := s.collectEntries(ctx, projectID, &diag); err != nil {
		return nil, err
	}
	return &diag, nil
}

// collectEntries normalizes every transaction source of a project into
// one entry slice. Ordering is the aggregator's job, not ours.
func (s *ReportService) collectEntries(ctx context.Context, projectID string, diag *ledger.Diagnostics) ([]ledger.LedgerEntry, error) {
	var entries []ledger.LedgerEntry

	attendance, err := s.ledgerSource.ListAttendance(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, row := range attendance {
		entries = append(entries, ledger.NormalizeAttendance(row, diag))
	}

	purchases, err := s.ledgerSource.ListMaterialPurchases(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, row := range purchases {
		entries = append(entries, ledger.NormalizeMaterialPurchase(row, diag))
	}

	transport, err := s.ledgerSource.ListTransportExpenses(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, row := range transport {
		entries = append(entries, ledger.NormalizeExpense(row, ledger.CategoryTransportation, diag))
	}

	misc, err := s.ledgerSource.ListMiscExpenses(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, row := range misc {
		entries = append(entries, ledger.NormalizeExpense(row, ledger.CategoryMiscellaneous, diag))
	}

	funds, err := s.ledgerSource.ListFundTransfers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, row := range funds {
		entries = append(entries, ledger.NormalizeFundTransfer(row, diag))
	}

	interProject, err := s.ledgerSource.ListInterProjectTransfers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, row := range interProject {
		if entry, ok := ledger.NormalizeInterProjectTransfer(row, projectID, diag); ok {
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

func recordWarnings(diag ledger.Diagnostics) {
	metrics.AddDataQualityWarnings("bad_amount", diag.BadAmounts)
	metrics.AddDataQualityWarnings("bad_date", diag.BadDates)
	metrics.AddDataQualityWarnings("negative_amount", diag.NegativeAmounts)
	metrics.AddDataQualityWarnings("missing_category", diag.MissingCategories)
}
