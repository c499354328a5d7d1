package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"siteledger/internal/audit"
	"siteledger/internal/auth"
	ledger "siteledger/internal/ledger/domain"
	"siteledger/internal/observability/metrics"
	application "siteledger/internal/report/application"
)

const dateQueryLayout = "2006-01-02"

// ReportProvider produces derived reports from current source rows.
type ReportProvider interface {
	ProjectReport(ctx context.Context, projectID string, from, to time.Time) (*application.ProjectReport, error)
	WorkerReport(ctx context.Context, workerID string, from, to time.Time) (*application.WorkerReport, error)
	ProjectDiagnostics(ctx context.Context, projectID string) (*ledger.Diagnostics, error)
}

// ReportHandler handles report APIs under /api/v1/reports.
type ReportHandler struct {
	provider    ReportProvider
	checker     auth.ProjectTenantChecker
	auditLogger audit.Logger
}

// NewReportHandler constructs a handler.
func NewReportHandler(provider ReportProvider, checker auth.ProjectTenantChecker, auditLogger audit.Logger) (*ReportHandler, error) {
	if provider == nil {
		return nil, errors.New("report handler: nil provider")
	}
	return &ReportHandler{provider: provider, checker: checker, auditLogger: auditLogger}, nil
}

// ServeHTTP routes report requests.
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	switch r.URL.Path {
	case "/api/v1/reports/project":
		h.handleProject(w, r)
	case "/api/v1/reports/project/export.xlsx":
		h.handleProjectExport(w, r, "xlsx")
	case "/api/v1/reports/project/export.pdf":
		h.handleProjectExport(w, r, "pdf")
	case "/api/v1/reports/worker":
		h.handleWorker(w, r)
	case "/api/v1/reports/worker/export.xlsx":
		h.handleWorkerExport(w, r, "xlsx")
	case "/api/v1/reports/worker/export.pdf":
		h.handleWorkerExport(w, r, "pdf")
	case "/api/v1/reports/diagnostics":
		h.handleDiagnostics(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ReportHandler) handleProject(w http.ResponseWriter, r *http.Request) {
	projectID, from, to, ok := h.projectParams(w, r)
	if !ok {
		return
	}
	report, err := h.provider.ProjectReport(r.Context(), projectID, from, to)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

func (h *ReportHandler) handleProjectExport(w http.ResponseWriter, r *http.Request, format string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReportExport(application.KindProjectLedger, format, result, time.Since(start))
	}()

	projectID, from, to, ok := h.projectParams(w, r)
	if !ok {
		result = metrics.ResultError
		return
	}
	report, err := h.provider.ProjectReport(r.Context(), projectID, from, to)
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}

	var data []byte
	switch format {
	case "xlsx":
		data, err = BuildProjectXLSX(report, report.Diagnostics.Total())
	case "pdf":
		data, err = BuildProjectPDF(report, report.Diagnostics.Total())
	default:
		err = application.ErrUnknownKind
	}
	if err != nil {
		result = metrics.ResultError
		respondExportError(w, err)
		return
	}

	filename := ExportFilename(application.KindProjectLedger, report.ProjectName, from, to, format)
	writeAttachment(w, format, filename, data)
	h.logAudit(r, projectID, "report.export", map[string]any{
		"kind":   application.KindProjectLedger,
		"format": format,
		"from":   from.Format(dateQueryLayout),
		"to":     to.Format(dateQueryLayout),
	})
}

func (h *ReportHandler) handleWorker(w http.ResponseWriter, r *http.Request) {
	workerID, from, to, ok := h.workerParams(w, r)
	if !ok {
		return
	}
	report, err := h.provider.WorkerReport(r.Context(), workerID, from, to)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

func (h *ReportHandler) handleWorkerExport(w http.ResponseWriter, r *http.Request, format string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReportExport(application.KindWorkerStatement, format, result, time.Since(start))
	}()

	workerID, from, to, ok := h.workerParams(w, r)
	if !ok {
		result = metrics.ResultError
		return
	}
	report, err := h.provider.WorkerReport(r.Context(), workerID, from, to)
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}

	var data []byte
	switch format {
	case "xlsx":
		data, err = BuildWorkerXLSX(report, report.Diagnostics.Total())
	case "pdf":
		data, err = BuildWorkerPDF(report, report.Diagnostics.Total())
	default:
		err = application.ErrUnknownKind
	}
	if err != nil {
		result = metrics.ResultError
		respondExportError(w, err)
		return
	}

	filename := ExportFilename(application.KindWorkerStatement, report.Statement.Worker.Name, from, to, format)
	writeAttachment(w, format, filename, data)
	h.logAudit(r, "", "report.export", map[string]any{
		"kind":      application.KindWorkerStatement,
		"worker_id": workerID,
		"format":    format,
		"from":      from.Format(dateQueryLayout),
		"to":        to.Format(dateQueryLayout),
	})
}

func (h *ReportHandler) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}
	if !h.ensureProject(w, r, projectID) {
		return
	}
	diag, err := h.provider.ProjectDiagnostics(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(diag)
}

func (h *ReportHandler) projectParams(w http.ResponseWriter, r *http.Request) (string, time.Time, time.Time, bool) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return "", time.Time{}, time.Time{}, false
	}
	from, to, ok := rangeParams(w, r)
	if !ok {
		return "", time.Time{}, time.Time{}, false
	}
	if !h.ensureProject(w, r, projectID) {
		return "", time.Time{}, time.Time{}, false
	}
	return projectID, from, to, true
}

func (h *ReportHandler) workerParams(w http.ResponseWriter, r *http.Request) (string, time.Time, time.Time, bool) {
	workerID := r.URL.Query().Get("worker_id")
	if workerID == "" {
		http.Error(w, "worker_id is required", http.StatusBadRequest)
		return "", time.Time{}, time.Time{}, false
	}
	from, to, ok := rangeParams(w, r)
	if !ok {
		return "", time.Time{}, time.Time{}, false
	}
	tenantID := auth.TenantIDFromContext(r.Context())
	if tenantID != "" && h.checker != nil {
		if err := h.checker.EnsureWorkerTenant(r.Context(), tenantID, workerID); err != nil {
			respondTenantError(w, err)
			return "", time.Time{}, time.Time{}, false
		}
	}
	return workerID, from, to, true
}

func (h *ReportHandler) ensureProject(w http.ResponseWriter, r *http.Request, projectID string) bool {
	tenantID := auth.TenantIDFromContext(r.Context())
	if tenantID == "" || h.checker == nil {
		return true
	}
	if err := h.checker.EnsureProjectTenant(r.Context(), tenantID, projectID); err != nil {
		respondTenantError(w, err)
		return false
	}
	return true
}

func rangeParams(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	from, err := time.Parse(dateQueryLayout, r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(dateQueryLayout, r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func writeAttachment(w http.ResponseWriter, format, filename string, data []byte) {
	switch format {
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *ReportHandler) logAudit(r *http.Request, projectID, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	tenantID := auth.TenantIDFromContext(r.Context())
	if tenantID == "" {
		return
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		TenantID:     tenantID,
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "report",
		ProjectID:    projectID,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondTenantError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, auth.ErrTenantMismatch) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if errors.Is(err, auth.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, "tenant check failed", http.StatusInternalServerError)
}

func respondServiceError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, auth.ErrTenantMismatch):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, application.ErrProjectNotFound), errors.Is(err, application.ErrWorkerNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ledger.ErrInvalidRange):
		http.Error(w, "to must not precede from", http.StatusBadRequest)
	default:
		http.Error(w, "report error", http.StatusInternalServerError)
	}
}

func respondExportError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrEmptyReport) {
		http.Error(w, "nothing to export for the requested range", http.StatusUnprocessableEntity)
		return
	}
	if errors.Is(err, application.ErrUnknownKind) {
		http.Error(w, "unknown report kind", http.StatusBadRequest)
		return
	}
	http.Error(w, "export error", http.StatusInternalServerError)
}
