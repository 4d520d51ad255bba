package handler

import (
	"context"
	"net/http"

	"github.com/hvilla/gastoledger/internal/usecase"
)

// ReportService defines the behavior needed by LedgerHandler.
type ReportService interface {
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// LedgerHandler handles ledger-wide reporting requests.
type LedgerHandler struct {
	reportUC ReportService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(reportUC ReportService) *LedgerHandler {
	return &LedgerHandler{reportUC: reportUC}
}

// Consistency regenerates every stored journal and reports whether the
// ledger balances.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}
