package dto

import (
	"github.com/commerceos/commerceos_backend/internal/core/domain"
)

// MonthlySummaryResponse wraps the monthly statistics for an organization and
// date range.
type MonthlySummaryResponse struct {
	From    string                `json:"from"`
	To      string                `json:"to"`
	Summary domain.MonthlySummary `json:"summary"`
}

// WastageSummaryResponse wraps the wastage totals for a date range.
type WastageSummaryResponse struct {
	From    string                `json:"from"`
	To      string                `json:"to"`
	Summary domain.WastageSummary `json:"summary"`
}
