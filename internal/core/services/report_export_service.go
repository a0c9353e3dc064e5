package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportExportService renders a closed day's audit into an xlsx workbook and
// stores it in blob storage.
type ReportExportService struct {
	BaseService
	reports portssvc.BlobStore
}

// NewReportExportService creates a new ReportExportService.
func NewReportExportService(reports portssvc.BlobStore) *ReportExportService {
	return &ReportExportService{reports: reports}
}

// ExportAudit builds the workbook and uploads it, returning the public URL.
// The object name carries a timestamp so regenerated reports never collide
// with stale cached copies.
func (s *ReportExportService) ExportAudit(ctx context.Context, audit domain.CashAudit, settings domain.OrganizationSettings) (string, error) {
	data, err := s.BuildWorkbook(audit, settings)
	if err != nil {
		return "", fmt.Errorf("failed to build report workbook: %w", err)
	}

	objectName := fmt.Sprintf("reports/%s/%s", audit.OrganizationID, ReportFileName(audit, settings))
	url, err := s.reports.Upload(ctx, objectName, xlsxContentType, data)
	if err != nil {
		s.LogError(ctx, err, "Failed to upload audit report", slog.String("audit_id", audit.AuditID))
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	s.LogInfo(ctx, "Audit report exported", slog.String("audit_id", audit.AuditID), slog.String("report_url", url))
	return url, nil
}

// ReportFileName returns the download filename for an audit's report, e.g.
// "arqueo-2026-03-14-1757800000.xlsx".
func ReportFileName(audit domain.CashAudit, settings domain.OrganizationSettings) string {
	prefix := settings.ReportPrefix
	if prefix == "" {
		prefix = domain.DefaultSettings().ReportPrefix
	}
	return fmt.Sprintf("%s-%s-%d.xlsx", prefix, audit.AuditDate.Format("2006-01-02"), time.Now().Unix())
}

// BuildWorkbook renders the audit snapshot into a three-sheet workbook:
// a summary of the day's totals, the individual sales, and the income/expense
// movements.
func (s *ReportExportService) BuildWorkbook(audit domain.CashAudit, settings domain.OrganizationSettings) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	currency := settings.CurrencySymbol
	if currency == "" {
		currency = domain.DefaultSettings().CurrencySymbol
	}
	money := func(v fmt.Stringer) string {
		return fmt.Sprintf("%s %s", currency, v.String())
	}
	snapshot := audit.Payload

	const summarySheet = "Summary"
	f.SetSheetName("Sheet1", summarySheet)

	header, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	summaryRows := [][]interface{}{
		{"Date", audit.AuditDate.Format("2006-01-02")},
		{"Opening cash", money(snapshot.Session.OpeningCash)},
		{"Opening digital", money(snapshot.Session.OpeningDigital)},
		{"Total income", money(snapshot.TotalIncome)},
		{"Total sales", money(snapshot.TotalSales)},
		{"Commissions", money(snapshot.TotalCommissions)},
		{"Net sales", money(snapshot.NetSales)},
		{"Expenses", money(snapshot.TotalOtherExpenses)},
		{"Theoretical balance", money(snapshot.TheoreticalBalance)},
		{"Physical cash", money(snapshot.PhysicalCash)},
		{"Physical digital", money(snapshot.PhysicalDigital)},
		{"Difference", money(audit.Difference)},
	}
	for i, row := range summaryRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetCellStyle(summarySheet, "A1", "A12", header)
	if audit.Notes != "" {
		_ = f.SetSheetRow(summarySheet, "A14", &[]interface{}{"Notes", audit.Notes})
	}
	_ = f.SetColWidth(summarySheet, "A", "B", 24)

	const salesSheet = "Sales Detail"
	if _, err := f.NewSheet(salesSheet); err != nil {
		return nil, err
	}
	salesHeader := []interface{}{"ID", "Time", "Method", "Amount", "Commission", "Credit", "Description"}
	if err := f.SetSheetRow(salesSheet, "A1", &salesHeader); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(salesSheet, "A1", "G1", header)
	for i, sale := range snapshot.Sales {
		credit := ""
		if sale.IsCredit {
			credit = "Fiado"
		}
		row := []interface{}{
			sale.SaleID,
			sale.SoldAt.Format("15:04"),
			sale.Method.Label(),
			money(sale.Amount),
			money(sale.Commission),
			credit,
			sale.Description,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(salesSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(salesSheet, "A", "G", 18)

	const movementsSheet = "Other Movements"
	if _, err := f.NewSheet(movementsSheet); err != nil {
		return nil, err
	}
	movementsHeader := []interface{}{"#", "Type", "Amount", "Category", "Provider", "Description"}
	if err := f.SetSheetRow(movementsSheet, "A1", &movementsHeader); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(movementsSheet, "A1", "F1", header)
	for i, entry := range snapshot.Entries {
		provider := entry.ProviderName
		if entry.Type == domain.EntryExpense && provider == "" {
			provider = domain.NoProviderLabel
		}
		// Expenses render negative so the column sums to the day's net movement.
		amount := entry.Amount
		if entry.Type == domain.EntryExpense {
			amount = amount.Neg()
		}
		row := []interface{}{
			i + 1,
			string(entry.Type),
			money(amount),
			string(entry.Category),
			provider,
			entry.Description,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(movementsSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(movementsSheet, "A", "F", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
