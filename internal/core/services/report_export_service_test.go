package services_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	"github.com/commerceos/commerceos_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleAudit() domain.CashAudit {
	session := domain.CashSession{
		SessionID:      uuid.NewString(),
		OrganizationID: uuid.NewString(),
		SessionDate:    time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Status:         domain.SessionClosed,
		OpeningCash:    decimal.NewFromInt(1000),
	}
	return domain.CashAudit{
		AuditID:        uuid.NewString(),
		OrganizationID: session.OrganizationID,
		AuditDate:      session.SessionDate,
		Payload: domain.SessionSnapshot{
			Session: session,
			Sales: []domain.Sale{
				{
					SaleID:     "sale-1",
					Amount:     decimal.NewFromInt(500),
					Method:     domain.PaymentQR,
					Commission: decimal.NewFromInt(10),
					SoldAt:     time.Date(2026, 3, 14, 14, 30, 0, 0, time.UTC),
				},
			},
			Entries: []domain.SessionEntry{
				{Type: domain.EntryExpense, Amount: decimal.NewFromInt(200), Category: domain.CategoryBusiness, Description: "Luz"},
			},
			PhysicalCash:       decimal.NewFromInt(1290),
			TotalIncome:        decimal.NewFromInt(1000),
			TotalSales:         decimal.NewFromInt(500),
			TotalCommissions:   decimal.NewFromInt(10),
			NetSales:           decimal.NewFromInt(490),
			TotalOtherExpenses: decimal.NewFromInt(200),
			TheoreticalBalance: decimal.NewFromInt(1290),
		},
		TotalSales: decimal.NewFromInt(500),
		Difference: decimal.Zero,
	}
}

func TestBuildWorkbook_ThreeSheets(t *testing.T) {
	exporter := services.NewReportExportService(nil)

	data, err := exporter.BuildWorkbook(sampleAudit(), domain.DefaultSettings())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	require.ElementsMatch(t, []string{"Summary", "Sales Detail", "Other Movements"}, f.GetSheetList())

	date, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	require.Equal(t, "2026-03-14", date)

	saleID, err := f.GetCellValue("Sales Detail", "A2")
	require.NoError(t, err)
	require.Equal(t, "sale-1", saleID)

	soldAt, err := f.GetCellValue("Sales Detail", "B2")
	require.NoError(t, err)
	require.Equal(t, "14:30", soldAt)

	method, err := f.GetCellValue("Sales Detail", "C2")
	require.NoError(t, err)
	require.Equal(t, "QR", method)

	expense, err := f.GetCellValue("Other Movements", "C2")
	require.NoError(t, err)
	require.Equal(t, "$ -200", expense)

	provider, err := f.GetCellValue("Other Movements", "E2")
	require.NoError(t, err)
	require.Equal(t, domain.NoProviderLabel, provider)
}

func TestReportFileName_UsesPrefixAndDate(t *testing.T) {
	audit := sampleAudit()
	settings := domain.OrganizationSettings{ReportPrefix: "cierre"}

	name := services.ReportFileName(audit, settings)

	require.Regexp(t, `^cierre-2026-03-14-\d+\.xlsx$`, name)
}

func TestExportAudit_UploadsUnderOrganizationPrefix(t *testing.T) {
	store := new(MockBlobStore)
	exporter := services.NewReportExportService(store)
	audit := sampleAudit()

	store.On("Upload", mock.Anything, mock.MatchedBy(func(name string) bool {
		return bytes.HasPrefix([]byte(name), []byte("reports/"+audit.OrganizationID+"/"))
	}), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", mock.AnythingOfType("[]uint8")).
		Return("https://storage.example.com/r.xlsx", nil).Once()

	url, err := exporter.ExportAudit(context.Background(), audit, domain.DefaultSettings())

	require.NoError(t, err)
	require.Equal(t, "https://storage.example.com/r.xlsx", url)
	store.AssertExpectations(t)
}
