package services

import (
	"context"
	"fmt"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portsrepo "github.com/commerceos/commerceos_backend/internal/core/ports/repositories"
	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
	"github.com/commerceos/commerceos_backend/internal/utils/accounting"
)

// ReportingService aggregates archived audits and wastage records into
// period statistics. All arithmetic lives in the accounting package; this
// service only loads the inputs.
type ReportingService struct {
	BaseService
	auditRepo   portsrepo.AuditReader
	wastageRepo portsrepo.WastageReader
}

// NewReportingService creates a new ReportingService.
func NewReportingService(authorizer portssvc.OrganizationAuthorizerSvc, ar portsrepo.AuditReader, wr portsrepo.WastageReader) portssvc.ReportingSvcFacade {
	return &ReportingService{
		BaseService: BaseService{OrganizationAuthorizer: authorizer},
		auditRepo:   ar,
		wastageRepo: wr,
	}
}

var _ portssvc.ReportingSvcFacade = (*ReportingService)(nil)

// MonthlyStats aggregates the audits in [from, to] into profitability
// figures. An empty range yields zeroed totals, not an error.
func (s *ReportingService) MonthlyStats(ctx context.Context, userID, organizationID, from, to string) (*domain.MonthlySummary, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	fromT, toT, err := parseDateRange(from, to)
	if err != nil {
		return nil, err
	}

	audits, err := s.auditRepo.ListAuditsByDateRange(ctx, organizationID, fromT, toT)
	if err != nil {
		return nil, fmt.Errorf("failed to load audits: %w", err)
	}

	summary := accounting.CalculateMonthlyStats(audits)
	return &summary, nil
}

// WastageStats totals losses over [from, to].
func (s *ReportingService) WastageStats(ctx context.Context, userID, organizationID, from, to string) (*domain.WastageSummary, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	fromT, toT, err := parseDateRange(from, to)
	if err != nil {
		return nil, err
	}

	records, err := s.wastageRepo.ListWastage(ctx, organizationID, fromT, toT)
	if err != nil {
		return nil, fmt.Errorf("failed to load wastage records: %w", err)
	}

	summary := accounting.CalculateWastageSummary(records)
	return &summary, nil
}
