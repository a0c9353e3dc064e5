package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portsrepo "github.com/commerceos/commerceos_backend/internal/core/ports/repositories"
	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
	"github.com/commerceos/commerceos_backend/internal/dto"
)

// AuditService handles the archived cash audit records and their reports.
type AuditService struct {
	BaseService
	auditRepo portsrepo.AuditRepositoryFacade
	orgRepo   portsrepo.OrganizationReader
	exporter  *ReportExportService
}

// NewAuditService creates a new AuditService.
func NewAuditService(
	authorizer portssvc.OrganizationAuthorizerSvc,
	ar portsrepo.AuditRepositoryFacade,
	or portsrepo.OrganizationReader,
	exporter *ReportExportService,
) portssvc.AuditSvcFacade {
	return &AuditService{
		BaseService: BaseService{OrganizationAuthorizer: authorizer},
		auditRepo:   ar,
		orgRepo:     or,
		exporter:    exporter,
	}
}

var _ portssvc.AuditSvcFacade = (*AuditService)(nil)

// GetAudit returns a single audit with its full snapshot payload.
func (s *AuditService) GetAudit(ctx context.Context, userID, organizationID, auditID string) (*domain.CashAudit, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.auditRepo.FindAuditByID(ctx, organizationID, auditID)
}

// ListAudits returns the audits in [from, to], newest first.
func (s *AuditService) ListAudits(ctx context.Context, userID, organizationID string, from, to string) ([]domain.CashAudit, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	fromT, toT, err := parseDateRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.auditRepo.ListAuditsByDateRange(ctx, organizationID, fromT, toT)
}

// UpdateAudit patches the only mutable audit fields: date and notes.
func (s *AuditService) UpdateAudit(ctx context.Context, userID, organizationID, auditID string, req dto.UpdateAuditRequest) (*domain.CashAudit, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	var auditDate *time.Time
	if req.AuditDate != nil {
		parsed, err := parseDate("auditDate", *req.AuditDate)
		if err != nil {
			return nil, err
		}
		auditDate = &parsed
	}

	if err := s.auditRepo.UpdateAuditMeta(ctx, organizationID, auditID, auditDate, req.Notes); err != nil {
		s.LogError(ctx, err, "Failed to update audit", slog.String("audit_id", auditID))
		return nil, err
	}
	return s.auditRepo.FindAuditByID(ctx, organizationID, auditID)
}

// DeleteAudit removes an archived audit; ADMIN only.
func (s *AuditService) DeleteAudit(ctx context.Context, userID, organizationID, auditID string) error {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.auditRepo.DeleteAudit(ctx, organizationID, auditID); err != nil {
		s.LogError(ctx, err, "Failed to delete audit", slog.String("audit_id", auditID))
		return err
	}
	s.LogInfo(ctx, "Audit deleted", slog.String("audit_id", auditID), slog.String("deleted_by", userID))
	return nil
}

// RegenerateReport rebuilds the audit's spreadsheet from the archived
// snapshot, uploads it and patches the stored report URL.
func (s *AuditService) RegenerateReport(ctx context.Context, userID, organizationID, auditID string) (string, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return "", err
	}

	audit, err := s.auditRepo.FindAuditByID(ctx, organizationID, auditID)
	if err != nil {
		return "", err
	}
	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return "", fmt.Errorf("failed to load organization settings: %w", err)
	}

	url, err := s.exporter.ExportAudit(ctx, *audit, org.Settings.Merge())
	if err != nil {
		return "", err
	}
	if err := s.auditRepo.UpdateAuditReportURL(ctx, organizationID, auditID, url); err != nil {
		s.LogError(ctx, err, "Failed to persist regenerated report URL", slog.String("audit_id", auditID))
		return "", fmt.Errorf("failed to persist report URL: %w", err)
	}
	return url, nil
}

// RenderReport builds the spreadsheet in memory and returns it with its
// download filename, bypassing blob storage.
func (s *AuditService) RenderReport(ctx context.Context, userID, organizationID, auditID string) ([]byte, string, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, "", err
	}

	audit, err := s.auditRepo.FindAuditByID(ctx, organizationID, auditID)
	if err != nil {
		return nil, "", err
	}
	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load organization settings: %w", err)
	}
	settings := org.Settings.Merge()

	data, err := s.exporter.BuildWorkbook(*audit, settings)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build report workbook: %w", err)
	}
	return data, ReportFileName(*audit, settings), nil
}
