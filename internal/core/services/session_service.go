package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/commerceos/commerceos_backend/internal/apperrors"
	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portsrepo "github.com/commerceos/commerceos_backend/internal/core/ports/repositories"
	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/commerceos/commerceos_backend/internal/utils/accounting"
	"github.com/google/uuid"
)

// SessionService handles business logic for cash sessions, their line items
// and the close-of-day flow.
type SessionService struct {
	BaseService
	sessionRepo  portsrepo.SessionRepositoryFacade
	auditRepo    portsrepo.AuditRepositoryFacade
	orgRepo      portsrepo.OrganizationReader
	providerRepo portsrepo.ProviderReader
	exporter     *ReportExportService
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	authorizer portssvc.OrganizationAuthorizerSvc,
	sr portsrepo.SessionRepositoryFacade,
	ar portsrepo.AuditRepositoryFacade,
	or portsrepo.OrganizationReader,
	pr portsrepo.ProviderReader,
	exporter *ReportExportService,
) portssvc.SessionSvcFacade {
	return &SessionService{
		BaseService:  BaseService{OrganizationAuthorizer: authorizer},
		sessionRepo:  sr,
		auditRepo:    ar,
		orgRepo:      or,
		providerRepo: pr,
		exporter:     exporter,
	}
}

var _ portssvc.SessionSvcFacade = (*SessionService)(nil)

// OpenSession opens the day's cash session. The repository's partial unique
// index on OPEN sessions turns a double-open into ErrDuplicate.
func (s *SessionService) OpenSession(ctx context.Context, userID, organizationID string, req dto.OpenSessionRequest) (*domain.CashSession, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	now := time.Now()
	sessionDate := now.Truncate(24 * time.Hour)
	if req.SessionDate != "" {
		parsed, err := parseDate("sessionDate", req.SessionDate)
		if err != nil {
			return nil, err
		}
		sessionDate = parsed
	}

	session := domain.CashSession{
		SessionID:      uuid.NewString(),
		OrganizationID: organizationID,
		SessionDate:    sessionDate,
		Status:         domain.SessionOpen,
		OpeningCash:    req.OpeningCash,
		OpeningDigital: req.OpeningDigital,
		Version:        1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.sessionRepo.SaveSession(ctx, session); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: an open session already exists", apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to open session", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	s.LogInfo(ctx, "Cash session opened", slog.String("session_id", session.SessionID), slog.String("organization_id", organizationID))
	return &session, nil
}

// GetCurrentSession returns the OPEN session with its line items.
func (s *SessionService) GetCurrentSession(ctx context.Context, userID, organizationID string) (*domain.CashSession, []domain.Sale, []domain.SessionEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, nil, nil, err
	}
	session, err := s.sessionRepo.FindOpenSession(ctx, organizationID)
	if err != nil {
		return nil, nil, nil, err
	}
	return s.loadLineItems(ctx, session)
}

// GetSession returns a session by ID with its line items.
func (s *SessionService) GetSession(ctx context.Context, userID, organizationID, sessionID string) (*domain.CashSession, []domain.Sale, []domain.SessionEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, nil, nil, err
	}
	session, err := s.sessionRepo.FindSessionByID(ctx, organizationID, sessionID)
	if err != nil {
		return nil, nil, nil, err
	}
	return s.loadLineItems(ctx, session)
}

func (s *SessionService) loadLineItems(ctx context.Context, session *domain.CashSession) (*domain.CashSession, []domain.Sale, []domain.SessionEntry, error) {
	sales, err := s.sessionRepo.ListSales(ctx, session.SessionID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list sales: %w", err)
	}
	entries, err := s.sessionRepo.ListEntries(ctx, session.SessionID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return session, sales, entries, nil
}

// AddSale records a sale against the OPEN session. The sale's commission is
// derived from the organization's commission percentage for the payment
// method at recording time.
func (s *SessionService) AddSale(ctx context.Context, userID, organizationID string, req dto.AddSaleRequest) (*domain.Sale, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	if !req.Method.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, req.Method)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	session, err := s.sessionRepo.FindOpenSession(ctx, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no open session to record the sale against", apperrors.ErrSessionClosed)
		}
		return nil, err
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load organization settings: %w", err)
	}
	commission := accounting.CommissionFor(org.Settings.Merge(), req.Method, req.Amount)

	sale := domain.Sale{
		SaleID:         uuid.NewString(),
		SessionID:      session.SessionID,
		OrganizationID: organizationID,
		Amount:         req.Amount,
		Method:         req.Method,
		Commission:     commission,
		Description:    req.Description,
		IsCredit:       req.IsCredit,
		SoldAt:         time.Now(),
		CreatedBy:      userID,
	}

	if err := s.sessionRepo.AddSale(ctx, sale); err != nil {
		s.LogError(ctx, err, "Failed to add sale", slog.String("session_id", session.SessionID))
		return nil, fmt.Errorf("failed to add sale: %w", err)
	}
	return &sale, nil
}

// AddEntry records an income or expense line item against the OPEN session.
// Expense entries must carry a known category; a provider reference is
// resolved to its display name at write time so archived snapshots keep the
// name even after the provider is deactivated.
func (s *SessionService) AddEntry(ctx context.Context, userID, organizationID string, req dto.AddEntryRequest) (*domain.SessionEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if req.Type == domain.EntryExpense && !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown expense category %q", apperrors.ErrValidation, req.Category)
	}

	session, err := s.sessionRepo.FindOpenSession(ctx, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no open session to record the entry against", apperrors.ErrSessionClosed)
		}
		return nil, err
	}

	entry := domain.SessionEntry{
		EntryID:        uuid.NewString(),
		SessionID:      session.SessionID,
		OrganizationID: organizationID,
		Type:           req.Type,
		Description:    req.Description,
		Amount:         req.Amount,
		RecordedAt:     time.Now(),
		CreatedBy:      userID,
	}
	if req.Type == domain.EntryExpense {
		entry.Category = req.Category
		if req.ProviderID != nil {
			provider, err := s.providerRepo.FindProviderByID(ctx, organizationID, *req.ProviderID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: provider not found", apperrors.ErrValidation)
				}
				return nil, fmt.Errorf("failed to resolve provider: %w", err)
			}
			entry.ProviderID = req.ProviderID
			entry.ProviderName = provider.Name
		}
	}

	if err := s.sessionRepo.AddEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to add entry", slog.String("session_id", session.SessionID))
		return nil, fmt.Errorf("failed to add entry: %w", err)
	}
	return &entry, nil
}

// DeleteSale removes a sale from an OPEN session.
func (s *SessionService) DeleteSale(ctx context.Context, userID, organizationID, sessionID, saleID string) error {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return err
	}
	if err := s.requireOpen(ctx, organizationID, sessionID); err != nil {
		return err
	}
	return s.sessionRepo.DeleteSale(ctx, organizationID, sessionID, saleID)
}

// DeleteEntry removes an income/expense line item from an OPEN session.
func (s *SessionService) DeleteEntry(ctx context.Context, userID, organizationID, sessionID, entryID string) error {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return err
	}
	if err := s.requireOpen(ctx, organizationID, sessionID); err != nil {
		return err
	}
	return s.sessionRepo.DeleteEntry(ctx, organizationID, sessionID, entryID)
}

func (s *SessionService) requireOpen(ctx context.Context, organizationID, sessionID string) error {
	session, err := s.sessionRepo.FindSessionByID(ctx, organizationID, sessionID)
	if err != nil {
		return err
	}
	if session.Status != domain.SessionOpen {
		return apperrors.ErrSessionClosed
	}
	return nil
}

// PatchSession applies a field-level patch to an OPEN session. The request's
// version stamp must match the stored row; a stale stamp means a concurrent
// writer won and the caller gets ErrConflict with the current state untouched.
func (s *SessionService) PatchSession(ctx context.Context, userID, organizationID, sessionID string, req dto.PatchSessionRequest) (*domain.CashSession, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	if err := s.requireOpen(ctx, organizationID, sessionID); err != nil {
		return nil, err
	}

	patch := portsrepo.SessionPatch{
		OpeningCash:      req.OpeningCash,
		OpeningDigital:   req.OpeningDigital,
		TotalCommissions: req.TotalCommissions,
		Notes:            req.Notes,
	}
	session, err := s.sessionRepo.PatchSession(ctx, organizationID, sessionID, patch, req.Version)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			s.LogDebug(ctx, "Session patch lost version race", slog.String("session_id", sessionID), slog.Int64("stale_version", req.Version))
		}
		return nil, err
	}
	return session, nil
}

// CloseSession finalizes the day. Totals and the reconciliation difference
// are computed server-side from the stored line items, the full snapshot is
// archived as a CashAudit and the session flips to CLOSED atomically. Report
// generation runs after the commit and is best-effort: a failed export leaves
// the audit without a report URL, to be regenerated later.
func (s *SessionService) CloseSession(ctx context.Context, userID, organizationID string, req dto.CloseSessionRequest) (*domain.CashAudit, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.FindOpenSession(ctx, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no open session to close", apperrors.ErrSessionClosed)
		}
		return nil, err
	}
	_, sales, entries, err := s.loadLineItems(ctx, session)
	if err != nil {
		return nil, err
	}

	totals := accounting.CalculateSessionTotals(*session, sales, entries)
	difference := accounting.CalculateDifference(req.PhysicalCash, req.PhysicalDigital, totals.TheoreticalBalance)

	now := time.Now()
	closed := *session
	closed.Status = domain.SessionClosed
	if req.Notes != "" {
		closed.Notes = req.Notes
	}
	closed.LastUpdatedAt = now
	closed.LastUpdatedBy = userID

	audit := domain.CashAudit{
		AuditID:        uuid.NewString(),
		OrganizationID: organizationID,
		AuditDate:      session.SessionDate,
		Payload: domain.SessionSnapshot{
			Session:            closed,
			Sales:              sales,
			Entries:            entries,
			PhysicalCash:       req.PhysicalCash,
			PhysicalDigital:    req.PhysicalDigital,
			TotalIncome:        totals.TotalIncome,
			TotalSales:         totals.TotalSales,
			TotalCommissions:   totals.TotalCommissions,
			NetSales:           totals.NetSales,
			TotalOtherExpenses: totals.TotalOtherExpenses,
			TheoreticalBalance: totals.TheoreticalBalance,
		},
		TotalSales: totals.TotalSales,
		Difference: difference,
		Notes:      req.Notes,
		CreatedAt:  now,
		CreatedBy:  userID,
	}

	if err := s.sessionRepo.CloseSession(ctx, closed, audit); err != nil {
		s.LogError(ctx, err, "Failed to close session", slog.String("session_id", session.SessionID))
		return nil, fmt.Errorf("failed to close session: %w", err)
	}
	s.LogInfo(ctx, "Cash session closed",
		slog.String("session_id", session.SessionID),
		slog.String("audit_id", audit.AuditID),
		slog.String("difference", difference.String()))

	if drift := accounting.ReconcileCommissions(*session, sales); !drift.IsZero() {
		s.LogInfo(ctx, "Commission aggregate drifted from per-sale sum",
			slog.String("session_id", session.SessionID),
			slog.String("drift", drift.String()))
	}

	if s.exporter != nil {
		org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
		if err != nil {
			s.LogError(ctx, err, "Failed to load settings for report export", slog.String("audit_id", audit.AuditID))
			return &audit, nil
		}
		url, err := s.exporter.ExportAudit(ctx, audit, org.Settings.Merge())
		if err != nil {
			s.LogError(ctx, err, "Report export failed, audit archived without report", slog.String("audit_id", audit.AuditID))
			return &audit, nil
		}
		if err := s.auditRepo.UpdateAuditReportURL(ctx, organizationID, audit.AuditID, url); err != nil {
			s.LogError(ctx, err, "Failed to persist report URL", slog.String("audit_id", audit.AuditID))
			return &audit, nil
		}
		audit.ReportURL = &url
	}

	return &audit, nil
}
