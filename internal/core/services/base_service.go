package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/commerceos/commerceos_backend/internal/apperrors"
	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
	"github.com/commerceos/commerceos_backend/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	OrganizationAuthorizer portssvc.OrganizationAuthorizerSvc
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// AuthorizeUser checks if a user has the required role for an organization
func (s *BaseService) AuthorizeUser(ctx context.Context, userID, organizationID string, requiredRole domain.UserOrganizationRole) error {
	if s.OrganizationAuthorizer != nil {
		return s.OrganizationAuthorizer.AuthorizeUserAction(ctx, userID, organizationID, requiredRole)
	}
	s.LogDebug(ctx, "No organization authorizer provided, access granted by default",
		slog.String("user_id", userID),
		slog.String("organization_id", organizationID),
		slog.String("required_role", string(requiredRole)))
	return nil
}

const dateLayout = "2006-01-02"

// parseDate parses a YYYY-MM-DD calendar date, returning a validation error
// the handlers can map to 400.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", apperrors.ErrValidation, field)
	}
	return t, nil
}

// parseDateRange parses an inclusive [from, to] calendar range. The upper
// bound is pushed to the end of its day so timestamp comparisons include the
// whole last day.
func parseDateRange(from, to string) (time.Time, time.Time, error) {
	fromT, err := parseDate("from", from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	toT, err := parseDate("to", to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if toT.Before(fromT) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to must not precede from", apperrors.ErrValidation)
	}
	toT = toT.Add(24*time.Hour - time.Nanosecond)
	return fromT, toT, nil
}
