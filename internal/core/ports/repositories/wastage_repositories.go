package repositories

import (
	"context"
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
)

// WastageReader defines read operations for the loss log.
type WastageReader interface {
	ListWastage(ctx context.Context, organizationID string, from, to time.Time) ([]domain.WastageRecord, error)
}

// WastageWriter defines write operations for the loss log.
type WastageWriter interface {
	SaveWastage(ctx context.Context, record domain.WastageRecord) error
	DeleteWastage(ctx context.Context, organizationID, wastageID string) error
}

// WastageRepositoryFacade combines all wastage repository interfaces.
type WastageRepositoryFacade interface {
	WastageReader
	WastageWriter
}
