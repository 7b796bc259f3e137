package sales

import (
	"context"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SaleFilter holds query options for listing sales
type SaleFilter struct {
	ClientID *uuid.UUID
	DateFrom string
	DateTo   string
	Page     int
	PageSize int
}

// SaleRepository defines persistence for Sale aggregates. Saving a sale
// replaces its item collection wholesale.
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindByIDForScope(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Sale, error)
	FindAllForScope(ctx context.Context, scope shared.Scope, filter SaleFilter) ([]Sale, int64, error)
	Save(ctx context.Context, sale *Sale) error
	SaveWithLock(ctx context.Context, sale *Sale) error
	Delete(ctx context.Context, sale *Sale) error
}
