package partner

import (
	"context"

	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines persistence for customer identities
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByNameAndPhone(ctx context.Context, name, phone string) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}
