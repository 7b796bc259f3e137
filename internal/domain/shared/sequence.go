package shared

import "context"

// SequenceGenerator hands out gapless-enough sequential document codes
// keyed by tenant, branch and entity type. Implementations must be safe
// under concurrent allocation; codes are formatted like C-000123.
type SequenceGenerator interface {
	Next(ctx context.Context, scope Scope, entityType string) (string, error)
}

// Sequence entity types
const (
	SequenceContract     = "contract"
	SequenceReceivable   = "receivable"
	SequenceTransaction  = "transaction"
	SequenceSaleContract = "sale_contract"
	SequenceSaleService  = "sale_service"
	SequenceSaleProduct  = "sale_product"
	SequenceSaleGeneric  = "sale_generic"
)
