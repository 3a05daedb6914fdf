package output

import (
	"context"
	"time"

	"localledger/internal/domain"
)

// DomainStore interface - Output port
// Point CRUD operations over the shop entities. Lookups return (nil, nil)
// when no row matches; an error means a storage failure. The store provides
// no transactions spanning multiple logical writes - commit paths sequence
// their writes so a crash in between leaves a recoverable state.
type DomainStore interface {
	// FindProductByName matches the name case-insensitively.
	FindProductByName(ctx context.Context, name string) (*domain.Product, error)
	FindProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	// UpsertProduct creates the product when its ID is unset and saves it
	// otherwise.
	UpsertProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)

	FindCreditorByPhone(ctx context.Context, phone string) (*domain.Creditor, error)
	UpsertCreditor(ctx context.Context, creditor *domain.Creditor) (*domain.Creditor, error)
	DeleteCreditor(ctx context.Context, phone string) error
	ListCreditors(ctx context.Context) ([]domain.Creditor, error)

	RecordOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	OrdersInRange(ctx context.Context, start, end time.Time) ([]domain.Order, error)

	AppendTransaction(ctx context.Context, transaction *domain.Transaction) error
	// TransactionsByPhone returns the most recent ledger entries for a
	// creditor, newest first.
	TransactionsByPhone(ctx context.Context, phone string, limit int) ([]domain.Transaction, error)
}
