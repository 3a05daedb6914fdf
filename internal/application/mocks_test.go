package application

import (
	"context"
	"strings"
	"time"

	"localledger/internal/domain"
	"localledger/internal/ports/output"

	"github.com/google/uuid"
)

// MockDomainStore implements output.DomainStore for testing. In-memory by
// default; funcs can be overridden to inject failures.
type MockDomainStore struct {
	Products  []*domain.Product
	Creditors []*domain.Creditor
	Orders    []*domain.Order
	Ledger    []*domain.Transaction

	ListProductsFunc  func(ctx context.Context) ([]domain.Product, error)
	OrdersInRangeFunc func(ctx context.Context, start, end time.Time) ([]domain.Order, error)
}

var _ output.DomainStore = (*MockDomainStore)(nil)

func (m *MockDomainStore) FindProductByName(ctx context.Context, name string) (*domain.Product, error) {
	for _, p := range m.Products {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, nil
}

func (m *MockDomainStore) FindProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	for _, p := range m.Products {
		if p.Barcode != nil && *p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, nil
}

func (m *MockDomainStore) UpsertProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product.ID == nil {
		id := uuid.New()
		product.ID = &id
		m.Products = append(m.Products, product)
		return product, nil
	}
	for i, p := range m.Products {
		if p.ID != nil && *p.ID == *product.ID {
			m.Products[i] = product
			return product, nil
		}
	}
	m.Products = append(m.Products, product)
	return product, nil
}

func (m *MockDomainStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx)
	}
	products := make([]domain.Product, 0, len(m.Products))
	for _, p := range m.Products {
		products = append(products, *p)
	}
	return products, nil
}

func (m *MockDomainStore) FindCreditorByPhone(ctx context.Context, phone string) (*domain.Creditor, error) {
	for _, c := range m.Creditors {
		if c.Phone == phone {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockDomainStore) UpsertCreditor(ctx context.Context, creditor *domain.Creditor) (*domain.Creditor, error) {
	if creditor.ID == nil {
		id := uuid.New()
		creditor.ID = &id
		m.Creditors = append(m.Creditors, creditor)
		return creditor, nil
	}
	for i, c := range m.Creditors {
		if c.ID != nil && *c.ID == *creditor.ID {
			m.Creditors[i] = creditor
			return creditor, nil
		}
	}
	m.Creditors = append(m.Creditors, creditor)
	return creditor, nil
}

func (m *MockDomainStore) DeleteCreditor(ctx context.Context, phone string) error {
	for i, c := range m.Creditors {
		if c.Phone == phone {
			m.Creditors = append(m.Creditors[:i], m.Creditors[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockDomainStore) ListCreditors(ctx context.Context) ([]domain.Creditor, error) {
	creditors := make([]domain.Creditor, 0, len(m.Creditors))
	for _, c := range m.Creditors {
		creditors = append(creditors, *c)
	}
	return creditors, nil
}

func (m *MockDomainStore) RecordOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	id := uuid.New()
	order.ID = &id
	if order.CreatedAt == nil {
		now := time.Now()
		order.CreatedAt = &now
	}
	m.Orders = append(m.Orders, order)
	return order, nil
}

func (m *MockDomainStore) OrdersInRange(ctx context.Context, start, end time.Time) ([]domain.Order, error) {
	if m.OrdersInRangeFunc != nil {
		return m.OrdersInRangeFunc(ctx, start, end)
	}
	var orders []domain.Order
	for _, o := range m.Orders {
		if o.CreatedAt != nil && !o.CreatedAt.Before(start) && o.CreatedAt.Before(end) {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (m *MockDomainStore) AppendTransaction(ctx context.Context, transaction *domain.Transaction) error {
	id := uuid.New()
	transaction.ID = &id
	now := time.Now()
	transaction.CreatedAt = &now
	m.Ledger = append(m.Ledger, transaction)
	return nil
}

func (m *MockDomainStore) TransactionsByPhone(ctx context.Context, phone string, limit int) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	for i := len(m.Ledger) - 1; i >= 0 && len(transactions) < limit; i-- {
		if m.Ledger[i].Phone == phone {
			transactions = append(transactions, *m.Ledger[i])
		}
	}
	return transactions, nil
}

// MockBarcodeDecoder implements output.BarcodeDecoder for testing
type MockBarcodeDecoder struct {
	DecodeBarcodeFunc func(ctx context.Context, mediaURL string) (string, error)

	// Captured values for assertions
	LastMediaURL string
}

func (m *MockBarcodeDecoder) DecodeBarcode(ctx context.Context, mediaURL string) (string, error) {
	m.LastMediaURL = mediaURL
	if m.DecodeBarcodeFunc != nil {
		return m.DecodeBarcodeFunc(ctx, mediaURL)
	}
	return "", nil
}

// MockSpeechTranscriber implements output.SpeechTranscriber for testing
type MockSpeechTranscriber struct {
	TranscribeSpeechFunc func(ctx context.Context, mediaURL string) (string, error)

	// Captured values for assertions
	LastMediaURL string
}

func (m *MockSpeechTranscriber) TranscribeSpeech(ctx context.Context, mediaURL string) (string, error) {
	m.LastMediaURL = mediaURL
	if m.TranscribeSpeechFunc != nil {
		return m.TranscribeSpeechFunc(ctx, mediaURL)
	}
	return "", nil
}
