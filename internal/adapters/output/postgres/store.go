package postgres

import (
	"context"
	"errors"
	"time"

	"localledger/internal/domain"
	"localledger/internal/ports/output"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Compile-time check to ensure Store implements the DomainStore port
var _ output.DomainStore = (*Store)(nil)

// Store struct - Secondary/Driven adapter for the relational shop store
type Store struct {
	dbGorm *gorm.DB
}

// NewStore func - Creates the store adapter and migrates the schema
func NewStore(dbGorm *gorm.DB) *Store {
	logrus.Info("Migrate database ...")
	domain.MigrateDatabase(dbGorm)
	return &Store{
		dbGorm: dbGorm,
	}
}

// FindProductByName func - Case-insensitive lookup by product name
func (s *Store) FindProductByName(ctx context.Context, name string) (*domain.Product, error) {
	var product domain.Product
	err := s.dbGorm.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return &product, nil
}

// FindProductByBarcode func - Lookup by the barcode natural key
func (s *Store) FindProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	var product domain.Product
	err := s.dbGorm.WithContext(ctx).
		Where("barcode = ?", barcode).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return &product, nil
}

// UpsertProduct func - Creates when the ID is unset, saves otherwise
func (s *Store) UpsertProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	var err error
	if product.ID == nil {
		err = s.dbGorm.WithContext(ctx).Create(product).Error
	} else {
		err = s.dbGorm.WithContext(ctx).Save(product).Error
	}
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return product, nil
}

// ListProducts func - All products ordered by name
func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := s.dbGorm.WithContext(ctx).Order("name ASC").Find(&products).Error; err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return products, nil
}

// FindCreditorByPhone func - Lookup by the phone natural key
func (s *Store) FindCreditorByPhone(ctx context.Context, phone string) (*domain.Creditor, error) {
	var creditor domain.Creditor
	err := s.dbGorm.WithContext(ctx).
		Where("phone = ?", phone).
		First(&creditor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return &creditor, nil
}

// UpsertCreditor func - Creates when the ID is unset, saves otherwise
func (s *Store) UpsertCreditor(ctx context.Context, creditor *domain.Creditor) (*domain.Creditor, error) {
	var err error
	if creditor.ID == nil {
		err = s.dbGorm.WithContext(ctx).Create(creditor).Error
	} else {
		err = s.dbGorm.WithContext(ctx).Save(creditor).Error
	}
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return creditor, nil
}

// DeleteCreditor func - Removes a creditor by phone
func (s *Store) DeleteCreditor(ctx context.Context, phone string) error {
	if err := s.dbGorm.WithContext(ctx).Where("phone = ?", phone).Delete(&domain.Creditor{}).Error; err != nil {
		logrus.Errorln(err)
		return err
	}
	return nil
}

// ListCreditors func - All creditors ordered by name
func (s *Store) ListCreditors(ctx context.Context) ([]domain.Creditor, error) {
	var creditors []domain.Creditor
	if err := s.dbGorm.WithContext(ctx).Order("name ASC").Find(&creditors).Error; err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return creditors, nil
}

// RecordOrder func - Persists an order with its line items
func (s *Store) RecordOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := s.dbGorm.WithContext(ctx).Create(order).Error; err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return order, nil
}

// OrdersInRange func - Orders created in [start, end), items preloaded
func (s *Store) OrdersInRange(ctx context.Context, start, end time.Time) ([]domain.Order, error) {
	var orders []domain.Order
	err := s.dbGorm.WithContext(ctx).
		Preload("Items").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return orders, nil
}

// AppendTransaction func - Appends one ledger entry
func (s *Store) AppendTransaction(ctx context.Context, transaction *domain.Transaction) error {
	if err := s.dbGorm.WithContext(ctx).Create(transaction).Error; err != nil {
		logrus.Errorln(err)
		return err
	}
	return nil
}

// TransactionsByPhone func - Most recent ledger entries for a phone
func (s *Store) TransactionsByPhone(ctx context.Context, phone string, limit int) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	err := s.dbGorm.WithContext(ctx).
		Where("phone = ?", phone).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return transactions, nil
}
