package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product struct - Core domain entity. The natural key is the barcode when
// present, otherwise the name.
type Product struct {
	ID          *uuid.UUID `gorm:"type:uuid;primary_key;"`
	Name        string     `gorm:"type:varchar(100);uniqueIndex;not null;"`
	Price       float64    `gorm:"not null;"`
	Quantity    int        `gorm:"not null;"`
	MinQuantity int        `gorm:"not null;default:5;"`
	Barcode     *string    `gorm:"type:varchar(32);uniqueIndex;"`
	CreatedAt   *time.Time `gorm:"type:timestamp"`
	UpdatedAt   *time.Time `gorm:"type:timestamp"`
}

// TableName func
func (p *Product) TableName() string {
	return "products"
}

// BeforeCreate hook - generates UUID before creating
func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID != nil {
		return nil
	}
	id, err := uuid.NewRandom() // v4
	if err != nil {
		return err
	}
	p.ID = &id
	return nil
}

// Creditor struct - a customer with an outstanding amount. The natural key
// is the 10-digit phone number.
type Creditor struct {
	ID        *uuid.UUID `gorm:"type:uuid;primary_key;"`
	Name      string     `gorm:"type:varchar(100);not null;"`
	Phone     string     `gorm:"type:varchar(10);uniqueIndex;not null;" validate:"numeric,len=10"`
	Amount    float64    `gorm:"not null;"`
	CreatedAt *time.Time `gorm:"type:timestamp"`
	UpdatedAt *time.Time `gorm:"type:timestamp"`
}

// TableName func
func (c *Creditor) TableName() string {
	return "creditors"
}

// BeforeCreate hook - generates UUID before creating
func (c *Creditor) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID != nil {
		return nil
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return err
	}
	c.ID = &id
	return nil
}

// Order struct - a committed customer order with its line items.
type Order struct {
	ID            *uuid.UUID  `gorm:"type:uuid;primary_key;"`
	CustomerName  string      `gorm:"type:varchar(100);not null;"`
	CustomerPhone string      `gorm:"type:varchar(10);not null;"`
	Total         float64     `gorm:"not null;"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;"`
	CreatedAt     *time.Time  `gorm:"type:timestamp"`
}

// TableName func
func (o *Order) TableName() string {
	return "orders"
}

// BeforeCreate hook - generates UUID before creating
func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID != nil {
		return nil
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return err
	}
	o.ID = &id
	return nil
}

// OrderItem struct - one order line.
type OrderItem struct {
	ID          *uuid.UUID `gorm:"type:uuid;primary_key;"`
	OrderID     *uuid.UUID `gorm:"type:uuid;index;not null;"`
	ProductName string     `gorm:"type:varchar(100);not null;"`
	Quantity    int        `gorm:"not null;"`
	Price       float64    `gorm:"not null;"`
	Total       float64    `gorm:"not null;"`
}

// TableName func
func (i *OrderItem) TableName() string {
	return "order_items"
}

// BeforeCreate hook - generates UUID before creating
func (i *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID != nil {
		return nil
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return err
	}
	i.ID = &id
	return nil
}

// TransactionKind tags a ledger entry.
type TransactionKind string

const (
	TransactionCreditAdded   TransactionKind = "credit_added"
	TransactionPayment       TransactionKind = "payment"
	TransactionCreditorWiped TransactionKind = "creditor_deleted"
	TransactionSale          TransactionKind = "sale"
)

// Transaction struct - append-only ledger entry tying a credit or order
// change to an amount and timestamp.
type Transaction struct {
	ID        *uuid.UUID      `gorm:"type:uuid;primary_key;"`
	Kind      TransactionKind `gorm:"type:varchar(20);not null;"`
	Phone     string          `gorm:"type:varchar(10);index;"`
	Reference string          `gorm:"type:varchar(100);"`
	Amount    float64         `gorm:"not null;"`
	CreatedAt *time.Time      `gorm:"type:timestamp"`
}

// TableName func
func (t *Transaction) TableName() string {
	return "transactions"
}

// BeforeCreate hook - generates UUID before creating
func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID != nil {
		return nil
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return err
	}
	t.ID = &id
	return nil
}

// MigrateDatabase func - Auto-migrate database schema
func MigrateDatabase(db *gorm.DB) {
	if db == nil {
		panic("An error when connect database")
	}

	err := db.AutoMigrate(&Product{}, &Creditor{}, &Order{}, &OrderItem{}, &Transaction{})
	if err != nil {
		panic(err)
	}
}
