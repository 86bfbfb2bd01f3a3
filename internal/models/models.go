package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"         json:"id"`
	Title       string          `gorm:"not null"                     json:"title"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"  json:"price"`
	Category    string          `gorm:"not null;index"               json:"category"`
	Image       *string         `                                    json:"image"`
	Description *string         `                                    json:"description"`
	CreatedAt   time.Time       `gorm:"not null"                     json:"createdAt"`
}

// ProductPatch carries a partial update. Nil fields keep the stored value;
// the Clear flags null out the optional ones.
type ProductPatch struct {
	Title            *string
	Price            *decimal.Decimal
	Category         *string
	Image            *string
	Description      *string
	ClearImage       bool
	ClearDescription bool
}

func (p ProductPatch) Apply(prod *Product) {
	if p.Title != nil {
		prod.Title = *p.Title
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Category != nil {
		prod.Category = *p.Category
	}
	if p.ClearImage {
		prod.Image = nil
	} else if p.Image != nil {
		prod.Image = p.Image
	}
	if p.ClearDescription {
		prod.Description = nil
	} else if p.Description != nil {
		prod.Description = p.Description
	}
}

type Customer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"            json:"id"`
	Name       string    `gorm:"not null"                        json:"name"`
	Email      string    `gorm:"not null"                        json:"email"`
	EmailLower string    `gorm:"not null;uniqueIndex"            json:"-"`
	Phone      string    `gorm:"not null"                        json:"phone"`
	Password   string    `gorm:"not null"                        json:"-"`
	Address    *string   `                                       json:"address"`
	CreatedAt  time.Time `gorm:"not null"                        json:"createdAt"`
}

// CustomerSnapshot is the customer data copied into an order at checkout.
type CustomerSnapshot struct {
	ID      *uuid.UUID `gorm:"type:uuid;column:ref_id" json:"id,omitempty"`
	Name    string     `                               json:"name"`
	Phone   string     `                               json:"phone"`
	Address string     `                               json:"address"`
	Email   string     `                               json:"email,omitempty"`
}

type OrderItem struct {
	RowID     uint            `gorm:"primaryKey;autoIncrement"       json:"-"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"       json:"-"`
	Position  int             `gorm:"not null"                       json:"-"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"             json:"id"`
	Title     string          `gorm:"not null"                       json:"title"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"    json:"price"`
	Quantity  int             `gorm:"not null"                       json:"quantity"`
}

type Order struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"                json:"id"`
	CustomerID  *uuid.UUID       `gorm:"type:uuid;index"                     json:"customerId"`
	Customer    CustomerSnapshot `gorm:"embedded;embeddedPrefix:customer_"   json:"customer"`
	Items       []OrderItem      `gorm:"foreignKey:OrderID"                  json:"items"`
	Total       decimal.Decimal  `gorm:"type:decimal(12,2);not null"         json:"total"`
	Status      OrderStatus      `gorm:"type:varchar(32);not null;index"     json:"status"`
	CreatedAt   time.Time        `gorm:"not null"                            json:"createdAt"`
	DeliveredAt *time.Time       `                                           json:"deliveredAt"`
}

// Clone returns a deep copy so callers cannot reach stored state.
func (o Order) Clone() Order {
	out := o
	if o.Items != nil {
		out.Items = make([]OrderItem, len(o.Items))
		copy(out.Items, o.Items)
	}
	if o.CustomerID != nil {
		id := *o.CustomerID
		out.CustomerID = &id
	}
	if o.Customer.ID != nil {
		id := *o.Customer.ID
		out.Customer.ID = &id
	}
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		out.DeliveredAt = &t
	}
	return out
}

func (p Product) Clone() Product {
	out := p
	if p.Image != nil {
		v := *p.Image
		out.Image = &v
	}
	if p.Description != nil {
		v := *p.Description
		out.Description = &v
	}
	return out
}

func (c Customer) Clone() Customer {
	out := c
	if c.Address != nil {
		v := *c.Address
		out.Address = &v
	}
	return out
}
