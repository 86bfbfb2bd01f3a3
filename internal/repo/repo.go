// Package repo holds the entity store for products, customers and orders.
//
// Lookups on unknown ids report absence through the boolean result and a nil
// error; errors are reserved for backend failures, ErrEmailTaken and orders
// carrying a status outside the lifecycle (models.ErrUnknownStatus).
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/souq/internal/models"
	"github.com/google/uuid"
)

var ErrEmailTaken = errors.New("email already registered")

type Store interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (models.Product, bool, error)
	CreateProduct(ctx context.Context, prod models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch models.ProductPatch) (models.Product, bool, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error)

	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (models.Customer, bool, error)
	GetCustomerByEmail(ctx context.Context, email string) (models.Customer, bool, error)
	CreateCustomer(ctx context.Context, cust models.Customer) (models.Customer, error)

	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (models.Order, bool, error)
	CreateOrder(ctx context.Context, order models.Order) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (models.Order, bool, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) (bool, error)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkStatus(s models.OrderStatus) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %d", models.ErrUnknownStatus, int(s))
	}
	return nil
}

func systemNow() time.Time {
	return time.Now().UTC()
}
