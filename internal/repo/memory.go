package repo

import (
	"context"
	"sync"
	"time"

	"github.com/Skotchmaster/souq/internal/lifecycle"
	"github.com/Skotchmaster/souq/internal/models"
	"github.com/google/uuid"
)

var _ Store = (*MemRepo)(nil)

// MemRepo is the memory-resident store. Lists come back in creation order and
// every returned record is a copy.
type MemRepo struct {
	// Now stamps createdAt and deliveredAt. Defaults to UTC wall time.
	Now func() time.Time

	mu   sync.RWMutex
	last time.Time

	products     map[uuid.UUID]models.Product
	productOrder []uuid.UUID

	customers     map[uuid.UUID]models.Customer
	customerOrder []uuid.UUID

	orders     map[uuid.UUID]models.Order
	orderOrder []uuid.UUID
}

func NewMemRepo() *MemRepo {
	return &MemRepo{
		Now:       systemNow,
		products:  make(map[uuid.UUID]models.Product),
		customers: make(map[uuid.UUID]models.Customer),
		orders:    make(map[uuid.UUID]models.Order),
	}
}

// stamp must be called with mu held for writing.
func (r *MemRepo) stamp() time.Time {
	now := r.Now()
	if now.Before(r.last) {
		now = r.last
	}
	r.last = now
	return now
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i := range ids {
		if ids[i] == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func (r *MemRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, 0, len(r.productOrder))
	for _, id := range r.productOrder {
		out = append(out, r.products[id].Clone())
	}
	return out, nil
}

func (r *MemRepo) GetProduct(ctx context.Context, id uuid.UUID) (models.Product, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prod, ok := r.products[id]
	if !ok {
		return models.Product{}, false, nil
	}
	return prod.Clone(), true, nil
}

func (r *MemRepo) CreateProduct(ctx context.Context, prod models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prod = prod.Clone()
	prod.ID = uuid.New()
	prod.CreatedAt = r.stamp()

	r.products[prod.ID] = prod
	r.productOrder = append(r.productOrder, prod.ID)
	return prod.Clone(), nil
}

func (r *MemRepo) UpdateProduct(ctx context.Context, id uuid.UUID, patch models.ProductPatch) (models.Product, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prod, ok := r.products[id]
	if !ok {
		return models.Product{}, false, nil
	}
	patch.Apply(&prod)
	prod = prod.Clone()
	r.products[id] = prod
	return prod.Clone(), true, nil
}

func (r *MemRepo) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	r.productOrder = removeID(r.productOrder, id)
	return true, nil
}

func (r *MemRepo) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Customer, 0, len(r.customerOrder))
	for _, id := range r.customerOrder {
		out = append(out, r.customers[id].Clone())
	}
	return out, nil
}

func (r *MemRepo) GetCustomer(ctx context.Context, id uuid.UUID) (models.Customer, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cust, ok := r.customers[id]
	if !ok {
		return models.Customer{}, false, nil
	}
	return cust.Clone(), true, nil
}

func (r *MemRepo) GetCustomerByEmail(ctx context.Context, email string) (models.Customer, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cust, ok := r.findByEmail(email)
	if !ok {
		return models.Customer{}, false, nil
	}
	return cust.Clone(), true, nil
}

func (r *MemRepo) findByEmail(email string) (models.Customer, bool) {
	key := normalizeEmail(email)
	for _, id := range r.customerOrder {
		if c := r.customers[id]; c.EmailLower == key {
			return c, true
		}
	}
	return models.Customer{}, false
}

func (r *MemRepo) CreateCustomer(ctx context.Context, cust models.Customer) (models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.findByEmail(cust.Email); taken {
		return models.Customer{}, ErrEmailTaken
	}

	cust = cust.Clone()
	cust.ID = uuid.New()
	cust.EmailLower = normalizeEmail(cust.Email)
	cust.CreatedAt = r.stamp()

	r.customers[cust.ID] = cust
	r.customerOrder = append(r.customerOrder, cust.ID)
	return cust.Clone(), nil
}

func (r *MemRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Order, 0, len(r.orderOrder))
	for _, id := range r.orderOrder {
		out = append(out, r.orders[id].Clone())
	}
	return out, nil
}

func (r *MemRepo) GetOrder(ctx context.Context, id uuid.UUID) (models.Order, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return models.Order{}, false, nil
	}
	return order.Clone(), true, nil
}

func (r *MemRepo) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	if err := checkStatus(order.Status); err != nil {
		return models.Order{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order = order.Clone()
	order.ID = uuid.New()
	order.CreatedAt = r.stamp()
	order.DeliveredAt = nil
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		order.Items[i].Position = i
	}

	r.orders[order.ID] = order
	r.orderOrder = append(r.orderOrder, order.ID)
	return order.Clone(), nil
}

func (r *MemRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (models.Order, bool, error) {
	if err := checkStatus(status); err != nil {
		return models.Order{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return models.Order{}, false, nil
	}
	order = order.Clone()
	lifecycle.Apply(&order, status, r.stamp())
	r.orders[id] = order
	return order.Clone(), true, nil
}

func (r *MemRepo) DeleteOrder(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return false, nil
	}
	delete(r.orders, id)
	r.orderOrder = removeID(r.orderOrder, id)
	return true, nil
}
