package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/souq/internal/events"
	"github.com/Skotchmaster/souq/internal/lifecycle"
	"github.com/Skotchmaster/souq/internal/models"
	"github.com/Skotchmaster/souq/internal/repo"
	"github.com/Skotchmaster/souq/internal/transport"
)

type OrderService struct {
	Store  repo.Store
	Events events.Publisher
	Policy lifecycle.Policy
}

func newestFirst(orders []models.Order) []models.Order {
	slices.SortStableFunc(orders, func(a, b models.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return orders
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.Store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return newestFirst(orders), nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (models.Order, error) {
	o, ok, err := s.Store.GetOrder(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if !ok {
		return models.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return o, nil
}

func buildOrder(req transport.CreateOrderRequest) (models.Order, error) {
	if len(req.Items) == 0 {
		return models.Order{}, fmt.Errorf("order has no items: %w", ErrValidation)
	}
	cust := req.Customer
	cust.Name = strings.TrimSpace(cust.Name)
	cust.Phone = strings.TrimSpace(cust.Phone)
	cust.Address = strings.TrimSpace(cust.Address)
	cust.Email = strings.TrimSpace(cust.Email)
	if cust.Name == "" || cust.Phone == "" || cust.Address == "" {
		return models.Order{}, fmt.Errorf("customer name, phone and address are required: %w", ErrValidation)
	}
	if cust.ID == nil && req.CustomerID != nil {
		id := *req.CustomerID
		cust.ID = &id
	}

	if req.Total == nil || req.Total.IsNegative() {
		return models.Order{}, fmt.Errorf("total must be a non-negative number: %w", ErrValidation)
	}

	status := models.StatusPreparing
	if req.Status != nil && *req.Status != models.StatusPreparing {
		return models.Order{}, fmt.Errorf("new orders start as %s: %w", models.StatusPreparing, ErrValidation)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for i, it := range req.Items {
		if it.Quantity <= 0 {
			return models.Order{}, fmt.Errorf("item %d: quantity must be positive: %w", i, ErrValidation)
		}
		if it.Price.IsNegative() {
			return models.Order{}, fmt.Errorf("item %d: price cannot be negative: %w", i, ErrValidation)
		}
		if strings.TrimSpace(it.Title) == "" {
			return models.Order{}, fmt.Errorf("item %d: title is required: %w", i, ErrValidation)
		}
		items = append(items, models.OrderItem{
			ProductID: it.ID,
			Title:     it.Title,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	return models.Order{
		CustomerID: req.CustomerID,
		Customer:   cust,
		Items:      items,
		Total:      *req.Total,
		Status:     status,
	}, nil
}

// CreateOrder records a checkout. The submitted total is stored as given.
func (s *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (models.Order, error) {
	order, err := buildOrder(req)
	if err != nil {
		return models.Order{}, err
	}

	o, err := s.Store.CreateOrder(ctx, order)
	if err != nil {
		return models.Order{}, err
	}

	ev := map[string]any{
		"type":    "order_created",
		"orderID": o.ID.String(),
		"total":   o.Total,
		"items":   len(o.Items),
		"status":  o.Status.String(),
	}
	if o.CustomerID != nil {
		ev["customerID"] = o.CustomerID.String()
	}
	publish(ctx, s.Events, events.TopicOrders, o.ID.String(), ev)
	return o, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, fmt.Errorf("status %d: %w", int(status), ErrValidation)
	}

	current, err := s.GetOrder(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if err := s.Policy.Check(current.Status, status); err != nil {
		if errors.Is(err, models.ErrUnknownStatus) {
			return models.Order{}, fmt.Errorf("%v: %w", err, ErrValidation)
		}
		return models.Order{}, fmt.Errorf("%v: %w", err, ErrConflict)
	}

	o, ok, err := s.Store.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return models.Order{}, err
	}
	if !ok {
		return models.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}

	publish(ctx, s.Events, events.TopicOrders, o.ID.String(), map[string]any{
		"type":    "order_status_changed",
		"orderID": o.ID.String(),
		"from":    current.Status.String(),
		"status":  o.Status.String(),
	})
	return o, nil
}

// AdvanceStatus moves the order one step along Preparing, OutForDelivery, Delivered.
func (s *OrderService) AdvanceStatus(ctx context.Context, id uuid.UUID) (models.Order, error) {
	current, err := s.GetOrder(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	next, err := lifecycle.Next(current.Status)
	if err != nil {
		return models.Order{}, fmt.Errorf("%v: %w", err, ErrConflict)
	}
	return s.UpdateStatus(ctx, id, next)
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	ok, err := s.Store.DeleteOrder(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	publish(ctx, s.Events, events.TopicOrders, id.String(), map[string]any{
		"type":    "order_deleted",
		"orderID": id.String(),
	})
	return nil
}

// CustomerOrders returns the orders placed by a customer, matched by id or by
// the snapshot email, newest first.
func (s *OrderService) CustomerOrders(ctx context.Context, customerID uuid.UUID, email string) ([]models.Order, error) {
	all, err := s.Store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)

	out := make([]models.Order, 0)
	for _, o := range all {
		switch {
		case o.CustomerID != nil && *o.CustomerID == customerID:
		case o.Customer.ID != nil && *o.Customer.ID == customerID:
		case email != "" && strings.EqualFold(strings.TrimSpace(o.Customer.Email), email):
		default:
			continue
		}
		out = append(out, o)
	}
	return newestFirst(out), nil
}

type Stats struct {
	Products int
	Orders   int
	ByStatus map[models.OrderStatus]int
	// Revenue sums the totals of delivered orders.
	Revenue decimal.Decimal
}

func (s *OrderService) Stats(ctx context.Context) (Stats, error) {
	products, err := s.Store.ListProducts(ctx)
	if err != nil {
		return Stats{}, err
	}
	orders, err := s.Store.ListOrders(ctx)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		Products: len(products),
		Orders:   len(orders),
		ByStatus: make(map[models.OrderStatus]int, len(models.AllStatuses())),
		Revenue:  decimal.Zero,
	}
	for _, status := range models.AllStatuses() {
		st.ByStatus[status] = 0
	}
	for _, o := range orders {
		st.ByStatus[o.Status]++
		if o.Status == models.StatusDelivered {
			st.Revenue = st.Revenue.Add(o.Total)
		}
	}
	return st, nil
}
