package repo

import (
	"context"
	"testing"
	"time"

	"github.com/Skotchmaster/souq/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	t time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type storeFactory func(t *testing.T, now func() time.Time) Store

func oliveOil() models.Product {
	return models.Product{
		Title:    "زيت زيتون",
		Price:    decimal.RequireFromString("25.50"),
		Category: "زيوت",
	}
}

func testCustomer(email string) models.Customer {
	addr := "طرابلس، شارع الجمهورية"
	return models.Customer{
		Name:     "سارة",
		Email:    email,
		Phone:    "0912345678",
		Password: "secret",
		Address:  &addr,
	}
}

func testOrder(items ...models.OrderItem) models.Order {
	return models.Order{
		Customer: models.CustomerSnapshot{
			Name:    "سارة",
			Phone:   "0912345678",
			Address: "طرابلس",
			Email:   "sara@example.com",
		},
		Items:  items,
		Total:  decimal.RequireFromString("10"),
		Status: models.StatusPreparing,
	}
}

func runStoreContract(t *testing.T, newStore storeFactory) {
	t.Run("ids unique and createdAt non-decreasing", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		ctx := context.Background()

		seen := map[uuid.UUID]bool{}
		var last time.Time
		for i := 0; i < 5; i++ {
			p, err := s.CreateProduct(ctx, oliveOil())
			require.NoError(t, err)
			require.NotEqual(t, uuid.Nil, p.ID)
			require.False(t, seen[p.ID])
			seen[p.ID] = true
			require.False(t, p.CreatedAt.Before(last))
			last = p.CreatedAt
		}

		seen = map[uuid.UUID]bool{}
		last = time.Time{}
		for i := 0; i < 5; i++ {
			o, err := s.CreateOrder(ctx, testOrder())
			require.NoError(t, err)
			require.False(t, seen[o.ID])
			seen[o.ID] = true
			require.False(t, o.CreatedAt.Before(last))
			last = o.CreatedAt
		}

		c1, err := s.CreateCustomer(ctx, testCustomer("a@example.com"))
		require.NoError(t, err)
		c2, err := s.CreateCustomer(ctx, testCustomer("b@example.com"))
		require.NoError(t, err)
		assert.NotEqual(t, c1.ID, c2.ID)
		assert.False(t, c2.CreatedAt.Before(c1.CreatedAt))

		products, err := s.ListProducts(ctx)
		require.NoError(t, err)
		assert.Len(t, products, 5)

		customers, err := s.ListCustomers(ctx)
		require.NoError(t, err)
		assert.Len(t, customers, 2)
	})

	t.Run("createdAt holds when the clock steps back", func(t *testing.T) {
		base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		times := []time.Time{base, base.Add(-time.Hour), base.Add(time.Minute)}
		i := 0
		s := newStore(t, func() time.Time {
			now := times[i]
			i++
			return now
		})
		ctx := context.Background()

		a, err := s.CreateProduct(ctx, oliveOil())
		require.NoError(t, err)
		b, err := s.CreateProduct(ctx, oliveOil())
		require.NoError(t, err)
		c, err := s.CreateProduct(ctx, oliveOil())
		require.NoError(t, err)

		assert.True(t, a.CreatedAt.Equal(base))
		assert.True(t, b.CreatedAt.Equal(base))
		assert.True(t, c.CreatedAt.Equal(base.Add(time.Minute)))
	})

	t.Run("orders reject a status outside the lifecycle", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		ctx := context.Background()

		bad := testOrder()
		bad.Status = models.StatusUnknown
		_, err := s.CreateOrder(ctx, bad)
		assert.ErrorIs(t, err, models.ErrUnknownStatus)

		o, err := s.CreateOrder(ctx, testOrder())
		require.NoError(t, err)
		_, _, err = s.UpdateOrderStatus(ctx, o.ID, models.StatusUnknown)
		assert.ErrorIs(t, err, models.ErrUnknownStatus)

		orders, err := s.ListOrders(ctx)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, models.StatusPreparing, orders[0].Status)
	})

	t.Run("update product keeps id and createdAt", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		ctx := context.Background()

		created, err := s.CreateProduct(ctx, oliveOil())
		require.NoError(t, err)

		title := "زيت زيتون بكر"
		price := decimal.RequireFromString("30")
		updated, ok, err := s.UpdateProduct(ctx, created.ID, models.ProductPatch{Title: &title, Price: &price})
		require.NoError(t, err)
		require.True(t, ok)

		assert.Equal(t, created.ID, updated.ID)
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
		assert.Equal(t, "زيت زيتون بكر", updated.Title)
		assert.True(t, price.Equal(updated.Price))
		assert.Equal(t, "زيوت", updated.Category)

		got, ok, err := s.GetProduct(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "زيت زيتون بكر", got.Title)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("unknown ids are absent, not errors", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		ctx := context.Background()
		id := uuid.New()

		_, ok, err := s.GetProduct(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)

		title := "x"
		_, ok, err = s.UpdateProduct(ctx, id, models.ProductPatch{Title: &title})
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = s.GetCustomer(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = s.GetCustomerByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = s.GetOrder(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = s.UpdateOrderStatus(ctx, id, models.StatusDelivered)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete is true exactly once", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		ctx := context.Background()

		p, err := s.CreateProduct(ctx, oliveOil())
		require.NoError(t, err)
		o, err := s.CreateOrder(ctx, testOrder(models.OrderItem{ProductID: p.ID, Title: p.Title, Price: p.Price, Quantity: 1}))
		require.NoError(t, err)

		ok, err := s.DeleteProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = s.DeleteProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = s.DeleteOrder(ctx, o.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = s.DeleteOrder(ctx, o.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = s.DeleteOrder(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, ok)

		orders, err := s.ListOrders(ctx)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("customer email lookup ignores case", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		ctx := context.Background()

		created, err := s.CreateCustomer(ctx, testCustomer("x@y.com"))
		require.NoError(t, err)

		got, ok, err := s.GetCustomerByEmail(ctx, "X@Y.com")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "x@y.com", got.Email)
		assert.Equal(t, "secret", got.Password)

		byID, ok, err := s.GetCustomer(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		require.NotNil(t, byID.Address)
		assert.Equal(t, "طرابلس، شارع الجمهورية", *byID.Address)
	})

	t.Run("duplicate email rejected atomically", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		ctx := context.Background()

		_, err := s.CreateCustomer(ctx, testCustomer("a@b.com"))
		require.NoError(t, err)

		_, err = s.CreateCustomer(ctx, testCustomer("A@B.com"))
		assert.ErrorIs(t, err, ErrEmailTaken)

		customers, err := s.ListCustomers(ctx)
		require.NoError(t, err)
		assert.Len(t, customers, 1)
	})

	t.Run("order status drives deliveredAt", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		ctx := context.Background()

		o, err := s.CreateOrder(ctx, testOrder())
		require.NoError(t, err)
		assert.Nil(t, o.DeliveredAt)
		assert.Equal(t, models.StatusPreparing, o.Status)

		out, ok, err := s.UpdateOrderStatus(ctx, o.ID, models.StatusOutForDelivery)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, models.StatusOutForDelivery, out.Status)
		assert.Nil(t, out.DeliveredAt)

		first, ok, err := s.UpdateOrderStatus(ctx, o.ID, models.StatusDelivered)
		require.NoError(t, err)
		require.True(t, ok)
		require.NotNil(t, first.DeliveredAt)

		back, ok, err := s.UpdateOrderStatus(ctx, o.ID, models.StatusPreparing)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, models.StatusPreparing, back.Status)
		require.NotNil(t, back.DeliveredAt)
		assert.True(t, first.DeliveredAt.Equal(*back.DeliveredAt))

		// re-entering Delivered re-stamps
		second, ok, err := s.UpdateOrderStatus(ctx, o.ID, models.StatusDelivered)
		require.NoError(t, err)
		require.True(t, ok)
		require.NotNil(t, second.DeliveredAt)
		assert.True(t, second.DeliveredAt.After(*first.DeliveredAt))

		again, ok, err := s.UpdateOrderStatus(ctx, o.ID, models.StatusDelivered)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, models.StatusDelivered, again.Status)
		assert.True(t, again.DeliveredAt.After(*second.DeliveredAt))

		stored, ok, err := s.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, models.StatusDelivered, stored.Status)
		assert.True(t, again.DeliveredAt.Equal(*stored.DeliveredAt))
	})

	t.Run("checkout scenario", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		ctx := context.Background()

		p, err := s.CreateProduct(ctx, oliveOil())
		require.NoError(t, err)

		products, err := s.ListProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, p.ID, products[0].ID)

		customerID := uuid.New()
		order := testOrder(models.OrderItem{ProductID: p.ID, Title: p.Title, Price: p.Price, Quantity: 2})
		order.CustomerID = &customerID
		order.Customer.ID = &customerID
		order.Total = decimal.RequireFromString("51.00")

		created, err := s.CreateOrder(ctx, order)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("51").Equal(created.Total))

		_, ok, err := s.UpdateOrderStatus(ctx, created.ID, models.StatusDelivered)
		require.NoError(t, err)
		require.True(t, ok)

		got, ok, err := s.GetOrder(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, models.StatusDelivered, got.Status)
		assert.NotNil(t, got.DeliveredAt)
		require.NotNil(t, got.CustomerID)
		assert.Equal(t, customerID, *got.CustomerID)
		require.NotNil(t, got.Customer.ID)
		assert.Equal(t, customerID, *got.Customer.ID)
		assert.Equal(t, "سارة", got.Customer.Name)
		assert.Equal(t, "sara@example.com", got.Customer.Email)
		require.Len(t, got.Items, 1)
		assert.Equal(t, p.ID, got.Items[0].ProductID)
		assert.Equal(t, 2, got.Items[0].Quantity)
		assert.True(t, p.Price.Equal(got.Items[0].Price))
	})

	t.Run("total stored verbatim and items keep order", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		ctx := context.Background()

		order := testOrder(
			models.OrderItem{ProductID: uuid.New(), Title: "عسل", Price: decimal.RequireFromString("18"), Quantity: 1},
			models.OrderItem{ProductID: uuid.New(), Title: "لبنة", Price: decimal.RequireFromString("6.75"), Quantity: 3},
			models.OrderItem{ProductID: uuid.New(), Title: "زيت", Price: decimal.RequireFromString("25.5"), Quantity: 1},
		)
		order.Total = decimal.RequireFromString("99.99")

		created, err := s.CreateOrder(ctx, order)
		require.NoError(t, err)

		got, ok, err := s.GetOrder(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, decimal.RequireFromString("99.99").Equal(got.Total))
		require.Len(t, got.Items, 3)
		assert.Equal(t, "عسل", got.Items[0].Title)
		assert.Equal(t, "لبنة", got.Items[1].Title)
		assert.Equal(t, "زيت", got.Items[2].Title)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		ctx := context.Background()

		o, err := s.CreateOrder(ctx, testOrder(models.OrderItem{ProductID: uuid.New(), Title: "عسل", Price: decimal.RequireFromString("18"), Quantity: 1}))
		require.NoError(t, err)
		o.Items[0].Quantity = 40

		got, ok, err := s.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 1, got.Items[0].Quantity)
	})

	t.Run("seed fills an empty catalogue once", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		ctx := context.Background()

		n, err := Seed(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		n, err = Seed(ctx, s)
		require.NoError(t, err)
		assert.Zero(t, n)

		products, err := s.ListProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "زيت زيتون بكر ممتاز", products[0].Title)
	})
}
