package repo

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/souq/internal/lifecycle"
	"github.com/Skotchmaster/souq/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var _ Store = (*GormRepo)(nil)

type GormRepo struct {
	DB  *gorm.DB
	Now func() time.Time
}

func (r *GormRepo) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return systemNow()
}

// stamp returns the creation time for a new row of model's table, clamped to
// the newest created_at already stored so list order never runs backwards.
func (r *GormRepo) stamp(tx *gorm.DB, model any) (time.Time, error) {
	now := r.now()
	var latest []time.Time
	if err := tx.Model(model).Order("created_at DESC").Limit(1).Pluck("created_at", &latest).Error; err != nil {
		return time.Time{}, err
	}
	if len(latest) > 0 && now.Before(latest[0]) {
		now = latest[0]
	}
	return now, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{}, &models.Customer{}, &models.Order{}, &models.OrderItem{})
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (models.Product, bool, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, false, nil
		}
		return models.Product{}, false, err
	}
	return prod, true, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod models.Product) (models.Product, error) {
	prod.ID = uuid.New()
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		createdAt, err := r.stamp(tx, &models.Product{})
		if err != nil {
			return err
		}
		prod.CreatedAt = createdAt
		return tx.Create(&prod).Error
	})
	if err != nil {
		return models.Product{}, err
	}
	return prod, nil
}

func (r *GormRepo) UpdateProduct(ctx context.Context, id uuid.UUID, patch models.ProductPatch) (models.Product, bool, error) {
	var prod models.Product
	found := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&prod).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true
		patch.Apply(&prod)
		return tx.Save(&prod).Error
	})
	if err != nil || !found {
		return models.Product{}, false, err
	}
	return prod, true, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var items []models.Customer
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCustomer(ctx context.Context, id uuid.UUID) (models.Customer, bool, error) {
	return r.firstCustomer(r.DB.WithContext(ctx).Where("id = ?", id))
}

func (r *GormRepo) GetCustomerByEmail(ctx context.Context, email string) (models.Customer, bool, error) {
	return r.firstCustomer(r.DB.WithContext(ctx).Where("email_lower = ?", normalizeEmail(email)))
}

func (r *GormRepo) firstCustomer(q *gorm.DB) (models.Customer, bool, error) {
	var cust models.Customer
	if err := q.First(&cust).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Customer{}, false, nil
		}
		return models.Customer{}, false, err
	}
	return cust, true, nil
}

func (r *GormRepo) CreateCustomer(ctx context.Context, cust models.Customer) (models.Customer, error) {
	cust.ID = uuid.New()
	cust.EmailLower = normalizeEmail(cust.Email)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Customer{}).Where("email_lower = ?", cust.EmailLower).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrEmailTaken
		}
		createdAt, err := r.stamp(tx, &models.Customer{})
		if err != nil {
			return err
		}
		cust.CreatedAt = createdAt
		return tx.Create(&cust).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return models.Customer{}, ErrEmailTaken
		}
		return models.Customer{}, err
	}
	return cust, nil
}

func (r *GormRepo) withItems(q *gorm.DB) *gorm.DB {
	return q.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func (r *GormRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	var items []models.Order
	if err := r.withItems(r.DB.WithContext(ctx)).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (models.Order, bool, error) {
	return r.firstOrder(r.DB.WithContext(ctx), id)
}

func (r *GormRepo) firstOrder(q *gorm.DB, id uuid.UUID) (models.Order, bool, error) {
	var order models.Order
	if err := r.withItems(q).Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, false, nil
		}
		return models.Order{}, false, err
	}
	return order, true, nil
}

func (r *GormRepo) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	if err := checkStatus(order.Status); err != nil {
		return models.Order{}, err
	}

	order = order.Clone()
	order.ID = uuid.New()
	order.DeliveredAt = nil
	for i := range order.Items {
		order.Items[i].RowID = 0
		order.Items[i].OrderID = order.ID
		order.Items[i].Position = i
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		createdAt, err := r.stamp(tx, &models.Order{})
		if err != nil {
			return err
		}
		order.CreatedAt = createdAt
		return tx.Create(&order).Error
	})
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (models.Order, bool, error) {
	if err := checkStatus(status); err != nil {
		return models.Order{}, false, err
	}

	var order models.Order
	found := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, ok, err := r.firstOrder(tx, id)
		if err != nil || !ok {
			return err
		}
		found = true
		lifecycle.Apply(&o, status, r.now())
		if err := tx.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]any{
			"status":       o.Status,
			"delivered_at": o.DeliveredAt,
		}).Error; err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil || !found {
		return models.Order{}, false, err
	}
	return order, true, nil
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// items reference the order row, so they go first
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
