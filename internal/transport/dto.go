package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/souq/internal/models"
)

type CreateProductRequest struct {
	Title       string           `json:"title"`
	Price       *decimal.Decimal `json:"price"`
	Category    string           `json:"category"`
	Image       *string          `json:"image"`
	Description *string          `json:"description"`
}

// OptionalString tells a field sent as null apart from one left out.
type OptionalString struct {
	Set   bool
	Value *string
}

func SetString(v string) OptionalString {
	return OptionalString{Set: true, Value: &v}
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

type PatchProductRequest struct {
	Title       *string          `json:"title"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Image       OptionalString   `json:"image"`
	Description OptionalString   `json:"description"`
}

func (r PatchProductRequest) Patch() models.ProductPatch {
	return models.ProductPatch{
		Title:            r.Title,
		Price:            r.Price,
		Category:         r.Category,
		Image:            r.Image.Value,
		Description:      r.Description.Value,
		ClearImage:       r.Image.Set && r.Image.Value == nil,
		ClearDescription: r.Description.Set && r.Description.Value == nil,
	}
}

type RegisterRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Password string  `json:"password"`
	Address  *string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type OrderItemRequest struct {
	ID       uuid.UUID       `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerID *uuid.UUID              `json:"customerId"`
	Customer   models.CustomerSnapshot `json:"customer"`
	Items      []OrderItemRequest      `json:"items"`
	Total      *decimal.Decimal        `json:"total"`
	// Status is optional; when present it must be the initial state.
	Status     *models.OrderStatus     `json:"status"`
}

type UpdateStatusRequest struct {
	Status *string `json:"status"`
}

// CustomerResponse is the public view of a customer. It never carries the password.
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewCustomerResponse(c models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}

type AdminLoginResponse struct {
	Success bool   `json:"success"`
	Role    string `json:"role"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type StatsResponse struct {
	Products int             `json:"products"`
	Orders   int             `json:"orders"`
	ByStatus map[string]int  `json:"byStatus"`
	Revenue  decimal.Decimal `json:"revenue"`
}
