package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Skotchmaster/souq/internal/events"
	"github.com/Skotchmaster/souq/internal/models"
	"github.com/Skotchmaster/souq/internal/repo"
	"github.com/Skotchmaster/souq/internal/transport"
)

type AccountService struct {
	Store         repo.Store
	Events        events.Publisher
	AdminUsername string
	AdminPassword string
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (s *AccountService) Register(ctx context.Context, req transport.RegisterRequest) (models.Customer, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)
	if name == "" || email == "" || phone == "" || req.Password == "" {
		return models.Customer{}, fmt.Errorf("name, email, phone and password are required: %w", ErrValidation)
	}
	if !validEmail(email) {
		return models.Customer{}, fmt.Errorf("malformed email %q: %w", email, ErrValidation)
	}

	if _, exists, err := s.Store.GetCustomerByEmail(ctx, email); err != nil {
		return models.Customer{}, err
	} else if exists {
		return models.Customer{}, fmt.Errorf("email %s: %w", email, ErrConflict)
	}

	c, err := s.Store.CreateCustomer(ctx, models.Customer{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: req.Password,
		Address:  req.Address,
	})
	if err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return models.Customer{}, fmt.Errorf("email %s: %w", email, ErrConflict)
		}
		return models.Customer{}, err
	}

	publish(ctx, s.Events, events.TopicCustomers, c.ID.String(), map[string]any{
		"type":       "customer_registered",
		"customerID": c.ID.String(),
		"email":      c.Email,
	})
	return c, nil
}

func (s *AccountService) Login(ctx context.Context, req transport.LoginRequest) (models.Customer, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return models.Customer{}, ErrInvalidCredentials
	}

	c, ok, err := s.Store.GetCustomerByEmail(ctx, email)
	if err != nil {
		return models.Customer{}, err
	}
	if !ok || subtle.ConstantTimeCompare([]byte(c.Password), []byte(req.Password)) != 1 {
		return models.Customer{}, ErrInvalidCredentials
	}
	return c, nil
}

func (s *AccountService) AdminLogin(_ context.Context, req transport.AdminLoginRequest) error {
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.AdminPassword)) == 1
	if s.AdminUsername == "" || !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}
