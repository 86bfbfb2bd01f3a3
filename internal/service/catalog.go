package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/souq/internal/events"
	"github.com/Skotchmaster/souq/internal/models"
	"github.com/Skotchmaster/souq/internal/repo"
	"github.com/Skotchmaster/souq/internal/transport"
	"github.com/Skotchmaster/souq/pkg/logging"
)

const searchLimit = 50

// ProductIndex is the full-text side of the catalogue.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type CatalogService struct {
	Store  repo.Store
	Events events.Publisher
	// Index is optional. Without it search scans the store.
	Index ProductIndex
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Store.ListProducts(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (models.Product, error) {
	p, ok, err := s.Store.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if !ok {
		return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (models.Product, error) {
	title := strings.TrimSpace(req.Title)
	category := strings.TrimSpace(req.Category)
	if title == "" || category == "" {
		return models.Product{}, fmt.Errorf("title and category are required: %w", ErrValidation)
	}
	if req.Price == nil || req.Price.IsNegative() {
		return models.Product{}, fmt.Errorf("price must be a non-negative number: %w", ErrValidation)
	}

	p, err := s.Store.CreateProduct(ctx, models.Product{
		Title:       title,
		Price:       *req.Price,
		Category:    category,
		Image:       req.Image,
		Description: req.Description,
	})
	if err != nil {
		return models.Product{}, err
	}

	s.reindex(ctx, p)
	publish(ctx, s.Events, events.TopicProducts, p.ID.String(), map[string]any{
		"type":      "product_created",
		"productID": p.ID.String(),
		"title":     p.Title,
		"price":     p.Price,
		"category":  p.Category,
	})
	return p, nil
}

func validatePatch(req transport.PatchProductRequest) error {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return fmt.Errorf("title cannot be empty: %w", ErrValidation)
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) == "" {
		return fmt.Errorf("category cannot be empty: %w", ErrValidation)
	}
	if req.Price != nil && req.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	return nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uuid.UUID, req transport.PatchProductRequest) (models.Product, error) {
	if err := validatePatch(req); err != nil {
		return models.Product{}, err
	}

	p, ok, err := s.Store.UpdateProduct(ctx, id, req.Patch())
	if err != nil {
		return models.Product{}, err
	}
	if !ok {
		return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}

	s.reindex(ctx, p)
	publish(ctx, s.Events, events.TopicProducts, p.ID.String(), map[string]any{
		"type":      "product_updated",
		"productID": p.ID.String(),
		"title":     p.Title,
		"price":     p.Price,
		"category":  p.Category,
	})
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	ok, err := s.Store.DeleteProduct(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id.String()); err != nil {
			logging.FromContext(ctx).With("svc", "catalog").Warn("unindex_product_failed", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProducts, id.String(), map[string]any{
		"type":      "product_deleted",
		"productID": id.String(),
	})
	return nil
}

// Search matches products by title, description and category. An empty query
// returns the whole catalogue.
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Store.ListProducts(ctx)
	}

	if s.Index != nil {
		_, hits, err := s.Index.Search(ctx, query, 0, searchLimit)
		if err == nil {
			return hits, nil
		}
		logging.FromContext(ctx).With("svc", "catalog").Warn("search_index_failed", "query", query, "error", err)
	}

	all, err := s.Store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	out := make([]models.Product, 0)
	for _, p := range all {
		if matches(p, needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

func matches(p models.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Title), needle) || strings.Contains(strings.ToLower(p.Category), needle) {
		return true
	}
	return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), needle)
}

func (s *CatalogService) reindex(ctx context.Context, p models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).With("svc", "catalog").Warn("index_product_failed", "product_id", p.ID, "error", err)
	}
}
