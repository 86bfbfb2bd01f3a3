package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/souq/internal/models"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func SampleProducts() []models.Product {
	return []models.Product{
		{
			Title:       "زيت زيتون بكر ممتاز",
			Price:       decimal.RequireFromString("25.50"),
			Category:    "زيوت",
			Image:       strPtr("/attached_assets/generated_images/Olive_oil_product_photo_9503efe9.png"),
			Description: strPtr("زيت زيتون بكر ممتاز من أفضل المزارع، مثالي للسلطات والطبخ"),
		},
		{
			Title:       "عسل طبيعي صافي",
			Price:       decimal.RequireFromString("18.00"),
			Category:    "مربيات وعسل",
			Image:       strPtr("/attached_assets/generated_images/Honey_jar_product_photo_c0eea4a7.png"),
			Description: strPtr("عسل طبيعي 100% من المناحل المحلية، غني بالفوائد الصحية"),
		},
		{
			Title:       "لبنة منزلية طازجة",
			Price:       decimal.RequireFromString("6.75"),
			Category:    "ألبان",
			Image:       strPtr("/attached_assets/generated_images/Labneh_dairy_product_photo_a7c0fc00.png"),
			Description: strPtr("لبنة طازجة يومياً من الحليب الطازج، طعم أصيل ولذيذ"),
		},
	}
}

// Seed inserts the sample catalogue when the store has no products yet.
func Seed(ctx context.Context, s Store) (int, error) {
	existing, err := s.ListProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: list products: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	n := 0
	for _, p := range SampleProducts() {
		if _, err := s.CreateProduct(ctx, p); err != nil {
			return n, fmt.Errorf("seed: create %q: %w", p.Title, err)
		}
		n++
	}
	return n, nil
}
