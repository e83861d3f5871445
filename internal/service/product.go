package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"
	"gorm.io/gorm"

	"github.com/caloriebot/backend/internal/models"
)

// similarityCutoff is the minimum sequence-matching ratio for a catalog
// name to count as a suggestion.
const similarityCutoff = 0.6

// ErrProductNotFound is returned when no catalog entry matches a name.
var ErrProductNotFound = errors.New("product not found")

// ProductService resolves free-text food names against the catalog.
type ProductService struct {
	db *gorm.DB
}

// Ensure ProductService implements IProductService
var _ IProductService = (*ProductService)(nil)

// NewProductService creates a new ProductService instance
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// FindExact looks up a product by exact name. The caller is expected to
// trim and lower-case the input first.
func (s *ProductService) FindExact(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindSimilar returns up to limit catalog names whose similarity ratio to
// name clears the cutoff, ordered by descending ratio. Ties break on the
// name itself so the ordering is reproducible.
func (s *ProductService) FindSimilar(ctx context.Context, name string, limit int) ([]string, error) {
	names, err := s.ListNames(ctx)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		name  string
		ratio float64
	}

	query := strings.Split(name, "")
	var candidates []candidate
	for _, n := range names {
		ratio := difflib.NewMatcher(query, strings.Split(n, "")).Ratio()
		if ratio >= similarityCutoff {
			candidates = append(candidates, candidate{name: n, ratio: ratio})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].ratio != candidates[j].ratio {
			return candidates[i].ratio > candidates[j].ratio
		}
		return candidates[i].name < candidates[j].name
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result := make([]string, len(candidates))
	for i, c := range candidates {
		result[i] = c.name
	}
	return result, nil
}

// ListNames returns every catalog name.
func (s *ProductService) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// SeedItem is one catalog entry from the seed source.
type SeedItem struct {
	Name        string `json:"name"`
	KcalPer100g int    `json:"kcal_per_100g"`
}

// SeedResult reports what a seed run did.
type SeedResult struct {
	Loaded  int
	Skipped int
}

// SeedProducts inserts the given items into the catalog, skipping names
// that already exist. Repeated runs with the same input are no-ops.
func (s *ProductService) SeedProducts(ctx context.Context, items []SeedItem) (*SeedResult, error) {
	result := &SeedResult{}
	for _, item := range items {
		name := strings.ToLower(strings.TrimSpace(item.Name))
		if name == "" {
			continue
		}

		var existing models.Product
		err := s.db.WithContext(ctx).Where("name = ?", name).First(&existing).Error
		if err == nil {
			result.Skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		product := models.Product{
			ID:          uuid.New(),
			Name:        name,
			KcalPer100g: item.KcalPer100g,
		}
		if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
			return nil, err
		}
		result.Loaded++
	}
	return result, nil
}
