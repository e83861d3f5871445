// Package catalog loads the product seed list into the database. The
// load is idempotent: existing names are skipped, never overwritten, so
// it runs on every startup.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/caloriebot/backend/config"
	"github.com/caloriebot/backend/internal/service"
)

// Loader reads the seed source configured for the deployment and feeds
// it to the product service.
type Loader struct {
	products service.IProductService
	cfg      *config.Config
	log      *zap.Logger
}

// NewLoader creates a new Loader instance
func NewLoader(products service.IProductService, cfg *config.Config, log *zap.Logger) *Loader {
	return &Loader{products: products, cfg: cfg, log: log}
}

// Load reads the seed and inserts missing products. A missing local seed
// file is not an error; the bot can run against whatever catalog already
// exists.
func (l *Loader) Load(ctx context.Context) (*service.SeedResult, error) {
	data, err := l.readSeed(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return &service.SeedResult{}, nil
	}

	var items []service.SeedItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse catalog seed: %w", err)
	}

	result, err := l.products.SeedProducts(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}

	l.log.Info("catalog seed finished",
		zap.Int("loaded", result.Loaded),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (l *Loader) readSeed(ctx context.Context) ([]byte, error) {
	switch l.cfg.CatalogSource {
	case "s3":
		return l.readFromS3(ctx)
	default:
		data, err := os.ReadFile(l.cfg.CatalogPath)
		if os.IsNotExist(err) {
			l.log.Warn("catalog seed file not found, skipping",
				zap.String("path", l.cfg.CatalogPath))
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog seed: %w", err)
		}
		return data, nil
	}
}
