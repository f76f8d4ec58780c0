package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/matchup/internal/cache"
	"github.com/ppiankov/matchup/internal/logging"
	"github.com/ppiankov/matchup/internal/metrics"
	"github.com/ppiankov/matchup/internal/model"
	"github.com/ppiankov/matchup/internal/table"
)

const cacheCleanup = 10 * time.Minute

// LoadRepository reads the configured data directory into a repository.
// Datasets that could not be loaded are returned as warnings.
func LoadRepository(ctx context.Context, cfg *model.Config, m *metrics.Metrics, log logging.Logger) (*table.Repository, []string, error) {
	if log == nil {
		log = logging.Nop()
	}
	reg := cfg.Registry()

	tables, warnings, err := table.LoadDir(ctx, cfg.DataDir, reg, log.Named("loader"))
	if err != nil {
		return nil, nil, fmt.Errorf("load datasets: %w", err)
	}

	opts := []table.Option{
		table.WithMetrics(m),
		table.WithLogger(log.Named("table")),
	}
	if cfg.Cache.Enabled {
		opts = append(opts, table.WithCache(cache.NewMemoryCache(cfg.Cache.TTL, cacheCleanup)))
	}

	repo := table.NewRepository(tables, reg, opts...)
	log.Info(ctx, "datasets loaded",
		logging.Int("loaded", len(tables)),
		logging.Int("registered", len(reg)),
		logging.Int("warnings", len(warnings)),
	)
	return repo, warnings, nil
}
