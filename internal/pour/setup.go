package pour

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/pourglass/internal/assets"
	"github.com/Faultbox/pourglass/internal/config"
	"github.com/Faultbox/pourglass/internal/logger"
	"github.com/Faultbox/pourglass/internal/recipe"
)

// Setup loads the catalog and the recipes named by cfg followed by extra
// paths, and returns an empty simulation with a playlist to pour from.
func Setup(cfg *config.Config, extra []string) (*Simulation, *recipe.Playlist, error) {
	catalog, err := assets.Load(cfg.Data.Catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}

	paths := append(append([]string(nil), cfg.Data.Recipes...), extra...)
	recipes, err := recipe.LoadPaths(paths)
	if err != nil {
		return nil, nil, fmt.Errorf("loading recipes: %w", err)
	}
	logger.Named("pour").Info("setup complete",
		zap.Int("vessels", len(catalog.Names())),
		zap.Int("recipes", len(recipes)),
	)

	return New(cfg.Simulation, catalog), recipe.NewPlaylist(recipes), nil
}
