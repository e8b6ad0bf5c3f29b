package providers

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/linkloftapp/linkloft-server/internal/config"
	"github.com/linkloftapp/linkloft-server/internal/logger"
	"github.com/linkloftapp/linkloft-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Database.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sqlite.Open(cfg.Database.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.Database.Path)

	return &StoreHandle{Store: db}, nil
}
