package cli

import (
	"fmt"
	"os"

	"github.com/convive/convive/internal/config"
	"github.com/convive/convive/internal/notify"
	"github.com/convive/convive/internal/repo"
)

// appContext bundles the loaded config with the clients commands need.
type appContext struct {
	cfg    *config.Config
	client *repo.Client
	nf     notify.Notifier
}

// newAppContext loads config and constructs the repository client and
// notifier stack.
func newAppContext() (*appContext, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	client, err := repo.New(cfg.BaseURL, cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	nf := notify.Multi{&notify.Terminal{W: os.Stderr}}
	if d := notify.NewDispatcher(cfg.Webhooks); d != nil {
		nf = append(nf, d)
	}

	return &appContext{cfg: cfg, client: client, nf: nf}, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
