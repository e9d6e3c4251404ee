package providers

import (
	"github.com/samber/do/v2"

	"github.com/tabmarks/tabmarks-server/internal/config"
	"github.com/tabmarks/tabmarks-server/internal/favicon"
	"github.com/tabmarks/tabmarks-server/internal/logger"
)

// FaviconFetcherHandle wraps the favicon fetcher. Fetcher is nil when
// fetching is disabled by configuration.
type FaviconFetcherHandle struct {
	Fetcher *favicon.Fetcher
}

// ProvideFaviconFetcher provides the favicon fetcher.
func ProvideFaviconFetcher(i do.Injector) (*FaviconFetcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Favicon.Enabled {
		log.Info("Favicon fetching disabled by configuration")
		return &FaviconFetcherHandle{}, nil
	}

	fetcher := favicon.NewFetcher(favicon.Options{
		Timeout:           cfg.Favicon.Timeout,
		MaxSize:           cfg.Favicon.MaxSize,
		RequestsPerSecond: cfg.Favicon.RequestsPerSecond,
	}, log.Logger)

	return &FaviconFetcherHandle{Fetcher: fetcher}, nil
}
