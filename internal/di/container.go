// Package di provides dependency injection configuration for the TabMarks server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/tabmarks/tabmarks-server/internal/config"
	"github.com/tabmarks/tabmarks-server/internal/di/providers"
	"github.com/tabmarks/tabmarks-server/internal/logger"
	"github.com/tabmarks/tabmarks-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Favicon layer
	do.Provide(injector, providers.ProvideFaviconFetcher)

	// Business services
	do.Provide(injector, providers.ProvideTabService)
	do.Provide(injector, providers.ProvideGroupService)
	do.Provide(injector, providers.ProvideBookmarkService)
	do.Provide(injector, providers.ProvideSearchService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.FaviconFetcherHandle](injector)

	_ = do.MustInvoke[*service.TabService](injector)
	_ = do.MustInvoke[*service.GroupService](injector)
	_ = do.MustInvoke[*service.BookmarkService](injector)
	_ = do.MustInvoke[*service.SearchService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Catch up the search index with any writes it missed.
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
