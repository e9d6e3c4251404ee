package providers

import (
	"github.com/samber/do/v2"

	"github.com/tabmarks/tabmarks-server/internal/logger"
	"github.com/tabmarks/tabmarks-server/internal/service"
)

// ProvideTabService provides the tab service.
func ProvideTabService(i do.Injector) (*service.TabService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTabService(storeHandle.Store, indexHandle.Index, log.Logger), nil
}

// ProvideGroupService provides the group service.
func ProvideGroupService(i do.Injector) (*service.GroupService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGroupService(storeHandle.Store, indexHandle.Index, log.Logger), nil
}

// ProvideBookmarkService provides the bookmark service.
func ProvideBookmarkService(i do.Injector) (*service.BookmarkService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	fetcherHandle := do.MustInvoke[*FaviconFetcherHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	// A typed nil pointer must not reach the interface field, or the
	// disabled check in the service would never fire.
	var fetcher service.IconFetcher
	if fetcherHandle.Fetcher != nil {
		fetcher = fetcherHandle.Fetcher
	}

	return service.NewBookmarkService(storeHandle.Store, indexHandle.Index, fetcher, log.Logger), nil
}
