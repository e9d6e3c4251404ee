package api

import (
	"github.com/tabmarks/tabmarks-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Tab      *service.TabService
	Group    *service.GroupService
	Bookmark *service.BookmarkService
	Search   *service.SearchService
}
