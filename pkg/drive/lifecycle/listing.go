package lifecycle

import (
	"context"
	"strings"

	"github.com/marmos91/dittodrive/pkg/drive/cache"
	"github.com/marmos91/dittodrive/pkg/drive/fault"
	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// List returns one page of the principal's live nodes directly under
// parentPath, name-ordered, served read-through from the query cache.
func (s *Service) List(ctx context.Context, principal models.Principal, parentPath string, page models.Page) (*models.PageResult[models.Node], error) {
	if principal.IsZero() {
		return nil, fault.Unauthorized("no principal established")
	}
	if err := validateParentPath(parentPath); err != nil {
		return nil, err
	}
	page = models.NewPage(page.Number, page.Size)

	key := cache.Key{PrincipalID: principal.ID, Shape: cache.ShapeList, Params: parentPath, Page: page}
	return s.cache.Fetch(ctx, key, func(ctx context.Context) (*models.PageResult[models.Node], error) {
		return s.store.ListNodes(ctx, principal.ID, parentPath, page)
	})
}

// Search returns one page of the principal's live nodes whose name
// contains term, case-insensitively, read-through cached.
func (s *Service) Search(ctx context.Context, principal models.Principal, term string, page models.Page) (*models.PageResult[models.Node], error) {
	if principal.IsZero() {
		return nil, fault.Unauthorized("no principal established")
	}
	if strings.TrimSpace(term) == "" {
		return nil, fault.InvalidInput("search term must not be empty")
	}
	page = models.NewPage(page.Number, page.Size)

	key := cache.Key{PrincipalID: principal.ID, Shape: cache.ShapeSearch, Params: term, Page: page}
	return s.cache.Fetch(ctx, key, func(ctx context.Context) (*models.PageResult[models.Node], error) {
		return s.store.SearchNodes(ctx, principal.ID, term, page)
	})
}

// ListTrash returns one page of the principal's trashed nodes, most
// recently trashed first, read-through cached.
func (s *Service) ListTrash(ctx context.Context, principal models.Principal, page models.Page) (*models.PageResult[models.Node], error) {
	if principal.IsZero() {
		return nil, fault.Unauthorized("no principal established")
	}
	page = models.NewPage(page.Number, page.Size)

	key := cache.Key{PrincipalID: principal.ID, Shape: cache.ShapeTrash, Params: "", Page: page}
	return s.cache.Fetch(ctx, key, func(ctx context.Context) (*models.PageResult[models.Node], error) {
		return s.store.ListTrash(ctx, principal.ID, page)
	})
}

// Activity returns one page of the principal's own activity log, most
// recent first. Activity bypasses the query cache, which stores node
// pages only.
func (s *Service) Activity(ctx context.Context, principal models.Principal, page models.Page) (*models.PageResult[models.ActivityEntry], error) {
	if principal.IsZero() {
		return nil, fault.Unauthorized("no principal established")
	}
	page = models.NewPage(page.Number, page.Size)
	return s.store.ListActivity(ctx, principal.ID, page)
}
