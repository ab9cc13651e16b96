// Package lifecycle implements the drive metadata lifecycle: folder and
// file creation, the trash state machine (soft delete, restore, purge),
// renames and moves, and the cached listing operations.
//
// Every operation takes the acting principal, authorizes before anything
// else and validates input before any side effect. Mutations invalidate
// the affected principals' cached pages synchronously before returning
// success, so a client that mutates and immediately lists never sees a
// stale page.
package lifecycle

import (
	"context"
	"time"

	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/pkg/blob"
	"github.com/marmos91/dittodrive/pkg/drive/cache"
	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// Store is the slice of the metadata store the lifecycle service consumes.
type Store interface {
	CreateNode(ctx context.Context, node *models.Node) (string, error)
	GetNode(ctx context.Context, id string) (*models.Node, error)
	GetLiveNode(ctx context.Context, id string) (*models.Node, error)
	GetLiveNodeByPath(ctx context.Context, ownerID, path string) (*models.Node, error)
	ListNodes(ctx context.Context, ownerID, parentPath string, page models.Page) (*models.PageResult[models.Node], error)
	SearchNodes(ctx context.Context, ownerID, term string, page models.Page) (*models.PageResult[models.Node], error)
	ListTrash(ctx context.Context, ownerID string, page models.Page) (*models.PageResult[models.Node], error)
	MarkNodeDeleted(ctx context.Context, id, ownerID string, deletedAt time.Time) error
	MarkNodeRestored(ctx context.Context, id, ownerID string) error
	RelocateNode(ctx context.Context, id, name, path, parentPath string, backingKey *string) error
	PurgeNode(ctx context.Context, id, ownerID string) (*models.Node, error)
	RecordActivity(ctx context.Context, entry *models.ActivityEntry) (string, error)
	ListActivity(ctx context.Context, principalID string, page models.Page) (*models.PageResult[models.ActivityEntry], error)
}

// Authorizer decides whether a principal may act on a node at the
// required role level.
type Authorizer interface {
	Authorize(ctx context.Context, principal models.Principal, node *models.Node, required models.Role) error
}

// Service coordinates the metadata store, the access control layer, the
// listing cache and the object store behind the drive's node operations.
type Service struct {
	store Store
	auth  Authorizer
	cache cache.QueryCache
	blobs blob.Store
}

// New creates a lifecycle service.
func New(store Store, auth Authorizer, queryCache cache.QueryCache, blobs blob.Store) *Service {
	return &Service{
		store: store,
		auth:  auth,
		cache: queryCache,
		blobs: blobs,
	}
}

// invalidate drops cached pages for every principal whose listings the
// mutation may have changed. Listings are owner-scoped, so the owner's
// entries always go; the acting principal's entries go too when an editor
// mutates somebody else's node.
func (s *Service) invalidate(ctx context.Context, principalID, ownerID string) error {
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		return err
	}
	if principalID != ownerID {
		return s.cache.Invalidate(ctx, principalID)
	}
	return nil
}

// recordActivity appends an entry to the activity log. Activity is
// informational; failures are logged and never fail the operation.
func (s *Service) recordActivity(ctx context.Context, principal models.Principal, action models.Action, nodeID, path, detail string) {
	entry := &models.ActivityEntry{
		PrincipalID: principal.ID,
		Action:      action.String(),
		NodeID:      nodeID,
		Path:        path,
		Detail:      detail,
	}
	if _, err := s.store.RecordActivity(ctx, entry); err != nil {
		logger.WarnCtx(ctx, "Failed to record activity",
			logger.Principal(principal.ID),
			logger.Operation(action.String()),
			logger.NodeID(nodeID),
			logger.Err(err))
	}
}
