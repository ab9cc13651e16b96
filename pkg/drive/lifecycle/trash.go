package lifecycle

import (
	"context"
	"time"

	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/internal/telemetry"
	"github.com/marmos91/dittodrive/pkg/drive/fault"
	"github.com/marmos91/dittodrive/pkg/drive/models"
	"github.com/marmos91/dittodrive/pkg/drive/resolver"
)

// SoftDelete moves a node to the trash. Owner-only: to everybody else,
// including grantees, the node is not visible as trashable and the
// operation reports NotFound. The owner and state preconditions travel in
// the UPDATE predicate, so two concurrent deletes cannot both succeed.
// Trashing a folder does not cascade to its children.
func (s *Service) SoftDelete(ctx context.Context, principal models.Principal, nodeID string) error {
	ctx, span := telemetry.StartDriveSpan(ctx, "trash", principal.ID,
		telemetry.NodeID(nodeID))
	defer span.End()

	if principal.IsZero() {
		return fault.Unauthorized("no principal established")
	}
	if err := s.store.MarkNodeDeleted(ctx, nodeID, principal.ID, time.Now()); err != nil {
		return err
	}
	if err := s.invalidate(ctx, principal.ID, principal.ID); err != nil {
		return err
	}

	path := ""
	if node, err := s.store.GetNode(ctx, nodeID); err == nil {
		path = node.Path
	}
	s.recordActivity(ctx, principal, models.ActionTrash, nodeID, path, "")

	logger.DebugCtx(ctx, "Node trashed",
		logger.Principal(principal.ID),
		logger.NodeID(nodeID),
		logger.Path(path))
	return nil
}

// Restore brings a trashed node back to live. Owner-only, symmetric to
// SoftDelete. A live node that has occupied the path in the meantime
// yields Conflict and the node stays in the trash.
func (s *Service) Restore(ctx context.Context, principal models.Principal, nodeID string) error {
	ctx, span := telemetry.StartDriveSpan(ctx, "restore", principal.ID,
		telemetry.NodeID(nodeID))
	defer span.End()

	if principal.IsZero() {
		return fault.Unauthorized("no principal established")
	}
	if err := s.store.MarkNodeRestored(ctx, nodeID, principal.ID); err != nil {
		return err
	}
	if err := s.invalidate(ctx, principal.ID, principal.ID); err != nil {
		return err
	}

	path := ""
	if node, err := s.store.GetNode(ctx, nodeID); err == nil {
		path = node.Path
	}
	s.recordActivity(ctx, principal, models.ActionRestore, nodeID, path, "")

	logger.DebugCtx(ctx, "Node restored",
		logger.Principal(principal.ID),
		logger.NodeID(nodeID),
		logger.Path(path))
	return nil
}

// Purge permanently removes a node together with its grants and its
// backing object. Owner-only, and reachable only through the trash:
// deleting a live node always trashes it first.
func (s *Service) Purge(ctx context.Context, principal models.Principal, nodeID string) error {
	ctx, span := telemetry.StartDriveSpan(ctx, "purge", principal.ID,
		telemetry.NodeID(nodeID))
	defer span.End()

	if principal.IsZero() {
		return fault.Unauthorized("no principal established")
	}
	node, err := s.store.PurgeNode(ctx, nodeID, principal.ID)
	if err != nil {
		return err
	}

	// The metadata row is authoritative and already gone; the object
	// cleanup is best-effort. DeleteObject is idempotent.
	if key, err := resolver.StorageKey(node); err != nil {
		logger.WarnCtx(ctx, "Cannot resolve storage key for purged node",
			logger.NodeID(node.ID),
			logger.Err(err))
	} else if err := s.blobs.DeleteObject(ctx, key); err != nil {
		logger.WarnCtx(ctx, "Failed to delete backing object",
			logger.NodeID(node.ID),
			logger.Key(key),
			logger.Err(err))
	}

	if err := s.invalidate(ctx, principal.ID, principal.ID); err != nil {
		return err
	}
	s.recordActivity(ctx, principal, models.ActionPurge, node.ID, node.Path, "")

	logger.DebugCtx(ctx, "Node purged",
		logger.Principal(principal.ID),
		logger.NodeID(node.ID),
		logger.Path(node.Path))
	return nil
}
