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

// relocate applies a rename or move: it recomputes the path, checks the
// destination, moves the backing object for files and updates the row.
// The caller has already authorized the principal and validated input.
func (s *Service) relocate(ctx context.Context, node *models.Node, newName, newParentPath string) (*models.Node, error) {
	newPath := models.JoinPath(newParentPath, newName)

	// Early conflict check before touching the object store. The partial
	// unique index still enforces uniqueness under concurrency.
	existing, err := s.store.GetLiveNodeByPath(ctx, node.OwnerID, newPath)
	if err == nil && existing.ID != node.ID {
		return nil, fault.Conflict("destination path already occupied", newPath)
	}
	if err != nil && !fault.IsNotFound(err) {
		return nil, err
	}

	updated := *node
	updated.Name = newName
	updated.Path = newPath
	updated.ParentPath = newParentPath

	if node.IsFile() {
		oldKey, err := resolver.StorageKey(node)
		if err != nil {
			return nil, err
		}
		newKey := resolver.FileKey(node.OwnerID, newParentPath, newName, time.Now())
		if err := s.blobs.MoveObject(ctx, oldKey, newKey); err != nil {
			return nil, err
		}
		if err := s.store.RelocateNode(ctx, node.ID, newName, newPath, newParentPath, &newKey); err != nil {
			// Lost the race for the destination. Put the object back so
			// the row's backing key stays valid.
			if backErr := s.blobs.MoveObject(ctx, newKey, oldKey); backErr != nil {
				logger.WarnCtx(ctx, "Failed to restore object after relocate failure",
					logger.NodeID(node.ID),
					logger.OldKey(newKey),
					logger.NewKey(oldKey),
					logger.Err(backErr))
			}
			return nil, err
		}
		updated.BackingKey = newKey
		return &updated, nil
	}

	// Folders: the row moves first and the marker follows best-effort.
	if err := s.store.RelocateNode(ctx, node.ID, newName, newPath, newParentPath, nil); err != nil {
		return nil, err
	}
	oldMarker := resolver.FolderMarkerKey(node.OwnerID, node.Path)
	newMarker := resolver.FolderMarkerKey(node.OwnerID, newPath)
	if err := s.blobs.MoveObject(ctx, oldMarker, newMarker); err != nil {
		logger.WarnCtx(ctx, "Failed to move folder marker",
			logger.NodeID(node.ID),
			logger.OldKey(oldMarker),
			logger.NewKey(newMarker),
			logger.Err(err))
	}
	return &updated, nil
}

// Rename changes a node's leaf name in place. Requires editor. The new
// name is validated before any side effect; a live node at the resulting
// path yields Conflict. For files the backing object moves to a key
// derived from the new name. Children of a renamed folder keep their
// stored paths.
func (s *Service) Rename(ctx context.Context, principal models.Principal, nodeID, newName string) (*models.Node, error) {
	ctx, span := telemetry.StartDriveSpan(ctx, "rename", principal.ID,
		telemetry.NodeID(nodeID))
	defer span.End()

	if principal.IsZero() {
		return nil, fault.Unauthorized("no principal established")
	}
	if err := models.ValidateName(newName); err != nil {
		return nil, err
	}
	node, err := s.store.GetLiveNode(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, principal, node, models.RoleEditor); err != nil {
		return nil, err
	}
	if newName == node.Name {
		return node, nil
	}

	updated, err := s.relocate(ctx, node, newName, node.ParentPath)
	if err != nil {
		return nil, err
	}

	if err := s.invalidate(ctx, principal.ID, node.OwnerID); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, principal, models.ActionRename, node.ID, updated.Path, "from "+node.Path)

	logger.DebugCtx(ctx, "Node renamed",
		logger.Principal(principal.ID),
		logger.NodeID(node.ID),
		logger.OldPath(node.Path),
		logger.NewPath(updated.Path))
	return updated, nil
}

// Move changes a node's parent folder, keeping its name. Requires editor.
// The destination parent must be an existing live folder of the same
// owner; the empty string addresses the drive root. Moving a folder into
// itself or its own subtree is rejected. Children of a moved folder keep
// their stored paths.
func (s *Service) Move(ctx context.Context, principal models.Principal, nodeID, newParentPath string) (*models.Node, error) {
	ctx, span := telemetry.StartDriveSpan(ctx, "move", principal.ID,
		telemetry.NodeID(nodeID),
		telemetry.ParentPath(newParentPath))
	defer span.End()

	if principal.IsZero() {
		return nil, fault.Unauthorized("no principal established")
	}
	if err := validateParentPath(newParentPath); err != nil {
		return nil, err
	}
	node, err := s.store.GetLiveNode(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, principal, node, models.RoleEditor); err != nil {
		return nil, err
	}
	if newParentPath == node.ParentPath {
		return node, nil
	}
	if node.IsFolder() && models.IsWithin(node.Path, newParentPath) {
		return nil, fault.InvalidInput("cannot move a folder into itself or its own subtree")
	}
	if newParentPath != "" {
		parent, err := s.store.GetLiveNodeByPath(ctx, node.OwnerID, newParentPath)
		if err != nil {
			if fault.IsNotFound(err) {
				return nil, fault.InvalidInput("destination parent does not exist: " + newParentPath)
			}
			return nil, err
		}
		if !parent.IsFolder() {
			return nil, fault.InvalidInput("destination parent is not a folder: " + newParentPath)
		}
	}

	updated, err := s.relocate(ctx, node, node.Name, newParentPath)
	if err != nil {
		return nil, err
	}

	if err := s.invalidate(ctx, principal.ID, node.OwnerID); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, principal, models.ActionMove, node.ID, updated.Path, "from "+node.Path)

	logger.DebugCtx(ctx, "Node moved",
		logger.Principal(principal.ID),
		logger.NodeID(node.ID),
		logger.OldPath(node.Path),
		logger.NewPath(updated.Path))
	return updated, nil
}
