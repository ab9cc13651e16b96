package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/marmos91/dittodrive/pkg/drive/fault"
	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// Nodes

// CreateNode inserts a new node. The partial unique index on
// (owner_id, path) rejects a second live node on the same path; trashed
// nodes do not block the insert.
func (s *GORMStore) CreateNode(ctx context.Context, node *models.Node) (string, error) {
	return createWithID(s.db, ctx, node,
		func(n *models.Node, id string) { n.ID = id },
		node.ID,
		fault.Conflict("path already occupied by a live node", node.Path))
}

// GetNode returns a node by id regardless of deletion state.
func (s *GORMStore) GetNode(ctx context.Context, id string) (*models.Node, error) {
	var node models.Node
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&node).Error; err != nil {
		return nil, convertNotFoundError(err, "node", id)
	}
	return &node, nil
}

// GetLiveNode returns a node by id, excluding trashed nodes.
func (s *GORMStore) GetLiveNode(ctx context.Context, id string) (*models.Node, error) {
	var node models.Node
	if err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&node).Error; err != nil {
		return nil, convertNotFoundError(err, "node", id)
	}
	return &node, nil
}

// GetLiveNodeByPath returns the live node at (ownerID, path).
func (s *GORMStore) GetLiveNodeByPath(ctx context.Context, ownerID, path string) (*models.Node, error) {
	var node models.Node
	if err := s.db.WithContext(ctx).
		Where("owner_id = ? AND path = ? AND is_deleted = ?", ownerID, path, false).
		First(&node).Error; err != nil {
		return nil, convertNotFoundError(err, "node", path)
	}
	return &node, nil
}

// ListNodes returns one page of an owner's live nodes directly under
// parentPath, ordered by name.
func (s *GORMStore) ListNodes(ctx context.Context, ownerID, parentPath string, page models.Page) (*models.PageResult[models.Node], error) {
	return pageQuery[models.Node](s.db, ctx, page, "name ASC", func(q *gorm.DB) *gorm.DB {
		return q.Where("owner_id = ? AND parent_path = ? AND is_deleted = ?", ownerID, parentPath, false)
	})
}

// SearchNodes returns one page of an owner's live nodes whose name contains
// term, case-insensitively, ordered by name.
func (s *GORMStore) SearchNodes(ctx context.Context, ownerID, term string, page models.Page) (*models.PageResult[models.Node], error) {
	pattern := likePattern(term)
	return pageQuery[models.Node](s.db, ctx, page, "name ASC", func(q *gorm.DB) *gorm.DB {
		return q.Where("owner_id = ? AND is_deleted = ? AND LOWER(name) LIKE ? ESCAPE '\\'", ownerID, false, pattern)
	})
}

// ListTrash returns one page of an owner's trashed nodes, most recently
// trashed first.
func (s *GORMStore) ListTrash(ctx context.Context, ownerID string, page models.Page) (*models.PageResult[models.Node], error) {
	return pageQuery[models.Node](s.db, ctx, page, "deleted_at DESC", func(q *gorm.DB) *gorm.DB {
		return q.Where("owner_id = ? AND is_deleted = ?", ownerID, true)
	})
}

// MarkNodeDeleted trashes a live node. The precondition (owned by ownerID,
// not already trashed) travels in the UPDATE predicate so concurrent
// transitions cannot double-apply; zero affected rows means the node is
// absent, foreign or already trashed, which all present as NotFound.
func (s *GORMStore) MarkNodeDeleted(ctx context.Context, id, ownerID string, deletedAt time.Time) error {
	result := s.db.WithContext(ctx).Model(&models.Node{}).
		Where("id = ? AND owner_id = ? AND is_deleted = ?", id, ownerID, false).
		Updates(map[string]any{"is_deleted": true, "deleted_at": deletedAt})
	if result.Error != nil {
		return classifyError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fault.NotFound("node", id)
	}
	return nil
}

// MarkNodeRestored brings a trashed node back to live. Restoring onto a
// path that a live node has occupied in the meantime violates the partial
// unique index and yields Conflict.
func (s *GORMStore) MarkNodeRestored(ctx context.Context, id, ownerID string) error {
	result := s.db.WithContext(ctx).Model(&models.Node{}).
		Where("id = ? AND owner_id = ? AND is_deleted = ?", id, ownerID, true).
		Updates(map[string]any{"is_deleted": false, "deleted_at": nil})
	if result.Error != nil {
		if isUniqueConstraintError(result.Error) {
			return fault.Conflict("path occupied by a live node", id)
		}
		return classifyError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fault.NotFound("node", id)
	}
	return nil
}

// RelocateNode updates name, path and parent path of a live node, plus the
// backing key when backingKey is non-nil (file moves relocate the payload
// object as well).
func (s *GORMStore) RelocateNode(ctx context.Context, id, name, path, parentPath string, backingKey *string) error {
	updates := map[string]any{
		"name":        name,
		"path":        path,
		"parent_path": parentPath,
	}
	if backingKey != nil {
		updates["backing_key"] = *backingKey
	}

	result := s.db.WithContext(ctx).Model(&models.Node{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(updates)
	if result.Error != nil {
		if isUniqueConstraintError(result.Error) {
			return fault.Conflict("destination path already occupied", path)
		}
		return classifyError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fault.NotFound("node", id)
	}
	return nil
}

// PurgeNode permanently removes a node owned by ownerID and its grants in
// one transaction. The removed node is returned so the caller can clean up
// the backing object.
func (s *GORMStore) PurgeNode(ctx context.Context, id, ownerID string) (*models.Node, error) {
	var node models.Node
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&node).Error; err != nil {
			return convertNotFoundError(err, "node", id)
		}
		if err := tx.Where("node_id = ?", id).Delete(&models.Grant{}).Error; err != nil {
			return classifyError(err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.Node{}).Error; err != nil {
			return classifyError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &node, nil
}
