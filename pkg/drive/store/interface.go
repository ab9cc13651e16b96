// Package store provides the drive metadata persistence layer.
//
// This package implements the Store interface for nodes, permission grants
// and the activity log.
//
// Two backends are supported:
//   - SQLite (single-node, default)
//   - PostgreSQL (HA-capable)
package store

import (
	"context"
	"time"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// Store provides the drive metadata persistence interface.
//
// All methods return faults from pkg/drive/fault: absent rows map to
// NotFound, uniqueness violations to Conflict, exceeded deadlines to
// Timeout and unreachable backends to Unavailable.
//
// Thread safety: implementations must be safe for concurrent use from
// multiple goroutines.
type Store interface {
	// Nodes

	// CreateNode inserts a new node. The node ID is generated if empty and
	// returned. A live node already occupying (owner, path) yields Conflict.
	CreateNode(ctx context.Context, node *models.Node) (string, error)

	// GetNode returns a node by id regardless of deletion state.
	GetNode(ctx context.Context, id string) (*models.Node, error)

	// GetLiveNode returns a node by id, excluding trashed nodes.
	GetLiveNode(ctx context.Context, id string) (*models.Node, error)

	// GetLiveNodeByPath returns the live node at (ownerID, path).
	GetLiveNodeByPath(ctx context.Context, ownerID, path string) (*models.Node, error)

	// ListNodes returns one page of an owner's live nodes directly under
	// parentPath, ordered by name.
	ListNodes(ctx context.Context, ownerID, parentPath string, page models.Page) (*models.PageResult[models.Node], error)

	// SearchNodes returns one page of an owner's live nodes whose name
	// contains term (case-insensitive), ordered by name.
	SearchNodes(ctx context.Context, ownerID, term string, page models.Page) (*models.PageResult[models.Node], error)

	// ListTrash returns one page of an owner's trashed nodes, most recently
	// trashed first.
	ListTrash(ctx context.Context, ownerID string, page models.Page) (*models.PageResult[models.Node], error)

	// MarkNodeDeleted trashes a live node owned by ownerID. The state
	// precondition travels in the UPDATE predicate; a row that is absent,
	// foreign or already trashed yields NotFound.
	MarkNodeDeleted(ctx context.Context, id, ownerID string, deletedAt time.Time) error

	// MarkNodeRestored brings a trashed node owned by ownerID back to live.
	// Symmetric to MarkNodeDeleted; restoring onto an occupied live path
	// yields Conflict.
	MarkNodeRestored(ctx context.Context, id, ownerID string) error

	// RelocateNode updates name, path and parent path of a live node.
	// backingKey, when non-nil, is updated in the same statement (file
	// moves). A destination collision yields Conflict; a missing or trashed
	// node yields NotFound.
	RelocateNode(ctx context.Context, id, name, path, parentPath string, backingKey *string) error

	// PurgeNode permanently removes a node owned by ownerID together with
	// its grants. The removed node is returned.
	PurgeNode(ctx context.Context, id, ownerID string) (*models.Node, error)

	// Grants

	// UpsertGrant writes a grant, updating the role in place when the
	// (node, grantee) pair already exists.
	UpsertGrant(ctx context.Context, grant *models.Grant) error

	// GetGrant returns the grant for (nodeID, granteeID), or nil when no
	// grant exists. Absence is not an error.
	GetGrant(ctx context.Context, nodeID, granteeID string) (*models.Grant, error)

	// ListGrantsByNode returns all grants on a node.
	ListGrantsByNode(ctx context.Context, nodeID string) ([]*models.Grant, error)

	// DeleteGrant removes the grant for (nodeID, granteeID).
	DeleteGrant(ctx context.Context, nodeID, granteeID string) error

	// Activity log

	// RecordActivity appends an activity entry. The entry ID is generated
	// if empty and returned.
	RecordActivity(ctx context.Context, entry *models.ActivityEntry) (string, error)

	// ListActivity returns one page of a principal's activity, most recent
	// first.
	ListActivity(ctx context.Context, principalID string, page models.Page) (*models.PageResult[models.ActivityEntry], error)

	// Lifecycle

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close releases the underlying database connection.
	Close() error
}
