// Package resolver maps nodes to the object-store keys addressing their
// payload. Every key that ends up in the bucket is derived here, so the
// bucket layout has a single authority.
//
// Drive paths are unique per owner only, so storage keys are owner-scoped:
// a folder's marker lives at "<owner_id>/<path>/.keep" and a file's payload
// at "<owner_id>/<parent_path>/<unix_ts>_<name>". The upload timestamp keeps
// re-uploads of the same name distinct in the bucket even though only one is
// live in metadata.
package resolver

import (
	"fmt"
	"time"

	"github.com/marmos91/dittodrive/pkg/drive/fault"
	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// FolderMarkerName is the synthetic object name that represents a folder in
// the bucket namespace.
const FolderMarkerName = ".keep"

// StorageKey returns the object-store key for a node's payload.
//
// Files resolve to their backing key; a file without one is corrupt
// metadata and resolves to an Internal fault, never a panic. Folders
// resolve to their marker key.
func StorageKey(node *models.Node) (string, error) {
	switch node.GetKind() {
	case models.KindFile:
		if node.BackingKey == "" {
			return "", fault.Internal("file node has no backing key", node.ID)
		}
		return node.BackingKey, nil

	case models.KindFolder:
		return FolderMarkerKey(node.OwnerID, node.Path), nil

	default:
		return "", fault.Internal(fmt.Sprintf("unknown node kind %q", node.Kind), node.ID)
	}
}

// FolderMarkerKey derives the marker key for a folder at path.
func FolderMarkerKey(ownerID, path string) string {
	return ownerID + "/" + path + "/" + FolderMarkerName
}

// FileKey builds the backing key for a file uploaded (or renamed) at the
// given instant.
func FileKey(ownerID, parentPath, name string, now time.Time) string {
	leaf := fmt.Sprintf("%d_%s", now.Unix(), name)
	if parentPath == "" {
		return ownerID + "/" + leaf
	}
	return ownerID + "/" + parentPath + "/" + leaf
}
