package models

import (
	"strings"
	"time"

	"github.com/marmos91/dittodrive/pkg/drive/fault"
)

// NodeKind distinguishes files from folders.
type NodeKind string

const (
	// KindFile is a node backed by an object in the blob store.
	KindFile NodeKind = "file"

	// KindFolder is a container node represented by a marker object.
	KindFolder NodeKind = "folder"
)

// IsValid returns true if this is a valid node kind.
func (k NodeKind) IsValid() bool {
	return k == KindFile || k == KindFolder
}

// String returns the string representation of the kind.
func (k NodeKind) String() string {
	return string(k)
}

// Node represents a single entry in the virtual filesystem, either a file
// or a folder.
//
// Paths are slash-separated, relative to the owner's root, with no leading
// slash: a node named "report.pdf" under "docs" has Path "docs/report.pdf"
// and ParentPath "docs". Root-level nodes have an empty ParentPath.
//
// The (OwnerID, Path) pair is unique among live nodes only; trashed nodes
// keep their Path but no longer occupy it. The partial unique index that
// enforces this is created after auto-migration (see the store package).
type Node struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	OwnerID    string     `gorm:"not null;size:36;index" json:"owner_id"`
	Name       string     `gorm:"not null;size:255" json:"name"`
	Path       string     `gorm:"not null;size:4096" json:"path"`
	Kind       string     `gorm:"not null;size:16" json:"kind"` // file, folder
	ParentPath string     `gorm:"size:4096;index" json:"parent_path"`
	IsDeleted  bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	Size       int64      `gorm:"not null;default:0" json:"size"`
	BackingKey string     `gorm:"size:1024" json:"-"` // files only; storage detail
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for Node.
func (Node) TableName() string {
	return "nodes"
}

// GetKind returns the node's kind as a NodeKind type.
func (n *Node) GetKind() NodeKind {
	return NodeKind(n.Kind)
}

// IsFolder returns true if the node is a folder.
func (n *Node) IsFolder() bool {
	return n.GetKind() == KindFolder
}

// IsFile returns true if the node is a file.
func (n *Node) IsFile() bool {
	return n.GetKind() == KindFile
}

// Validate checks if the node has valid configuration.
func (n *Node) Validate() error {
	if err := ValidateName(n.Name); err != nil {
		return err
	}
	if !n.GetKind().IsValid() {
		return fault.InvalidInput("kind must be file or folder")
	}
	if n.OwnerID == "" {
		return fault.InvalidInput("owner id must not be empty")
	}
	if n.Path != JoinPath(n.ParentPath, n.Name) {
		return fault.InvalidInput("path does not match parent path and name")
	}
	return nil
}

// ValidateName checks a node leaf name. Names must be non-empty after
// trimming whitespace, must not contain path separators and must not be a
// dot reference.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fault.InvalidInput("name must not be empty")
	}
	if trimmed != name {
		return fault.InvalidInput("name must not have leading or trailing whitespace")
	}
	if strings.ContainsAny(name, "/\\") {
		return fault.InvalidInput("name must not contain path separators")
	}
	if name == "." || name == ".." {
		return fault.InvalidInput("name must not be a dot reference")
	}
	if len(name) > 255 {
		return fault.InvalidInput("name exceeds 255 characters")
	}
	return nil
}

// JoinPath composes a full node path from a parent path and a leaf name.
// Root-level nodes (empty parent) have Path equal to their name.
func JoinPath(parentPath, name string) string {
	if parentPath == "" {
		return name
	}
	return parentPath + "/" + name
}

// SplitPath splits a full path into parent path and leaf name.
func SplitPath(path string) (parentPath, name string) {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

// IsWithin returns true if path is root itself or lies underneath it.
// Used to reject moves of a folder into its own subtree.
func IsWithin(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+"/")
}
