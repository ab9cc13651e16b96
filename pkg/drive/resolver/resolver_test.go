package resolver

import (
	"testing"
	"time"

	"github.com/marmos91/dittodrive/pkg/drive/fault"
	"github.com/marmos91/dittodrive/pkg/drive/models"
)

func TestStorageKey_File(t *testing.T) {
	node := &models.Node{
		ID:         "n1",
		OwnerID:    "alice",
		Name:       "report.pdf",
		Path:       "docs/report.pdf",
		ParentPath: "docs",
		Kind:       string(models.KindFile),
		BackingKey: "alice/docs/1700000000_report.pdf",
	}

	key, err := StorageKey(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "alice/docs/1700000000_report.pdf" {
		t.Errorf("StorageKey() = %q, want backing key", key)
	}
}

func TestStorageKey_FileWithoutBackingKeyIsInternal(t *testing.T) {
	node := &models.Node{
		ID:      "n1",
		OwnerID: "alice",
		Name:    "report.pdf",
		Path:    "docs/report.pdf",
		Kind:    string(models.KindFile),
	}

	_, err := StorageKey(node)
	if !fault.IsInternal(err) {
		t.Fatalf("expected Internal fault, got %v", err)
	}
}

func TestStorageKey_FolderResolvesToMarker(t *testing.T) {
	node := &models.Node{
		ID:      "n2",
		OwnerID: "alice",
		Name:    "docs",
		Path:    "docs",
		Kind:    string(models.KindFolder),
	}

	key, err := StorageKey(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "alice/docs/.keep" {
		t.Errorf("StorageKey() = %q, want %q", key, "alice/docs/.keep")
	}
}

func TestStorageKey_UnknownKindIsInternal(t *testing.T) {
	node := &models.Node{ID: "n3", OwnerID: "alice", Kind: "symlink"}

	_, err := StorageKey(node)
	if !fault.IsInternal(err) {
		t.Fatalf("expected Internal fault, got %v", err)
	}
}

func TestFolderMarkerKey_OwnerScoped(t *testing.T) {
	a := FolderMarkerKey("alice", "docs/projects")
	b := FolderMarkerKey("bob", "docs/projects")

	if a == b {
		t.Errorf("marker keys for different owners must differ, both %q", a)
	}
	if a != "alice/docs/projects/.keep" {
		t.Errorf("FolderMarkerKey() = %q, want %q", a, "alice/docs/projects/.keep")
	}
}

func TestFileKey(t *testing.T) {
	now := time.Unix(1700000000, 0)

	tests := []struct {
		name       string
		ownerID    string
		parentPath string
		leaf       string
		want       string
	}{
		{"nested", "alice", "docs", "report.pdf", "alice/docs/1700000000_report.pdf"},
		{"root level", "alice", "", "report.pdf", "alice/1700000000_report.pdf"},
		{"deep", "bob", "a/b/c", "x.txt", "bob/a/b/c/1700000000_x.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileKey(tt.ownerID, tt.parentPath, tt.leaf, now); got != tt.want {
				t.Errorf("FileKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileKey_ReuploadsAreDistinct(t *testing.T) {
	first := FileKey("alice", "docs", "report.pdf", time.Unix(1700000000, 0))
	second := FileKey("alice", "docs", "report.pdf", time.Unix(1700000001, 0))

	if first == second {
		t.Errorf("re-uploads at different instants must produce distinct keys, both %q", first)
	}
}
