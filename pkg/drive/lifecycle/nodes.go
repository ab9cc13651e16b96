package lifecycle

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/internal/telemetry"
	"github.com/marmos91/dittodrive/pkg/drive/fault"
	"github.com/marmos91/dittodrive/pkg/drive/models"
	"github.com/marmos91/dittodrive/pkg/drive/resolver"
)

// folderMarkerContentType marks folder placeholder objects in the bucket.
const folderMarkerContentType = "application/x-directory"

// validateParentPath checks a parent path argument. Paths are
// slash-separated with no leading or trailing slash; the empty string is
// the drive root.
func validateParentPath(parentPath string) error {
	if parentPath == "" {
		return nil
	}
	if strings.HasPrefix(parentPath, "/") || strings.HasSuffix(parentPath, "/") {
		return fault.InvalidInput("parent path must not have leading or trailing slashes")
	}
	for _, segment := range strings.Split(parentPath, "/") {
		if err := models.ValidateName(segment); err != nil {
			return fault.InvalidInput("invalid parent path segment: " + segment)
		}
	}
	return nil
}

// CreateFolder creates a folder under parentPath owned by the acting
// principal. A live node already occupying the path yields Conflict;
// creating over a trashed node's old path succeeds, because trash does
// not occupy the namespace.
func (s *Service) CreateFolder(ctx context.Context, principal models.Principal, parentPath, name string) (*models.Node, error) {
	ctx, span := telemetry.StartDriveSpan(ctx, "create_folder", principal.ID,
		telemetry.ParentPath(parentPath))
	defer span.End()

	if principal.IsZero() {
		return nil, fault.Unauthorized("no principal established")
	}
	if err := models.ValidateName(name); err != nil {
		return nil, err
	}
	if err := validateParentPath(parentPath); err != nil {
		return nil, err
	}

	node := &models.Node{
		OwnerID:    principal.ID,
		Name:       name,
		Path:       models.JoinPath(parentPath, name),
		Kind:       models.KindFolder.String(),
		ParentPath: parentPath,
	}
	id, err := s.store.CreateNode(ctx, node)
	if err != nil {
		return nil, err
	}
	node.ID = id

	// The marker object makes the folder visible in the bucket namespace.
	// The metadata row stays authoritative if the write fails.
	marker := resolver.FolderMarkerKey(principal.ID, node.Path)
	if err := s.blobs.PutObject(ctx, marker, bytes.NewReader(nil), folderMarkerContentType); err != nil {
		logger.WarnCtx(ctx, "Failed to write folder marker",
			logger.Principal(principal.ID),
			logger.Key(marker),
			logger.Err(err))
	}

	if err := s.invalidate(ctx, principal.ID, principal.ID); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, principal, models.ActionCreateFolder, node.ID, node.Path, "")

	logger.DebugCtx(ctx, "Folder created",
		logger.Principal(principal.ID),
		logger.NodeID(node.ID),
		logger.Path(node.Path))
	return node, nil
}

// CreateFile uploads content to the object store and creates the file
// node under parentPath. The object is written before the row: on a path
// collision the metadata stays consistent and the uploaded object is
// orphaned in the bucket.
func (s *Service) CreateFile(ctx context.Context, principal models.Principal, parentPath, name string, content io.Reader, size int64, contentType string) (*models.Node, error) {
	ctx, span := telemetry.StartDriveSpan(ctx, "upload_file", principal.ID,
		telemetry.ParentPath(parentPath),
		telemetry.Size(size))
	defer span.End()

	if principal.IsZero() {
		return nil, fault.Unauthorized("no principal established")
	}
	if err := models.ValidateName(name); err != nil {
		return nil, err
	}
	if err := validateParentPath(parentPath); err != nil {
		return nil, err
	}
	if content == nil {
		return nil, fault.InvalidInput("file content must not be nil")
	}
	if size < 0 {
		return nil, fault.InvalidInput("file size must not be negative")
	}

	key := resolver.FileKey(principal.ID, parentPath, name, time.Now())
	if err := s.blobs.PutObject(ctx, key, content, contentType); err != nil {
		return nil, err
	}

	node := &models.Node{
		OwnerID:    principal.ID,
		Name:       name,
		Path:       models.JoinPath(parentPath, name),
		Kind:       models.KindFile.String(),
		ParentPath: parentPath,
		Size:       size,
		BackingKey: key,
	}
	id, err := s.store.CreateNode(ctx, node)
	if err != nil {
		return nil, err
	}
	node.ID = id

	if err := s.invalidate(ctx, principal.ID, principal.ID); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, principal, models.ActionUploadFile, node.ID, node.Path, "")

	logger.DebugCtx(ctx, "File uploaded",
		logger.Principal(principal.ID),
		logger.NodeID(node.ID),
		logger.Path(node.Path),
		logger.Size(size))
	return node, nil
}

// Get returns a live node visible to the principal at viewer level or
// above. Trashed nodes are not served here; owners reach them through the
// trash listing.
func (s *Service) Get(ctx context.Context, principal models.Principal, nodeID string) (*models.Node, error) {
	if principal.IsZero() {
		return nil, fault.Unauthorized("no principal established")
	}
	node, err := s.store.GetLiveNode(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, principal, node, models.RoleViewer); err != nil {
		return nil, err
	}
	return node, nil
}
