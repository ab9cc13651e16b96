// Package sharing issues signed, expiring download links for drive nodes.
//
// Links delegate to the object store's presign capability: the service
// never proxies payload bytes, it hands out URLs that the bucket itself
// honors until they expire.
package sharing

import (
	"context"
	"fmt"
	"time"

	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/pkg/drive/fault"
	"github.com/marmos91/dittodrive/pkg/drive/models"
	"github.com/marmos91/dittodrive/pkg/drive/resolver"
)

const (
	// DefaultLinkTTL applies when a request does not name a lifetime.
	DefaultLinkTTL = 15 * time.Minute

	// MaxLinkTTL caps the lifetime a request may ask for. S3 presigned
	// URLs are bounded to seven days as well.
	MaxLinkTTL = 7 * 24 * time.Hour
)

// Config bounds share link lifetimes.
type Config struct {
	// DefaultTTL is used when a request passes a zero lifetime.
	DefaultTTL time.Duration `mapstructure:"default_ttl" json:"default_ttl" yaml:"default_ttl"`

	// MaxTTL is the longest lifetime a request may ask for.
	MaxTTL time.Duration `mapstructure:"max_ttl" json:"max_ttl" yaml:"max_ttl"`
}

// ApplyDefaults fills unset bounds.
func (c *Config) ApplyDefaults() {
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = DefaultLinkTTL
	}
	if c.MaxTTL <= 0 {
		c.MaxTTL = MaxLinkTTL
	}
}

// Link is a signed download URL together with its expiry.
type Link struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store is the slice of the metadata store the sharing service consumes.
type Store interface {
	GetLiveNode(ctx context.Context, id string) (*models.Node, error)
	RecordActivity(ctx context.Context, entry *models.ActivityEntry) (string, error)
}

// Authorizer decides whether a principal may act on a node at the
// required role level.
type Authorizer interface {
	Authorize(ctx context.Context, principal models.Principal, node *models.Node, required models.Role) error
}

// Presigner is the slice of the blob store the sharing service consumes.
type Presigner interface {
	PresignGetObject(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Service issues share links.
type Service struct {
	store     Store
	auth      Authorizer
	presigner Presigner
	config    Config
}

// New creates a sharing service.
func New(store Store, auth Authorizer, presigner Presigner, config Config) *Service {
	config.ApplyDefaults()
	return &Service{
		store:     store,
		auth:      auth,
		presigner: presigner,
		config:    config,
	}
}

// CreateLink issues a signed download link for a node the principal can
// view. Trashed and absent nodes both present as NotFound. A zero ttl
// means the configured default; a negative ttl or one above the
// configured maximum is InvalidInput.
func (s *Service) CreateLink(ctx context.Context, principal models.Principal, nodeID string, ttl time.Duration) (*Link, error) {
	if principal.IsZero() {
		return nil, fault.Unauthorized("no principal established")
	}
	if ttl < 0 {
		return nil, fault.InvalidInput("link ttl must not be negative")
	}
	if ttl == 0 {
		ttl = s.config.DefaultTTL
	}
	if ttl > s.config.MaxTTL {
		return nil, fault.InvalidInput(fmt.Sprintf("link ttl exceeds maximum of %s", s.config.MaxTTL))
	}

	node, err := s.store.GetLiveNode(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, principal, node, models.RoleViewer); err != nil {
		return nil, err
	}
	key, err := resolver.StorageKey(node)
	if err != nil {
		return nil, err
	}

	// Computed before presigning, so the bucket honors the URL at least
	// until the expiry we report.
	expiresAt := time.Now().Add(ttl)
	url, err := s.presigner.PresignGetObject(ctx, key, ttl)
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, principal, node, ttl)

	logger.DebugCtx(ctx, "Share link created",
		logger.Principal(principal.ID),
		logger.NodeID(node.ID),
		logger.Path(node.Path))
	return &Link{URL: url, ExpiresAt: expiresAt}, nil
}

// recordActivity appends a share entry to the activity log. Activity is
// informational; failures are logged and never fail the operation.
func (s *Service) recordActivity(ctx context.Context, principal models.Principal, node *models.Node, ttl time.Duration) {
	entry := &models.ActivityEntry{
		PrincipalID: principal.ID,
		Action:      models.ActionShare.String(),
		NodeID:      node.ID,
		Path:        node.Path,
		Detail:      fmt.Sprintf("link valid for %s", ttl),
	}
	if _, err := s.store.RecordActivity(ctx, entry); err != nil {
		logger.WarnCtx(ctx, "Failed to record activity",
			logger.Principal(principal.ID),
			logger.Operation(models.ActionShare.String()),
			logger.NodeID(node.ID),
			logger.Err(err))
	}
}
