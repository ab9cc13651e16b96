// Package access is the single authorization authority of the drive.
//
// Every permission decision funnels through Service.Authorize so the
// owner-bypass and role-comparison rules exist in exactly one place.
// The package also manages permission grants, which are the only way a
// principal other than the owner acquires access to a node.
package access

import (
	"context"
	"fmt"

	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/pkg/drive/fault"
	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// Store is the subset of the metadata store the access service uses.
type Store interface {
	GetLiveNode(ctx context.Context, id string) (*models.Node, error)
	GetGrant(ctx context.Context, nodeID, granteeID string) (*models.Grant, error)
	UpsertGrant(ctx context.Context, grant *models.Grant) error
	DeleteGrant(ctx context.Context, nodeID, granteeID string) error
	ListGrantsByNode(ctx context.Context, nodeID string) ([]*models.Grant, error)
	RecordActivity(ctx context.Context, entry *models.ActivityEntry) (string, error)
}

// Service makes authorization decisions and manages grants.
type Service struct {
	store Store
}

// New creates an access control service backed by the given store.
func New(st Store) *Service {
	return &Service{store: st}
}

// Authorize checks that the principal holds at least the required role on
// the node.
//
// Decision order:
//  1. The owner is always allowed, regardless of grants.
//  2. Otherwise the grant for (node, principal) decides; no grant means no
//     access.
//  3. A grant allows the operation iff its level meets the required level.
//
// Denials are Forbidden; a missing principal is Unauthorized.
func (s *Service) Authorize(ctx context.Context, principal models.Principal, node *models.Node, required models.Role) error {
	if principal.IsZero() {
		return fault.Unauthorized("no principal established")
	}
	if node == nil {
		return fault.Internal("authorize called without a node", "")
	}

	if principal.ID == node.OwnerID {
		return nil
	}

	grant, err := s.store.GetGrant(ctx, node.ID, principal.ID)
	if err != nil {
		return err
	}
	if grant == nil {
		return fault.Forbidden(fmt.Sprintf("no access to %s", node.Path))
	}
	if !grant.GetRole().Meets(required) {
		return fault.Forbidden(fmt.Sprintf("requires %s access to %s", required, node.Path))
	}
	return nil
}

// Grant gives grantee the role on a node. Writing a grant for an existing
// (node, grantee) pair updates the role in place.
//
// Only a principal with owner privilege on the node may write grants;
// ownership is re-checked against the freshly loaded node immediately
// before the write. Owner self-grants are redundant but harmless and are
// stored as given.
func (s *Service) Grant(ctx context.Context, principal models.Principal, nodeID, granteeID string, role models.Role) (*models.Grant, error) {
	if granteeID == "" {
		return nil, fault.InvalidInput("grantee id must not be empty")
	}
	if !role.IsValid() {
		return nil, fault.InvalidInput(fmt.Sprintf("unknown role %q, valid roles are %v", role, models.AllRoles()))
	}

	node, err := s.store.GetLiveNode(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if err := s.Authorize(ctx, principal, node, models.RoleOwner); err != nil {
		return nil, err
	}

	grant := &models.Grant{
		NodeID:    node.ID,
		GranteeID: granteeID,
		Role:      role.String(),
	}
	if err := s.store.UpsertGrant(ctx, grant); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, principal, models.ActionGrant, node,
		fmt.Sprintf("granted %s to %s", role, granteeID))

	return grant, nil
}

// Revoke removes grantee's grant on a node. Owner privilege is re-checked
// before the delete; revoking a grant that does not exist is NotFound.
func (s *Service) Revoke(ctx context.Context, principal models.Principal, nodeID, granteeID string) error {
	if granteeID == "" {
		return fault.InvalidInput("grantee id must not be empty")
	}

	node, err := s.store.GetLiveNode(ctx, nodeID)
	if err != nil {
		return err
	}
	if err := s.Authorize(ctx, principal, node, models.RoleOwner); err != nil {
		return err
	}

	if err := s.store.DeleteGrant(ctx, node.ID, granteeID); err != nil {
		return err
	}

	s.recordActivity(ctx, principal, models.ActionRevoke, node,
		fmt.Sprintf("revoked grant from %s", granteeID))

	return nil
}

// ListGrants returns all grants on a node. Owner-only: grants reveal who
// else can see the node.
func (s *Service) ListGrants(ctx context.Context, principal models.Principal, nodeID string) ([]*models.Grant, error) {
	node, err := s.store.GetLiveNode(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if err := s.Authorize(ctx, principal, node, models.RoleOwner); err != nil {
		return nil, err
	}

	return s.store.ListGrantsByNode(ctx, node.ID)
}

// recordActivity appends an audit entry. Activity is informational; a
// failed write is logged and swallowed so the mutation still succeeds.
func (s *Service) recordActivity(ctx context.Context, principal models.Principal, action models.Action, node *models.Node, detail string) {
	entry := &models.ActivityEntry{
		PrincipalID: principal.ID,
		Action:      action.String(),
		NodeID:      node.ID,
		Path:        node.Path,
		Detail:      detail,
	}
	if _, err := s.store.RecordActivity(ctx, entry); err != nil {
		logger.WarnCtx(ctx, "Failed to record activity",
			"action", action.String(),
			"node_id", node.ID,
			"error", err)
	}
}
