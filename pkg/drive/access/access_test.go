package access

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/marmos91/dittodrive/pkg/drive/fault"
	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// Fake store

type fakeStore struct {
	nodes    map[string]*models.Node
	grants   map[string]*models.Grant // keyed nodeID+"/"+granteeID
	activity []*models.ActivityEntry

	grantErr    error
	activityErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nodes:  make(map[string]*models.Node),
		grants: make(map[string]*models.Grant),
	}
}

func grantKey(nodeID, granteeID string) string {
	return nodeID + "/" + granteeID
}

func (f *fakeStore) GetLiveNode(_ context.Context, id string) (*models.Node, error) {
	node, ok := f.nodes[id]
	if !ok || node.IsDeleted {
		return nil, fault.NotFound("node", id)
	}
	return node, nil
}

func (f *fakeStore) GetGrant(_ context.Context, nodeID, granteeID string) (*models.Grant, error) {
	if f.grantErr != nil {
		return nil, f.grantErr
	}
	return f.grants[grantKey(nodeID, granteeID)], nil
}

func (f *fakeStore) UpsertGrant(_ context.Context, grant *models.Grant) error {
	if f.grantErr != nil {
		return f.grantErr
	}
	if grant.ID == "" {
		grant.ID = uuid.New().String()
	}
	f.grants[grantKey(grant.NodeID, grant.GranteeID)] = grant
	return nil
}

func (f *fakeStore) DeleteGrant(_ context.Context, nodeID, granteeID string) error {
	k := grantKey(nodeID, granteeID)
	if _, ok := f.grants[k]; !ok {
		return fault.NotFound("grant", granteeID)
	}
	delete(f.grants, k)
	return nil
}

func (f *fakeStore) ListGrantsByNode(_ context.Context, nodeID string) ([]*models.Grant, error) {
	var out []*models.Grant
	for _, g := range f.grants {
		if g.NodeID == nodeID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStore) RecordActivity(_ context.Context, entry *models.ActivityEntry) (string, error) {
	if f.activityErr != nil {
		return "", f.activityErr
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	f.activity = append(f.activity, entry)
	return entry.ID, nil
}

// Test fixtures

var (
	owner    = models.Principal{ID: "owner-1", Email: "owner@example.com"}
	alice    = models.Principal{ID: "alice-1", Email: "alice@example.com"}
	bob      = models.Principal{ID: "bob-1", Email: "bob@example.com"}
	stranger = models.Principal{ID: "stranger-1", Email: "stranger@example.com"}
)

func ownedNode(f *fakeStore) *models.Node {
	node := &models.Node{
		ID:         "node-1",
		OwnerID:    owner.ID,
		Name:       "report.pdf",
		Path:       "docs/report.pdf",
		ParentPath: "docs",
		Kind:       string(models.KindFile),
		BackingKey: "owner-1/docs/1700000000_report.pdf",
	}
	f.nodes[node.ID] = node
	return node
}

func grantRole(f *fakeStore, node *models.Node, p models.Principal, role models.Role) {
	f.grants[grantKey(node.ID, p.ID)] = &models.Grant{
		ID:        uuid.New().String(),
		NodeID:    node.ID,
		GranteeID: p.ID,
		Role:      role.String(),
	}
}

// Authorize tests

func TestAuthorize_OwnerAlwaysAllowed(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	svc := New(f)

	for _, required := range models.AllRoles() {
		if err := svc.Authorize(context.Background(), owner, node, required); err != nil {
			t.Fatalf("owner denied %s: %v", required, err)
		}
	}
}

func TestAuthorize_OwnerNeedsNoGrantLookup(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	f.grantErr = fault.Unavailable("grant table down")
	svc := New(f)

	// Ownership short-circuits before the grant query
	if err := svc.Authorize(context.Background(), owner, node, models.RoleOwner); err != nil {
		t.Fatalf("owner must not depend on grant lookups: %v", err)
	}
}

func TestAuthorize_NoGrantIsForbidden(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	svc := New(f)

	err := svc.Authorize(context.Background(), stranger, node, models.RoleViewer)
	if !fault.IsForbidden(err) {
		t.Fatalf("expected Forbidden, got %v", err)
	}
}

func TestAuthorize_ViewerDeniedEditorOperation(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	grantRole(f, node, alice, models.RoleViewer)
	svc := New(f)

	if err := svc.Authorize(context.Background(), alice, node, models.RoleViewer); err != nil {
		t.Fatalf("viewer denied viewer operation: %v", err)
	}

	err := svc.Authorize(context.Background(), alice, node, models.RoleEditor)
	if !fault.IsForbidden(err) {
		t.Fatalf("expected Forbidden for viewer on editor operation, got %v", err)
	}
}

func TestAuthorize_EditorMeetsViewerAndEditor(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	grantRole(f, node, alice, models.RoleEditor)
	svc := New(f)

	if err := svc.Authorize(context.Background(), alice, node, models.RoleViewer); err != nil {
		t.Fatalf("editor denied viewer operation: %v", err)
	}
	if err := svc.Authorize(context.Background(), alice, node, models.RoleEditor); err != nil {
		t.Fatalf("editor denied editor operation: %v", err)
	}

	err := svc.Authorize(context.Background(), alice, node, models.RoleOwner)
	if !fault.IsForbidden(err) {
		t.Fatalf("expected Forbidden for editor on owner operation, got %v", err)
	}
}

func TestAuthorize_MissingPrincipalIsUnauthorized(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	svc := New(f)

	err := svc.Authorize(context.Background(), models.Principal{}, node, models.RoleViewer)
	if !fault.IsUnauthorized(err) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

// Grant tests

func TestGrant_OwnerCanGrant(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	svc := New(f)

	grant, err := svc.Grant(context.Background(), owner, node.ID, alice.ID, models.RoleEditor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if grant.GetRole() != models.RoleEditor {
		t.Fatalf("expected editor grant, got %s", grant.Role)
	}

	// The grantee is now authorized
	if err := svc.Authorize(context.Background(), alice, node, models.RoleEditor); err != nil {
		t.Fatalf("grantee denied after grant: %v", err)
	}
}

func TestGrant_UpdatesRoleInPlace(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	svc := New(f)

	ctx := context.Background()
	if _, err := svc.Grant(ctx, owner, node.ID, alice.ID, models.RoleViewer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Grant(ctx, owner, node.ID, alice.ID, models.RoleEditor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := f.grants[grantKey(node.ID, alice.ID)]
	if stored.GetRole() != models.RoleEditor {
		t.Fatalf("expected role updated to editor, got %s", stored.Role)
	}

	grants, err := svc.ListGrants(ctx, owner, node.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(grants) != 1 {
		t.Fatalf("expected a single grant after re-grant, got %d", len(grants))
	}
}

func TestGrant_NonOwnerForbidden(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	grantRole(f, node, alice, models.RoleEditor)
	svc := New(f)

	_, err := svc.Grant(context.Background(), alice, node.ID, bob.ID, models.RoleViewer)
	if !fault.IsForbidden(err) {
		t.Fatalf("expected Forbidden for editor granting, got %v", err)
	}
}

func TestGrant_GranteeWithOwnerRoleCanGrant(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	grantRole(f, node, alice, models.RoleOwner)
	svc := New(f)

	// Owner privilege, not owner identity, gates grant writes
	if _, err := svc.Grant(context.Background(), alice, node.ID, bob.ID, models.RoleViewer); err != nil {
		t.Fatalf("owner-role grantee denied granting: %v", err)
	}
}

func TestGrant_InvalidRoleRejectedBeforeSideEffects(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	svc := New(f)

	_, err := svc.Grant(context.Background(), owner, node.ID, alice.ID, models.Role("admin"))
	if !fault.IsInvalidInput(err) {
		t.Fatalf("expected InvalidInput for role admin, got %v", err)
	}
	if len(f.grants) != 0 {
		t.Fatal("invalid grant must not be stored")
	}
	if len(f.activity) != 0 {
		t.Fatal("invalid grant must not be audited")
	}
}

func TestGrant_EmptyGranteeRejected(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	svc := New(f)

	_, err := svc.Grant(context.Background(), owner, node.ID, "", models.RoleViewer)
	if !fault.IsInvalidInput(err) {
		t.Fatalf("expected InvalidInput for empty grantee, got %v", err)
	}
}

func TestGrant_SelfGrantByOwnerAccepted(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	svc := New(f)

	grant, err := svc.Grant(context.Background(), owner, node.ID, owner.ID, models.RoleViewer)
	if err != nil {
		t.Fatalf("owner self-grant rejected: %v", err)
	}
	if grant.GranteeID != owner.ID {
		t.Fatalf("expected self-grant stored, got grantee %s", grant.GranteeID)
	}

	// The redundant viewer grant does not demote the owner
	if err := svc.Authorize(context.Background(), owner, node, models.RoleOwner); err != nil {
		t.Fatalf("owner demoted by self-grant: %v", err)
	}
}

func TestGrant_MissingNodeIsNotFound(t *testing.T) {
	f := newFakeStore()
	svc := New(f)

	_, err := svc.Grant(context.Background(), owner, "no-such-node", alice.ID, models.RoleViewer)
	if !fault.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestGrant_RecordsActivity(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	svc := New(f)

	if _, err := svc.Grant(context.Background(), owner, node.ID, alice.ID, models.RoleViewer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.activity) != 1 {
		t.Fatalf("expected 1 activity entry, got %d", len(f.activity))
	}
	entry := f.activity[0]
	if entry.Action != models.ActionGrant.String() {
		t.Fatalf("expected grant action, got %s", entry.Action)
	}
	if entry.PrincipalID != owner.ID {
		t.Fatalf("expected principal %s, got %s", owner.ID, entry.PrincipalID)
	}
}

func TestGrant_ActivityFailureDoesNotFailGrant(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	f.activityErr = fault.Unavailable("activity table down")
	svc := New(f)

	if _, err := svc.Grant(context.Background(), owner, node.ID, alice.ID, models.RoleViewer); err != nil {
		t.Fatalf("grant must survive activity failure: %v", err)
	}
	if len(f.grants) != 1 {
		t.Fatal("grant must be stored despite activity failure")
	}
}

// Revoke tests

func TestRevoke_OwnerCanRevoke(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	grantRole(f, node, alice, models.RoleEditor)
	svc := New(f)

	if err := svc.Revoke(context.Background(), owner, node.ID, alice.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := svc.Authorize(context.Background(), alice, node, models.RoleViewer)
	if !fault.IsForbidden(err) {
		t.Fatalf("expected Forbidden after revoke, got %v", err)
	}
}

func TestRevoke_NonOwnerForbidden(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	grantRole(f, node, alice, models.RoleEditor)
	grantRole(f, node, bob, models.RoleViewer)
	svc := New(f)

	err := svc.Revoke(context.Background(), alice, node.ID, bob.ID)
	if !fault.IsForbidden(err) {
		t.Fatalf("expected Forbidden, got %v", err)
	}
}

func TestRevoke_MissingGrantIsNotFound(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	svc := New(f)

	err := svc.Revoke(context.Background(), owner, node.ID, alice.ID)
	if !fault.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

// ListGrants tests

func TestListGrants_OwnerOnly(t *testing.T) {
	f := newFakeStore()
	node := ownedNode(f)
	grantRole(f, node, alice, models.RoleEditor)
	svc := New(f)

	grants, err := svc.ListGrants(context.Background(), owner, node.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(grants) != 1 {
		t.Fatalf("expected 1 grant, got %d", len(grants))
	}

	_, err = svc.ListGrants(context.Background(), alice, node.ID)
	if !fault.IsForbidden(err) {
		t.Fatalf("expected Forbidden for grantee listing grants, got %v", err)
	}
}
