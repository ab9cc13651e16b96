package lifecycle

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marmos91/dittodrive/pkg/blob"
	"github.com/marmos91/dittodrive/pkg/blob/memory"
	"github.com/marmos91/dittodrive/pkg/drive/cache"
	"github.com/marmos91/dittodrive/pkg/drive/fault"
	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// Fakes

// fakeStore is a map-backed metadata store with the same fault semantics
// as the real one: live-path uniqueness, conditional trash transitions
// and owner-scoped queries.
type fakeStore struct {
	mu       sync.Mutex
	nodes    map[string]*models.Node
	activity []*models.ActivityEntry
	nextID   int

	createErr   error
	relocateErr error
	activityErr error

	listCalls   atomic.Int64
	searchCalls atomic.Int64
	trashCalls  atomic.Int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{nodes: make(map[string]*models.Node)}
}

func (f *fakeStore) CreateNode(_ context.Context, node *models.Node) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	for _, n := range f.nodes {
		if !n.IsDeleted && n.OwnerID == node.OwnerID && n.Path == node.Path {
			return "", fault.Conflict("path already occupied by a live node", node.Path)
		}
	}
	f.nextID++
	id := fmt.Sprintf("n%02d", f.nextID)
	stored := *node
	stored.ID = id
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	f.nodes[id] = &stored
	return id, nil
}

func (f *fakeStore) GetNode(_ context.Context, id string) (*models.Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.nodes[id]
	if !ok {
		return nil, fault.NotFound("node", id)
	}
	clone := *n
	return &clone, nil
}

func (f *fakeStore) GetLiveNode(_ context.Context, id string) (*models.Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.nodes[id]
	if !ok || n.IsDeleted {
		return nil, fault.NotFound("node", id)
	}
	clone := *n
	return &clone, nil
}

func (f *fakeStore) GetLiveNodeByPath(_ context.Context, ownerID, path string) (*models.Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.nodes {
		if !n.IsDeleted && n.OwnerID == ownerID && n.Path == path {
			clone := *n
			return &clone, nil
		}
	}
	return nil, fault.NotFound("node", path)
}

func (f *fakeStore) ListNodes(_ context.Context, ownerID, parentPath string, page models.Page) (*models.PageResult[models.Node], error) {
	f.listCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []models.Node
	for _, n := range f.nodes {
		if !n.IsDeleted && n.OwnerID == ownerID && n.ParentPath == parentPath {
			items = append(items, *n)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return paginate(items, page), nil
}

func (f *fakeStore) SearchNodes(_ context.Context, ownerID, term string, page models.Page) (*models.PageResult[models.Node], error) {
	f.searchCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	lowered := strings.ToLower(term)
	var items []models.Node
	for _, n := range f.nodes {
		if !n.IsDeleted && n.OwnerID == ownerID && strings.Contains(strings.ToLower(n.Name), lowered) {
			items = append(items, *n)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return paginate(items, page), nil
}

func (f *fakeStore) ListTrash(_ context.Context, ownerID string, page models.Page) (*models.PageResult[models.Node], error) {
	f.trashCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []models.Node
	for _, n := range f.nodes {
		if n.IsDeleted && n.OwnerID == ownerID {
			items = append(items, *n)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].DeletedAt.After(*items[j].DeletedAt)
	})
	return paginate(items, page), nil
}

func (f *fakeStore) MarkNodeDeleted(_ context.Context, id, ownerID string, deletedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.nodes[id]
	if !ok || n.OwnerID != ownerID || n.IsDeleted {
		return fault.NotFound("node", id)
	}
	n.IsDeleted = true
	n.DeletedAt = &deletedAt
	return nil
}

func (f *fakeStore) MarkNodeRestored(_ context.Context, id, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.nodes[id]
	if !ok || n.OwnerID != ownerID || !n.IsDeleted {
		return fault.NotFound("node", id)
	}
	for _, other := range f.nodes {
		if other.ID != id && !other.IsDeleted && other.OwnerID == ownerID && other.Path == n.Path {
			return fault.Conflict("path occupied by a live node", id)
		}
	}
	n.IsDeleted = false
	n.DeletedAt = nil
	return nil
}

func (f *fakeStore) RelocateNode(_ context.Context, id, name, path, parentPath string, backingKey *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.relocateErr != nil {
		return f.relocateErr
	}
	n, ok := f.nodes[id]
	if !ok || n.IsDeleted {
		return fault.NotFound("node", id)
	}
	for _, other := range f.nodes {
		if other.ID != id && !other.IsDeleted && other.OwnerID == n.OwnerID && other.Path == path {
			return fault.Conflict("destination path already occupied", path)
		}
	}
	n.Name = name
	n.Path = path
	n.ParentPath = parentPath
	if backingKey != nil {
		n.BackingKey = *backingKey
	}
	return nil
}

func (f *fakeStore) PurgeNode(_ context.Context, id, ownerID string) (*models.Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.nodes[id]
	if !ok || n.OwnerID != ownerID {
		return nil, fault.NotFound("node", id)
	}
	delete(f.nodes, id)
	clone := *n
	return &clone, nil
}

func (f *fakeStore) RecordActivity(_ context.Context, entry *models.ActivityEntry) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activityErr != nil {
		return "", f.activityErr
	}
	stored := *entry
	stored.ID = fmt.Sprintf("a%02d", len(f.activity)+1)
	stored.CreatedAt = time.Now()
	f.activity = append(f.activity, &stored)
	return stored.ID, nil
}

func (f *fakeStore) ListActivity(_ context.Context, principalID string, page models.Page) (*models.PageResult[models.ActivityEntry], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var entries []models.ActivityEntry
	for i := len(f.activity) - 1; i >= 0; i-- {
		if f.activity[i].PrincipalID == principalID {
			entries = append(entries, *f.activity[i])
		}
	}
	return paginate(entries, page), nil
}

func (f *fakeStore) activityActions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	actions := make([]string, 0, len(f.activity))
	for _, e := range f.activity {
		actions = append(actions, e.Action)
	}
	return actions
}

func paginate[T any](items []T, page models.Page) *models.PageResult[T] {
	total := int64(len(items))
	start := page.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + page.Limit()
	if end > len(items) {
		end = len(items)
	}
	return models.NewPageResult(items[start:end], total, page)
}

// fakeAuthorizer grants by principal id; owners are always allowed, like
// the real access service.
type fakeAuthorizer struct {
	grants map[string]models.Role
}

func (a *fakeAuthorizer) Authorize(_ context.Context, principal models.Principal, node *models.Node, required models.Role) error {
	if principal.IsZero() {
		return fault.Unauthorized("no principal established")
	}
	if principal.ID == node.OwnerID {
		return nil
	}
	role, ok := a.grants[principal.ID]
	if !ok || !role.Meets(required) {
		return fault.Forbidden("no access to " + node.Path)
	}
	return nil
}

// failingBlobs wraps a blob store with injectable failures.
type failingBlobs struct {
	blob.Store
	putErr  error
	moveErr error
}

func (f *failingBlobs) PutObject(ctx context.Context, key string, body io.Reader, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.Store.PutObject(ctx, key, body, contentType)
}

func (f *failingBlobs) MoveObject(ctx context.Context, oldKey, newKey string) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	return f.Store.MoveObject(ctx, oldKey, newKey)
}

// Fixtures

var (
	alice  = models.Principal{ID: "alice", Email: "alice@example.com"}
	bob    = models.Principal{ID: "bob", Email: "bob@example.com"}
	carol  = models.Principal{ID: "carol", Email: "carol@example.com"}
	nobody = models.Principal{}
)

type env struct {
	svc   *Service
	store *fakeStore
	auth  *fakeAuthorizer
	blobs *memory.MemoryStore
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := newFakeStore()
	auth := &fakeAuthorizer{grants: make(map[string]models.Role)}
	blobs := memory.New()
	qc := cache.NewMemoryCache(time.Minute, nil)
	t.Cleanup(func() { _ = qc.Close() })
	return &env{svc: New(st, auth, qc, blobs), store: st, auth: auth, blobs: blobs}
}

func (e *env) mustCreateFolder(t *testing.T, p models.Principal, parent, name string) *models.Node {
	t.Helper()
	node, err := e.svc.CreateFolder(context.Background(), p, parent, name)
	if err != nil {
		t.Fatalf("CreateFolder(%q, %q): %v", parent, name, err)
	}
	return node
}

func (e *env) mustCreateFile(t *testing.T, p models.Principal, parent, name, content string) *models.Node {
	t.Helper()
	node, err := e.svc.CreateFile(context.Background(), p, parent, name,
		strings.NewReader(content), int64(len(content)), "text/plain")
	if err != nil {
		t.Fatalf("CreateFile(%q, %q): %v", parent, name, err)
	}
	return node
}

// Folder creation

func TestCreateFolder_InsertsNodeAndMarker(t *testing.T) {
	e := newEnv(t)

	node := e.mustCreateFolder(t, alice, "", "docs")

	if node.ID == "" {
		t.Error("expected generated node id")
	}
	if node.Path != "docs" || node.ParentPath != "" {
		t.Errorf("unexpected paths: path=%q parent=%q", node.Path, node.ParentPath)
	}
	if node.Kind != models.KindFolder.String() {
		t.Errorf("kind = %q, want folder", node.Kind)
	}
	if _, _, err := e.blobs.GetObject("alice/docs/.keep"); err != nil {
		t.Errorf("expected folder marker in bucket: %v", err)
	}
}

func TestCreateFolder_NestedPath(t *testing.T) {
	e := newEnv(t)
	e.mustCreateFolder(t, alice, "", "docs")

	node := e.mustCreateFolder(t, alice, "docs", "q3")

	if node.Path != "docs/q3" {
		t.Errorf("path = %q, want docs/q3", node.Path)
	}
}

func TestCreateFolder_PathConflict(t *testing.T) {
	e := newEnv(t)
	e.mustCreateFolder(t, alice, "", "docs")

	_, err := e.svc.CreateFolder(context.Background(), alice, "", "docs")
	if !fault.IsConflict(err) {
		t.Errorf("expected Conflict, got %v", err)
	}
}

func TestCreateFolder_TrashedPathIsReusable(t *testing.T) {
	e := newEnv(t)
	old := e.mustCreateFolder(t, alice, "", "docs")

	if err := e.svc.SoftDelete(context.Background(), alice, old.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	fresh := e.mustCreateFolder(t, alice, "", "docs")
	if fresh.ID == old.ID {
		t.Error("expected a new node, got the trashed one")
	}
}

func TestCreateFolder_SamePathDifferentOwners(t *testing.T) {
	e := newEnv(t)
	e.mustCreateFolder(t, alice, "", "docs")
	e.mustCreateFolder(t, bob, "", "docs")
}

func TestCreateFolder_InvalidName(t *testing.T) {
	e := newEnv(t)

	for _, name := range []string{"", "   ", "a/b", "a\\b", ".", ".."} {
		if _, err := e.svc.CreateFolder(context.Background(), alice, "", name); !fault.IsInvalidInput(err) {
			t.Errorf("name %q: expected InvalidInput, got %v", name, err)
		}
	}
	if len(e.store.nodes) != 0 {
		t.Errorf("expected no nodes stored, got %d", len(e.store.nodes))
	}
}

func TestCreateFolder_InvalidParentPath(t *testing.T) {
	e := newEnv(t)

	for _, parent := range []string{"/docs", "docs/", "docs//sub", "a/../b"} {
		if _, err := e.svc.CreateFolder(context.Background(), alice, parent, "x"); !fault.IsInvalidInput(err) {
			t.Errorf("parent %q: expected InvalidInput, got %v", parent, err)
		}
	}
}

func TestCreateFolder_MissingPrincipal(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.CreateFolder(context.Background(), nobody, "", "docs")
	if !fault.IsUnauthorized(err) {
		t.Errorf("expected Unauthorized, got %v", err)
	}
}

func TestCreateFolder_MarkerFailureIsNotFatal(t *testing.T) {
	st := newFakeStore()
	blobs := &failingBlobs{Store: memory.New(), putErr: fault.Unavailable("object store unreachable")}
	qc := cache.NewMemoryCache(time.Minute, nil)
	t.Cleanup(func() { _ = qc.Close() })
	svc := New(st, &fakeAuthorizer{}, qc, blobs)

	node, err := svc.CreateFolder(context.Background(), alice, "", "docs")
	if err != nil {
		t.Fatalf("expected success despite marker failure, got %v", err)
	}
	if node.Path != "docs" {
		t.Errorf("path = %q, want docs", node.Path)
	}
}

func TestCreateFolder_ActivityFailureIsNotFatal(t *testing.T) {
	e := newEnv(t)
	e.store.activityErr = fault.Unavailable("activity table down")

	if _, err := e.svc.CreateFolder(context.Background(), alice, "", "docs"); err != nil {
		t.Fatalf("expected success despite activity failure, got %v", err)
	}
}

// File creation

func TestCreateFile_UploadsObjectAndRow(t *testing.T) {
	e := newEnv(t)

	node := e.mustCreateFile(t, alice, "", "notes.txt", "hello")

	if node.Size != 5 {
		t.Errorf("size = %d, want 5", node.Size)
	}
	if !strings.HasPrefix(node.BackingKey, "alice/") || !strings.HasSuffix(node.BackingKey, "_notes.txt") {
		t.Errorf("unexpected backing key %q", node.BackingKey)
	}
	data, contentType, err := e.blobs.GetObject(node.BackingKey)
	if err != nil {
		t.Fatalf("object not uploaded: %v", err)
	}
	if string(data) != "hello" || contentType != "text/plain" {
		t.Errorf("got object (%q, %q)", data, contentType)
	}
}

func TestCreateFile_PathCollisionOrphansObject(t *testing.T) {
	e := newEnv(t)
	e.mustCreateFile(t, alice, "", "notes.txt", "first")

	_, err := e.svc.CreateFile(context.Background(), alice, "", "notes.txt",
		strings.NewReader("second"), 6, "text/plain")
	if !fault.IsConflict(err) {
		t.Fatalf("expected Conflict, got %v", err)
	}

	// The metadata kept exactly one row; the second upload stays in the
	// bucket as an orphan.
	if len(e.store.nodes) != 1 {
		t.Errorf("expected 1 node, got %d", len(e.store.nodes))
	}
	if e.blobs.Len() != 2 {
		t.Errorf("expected 2 objects (live + orphan), got %d", e.blobs.Len())
	}
}

func TestCreateFile_NilContent(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.CreateFile(context.Background(), alice, "", "notes.txt", nil, 0, "")
	if !fault.IsInvalidInput(err) {
		t.Errorf("expected InvalidInput, got %v", err)
	}
	if e.blobs.Len() != 0 {
		t.Errorf("expected no uploads, got %d", e.blobs.Len())
	}
}

func TestCreateFile_NegativeSize(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.CreateFile(context.Background(), alice, "", "notes.txt", strings.NewReader(""), -1, "")
	if !fault.IsInvalidInput(err) {
		t.Errorf("expected InvalidInput, got %v", err)
	}
	if e.blobs.Len() != 0 {
		t.Errorf("expected no uploads, got %d", e.blobs.Len())
	}
}

// Get

func TestGet_OwnerReadsNode(t *testing.T) {
	e := newEnv(t)
	created := e.mustCreateFolder(t, alice, "", "docs")

	node, err := e.svc.Get(context.Background(), alice, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if node.Path != "docs" {
		t.Errorf("path = %q, want docs", node.Path)
	}
}

func TestGet_GranteeViewerAllowed(t *testing.T) {
	e := newEnv(t)
	created := e.mustCreateFolder(t, alice, "", "docs")
	e.auth.grants[carol.ID] = models.RoleViewer

	if _, err := e.svc.Get(context.Background(), carol, created.ID); err != nil {
		t.Errorf("expected viewer to read node, got %v", err)
	}
}

func TestGet_StrangerForbidden(t *testing.T) {
	e := newEnv(t)
	created := e.mustCreateFolder(t, alice, "", "docs")

	_, err := e.svc.Get(context.Background(), carol, created.ID)
	if !fault.IsForbidden(err) {
		t.Errorf("expected Forbidden, got %v", err)
	}
}

func TestGet_TrashedIsNotFound(t *testing.T) {
	e := newEnv(t)
	created := e.mustCreateFolder(t, alice, "", "docs")
	if err := e.svc.SoftDelete(context.Background(), alice, created.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	_, err := e.svc.Get(context.Background(), alice, created.ID)
	if !fault.IsNotFound(err) {
		t.Errorf("expected NotFound for trashed node, got %v", err)
	}
}

func TestGet_MissingPrincipal(t *testing.T) {
	e := newEnv(t)
	created := e.mustCreateFolder(t, alice, "", "docs")

	_, err := e.svc.Get(context.Background(), nobody, created.ID)
	if !fault.IsUnauthorized(err) {
		t.Errorf("expected Unauthorized, got %v", err)
	}
}
