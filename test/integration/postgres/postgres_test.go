//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/marmos91/dittodrive/pkg/drive/fault"
	"github.com/marmos91/dittodrive/pkg/drive/models"
	"github.com/marmos91/dittodrive/pkg/drive/store"
)

// postgresHelper manages the PostgreSQL container for integration tests.
type postgresHelper struct {
	container testcontainers.Container
	host      string
	port      int
	database  string
	user      string
	password  string
}

// newPostgresHelper starts a PostgreSQL container or connects to an
// existing one configured via POSTGRES_HOST/POSTGRES_PORT.
func newPostgresHelper(t *testing.T) *postgresHelper {
	t.Helper()
	ctx := context.Background()

	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		port := 5432
		if p := os.Getenv("POSTGRES_PORT"); p != "" {
			if parsed, err := strconv.Atoi(p); err == nil {
				port = parsed
			}
		}
		return &postgresHelper{
			host:     host,
			port:     port,
			database: envOr("POSTGRES_DB", "dittodrive_test"),
			user:     envOr("POSTGRES_USER", "dittodrive_test"),
			password: envOr("POSTGRES_PASSWORD", "dittodrive_test"),
		}
	}

	// Start PostgreSQL container using testcontainers postgres module.
	// PostgreSQL logs "database system is ready" twice during startup
	// (once during bootstrap, once when fully ready), so wait for 2
	// occurrences.
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("dittodrive_test"),
		postgres.WithUsername("dittodrive_test"),
		postgres.WithPassword("dittodrive_test"),
		testcontainers.WithWaitStrategyAndDeadline(5*time.Minute,
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get container host: %v", err)
	}

	mapped, err := container.MappedPort(ctx, "5432")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get container port: %v", err)
	}

	return &postgresHelper{
		container: container,
		host:      host,
		port:      mapped.Int(),
		database:  "dittodrive_test",
		user:      "dittodrive_test",
		password:  "dittodrive_test",
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// connectionString returns a pgx-compatible connection string.
func (ph *postgresHelper) connectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		ph.user, ph.password, ph.host, ph.port, ph.database)
}

// storeConfig returns a drive store config pointing at the container.
func (ph *postgresHelper) storeConfig() *store.Config {
	return &store.Config{
		Type: store.DatabaseTypePostgres,
		Postgres: store.PostgresConfig{
			Host:     ph.host,
			Port:     ph.port,
			Database: ph.database,
			User:     ph.user,
			Password: ph.password,
			SSLMode:  "disable",
		},
	}
}

func (ph *postgresHelper) cleanup(t *testing.T) {
	t.Helper()
	if ph.container != nil {
		if err := ph.container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	}
}

func makeNode(ownerID, parentPath, name, kind string) *models.Node {
	node := &models.Node{
		OwnerID:    ownerID,
		Name:       name,
		Path:       models.JoinPath(parentPath, name),
		ParentPath: parentPath,
		Kind:       kind,
	}
	if kind == string(models.KindFile) {
		node.BackingKey = ownerID + "/" + node.Path
	}
	return node
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	helper := newPostgresHelper(t)
	defer helper.cleanup(t)
	ctx := context.Background()

	t.Run("raw connection works", func(t *testing.T) {
		pool, err := pgxpool.New(ctx, helper.connectionString())
		if err != nil {
			t.Fatalf("failed to create pgx pool: %v", err)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			t.Fatalf("failed to ping postgres: %v", err)
		}
	})

	driveStore, err := store.New(helper.storeConfig())
	if err != nil {
		t.Fatalf("failed to create postgres store: %v", err)
	}
	defer driveStore.Close()

	t.Run("migration creates schema", func(t *testing.T) {
		if err := driveStore.Ping(ctx); err != nil {
			t.Fatalf("ping failed after migration: %v", err)
		}

		pool, err := pgxpool.New(ctx, helper.connectionString())
		if err != nil {
			t.Fatalf("failed to create pgx pool: %v", err)
		}
		defer pool.Close()

		for _, table := range []string{"nodes", "grants", "activity_entries"} {
			var exists bool
			err := pool.QueryRow(ctx,
				"SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = $1)",
				table).Scan(&exists)
			if err != nil {
				t.Fatalf("failed to check table %s: %v", table, err)
			}
			if !exists {
				t.Errorf("expected table %s to exist after migration", table)
			}
		}
	})

	t.Run("node round trip", func(t *testing.T) {
		node := makeNode("owner-pg-1", "", "report.pdf", string(models.KindFile))
		node.Size = 2048

		id, err := driveStore.CreateNode(ctx, node)
		if err != nil {
			t.Fatalf("failed to create node: %v", err)
		}
		if id == "" {
			t.Fatal("expected generated node id")
		}

		got, err := driveStore.GetLiveNode(ctx, id)
		if err != nil {
			t.Fatalf("failed to get node: %v", err)
		}
		if got.Path != "report.pdf" || got.Size != 2048 {
			t.Errorf("round trip mismatch: got path=%q size=%d", got.Path, got.Size)
		}

		byPath, err := driveStore.GetLiveNodeByPath(ctx, "owner-pg-1", "report.pdf")
		if err != nil {
			t.Fatalf("failed to get node by path: %v", err)
		}
		if byPath.ID != id {
			t.Errorf("path lookup returned %q, want %q", byPath.ID, id)
		}
	})

	t.Run("live path uniqueness enforced", func(t *testing.T) {
		first := makeNode("owner-pg-2", "", "dup.txt", string(models.KindFile))
		id, err := driveStore.CreateNode(ctx, first)
		if err != nil {
			t.Fatalf("failed to create first node: %v", err)
		}

		second := makeNode("owner-pg-2", "", "dup.txt", string(models.KindFile))
		if _, err := driveStore.CreateNode(ctx, second); !fault.IsConflict(err) {
			t.Fatalf("expected conflict for duplicate live path, got %v", err)
		}

		// Trashing the first node frees the path for a new live node
		if err := driveStore.MarkNodeDeleted(ctx, id, "owner-pg-2", time.Now().UTC()); err != nil {
			t.Fatalf("failed to trash node: %v", err)
		}
		if _, err := driveStore.CreateNode(ctx, second); err != nil {
			t.Fatalf("expected create over trashed path to succeed, got %v", err)
		}

		// The trashed node cannot come back while the path is occupied
		if err := driveStore.MarkNodeRestored(ctx, id, "owner-pg-2"); !fault.IsConflict(err) {
			t.Fatalf("expected conflict restoring over occupied path, got %v", err)
		}
	})

	t.Run("listing excludes trash", func(t *testing.T) {
		owner := "owner-pg-3"
		folder := makeNode(owner, "", "docs", string(models.KindFolder))
		if _, err := driveStore.CreateNode(ctx, folder); err != nil {
			t.Fatalf("failed to create folder: %v", err)
		}

		live := makeNode(owner, "docs", "keep.txt", string(models.KindFile))
		if _, err := driveStore.CreateNode(ctx, live); err != nil {
			t.Fatalf("failed to create live node: %v", err)
		}

		trashed := makeNode(owner, "docs", "gone.txt", string(models.KindFile))
		trashedID, err := driveStore.CreateNode(ctx, trashed)
		if err != nil {
			t.Fatalf("failed to create node: %v", err)
		}
		if err := driveStore.MarkNodeDeleted(ctx, trashedID, owner, time.Now().UTC()); err != nil {
			t.Fatalf("failed to trash node: %v", err)
		}

		listing, err := driveStore.ListNodes(ctx, owner, "docs", models.NewPage(1, 10))
		if err != nil {
			t.Fatalf("failed to list nodes: %v", err)
		}
		if listing.TotalItems != 1 {
			t.Errorf("expected 1 live node in docs, got %d", listing.TotalItems)
		}

		trash, err := driveStore.ListTrash(ctx, owner, models.NewPage(1, 10))
		if err != nil {
			t.Fatalf("failed to list trash: %v", err)
		}
		if trash.TotalItems != 1 {
			t.Errorf("expected 1 trashed node, got %d", trash.TotalItems)
		}
	})

	t.Run("grant round trip", func(t *testing.T) {
		owner := "owner-pg-4"
		node := makeNode(owner, "", "shared", string(models.KindFolder))
		nodeID, err := driveStore.CreateNode(ctx, node)
		if err != nil {
			t.Fatalf("failed to create node: %v", err)
		}

		grant := &models.Grant{NodeID: nodeID, GranteeID: "alice", Role: string(models.RoleViewer)}
		if err := driveStore.UpsertGrant(ctx, grant); err != nil {
			t.Fatalf("failed to create grant: %v", err)
		}

		// Upsert on the same (node, grantee) pair changes the role
		update := &models.Grant{NodeID: nodeID, GranteeID: "alice", Role: string(models.RoleEditor)}
		if err := driveStore.UpsertGrant(ctx, update); err != nil {
			t.Fatalf("failed to upsert grant: %v", err)
		}

		grants, err := driveStore.ListGrantsByNode(ctx, nodeID)
		if err != nil {
			t.Fatalf("failed to list grants: %v", err)
		}
		if len(grants) != 1 {
			t.Fatalf("expected 1 grant after upsert, got %d", len(grants))
		}
		if grants[0].Role != string(models.RoleEditor) {
			t.Errorf("expected role editor after upsert, got %s", grants[0].Role)
		}

		if err := driveStore.DeleteGrant(ctx, nodeID, "alice"); err != nil {
			t.Fatalf("failed to delete grant: %v", err)
		}
		if _, err := driveStore.GetGrant(ctx, nodeID, "alice"); !fault.IsNotFound(err) {
			t.Errorf("expected not found after revoke, got %v", err)
		}
	})

	t.Run("activity feed ordering", func(t *testing.T) {
		principal := "owner-pg-5"
		for i := 0; i < 3; i++ {
			entry := &models.ActivityEntry{
				PrincipalID: principal,
				Action:      "upload_file",
				Path:        fmt.Sprintf("file-%d.txt", i),
			}
			if _, err := driveStore.RecordActivity(ctx, entry); err != nil {
				t.Fatalf("failed to record activity: %v", err)
			}
			// Ordering is on created_at; keep timestamps distinct
			time.Sleep(5 * time.Millisecond)
		}

		feed, err := driveStore.ListActivity(ctx, principal, models.NewPage(1, 10))
		if err != nil {
			t.Fatalf("failed to list activity: %v", err)
		}
		if feed.TotalItems != 3 {
			t.Fatalf("expected 3 activity entries, got %d", feed.TotalItems)
		}
		// Most recent first
		if feed.Items[0].Path != "file-2.txt" {
			t.Errorf("expected most recent entry first, got %s", feed.Items[0].Path)
		}
	})
}
