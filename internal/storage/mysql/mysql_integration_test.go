//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	mysqlrepo "trip_planner/internal/storage/mysql"
)

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not available: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=trip",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "trip")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRepo_MySQL_GetSet(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()

	repo := mysqlrepo.New(db, "test:")
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// idempotent
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("Migrate twice: %v", err)
	}

	if _, ok, err := repo.Get(ctx, "tripApp_reviews"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	first := []byte(`[{"day":3,"member":"Alice","rating":5,"comment":"Great trip","timestamp":"2026-01-25T10:00:00.000Z"}]`)
	if err := repo.Set(ctx, "tripApp_reviews", first); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := repo.Get(ctx, "tripApp_reviews")
	if err != nil || !ok || string(got) != string(first) {
		t.Fatalf("Get after Set: %q ok=%v err=%v", got, ok, err)
	}

	// overwrite replaces the whole value
	if err := repo.Set(ctx, "tripApp_reviews", []byte(`[]`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, _, _ = repo.Get(ctx, "tripApp_reviews")
	if string(got) != "[]" {
		t.Fatalf("expected overwrite, got %q", got)
	}

	// prefix isolates namespaces sharing one table
	other := mysqlrepo.New(db, "other:")
	if _, ok, _ := other.Get(ctx, "tripApp_reviews"); ok {
		t.Fatalf("prefix should isolate keys")
	}
}
