package cmd

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/andresmejia3/rosterface/internal/mapping"
	"github.com/andresmejia3/rosterface/internal/store"
	"github.com/andresmejia3/rosterface/internal/types"
)

// TestPublishIntegration pushes a sidecar into a real Postgres container and reads it back.
func TestPublishIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Explicitly check for Docker availability and fail hard if missing
	// We wrap this in a function to recover from panics inside testcontainers (e.g. socket not found)
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("testcontainers panicked: %v", r)
			}
		}()
		_, err = testcontainers.NewDockerClientWithOpts(ctx)
		return
	}()
	if err != nil {
		t.Fatalf("Docker not available, cannot run integration test: %v", err)
	}

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("rosterface_test"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
		testcontainers.WithLogger(noopLogger{}),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer pgContainer.Terminate(ctx)

	connStr, _ := pgContainer.ConnectionString(ctx, "sslmode=disable")

	c := testConfig(t)
	want := types.Mapping{
		"mario":           {FaceCenter: types.Point{X: 114, Y: 111}, Scale: 1.6, NumCharacters: 1},
		"pokemon_trainer": {FaceCenter: types.Point{X: 170, Y: 90}, Scale: 0.533, NumCharacters: 3},
	}
	if err := mapping.WriteSidecar(c.SidecarPath, want); err != nil {
		t.Fatal(err)
	}

	res, err := runPublish(ctx, c, connStr, false)
	if err != nil {
		t.Fatalf("runPublish failed: %v", err)
	}
	if res.Count != len(want) {
		t.Errorf("Expected %d published entries, got %d", len(want), res.Count)
	}
	if !res.Previous.IsZero() {
		t.Errorf("Expected no previous publish on a fresh table, got %v", res.Previous)
	}

	// A second publish sees the first one.
	res, err = runPublish(ctx, c, connStr, false)
	if err != nil {
		t.Fatalf("Second runPublish failed: %v", err)
	}
	if res.Previous.IsZero() {
		t.Error("Expected the previous publish time to be reported")
	}

	// Publishing after a reset starts from an empty table again.
	res, err = runPublish(ctx, c, connStr, true)
	if err != nil {
		t.Fatalf("runPublish with reset failed: %v", err)
	}
	if !res.Previous.IsZero() {
		t.Errorf("Expected reset to clear the previous publish time, got %v", res.Previous)
	}

	db, err := store.New(ctx, connStr)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close(ctx)

	got, err := db.LoadMapping(ctx)
	if err != nil {
		t.Fatalf("LoadMapping failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Stored map %v, want %v", got, want)
	}
}

type noopLogger struct{}

func (n noopLogger) Printf(format string, v ...interface{}) {}
