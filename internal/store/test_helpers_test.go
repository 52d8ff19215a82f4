package store

import (
	"context"
	"os"
	"testing"
)

func testDatabaseURL(t *testing.T) string {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL is required for store integration tests")
	}

	return url
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()

	store, err := NewStore(ctx, testDatabaseURL(t))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(store.Close)

	if err := store.Migrate(ctx); err != nil {
		t.Fatal(err)
	}

	return store
}
