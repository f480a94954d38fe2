//go:build integration

package testhelpers

import (
	"context"
	"testing"
)

func TestTestDB_MigrationsApplied(t *testing.T) {
	testDB := GetTestDB(t)

	ctx := context.Background()

	var exists bool
	err := testDB.DB.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = 'kv_entries')").
		Scan(&exists)
	if err != nil {
		t.Fatalf("failed to query schema: %v", err)
	}

	if !exists {
		t.Error("expected kv_entries table after migrations")
	}
}

func TestTestRedis_Ping(t *testing.T) {
	client := GetTestRedis(t).NewClient(t, 1)

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}
