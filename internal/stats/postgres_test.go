package stats

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Integration-style test: runs only if DATABASE_URL env is set.
func TestPostgresStoreIntegration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	ctx := context.Background()
	pool, err := ConnectPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	key := "test-" + uuid.NewString()
	defer pool.Exec(ctx, `DELETE FROM stats_counters WHERE doc_key = $1`, key)
	store := NewPostgresStore(pool)

	updates := make(chan Document, 16)
	cancel, err := store.Subscribe(ctx, key, func(d Document) { updates <- d }, func(err error) { t.Errorf("subscription: %v", err) })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	if d := <-updates; d != nil {
		t.Fatalf("expected missing document, got %v", d)
	}

	for i := 0; i < 2; i++ {
		if err := store.Increment(ctx, key, FieldTotalGames); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	if err := store.Set(ctx, key, zeroDocument()); err != nil {
		t.Fatalf("set: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case d := <-updates:
			if d[FieldTotalGames] == 2 {
				if _, ok := d[FieldVisitorCount]; ok {
					return
				}
			}
		case <-deadline:
			t.Fatal("did not observe increments and initialisation")
		}
	}
}
