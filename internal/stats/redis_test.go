package stats

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisStoreIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	ctx := context.Background()
	client, err := DialRedis(ctx, addr, os.Getenv("REDIS_PASSWORD"), db)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	key := "test-" + uuid.NewString()
	defer client.Del(ctx, hashKey(key))
	store := NewRedisStore(client)

	updates := make(chan Document, 16)
	cancel, err := store.Subscribe(ctx, key, func(d Document) { updates <- d }, func(err error) { t.Errorf("subscription: %v", err) })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	if d := <-updates; d != nil {
		t.Fatalf("expected missing document, got %v", d)
	}

	if err := store.Increment(ctx, key, FieldCPUWins); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := store.Set(ctx, key, zeroDocument()); err != nil {
		t.Fatalf("set: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case d := <-updates:
			if d[FieldCPUWins] == 1 {
				if _, ok := d[FieldTotalGames]; ok {
					return
				}
			}
		case <-deadline:
			t.Fatal("did not observe increment and initialisation")
		}
	}
}
