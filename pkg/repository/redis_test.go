package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/example/buttg/pkg/cart"
	"github.com/example/buttg/pkg/config"
	"github.com/example/buttg/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

// Requires a reachable Redis; set BUTTG_TEST_REDIS_ADDR to run.
func newTestRedisStorage(t *testing.T) *RedisCartStorage {
	t.Helper()
	addr := os.Getenv("BUTTG_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("BUTTG_TEST_REDIS_ADDR not set")
	}

	storage := NewRedisCartStorage(NewRedisClient(&config.RedisConfig{Addr: addr, PoolSize: 20}), time.Minute)
	if err := storage.Ping(context.Background()); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

func TestRedisCartStorageMissingKey(t *testing.T) {
	storage := newTestRedisStorage(t)

	data, err := storage.Get(context.Background(), "buttg-test:"+uuid.NewString())
	if err != nil || data != nil {
		t.Fatalf("Get = %q, %v; want nil, nil", data, err)
	}
}

func TestRedisCartStorageConcurrentAdds(t *testing.T) {
	storage := newTestRedisStorage(t)
	store := cart.NewStore(storage, "buttg-test", zaptest.NewLogger(t))
	session := uuid.NewString()
	item := models.MenuItem{ID: "b1", Name: "Zinger Burger", Price: 450, Category: models.CategoryBurgers}

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.AddToCart(context.Background(), session, item, 1, nil); err != nil {
				t.Errorf("add: %v", err)
			}
		}()
	}
	wg.Wait()

	c, err := store.Cart(context.Background(), session)
	if err != nil {
		t.Fatalf("cart: %v", err)
	}
	if len(c) != 1 || c[0].Quantity != n {
		t.Fatalf("cart = %+v, want one line with quantity %d", c, n)
	}
}
