package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = (%q, %v, %v), want a miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "partition:abc"); hit {
		t.Error("empty cache should miss")
	}

	if err := c.Set(ctx, "partition:abc", []byte(`{"regions":[]}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "partition:abc")
	if err != nil || !hit || string(data) != `{"regions":[]}` {
		t.Errorf("Get = (%q, %v, %v)", data, hit, err)
	}

	if err := c.Delete(ctx, "partition:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "partition:abc"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "partition:abc"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl entry should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want clean miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := PartitionKeyOpts{Volume: [3]float64{650, 550, 350}, Strategy: "grow", Trials: 1024, Seed: 42, Layers: "independent"}

	key := k.PartitionKey("geo", base)
	if !strings.HasPrefix(key, "partition:") || len(key) != len("partition:")+64 {
		t.Errorf("PartitionKey = %q", key)
	}
	if key != k.PartitionKey("geo", base) {
		t.Error("PartitionKey should be deterministic")
	}

	changed := base
	changed.Seed = 43
	if key == k.PartitionKey("geo", changed) {
		t.Error("different seeds should produce different keys")
	}
	if key == k.PartitionKey("other", base) {
		t.Error("different geometry should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "tenant:7:")
	key := scoped.PartitionKey("geo", PartitionKeyOpts{})
	if want := "tenant:7:" + NewDefaultKeyer().PartitionKey("geo", PartitionKeyOpts{}); key != want {
		t.Errorf("PartitionKey = %q, want %q", key, want)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	old := defaultBackoff
	defaultBackoff.Delay = time.Millisecond
	defer func() { defaultBackoff = old }()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	c := NewRedisCacheFromClient(client)
	defer c.Close()

	_, hit, err := c.Get(context.Background(), "k")
	if err == nil || hit {
		t.Fatalf("Get against closed port = (hit %v, err %v), want an error", hit, err)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := defaultBackoff
	defaultBackoff.Delay = time.Millisecond
	defer func() { defaultBackoff = old }()
	ctx := context.Background()
	permanent := errors.New("permanent")

	calls := 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return permanent }); err != permanent || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(permanent)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(permanent) })
	if !errors.Is(err, permanent) || calls != 3 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := RetryWithBackoff(cancelled, func() error { return Retryable(permanent) }); err != context.Canceled {
		t.Errorf("cancelled: err=%v", err)
	}
}
