package redis

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/collectkit/errors"
	"github.com/kbukum/collectkit/logger"
)

// newTestClient creates a Client backed by miniredis for testing.
func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() { mini.Close() })

	client, err := New(Config{Addr: mini.Addr(), ScanCount: 2}, logger.Nop())
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, mini
}

func TestClient_SetGet(t *testing.T) {
	client, mini := newTestClient(t)
	ctx := context.Background()

	if err := client.Set(ctx, "app:k1", []byte(`{"n":1}`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, found, err := client.Get(ctx, "app:k1")
	if err != nil || !found || string(got) != `{"n":1}` {
		t.Fatalf("Get = %q, %v, %v", got, found, err)
	}
	if raw, _ := mini.Get("app:k1"); raw != `{"n":1}` {
		t.Errorf("raw value = %q", raw)
	}
}

func TestClient_GetMissing(t *testing.T) {
	client, _ := newTestClient(t)
	got, found, err := client.Get(context.Background(), "nope")
	if err != nil || found || got != nil {
		t.Fatalf("Get missing = %q, %v, %v", got, found, err)
	}
}

func TestClient_TTL(t *testing.T) {
	client, mini := newTestClient(t)
	ctx := context.Background()

	if err := client.Set(ctx, "k", []byte("v"), 2*time.Second); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := client.Get(ctx, "k"); !found {
		t.Fatal("expected value before TTL")
	}
	mini.FastForward(3 * time.Second)
	if _, found, _ := client.Get(ctx, "k"); found {
		t.Fatal("expected key to expire")
	}
}

func TestClient_Add(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	added, err := client.Add(ctx, "k", []byte("first"), 0)
	if err != nil || !added {
		t.Fatalf("first Add = %v, %v", added, err)
	}
	added, err = client.Add(ctx, "k", []byte("second"), 0)
	if err != nil || added {
		t.Fatalf("second Add = %v, %v", added, err)
	}
	got, _, _ := client.Get(ctx, "k")
	if string(got) != "first" {
		t.Errorf("Add overwrote the value: %q", got)
	}
}

func TestClient_Delete(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	_ = client.Set(ctx, "a", []byte("1"), 0)
	_ = client.Set(ctx, "b", []byte("2"), 0)

	n, err := client.Delete(ctx, "a", "b", "c")
	if err != nil || n != 2 {
		t.Fatalf("Delete = %d, %v", n, err)
	}
	if n, err := client.Delete(ctx); err != nil || n != 0 {
		t.Errorf("empty Delete = %d, %v", n, err)
	}
}

func TestClient_ClearPrefix(t *testing.T) {
	client, mini := newTestClient(t)
	ctx := context.Background()
	for _, k := range []string{"app:1", "app:2", "app:3", "app*:x", "other:1"} {
		_ = client.Set(ctx, k, []byte("v"), 0)
	}

	if err := client.Clear(ctx, "app:"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	keys := mini.Keys()
	slices.Sort(keys)
	if !slices.Equal(keys, []string{"app*:x", "other:1"}) {
		t.Errorf("remaining keys = %v", keys)
	}

	if err := client.Clear(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if len(mini.Keys()) != 0 {
		t.Errorf("Clear(\"\") left %v", mini.Keys())
	}
}

func TestClient_ServerDownIsAdapterFailure(t *testing.T) {
	client, mini := newTestClient(t)
	mini.Close()

	_, _, err := client.Get(context.Background(), "k")
	if !errors.HasCode(err, errors.ErrCodeAdapterFailure) {
		t.Fatalf("got %v, want ADAPTER_FAILURE", err)
	}
	if !errors.IsRetryable(err) {
		t.Error("adapter failures should be retryable")
	}
}

func TestConfig_Validate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	cfg.Addr = "no-port"
	if err := cfg.Validate(); !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("got %v, want INVALID_CONFIG", err)
	}
}

func TestEscapeGlob(t *testing.T) {
	if got := escapeGlob(`a*b?[c]\`); got != `a\*b\?\[c\]\\` {
		t.Errorf("escapeGlob = %q", got)
	}
}
