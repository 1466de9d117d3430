package resultcache

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/civicpulse/insight/internal/db"
)

func TestTextCache_MissThenHit(t *testing.T) {
	mem := map[string][]byte{}
	ms := &mockKVStore{
		getFn: func(_ context.Context, key string) ([]byte, error) {
			if v, ok := mem[key]; ok {
				return v, nil
			}
			return nil, db.ErrKeyNotFound
		},
		setFn: func(_ context.Context, key string, value []byte) error {
			mem[key] = value
			return nil
		},
	}
	tc := NewTextCache(ms, "summary_cache:", nil, zap.NewNop())
	ctx := context.Background()

	if _, ok := tc.Get(ctx, "Wifi issue 12"); ok {
		t.Fatal("expected miss on empty cache")
	}

	tc.Put(ctx, "Wifi issue 12", "a short summary")

	got, ok := tc.Get(ctx, "Wifi issue 12")
	if !ok {
		t.Fatal("expected hit after put")
	}
	if got != "a short summary" {
		t.Errorf("got %q", got)
	}

	// A different input fingerprint must not collide.
	if _, ok := tc.Get(ctx, "Wifi issue 13"); ok {
		t.Fatal("distinct input should miss")
	}
}

func TestTextCache_StoreError_IsMiss(t *testing.T) {
	ms := &mockKVStore{
		getFn: func(_ context.Context, _ string) ([]byte, error) {
			return nil, errors.New("down")
		},
		setFn: func(_ context.Context, _ string, _ []byte) error {
			return errors.New("down")
		},
	}
	tc := NewTextCache(ms, "summary_cache:", nil, zap.NewNop())

	if _, ok := tc.Get(context.Background(), "input"); ok {
		t.Fatal("store error must read as miss")
	}
	// Put must not panic or surface the error.
	tc.Put(context.Background(), "input", "v")
}
