package prefs

import (
	"context"
	"errors"
	"testing"

	"github.com/babelchat/api/internal/store/redisstore"
)

// memKV is an in-memory KV for tests.
type memKV struct {
	m map[string]string
}

func newMemKV() *memKV { return &memKV{m: make(map[string]string)} }

func (k *memKV) Get(ctx context.Context, key string) (string, error) {
	v, ok := k.m[key]
	if !ok {
		return "", redisstore.ErrNotFound
	}
	return v, nil
}

func (k *memKV) Set(ctx context.Context, key, value string) error {
	k.m[key] = value
	return nil
}

func (k *memKV) Remove(ctx context.Context, key string) error {
	delete(k.m, key)
	return nil
}

func TestLoadDefaultsWhenAbsent(t *testing.T) {
	s := NewStore(newMemKV())

	if s.Loaded(7) {
		t.Fatalf("expected user to be unloaded before first read")
	}

	p, err := s.Load(context.Background(), 7)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p != Defaults() {
		t.Fatalf("got %+v, want defaults", p)
	}
	if !s.Loaded(7) {
		t.Fatalf("expected loaded=true after first read")
	}
}

func TestUpdateWritesThrough(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv)

	want := Preferences{InputLanguage: "fr", SearchLanguage: "en"}
	if err := s.Update(context.Background(), 7, want); err != nil {
		t.Fatalf("update: %v", err)
	}

	// A separate store over the same KV must see the write: the send path
	// re-reads storage rather than trusting its own snapshot.
	other := NewStore(kv)
	p, err := other.Load(context.Background(), 7)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p != want {
		t.Fatalf("got %+v, want %+v", p, want)
	}
}

func TestUpdateRejectsUnknownCode(t *testing.T) {
	s := NewStore(newMemKV())
	err := s.Update(context.Background(), 7, Preferences{InputLanguage: "xx", SearchLanguage: "en"})
	if err == nil {
		t.Fatalf("expected error for unknown language code")
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv)
	if err := s.Update(context.Background(), 7, Preferences{InputLanguage: "de", SearchLanguage: "ja"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Reset(context.Background(), 7); err != nil {
		t.Fatalf("reset: %v", err)
	}
	p, err := s.Load(context.Background(), 7)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p != Defaults() {
		t.Fatalf("got %+v, want defaults", p)
	}
}

func TestNoopDegrade(t *testing.T) {
	s := NewStore(redisstore.Noop{})
	p, err := s.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("load via noop: %v", err)
	}
	if p != Defaults() {
		t.Fatalf("got %+v, want defaults", p)
	}
}

func TestKeyStore(t *testing.T) {
	ks := NewKeyStore(newMemKV())
	ctx := context.Background()

	if err := ks.Set(ctx, 9, "not-a-key"); !errors.Is(err, ErrInvalidKeyFormat) {
		t.Fatalf("expected ErrInvalidKeyFormat, got %v", err)
	}

	if err := ks.Set(ctx, 9, "  sk-abc_123  "); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := ks.Get(ctx, 9)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "sk-abc_123" {
		t.Fatalf("got %q, want trimmed key", got)
	}

	exists, err := ks.Exists(ctx, 9)
	if err != nil || !exists {
		t.Fatalf("exists = %v, %v", exists, err)
	}

	if err := ks.Remove(ctx, 9); err != nil {
		t.Fatalf("remove: %v", err)
	}
	exists, err = ks.Exists(ctx, 9)
	if err != nil || exists {
		t.Fatalf("exists after remove = %v, %v", exists, err)
	}
}
