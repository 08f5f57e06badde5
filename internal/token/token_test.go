package token

import (
	"path/filepath"
	"testing"
	"time"
)

func TestToken_Valid(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		tok  Token
		want bool
	}{
		{
			name: "expires well in the future",
			tok:  Token{Value: "tok", ExpiresAt: now.Add(time.Hour)},
			want: true,
		},
		{
			name: "expires just past the safety margin",
			tok:  Token{Value: "tok", ExpiresAt: now.Add(SafetyMargin + time.Second)},
			want: true,
		},
		{
			name: "expires exactly at the safety margin",
			tok:  Token{Value: "tok", ExpiresAt: now.Add(SafetyMargin)},
			want: false,
		},
		{
			name: "expires inside the safety margin",
			tok:  Token{Value: "tok", ExpiresAt: now.Add(time.Minute)},
			want: false,
		},
		{
			name: "already expired",
			tok:  Token{Value: "tok", ExpiresAt: now.Add(-time.Minute)},
			want: false,
		},
		{
			name: "empty value",
			tok:  Token{Value: "", ExpiresAt: now.Add(time.Hour)},
			want: false,
		},
		{
			name: "zero token",
			tok:  Token{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tok.Valid(now); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCache_GetSetInvalidate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCache(nil)
	cache.now = func() time.Time { return now }

	if _, ok := cache.Get(); ok {
		t.Fatal("empty cache returned a token")
	}

	tok := Token{Value: "abc", ExpiresAt: now.Add(time.Hour)}
	cache.Set(tok)

	got, ok := cache.Get()
	if !ok {
		t.Fatal("cache miss after Set")
	}
	if got != tok {
		t.Errorf("Get() = %+v, want %+v", got, tok)
	}

	cache.Invalidate()
	if _, ok := cache.Get(); ok {
		t.Fatal("cache hit after Invalidate")
	}
}

func TestCache_ExpiredTokenIsMiss(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCache(nil)
	cache.now = func() time.Time { return now }

	cache.Set(Token{Value: "abc", ExpiresAt: now.Add(2 * time.Minute)})
	if _, ok := cache.Get(); ok {
		t.Fatal("token inside the safety margin should be a miss")
	}
}

func TestCache_SeedsFromStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewFileStore(path)

	tok := Token{Value: "persisted", ExpiresAt: time.Now().Add(time.Hour).UTC()}
	if err := store.Save(tok); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cache := NewCache(store)
	got, ok := cache.Get()
	if !ok {
		t.Fatal("cache did not seed from store")
	}
	if got.Value != "persisted" {
		t.Errorf("seeded value = %q", got.Value)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	store := NewFileStore(path)

	// Missing file is a zero token, not an error.
	tok, err := store.Load()
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if tok.Value != "" {
		t.Errorf("expected zero token, got %+v", tok)
	}

	want := Token{Value: "tok", ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second)}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.ExpiresAt.Equal(want.ExpiresAt) || got.Value != want.Value {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	tok, err = store.Load()
	if err != nil || tok.Value != "" {
		t.Errorf("after Clear: tok=%+v err=%v", tok, err)
	}
}
