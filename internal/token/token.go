package token

import (
	"sync"
	"time"
)

// SafetyMargin is subtracted from a token's expiry when judging validity, so
// a token that would expire mid-request is refreshed early.
const SafetyMargin = 5 * time.Minute

// Token is an access token together with its absolute expiry.
type Token struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the token is usable at the given instant.
func (t Token) Valid(now time.Time) bool {
	if t.Value == "" {
		return false
	}
	return t.ExpiresAt.Sub(now) > SafetyMargin
}

// Store persists a token across process restarts. Load returns a zero Token
// when nothing is stored.
type Store interface {
	Load() (Token, error)
	Save(Token) error
	Clear() error
}

// Cache holds the current access token. It only ever swaps whole Token
// values, so a reader never observes a half-written token.
type Cache struct {
	mu    sync.Mutex
	tok   Token
	store Store
	now   func() time.Time
}

// NewCache creates a cache, seeding it from the store when one is given.
// A load failure is treated as an empty cache.
func NewCache(store Store) *Cache {
	c := &Cache{store: store, now: time.Now}
	if store != nil {
		if tok, err := store.Load(); err == nil {
			c.tok = tok
		}
	}
	return c
}

// Get returns the cached token and whether it is still valid.
func (c *Cache) Get() (Token, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tok, c.tok.Valid(c.now())
}

// Set replaces the cached token and persists it when a store is configured.
func (c *Cache) Set(tok Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tok = tok
	if c.store != nil {
		_ = c.store.Save(tok)
	}
}

// Invalidate drops the cached token.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tok = Token{}
	if c.store != nil {
		_ = c.store.Clear()
	}
}
