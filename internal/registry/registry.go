// Package registry tracks the spreadsheets a user has connected and which
// one is active. The active pointer always refers to a known entry; removing
// the active sheet leaves the user disconnected rather than dangling.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("sheet not registered")
	ErrBadInput = errors.New("missing spreadsheet id or tag")
)

// Entry is one registered spreadsheet for a user.
type Entry struct {
	ID       string    `json:"id"`
	Tag      string    `json:"tag"`
	AddedAt  time.Time `json:"addedAt"`
	LastUsed time.Time `json:"lastUsed"`
}

// Store persists entries and the per-user active pointer. Implementations
// must scope everything by user id; there is no cross-user visibility.
type Store interface {
	List(ctx context.Context, userID string) ([]Entry, error)
	Get(ctx context.Context, userID, sheetID string) (Entry, error)
	Put(ctx context.Context, userID string, e Entry) error
	Delete(ctx context.Context, userID, sheetID string) error
	ActiveID(ctx context.Context, userID string) (string, error)
	SetActiveID(ctx context.Context, userID, sheetID string) error
}

// Service applies the registry invariants on top of a Store.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) List(ctx context.Context, userID string) ([]Entry, error) {
	entries, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// GetActive returns the active spreadsheet id, or "" when the user is
// disconnected. A pointer left behind by an out-of-band removal is treated
// as stale and reported as disconnected.
func (s *Service) GetActive(ctx context.Context, userID string) (string, error) {
	id, err := s.store.ActiveID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get active sheet: %w", err)
	}
	if id == "" {
		return "", nil
	}
	if _, err := s.store.Get(ctx, userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get active sheet: %w", err)
	}
	return id, nil
}

// Add registers (or re-tags) a spreadsheet and makes it active.
func (s *Service) Add(ctx context.Context, userID, sheetID, tag string) error {
	sheetID = strings.TrimSpace(sheetID)
	tag = strings.TrimSpace(tag)
	if sheetID == "" || tag == "" {
		return ErrBadInput
	}
	now := s.now()
	entry := Entry{ID: sheetID, Tag: tag, AddedAt: now, LastUsed: now}
	if existing, err := s.store.Get(ctx, userID, sheetID); err == nil {
		entry.AddedAt = existing.AddedAt
	}
	if err := s.store.Put(ctx, userID, entry); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	if err := s.store.SetActiveID(ctx, userID, sheetID); err != nil {
		return fmt.Errorf("activate sheet: %w", err)
	}
	return nil
}

// SetActive switches the active pointer to a registered sheet and bumps its
// last-used time.
func (s *Service) SetActive(ctx context.Context, userID, sheetID string) error {
	entry, err := s.store.Get(ctx, userID, sheetID)
	if err != nil {
		return fmt.Errorf("switch sheet: %w", err)
	}
	entry.LastUsed = s.now()
	if err := s.store.Put(ctx, userID, entry); err != nil {
		return fmt.Errorf("switch sheet: %w", err)
	}
	if err := s.store.SetActiveID(ctx, userID, sheetID); err != nil {
		return fmt.Errorf("switch sheet: %w", err)
	}
	return nil
}

// Remove deletes an entry. Removing the active sheet clears the active
// pointer, never leaving it dangling.
func (s *Service) Remove(ctx context.Context, userID, sheetID string) error {
	if err := s.store.Delete(ctx, userID, sheetID); err != nil {
		return fmt.Errorf("remove sheet: %w", err)
	}
	active, err := s.store.ActiveID(ctx, userID)
	if err != nil {
		return fmt.Errorf("remove sheet: %w", err)
	}
	if active == sheetID {
		if err := s.store.SetActiveID(ctx, userID, ""); err != nil {
			return fmt.Errorf("remove sheet: %w", err)
		}
	}
	return nil
}

// Rename changes an entry's tag without touching the active pointer.
func (s *Service) Rename(ctx context.Context, userID, sheetID, newTag string) error {
	newTag = strings.TrimSpace(newTag)
	if newTag == "" {
		return ErrBadInput
	}
	entry, err := s.store.Get(ctx, userID, sheetID)
	if err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	entry.Tag = newTag
	if err := s.store.Put(ctx, userID, entry); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	return nil
}
