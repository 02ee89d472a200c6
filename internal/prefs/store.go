package prefs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/babelchat/api/internal/lang"
	"github.com/babelchat/api/internal/store/redisstore"
)

// Storage keys, per user.
const (
	inputLanguageKey  = "babelchat:input-language:%d"
	searchLanguageKey = "babelchat:search-language:%d"
)

// Preferences is the language pair a user works with. InputLanguage is what
// they read and write; SearchLanguage is what the model is queried in.
type Preferences struct {
	InputLanguage  string `json:"inputLanguage"`
	SearchLanguage string `json:"searchLanguage"`
}

func Defaults() Preferences {
	return Preferences{
		InputLanguage:  lang.DefaultInputLanguage,
		SearchLanguage: lang.DefaultSearchLanguage,
	}
}

// Store reads and writes per-user language preferences through the KV
// capability. The in-memory copy is a render cache only: the send path must
// call Load again rather than trust a snapshot, since preferences can
// change between a render and a send.
type Store struct {
	kv redisstore.KV

	mu     sync.RWMutex
	cache  map[uint64]Preferences
	loaded map[uint64]bool
}

func NewStore(kv redisstore.KV) *Store {
	if kv == nil {
		kv = redisstore.Noop{}
	}
	return &Store{
		kv:     kv,
		cache:  make(map[uint64]Preferences),
		loaded: make(map[uint64]bool),
	}
}

// Load reads both slots fresh from storage, falling back to the defaults
// for absent keys, and marks the user loaded.
func (s *Store) Load(ctx context.Context, userID uint64) (Preferences, error) {
	p := Defaults()

	v, err := s.kv.Get(ctx, fmt.Sprintf(inputLanguageKey, userID))
	if err == nil && v != "" {
		p.InputLanguage = v
	} else if err != nil && !errors.Is(err, redisstore.ErrNotFound) {
		return Defaults(), err
	}

	v, err = s.kv.Get(ctx, fmt.Sprintf(searchLanguageKey, userID))
	if err == nil && v != "" {
		p.SearchLanguage = v
	} else if err != nil && !errors.Is(err, redisstore.ErrNotFound) {
		return Defaults(), err
	}

	s.mu.Lock()
	s.cache[userID] = p
	s.loaded[userID] = true
	s.mu.Unlock()
	return p, nil
}

// Current returns the cached snapshot. Valid only after a Load or Update
// for the user; callers needing freshness must Load instead.
func (s *Store) Current(userID uint64) (Preferences, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.cache[userID]
	return p, ok
}

// Loaded reports whether a first read has completed for the user.
// Language-dependent UI must not render before this is true.
func (s *Store) Loaded(userID uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded[userID]
}

// Update validates both codes against the registry and writes through to
// storage before updating the in-memory copy.
func (s *Store) Update(ctx context.Context, userID uint64, p Preferences) error {
	if _, ok := lang.Lookup(p.InputLanguage); !ok {
		return fmt.Errorf("unsupported input language %q", p.InputLanguage)
	}
	if _, ok := lang.Lookup(p.SearchLanguage); !ok {
		return fmt.Errorf("unsupported search language %q", p.SearchLanguage)
	}

	if err := s.kv.Set(ctx, fmt.Sprintf(inputLanguageKey, userID), p.InputLanguage); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, fmt.Sprintf(searchLanguageKey, userID), p.SearchLanguage); err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[userID] = p
	s.loaded[userID] = true
	s.mu.Unlock()
	return nil
}

// Reset removes both slots, returning the user to the defaults.
func (s *Store) Reset(ctx context.Context, userID uint64) error {
	if err := s.kv.Remove(ctx, fmt.Sprintf(inputLanguageKey, userID)); err != nil {
		return err
	}
	if err := s.kv.Remove(ctx, fmt.Sprintf(searchLanguageKey, userID)); err != nil {
		return err
	}
	s.mu.Lock()
	s.cache[userID] = Defaults()
	s.mu.Unlock()
	return nil
}
