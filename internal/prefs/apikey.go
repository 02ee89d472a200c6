package prefs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/babelchat/api/internal/ai"
	"github.com/babelchat/api/internal/store/redisstore"
)

const apiKeySlot = "babelchat:openai-api-key:%d"

var ErrInvalidKeyFormat = errors.New(
	`invalid API key format: key must start with "sk-" and contain only letters, numbers, hyphens, and underscores`)

// KeyStore holds the per-user model credential slot. The slot is a
// convenience for the UI; the chat pipeline still takes the key per request
// and never persists what it is handed there.
type KeyStore struct {
	kv redisstore.KV
}

func NewKeyStore(kv redisstore.KV) *KeyStore {
	if kv == nil {
		kv = redisstore.Noop{}
	}
	return &KeyStore{kv: kv}
}

// Get returns the stored key, or "" when absent.
func (k *KeyStore) Get(ctx context.Context, userID uint64) (string, error) {
	v, err := k.kv.Get(ctx, fmt.Sprintf(apiKeySlot, userID))
	if err != nil {
		if errors.Is(err, redisstore.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

// Set trims and validates the key before accepting it.
func (k *KeyStore) Set(ctx context.Context, userID uint64, key string) error {
	key = strings.TrimSpace(key)
	if !ai.ValidAPIKey(key) {
		return ErrInvalidKeyFormat
	}
	return k.kv.Set(ctx, fmt.Sprintf(apiKeySlot, userID), key)
}

func (k *KeyStore) Remove(ctx context.Context, userID uint64) error {
	return k.kv.Remove(ctx, fmt.Sprintf(apiKeySlot, userID))
}

func (k *KeyStore) Exists(ctx context.Context, userID uint64) (bool, error) {
	v, err := k.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return v != "", nil
}
