package statetoken

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/bnema/haggle/internal/ports"
)

const SecretKey = "haggle/state-token/secret"

// LoadOrCreateSecret reads the token secret from store, minting and storing a
// fresh one the first time.
func LoadOrCreateSecret(ctx context.Context, store ports.SecretStore) ([]byte, error) {
	encoded, err := store.Get(ctx, SecretKey)
	if err == nil {
		secret, decodeErr := base64.StdEncoding.DecodeString(encoded)
		if decodeErr != nil {
			return nil, fmt.Errorf("decode state token secret: %w", decodeErr)
		}
		return secret, nil
	}
	if !errors.Is(err, ports.ErrSecretNotFound) {
		return nil, fmt.Errorf("load state token secret: %w", err)
	}

	secret := make([]byte, SecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate state token secret: %w", err)
	}

	if err := store.Put(ctx, SecretKey, base64.StdEncoding.EncodeToString(secret)); err != nil {
		return nil, fmt.Errorf("store state token secret: %w", err)
	}

	return secret, nil
}
