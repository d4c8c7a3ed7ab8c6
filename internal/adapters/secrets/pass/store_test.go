package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/haggle/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenKey = "haggle/state-token/key"

func fakeRun(t *testing.T, wantArgs []string, wantInput string, stdout, stderr string, err error) runFunc {
	t.Helper()

	return func(_ context.Context, input string, args ...string) (string, string, error) {
		assert.Equal(t, wantArgs, args)
		assert.Equal(t, wantInput, input)
		return stdout, stderr, err
	}
}

func TestStorePutUsesPassInsert(t *testing.T) {
	t.Parallel()

	store := &Store{run: fakeRun(t, []string{"insert", "-m", "-f", tokenKey}, "c2VjcmV0\n", "", "", nil)}

	require.NoError(t, store.Put(context.Background(), tokenKey, "c2VjcmV0"))
}

func TestStoreGetKeepsFirstLine(t *testing.T) {
	t.Parallel()

	store := &Store{run: fakeRun(t, []string{"show", tokenKey}, "", "c2VjcmV0\nnote: rotated 2026-01\n", "", nil)}

	value, err := store.Get(context.Background(), tokenKey)
	require.NoError(t, err)
	assert.Equal(t, "c2VjcmV0", value)
}

func TestStoreGetMapsMissingEntryToNotFound(t *testing.T) {
	t.Parallel()

	store := &Store{run: fakeRun(t, []string{"show", tokenKey}, "", "", "Error: haggle/state-token/key is not in the password store.", errors.New("exit status 1"))}

	_, err := store.Get(context.Background(), tokenKey)
	require.ErrorIs(t, err, ports.ErrSecretNotFound)
}

func TestStoreGetReturnsClearError(t *testing.T) {
	t.Parallel()

	store := &Store{run: fakeRun(t, []string{"show", tokenKey}, "", "", "gpg: decryption failed", errors.New("exit status 2"))}

	_, err := store.Get(context.Background(), tokenKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrSecretNotFound)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, "gpg: decryption failed")
}

func TestStoreDeleteIgnoresMissingEntry(t *testing.T) {
	t.Parallel()

	store := &Store{run: fakeRun(t, []string{"rm", "-f", tokenKey}, "", "", "Error: haggle/state-token/key is not in the password store.", errors.New("exit status 1"))}

	require.NoError(t, store.Delete(context.Background(), tokenKey))
}

func TestStoreHonoursCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &Store{run: func(context.Context, string, ...string) (string, string, error) {
		t.Fatal("pass must not run on a canceled context")
		return "", "", nil
	}}

	_, err := store.Get(ctx, tokenKey)
	require.ErrorIs(t, err, context.Canceled)
}
