package toml

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/haggle/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNegotiationRepo(t *testing.T, path string) *NegotiationRepository {
	t.Helper()

	cfg := viper.New()
	cfg.Set(NegotiationsPathKey, path)
	repo, err := NewNegotiationRepository(cfg)
	require.NoError(t, err)
	return repo
}

func sampleNegotiation(t *testing.T) domain.Negotiation {
	t.Helper()

	state, err := domain.NewState(domain.KindProduct, domain.Bounds{Min: 70, Max: 100, MaxDiscount: 0.3}, domain.DefaultProductStrategy())
	require.NoError(t, err)

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	negotiation := domain.Negotiation{
		ID:           "01HZY3J7Q8N4M2K5P6R7S8T9VW",
		Subject:      domain.Subject{Kind: domain.KindProduct, RefID: "lamp"},
		State:        state,
		OpeningPrice: domain.Open(state),
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	next, decision, err := domain.Evaluate(state, 95)
	require.NoError(t, err)
	at := created.Add(90 * time.Second)
	negotiation.State = next
	negotiation.Rounds = []domain.Round{{Number: 1, Offer: 95, Decision: decision, At: at}}
	negotiation.UpdatedAt = at

	return negotiation
}

func TestNegotiationRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newNegotiationRepo(t, filepath.Join(t.TempDir(), "negotiations.toml"))
	ctx := context.Background()
	negotiation := sampleNegotiation(t)

	require.NoError(t, repo.Save(ctx, negotiation))

	got, err := repo.GetByID(ctx, negotiation.ID)
	require.NoError(t, err)
	assert.Equal(t, negotiation, got)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Negotiation{negotiation}, all)
}

func TestNegotiationRepositoryRoundTripFreshNegotiation(t *testing.T) {
	t.Parallel()

	repo := newNegotiationRepo(t, filepath.Join(t.TempDir(), "negotiations.toml"))
	state, err := domain.NewState(domain.KindDelivery, domain.Bounds{Min: 3, Max: 5, MaxDiscount: 0.4}, domain.DefaultDeliveryStrategy())
	require.NoError(t, err)

	fresh := domain.Negotiation{
		ID:           "neg-fresh",
		Subject:      domain.Subject{Kind: domain.KindDelivery, RefID: "ord-1"},
		State:        state,
		OpeningPrice: domain.Open(state),
	}
	require.NoError(t, repo.Save(context.Background(), fresh))

	got, err := repo.GetByID(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
	assert.Nil(t, got.State.LastOffer)
	assert.Nil(t, got.State.LastCounter)
}

func TestNegotiationRepositorySaveUpdatesInPlace(t *testing.T) {
	t.Parallel()

	repo := newNegotiationRepo(t, filepath.Join(t.TempDir(), "negotiations.toml"))
	ctx := context.Background()
	negotiation := sampleNegotiation(t)
	require.NoError(t, repo.Save(ctx, negotiation))

	next, decision, err := domain.Evaluate(negotiation.State, 96)
	require.NoError(t, err)
	negotiation.State = next
	negotiation.Rounds = append(negotiation.Rounds, domain.Round{Number: 2, Offer: 96, Decision: decision, At: negotiation.UpdatedAt})
	require.NoError(t, repo.Save(ctx, negotiation))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 2, all[0].State.Round)
	assert.Len(t, all[0].Rounds, 2)
}

func TestNegotiationRepositoryMissingNegotiation(t *testing.T) {
	t.Parallel()

	repo := newNegotiationRepo(t, filepath.Join(t.TempDir(), "negotiations.toml"))

	_, err := repo.GetByID(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrNegotiationNotFound)
}

func TestNegotiationRepositorySerializedTOMLIncludesVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "negotiations.toml")
	repo := newNegotiationRepo(t, path)
	require.NoError(t, repo.Save(context.Background(), sampleNegotiation(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "counter")
}

func TestNegotiationRepositoryFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "negotiations.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 2\n"), 0o600))

	_, err := newNegotiationRepo(t, path).List(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported negotiations schema version")
}
