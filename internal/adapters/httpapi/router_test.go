package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bnema/haggle/internal/adapters/ids"
	tomlrepo "github.com/bnema/haggle/internal/adapters/repo/toml"
	"github.com/bnema/haggle/internal/adapters/statetoken"
	"github.com/bnema/haggle/internal/application"
	"github.com/bnema/haggle/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type testServer struct {
	handler http.Handler
	catalog *application.CatalogService
}

func newTestServer(t *testing.T, sealer TokenSealer) testServer {
	t.Helper()

	dir := t.TempDir()
	cfg := viper.New()
	cfg.Set(tomlrepo.CatalogPathKey, filepath.Join(dir, "catalog.toml"))
	cfg.Set(tomlrepo.NegotiationsPathKey, filepath.Join(dir, "negotiations.toml"))

	catalogRepo, err := tomlrepo.NewCatalogRepository(cfg)
	require.NoError(t, err)
	negotiationRepo, err := tomlrepo.NewNegotiationRepository(cfg)
	require.NoError(t, err)

	clock := fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	idGen := ids.NewULIDGenerator(clock)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	catalog := application.NewCatalogService(catalogRepo, idGen, nil, domain.Strategy{})
	negotiations := application.NewNegotiationService(catalogRepo, negotiationRepo, idGen, clock, application.NegotiationOptions{Logger: logger})

	ctx := context.Background()
	_, err = catalog.AddShop(ctx, application.AddShopCommand{ID: "shop-1", Name: "Corner", Location: &domain.Coordinates{Lat: 48.8566, Lng: 2.3522}})
	require.NoError(t, err)
	_, err = catalog.AddProduct(ctx, application.AddProductCommand{
		ID: "lamp", ShopID: "shop-1", Name: "Lamp", Price: 100, MinPrice: 70, MaxDiscountPercentage: 30, Negotiable: true,
	})
	require.NoError(t, err)
	_, err = catalog.AddProduct(ctx, application.AddProductCommand{
		ID: "book", ShopID: "shop-1", Name: "Book", Price: 20, MinPrice: 20, Negotiable: false,
	})
	require.NoError(t, err)
	_, err = catalog.AddOrder(ctx, application.AddOrderCommand{ID: "ord-1", ShopID: "shop-1", ProductID: "lamp"})
	require.NoError(t, err)

	return testServer{
		handler: NewRouter(Deps{Negotiations: negotiations, Quotes: catalog, Tokens: sealer, Logger: logger}),
		catalog: catalog,
	}
}

func (s testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "trace-42")
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	assert.Equal(t, "trace-42", rec.Header().Get("X-Request-ID"))
}

func TestStartProductNegotiation(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/v1/negotiations/products/lamp", "")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decodeBody[negotiationDTO](t, rec)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "product", got.Kind)
	assert.Equal(t, "lamp", got.RefID)
	assert.Equal(t, "open", got.Status)
	assert.InDelta(t, 91.0, got.OpeningPrice, 1e-9)
	assert.Equal(t, boundsDTO{Min: 70, Max: 100, MaxDiscount: 0.3}, got.Bounds)
}

func TestStartProductNegotiationErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "unknown product", path: "/v1/negotiations/products/missing", want: http.StatusNotFound},
		{name: "fixed price", path: "/v1/negotiations/products/book", want: http.StatusUnprocessableEntity},
		{name: "unknown order", path: "/v1/negotiations/orders/missing", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, tt.path, "")
			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, decodeBody[errorResponse](t, rec).Error)
		})
	}
}

func TestStartDeliveryWithoutCoordinatesUsesDefaults(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/v1/negotiations/orders/ord-1", "")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decodeBody[negotiationDTO](t, rec)
	assert.Equal(t, "delivery", got.Kind)
	assert.InDelta(t, 4.2, got.OpeningPrice, 1e-9)
}

func TestOfferRoundTrip(t *testing.T) {
	srv := newTestServer(t, nil)
	started := decodeBody[negotiationDTO](t, srv.do(t, http.MethodPost, "/v1/negotiations/products/lamp", ""))

	rec := srv.do(t, http.MethodPost, "/v1/negotiations/"+started.ID+"/offers", `{"offer":95}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[offerResponse](t, rec)
	assert.Equal(t, "counter", got.Decision.Outcome)
	require.NotNil(t, got.Decision.Price)
	assert.InDelta(t, 98.0, *got.Decision.Price, 1e-9)
	assert.True(t, got.Decision.Continue)
	assert.Equal(t, 1, got.Negotiation.Round)
	require.Len(t, got.Negotiation.Rounds, 1)
	assert.InDelta(t, 95.0, got.Negotiation.Rounds[0].Offer, 1e-9)

	show := decodeBody[negotiationDTO](t, srv.do(t, http.MethodGet, "/v1/negotiations/"+started.ID, ""))
	assert.Equal(t, got.Negotiation.Rounds, show.Rounds)

	list := srv.do(t, http.MethodGet, "/v1/negotiations/", "")
	require.Equal(t, http.StatusOK, list.Code)
	summaries := decodeBody[map[string][]summaryDTO](t, list)["negotiations"]
	require.Len(t, summaries, 1)
	assert.Equal(t, started.ID, summaries[0].ID)
	assert.Equal(t, 1, summaries[0].Round)
}

func TestOfferRejectionClosesNegotiation(t *testing.T) {
	srv := newTestServer(t, nil)
	started := decodeBody[negotiationDTO](t, srv.do(t, http.MethodPost, "/v1/negotiations/products/lamp", ""))
	path := "/v1/negotiations/" + started.ID + "/offers"

	rec := srv.do(t, http.MethodPost, path, `{"offer":50}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[offerResponse](t, rec)
	assert.Equal(t, "reject", got.Decision.Outcome)
	assert.Equal(t, "below_minimum", got.Decision.Reason)
	assert.Nil(t, got.Decision.Price)
	assert.Equal(t, "rejected", got.Negotiation.Status)

	again := srv.do(t, http.MethodPost, path, `{"offer":95}`)
	assert.Equal(t, http.StatusConflict, again.Code)
}

func TestOfferValidation(t *testing.T) {
	srv := newTestServer(t, nil)
	started := decodeBody[negotiationDTO](t, srv.do(t, http.MethodPost, "/v1/negotiations/products/lamp", ""))
	path := "/v1/negotiations/" + started.ID + "/offers"

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "missing offer", body: `{}`, want: http.StatusBadRequest},
		{name: "malformed json", body: `{"offer":`, want: http.StatusBadRequest},
		{name: "unknown field", body: `{"offer":90,"tip":1}`, want: http.StatusBadRequest},
		{name: "negative offer", body: `{"offer":-1}`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, srv.do(t, http.MethodPost, path, tt.body).Code)
		})
	}

	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodPost, "/v1/negotiations/nope/offers", `{"offer":90}`).Code)
}

func TestEvaluateWithPlainState(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/v1/evaluate", `{"state":{"kind":"product","bounds":{"min":70,"max":100,"max_discount":0.3}},"offer":95}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[evaluateResponse](t, rec)
	assert.Equal(t, "counter", got.Decision.Outcome)
	assert.Equal(t, 1, got.State.Round)
	require.NotNil(t, got.State.Strategy)
	assert.Equal(t, domain.DefaultProductStrategy().RoundCap, got.State.Strategy.RoundCap)
	assert.Empty(t, got.Token)
}

func TestEvaluateRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "no state", body: `{"offer":95}`},
		{name: "no offer", body: `{"state":{"kind":"product","bounds":{"min":70,"max":100,"max_discount":0.3}}}`},
		{name: "unknown kind", body: `{"state":{"kind":"rental","bounds":{"min":70,"max":100,"max_discount":0.3}},"offer":95}`},
		{name: "inverted bounds", body: `{"state":{"kind":"product","bounds":{"min":100,"max":70,"max_discount":0.3}},"offer":95}`},
		{name: "token disabled", body: `{"token":"abc","offer":95}`},
		{name: "unknown status", body: `{"state":{"kind":"product","bounds":{"min":70,"max":100,"max_discount":0.3},"status":"bogus"},"offer":95}`},
		{name: "negative round", body: `{"state":{"kind":"product","bounds":{"min":70,"max":100,"max_discount":0.3},"round":-1},"offer":95}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/v1/evaluate", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestEvaluateWithSealedToken(t *testing.T) {
	sealer, err := statetoken.NewSealer(bytes.Repeat([]byte{7}, statetoken.SecretBytes))
	require.NoError(t, err)
	srv := newTestServer(t, sealer)

	first := srv.do(t, http.MethodPost, "/v1/evaluate", `{"state":{"kind":"product","bounds":{"min":70,"max":100,"max_discount":0.3}},"offer":95}`)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	token := decodeBody[evaluateResponse](t, first).Token
	require.NotEmpty(t, token)

	second := srv.do(t, http.MethodPost, "/v1/evaluate", `{"token":"`+token+`","offer":96}`)
	require.Equal(t, http.StatusOK, second.Code, second.Body.String())
	got := decodeBody[evaluateResponse](t, second)
	assert.Equal(t, 2, got.State.Round)
	require.NotNil(t, got.State.LastOffer)
	assert.InDelta(t, 96.0, *got.State.LastOffer, 1e-9)

	tampered := srv.do(t, http.MethodPost, "/v1/evaluate", `{"token":"`+token[:len(token)-2]+`xx","offer":96}`)
	assert.Equal(t, http.StatusBadRequest, tampered.Code)

	both := srv.do(t, http.MethodPost, "/v1/evaluate", `{"token":"`+token+`","state":{"kind":"product","bounds":{"min":70,"max":100,"max_discount":0.3}},"offer":96}`)
	assert.Equal(t, http.StatusBadRequest, both.Code)
}

func TestEvaluateWithTokensRefusesEditedPlainState(t *testing.T) {
	sealer, err := statetoken.NewSealer(bytes.Repeat([]byte{7}, statetoken.SecretBytes))
	require.NoError(t, err)
	srv := newTestServer(t, sealer)

	edited := []struct {
		name  string
		state string
	}{
		{name: "strategy", state: `{"kind":"product","bounds":{"min":70,"max":100,"max_discount":0.3},"strategy":{"round_cap":50,"accept_threshold":0.1,"eagerness":0.7,"flexibility":0.6,"convergence_delta":1}}`},
		{name: "round", state: `{"kind":"product","bounds":{"min":70,"max":100,"max_discount":0.3},"round":1}`},
		{name: "last counter", state: `{"kind":"product","bounds":{"min":70,"max":100,"max_discount":0.3},"last_counter":71}`},
		{name: "status", state: `{"kind":"product","bounds":{"min":70,"max":100,"max_discount":0.3},"status":"expired"}`},
	}
	for _, tt := range edited {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/v1/evaluate", `{"state":`+tt.state+`,"offer":95}`)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	fresh := srv.do(t, http.MethodPost, "/v1/evaluate", `{"state":{"kind":"product","bounds":{"min":70,"max":100,"max_discount":0.3},"status":"open"},"offer":95}`)
	require.Equal(t, http.StatusOK, fresh.Code, fresh.Body.String())
	assert.NotEmpty(t, decodeBody[evaluateResponse](t, fresh).Token)
}

func TestOrderQuote(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/v1/orders/ord-1/quote", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[quoteDTO](t, rec)
	assert.Equal(t, "ord-1", got.OrderID)
	assert.False(t, got.HasCoordinates)
	assert.InDelta(t, 4.2, got.OpeningFee, 1e-9)
	assert.Empty(t, got.TravelMinutes)

	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/v1/orders/missing/quote", "").Code)
}

func TestRecoveryTurnsPanicsInto500(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodOptions, "/v1/evaluate", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}
