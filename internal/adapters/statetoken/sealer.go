package statetoken

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/bnema/haggle/internal/domain"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

var ErrInvalidToken = errors.New("invalid state token")

const (
	SecretBytes = 32

	tokenVersion   = 1
	hkdfInfo       = "haggle|state-token|v1"
	passphraseSalt = "haggle-state-token-salt"
)

var additionalData = []byte("haggle-state")

// Sealer turns negotiation state into opaque tokens so stateless clients can
// carry it between rounds without being able to edit bounds or strategy once
// the first round is sealed.
type Sealer struct {
	aead   cipherAEAD
	random io.Reader
}

type cipherAEAD interface {
	NonceSize() int
	Overhead() int
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

func NewSealer(secret []byte) (*Sealer, error) {
	if len(secret) < SecretBytes {
		return nil, fmt.Errorf("state token secret must be at least %d bytes", SecretBytes)
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("derive state token key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init state token cipher: %w", err)
	}

	return &Sealer{aead: aead, random: rand.Reader}, nil
}

// SecretFromPassphrase stretches a shared passphrase so several servers can
// read each other's tokens without sharing a key file.
func SecretFromPassphrase(passphrase string) []byte {
	return argon2.IDKey([]byte(passphrase), []byte(passphraseSalt), 1, 64*1024, 4, SecretBytes)
}

func (s *Sealer) Seal(state domain.State) (string, error) {
	plaintext, err := json.Marshal(toPayload(state))
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}

	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := io.ReadFull(s.random, nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, plaintext, additionalData)

	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (s *Sealer) Open(token string) (domain.State, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return domain.State{}, fmt.Errorf("%w: not base64url", ErrInvalidToken)
	}
	if len(raw) < s.aead.NonceSize()+s.aead.Overhead() {
		return domain.State{}, fmt.Errorf("%w: too short", ErrInvalidToken)
	}

	nonce, ciphertext := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return domain.State{}, fmt.Errorf("%w: authentication failed", ErrInvalidToken)
	}

	var p payload
	if err := json.Unmarshal(plaintext, &p); err != nil {
		return domain.State{}, fmt.Errorf("%w: malformed payload", ErrInvalidToken)
	}
	if p.Version != tokenVersion {
		return domain.State{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidToken, p.Version)
	}

	state := p.toState()
	if err := state.Validate(); err != nil {
		return domain.State{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return state, nil
}

type payload struct {
	Version          int      `json:"v"`
	Kind             string   `json:"k"`
	Min              float64  `json:"min"`
	Max              float64  `json:"max"`
	MaxDiscount      float64  `json:"md"`
	RoundCap         int      `json:"rc"`
	AcceptThreshold  float64  `json:"at"`
	Eagerness        float64  `json:"e"`
	Flexibility      float64  `json:"f"`
	ConvergenceDelta float64  `json:"cd"`
	Round            int      `json:"r"`
	LastOffer        *float64 `json:"lo,omitempty"`
	LastCounter      *float64 `json:"lc,omitempty"`
	Status           string   `json:"s"`
}

func toPayload(state domain.State) payload {
	return payload{
		Version:          tokenVersion,
		Kind:             string(state.Kind),
		Min:              state.Bounds.Min,
		Max:              state.Bounds.Max,
		MaxDiscount:      state.Bounds.MaxDiscount,
		RoundCap:         state.Strategy.RoundCap,
		AcceptThreshold:  state.Strategy.AcceptThreshold,
		Eagerness:        state.Strategy.Eagerness,
		Flexibility:      state.Strategy.Flexibility,
		ConvergenceDelta: state.Strategy.ConvergenceDelta,
		Round:            state.Round,
		LastOffer:        state.LastOffer,
		LastCounter:      state.LastCounter,
		Status:           string(state.Status),
	}
}

func (p payload) toState() domain.State {
	return domain.State{
		Kind: domain.Kind(p.Kind),
		Bounds: domain.Bounds{
			Min:         p.Min,
			Max:         p.Max,
			MaxDiscount: p.MaxDiscount,
		},
		Strategy: domain.Strategy{
			RoundCap:         p.RoundCap,
			AcceptThreshold:  p.AcceptThreshold,
			Eagerness:        p.Eagerness,
			Flexibility:      p.Flexibility,
			ConvergenceDelta: p.ConvergenceDelta,
		},
		Round:       p.Round,
		LastOffer:   p.LastOffer,
		LastCounter: p.LastCounter,
		Status:      domain.Status(p.Status),
	}
}
