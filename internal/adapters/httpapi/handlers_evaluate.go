package httpapi

import (
	"fmt"
	"net/http"

	"github.com/bnema/haggle/internal/domain"
)

type EvaluateHandler struct {
	svc    NegotiationAPI
	tokens TokenSealer
}

func NewEvaluateHandler(svc NegotiationAPI, tokens TokenSealer) *EvaluateHandler {
	return &EvaluateHandler{svc: svc, tokens: tokens}
}

// Evaluate handles POST /v1/evaluate. The caller carries the state between
// rounds, either as plain JSON or as a sealed token. With tokens enabled a
// plain state may only open a negotiation; later rounds must send the token.
func (h *EvaluateHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Offer == nil {
		writeError(w, http.StatusBadRequest, "offer is required")
		return
	}

	state, err := h.resolveState(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	next, decision, err := h.svc.Evaluate(state, *req.Offer)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := evaluateResponse{
		Decision: toDecisionDTO(decision),
		State:    toStateDTO(next),
	}
	if h.tokens != nil {
		token, err := h.tokens.Seal(next)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp.Token = token
	}

	writeJSON(w, http.StatusOK, resp)
}

var (
	errStateAndToken = fmt.Errorf("%w: send either state or token, not both", errBadRequest)
	errNoState       = fmt.Errorf("%w: state or token is required", errBadRequest)
	errNoTokens      = fmt.Errorf("%w: state tokens are not enabled on this server", errBadRequest)
	errStateInFlight = fmt.Errorf("%w: continue a negotiation with its token; plain state may only carry kind and bounds", errBadRequest)
)

func (h *EvaluateHandler) resolveState(req evaluateRequest) (domain.State, error) {
	switch {
	case req.State != nil && req.Token != "":
		return domain.State{}, errStateAndToken
	case req.Token != "":
		if h.tokens == nil {
			return domain.State{}, errNoTokens
		}
		return h.tokens.Open(req.Token)
	case req.State != nil:
		if h.tokens != nil && !req.State.fresh() {
			return domain.State{}, errStateInFlight
		}
		return h.stateFromDTO(*req.State)
	default:
		return domain.State{}, errNoState
	}
}

// stateFromDTO fills in the server's configured strategy when the client
// sends bounds only.
func (h *EvaluateHandler) stateFromDTO(dto stateDTO) (domain.State, error) {
	kind, err := domain.ParseKind(dto.Kind)
	if err != nil {
		return domain.State{}, fmt.Errorf("%w: %w", errBadRequest, err)
	}

	state, err := h.svc.NewState(kind, dto.Bounds.toDomain())
	if err != nil {
		return domain.State{}, err
	}

	if dto.Strategy != nil {
		state.Strategy = domain.Strategy{
			RoundCap:         dto.Strategy.RoundCap,
			AcceptThreshold:  dto.Strategy.AcceptThreshold,
			Eagerness:        dto.Strategy.Eagerness,
			Flexibility:      dto.Strategy.Flexibility,
			ConvergenceDelta: dto.Strategy.ConvergenceDelta,
		}
	}
	state.Round = dto.Round
	state.LastOffer = dto.LastOffer
	state.LastCounter = dto.LastCounter
	if dto.Status != "" {
		state.Status = domain.Status(dto.Status)
	}

	return state, nil
}
