package httpapi

import (
	"net/http"

	"github.com/bnema/haggle/internal/application"
	"github.com/bnema/haggle/internal/domain"
	"github.com/go-chi/chi/v5"
)

func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type NegotiationHandler struct {
	svc NegotiationAPI
}

func NewNegotiationHandler(svc NegotiationAPI) *NegotiationHandler {
	return &NegotiationHandler{svc: svc}
}

// StartProduct handles POST /v1/negotiations/products/{id}
func (h *NegotiationHandler) StartProduct(w http.ResponseWriter, r *http.Request) {
	negotiation, err := h.svc.StartProduct(r.Context(), domain.ProductID(chi.URLParam(r, "id")))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNegotiationDTO(negotiation))
}

// StartDelivery handles POST /v1/negotiations/orders/{id}
func (h *NegotiationHandler) StartDelivery(w http.ResponseWriter, r *http.Request) {
	negotiation, err := h.svc.StartDelivery(r.Context(), domain.OrderID(chi.URLParam(r, "id")))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNegotiationDTO(negotiation))
}

func (h *NegotiationHandler) Get(w http.ResponseWriter, r *http.Request) {
	negotiation, err := h.svc.Get(r.Context(), domain.NegotiationID(chi.URLParam(r, "id")))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNegotiationDTO(negotiation))
}

func (h *NegotiationHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]summaryDTO, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, toSummaryDTO(summary))
	}

	writeJSON(w, http.StatusOK, map[string]any{"negotiations": out})
}

// SubmitOffer handles POST /v1/negotiations/{id}/offers
func (h *NegotiationHandler) SubmitOffer(w http.ResponseWriter, r *http.Request) {
	var req offerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Offer == nil {
		writeError(w, http.StatusBadRequest, "offer is required")
		return
	}

	negotiation, decision, err := h.svc.SubmitOffer(r.Context(), application.SubmitOfferCommand{
		NegotiationID: domain.NegotiationID(chi.URLParam(r, "id")),
		Offer:         *req.Offer,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, offerResponse{
		Decision:    toDecisionDTO(decision),
		Negotiation: toNegotiationDTO(negotiation),
	})
}

type OrderHandler struct {
	quotes QuoteAPI
}

func NewOrderHandler(quotes QuoteAPI) *OrderHandler {
	return &OrderHandler{quotes: quotes}
}

// Quote handles GET /v1/orders/{id}/quote
func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.quotes.DeliveryQuote(r.Context(), domain.OrderID(chi.URLParam(r, "id")))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuoteDTO(quote))
}
