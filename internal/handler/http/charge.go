package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/omega-events/omega-backend/internal/service"
	"github.com/omega-events/omega-backend/pkg/httputil"
)

// ChargeHandler resolves charge identifiers from payment intent references.
type ChargeHandler struct {
	refunds *service.RefundService
	logger  *slog.Logger
}

func NewChargeHandler(refunds *service.RefundService, l *slog.Logger) *ChargeHandler {
	return &ChargeHandler{refunds: refunds, logger: l}
}

// LookupChargeID handles GET /api/v1/charges/intent/{intentID}.
func (h *ChargeHandler) LookupChargeID(w http.ResponseWriter, r *http.Request) {
	intentID := chi.URLParam(r, "intentID")

	chargeID, err := h.refunds.LookupChargeID(r.Context(), intentID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"chargeId": chargeID})
}
