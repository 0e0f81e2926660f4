package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/omega-events/omega-backend/internal/service"
	apperrors "github.com/omega-events/omega-backend/pkg/errors"
	"github.com/omega-events/omega-backend/pkg/httputil"
	"github.com/omega-events/omega-backend/pkg/logger"
	"github.com/omega-events/omega-backend/pkg/middleware"
	"github.com/omega-events/omega-backend/pkg/validator"
)

// RefundHandler exposes the refund endpoints. Success and error bodies use
// the flat shapes the storefront consumes: {message} on 200/207 and
// {error[, details]} otherwise.
type RefundHandler struct {
	refunds *service.RefundService
	logger  *slog.Logger
}

func NewRefundHandler(refunds *service.RefundService, l *slog.Logger) *RefundHandler {
	return &RefundHandler{refunds: refunds, logger: l}
}

type issueRefundRequest struct {
	InvoiceID  string  `json:"invoiceId" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Reason     string  `json:"reason" validate:"required"`
	AdminNotes string  `json:"adminNotes"`
}

// IssueRefund handles POST /api/v1/refunds.
func (h *RefundHandler) IssueRefund(w http.ResponseWriter, r *http.Request) {
	var req issueRefundRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeFlatError(w, http.StatusBadRequest, "invalid request", err)
		return
	}

	operatorID := middleware.UserIDFromContext(r.Context())
	if operatorID == "" {
		writeFlatError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	res, err := h.refunds.IssueRefund(r.Context(), service.IssueRefundInput{
		InvoiceID:  req.InvoiceID,
		Amount:     req.Amount,
		Reason:     req.Reason,
		AdminNotes: req.AdminNotes,
		OperatorID: operatorID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	message := fmt.Sprintf("Refund of %.2f processed successfully", res.Refund.Amount)

	if res.LedgerErr != nil {
		// The processor-side refund went through; surface the failed
		// bookkeeping write without masking the monetary success.
		httputil.WriteJSON(w, http.StatusMultiStatus, map[string]string{
			"message": message,
			"error":   "refund processed but ledger record failed",
			"details": res.LedgerErr.Error(),
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": message})
}

// ListByInvoice handles GET /api/v1/refunds/invoice/{invoiceID}.
func (h *RefundHandler) ListByInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "invoiceID")
	if invoiceID == "" {
		writeFlatError(w, http.StatusBadRequest, "invoice id is required", nil)
		return
	}

	refunds, err := h.refunds.ListRefunds(r.Context(), invoiceID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"refunds": refunds})
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			logger.FromContext(r.Context()).ErrorContext(r.Context(), "refund request failed",
				slog.String("error", err.Error()),
			)
		}
		writeFlatError(w, appErr.Status, appErr.Message, nil)
		return
	}

	logger.FromContext(r.Context()).ErrorContext(r.Context(), "refund request failed",
		slog.String("error", err.Error()),
	)
	writeFlatError(w, http.StatusInternalServerError, "an internal error occurred", nil)
}

func writeFlatError(w http.ResponseWriter, status int, message string, cause error) {
	body := map[string]string{"error": message}
	if cause != nil {
		body["details"] = cause.Error()
	}
	httputil.WriteJSON(w, status, body)
}
