package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/omega-events/omega-backend/internal/domain"
	"github.com/omega-events/omega-backend/internal/event"
	"github.com/omega-events/omega-backend/internal/processor"
	"github.com/omega-events/omega-backend/internal/repository"
	apperrors "github.com/omega-events/omega-backend/pkg/errors"
	"github.com/omega-events/omega-backend/pkg/logger"
)

// IssueRefundInput is the validated refund request plus the operator identity.
type IssueRefundInput struct {
	InvoiceID  string
	Amount     float64
	Reason     string
	AdminNotes string
	OperatorID string
}

// IssueRefundResult carries the created refund and, when the ledger write
// failed after the processor succeeded, the write error for the caller to
// surface as a partial success.
type IssueRefundResult struct {
	Refund    *domain.Refund
	LedgerErr error
}

// RefundService issues refunds against the payment processor and records
// them in the local ledger.
type RefundService struct {
	payments  repository.PaymentRecordRepository
	refunds   repository.RefundRepository
	processor processor.Processor
	events    event.Publisher
	logger    *slog.Logger
}

func NewRefundService(
	payments repository.PaymentRecordRepository,
	refunds repository.RefundRepository,
	proc processor.Processor,
	events event.Publisher,
	l *slog.Logger,
) *RefundService {
	return &RefundService{
		payments:  payments,
		refunds:   refunds,
		processor: proc,
		events:    events,
		logger:    l,
	}
}

// IssueRefund resolves the invoice's processor charge, checks the remaining
// refundable balance, creates the refund at the processor, and records it in
// the ledger. The ledger write is best-effort: its failure is reported in the
// result, never by rolling back or retrying the processor-side refund.
//
// The balance check and the refund creation are not atomic: two concurrent
// requests for the same charge can both pass the check, and only the
// processor's own per-charge ceiling bounds the combined outcome. No
// serialization or idempotency key is applied here.
func (s *RefundService) IssueRefund(ctx context.Context, in IssueRefundInput) (*IssueRefundResult, error) {
	charge, err := s.resolveCharge(ctx, in.InvoiceID)
	if err != nil {
		refundsFailed.WithLabelValues("charge_not_found").Inc()
		return nil, err
	}

	available := domain.MinorToMajor(charge.AvailableToRefund())
	if in.Amount > available {
		refundsFailed.WithLabelValues("amount_exceeds_available").Inc()
		return nil, apperrors.AmountExceedsAvailable(in.Amount, available)
	}

	notes := in.AdminNotes
	if notes == "" {
		notes = "none"
	}

	result, err := s.processor.CreateRefund(ctx, processor.RefundRequest{
		ChargeID: charge.ID,
		Amount:   domain.MajorToMinor(in.Amount),
		Metadata: map[string]string{
			"invoice_id":   in.InvoiceID,
			"reason":       in.Reason,
			"initiated_by": in.OperatorID,
			"admin_notes":  notes,
		},
	})
	if err != nil {
		refundsFailed.WithLabelValues("processor").Inc()
		return nil, apperrors.Upstream("payment processor", err)
	}

	refundsIssued.Inc()
	refundAmountTotal.Add(float64(domain.MajorToMinor(in.Amount)))

	refund := &domain.Refund{
		InvoiceID:         in.InvoiceID,
		ProcessorRefundID: result.ID,
		PaymentIntentID:   charge.PaymentIntentID,
		Amount:            in.Amount,
		Reason:            in.Reason,
		AdminNotes:        in.AdminNotes,
		Status:            result.Status,
		InitiatedByUserID: in.OperatorID,
		CreatedAt:         time.Now().UTC(),
	}

	// Money has already moved. A ledger failure must not fail the request,
	// and the processor call is never repeated to compensate.
	if err := s.refunds.Create(ctx, refund); err != nil {
		refundsPartialSuccess.Inc()
		logger.FromContext(ctx).ErrorContext(ctx, "refund ledger write failed",
			slog.String("invoice_id", in.InvoiceID),
			slog.String("processor_refund_id", result.ID),
			slog.String("error", err.Error()),
		)
		s.events.RefundLedgerFailed(ctx, refund, err)
		return &IssueRefundResult{Refund: refund, LedgerErr: err}, nil
	}

	s.events.RefundIssued(ctx, refund)
	return &IssueRefundResult{Refund: refund}, nil
}

// resolveCharge finds the most recent succeeded payment record for the
// invoice and fetches its charge. Records written by the older checkout flow
// carry only the payment-intent reference, so the charge is resolved through
// the intent's expanded latest charge in that case.
func (s *RefundService) resolveCharge(ctx context.Context, invoiceID string) (*processor.Charge, error) {
	records, err := s.payments.ListByInvoiceAndStatus(ctx, invoiceID, domain.PaymentStatusSucceeded)
	if err != nil {
		return nil, apperrors.Upstream("record store", err)
	}
	if len(records) == 0 {
		return nil, apperrors.ChargeNotFound(invoiceID)
	}

	ref, ok := records[0].Ref()
	if !ok {
		return nil, apperrors.ChargeNotFound(invoiceID)
	}

	var charge *processor.Charge
	switch ref.Kind {
	case domain.RefKindCharge:
		charge, err = s.processor.GetCharge(ctx, ref.ID)
	case domain.RefKindIntent:
		charge, err = s.processor.GetIntentCharge(ctx, ref.ID)
	}
	if err != nil {
		if isChargeNotFound(err) {
			return nil, apperrors.ChargeNotFound(invoiceID)
		}
		return nil, apperrors.Upstream("payment processor", err)
	}
	if charge == nil {
		return nil, apperrors.ChargeNotFound(invoiceID)
	}

	return charge, nil
}

func isChargeNotFound(err error) bool {
	return errors.Is(err, processor.ErrChargeNotFound)
}

// ListRefunds returns the ledger rows for an invoice, most recent first.
func (s *RefundService) ListRefunds(ctx context.Context, invoiceID string) ([]domain.Refund, error) {
	refunds, err := s.refunds.ListByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list refunds: %w", err)
	}
	return refunds, nil
}

// LookupChargeID resolves a payment intent's latest charge identifier.
func (s *RefundService) LookupChargeID(ctx context.Context, intentID string) (string, error) {
	if !strings.HasPrefix(intentID, "pi_") {
		return "", apperrors.InvalidInput("payment intent id must start with pi_")
	}

	charge, err := s.processor.GetIntentCharge(ctx, intentID)
	if err != nil {
		if isChargeNotFound(err) {
			return "", apperrors.ChargeNotFound(intentID)
		}
		return "", apperrors.Upstream("payment processor", err)
	}

	return charge.ID, nil
}
