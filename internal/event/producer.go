package event

import (
	"context"
	"log/slog"

	"github.com/omega-events/omega-backend/internal/domain"
	"github.com/omega-events/omega-backend/pkg/kafka"
)

const (
	TypeRefundIssued       = "omega.refund.issued"
	TypeRefundLedgerFailed = "omega.refund.ledger_failed"
)

// Publisher publishes refund lifecycle events. Publishing is best-effort:
// failures are logged, never surfaced to the request.
type Publisher interface {
	RefundIssued(ctx context.Context, refund *domain.Refund)
	RefundLedgerFailed(ctx context.Context, refund *domain.Refund, writeErr error)
}

type producer interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// KafkaPublisher publishes refund events to Kafka.
type KafkaPublisher struct {
	producer producer
	logger   *slog.Logger
}

func NewKafkaPublisher(p *kafka.Producer, l *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: p, logger: l}
}

type refundPayload struct {
	InvoiceID         string  `json:"invoice_id"`
	ProcessorRefundID string  `json:"processor_refund_id"`
	Amount            float64 `json:"amount"`
	Reason            string  `json:"reason"`
	InitiatedBy       string  `json:"initiated_by"`
	LedgerError       string  `json:"ledger_error,omitempty"`
}

func (p *KafkaPublisher) RefundIssued(ctx context.Context, refund *domain.Refund) {
	p.publish(ctx, TypeRefundIssued, refund, "")
}

func (p *KafkaPublisher) RefundLedgerFailed(ctx context.Context, refund *domain.Refund, writeErr error) {
	p.publish(ctx, TypeRefundLedgerFailed, refund, writeErr.Error())
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType string, refund *domain.Refund, ledgerErr string) {
	evt := kafka.NewEvent(eventType, refund.InvoiceID, refundPayload{
		InvoiceID:         refund.InvoiceID,
		ProcessorRefundID: refund.ProcessorRefundID,
		Amount:            refund.Amount,
		Reason:            refund.Reason,
		InitiatedBy:       refund.InitiatedByUserID,
		LedgerError:       ledgerErr,
	})

	if err := p.producer.Publish(ctx, evt); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish refund event",
			slog.String("event_type", eventType),
			slog.String("invoice_id", refund.InvoiceID),
			slog.String("error", err.Error()),
		)
	}
}

// NoopPublisher discards events, used when Kafka is not configured.
type NoopPublisher struct{}

func (NoopPublisher) RefundIssued(context.Context, *domain.Refund) {}

func (NoopPublisher) RefundLedgerFailed(context.Context, *domain.Refund, error) {}
