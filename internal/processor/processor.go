package processor

import (
	"context"
	"errors"
)

// ErrChargeNotFound is returned when the processor has no charge for the
// given identifier, or an intent carries no resolved charge.
var ErrChargeNotFound = errors.New("charge not found")

// Charge is the processor's record of a captured payment. Amounts are in
// integer minor units.
type Charge struct {
	ID              string
	Amount          int64
	AmountRefunded  int64
	PaymentIntentID string
}

// AvailableToRefund returns the remaining refundable balance in minor units.
func (c Charge) AvailableToRefund() int64 {
	return c.Amount - c.AmountRefunded
}

// RefundRequest describes a refund to create against a charge. Amount is in
// minor units; metadata is attached to the processor-side refund object.
type RefundRequest struct {
	ChargeID string
	Amount   int64
	Metadata map[string]string
}

// RefundResult is the processor's confirmation of a created refund.
type RefundResult struct {
	ID     string
	Status string
}

// Processor is the payment processor client used by the refund flow.
type Processor interface {
	// GetCharge fetches a charge by its identifier.
	GetCharge(ctx context.Context, chargeID string) (*Charge, error)
	// GetIntentCharge fetches a payment intent and returns its resolved
	// latest charge. Returns ErrChargeNotFound if the intent has none.
	GetIntentCharge(ctx context.Context, intentID string) (*Charge, error)
	// CreateRefund creates a refund for the charge. Exactly one processor
	// mutation per call; never retried by callers.
	CreateRefund(ctx context.Context, req RefundRequest) (*RefundResult, error)
}
