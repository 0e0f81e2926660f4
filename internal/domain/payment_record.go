package domain

import (
	"strings"
	"time"
)

// PaymentStatus is the lifecycle status of a payment record.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// ProcessorRefKind distinguishes the two kinds of processor references a
// payment record may carry. Older records store only the payment-intent
// identifier; newer ones store the charge identifier directly.
type ProcessorRefKind string

const (
	RefKindCharge ProcessorRefKind = "charge"
	RefKindIntent ProcessorRefKind = "intent"
)

// ProcessorRef is a tagged processor reference. The kind is fixed when the
// stored string is parsed at the data boundary, so downstream code branches
// on the tag instead of re-sniffing prefixes.
type ProcessorRef struct {
	Kind ProcessorRefKind
	ID   string
}

// ParseProcessorRef classifies a stored processor reference by its prefix.
// "pi_" marks a payment intent; "ch_" and "py_" mark charges. Anything else
// is not a resolvable reference and returns false.
func ParseProcessorRef(ref string) (ProcessorRef, bool) {
	switch {
	case strings.HasPrefix(ref, "pi_"):
		return ProcessorRef{Kind: RefKindIntent, ID: ref}, true
	case strings.HasPrefix(ref, "ch_"), strings.HasPrefix(ref, "py_"):
		return ProcessorRef{Kind: RefKindCharge, ID: ref}, true
	default:
		return ProcessorRef{}, false
	}
}

// PaymentRecord links an invoice to a processor reference. One row exists per
// payment attempt; only succeeded records are consulted by the refund flow.
type PaymentRecord struct {
	ID           string        `json:"id"`
	InvoiceID    string        `json:"invoice_id"`
	ProcessorRef string        `json:"processor_ref"`
	Status       PaymentStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Ref parses the record's stored processor reference.
func (p PaymentRecord) Ref() (ProcessorRef, bool) {
	return ParseProcessorRef(p.ProcessorRef)
}
