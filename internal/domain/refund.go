package domain

import "time"

// Refund documents a processor-side refund after the fact. Rows are written
// once, after the processor confirms the refund, and never updated or
// deleted. A failed write leaves the processor as the sole record of truth.
type Refund struct {
	ID                string    `json:"id"`
	InvoiceID         string    `json:"invoice_id"`
	ProcessorRefundID string    `json:"processor_refund_id"`
	PaymentIntentID   string    `json:"payment_intent_id,omitempty"`
	Amount            float64   `json:"amount"`
	Reason            string    `json:"reason"`
	AdminNotes        string    `json:"admin_notes,omitempty"`
	Status            string    `json:"status"`
	InitiatedByUserID string    `json:"initiated_by_user_id"`
	CreatedAt         time.Time `json:"created_at"`
}
