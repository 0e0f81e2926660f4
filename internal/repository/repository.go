package repository

import (
	"context"

	"github.com/omega-events/omega-backend/internal/domain"
)

// PaymentRecordRepository reads payment records written by the checkout flow.
// The refund flow never writes payment records.
type PaymentRecordRepository interface {
	// ListByInvoiceAndStatus returns records for the invoice with the given
	// status, most recent first.
	ListByInvoiceAndStatus(ctx context.Context, invoiceID string, status domain.PaymentStatus) ([]domain.PaymentRecord, error)
}

// RefundRepository persists refund ledger rows.
type RefundRepository interface {
	Create(ctx context.Context, refund *domain.Refund) error
	ListByInvoiceID(ctx context.Context, invoiceID string) ([]domain.Refund, error)
}

// ProfileRepository manages user profile rows.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	UpsertRole(ctx context.Context, userID string, role domain.Role) (*domain.Profile, error)
	List(ctx context.Context, page, perPage int) ([]domain.Profile, int, error)
}
