package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/omega-events/omega-backend/internal/domain"
	"github.com/omega-events/omega-backend/pkg/database"
)

// RefundRepository is the Postgres implementation backed by the refunds table.
type RefundRepository struct {
	db database.DBTX
}

func NewRefundRepository(db database.DBTX) *RefundRepository {
	return &RefundRepository{db: db}
}

func (r *RefundRepository) Create(ctx context.Context, refund *domain.Refund) error {
	if refund.ID == "" {
		refund.ID = uuid.NewString()
	}

	query := `
		INSERT INTO refunds (id, invoice_id, processor_refund_id, payment_intent_id, amount, reason, admin_notes, status, initiated_by_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		refund.ID,
		refund.InvoiceID,
		refund.ProcessorRefundID,
		refund.PaymentIntentID,
		refund.Amount,
		refund.Reason,
		refund.AdminNotes,
		refund.Status,
		refund.InitiatedByUserID,
		refund.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert refund: %w", err)
	}

	return nil
}

func (r *RefundRepository) ListByInvoiceID(ctx context.Context, invoiceID string) ([]domain.Refund, error) {
	query := `
		SELECT id, invoice_id, processor_refund_id, payment_intent_id, amount, reason, admin_notes, status, initiated_by_user_id, created_at
		FROM refunds
		WHERE invoice_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("query refunds: %w", err)
	}
	defer rows.Close()

	var refunds []domain.Refund
	for rows.Next() {
		var ref domain.Refund
		if err := rows.Scan(
			&ref.ID,
			&ref.InvoiceID,
			&ref.ProcessorRefundID,
			&ref.PaymentIntentID,
			&ref.Amount,
			&ref.Reason,
			&ref.AdminNotes,
			&ref.Status,
			&ref.InitiatedByUserID,
			&ref.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan refund: %w", err)
		}
		refunds = append(refunds, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate refunds: %w", err)
	}

	return refunds, nil
}
