package postgres

import (
	"context"
	"fmt"

	"github.com/omega-events/omega-backend/internal/domain"
	"github.com/omega-events/omega-backend/pkg/database"
)

// PaymentRecordRepository is the Postgres implementation backed by the
// payment_records table.
type PaymentRecordRepository struct {
	db database.DBTX
}

func NewPaymentRecordRepository(db database.DBTX) *PaymentRecordRepository {
	return &PaymentRecordRepository{db: db}
}

func (r *PaymentRecordRepository) ListByInvoiceAndStatus(ctx context.Context, invoiceID string, status domain.PaymentStatus) ([]domain.PaymentRecord, error) {
	query := `
		SELECT id, invoice_id, processor_ref, status, created_at
		FROM payment_records
		WHERE invoice_id = $1 AND status = $2
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, invoiceID, string(status))
	if err != nil {
		return nil, fmt.Errorf("query payment records: %w", err)
	}
	defer rows.Close()

	var records []domain.PaymentRecord
	for rows.Next() {
		var rec domain.PaymentRecord
		if err := rows.Scan(&rec.ID, &rec.InvoiceID, &rec.ProcessorRef, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment records: %w", err)
	}

	return records, nil
}
