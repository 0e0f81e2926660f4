package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omega-events/omega-backend/internal/domain"
	"github.com/omega-events/omega-backend/pkg/database"
)

func TestListByInvoiceAndStatus(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewPaymentRecordRepository(mock)

	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "invoice_id", "processor_ref", "status", "created_at"}).
		AddRow("rec-2", "INV-1", "ch_newer", domain.PaymentStatusSucceeded, now).
		AddRow("rec-1", "INV-1", "pi_older", domain.PaymentStatusSucceeded, now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT id, invoice_id, processor_ref, status, created_at\s+FROM payment_records`).
		WithArgs("INV-1", "succeeded").
		WillReturnRows(rows)

	records, err := repo.ListByInvoiceAndStatus(context.Background(), "INV-1", domain.PaymentStatusSucceeded)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ch_newer", records[0].ProcessorRef)
	assert.Equal(t, "pi_older", records[1].ProcessorRef)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByInvoiceAndStatusEmpty(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewPaymentRecordRepository(mock)

	mock.ExpectQuery(`FROM payment_records`).
		WithArgs("INV-404", "succeeded").
		WillReturnRows(pgxmock.NewRows([]string{"id", "invoice_id", "processor_ref", "status", "created_at"}))

	records, err := repo.ListByInvoiceAndStatus(context.Background(), "INV-404", domain.PaymentStatusSucceeded)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListByInvoiceAndStatusQueryError(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewPaymentRecordRepository(mock)

	mock.ExpectQuery(`FROM payment_records`).
		WithArgs("INV-1", "succeeded").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.ListByInvoiceAndStatus(context.Background(), "INV-1", domain.PaymentStatusSucceeded)
	assert.ErrorContains(t, err, "query payment records")
}
