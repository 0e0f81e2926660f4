package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/omega-events/omega-backend/internal/processor"
)

// Processor is a testify mock of processor.Processor.
type Processor struct {
	mock.Mock
}

func (m *Processor) GetCharge(ctx context.Context, chargeID string) (*processor.Charge, error) {
	args := m.Called(ctx, chargeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*processor.Charge), args.Error(1)
}

func (m *Processor) GetIntentCharge(ctx context.Context, intentID string) (*processor.Charge, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*processor.Charge), args.Error(1)
}

func (m *Processor) CreateRefund(ctx context.Context, req processor.RefundRequest) (*processor.RefundResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*processor.RefundResult), args.Error(1)
}
