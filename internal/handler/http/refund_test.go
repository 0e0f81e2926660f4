package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/omega-events/omega-backend/internal/domain"
	"github.com/omega-events/omega-backend/internal/event"
	"github.com/omega-events/omega-backend/internal/processor"
	procmock "github.com/omega-events/omega-backend/internal/processor/mock"
	"github.com/omega-events/omega-backend/internal/service"
	"github.com/omega-events/omega-backend/pkg/health"
	"github.com/omega-events/omega-backend/pkg/logger"
	"github.com/omega-events/omega-backend/pkg/middleware"
)

type stubPaymentRepo struct {
	mock.Mock
}

func (m *stubPaymentRepo) ListByInvoiceAndStatus(ctx context.Context, invoiceID string, status domain.PaymentStatus) ([]domain.PaymentRecord, error) {
	args := m.Called(ctx, invoiceID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentRecord), args.Error(1)
}

type stubRefundRepo struct {
	mock.Mock
}

func (m *stubRefundRepo) Create(ctx context.Context, refund *domain.Refund) error {
	return m.Called(ctx, refund).Error(0)
}

func (m *stubRefundRepo) ListByInvoiceID(ctx context.Context, invoiceID string) ([]domain.Refund, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Refund), args.Error(1)
}

type stubProfileRepo struct {
	mock.Mock
}

func (m *stubProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *stubProfileRepo) UpsertRole(ctx context.Context, userID string, role domain.Role) (*domain.Profile, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *stubProfileRepo) List(ctx context.Context, page, perPage int) ([]domain.Profile, int, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Profile), args.Int(1), args.Error(2)
}

type testServer struct {
	router   http.Handler
	payments *stubPaymentRepo
	refunds  *stubRefundRepo
	profiles *stubProfileRepo
	proc     *procmock.Processor
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	l := logger.New("test", "error")
	ts := &testServer{
		payments: &stubPaymentRepo{},
		refunds:  &stubRefundRepo{},
		profiles: &stubProfileRepo{},
		proc:     &procmock.Processor{},
	}

	refundSvc := service.NewRefundService(ts.payments, ts.refunds, ts.proc, event.NoopPublisher{}, l)
	adminSvc := service.NewAdminService(ts.profiles, nil, []string{"owner@omega.example"}, l)

	verify := func(token string) (*middleware.Claims, error) {
		switch token {
		case "operator-token":
			return &middleware.Claims{UserID: "user-1", Email: "ops@omega.example", Role: "staff"}, nil
		case "owner-token":
			return &middleware.Claims{UserID: "user-9", Email: "owner@omega.example", Role: "customer"}, nil
		default:
			return nil, errors.New("bad token")
		}
	}

	ts.router = NewRouter(RouterConfig{
		Refunds:             NewRefundHandler(refundSvc, l),
		Charges:             NewChargeHandler(refundSvc, l),
		Admin:               NewAdminHandler(adminSvc, l),
		Health:              health.NewHandler(),
		Logger:              l,
		TokenVerifier:       verify,
		ServiceName:         "omega-backend",
		CORSAllowedOrigin:   "*",
		AdminRateLimitRPS:   100,
		AdminRateLimitBurst: 100,
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func paidRecord(ref string) []domain.PaymentRecord {
	return []domain.PaymentRecord{{
		ID:           "rec-1",
		InvoiceID:    "INV-1",
		ProcessorRef: ref,
		Status:       domain.PaymentStatusSucceeded,
		CreatedAt:    time.Now(),
	}}
}

func TestIssueRefundUnauthorized(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, "POST", "/api/v1/refunds", "", `{"invoiceId":"INV-1","amount":60,"reason":"x"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// No credential means no downstream call of any kind.
	ts.payments.AssertNotCalled(t, "ListByInvoiceAndStatus", mock.Anything, mock.Anything, mock.Anything)
	ts.proc.AssertNotCalled(t, "CreateRefund", mock.Anything, mock.Anything)
}

func TestIssueRefundBadToken(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, "POST", "/api/v1/refunds", "garbage", `{"invoiceId":"INV-1","amount":60,"reason":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIssueRefundInvalidBody(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing invoice", `{"amount":60,"reason":"x"}`},
		{"missing reason", `{"invoiceId":"INV-1","amount":60}`},
		{"zero amount", `{"invoiceId":"INV-1","amount":0,"reason":"x"}`},
		{"negative amount", `{"invoiceId":"INV-1","amount":-5,"reason":"x"}`},
		{"malformed json", `{"invoiceId":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, "POST", "/api/v1/refunds", "operator-token", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	ts.proc.AssertNotCalled(t, "CreateRefund", mock.Anything, mock.Anything)
	ts.proc.AssertNotCalled(t, "GetCharge", mock.Anything, mock.Anything)
}

func TestIssueRefundSuccess(t *testing.T) {
	ts := newTestServer(t)

	ts.payments.On("ListByInvoiceAndStatus", mock.Anything, "INV-1", domain.PaymentStatusSucceeded).
		Return(paidRecord("ch_123"), nil)
	ts.proc.On("GetCharge", mock.Anything, "ch_123").
		Return(&processor.Charge{ID: "ch_123", Amount: 10000, PaymentIntentID: "pi_123"}, nil)
	ts.proc.On("CreateRefund", mock.Anything, mock.AnythingOfType("processor.RefundRequest")).
		Return(&processor.RefundResult{ID: "re_1", Status: "succeeded"}, nil)
	ts.refunds.On("Create", mock.Anything, mock.AnythingOfType("*domain.Refund")).Return(nil)

	rec := ts.do(t, "POST", "/api/v1/refunds", "operator-token", `{"invoiceId":"INV-1","amount":60,"reason":"event cancelled"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Refund of 60.00 processed successfully", resp["message"])
	assert.NotContains(t, resp, "error")
}

func TestIssueRefundLedgerFailureReturns207(t *testing.T) {
	ts := newTestServer(t)

	ts.payments.On("ListByInvoiceAndStatus", mock.Anything, "INV-1", domain.PaymentStatusSucceeded).
		Return(paidRecord("ch_123"), nil)
	ts.proc.On("GetCharge", mock.Anything, "ch_123").
		Return(&processor.Charge{ID: "ch_123", Amount: 10000}, nil)
	ts.proc.On("CreateRefund", mock.Anything, mock.AnythingOfType("processor.RefundRequest")).
		Return(&processor.RefundResult{ID: "re_1", Status: "succeeded"}, nil)
	ts.refunds.On("Create", mock.Anything, mock.AnythingOfType("*domain.Refund")).
		Return(errors.New("relation does not exist"))

	rec := ts.do(t, "POST", "/api/v1/refunds", "operator-token", `{"invoiceId":"INV-1","amount":60,"reason":"x"}`)

	require.Equal(t, http.StatusMultiStatus, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Refund of 60.00 processed successfully", resp["message"])
	assert.Contains(t, resp["details"], "relation does not exist")
	ts.proc.AssertNumberOfCalls(t, "CreateRefund", 1)
}

func TestIssueRefundAmountExceedsAvailable(t *testing.T) {
	ts := newTestServer(t)

	ts.payments.On("ListByInvoiceAndStatus", mock.Anything, "INV-1", domain.PaymentStatusSucceeded).
		Return(paidRecord("ch_123"), nil)
	ts.proc.On("GetCharge", mock.Anything, "ch_123").
		Return(&processor.Charge{ID: "ch_123", Amount: 10000, AmountRefunded: 4000}, nil)

	rec := ts.do(t, "POST", "/api/v1/refunds", "operator-token", `{"invoiceId":"INV-1","amount":61,"reason":"x"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "exceeds available")
	ts.proc.AssertNotCalled(t, "CreateRefund", mock.Anything, mock.Anything)
}

func TestIssueRefundChargeNotFound(t *testing.T) {
	ts := newTestServer(t)

	ts.payments.On("ListByInvoiceAndStatus", mock.Anything, "INV-9", domain.PaymentStatusSucceeded).
		Return([]domain.PaymentRecord{}, nil)

	rec := ts.do(t, "POST", "/api/v1/refunds", "operator-token", `{"invoiceId":"INV-9","amount":10,"reason":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRefundsByInvoice(t *testing.T) {
	ts := newTestServer(t)

	ts.refunds.On("ListByInvoiceID", mock.Anything, "INV-1").
		Return([]domain.Refund{{ID: "ref-1", InvoiceID: "INV-1", Amount: 60}}, nil)

	rec := ts.do(t, "GET", "/api/v1/refunds/invoice/INV-1", "operator-token", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]domain.Refund
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp["refunds"], 1)
	assert.Equal(t, "ref-1", resp["refunds"][0].ID)
}

func TestPreflightCORS(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, "OPTIONS", "/api/v1/refunds", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "authorization, x-client-info, apikey, content-type", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "OPTIONS")
}

func TestLookupChargeIDEndpoint(t *testing.T) {
	ts := newTestServer(t)

	ts.proc.On("GetIntentCharge", mock.Anything, "pi_789").
		Return(&processor.Charge{ID: "ch_789"}, nil)

	rec := ts.do(t, "GET", "/api/v1/charges/intent/pi_789", "operator-token", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ch_789", resp["chargeId"])
}

func TestLookupChargeIDBadPrefix(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, "GET", "/api/v1/charges/intent/ch_789", "operator-token", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ts.proc.AssertNotCalled(t, "GetIntentCharge", mock.Anything, mock.Anything)
}

func TestLookupChargeIDNotFound(t *testing.T) {
	ts := newTestServer(t)

	ts.proc.On("GetIntentCharge", mock.Anything, "pi_404").
		Return(nil, processor.ErrChargeNotFound)

	rec := ts.do(t, "GET", "/api/v1/charges/intent/pi_404", "operator-token", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, "GET", "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, "GET", "/readyz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
