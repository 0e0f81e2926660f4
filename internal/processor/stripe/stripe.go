package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/omega-events/omega-backend/internal/processor"
)

// Client implements processor.Processor against the Stripe API.
type Client struct {
	api *client.API
}

// New creates a Stripe-backed processor client. The httpClient carries the
// circuit breaker transport; pass nil to use Stripe's default.
func New(apiKey string, httpClient *http.Client) *Client {
	api := &client.API{}
	if httpClient != nil {
		api.Init(apiKey, stripego.NewBackends(httpClient))
	} else {
		api.Init(apiKey, nil)
	}
	return &Client{api: api}
}

func (c *Client) GetCharge(ctx context.Context, chargeID string) (*processor.Charge, error) {
	params := &stripego.ChargeParams{Params: stripego.Params{Context: ctx}}

	ch, err := c.api.Charges.Get(chargeID, params)
	if err != nil {
		return nil, mapError("get charge", err)
	}

	return toCharge(ch), nil
}

func (c *Client) GetIntentCharge(ctx context.Context, intentID string) (*processor.Charge, error) {
	params := &stripego.PaymentIntentParams{Params: stripego.Params{Context: ctx}}
	params.AddExpand("latest_charge")

	intent, err := c.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, mapError("get payment intent", err)
	}
	if intent.LatestCharge == nil {
		return nil, processor.ErrChargeNotFound
	}

	ch := toCharge(intent.LatestCharge)
	if ch.PaymentIntentID == "" {
		ch.PaymentIntentID = intent.ID
	}
	return ch, nil
}

func (c *Client) CreateRefund(ctx context.Context, req processor.RefundRequest) (*processor.RefundResult, error) {
	params := &stripego.RefundParams{
		Params: stripego.Params{Context: ctx},
		Charge: stripego.String(req.ChargeID),
		Amount: stripego.Int64(req.Amount),
		Reason: stripego.String(string(stripego.RefundReasonRequestedByCustomer)),
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	ref, err := c.api.Refunds.New(params)
	if err != nil {
		return nil, mapError("create refund", err)
	}

	return &processor.RefundResult{ID: ref.ID, Status: string(ref.Status)}, nil
}

func toCharge(ch *stripego.Charge) *processor.Charge {
	out := &processor.Charge{
		ID:             ch.ID,
		Amount:         ch.Amount,
		AmountRefunded: ch.AmountRefunded,
	}
	if ch.PaymentIntent != nil {
		out.PaymentIntentID = ch.PaymentIntent.ID
	}
	return out
}

func mapError(op string, err error) error {
	var stripeErr *stripego.Error
	if errors.As(err, &stripeErr) && stripeErr.Code == stripego.ErrorCodeResourceMissing {
		return processor.ErrChargeNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
