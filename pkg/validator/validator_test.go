package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refundForm struct {
	InvoiceID string  `json:"invoiceId" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Reason    string  `json:"reason" validate:"required"`
}

func TestValidateOK(t *testing.T) {
	err := Validate(refundForm{InvoiceID: "INV-1", Amount: 10.50, Reason: "duplicate"})
	assert.NoError(t, err)
}

func TestValidateMissingFields(t *testing.T) {
	err := Validate(refundForm{Amount: 10})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["InvoiceID"])
	assert.Equal(t, "is required", fields["Reason"])
	assert.NotContains(t, fields, "Amount")
}

func TestValidateNonPositiveAmount(t *testing.T) {
	err := Validate(refundForm{InvoiceID: "INV-1", Amount: -5, Reason: "duplicate"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be greater than 0", valErr.Fields()["Amount"])
}

func TestDecodeAndValidate(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"invoiceId":"INV-1","amount":12.5,"reason":"duplicate"}`))

	var form refundForm
	require.NoError(t, DecodeAndValidate(r, &form))
	assert.Equal(t, "INV-1", form.InvoiceID)
	assert.Equal(t, 12.5, form.Amount)
}

func TestDecodeAndValidateMalformedJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"invoiceId":`))

	var form refundForm
	err := DecodeAndValidate(r, &form)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
