package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refundsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refunds_issued_total",
		Help: "Total refunds confirmed by the payment processor.",
	})

	refundsPartialSuccess = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refund_partial_success_total",
		Help: "Refunds where the processor succeeded but the ledger write failed.",
	})

	refundsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refund_failures_total",
		Help: "Refund attempts rejected before the processor mutation.",
	}, []string{"reason"})

	refundAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refund_amount_minor_units_total",
		Help: "Cumulative refunded amount in minor units.",
	})
)
