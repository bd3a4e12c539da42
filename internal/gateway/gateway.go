// Package gateway abstracts the payment processor. The only implementation
// today is a fake that settles every charge after a short simulated delay.
package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/cinespark/cinespark-backend/pkg/config"
	"github.com/cinespark/cinespark-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatusSucceeded is the terminal status of a settled charge.
const StatusSucceeded = "succeeded"

// ChargeRequest carries everything the processor needs to settle a charge.
type ChargeRequest struct {
	Amount   decimal.Decimal
	Method   string
	Currency string
	Category string
	Metadata map[string]string
}

// ChargeResult is the processor's receipt for a settled charge.
type ChargeResult struct {
	ID       string
	Status   string
	Amount   decimal.Decimal
	Currency string
	Method   string
	Metadata map[string]string
}

// Succeeded reports whether the charge settled.
func (r ChargeResult) Succeeded() bool {
	return r.Status == StatusSucceeded
}

// Charger is the surface services use to settle payments.
type Charger interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// Fake simulates a payment processor: fixed latency, every charge succeeds.
type Fake struct {
	latency  time.Duration
	currency string
	metrics  *metrics.GatewayMetrics
}

// NewFake builds the fake processor from config. Metrics may be nil.
func NewFake(cfg config.GatewayConfig, m *metrics.GatewayMetrics) *Fake {
	latency := cfg.Latency
	if latency < 0 {
		latency = 0
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "COP"
	}
	return &Fake{latency: latency, currency: currency, metrics: m}
}

// Charge settles the request after the configured latency. It honors
// context cancellation during the simulated processor round trip.
func (f *Fake) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	start := time.Now()

	if f.latency > 0 {
		timer := time.NewTimer(f.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			f.metrics.IncFailure(req.Category)
			return ChargeResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = f.currency
	}

	result := ChargeResult{
		ID:       "fake_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		Status:   StatusSucceeded,
		Amount:   req.Amount,
		Currency: currency,
		Method:   req.Method,
		Metadata: req.Metadata,
	}

	f.metrics.ObserveDuration(req.Category, time.Since(start))
	f.metrics.IncSuccess(req.Category)
	return result, nil
}
