package present

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adeyinka/paydesk/internal/domain"
)

func TestNetAmount(t *testing.T) {
	r := &domain.Result{Amount: 10000, Fee: 100, SystemFee: 50}
	assert.Equal(t, 9850.0, NetAmount(r))
}

func TestNetAmount_ZeroFees(t *testing.T) {
	r := &domain.Result{Amount: 500}
	assert.Equal(t, 500.0, NetAmount(r))
}

func TestFeePercent(t *testing.T) {
	r := &domain.Result{Amount: 10000, Fee: 250}
	pct, ok := FeePercent(r)
	assert.True(t, ok)
	assert.InDelta(t, 2.5, pct, 1e-9)
}

func TestFeePercent_ZeroAmount(t *testing.T) {
	r := &domain.Result{Amount: 0, Fee: 100}
	_, ok := FeePercent(r)
	assert.False(t, ok)
	assert.Equal(t, NotAvailable, FormatFeePercent(r))
}

func TestFormatFeePercent(t *testing.T) {
	r := &domain.Result{Amount: 10000, Fee: 100}
	assert.Equal(t, "1.00%", FormatFeePercent(r))
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{9850, "NGN", "9,850.00 NGN"},
		{1234567.89, "NGN", "1,234,567.89 NGN"},
		{0, "NGN", "0.00 NGN"},
		{-2500, "NGN", "-2,500.00 NGN"},
		{100, "", "100.00"},
		{999.5, "USD", "999.50 USD"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(tt.amount, tt.currency))
	}
}
