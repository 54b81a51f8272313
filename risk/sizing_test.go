package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeUSD(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		balance     float64
		positionPct float64
		takerFee    float64
		want        float64
	}{
		{"quarter of 600 at 0.8% fee", 600, 0.25, 0.008, 148.81},
		{"no fee", 1000, 0.20, 0, 200},
		{"full balance", 100, 1.0, 0.02, 98.0392},
		{"zero balance", 0, 0.25, 0.008, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SizeUSD(tt.balance, tt.positionPct, tt.takerFee)
			assert.InDelta(t, tt.want, got, 0.01)
		})
	}
}

func TestRoundTripFeePct(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.025, RoundTripFeePct(0.005, 0.02), 1e-12)
	assert.InDelta(t, 0.0, RoundTripFeePct(0, 0), 1e-12)
}

func TestBreakEvenPrice(t *testing.T) {
	t.Parallel()

	// sell*(1-fee) = entry*(1+fee)
	got := BreakEvenPrice(100, 0.02)
	assert.InDelta(t, 100*1.02/0.98, got, 1e-9)
	assert.Greater(t, got, 100.0)

	assert.InDelta(t, 50.0, BreakEvenPrice(50, 0), 1e-12)
}
