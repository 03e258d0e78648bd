package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var testRates = Config{BaseFee: 15.0, PerMileRate: 0.45, PerKgRate: 1.20}

func TestEstimateFormula(t *testing.T) {
	e := NewEstimator(testRates)

	// base + distance*perMile + weight*perKg
	require.InDelta(t, 15.0+2445.0*0.45+150.0*1.20, e.Estimate(2445, 150), 1e-9)
	require.InDelta(t, 15.0, e.Estimate(0, 0), 1e-9)
}

func TestEstimateDeterministic(t *testing.T) {
	e := NewEstimator(testRates)
	require.Equal(t, e.Estimate(1234.5, 67.8), e.Estimate(1234.5, 67.8))
}

func TestEstimateMonotonic(t *testing.T) {
	e := NewEstimator(testRates)

	prev := e.Estimate(0, 100)
	for miles := 100.0; miles <= 3000; miles += 100 {
		cost := e.Estimate(miles, 100)
		require.Greater(t, cost, prev)
		prev = cost
	}

	prev = e.Estimate(1000, 0)
	for kg := 10.0; kg <= 1000; kg += 10 {
		cost := e.Estimate(1000, kg)
		require.Greater(t, cost, prev)
		prev = cost
	}
}
