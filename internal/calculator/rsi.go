package calculator

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// CalculateRSI computes the RSI over the last period price changes using plain
// (non-smoothed) averages of gains and losses.
// Returns NaN when fewer than period+1 prices are available.
func CalculateRSI(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period+1 {
		return math.NaN(), nil
	}

	gains := make([]float64, 0, period)
	losses := make([]float64, 0, period)
	for i := len(prices) - period; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		switch {
		case change > 0:
			gains = append(gains, change)
			losses = append(losses, 0)
		case change < 0:
			gains = append(gains, 0)
			losses = append(losses, -change)
		default:
			gains = append(gains, 0)
			losses = append(losses, 0)
		}
	}

	avgGain := stat.Mean(gains, nil)
	avgLoss := stat.Mean(losses, nil)
	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}
