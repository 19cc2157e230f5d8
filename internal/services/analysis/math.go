package analysis

import "math"

// avg calculates the average of all values
func avg(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev calculates the sample standard deviation
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := avg(values)
	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)-1))
}

// linearFit computes least-squares slope and intercept for values indexed
// 0..n-1.
func linearFit(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return 0, values[0]
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// normalTwoTailed returns the two-tailed tail probability of a standard
// normal z value.
func normalTwoTailed(z float64) float64 {
	return math.Erfc(math.Abs(z) / math.Sqrt2)
}
