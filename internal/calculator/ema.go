package calculator

// smoothing returns the EMA weight for a span: 2/(span+1).
func smoothing(span int) float64 {
	return 2.0 / float64(span+1)
}

// EMA computes the exponential moving average of values, anchored at the first
// sample: out[0] = values[0], out[i] = a*values[i] + (1-a)*out[i-1].
// Every output is defined; there is no simple-average seed.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := smoothing(span)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// AdjustedEMA computes the bias-adjusted EMA, the weighted mean
// sum((1-a)^k * x[t-k]) / sum((1-a)^k) over all samples seen so far.
func AdjustedEMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	decay := 1 - smoothing(span)
	var num, den float64
	for i, v := range values {
		num = v + decay*num
		den = 1 + decay*den
		out[i] = num / den
	}
	return out
}
