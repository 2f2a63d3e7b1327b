package aggregate

// defaultMaxBins matches the bin cap the movement distribution charts use.
const defaultMaxBins = 30

// Bin is a single histogram bucket over a half-open interval
// [Start, End); the last bin is closed on both ends.
type Bin struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// Histogram buckets values into at most maxBins equal-width bins across
// the observed range. A maxBins of zero or less falls back to the
// default of 30. When every value is identical a single bin holds them
// all.
func Histogram(values []float64, maxBins int) []Bin {
	if len(values) == 0 {
		return nil
	}
	if maxBins <= 0 {
		maxBins = defaultMaxBins
	}

	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	if minV == maxV {
		return []Bin{{Start: minV, End: maxV, Count: len(values)}}
	}

	bins := maxBins
	if len(values) < bins {
		bins = len(values)
	}

	width := (maxV - minV) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Start = minV + float64(i)*width
		out[i].End = minV + float64(i+1)*width
	}
	// Pin the last edge to the exact max so the final bin is closed.
	out[bins-1].End = maxV

	for _, v := range values {
		idx := int((v - minV) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}
