package scoring

import "math"

// GrahamNumber is the classic intrinsic-value ceiling,
// sqrt(22.5 * EPS * book value per share). It is only defined for
// profitable companies with positive book value; otherwise returns
// (0, false).
func GrahamNumber(eps, bookValue float64) (float64, bool) {
	if eps <= 0 || bookValue <= 0 {
		return 0, false
	}
	return math.Sqrt(22.5 * eps * bookValue), true
}

// MarginOfSafety is (graham - price) / graham. It is a presentation
// figure for memos and reports, never a scoring input.
func MarginOfSafety(graham, price float64) float64 {
	if graham <= 0 {
		return 0
	}
	return (graham - price) / graham
}
