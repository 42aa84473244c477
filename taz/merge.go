package taz

// Merge combines per-partition histograms into the final one. Shorter
// partials are zero-extended to the longest observed length and summed
// elementwise. The sum is commutative and associative, so the result does
// not depend on how many partitions there were or in which order they
// finished.
func Merge(parts []Histogram) Histogram {
	width := 0
	for _, p := range parts {
		if len(p) > width {
			width = len(p)
		}
	}
	final := make(Histogram, width)
	for _, p := range parts {
		for i, n := range p {
			final[i] += n
		}
	}
	return final
}
