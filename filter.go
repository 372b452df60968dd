package mixer

import "github.com/chriskillpack/hqmixer/internal/filter"

// recomputeFilter refreshes a block's biquad coefficients from its
// cutoff/damping settings and the current mix rate.
func recomputeFilter(cb *ChannelBlock, mixRate uint32) {
	cb.FilterC1, cb.FilterC2, cb.FilterC3 = filter.Coefficients(cb.FilterCutoff, cb.FilterDamping, mixRate)
}

// biquadApply is a thin alias so driver.go doesn't import internal/filter
// directly in more than one place.
func biquadApply(x, c1, c2, c3, o1, o2 int64) (out, newO1, newO2 int64) {
	return filter.Apply(x, c1, c2, c3, o1, o2)
}
