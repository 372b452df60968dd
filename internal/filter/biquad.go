// Package filter implements the per-channel resonant low-pass used to
// shape a channel's raw mix before it is summed into the output
// accumulator.
package filter

import (
	"math"
	"math/bits"
)

const (
	natFreqBase = 24
	unityGain   = 1 << natFreqBase
)

var (
	natFreq    [128]int64
	dampFactor [128]int64
)

func init() {
	for i := range natFreq {
		hz := 2 * math.Pi * 110 * math.Pow(2, 0.25) * math.Pow(2, float64(i)/24)
		natFreq[i] = int64(hz * unityGain)

		d := 2 * math.Pow(10, -(24.0/128.0*float64(i))/20)
		dampFactor[i] = int64(d * unityGain)
	}
}

// Coefficients computes the biquad's three fixed-point coefficients for a
// given 7-bit cutoff/damping pair at the current output sample rate. The
// natural-frequency and damping tables are combined through a
// damping-adjusted time constant d and a resonance term e, both needing
// more than 64 bits of intermediate precision, before the c1/c2/c3
// fixed-point ratios are formed.
//
// Bypass (cutoff == 127, damping == 0) returns (2^24, 0, 0) without
// consulting the tables, matching the core's elided scratch path.
func Coefficients(cutoff, damping uint8, mixRate uint32) (c1, c2, c3 int64) {
	if cutoff == 127 && damping == 0 {
		return unityGain, 0, 0
	}

	nf := natFreq[cutoff&0x7F]
	df := dampFactor[damping&0x7F]

	d := mulDiv128(nf, unityGain-df, int64(mixRate)*unityGain)
	const clamp = 1 << 25
	if d > clamp {
		d = clamp
	}
	d = mulDiv128(df-d, int64(mixRate)*unityGain, nf)

	// e = (mixRate*2^29)^2 / nf^2 * 2^14, split into two 128-bit
	// multiply-divides so neither the square nor nf^2 is ever formed as a
	// bare 64-bit value.
	mr29 := int64(mixRate) << 29
	e := mulDiv128(mulDiv128(mr29, mr29, nf), 1<<14, nf)

	denom := unityGain + d + e
	c1 = mulDiv128(1<<48, 1, denom)
	c2 = mulDiv128((d+2*e)<<24, 1, denom)
	c3 = mulDiv128(-e<<24, 1, denom)
	return c1, c2, c3
}

// Apply runs one sample through the biquad given its coefficients and the
// two previous output taps, returning the filtered sample and the updated
// taps. It is a pure function: all filter memory lives in the caller
// (ChannelInfo.FilterTmp1/FilterTmp2 in the mixing package), not hidden
// inside a stateful type, matching the channel block's data-model contract.
func Apply(x, c1, c2, c3, o1, o2 int64) (out, newO1, newO2 int64) {
	out = (c1*x + c2*o1 + c3*o2) >> 24
	return out, out, o1
}

// mulDiv128 computes a*b/c for 64-bit a, b, c using 128-bit intermediate
// precision via math/bits; the values here routinely exceed 64 bits once
// multiplied.
func mulDiv128(a, b, c int64) int64 {
	neg := false
	ua, ub, uc := uint64(a), uint64(b), uint64(c)
	if a < 0 {
		neg = !neg
		ua = uint64(-a)
	}
	if b < 0 {
		neg = !neg
		ub = uint64(-b)
	}
	if c < 0 {
		neg = !neg
		uc = uint64(-c)
	}

	hi, lo := bits.Mul64(ua, ub)
	q, _ := bits.Div64(hi, lo, uc)
	if neg {
		return -int64(q)
	}
	return int64(q)
}
