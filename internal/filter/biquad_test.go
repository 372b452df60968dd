package filter

import "testing"

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// TestBypassCoefficients checks the cutoff=127, damping=0 short-circuit
// matches the elided-scratch-path contract.
func TestBypassCoefficients(t *testing.T) {
	c1, c2, c3 := Coefficients(127, 0, 44100)
	if c1 != unityGain || c2 != 0 || c3 != 0 {
		t.Errorf("bypass coefficients = (%d, %d, %d), want (%d, 0, 0)", c1, c2, c3, int64(unityGain))
	}
}

// TestUnityDCGain checks that for a representative cutoff/damping pair the
// three coefficients sum to approximately 2^24, i.e. unity DC gain.
func TestUnityDCGain(t *testing.T) {
	c1, c2, c3 := Coefficients(64, 32, 44100)
	sum := c1 + c2 + c3
	const want = unityGain
	tolerance := int64(want / 100) // 1%
	if diff := sum - want; diff > tolerance || diff < -tolerance {
		t.Errorf("c1+c2+c3 = %d, want ~%d (+-%d)", sum, want, tolerance)
	}
}

// TestImpulseDecay checks that the impulse response of a representative
// filter setting decays below 1% of its peak within 1000 samples.
func TestImpulseDecay(t *testing.T) {
	c1, c2, c3 := Coefficients(64, 32, 44100)

	var o1, o2 int64
	out, o1, o2 := Apply(1<<20, c1, c2, c3, o1, o2)
	peak := abs64(out)

	var final int64
	for i := 0; i < 1000; i++ {
		out, o1, o2 = Apply(0, c1, c2, c3, o1, o2)
		if a := abs64(out); a > peak {
			peak = a
		}
		final = out
	}

	if peak > 0 && abs64(final) > peak/100 {
		t.Errorf("impulse response still at %d after 1000 samples, peak was %d", final, peak)
	}
}
