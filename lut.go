package mixer

// buildVolumeLUT rebuilds the 256x256 global volume lookup table, flat
// indexed as lut[v*256+s] for volume v and signed-byte sample s (stored as
// its unsigned byte encoding). amplify is 16.16 fixed point, channelsIn the
// logical voice count used for headroom normalisation.
func buildVolumeLUT(amplify uint32, channelsIn uint16) []int32 {
	lut := make([]int32, 256*256)
	// amplify is 16.16: the unity point 0x10000 folds into the denominator
	// so a full-volume (v=255) signed-byte sample lands at
	// (sample<<8)*255/256 for one input channel, per the DC reference level.
	denom := int64(channelsIn) << 24
	if denom == 0 {
		denom = 1 << 24
	}
	for v := 0; v < 256; v++ {
		for s := 0; s < 256; s++ {
			sample := int64(int8(uint8(s)))
			lut[v*256+s] = int32((sample << 8) * int64(v) * int64(amplify) / denom)
		}
	}
	return lut
}
