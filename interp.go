package mixer

// cubicBlend is the four-tap cubic interpolation blend, including its
// sign-mixing overflow guard.
func cubicBlend(prev, curr, next int32, fraction uint32) int32 {
	d := int64(curr) - int64(prev)
	e := (int64(next) - int64(curr) - d) >> 2

	f := int64(fraction >> 1)
	t := (f * e) >> 32
	t = ((t << 2) + d) >> 2
	t = (f * t) >> 32
	t <<= 3

	// The final add is 32-bit with wrap; the sign-mixing test detects
	// two's-complement overflow of base+t and falls back to curr for the
	// frame.
	base := int32((int64(prev) + int64(curr)) >> 1)
	t32 := int32(t)
	smp := base + t32

	if ((base^smp)&(t32^smp)) < 0 {
		return curr
	}
	return smp
}

// stepCubic advances one output frame along the advance==0 path: it blends
// the current history triple, then advances fraction and, on wrap, advances
// offset and rotates prev/curr/next (re-fetching the new next sample).
func stepCubic(ci *ChannelInfo, cb *ChannelBlock, side Side, conv Conversion, width SampleWidth) int32 {
	var prev, curr, next *int32
	if side == SideLeft {
		prev, curr, next = &ci.PrevSample, &ci.CurrSample, &ci.NextSample
	} else {
		prev, curr, next = &ci.PrevSampleR, &ci.CurrSampleR, &ci.NextSampleR
	}

	smp := cubicBlend(*prev, *curr, *next, cb.Fraction)

	newFrac := cb.Fraction + cb.AdvanceFrac
	wrapped := newFrac < cb.Fraction
	cb.Fraction = newFrac
	if wrapped {
		if cb.Flags&FlagBackwards == 0 {
			cb.Offset++
		} else {
			cb.Offset--
		}
		*prev = *curr
		*curr = *next
		nextOffset := cb.Offset + 1
		if cb.Flags&FlagBackwards != 0 {
			nextOffset = cb.Offset - 1
		}
		getNext(ci, nextOffset, side, conv, width)
	}
	return smp
}

// stepAveraging is the advance!=0 decimation path: one output frame
// consumes `advance` whole source samples (plus one more when the
// fraction carries), averaging them all with the partial leading/trailing
// samples weighted by the fractional residues.
func stepAveraging(ci *ChannelInfo, cb *ChannelBlock, side Side, conv Conversion, width SampleWidth) int32 {
	sign := int32(1)
	if cb.Flags&FlagBackwards != 0 {
		sign = -1
	}

	smp := getCurr(cb, readPos(cb, cb.Offset), side, conv, width)
	acc := (int64(^cb.Fraction>>1) * int64(smp)) >> 31
	weightSum := int64(^cb.Fraction)

	cb.Offset = uint32(int64(cb.Offset) + int64(sign))
	for i := uint32(1); i < cb.Advance; i++ {
		weightSum += 1 << 32
		acc += int64(getSample1(ci, cb.Offset, side, conv, width))
		cb.Offset = uint32(int64(cb.Offset) + int64(sign))
	}

	newFrac := cb.Fraction + cb.AdvanceFrac
	carry := newFrac < cb.Fraction
	cb.Fraction = newFrac
	if carry {
		weightSum += 1 << 32
		acc += int64(getSample1(ci, cb.Offset, side, conv, width))
		cb.Offset = uint32(int64(cb.Offset) + int64(sign))
	}

	smp = getSample1(ci, cb.Offset, side, conv, width)
	weightSum += int64(cb.Fraction)
	acc += (int64(cb.Fraction>>1) * int64(smp)) >> 31

	if weightSum>>8 == 0 {
		return 0
	}
	return int32((acc << 24) / (weightSum >> 8))
}

// stepNearest reads the nearest source sample without interpolating, then
// advances the cursor by one full 32.32 step. Selected by the config's
// NearestSample interpolation mode.
func stepNearest(ci *ChannelInfo, cb *ChannelBlock, side Side, conv Conversion, width SampleWidth) int32 {
	smp := getCurr(cb, readPos(cb, cb.Offset), side, conv, width)

	newFrac := cb.Fraction + cb.AdvanceFrac
	delta := int64(cb.Advance)
	if newFrac < cb.Fraction {
		delta++
	}
	cb.Fraction = newFrac
	if cb.Flags&FlagBackwards != 0 {
		delta = -delta
	}
	cb.Offset = uint32(int64(cb.Offset) + delta)
	return smp
}

// advanceSkip moves the cursor for a muted span without reading or
// writing any samples.
func advanceSkip(cb *ChannelBlock, frames uint32) {
	totalFrac := uint64(cb.Fraction) + uint64(cb.AdvanceFrac)*uint64(frames)
	totalInt := uint64(cb.Advance)*uint64(frames) + totalFrac>>32

	delta := int64(totalInt)
	if cb.Flags&FlagBackwards != 0 {
		delta = -delta
	}
	cb.Offset = uint32(int64(cb.Offset) + delta)
	cb.Fraction = uint32(totalFrac)
}

// writeSample applies one interpolated sample into the interleaved
// accumulator at frame index i. For TopoBoth the caller runs a separate
// pass per side; side tells
// this function which interleaved slot that pass owns.
func writeSample(dst []int32, stride, i int, topo Topology, side Side, smp int32) {
	switch topo {
	case TopoMono:
		dst[i] += smp
	case TopoLeft:
		dst[i*stride] += smp
	case TopoRight:
		dst[i*stride+1] += smp
	case TopoCentre:
		dst[i*stride] += smp
		dst[i*stride+1] += smp
	case TopoSurround:
		dst[i*stride] += smp
		dst[i*stride+1] += ^smp
	case TopoBoth:
		if side == SideLeft {
			dst[i*stride] += smp
		} else {
			dst[i*stride+1] += smp
		}
	}
}
