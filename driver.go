package mixer

import "math/bits"

// availableFrames returns the direction-aware distance from the current
// cursor to its end boundary.
func availableFrames(cb *ChannelBlock) uint32 {
	if cb.Flags&FlagBackwards == 0 {
		return cb.EndOffset - cb.Offset
	}
	return cb.Offset - cb.EndOffset
}

// step64 packs a channel's 32.32 advance into one combined fixed-point step.
func step64(cb *ChannelBlock) uint64 {
	return uint64(cb.Advance)<<32 | uint64(cb.AdvanceFrac)
}

// neededFrames computes how many source samples remainLen output frames
// would consume from the current position:
// ceil(step*remainLen/2^32 + fraction/2^32), via 128-bit intermediates
// since step*remainLen routinely exceeds 64 bits.
func neededFrames(step uint64, remainLen uint32, fraction uint32) uint32 {
	hi, lo := bits.Mul64(step, uint64(remainLen))
	q, r := bits.Div64(hi, lo, 1<<32)
	sum := r + uint64(fraction)
	q += sum >> 32
	if sum&0xFFFFFFFF != 0 {
		q++
	}
	if q > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(q)
}

// solveK finds the largest run length k (in output frames) that still fits
// within `available` source samples.
func solveK(step uint64, available uint32, fraction uint32) uint32 {
	if step == 0 {
		return available
	}
	num := uint64(available)<<32 - uint64(fraction) - 1
	k := num/step + 1
	if k > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(k)
}

// mixSide runs the selected interpolation step over frames output frames for
// one side, writing into dst. For single-sided topologies this is the whole
// inner loop; for TopoBoth the driver calls it once per side with the cursor
// rewound in between.
func (s *State) mixSide(ci *ChannelInfo, cb *ChannelBlock, plan mixPlan, frames uint32, dst []int32, outBase int, side Side) {
	stride := int(s.cfg.ChannelsOut)
	nearest := s.cfg.Interpolation == NearestSample

	for i := uint32(0); i < frames; i++ {
		var smp int32
		switch {
		case nearest:
			smp = stepNearest(ci, cb, side, plan.Conversion, plan.Width)
		case cb.Advance == 0:
			smp = stepCubic(ci, cb, side, plan.Conversion, plan.Width)
		default:
			smp = stepAveraging(ci, cb, side, plan.Conversion, plan.Width)
		}
		writeSample(dst, stride, outBase+int(i), plan.Topology, side, smp)
	}
}

// runSpan mixes exactly frames output frames of one channel into out,
// starting at output-frame index outBase. The span never crosses a loop or
// end boundary; the driver has already solved for that. When the channel's
// filter is active the span is rendered into the zeroed scratch buffer
// first, run through the biquad, and only then summed into out.
func (s *State) runSpan(ci *ChannelInfo, cb *ChannelBlock, frames uint32, out []int32, outBase int) {
	plan := cb.MixFunc
	if cb.Flags&FlagBackwards != 0 {
		plan = cb.MixBackwardsFunc
	}

	if plan.Topology == TopoSkip || frames == 0 {
		advanceSkip(cb, frames)
		return
	}

	stride := int(s.cfg.ChannelsOut)
	lo, hi := outBase*stride, (outBase+int(frames))*stride

	dst := out
	filtered := cb.FilterCutoff != 127 || cb.FilterDamping != 0
	if filtered {
		dst = s.filterScratch
		for i := lo; i < hi; i++ {
			dst[i] = 0
		}
	}

	if plan.Topology == TopoBoth {
		saveOffset, saveFraction := cb.Offset, cb.Fraction
		s.mixSide(ci, cb, plan, frames, dst, outBase, SideLeft)
		cb.Offset, cb.Fraction = saveOffset, saveFraction
		s.mixSide(ci, cb, plan, frames, dst, outBase, SideRight)
	} else {
		s.mixSide(ci, cb, plan, frames, dst, outBase, SideLeft)
	}

	if filtered {
		for i := lo; i < hi; i++ {
			y, o1, o2 := biquadApply(int64(dst[i]), cb.FilterC1, cb.FilterC2, cb.FilterC3, ci.FilterTmp1, ci.FilterTmp2)
			ci.FilterTmp1, ci.FilterTmp2 = o1, o2
			out[i] += int32(y)
		}
	}

	cb.OneShotPlayed += frames
}

// runChannel drives one channel's playback state machine for
// remainLen output frames, spanning as many loop/end boundaries and
// pending-block hand-offs as the burst requires.
func (s *State) runChannel(ci *ChannelInfo, remainLen uint32, out []int32, outBase int) {
	for remainLen > 0 {
		cb := &ci.Current
		if !cb.playing() {
			return
		}

		available := availableFrames(cb)
		if available == 0 {
			if !s.handleBoundary(ci) {
				return
			}
			continue
		}

		step := step64(cb)
		needed := neededFrames(step, remainLen, cb.Fraction)

		var k uint32
		boundaryHit := needed >= available
		if !boundaryHit {
			k = remainLen
		} else {
			k = solveK(step, available, cb.Fraction)
			if k > remainLen {
				k = remainLen
				boundaryHit = false
			}
		}

		s.runSpan(ci, cb, k, out, outBase)
		outBase += int(k)
		remainLen -= k

		if !boundaryHit {
			return
		}
		if !s.handleBoundary(ci) {
			return
		}
	}
}

// handleBoundary resolves a cursor that reached its end boundary: loop
// wrap, ping-pong reversal, count-restart expiry, and pending-block hand-off. It returns
// false when the channel has nothing left to do this burst (exhausted or
// waiting on an external setter).
func (s *State) handleBoundary(ci *ChannelInfo) bool {
	cb := &ci.Current

	if cb.Flags&FlagLoop == 0 {
		if ci.Next.Data != nil {
			ci.adoptNext()
			s.seedHistory(ci)
			return true
		}
		cb.Flags &^= FlagPlay
		return false
	}

	cb.Counted++
	if cb.CountRestart != 0 && cb.Counted >= cb.CountRestart {
		cb.Flags &^= FlagLoop
		if cb.Flags&FlagBackwards == 0 {
			cb.EndOffset = cb.Data.Len
		} else {
			// The backward natural end is the boundary below the first
			// sample: a cursor of 0 has read position -1, so 0 is the
			// exhausted bound.
			cb.EndOffset = 0
		}
		return true
	}

	if cb.Flags&FlagPingPong != 0 {
		cb.Flags ^= FlagBackwards
		cb.MixFunc, cb.MixBackwardsFunc = cb.MixBackwardsFunc, cb.MixFunc
		cb.Offset = 2*cb.EndOffset - cb.Offset
		if cb.Flags&FlagBackwards != 0 {
			cb.EndOffset -= cb.RestartOffset
		} else {
			cb.EndOffset += cb.RestartOffset
		}
		s.seedHistory(ci)
		return true
	}

	if cb.Flags&FlagBackwards == 0 {
		cb.Offset -= cb.RestartOffset
		if ci.Next.Data != nil {
			ci.adoptNext()
		}
	} else {
		cb.Offset += cb.RestartOffset
		// The backward path does not adopt a pending block here: it stays
		// in Next while the loop flag is set and is adopted only after the
		// loop has ended and the block has run out.
	}
	s.seedHistory(ci)
	return true
}

// seedHistory primes the cubic-interpolation history triples from the
// block's current cursor position so the advance==0 path blends real
// samples from its first frame instead of stale state from a previous
// block.
func (s *State) seedHistory(ci *ChannelInfo) {
	cb := &ci.Current
	if cb.Data == nil || cb.Data.Len == 0 {
		return
	}
	plan := cb.MixFunc
	if cb.Flags&FlagBackwards != 0 {
		plan = cb.MixBackwardsFunc
	}
	if plan.Topology == TopoSkip {
		return
	}

	pos := int64(readPos(cb, cb.Offset))
	if pos < 0 || pos >= int64(cb.Data.Len) {
		return
	}
	nextPos := pos + 1
	if cb.Flags&FlagBackwards != 0 {
		nextPos = pos - 1
	}

	seed := func(side Side) (curr, next int32) {
		curr = getCurr(cb, uint32(pos), side, plan.Conversion, plan.Width)
		if nextPos >= 0 && nextPos < int64(cb.Data.Len) {
			next = getCurr(cb, uint32(nextPos), side, plan.Conversion, plan.Width)
		}
		return curr, next
	}

	ci.CurrSample, ci.NextSample = seed(SideLeft)
	ci.PrevSample = ci.CurrSample
	ci.CurrSampleR, ci.NextSampleR = seed(SideRight)
	ci.PrevSampleR = ci.CurrSampleR
}
