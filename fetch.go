package mixer

// fetchRaw extracts one sample's raw value from packed PCM memory at the
// given integer read position. 8/16-bit samples are big-endian within each
// 32-bit word; arbitrary widths go through decodeBits and come back
// left-justified. No volume scaling is applied.
func fetchRaw(s *Samples, offset uint32) int32 {
	switch s.Bits {
	case 8:
		return int32(int8(uint8(s.Words[offset>>2] >> (24 - (offset&3)*8))))
	case 16:
		word := s.Words[offset>>1]
		if offset&1 == 0 {
			return int32(int16(word >> 16))
		}
		return int32(int16(word))
	case 32:
		return int32(s.Words[offset])
	default:
		return decodeBits(s, offset)
	}
}

// decodeBits extracts one arbitrary-bit-width sample: bitsPerSample may
// straddle two 32-bit words, big-endian within each word, and the result
// is left-justified in 32 bits.
func decodeBits(s *Samples, offset uint32) int32 {
	bits := uint32(s.Bits)
	bit := offset * bits
	wordIdx := bit >> 5
	bitInWord := bit & 31

	var raw uint32
	if bitInWord+bits < 32 {
		raw = (s.Words[wordIdx] << bitInWord) & ^uint32((1<<(32-bits))-1)
	} else {
		raw = s.Words[wordIdx] << bitInWord
		if int(wordIdx)+1 < len(s.Words) {
			hi := uint64(64 - (bitInWord + bits))
			mask := ^uint64(0)
			if hi < 64 {
				mask = ^((uint64(1) << hi) - 1)
			}
			raw |= uint32((uint64(s.Words[wordIdx+1]) & mask) >> (32 - bitInWord))
		}
	}
	return int32(raw)
}

// readPos converts a cursor offset into the read position it denotes: the
// forward cursor reads at offset, the backward cursor one below it. This is
// what makes a ping-pong reflection (offset = 2*end - offset) repeat the
// boundary sample instead of stepping past it.
func readPos(cb *ChannelBlock, offset uint32) uint32 {
	if cb.Flags&FlagBackwards != 0 {
		return offset - 1
	}
	return offset
}

// sideLUT picks the per-side volume LUT slice for the to-8 fetch path.
func sideLUT(cb *ChannelBlock, side Side) []int32 {
	if side == SideLeft {
		return cb.VolumeLeftLUT
	}
	return cb.VolumeRightLUT
}

// sideMul picks the per-side multiplier for the native fetch path.
func sideMul(cb *ChannelBlock, side Side) int32 {
	if side == SideLeft {
		return cb.MultLeftVolume
	}
	return cb.MultRightVolume
}

// getCurr reads the sample at read position pos, assumed in range, and
// applies the channel's per-side volume scaling.
func getCurr(cb *ChannelBlock, pos uint32, side Side, conv Conversion, width SampleWidth) int32 {
	if conv == ConvTo8 {
		raw := fetchRaw(cb.Data, pos)
		var byteVal uint8
		switch {
		case cb.Data.Bits == 8:
			byteVal = uint8(raw)
		case cb.Data.Bits == 16:
			byteVal = uint8(raw >> 8)
		default:
			// 32-bit and arbitrary widths come back left-justified (or full
			// width); the top byte is the 8-bit rendition.
			byteVal = uint8(raw >> 24)
		}
		lut := sideLUT(cb, side)
		if lut == nil {
			return 0
		}
		return lut[byteVal]
	}

	raw := fetchRaw(cb.Data, pos)
	if width == WidthX {
		raw >>= 32 - int32(cb.Data.Bits)
	}
	if cb.DivVolume == 0 {
		return 0
	}
	return int32(int64(raw) * int64(sideMul(cb, side)) / int64(cb.DivVolume))
}

// getSample1 reads at cursor offset with automatic boundary handling: a
// cursor at or past end_offset wraps into the loop span or resolves
// against the pending block, using the same rules the driver applies at a
// run boundary. An exhausted channel with no pending block yields 0.
func getSample1(ci *ChannelInfo, offset uint32, side Side, conv Conversion, width SampleWidth) int32 {
	cb := &ci.Current
	if cb.Data == nil || cb.Data.Len == 0 {
		return 0
	}

	forward := cb.Flags&FlagBackwards == 0
	inRange := (forward && offset < cb.EndOffset) || (!forward && offset > cb.EndOffset)
	if inRange {
		pos := readPos(cb, offset)
		if pos >= cb.Data.Len {
			return 0
		}
		return getCurr(cb, pos, side, conv, width)
	}

	if cb.Flags&FlagLoop != 0 {
		pos := wrapPeek(cb, readPos(cb, offset))
		if pos >= cb.Data.Len {
			return 0
		}
		return getCurr(cb, pos, side, conv, width)
	}

	if ci.Next.Data != nil {
		next := &ci.Next
		// Forward to the pending block's own fetch family when its sample
		// width differs.
		nextConv, nextWidth := conv, width
		if next.Data.Bits != cb.Data.Bits {
			nextConv = next.MixFunc.Conversion
			nextWidth = next.MixFunc.Width
		}
		over := offset - cb.EndOffset
		if !forward {
			over = cb.EndOffset - offset
		}
		pos := next.Offset + over
		if pos >= next.Data.Len {
			return 0
		}
		return getCurr(next, pos, side, nextConv, nextWidth)
	}

	return 0
}

// wrapPeek maps an out-of-range read position back into the loop span,
// without mutating channel state: it is used only to peek ahead during
// interpolation. Ping-pong loops reflect about the boundary; plain loops
// rotate by the restart distance the driver itself would apply.
func wrapPeek(cb *ChannelBlock, pos uint32) uint32 {
	if cb.Flags&FlagPingPong != 0 {
		return 2*cb.EndOffset - pos - 1
	}

	restart := cb.RestartOffset
	if restart == 0 {
		restart = cb.RepeatLen
	}
	if restart == 0 {
		return cb.Repeat
	}
	if cb.Flags&FlagBackwards == 0 {
		return pos - restart
	}
	return pos + restart
}

// getNext sets the channel's one-step-ahead interpolation history sample
// (NextSample or NextSampleR) using the same boundary rules as getSample1.
func getNext(ci *ChannelInfo, offset uint32, side Side, conv Conversion, width SampleWidth) {
	v := getSample1(ci, offset, side, conv, width)
	if side == SideLeft {
		ci.NextSample = v
	} else {
		ci.NextSampleR = v
	}
}
