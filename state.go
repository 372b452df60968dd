package mixer

// TickHandler is the external collaborator invoked synchronously at
// tempo-derived intervals inside Mix/MixParallel. The tracker/sequencer
// driving playback implements this to advance its own pattern position
// and push new channel state via SetChannel et al.
type TickHandler interface {
	Tick(s *State)
}

// State is one mixer instance. It owns the channel array, the output
// accumulator, the filter scratch buffer and the global volume LUT.
type State struct {
	cfg Config

	channels []ChannelInfo

	lut []int32

	masterLeft, masterRight uint32

	filterScratch []int32

	frozen bool
	live   bool

	tick TickHandler

	// mixRateFrac is a fractional rate component no setter currently
	// writes, so its contribution to pass_len is always zero.
	mixRateFrac uint32

	currentLeft     uint32
	currentLeftFrac uint32
	passLen         uint32
	passLenFrac     uint32
}

// NewState allocates a mixer instance. It returns ErrOutOfMemory if the
// requested buffer/channel sizes cannot be satisfied (only possible here
// via an explicit zero check, since Go allocation itself doesn't fail
// gracefully).
func NewState(cfg Config, tick TickHandler) (*State, error) {
	if err := cfg.applyArgs(); err != nil {
		return nil, err
	}
	if cfg.BufSize == 0 || cfg.ChannelsIn == 0 {
		return nil, ErrOutOfMemory
	}

	s := &State{
		cfg:           cfg,
		channels:      make([]ChannelInfo, cfg.ChannelsIn),
		masterLeft:    cfg.VolumeLeft,
		masterRight:   cfg.VolumeRight,
		filterScratch: make([]int32, int(cfg.BufSize)*int(cfg.ChannelsOut)),
		tick:          tick,
		live:          true,
	}
	s.lut = buildVolumeLUT(cfg.Amplify, cfg.ChannelsIn)
	s.setTempoLocked(cfg.Tempo)
	return s, nil
}

// Uninit tears down a mixer instance.
func (s *State) Uninit() error {
	if !s.live {
		return ErrInvalidHandle
	}
	s.live = false
	s.channels = nil
	s.lut = nil
	s.filterScratch = nil
	return nil
}

// SetRate changes the output rate and/or channel count, reallocating the
// filter scratch buffer if needed and recomputing every channel's advance
// and, for blocks with PLAY or MUTED set, their filter coefficients.
func (s *State) SetRate(rate uint32, channelsOut uint8) uint32 {
	if rate < s.cfg.RateMin {
		rate = s.cfg.RateMin
	}
	if s.cfg.RateMax != 0 && rate > s.cfg.RateMax {
		rate = s.cfg.RateMax
	}

	if int(s.cfg.BufSize)*int(channelsOut) != int(s.cfg.BufSize)*int(s.cfg.ChannelsOut) {
		s.filterScratch = make([]int32, int(s.cfg.BufSize)*int(channelsOut))
	}

	s.cfg.Rate = rate
	s.cfg.ChannelsOut = channelsOut

	for i := range s.channels {
		s.recomputeChannelRate(&s.channels[i])
	}
	s.setTempoLocked(s.cfg.Tempo)
	return rate
}

func (s *State) recomputeChannelRate(ci *ChannelInfo) {
	for _, cb := range []*ChannelBlock{&ci.Current, &ci.Next} {
		if cb.Rate == 0 || s.cfg.Rate == 0 {
			continue
		}
		step := (uint64(cb.Rate) << 32) / uint64(s.cfg.Rate)
		cb.Advance = uint32(step >> 32)
		cb.AdvanceFrac = uint32(step)
		if cb.Flags&(FlagMuted|FlagPlay) != 0 {
			recomputeFilter(cb, s.cfg.Rate)
		}
	}
}

// SetTempo recomputes pass_len/pass_len_frac from a new tempo value.
func (s *State) SetTempo(tempo uint32) uint32 {
	s.setTempoLocked(tempo)
	return tempo
}

func (s *State) setTempoLocked(tempo uint32) {
	if tempo == 0 {
		tempo = 1
	}
	s.cfg.Tempo = tempo

	passValue := uint64(s.cfg.Rate)*10<<16 + uint64(s.mixRateFrac>>16)
	s.passLen = uint32(passValue / uint64(tempo))
	s.passLenFrac = uint32(((passValue % uint64(tempo)) << 32) / uint64(tempo))
	if s.passLen == 0 {
		s.passLen = 1
	}
	s.currentLeft = s.passLen
	s.currentLeftFrac = s.passLenFrac
}

// SetVolume updates master volume/amplify and, only if amplify or channel
// count actually changed, rebuilds the global volume LUT.
func (s *State) SetVolume(amplify, left, right uint32, channelsIn uint16) uint16 {
	rebuild := amplify != s.cfg.Amplify || channelsIn != s.cfg.ChannelsIn

	if channelsIn != s.cfg.ChannelsIn {
		resized := make([]ChannelInfo, channelsIn)
		copy(resized, s.channels)
		s.channels = resized
	}

	s.cfg.Amplify = amplify
	s.masterLeft = left
	s.masterRight = right
	s.cfg.VolumeLeft = left
	s.cfg.VolumeRight = right
	s.cfg.ChannelsIn = channelsIn

	if rebuild {
		s.lut = buildVolumeLUT(amplify, channelsIn)
	}
	for i := range s.channels {
		setMixFunctions(&s.channels[i].Current, &s.cfg, s.masterLeft, s.masterRight, s.lut)
		setMixFunctions(&s.channels[i].Next, &s.cfg, s.masterLeft, s.masterRight, s.lut)
	}
	return channelsIn
}

// Freeze sets or clears the FROZEN behaviour: while frozen, Mix/MixParallel
// return without touching the output buffer.
func (s *State) Freeze(frozen bool) {
	s.frozen = frozen
}

// Mix fills out (buf_size*channels_out int32 frames, zeroed then summed)
// by walking every channel.
func (s *State) Mix(out []int32) {
	s.MixParallel(out, 0, len(s.channels)-1)
}

// MixParallel is Mix restricted to the inclusive channel index range
// [first, last].
func (s *State) MixParallel(out []int32, first, last int) {
	if s.frozen {
		return
	}

	stride := int(s.cfg.ChannelsOut)
	for i := 0; i < int(s.cfg.BufSize)*stride && i < len(out); i++ {
		out[i] = 0
	}

	remaining := uint32(s.cfg.BufSize)
	outPos := 0

	for remaining > 0 {
		take := remaining
		if s.currentLeft < take {
			take = s.currentLeft
		}

		for ch := first; ch <= last && ch < len(s.channels); ch++ {
			s.runChannel(&s.channels[ch], take, out, outPos)
		}

		outPos += int(take)
		remaining -= take
		s.currentLeft -= take

		if s.currentLeft == 0 {
			if s.tick != nil {
				s.tick.Tick(s)
			}
			s.currentLeft = s.passLen
			newFrac := s.currentLeftFrac + s.passLenFrac
			if newFrac < s.currentLeftFrac {
				s.currentLeft++
			}
			s.currentLeftFrac = newFrac
		}
	}
}
