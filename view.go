package mixer

// ChannelView surfaces the user-facing fields of a ChannelBlock to external
// callers (the tracker/sequencer collaborator) without exposing the derived
// dispatch/LUT/filter-coefficient fields the mixer computes for itself.
type ChannelView struct {
	Data *Samples

	Offset   uint32
	Fraction uint32

	Rate uint32

	EndOffset     uint32
	RestartOffset uint32
	Repeat        uint32
	RepeatLen     uint32
	CountRestart  uint32

	Volume  uint8
	Panning uint8

	FilterCutoff  uint8
	FilterDamping uint8

	Flags ChannelFlags
}

func viewOf(cb *ChannelBlock) ChannelView {
	return ChannelView{
		Data:          cb.Data,
		Offset:        cb.Offset,
		Fraction:      cb.Fraction,
		Rate:          cb.Rate,
		EndOffset:     cb.EndOffset,
		RestartOffset: cb.RestartOffset,
		Repeat:        cb.Repeat,
		RepeatLen:     cb.RepeatLen,
		CountRestart:  cb.CountRestart,
		Volume:        cb.Volume,
		Panning:       cb.Panning,
		FilterCutoff:  cb.FilterCutoff,
		FilterDamping: cb.FilterDamping,
		Flags:         cb.Flags,
	}
}

func applyView(cb *ChannelBlock, v ChannelView) {
	cb.Data = v.Data
	cb.Offset = v.Offset
	cb.Fraction = v.Fraction
	cb.Rate = v.Rate
	cb.EndOffset = v.EndOffset
	cb.RestartOffset = v.RestartOffset
	cb.Repeat = v.Repeat
	cb.RepeatLen = v.RepeatLen
	cb.CountRestart = v.CountRestart
	cb.Counted = 0
	cb.OneShotPlayed = 0
	cb.Volume = v.Volume
	cb.Panning = v.Panning
	cb.FilterCutoff = v.FilterCutoff
	cb.FilterDamping = v.FilterDamping
	cb.Flags = v.Flags
}

// targetBlock routes a view write to Current or Next depending on the
// SYNTH flag: a SYNTH write stages the pending block instead of replacing
// the one playing.
func targetBlock(ci *ChannelInfo, v ChannelView) *ChannelBlock {
	if v.Flags&FlagSynth != 0 {
		return &ci.Next
	}
	return &ci.Current
}

func (s *State) channel(index int) (*ChannelInfo, error) {
	if index < 0 || index >= len(s.channels) {
		return nil, ErrChannelRange
	}
	return &s.channels[index], nil
}

// GetChannel returns a read-only view of a channel's current block.
func (s *State) GetChannel(index int) (ChannelView, error) {
	ci, err := s.channel(index)
	if err != nil {
		return ChannelView{}, err
	}
	return viewOf(&ci.Current), nil
}

// SetChannel writes a full view into a channel and re-runs dispatch.
// SYNTH routes the write to the pending block.
func (s *State) SetChannel(index int, v ChannelView) error {
	ci, err := s.channel(index)
	if err != nil {
		return err
	}
	cb := targetBlock(ci, v)
	applyView(cb, v)
	s.prepareChannel(cb)
	if cb == &ci.Current {
		ci.FilterTmp1, ci.FilterTmp2 = 0, 0
		s.seedHistory(ci)
	}
	return nil
}

// GetBothChannels returns views of both the current and pending blocks.
func (s *State) GetBothChannels(index int) (current, next ChannelView, err error) {
	ci, err := s.channel(index)
	if err != nil {
		return ChannelView{}, ChannelView{}, err
	}
	return viewOf(&ci.Current), viewOf(&ci.Next), nil
}

// SetBothChannels writes both the current and pending blocks in one call.
func (s *State) SetBothChannels(index int, current, next ChannelView) error {
	ci, err := s.channel(index)
	if err != nil {
		return err
	}
	applyView(&ci.Current, current)
	applyView(&ci.Next, next)
	s.prepareChannel(&ci.Current)
	s.prepareChannel(&ci.Next)
	ci.FilterTmp1, ci.FilterTmp2 = 0, 0
	s.seedHistory(ci)
	return nil
}

// ResetChannel clears a channel back to its idle state: no data, no flags.
func (s *State) ResetChannel(index int) error {
	ci, err := s.channel(index)
	if err != nil {
		return err
	}
	*ci = ChannelInfo{}
	return nil
}

// SetChannelVolumePanningPitch updates rate/volume/panning. If only the
// rate changed, it patches
// the advance fields directly without re-running dispatch; any volume or
// panning change re-runs dispatch.
func (s *State) SetChannelVolumePanningPitch(index int, v ChannelView) error {
	ci, err := s.channel(index)
	if err != nil {
		return err
	}
	cb := &ci.Current

	rateOnly := v.Volume == cb.Volume && v.Panning == cb.Panning
	cb.Rate = v.Rate
	if cb.Rate != 0 && s.cfg.Rate != 0 {
		step := (uint64(cb.Rate) << 32) / uint64(s.cfg.Rate)
		cb.Advance = uint32(step >> 32)
		cb.AdvanceFrac = uint32(step)
	}

	if rateOnly {
		return nil
	}
	cb.Volume = v.Volume
	cb.Panning = v.Panning
	s.prepareChannel(cb)
	return nil
}

// SetChannelPositionRepeatFlags updates cursor and loop geometry.
// Dispatch is re-run only if the
// flags actually changed.
func (s *State) SetChannelPositionRepeatFlags(index int, v ChannelView) error {
	ci, err := s.channel(index)
	if err != nil {
		return err
	}
	cb := &ci.Current

	flagsChanged := cb.Flags != v.Flags
	cb.Offset = v.Offset
	cb.Fraction = v.Fraction
	cb.EndOffset = v.EndOffset
	cb.RestartOffset = v.RestartOffset
	cb.Repeat = v.Repeat
	cb.RepeatLen = v.RepeatLen
	cb.CountRestart = v.CountRestart
	cb.Counted = 0
	cb.Flags = v.Flags

	if flagsChanged {
		s.prepareChannel(cb)
	}
	return nil
}

// SetChannelFilter updates cutoff/damping and recomputes c1/c2/c3.
func (s *State) SetChannelFilter(index int, cutoff, damping uint8) error {
	ci, err := s.channel(index)
	if err != nil {
		return err
	}
	cb := &ci.Current
	cb.FilterCutoff = cutoff
	cb.FilterDamping = damping
	recomputeFilter(cb, s.cfg.Rate)
	return nil
}

// prepareChannel re-runs dispatch (set_mix_functions) for a block using
// the mixer's current master volume and LUT.
func (s *State) prepareChannel(cb *ChannelBlock) {
	setMixFunctions(cb, &s.cfg, s.masterLeft, s.masterRight, s.lut)
	if cb.Rate != 0 && s.cfg.Rate != 0 {
		step := (uint64(cb.Rate) << 32) / uint64(s.cfg.Rate)
		cb.Advance = uint32(step >> 32)
		cb.AdvanceFrac = uint32(step)
	}
	recomputeFilter(cb, s.cfg.Rate)
}
