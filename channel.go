package mixer

// ChannelFlags is the per-channel state bitfield.
type ChannelFlags uint8

const (
	FlagPlay ChannelFlags = 1 << iota
	FlagLoop
	FlagPingPong
	FlagBackwards
	FlagSynth
	FlagMuted
	FlagSurround
)

// Side selects which output side (and therefore which volume LUT / mult-div
// pair) a fetch operates against. Threading it explicitly keeps the fetch
// routines free of hidden state.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// Samples is packed PCM backing memory for a ChannelBlock. Up to 32 bits per
// sample, big-endian within each 32-bit word. A nil *Samples (or Len == 0)
// means silence/idle.
type Samples struct {
	Words []uint32
	Bits  uint8 // 1..32
	Len   uint32
}

// ChannelBlock is the unit of playback state. Each ChannelInfo
// owns two of these (Current, Next) to allow seamless sample hand-off.
type ChannelBlock struct {
	Data *Samples

	Offset   uint32 // integer sample position of the cursor
	Fraction uint32 // fractional sub-sample position, numerator over 2^32

	Advance     uint32 // 32.32 fixed point step per output frame, integer part
	AdvanceFrac uint32 // ...fractional part
	Rate        uint32 // requested playback rate in Hz

	EndOffset     uint32 // half-open upper bound (fwd) / lower bound (bwd)
	RestartOffset uint32
	Repeat        uint32
	RepeatLen     uint32
	CountRestart  uint32 // 0 = infinite
	Counted       uint32

	// OneShotPlayed counts output frames mixed since the block started.
	// Read-only bookkeeping; nothing in the mixer acts on it.
	OneShotPlayed uint32

	Volume  uint8 // 0..255
	Panning uint8 // 0x00 full left, 0x80 centre, 0xFF full right

	VolumeLeftLUT  []int32 // 256-entry slice into the global volume LUT
	VolumeRightLUT []int32

	MultLeftVolume  int32
	MultRightVolume int32
	DivVolume       int32

	FilterCutoff  uint8 // 0..127, 127 = bypass
	FilterDamping uint8 // 0..127
	FilterC1      int64
	FilterC2      int64
	FilterC3      int64

	Flags ChannelFlags

	MixFunc          mixPlan
	MixBackwardsFunc mixPlan
}

// playing reports whether this block currently has sample data to mix.
func (cb *ChannelBlock) playing() bool {
	return cb.Flags&FlagPlay != 0 && cb.Data != nil && cb.Data.Len > 0
}

// ChannelInfo is the per-channel runtime state: the current and pending
// playback blocks, interpolation history and filter memory.
type ChannelInfo struct {
	Current ChannelBlock
	Next    ChannelBlock

	// Interpolation history, one triple per output side.
	PrevSample, CurrSample, NextSample    int32
	PrevSampleR, CurrSampleR, NextSampleR int32

	// Biquad filter memory taps, preserved across mixing bursts.
	FilterTmp1, FilterTmp2 int64
}

// adoptNext promotes Next into Current (the "synth" block hand-off) and
// clears Next so it is not adopted again. Struct assignment copies every
// scalar field and the Data pointer and LUT slice headers by value; the
// underlying sample memory and volume tables stay shared.
func (ci *ChannelInfo) adoptNext() {
	ci.Current = ci.Next
	ci.Next = ChannelBlock{}
}
