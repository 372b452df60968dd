package mixer

// SampleWidth selects which fetch family a mixPlan uses.
type SampleWidth int

const (
	Width8 SampleWidth = iota
	Width16
	Width32
	WidthX
)

// Topology selects which output-writing pattern a mixPlan uses.
type Topology int

const (
	TopoSkip Topology = iota
	TopoMono
	TopoLeft
	TopoRight
	TopoBoth
	TopoCentre
	TopoSurround
)

// Direction selects which way the cursor moves.
type Direction int

const (
	DirForward Direction = iota
	DirBackward
)

// Conversion selects whether fetch reads through the 8-bit volume LUT or
// applies the native mult/div path.
type Conversion int

const (
	ConvTo8 Conversion = iota
	ConvNative
)

// mixPlan names one concrete inner loop: which fetch family, output
// topology and direction a channel block mixes with. Each block carries a
// forward and a backward plan and the driver interprets the one matching
// its current direction.
type mixPlan struct {
	Width      SampleWidth
	Topology   Topology
	Direction  Direction
	Conversion Conversion
}

// setMixFunctions picks the fetch family and output topology for a block,
// binds both the forward and backward plans, and prepares the resulting
// LUT pointers or mult/div fields.
func setMixFunctions(cb *ChannelBlock, cfg *Config, masterLeft, masterRight uint32, lut []int32) {
	conv := ConvNative
	if cb.Data == nil || cb.Data.Bits <= 8 || !cfg.Real16BitMode {
		conv = ConvTo8
	}

	width := widthFor(cb, conv)
	topo := topologyFor(cb, cfg, masterLeft, masterRight)

	cb.MixFunc = mixPlan{Width: width, Topology: topo, Direction: DirForward, Conversion: conv}
	cb.MixBackwardsFunc = mixPlan{Width: width, Topology: topo, Direction: DirBackward, Conversion: conv}

	prepareVolume(cb, cfg, masterLeft, masterRight, conv, lut)
}

func widthFor(cb *ChannelBlock, conv Conversion) SampleWidth {
	if conv == ConvTo8 {
		return Width8
	}
	if cb.Data == nil {
		return Width8
	}
	switch cb.Data.Bits {
	case 16:
		return Width16
	case 32:
		return Width32
	case 8:
		return Width8
	default:
		return WidthX
	}
}

func topologyFor(cb *ChannelBlock, cfg *Config, masterLeft, masterRight uint32) Topology {
	if cb.Flags&FlagMuted != 0 || cb.Volume == 0 || cfg.Amplify == 0 || cb.Data == nil {
		return TopoSkip
	}
	if cfg.ChannelsOut == 1 {
		return TopoMono
	}
	if cb.Flags&FlagSurround != 0 {
		if masterLeft == masterRight {
			return TopoSurround
		}
		return TopoBoth
	}
	switch cb.Panning {
	case 0x00:
		if masterLeft == 0 {
			return TopoSkip
		}
		return TopoLeft
	case 0xFF:
		if masterRight == 0 {
			return TopoSkip
		}
		return TopoRight
	case 0x80:
		if masterLeft == masterRight {
			return TopoCentre
		}
		return TopoBoth
	default:
		return TopoBoth
	}
}

// prepareVolume fills in the LUT pointers (to-8 path) or the mult/div
// fields (native path) from volume, panning and the master volumes.
func prepareVolume(cb *ChannelBlock, cfg *Config, masterLeft, masterRight uint32, conv Conversion, lut []int32) {
	volume := uint32(cb.Volume)
	switch {
	case conv == ConvTo8 && cb.Panning == 0x80 && cb.Flags&FlagSurround == 0 && masterLeft == masterRight:
		v := (volume * masterLeft >> 9) & 0xFF00
		cb.VolumeLeftLUT = lut[v:]
		cb.VolumeRightLUT = lut[v:]
	case conv == ConvTo8:
		left := (uint32(255-cb.Panning) * masterLeft * volume >> 16) & 0xFF00
		right := (uint32(cb.Panning) * masterRight * volume >> 16) & 0xFF00
		cb.VolumeLeftLUT = lut[left:]
		cb.VolumeRightLUT = lut[right:]
	default:
		// Native path. The 16-bit divisor is channels<<8 and each wider
		// depth adds its extra sample bits to the normalisation, keeping
		// every width on the same accumulator scale; amplify's 16.16 unity
		// point folds out of the stored multiplier.
		leftMul := (uint32(255-cb.Panning) * masterLeft * volume) >> 24
		rightMul := (uint32(cb.Panning) * masterRight * volume) >> 24
		if cb.Panning == 0x80 && masterLeft == masterRight {
			leftMul = (masterLeft * volume) >> 17
			rightMul = leftMul
		}
		cb.MultLeftVolume = int32((uint64(leftMul) * uint64(cfg.Amplify)) >> 16)
		cb.MultRightVolume = int32((uint64(rightMul) * uint64(cfg.Amplify)) >> 16)
		bitsOver := 8
		if cb.Data != nil && cb.Data.Bits > 8 {
			bitsOver = int(cb.Data.Bits) - 8
		}
		cb.DivVolume = int32(uint32(cfg.ChannelsIn) << bitsOver)
	}
}
