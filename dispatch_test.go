package mixer

import "testing"

func TestTopologySelection(t *testing.T) {
	data := &Samples{Words: []uint32{0}, Bits: 8, Len: 4}
	stereo := Config{ChannelsOut: 2, ChannelsIn: 1, Amplify: 0x10000}
	mono := Config{ChannelsOut: 1, ChannelsIn: 1, Amplify: 0x10000}

	cases := []struct {
		name         string
		cb           ChannelBlock
		cfg          *Config
		left, right  uint32
		want         Topology
	}{
		{"muted", ChannelBlock{Data: data, Volume: 255, Flags: FlagMuted}, &stereo, 65536, 65536, TopoSkip},
		{"zero volume", ChannelBlock{Data: data}, &stereo, 65536, 65536, TopoSkip},
		{"no data", ChannelBlock{Volume: 255}, &stereo, 65536, 65536, TopoSkip},
		{"mono out", ChannelBlock{Data: data, Volume: 255, Panning: 0x40}, &mono, 65536, 65536, TopoMono},
		{"surround equal masters", ChannelBlock{Data: data, Volume: 255, Panning: 0x80, Flags: FlagSurround}, &stereo, 65536, 65536, TopoSurround},
		{"surround unequal masters", ChannelBlock{Data: data, Volume: 255, Panning: 0x80, Flags: FlagSurround}, &stereo, 65536, 32768, TopoBoth},
		{"hard left", ChannelBlock{Data: data, Volume: 255, Panning: 0x00}, &stereo, 65536, 65536, TopoLeft},
		{"hard left, left master muted", ChannelBlock{Data: data, Volume: 255, Panning: 0x00}, &stereo, 0, 65536, TopoSkip},
		{"hard right", ChannelBlock{Data: data, Volume: 255, Panning: 0xFF}, &stereo, 65536, 65536, TopoRight},
		{"hard right, right master muted", ChannelBlock{Data: data, Volume: 255, Panning: 0xFF}, &stereo, 65536, 0, TopoSkip},
		{"centre equal masters", ChannelBlock{Data: data, Volume: 255, Panning: 0x80}, &stereo, 65536, 65536, TopoCentre},
		{"centre unequal masters", ChannelBlock{Data: data, Volume: 255, Panning: 0x80}, &stereo, 65536, 32768, TopoBoth},
		{"off-centre", ChannelBlock{Data: data, Volume: 255, Panning: 0x40}, &stereo, 65536, 65536, TopoBoth},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := topologyFor(&c.cb, c.cfg, c.left, c.right); got != c.want {
				t.Errorf("topologyFor = %v, want %v", got, c.want)
			}
		})
	}
}

func TestConversionAndWidthSelection(t *testing.T) {
	lut := buildVolumeLUT(0x10000, 1)
	real16 := Config{ChannelsOut: 2, ChannelsIn: 1, Amplify: 0x10000, Real16BitMode: true}
	to8Only := Config{ChannelsOut: 2, ChannelsIn: 1, Amplify: 0x10000, Real16BitMode: false}

	cases := []struct {
		name      string
		bits      uint8
		cfg       *Config
		wantConv  Conversion
		wantWidth SampleWidth
	}{
		{"8-bit", 8, &real16, ConvTo8, Width8},
		{"16-bit native", 16, &real16, ConvNative, Width16},
		{"16-bit downconverted", 16, &to8Only, ConvTo8, Width8},
		{"32-bit native", 32, &real16, ConvNative, Width32},
		{"12-bit native", 12, &real16, ConvNative, WidthX},
		{"4-bit", 4, &real16, ConvTo8, Width8},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cb := ChannelBlock{
				Data:   &Samples{Words: []uint32{0}, Bits: c.bits, Len: 1},
				Volume: 255, Panning: 0x80,
			}
			setMixFunctions(&cb, c.cfg, 65536, 65536, lut)
			if cb.MixFunc.Conversion != c.wantConv {
				t.Errorf("Conversion = %v, want %v", cb.MixFunc.Conversion, c.wantConv)
			}
			if cb.MixFunc.Width != c.wantWidth {
				t.Errorf("Width = %v, want %v", cb.MixFunc.Width, c.wantWidth)
			}
			if cb.MixBackwardsFunc.Direction != DirBackward {
				t.Errorf("backwards plan direction = %v, want DirBackward", cb.MixBackwardsFunc.Direction)
			}
		})
	}
}

// TestRateOnlyChangeKeepsDispatch: a SetChannelVolumePanningPitch call
// that changes only the rate patches the advance fields without
// re-running dispatch.
func TestRateOnlyChangeKeepsDispatch(t *testing.T) {
	s := newTestState(t, 1)
	view := ChannelView{
		Data:         samples8(1, 2, 3, 4),
		Rate:         44100,
		Volume:       200, Panning: 0x30,
		EndOffset:    4,
		FilterCutoff: 127,
		Flags:        FlagPlay,
	}
	if err := s.SetChannel(0, view); err != nil {
		t.Fatalf("SetChannel: %v", err)
	}
	before := s.channels[0].Current.MixFunc

	view.Rate = 22050
	if err := s.SetChannelVolumePanningPitch(0, view); err != nil {
		t.Fatalf("SetChannelVolumePanningPitch: %v", err)
	}

	after := s.channels[0].Current
	if after.MixFunc != before {
		t.Errorf("dispatch changed on a rate-only update: %+v -> %+v", before, after.MixFunc)
	}
	if after.Advance != 0 || after.AdvanceFrac != 1<<31 {
		t.Errorf("advance = %d.%#x, want 0.%#x for rate 22050 at mix rate 44100", after.Advance, after.AdvanceFrac, uint32(1<<31))
	}
}

func TestPrepareVolumeCentreSharesLUTRow(t *testing.T) {
	s := newTestState(t, 1)
	view := ChannelView{
		Data:         samples8(1, 2, 3, 4),
		Rate:         44100,
		Volume:       255, Panning: 0x80,
		EndOffset:    4,
		FilterCutoff: 127,
		Flags:        FlagPlay,
	}
	if err := s.SetChannel(0, view); err != nil {
		t.Fatalf("SetChannel: %v", err)
	}
	cb := &s.channels[0].Current
	if cb.VolumeLeftLUT == nil {
		t.Fatalf("centre prepare left LUT not bound")
	}
	if &cb.VolumeLeftLUT[0] != &cb.VolumeRightLUT[0] {
		t.Errorf("centre panning should bind both sides to the same LUT row")
	}
}
