package mixer

import "testing"

// TestCubicHalfRate: an alternating source played at half the mix rate
// goes through the cubic path; the first frame is exactly the first
// source sample (zero) and the second is a positive in-between value.
func TestCubicHalfRate(t *testing.T) {
	cfg := DefaultConfig(44100, 8, 1)
	cfg.ChannelsOut = 1
	s, err := NewState(cfg, nil)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}

	view := ChannelView{
		Data:         samples8(0, 100, 0, 156, 0, 100, 0, 156),
		Rate:         22050,
		Volume:       255, Panning: 0x80,
		EndOffset:    8,
		FilterCutoff: 127,
		Flags:        FlagPlay,
	}
	if err := s.SetChannel(0, view); err != nil {
		t.Fatalf("SetChannel: %v", err)
	}

	out := make([]int32, 8)
	s.Mix(out)

	if out[0] != 0 {
		t.Errorf("frame 0 = %d, want 0 (cursor exactly on the first, zero sample)", out[0])
	}
	if out[1] <= 0 {
		t.Errorf("frame 1 = %d, want > 0 (halfway between 0 and +100)", out[1])
	}
	if out[2] <= out[1] {
		t.Errorf("frame 2 = %d, want > frame 1 = %d (rising toward the +100 peak)", out[2], out[1])
	}
}

func TestCubicBlendEndpoints(t *testing.T) {
	// fraction 0 with equal prev/curr lands exactly on curr.
	if got := cubicBlend(500, 500, 1200, 0); got != 500 {
		t.Errorf("cubicBlend at fraction 0 = %d, want 500", got)
	}
	// A flat signal stays flat for any fraction.
	for _, f := range []uint32{0, 1 << 30, 1 << 31, 0xFFFFFFFF} {
		if got := cubicBlend(700, 700, 700, f); got != 700 {
			t.Errorf("cubicBlend(flat, fraction=%#x) = %d, want 700", f, got)
		}
	}
}

func TestAdvanceSkip(t *testing.T) {
	cb := &ChannelBlock{Offset: 10, Fraction: 0, Advance: 1, AdvanceFrac: 1 << 31}
	advanceSkip(cb, 3)
	// 3 frames at 1.5 samples each: 4 whole samples, half a sample of
	// fraction left over.
	if cb.Offset != 14 {
		t.Errorf("Offset = %d, want 14", cb.Offset)
	}
	if cb.Fraction != 1<<31 {
		t.Errorf("Fraction = %#x, want %#x", cb.Fraction, uint32(1<<31))
	}

	back := &ChannelBlock{Offset: 10, Advance: 2, Flags: FlagBackwards}
	advanceSkip(back, 4)
	if back.Offset != 2 {
		t.Errorf("backward Offset = %d, want 2", back.Offset)
	}
}

func TestWriteSamplePatterns(t *testing.T) {
	cases := []struct {
		name string
		topo Topology
		side Side
		smp  int32
		want []int32
	}{
		{"mono", TopoMono, SideLeft, 7, []int32{7, 0, 0, 0}},
		{"left", TopoLeft, SideLeft, 7, []int32{7, 0, 0, 0}},
		{"right", TopoRight, SideLeft, 7, []int32{0, 7, 0, 0}},
		{"centre", TopoCentre, SideLeft, 7, []int32{7, 7, 0, 0}},
		{"surround", TopoSurround, SideLeft, 7, []int32{7, ^int32(7), 0, 0}},
		{"both left pass", TopoBoth, SideLeft, 7, []int32{7, 0, 0, 0}},
		{"both right pass", TopoBoth, SideRight, 7, []int32{0, 7, 0, 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dst := make([]int32, 4)
			stride := 2
			if c.topo == TopoMono {
				stride = 1
			}
			writeSample(dst, stride, 0, c.topo, c.side, c.smp)
			for i := range c.want {
				if dst[i] != c.want[i] {
					t.Errorf("dst = %v, want %v", dst, c.want)
					break
				}
			}
		})
	}
}
