package mixer

import "testing"

func TestAdoptNextSharesDataPointer(t *testing.T) {
	data := &Samples{Words: []uint32{0}, Bits: 8, Len: 4}
	ci := &ChannelInfo{
		Current: ChannelBlock{Data: &Samples{Bits: 8, Len: 1}, Offset: 3},
		Next:    ChannelBlock{Data: data, Offset: 0, Flags: FlagPlay},
	}

	ci.adoptNext()

	if ci.Current.Data != data {
		t.Fatalf("adoptNext did not share the Next block's Data pointer")
	}
	if ci.Current.Offset != 0 {
		t.Errorf("Current.Offset = %d, want 0 (copied from Next)", ci.Current.Offset)
	}
	if ci.Next.Data != nil {
		t.Errorf("Next.Data = %v, want nil after adoption", ci.Next.Data)
	}
}

func TestPlaying(t *testing.T) {
	cases := []struct {
		name string
		cb   ChannelBlock
		want bool
	}{
		{"no data", ChannelBlock{Flags: FlagPlay}, false},
		{"zero length", ChannelBlock{Flags: FlagPlay, Data: &Samples{Len: 0}}, false},
		{"not playing", ChannelBlock{Data: &Samples{Len: 10}}, false},
		{"playing", ChannelBlock{Flags: FlagPlay, Data: &Samples{Len: 10}}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.cb.playing(); got != c.want {
				t.Errorf("playing() = %v, want %v", got, c.want)
			}
		})
	}
}
