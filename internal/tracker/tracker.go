// Package tracker is a minimal tracker/sequencer. It owns pattern data
// and note timing and drives a mixer.State purely through its public
// setter surface (SetChannel), acting as the mixer's TickHandler.
package tracker

import (
	"sync/atomic"

	"github.com/chriskillpack/hqmixer"
)

// Sample is one instrument's PCM data and playback defaults.
type Sample struct {
	Name    string
	Data    []int8
	Volume  uint8
	C4Speed uint32
	Loop    bool
	LoopStart, LoopEnd uint32
}

// Note is one cell of a pattern: which sample to trigger, at what pitch,
// volume and panning, plus an optional effect/param pair.
type Note struct {
	Sample  int // -1 = no sample triggered this row
	Rate    uint32
	Volume  int // -1 = use the sample's default volume
	Panning uint8
	Effect  byte
	Param   byte
}

const NoSample = -1

// Song is a complete playable unit: samples, one pattern per order entry,
// row count per pattern, channel count and initial speed/tempo.
type Song struct {
	Title    string
	Samples  []Sample
	Patterns [][]Note // Patterns[p][row*Channels+ch]
	Orders   []int
	Channels int
	RowsPerPattern int

	Speed int // ticks per row (a "tick" here is a mixer.State tick burst)
	Tempo uint32
}

// Tracker drives a mixer.State by implementing mixer.TickHandler: every
// tick, it advances the row/order position, applying a speed counter, and
// pushes any triggered notes into the mixer via SetChannel.
type Tracker struct {
	song *Song

	orderIdx int
	row      int
	speedCtr int

	done atomic.Bool
}

// NewTracker starts playback of song from its first order/row.
func NewTracker(song *Song) *Tracker {
	return &Tracker{song: song, speedCtr: song.Speed}
}

// Done reports whether playback has advanced past the last order. Safe to
// call from a goroutine other than the one driving Tick (e.g. the audio
// callback thread vs. a UI loop watching for end-of-song).
func (tr *Tracker) Done() bool {
	return tr.done.Load()
}

// Tick implements mixer.TickHandler. It is invoked synchronously from
// within State.Mix/MixParallel at tempo-derived intervals.
func (tr *Tracker) Tick(s *mixer.State) {
	if tr.done.Load() {
		return
	}

	tr.speedCtr--
	if tr.speedCtr > 0 {
		return
	}
	tr.speedCtr = tr.song.Speed

	tr.playRow(s)

	tr.row++
	if tr.row >= tr.song.RowsPerPattern {
		tr.row = 0
		tr.orderIdx++
		if tr.orderIdx >= len(tr.song.Orders) {
			tr.done.Store(true)
		}
	}
}

func (tr *Tracker) playRow(s *mixer.State) {
	if tr.orderIdx >= len(tr.song.Orders) {
		return
	}
	pattern := tr.song.Patterns[tr.song.Orders[tr.orderIdx]]
	base := tr.row * tr.song.Channels

	for ch := 0; ch < tr.song.Channels && base+ch < len(pattern); ch++ {
		n := pattern[base+ch]
		if n.Sample == NoSample {
			continue
		}
		tr.triggerNote(s, ch, n)
	}
}

func (tr *Tracker) triggerNote(s *mixer.State, ch int, n Note) {
	if n.Sample < 0 || n.Sample >= len(tr.song.Samples) {
		return
	}
	smp := tr.song.Samples[n.Sample]

	volume := smp.Volume
	if n.Volume >= 0 {
		volume = uint8(n.Volume)
	}
	panning := n.Panning
	if panning == 0 {
		panning = 0x80
	}

	flags := mixer.FlagPlay
	endOffset := uint32(len(smp.Data))
	repeat, repeatLen := uint32(0), uint32(0)
	if smp.Loop {
		flags |= mixer.FlagLoop
		repeat, repeatLen = smp.LoopStart, smp.LoopEnd-smp.LoopStart
		endOffset = smp.LoopEnd
	}

	view := mixer.ChannelView{
		Data:          packSamples(smp.Data),
		Rate:          n.Rate,
		Volume:        volume,
		Panning:       panning,
		EndOffset:     endOffset,
		Repeat:        repeat,
		RepeatLen:     repeatLen,
		RestartOffset: repeatLen,
		FilterCutoff:  127,
		Flags:         flags,
	}
	s.SetChannel(ch, view)
}

// packSamples converts signed 8-bit PCM into the mixer's packed word
// representation.
func packSamples(data []int8) *mixer.Samples {
	words := make([]uint32, (len(data)+3)/4)
	for i, v := range data {
		words[i/4] |= uint32(uint8(v)) << uint((3-i%4)*8)
	}
	return &mixer.Samples{Words: words, Bits: 8, Len: uint32(len(data))}
}
