// Command mixdemo drives the mixer package with a tiny built-in tracker
// song, either to a live PortAudio stream or to a WAV file: a TickHandler,
// a ChannelView-driven tracker, and an audio sink wired together.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"
	"github.com/gordonklaus/portaudio"

	mixer "github.com/chriskillpack/hqmixer"
	"github.com/chriskillpack/hqmixer/internal/tracker"
	"github.com/chriskillpack/hqmixer/wav"
)

var (
	cyan   = color.New(color.FgCyan).SprintfFunc()
	yellow = color.New(color.FgYellow).SprintfFunc()
	green  = color.New(color.FgGreen).SprintfFunc()
)

var (
	flagHz     = flag.Int("hz", 44100, "output sample rate")
	flagOut    = flag.String("out", "", "write to a WAV file instead of live playback")
	flagBuf    = flag.Int("buf", 512, "mixer output buffer size in frames")
	flagVolume = flag.Uint("volume", 255, "demo channel volume, 0-255")
)

const (
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
)

func main() {
	flag.Parse()

	song := demoSong(uint8(*flagVolume))
	tr := tracker.NewTracker(song)

	cfg := mixer.DefaultConfig(uint32(*flagHz), uint32(*flagBuf), uint16(song.Channels))
	state, err := mixer.NewState(cfg, tr)
	if err != nil {
		log.Fatalf("mixer.NewState: %v", err)
	}

	if *flagOut != "" {
		if err := renderToFile(state, tr, *flagOut, *flagHz); err != nil {
			log.Fatalf("render: %v", err)
		}
		return
	}

	if err := playLive(state, tr, *flagHz, *flagBuf); err != nil {
		log.Fatalf("play: %v", err)
	}
}

// demoSong builds a tiny built-in arpeggio so mixdemo has something to
// play without needing a tracker-module file parser.
func demoSong(volume uint8) *tracker.Song {
	const length = 64
	square := make([]int8, length)
	for i := range square {
		if i < length/2 {
			square[i] = 96
		} else {
			square[i] = -96
		}
	}

	notes := func(rates ...uint32) []tracker.Note {
		row := make([]tracker.Note, 0, len(rates))
		for _, r := range rates {
			if r == 0 {
				row = append(row, tracker.Note{Sample: tracker.NoSample})
				continue
			}
			row = append(row, tracker.Note{Sample: 0, Rate: r, Volume: -1, Panning: 0x80})
		}
		return row
	}

	const a4, cSharp5, e5 = 440, 554, 659
	pattern := append(notes(a4), notes(0)...)
	pattern = append(pattern, notes(cSharp5)...)
	pattern = append(pattern, notes(0)...)
	pattern = append(pattern, notes(e5)...)
	pattern = append(pattern, notes(0)...)
	pattern = append(pattern, notes(e5)...)
	pattern = append(pattern, notes(0)...)

	return &tracker.Song{
		Title:          "mixdemo arpeggio",
		Channels:       1,
		RowsPerPattern: 8,
		Speed:          6,
		Tempo:          125,
		Orders:         []int{0},
		Samples:        []tracker.Sample{{Name: "square", Data: square, Volume: volume, C4Speed: 440}},
		Patterns:       [][]tracker.Note{pattern},
	}
}

func renderToFile(state *mixer.State, tr *tracker.Tracker, path string, hz int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := wav.NewWriter(f, hz)
	if err != nil {
		return err
	}

	buf := make([]int32, *flagBuf*2)
	for !tr.Done() {
		state.Mix(buf)
		if err := w.WriteAccumulator(buf); err != nil {
			return err
		}
	}

	_, err = w.Finish()
	return err
}

func playLive(state *mixer.State, tr *tracker.Tracker, hz, bufSize int) error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	defer portaudio.Terminate()

	accum := make([]int32, bufSize*2)
	scratch := make([]int16, bufSize*2)

	streamCallback := func(out []int16) {
		n := len(out)
		if tr.Done() {
			clear(out)
			return
		}
		state.Mix(accum[:n])
		for i, v := range accum[:n] {
			switch {
			case v > 32767:
				scratch[i] = 32767
			case v < -32768:
				scratch[i] = -32768
			default:
				scratch[i] = int16(v)
			}
		}
		copy(out, scratch[:n])
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, float64(hz), bufSize, streamCallback)
	if err != nil {
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return err
	}
	defer stream.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT)
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-sigch:
			cancel()
		case <-ctx.Done():
		}
	}()

	fmt.Fprint(os.Stdout, hideCursor)
	defer fmt.Fprint(os.Stdout, showCursor)

	keyboardDone := make(chan struct{})
	go func() {
		keyboard.Listen(func(key keys.Key) (stop bool, err error) {
			if key.Code == keys.CtrlC || key.Code == keys.Escape {
				cancel()
				return true, nil
			}
			return false, nil
		})
		close(keyboardDone)
	}()

	fmt.Println(cyan("mixdemo"), yellow("playing, press Esc to stop"))

	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if tr.Done() {
				cancel()
				return
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	fmt.Println(green("stopped"))
	wg.Wait()
	<-keyboardDone
	return nil
}
