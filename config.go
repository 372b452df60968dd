package mixer

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeBase mirrors AVSequencer's AV_TIME_BASE convention (microseconds).
// Config.Tempo is not expressed in these units; see its field comment.
const TimeBase = 1_000_000

// InterpolationMode selects the mixer's source interpolation strategy.
// AutoInterpolation is the full-quality pipeline (cubic blend when the
// channel's advance is zero, weighted averaging otherwise); NearestSample
// disables interpolation and reads the nearest source sample, useful for
// bit-exact regression against reference tools that don't interpolate.
type InterpolationMode int

const (
	AutoInterpolation InterpolationMode = iota
	NearestSample
)

// Config is the process-wide mixer configuration.
type Config struct {
	Rate    uint32 // output sample rate in Hz
	RateMin uint32
	RateMax uint32

	ChannelsOut uint8  // 1 (mono) or 2 (stereo)
	ChannelsIn  uint16 // number of logical voices (channel slots)

	BufSize    uint32 // output buffer size in frames
	BufSizeMin uint32
	BufSizeMax uint32

	Amplify      uint32 // 16.16 fixed point, 65536 = unity
	VolumeLeft   uint32 // 0..65536
	VolumeRight  uint32 // 0..65536
	Tempo        uint32 // tick rate: one tick every Rate*10*65536/Tempo output frames

	Real16BitMode bool
	Interpolation InterpolationMode

	// Args is an option string scanned at init: "buffer=<n>;" overrides
	// BufSize, "real16bit=<bool>;" overrides Real16BitMode. Either, both
	// or neither may be present.
	Args string
}

// DefaultConfig returns sane defaults for a stereo, full-volume mixer at
// the given output rate, buffer size and voice count.
func DefaultConfig(rate uint32, bufSize uint32, channelsIn uint16) Config {
	return Config{
		Rate:          rate,
		RateMin:       rate,
		RateMax:       rate,
		ChannelsOut:   2,
		ChannelsIn:    channelsIn,
		BufSize:       bufSize,
		BufSizeMin:    bufSize,
		BufSizeMax:    bufSize,
		Amplify:       0x10000,
		VolumeLeft:    0x10000,
		VolumeRight:   0x10000,
		Tempo:         50 * 10 << 16, // 50 ticks per second
		Real16BitMode: true,
		Interpolation: AutoInterpolation,
	}
}

// applyArgs scans Config.Args for "buffer=<n>;" and "real16bit=<bool>;"
// overrides.
func (c *Config) applyArgs() error {
	if c.Args == "" {
		return nil
	}

	for _, kv := range strings.Split(c.Args, ";") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("mixer: malformed arg %q", kv)
		}
		key, val := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		switch key {
		case "buffer":
			n, err := strconv.ParseUint(val, 10, 32)
			if err != nil {
				return fmt.Errorf("mixer: bad buffer arg %q: %w", val, err)
			}
			c.BufSize = uint32(n)
		case "real16bit":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("mixer: bad real16bit arg %q: %w", val, err)
			}
			c.Real16BitMode = b
		default:
			return fmt.Errorf("mixer: unrecognized arg %q", key)
		}
	}
	return nil
}
