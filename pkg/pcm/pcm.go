// Package pcm converts floating-point MPX samples in ±1.0 into
// little-endian 16-bit stereo frames, duplicating the mono signal
// onto both channels.
package pcm

import "math"

// Pack maps each sample in in (expected range ±1.0) to a saturating
// int16 via round(f*32767), writes it to both the left and right
// channel, and appends the result (4 bytes per frame, little-endian)
// to dst. It returns the extended slice.
func Pack(dst []byte, in []float64) []byte {
	for _, f := range in {
		v := toInt16(f)
		lo := byte(v)
		hi := byte(v >> 8)
		dst = append(dst, lo, hi, lo, hi)
	}
	return dst
}

func toInt16(f float64) int16 {
	scaled := math.Round(f * 32767)
	switch {
	case scaled > 32767:
		return 32767
	case scaled < -32768:
		return -32768
	default:
		return int16(scaled)
	}
}
