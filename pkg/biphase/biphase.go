// Package biphase differentially encodes the 1187.5 bit/s RDS data
// stream and shapes each bit with the standard RDS spectrum-shaping
// pulse, producing samples at the oscillator package's 228 kHz
// internal rate.
package biphase

import "math"

// SampleRate is the rate, in Hz, samples are produced at.
const SampleRate = 228000

// BitRate is the RDS data rate, in bit/s.
const BitRate = 1187.5

// symbolPeriods is how many bit periods of support the shaping pulse
// carries on either side of its center.
const symbolPeriods = 3

// pulseSamples is the length of the precomputed shaping-pulse table:
// ceil(symbolPeriods * SampleRate / BitRate).
var pulseSamples = int(math.Ceil(symbolPeriods * SampleRate / BitRate))

// pulseTable is the precomputed, read-only biphase shaping pulse
// g(t): the derivative of a raised-cosine roll-off, built once at
// package init and shared by every Encoder. It is centered so that
// pulseTable[pulseSamples/2] is the pulse's peak.
var pulseTable []float64

func init() {
	pulseTable = make([]float64, pulseSamples)
	center := float64(pulseSamples-1) / 2
	// Cosine-rolloff derivative prototype pulse, normalized to unit
	// peak. beta controls the roll-off steepness; 1.0 gives the
	// full-cosine shape conventionally used for RDS biphase shaping.
	const beta = 1.0
	samplesPerBit := SampleRate / BitRate
	for i := range pulseTable {
		t := (float64(i) - center) / samplesPerBit // in units of bit periods
		pulseTable[i] = shapingPulse(t, beta)
	}
}

// shapingPulse evaluates the derivative-of-raised-cosine prototype at
// t bit-periods from center.
func shapingPulse(t, beta float64) float64 {
	if t == 0 {
		return 1.0
	}
	denom := 1 - 4*beta*beta*t*t
	if math.Abs(denom) < 1e-9 {
		// limit value at the singularity t = +/- 1/(2*beta)
		return (math.Pi / 4) * sinc(1/(2*beta))
	}
	num := sinc(t) * math.Cos(math.Pi*beta*t)
	return num / denom
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1.0
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// Encoder differentially encodes an RDS bitstream and shapes each bit
// period on its own: EncodeBit returns a bit's samples whole, and no
// pulse overlap from neighboring bits is carried between calls.
type Encoder struct {
	lastLevel float64 // differential state: +1 or -1
	// fractional-sample accumulator distributing the non-integer
	// 228000/1187.5 samples-per-bit ratio without ever truncating.
	carry         float64
	samplesPerBit float64
}

// NewEncoder creates a biphase encoder with its differential state
// initialized to +1.
func NewEncoder() *Encoder {
	return &Encoder{
		lastLevel:     1,
		samplesPerBit: SampleRate / BitRate,
	}
}

// PulseLength returns the length, in samples, of the shaping pulse.
func PulseLength() int {
	return pulseSamples
}

// EncodeBit differentially encodes one RDS data bit and returns the
// shaped samples it contributes for this bit period. The differential
// encoding rule is: a data '1' causes a mid-symbol transition (as in
// Manchester coding), a data '0' does not; the overall polarity
// alternates so the line stays DC-balanced, matching IEC 62106's
// biphase symbol definition.
//
// The number of samples returned varies by at most one sample from
// call to call (round(samplesPerBit) give or take the carried
// fractional remainder), and never silently truncates the bit period:
// the fractional accumulator guarantees that, averaged over any run,
// exactly SampleRate/BitRate samples are emitted per bit.
func (e *Encoder) EncodeBit(bit int) []float64 {
	n := e.nextBitSampleCount()

	// Differential biphase: transition at the start of every symbol,
	// and again at the half-symbol point iff the data bit is 1.
	half := n / 2
	out := make([]float64, n)
	level := -e.lastLevel
	for i := 0; i < n; i++ {
		if bit != 0 && i == half {
			level = -level
		}
		out[i] = level * e.weight(i, n)
	}
	e.lastLevel = level
	return out
}

// weight applies the shaping pulse's envelope to sample i of an
// n-sample symbol by nearest-neighbor lookup into the precomputed
// table, scaled to the symbol's actual length.
func (e *Encoder) weight(i, n int) float64 {
	idx := i * pulseSamples / n
	if idx >= pulseSamples {
		idx = pulseSamples - 1
	}
	return pulseTable[idx]
}

// nextBitSampleCount returns how many 228 kHz samples the next bit
// period should occupy, keeping any fractional remainder of
// SampleRate/BitRate in a running carry so the long-run average is
// exact. 228000/1187.5 is exactly 192, so every bit gets 192 samples.
func (e *Encoder) nextBitSampleCount() int {
	e.carry += e.samplesPerBit
	n := int(math.Floor(e.carry))
	e.carry -= float64(n)
	return n
}
