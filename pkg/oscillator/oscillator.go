// Package oscillator generates the sin/cos carriers the MPX mixer
// needs, all phase-locked to a single 19 kHz pilot.
package oscillator

import "math"

// SampleRate is the internal rate, in Hz, at which the baseband MPX
// signal is assembled before resampling to the audio output rate.
const SampleRate = 228000

// PilotHz is the 19 kHz stereo pilot frequency all other carriers are
// harmonics of.
const PilotHz = 19000

// Harmonic multiples of the 19 kHz pilot used by the MPX mixer and the
// RDS2 subcarriers. Listed in the order component 4.A enumerates them.
const (
	HarmonicPilot      = 1.0  // 19 kHz stereo pilot
	HarmonicStereo     = 2.0  // 38 kHz stereo DSB-SC (not generated: no program audio)
	HarmonicRDS        = 3.0  // 57 kHz primary RDS subcarrier
	HarmonicRDS2Stream1 = 3.5  // 66.5 kHz RDS2 subcarrier
	HarmonicRDS2Stream2 = 3.75 // 71.25 kHz RDS2 subcarrier
	HarmonicRDS2Stream3 = 4.0  // 76 kHz RDS2 subcarrier
)

// Bank is a single phase accumulator shared by every carrier. phase
// counts 19 kHz cycles in units of 1/SampleRate and is advanced by
// exactly PilotHz each sample, wrapping modulo 4*SampleRate (four
// pilot cycles, the shortest span over which every harmonic, 3.5 and
// 3.75 included, completes a whole number of cycles): pure integer
// arithmetic, so there is no floating-point accumulation and
// therefore no long-run phase drift.
type Bank struct {
	phase uint64
}

// New creates a phase accumulator starting at zero phase.
func New() *Bank {
	return &Bank{}
}

// Advance moves the accumulator forward by one sample period.
func (b *Bank) Advance() {
	b.phase = (b.phase + PilotHz) % (4 * SampleRate)
}

// Angle returns the instantaneous phase angle, in radians, of the
// harmonic n·19kHz at the accumulator's current position.
func (b *Bank) Angle(n float64) float64 {
	return 2 * math.Pi * n * float64(b.phase) / float64(SampleRate)
}

// Sin returns sin(n·φ) at the current phase.
func (b *Bank) Sin(n float64) float64 {
	return math.Sin(b.Angle(n))
}

// Cos returns cos(n·φ) at the current phase.
func (b *Bank) Cos(n float64) float64 {
	return math.Cos(b.Angle(n))
}

// Carriers is one sample's worth of every carrier component 4.A
// enumerates, captured at a single phase so every value below is
// sub-sample coherent with every other.
type Carriers struct {
	PilotSin float64 // sin(φ): the 19 kHz pilot itself
	RDSCos   float64 // cos(3φ): 57 kHz, modulated by the biphase RDS stream
	RDS2A    float64 // cos(3.5φ): 66.5 kHz RDS2 subcarrier
	RDS2B    float64 // cos(3.75φ): 71.25 kHz RDS2 subcarrier
	RDS2C    float64 // cos(4φ): 76 kHz RDS2 subcarrier
}

// Next advances the accumulator and returns the carrier set for the
// sample just produced.
func (b *Bank) Next() Carriers {
	c := Carriers{
		PilotSin: b.Sin(HarmonicPilot),
		RDSCos:   b.Cos(HarmonicRDS),
		RDS2A:    b.Cos(HarmonicRDS2Stream1),
		RDS2B:    b.Cos(HarmonicRDS2Stream2),
		RDS2C:    b.Cos(HarmonicRDS2Stream3),
	}
	b.Advance()
	return c
}
