// Package mpx sums the pilot and subcarrier waveforms into a single
// 228 kHz baseband stream and applies the master volume.
package mpx

import (
	"sync/atomic"

	"github.com/minirds/minirds/pkg/oscillator"
)

// Default subcarrier gains (component 4.E). kRDS2 is expressed per
// RDS2 stream and defaults to 0 dB relative to the main RDS subcarrier.
const (
	DefaultKPilot = 0.08
	DefaultKRDS   = 0.045
	DefaultKRDS2  = DefaultKRDS
)

// Mixer combines the pilot, the primary RDS subcarrier, and up to
// three RDS2 subcarriers into one real-valued baseband sample, then
// scales by a lock-free master volume.
type Mixer struct {
	KPilot float64
	KRDS   float64
	KRDS2  [3]float64 // per RDS2 stream: 66.5 kHz, 71.25 kHz, 76 kHz

	volumePercent atomic.Int32 // 0..100, read without locking on every sample
}

// New creates a Mixer at the spec's default gains and full volume.
func New() *Mixer {
	m := &Mixer{
		KPilot: DefaultKPilot,
		KRDS:   DefaultKRDS,
		KRDS2:  [3]float64{DefaultKRDS2, DefaultKRDS2, DefaultKRDS2},
	}
	m.volumePercent.Store(100)
	return m
}

// SetVolume sets the master volume as an integer percent, 0..100,
// clamped into range. Safe to call concurrently with Sample.
func (m *Mixer) SetVolume(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	m.volumePercent.Store(int32(percent))
}

// Volume returns the current master volume as a percent, 0..100.
func (m *Mixer) Volume() int {
	return int(m.volumePercent.Load())
}

// Sample computes one baseband sample:
//
//	mpx = V * ( kPilot*sin(phi)
//	          + kRDS  *( rds(t)   * cos(3*phi) )
//	          + sum_i kRDS2[i] * stream[i](t) * cos(n_i*phi) )
//
// for n_i in {3.5, 3.75, 4}. rds is the shaped biphase sample for the
// primary RDS subcarrier; rds2 holds the three RDS2 stream samples in
// the same order as carriers.RDS2A/B/C. The result is clipped to
// ±1.0 and the clipped flag reports whether clipping occurred.
func (m *Mixer) Sample(carriers oscillator.Carriers, rds float64, rds2 [3]float64) (sample float64, clipped bool) {
	v := float64(m.volumePercent.Load()) / 100.0

	mixed := m.KPilot*carriers.PilotSin +
		m.KRDS*(rds*carriers.RDSCos) +
		m.KRDS2[0]*(rds2[0]*carriers.RDS2A) +
		m.KRDS2[1]*(rds2[1]*carriers.RDS2B) +
		m.KRDS2[2]*(rds2[2]*carriers.RDS2C)

	out := v * mixed
	if out > 1.0 {
		return 1.0, true
	}
	if out < -1.0 {
		return -1.0, true
	}
	return out, false
}
