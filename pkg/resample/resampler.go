// Package resample implements a stateful polyphase resampler that
// converts the 228 kHz internal MPX rate to a configurable output
// rate (192 kHz by default).
package resample

import "math"

// Phases is the number of polyphase branches the prototype lowpass
// filter is decomposed into.
const Phases = 64

// TapsPerPhase is the filter length contributed by each polyphase
// branch; the prototype filter is Phases*TapsPerPhase taps long.
// Satisfies the ≥48-tap-per-branch quality floor.
const TapsPerPhase = 48

// stopbandAttenDB is the target stopband attenuation used to pick the
// Kaiser window's beta parameter.
const stopbandAttenDB = 80.0

// Resampler converts a stream at InRate to OutRate using a windowed-
// sinc polyphase filter bank. It is stateful: history from one
// Process call carries into the next, so callers may feed it in
// arbitrarily sized chunks and get a continuous, glitch-free output.
type Resampler struct {
	InRate, OutRate float64
	ratio           float64 // OutRate / InRate

	filter [][]float64 // [Phases][TapsPerPhase]

	buf []float64 // unconsumed history + pending input, oldest first
	pos float64   // absolute fractional index into buf of the next output sample
}

// New builds a Resampler for the given input and output rates.
func New(inRate, outRate float64) *Resampler {
	r := &Resampler{
		InRate:  inRate,
		OutRate: outRate,
		ratio:   outRate / inRate,
	}
	r.filter = buildPolyphaseFilter(inRate, outRate, Phases, TapsPerPhase, stopbandAttenDB)
	// zero history, so the very first input sample already yields output
	r.buf = make([]float64, TapsPerPhase-1)
	r.pos = float64(TapsPerPhase - 1)
	return r
}

// Process appends in to the resampler's pending input and returns as
// many output frames as the newly available data supports. The
// number of frames returned approximates len(in) * ratio; the exact
// count varies by at most a couple of frames depending on how much
// history has already accumulated, per the polyphase filter's fixed
// group delay.
func (r *Resampler) Process(in []float64) []float64 {
	r.buf = append(r.buf, in...)

	var out []float64
	for {
		base := int(math.Floor(r.pos))
		if base >= len(r.buf) || base < TapsPerPhase-1 {
			break
		}
		frac := r.pos - float64(base)
		phase := int(frac * float64(Phases))
		if phase >= Phases {
			phase = Phases - 1
		}
		coeffs := r.filter[phase]
		var acc float64
		for k := 0; k < TapsPerPhase; k++ {
			acc += coeffs[k] * r.buf[base-k]
		}
		out = append(out, acc)
		r.pos += 1.0 / r.ratio
	}

	// Keep only the trailing TapsPerPhase-1 samples of history needed
	// by the next call so buf does not grow without bound.
	trim := int(math.Floor(r.pos)) - (TapsPerPhase - 1)
	if trim > 0 {
		if trim > len(r.buf) {
			trim = len(r.buf)
		}
		r.buf = r.buf[trim:]
		r.pos -= float64(trim)
	}
	return out
}

// buildPolyphaseFilter designs a windowed-sinc lowpass prototype of
// length phases*taps, cut at min(inRate, outRate)/2, and decomposes
// it into per-phase coefficient sets: filter[p][k] is the prototype
// tap at index p + k*phases.
func buildPolyphaseFilter(inRate, outRate float64, phases, taps int, attenDB float64) [][]float64 {
	protoLen := phases * taps
	center := float64(protoLen-1) / 2
	cutoff := 0.5
	if outRate < inRate {
		cutoff = 0.5 * outRate / inRate
	}
	beta := kaiserBeta(attenDB)

	proto := make([]float64, protoLen)
	for i := range proto {
		n := float64(i) - center
		proto[i] = 2 * cutoff * sinc(2*cutoff*n/float64(phases)) * kaiserWindow(float64(i), float64(protoLen-1), beta)
	}

	filter := make([][]float64, phases)
	for p := 0; p < phases; p++ {
		branch := make([]float64, taps)
		var sum float64
		for k := 0; k < taps; k++ {
			idx := p + k*phases
			if idx < protoLen {
				branch[k] = proto[idx]
			}
			sum += branch[k]
		}
		// normalize each branch so a DC input passes at unity gain
		if sum != 0 {
			for k := range branch {
				branch[k] /= sum
			}
		}
		filter[p] = branch
	}
	return filter
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// kaiserBeta estimates the Kaiser window's beta shape parameter from
// a target stopband attenuation, in dB (Oppenheim & Schafer's
// standard approximation).
func kaiserBeta(attenDB float64) float64 {
	switch {
	case attenDB > 50:
		return 0.1102 * (attenDB - 8.7)
	case attenDB >= 21:
		return 0.5842*math.Pow(attenDB-21, 0.4) + 0.07886*(attenDB-21)
	default:
		return 0
	}
}

func kaiserWindow(n, lastIndex, beta float64) float64 {
	if lastIndex == 0 {
		return 1
	}
	half := lastIndex / 2
	r := (n - half) / half
	arg := beta * math.Sqrt(1-r*r)
	return besselI0(arg) / besselI0(beta)
}

// besselI0 computes the zeroth-order modified Bessel function of the
// first kind via the standard polynomial series approximation.
func besselI0(x float64) float64 {
	ax := math.Abs(x)
	if ax < 3.75 {
		t := x / 3.75
		t2 := t * t
		return 1 + t2*(3.5156229+t2*(3.0899424+t2*(1.2067492+
			t2*(0.2659732+t2*(0.0360768+t2*0.0045813)))))
	}
	t := 3.75 / ax
	return (math.Exp(ax) / math.Sqrt(ax)) * (0.39894228 + t*(0.01328592+
		t*(0.00225319+t*(-0.00157565+t*(0.00916281+
			t*(-0.02057706+t*(0.02635537+t*(-0.01647633+t*0.00392377))))))))
}
