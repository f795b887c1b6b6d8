// Package generator runs the per-iteration pipeline that turns the
// Program Information Store into output PCM: group sequencing,
// biphase shaping, carrier modulation, mixing, resampling, and
// packing, draining the control command queue between iterations.
package generator

import (
	"context"
	"sync/atomic"

	"github.com/minirds/minirds/pkg/biphase"
	"github.com/minirds/minirds/pkg/control"
	"github.com/minirds/minirds/pkg/group"
	"github.com/minirds/minirds/pkg/metrics"
	"github.com/minirds/minirds/pkg/mpx"
	"github.com/minirds/minirds/pkg/oscillator"
	"github.com/minirds/minirds/pkg/pcm"
	"github.com/minirds/minirds/pkg/resample"
)

// Sink is a blocking PCM writer: the generator relies on Write
// blocking when the sink's internal buffer is full for backpressure.
// A non-nil error stops the generator cleanly.
type Sink interface {
	Write(frames []byte) error
}

// Config controls the generator's per-iteration batch size and
// output sample rate.
type Config struct {
	// MPXSamplesPerIteration is how many 228 kHz baseband samples are
	// produced (and resampled, packed, and written) per loop
	// iteration.
	MPXSamplesPerIteration int
	// OutputRate is the resampler's target rate, e.g. 192000.
	OutputRate int
	// CommandQuota bounds how many pending control payloads are
	// drained per iteration so a burst of commands never starves the
	// audio clock.
	CommandQuota int
}

// DefaultConfig returns the spec's default batch size (10ms worth of
// 228 kHz samples) and 192 kHz output rate.
func DefaultConfig() Config {
	return Config{
		MPXSamplesPerIteration: 2280,
		OutputRate:             192000,
		CommandQuota:           64,
	}
}

// Generator owns the whole per-iteration pipeline.
type Generator struct {
	cfg    Config
	seq    *group.Sequencer
	enc    *biphase.Encoder
	osc    *oscillator.Bank
	mix    *mpx.Mixer
	rs     *resample.Resampler
	sink    Sink
	disp    *control.Dispatcher
	cmds    chan string
	stop    atomic.Bool
	metrics *metrics.Collector

	bits         []int
	bitPos       int
	curSamples   []float64
	curSampleIdx int
}

// New builds a Generator. disp applies drained control payloads to
// the Program Information Store; cmds is the bounded SPSC queue the
// control transports post payloads into.
func New(cfg Config, seq *group.Sequencer, mix *mpx.Mixer, sink Sink, disp *control.Dispatcher, cmds chan string) *Generator {
	return &Generator{
		cfg:  cfg,
		seq:  seq,
		enc:  biphase.NewEncoder(),
		osc:  oscillator.New(),
		mix:  mix,
		rs:   resample.New(oscillator.SampleRate, float64(cfg.OutputRate)),
		sink: sink,
		disp: disp,
		cmds: cmds,
	}
}

// Stop requests the generator loop exit after its current iteration.
func (g *Generator) Stop() {
	g.stop.Store(true)
}

// SetMetrics attaches a metrics collector; nil (the default) disables
// metrics recording entirely.
func (g *Generator) SetMetrics(m *metrics.Collector) {
	g.metrics = m
}

// Run executes the generator loop until ctx is canceled, Stop is
// called, or the sink returns a write error. It returns the sink
// error, if any, or nil on a clean stop.
func (g *Generator) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil || g.stop.Load() {
			return nil
		}

		g.drainCommands()

		mpxSamples := make([]float64, g.cfg.MPXSamplesPerIteration)
		var clipped uint64
		for i := range mpxSamples {
			var c bool
			mpxSamples[i], c = g.nextMPXSample()
			if c {
				clipped++
			}
		}
		if g.metrics != nil {
			g.metrics.SamplesGenerated(uint64(len(mpxSamples)), clipped)
		}

		outSamples := g.rs.Process(mpxSamples)
		frames := pcm.Pack(nil, outSamples)

		err := g.sink.Write(frames)
		if g.metrics != nil {
			g.metrics.SinkWrite(len(frames), err)
		}
		if err != nil {
			return err
		}
	}
}

// drainCommands applies up to CommandQuota pending control payloads,
// non-blocking, so a burst of inbound commands never stalls audio.
func (g *Generator) drainCommands() {
	for i := 0; i < g.cfg.CommandQuota; i++ {
		select {
		case payload := <-g.cmds:
			g.disp.Apply(payload)
		default:
			return
		}
	}
}

// nextMPXSample produces one 228 kHz baseband sample, pulling the
// next RDS bit (and, when that bit's samples run out, the next
// group) as needed. The same shaped bit modulates all three RDS2
// subcarriers in addition to the primary 57 kHz carrier: this
// generator carries one logical group stream, repeated across every
// subcarrier rather than splitting capacity across independent RDS2
// channels.
func (g *Generator) nextMPXSample() (float64, bool) {
	if g.curSampleIdx >= len(g.curSamples) {
		bit := g.nextBit()
		g.curSamples = g.enc.EncodeBit(bit)
		g.curSampleIdx = 0
	}
	rdsSample := g.curSamples[g.curSampleIdx]
	g.curSampleIdx++

	carriers := g.osc.Next()
	return g.mix.Sample(carriers, rdsSample, [3]float64{rdsSample, rdsSample, rdsSample})
}

func (g *Generator) nextBit() int {
	if g.bitPos >= len(g.bits) {
		next := g.seq.Next()
		if g.metrics != nil {
			g.metrics.GroupEmitted(next.TypeLabel())
		}
		g.bits = groupBits(next)
		g.bitPos = 0
	}
	b := g.bits[g.bitPos]
	g.bitPos++
	return b
}
