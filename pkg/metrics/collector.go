package metrics

import (
	"sync"
)

// Collector collects MiniRDS generator metrics.
type Collector struct {
	mu sync.RWMutex

	groupsByType map[string]uint64

	commandsApplied  uint64
	commandsRejected uint64

	samplesGenerated uint64
	samplesClipped   uint64

	sinkWrites uint64
	sinkBytes  uint64
	sinkErrors uint64

	volumePercent int
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		groupsByType:  make(map[string]uint64),
		volumePercent: 100,
	}
}

// GroupEmitted records an emitted RDS group, keyed by its type label
// (e.g. "0A", "2A", "3A", "10A", "11A", "12A", "15A").
func (c *Collector) GroupEmitted(groupType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groupsByType[groupType]++
}

// CommandApplied records a successfully applied control command.
func (c *Collector) CommandApplied() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commandsApplied++
}

// CommandRejected records a rejected control command.
func (c *Collector) CommandRejected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commandsRejected++
}

// SamplesGenerated records a batch of MPX samples produced, and how
// many of them clipped to the ±1.0 rail.
func (c *Collector) SamplesGenerated(count, clipped uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samplesGenerated += count
	c.samplesClipped += clipped
}

// SinkWrite records a PCM frame write to the active sink.
func (c *Collector) SinkWrite(bytes int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinkWrites++
	c.sinkBytes += uint64(bytes)
	if err != nil {
		c.sinkErrors++
	}
}

// SetVolume records the current master volume percentage.
func (c *Collector) SetVolume(percent int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volumePercent = percent
}

// Reset clears cumulative counters. Useful for testing.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groupsByType = make(map[string]uint64)
	c.commandsApplied = 0
	c.commandsRejected = 0
	c.samplesGenerated = 0
	c.samplesClipped = 0
	c.sinkWrites = 0
	c.sinkBytes = 0
	c.sinkErrors = 0
}

// GetGroupsByType returns a copy of the per-type group emission counts.
func (c *Collector) GetGroupsByType() map[string]uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]uint64, len(c.groupsByType))
	for k, v := range c.groupsByType {
		out[k] = v
	}
	return out
}

// GetCommandsApplied returns the count of applied commands.
func (c *Collector) GetCommandsApplied() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.commandsApplied
}

// GetCommandsRejected returns the count of rejected commands.
func (c *Collector) GetCommandsRejected() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.commandsRejected
}

// GetSamplesGenerated returns the count of MPX samples generated.
func (c *Collector) GetSamplesGenerated() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.samplesGenerated
}

// GetSamplesClipped returns the count of MPX samples that clipped.
func (c *Collector) GetSamplesClipped() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.samplesClipped
}

// GetSinkWrites returns the count of sink write calls.
func (c *Collector) GetSinkWrites() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sinkWrites
}

// GetSinkBytes returns the cumulative bytes written to the sink.
func (c *Collector) GetSinkBytes() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sinkBytes
}

// GetSinkErrors returns the count of sink write errors.
func (c *Collector) GetSinkErrors() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sinkErrors
}

// GetVolume returns the last recorded master volume percentage.
func (c *Collector) GetVolume() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.volumePercent
}
