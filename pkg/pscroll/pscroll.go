// Package pscroll drives long station text across the Programme
// Service name's fixed 8-glyph window by cycling through it one word
// (or word-fragment) at a time. Scrolling is deliberately external to
// the generator: the core RDS encoder only ever knows about a single
// static 8-character PS, and pscroll is one of possibly several ways
// to keep refreshing it.
package pscroll

import (
	"context"
	"strings"
	"time"

	"github.com/minirds/minirds/pkg/logger"
	"github.com/minirds/minirds/pkg/station"
)

// Interval is how often the scroller advances to the next chunk.
const Interval = 4 * time.Second

// chunkWidth matches station.PSLength: every chunk is padded or split
// to fit the PS window exactly.
const chunkWidth = station.PSLength

// Scroller cycles a long piece of text through a station's PS field,
// station.PSLength glyphs at a time.
type Scroller struct {
	store  *station.Store
	logger *logger.Logger

	chunks  []string
	current int
}

// New creates a Scroller bound to store. Call SetText to load the
// text to cycle and Run to begin advancing it on a timer.
func New(store *station.Store, log *logger.Logger) *Scroller {
	if log == nil {
		log = logger.New(logger.Config{Level: "info", Format: "text"})
	}
	return &Scroller{store: store, logger: log.WithComponent("pscroll")}
}

// SetText re-chunks text into PS-sized pieces and immediately pushes
// the first chunk to the station store. An empty text clears
// scrolling entirely, leaving PS whatever it was last set to.
func (sc *Scroller) SetText(text string) error {
	sc.chunks = chunkText(text)
	sc.current = 0

	if len(sc.chunks) == 0 {
		return nil
	}
	return sc.store.SetPS(sc.chunks[0])
}

// Chunks returns the current chunk set, for inspection/testing.
func (sc *Scroller) Chunks() []string {
	out := make([]string, len(sc.chunks))
	copy(out, sc.chunks)
	return out
}

// Advance moves to the next chunk and writes it to the station store.
// It is a no-op when there is nothing to scroll through.
func (sc *Scroller) Advance() error {
	if len(sc.chunks) <= 1 {
		return nil
	}
	sc.current = (sc.current + 1) % len(sc.chunks)
	return sc.store.SetPS(sc.chunks[sc.current])
}

// Run advances the scroller on Interval until ctx is canceled.
func (sc *Scroller) Run(ctx context.Context) {
	ticker := time.NewTicker(Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sc.logger.Info("pscroll: stopped")
			return
		case <-ticker.C:
			if err := sc.Advance(); err != nil {
				sc.logger.Warn("pscroll: advance failed", logger.Error(err))
			}
		}
	}
}

// chunkText splits text into chunkWidth-wide chunks, one per word:
// short words are space-padded, words longer than the window are
// broken into dash-terminated fragments.
func chunkText(text string) []string {
	text = strings.TrimRight(text, " \t\r\n")
	if text == "" {
		return nil
	}

	var chunks []string
	for _, word := range strings.Fields(text) {
		if len(word) <= chunkWidth {
			chunks = append(chunks, padRight(word, chunkWidth))
			continue
		}
		for pos := 0; pos < len(word); {
			rem := len(word) - pos
			if rem <= chunkWidth {
				chunks = append(chunks, padRight(word[pos:], chunkWidth))
				break
			}
			chunks = append(chunks, word[pos:pos+chunkWidth-1]+"-")
			pos += chunkWidth - 1
		}
	}
	return chunks
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
