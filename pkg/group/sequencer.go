package group

import (
	"strings"

	"github.com/minirds/minirds/pkg/station"
)

// feature identifies one of the optional group slots competing for
// the non-0A, non-2A emission turn, in the tie-break priority order
// component 4.C specifies: PTYN > RT+ > eRT > LPS > ODA/RFT.
type feature int

const (
	featurePTYN feature = iota
	featureRTPlus
	featureERT
	featureLPS
	featureRFT
	featureCount
)

// Sequencer produces the infinite stream of RDS groups a station's
// Program Information Store describes. It snapshots the store once
// per group (never once per block) so a concurrent mutation is never
// observed mid-group, and it never blocks or fails: an empty optional
// field simply yields its turn to whichever feature is next due.
type Sequencer struct {
	store *station.Store

	groupCount uint64

	psSeg  int
	afIdx  int
	rtSeg  int
	ptynSeg int
	lpsSeg int
	ertSeg int
	rftIdx int
	rftImg *station.RFTImage

	optCursor feature
}

// New creates a sequencer reading from the given Program Information
// Store.
func New(store *station.Store) *Sequencer {
	return &Sequencer{store: store}
}

// Next produces the next 104-bit group from a repeating 4-slot cycle:
// 0A, 2A, 0A, then an optional feature (PTYN, RT+, eRT, LPS, or the
// RFT/ODA carrier) if one is due and has content, else 2A again. 0A
// always takes half the slots (so a full PS cycles every 4 of its
// emissions); 2A is guaranteed at least one slot in four so RadioText
// keeps flowing even while an optional feature saturates the fourth.
func (sq *Sequencer) Next() Group {
	p := sq.store.Params()
	sq.groupCount++

	switch sq.groupCount % 4 {
	case 1, 3:
		return sq.emit0A(p)
	case 2:
		return sq.emit2A(p)
	default: // 0
		if g, ok := sq.emitOptional(p); ok {
			return g
		}
		return sq.emit2A(p)
	}
}

func (sq *Sequencer) emit0A(p station.Params) Group {
	seg := sq.psSeg
	sq.psSeg = (sq.psSeg + 1) % 4
	pair := afPair(p.AF, sq.afIdx)
	if len(p.AF) > 0 {
		sq.afIdx = (sq.afIdx + 1) % len(p.AF)
	}
	return Group0A(p.PI, p.TP, p.TA, p.MS, p.DI, p.PTY, seg, pair, p.PS[seg*2:seg*2+2])
}

func (sq *Sequencer) emit2A(p station.Params) Group {
	seg := sq.rtSeg
	sq.rtSeg = (sq.rtSeg + 1) % 16
	return Group2A(p.PI, p.TP, p.PTY, p.RTAB, seg, p.RT)
}

// emitOptional scans the five optional feature slots in round-robin
// order starting at the cursor's current position, returning the
// first one with content to send.
func (sq *Sequencer) emitOptional(p station.Params) (Group, bool) {
	for i := feature(0); i < featureCount; i++ {
		f := (sq.optCursor + i) % featureCount
		if g, ok := sq.tryEmit(p, f); ok {
			sq.optCursor = (f + 1) % featureCount
			return g, true
		}
	}
	return Group{}, false
}

func (sq *Sequencer) tryEmit(p station.Params, f feature) (Group, bool) {
	switch f {
	case featurePTYN:
		if strings.TrimSpace(p.PTYN) == "" {
			return Group{}, false
		}
		seg := sq.ptynSeg
		sq.ptynSeg = (sq.ptynSeg + 1) % 2
		return Group10A(p.PI, p.TP, p.PTY, p.PTYNAB, seg, p.PTYN), true

	case featureRTPlus:
		if !p.RTPlusRunning {
			return Group{}, false
		}
		return Group15A(p.PI, p.TP, p.PTY, p.RTPlusToggle, p.RTPlusRunning,
			p.RTPlus.Type1, p.RTPlus.Start1, p.RTPlus.Type2, p.RTPlus.Start2), true

	case featureERT:
		if strings.TrimSpace(p.ERT) == "" {
			return Group{}, false
		}
		seg := sq.ertSeg
		sq.ertSeg = (sq.ertSeg + 1) % 32
		return Group12A(p.PI, p.TP, p.PTY, seg, p.ERT), true

	case featureLPS:
		if strings.TrimSpace(p.LPS) == "" {
			return Group{}, false
		}
		seg := sq.lpsSeg
		sq.lpsSeg = (sq.lpsSeg + 1) % 8
		return Group11A(p.PI, p.TP, p.PTY, seg, p.LPS), true

	case featureRFT:
		if p.RFT == nil {
			return Group{}, false
		}
		if p.RFT != sq.rftImg {
			sq.rftImg = p.RFT
			sq.rftIdx = 0
		}
		idx := sq.rftIdx % p.RFT.Segments
		sq.rftIdx = (sq.rftIdx + 1) % p.RFT.Segments
		chunk := p.RFT.Segment(idx)
		var fragment byte
		if len(chunk) > 0 {
			fragment = chunk[0]
		}
		// one fragment byte per emission; idx occupies the high byte so
		// every segment index 0..Segments-1 is observable on the wire.
		return Group3A(p.PI, p.TP, p.PTY, AIDRFT, uint16(idx)<<8|uint16(fragment)), true
	}
	return Group{}, false
}
