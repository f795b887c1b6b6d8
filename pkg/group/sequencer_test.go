package group

import (
	"testing"

	"github.com/minirds/minirds/pkg/station"
)

func newStationWithRT(t *testing.T, rt string) *station.Store {
	t.Helper()
	s := station.New()
	s.SetPI(0x1ABC)
	if got := s.Params().PI; got != 0x1ABC {
		t.Fatalf("PI = %#x, want 0x1ABC", got)
	}
	if err := s.SetRT(rt); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSequencerDefaultRTDecodesAfterSixteenGroups(t *testing.T) {
	want := "MiniRDS: Software RDS encoder" + spaces(64-len("MiniRDS: Software RDS encoder"))
	s := newStationWithRT(t, "MiniRDS: Software RDS encoder")
	sq := New(s)

	var rebuilt [64]byte
	seen := 0
	for i := 0; i < 200 && seen < 16; i++ {
		g := sq.Next()
		if byte(g.B.Info>>12&0xF) != 2 {
			continue
		}
		seg := int(g.B.Info & 0xF)
		off := seg * 4
		rebuilt[off] = byte(g.C.Info >> 8)
		rebuilt[off+1] = byte(g.C.Info & 0xFF)
		rebuilt[off+2] = byte(g.D.Info >> 8)
		rebuilt[off+3] = byte(g.D.Info & 0xFF)
		seen++
	}
	if seen != 16 {
		t.Fatalf("only observed %d group-2A emissions in 200 groups", seen)
	}
	if string(rebuilt[:]) != want {
		t.Fatalf("decoded RT = %q, want %q", rebuilt, want)
	}
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func TestSequencerPSUpdateVisibleWithinFourZeroAEmissions(t *testing.T) {
	s := station.New()
	s.SetPI(0x1ABC)
	s.SetPS("Hello")

	sq := New(s)
	var rebuilt [8]byte
	zeroACount := 0
	for i := 0; i < 50 && zeroACount < 4; i++ {
		g := sq.Next()
		if byte(g.B.Info>>12&0xF) != 0 {
			continue
		}
		seg := int(g.B.Info & 0x3)
		rebuilt[seg*2] = byte(g.D.Info >> 8)
		rebuilt[seg*2+1] = byte(g.D.Info & 0xFF)
		zeroACount++
	}
	if zeroACount != 4 {
		t.Fatalf("only observed %d group-0A emissions", zeroACount)
	}
	if string(rebuilt[:]) != "Hello   " {
		t.Fatalf("decoded PS = %q, want %q", rebuilt, "Hello   ")
	}
}

func TestSequencerPICarriedInBlockA(t *testing.T) {
	s := station.New()
	s.SetPI(0x1ABC)
	sq := New(s)
	for i := 0; i < 10; i++ {
		g := sq.Next()
		if g.A.Info != 0x1ABC {
			t.Fatalf("group %d: block A = %#x, want 0x1ABC", i, g.A.Info)
		}
	}
}

func TestSequencerAFCyclesThroughAllEntries(t *testing.T) {
	s := station.New()
	s.SetPI(0x1ABC)
	s.AddAF(98.1)
	s.AddAF(101.3)

	sq := New(s)
	seen := map[byte]bool{}
	zeroACount := 0
	for i := 0; i < 50 && zeroACount < 3; i++ {
		g := sq.Next()
		if byte(g.B.Info>>12&0xF) != 0 {
			continue
		}
		seen[byte(g.C.Info>>8)] = true
		seen[byte(g.C.Info&0xFF)] = true
		zeroACount++
	}
	if len(seen) != 2 {
		t.Fatalf("observed %d distinct AF codes across 3 group-0A emissions, want 2: %v", len(seen), seen)
	}
}

func TestSequencerRFTVisitsEverySegment(t *testing.T) {
	s := station.New()
	s.SetPI(0x1ABC)
	data := make([]byte, 8192)
	for i := range data {
		data[i] = byte(i)
	}
	if err := s.SetRFTImage(data); err != nil {
		t.Fatal(err)
	}

	sq := New(s)
	wantSegments := (len(data) + station.RFTSegmentSize - 1) / station.RFTSegmentSize
	seen := make(map[int]bool)
	budget := wantSegments*4 + 20 // generous: 3A only wins every ~4th group here
	for i := 0; i < budget && len(seen) < wantSegments; i++ {
		g := sq.Next()
		if byte(g.B.Info>>12&0xF) != 3 {
			continue
		}
		idx := int(g.D.Info >> 8)
		seen[idx] = true
	}
	if len(seen) != wantSegments {
		t.Fatalf("visited %d of %d segments within budget", len(seen), wantSegments)
	}
}

func TestSequencerRFTReplacementResetsCursor(t *testing.T) {
	s := station.New()
	s.SetPI(0x1ABC)
	if err := s.SetRFTImage(make([]byte, 8192)); err != nil {
		t.Fatal(err)
	}

	sq := New(s)
	// Advance partway into the first image's transmission.
	for i := 0; i < 40; i++ {
		sq.Next()
	}
	if sq.rftIdx == 0 {
		t.Fatal("expected rftIdx to have advanced past 0")
	}

	if err := s.SetRFTImage(make([]byte, 512)); err != nil {
		t.Fatal(err)
	}

	g := sq.Next()
	for byte(g.B.Info>>12&0xF) != 3 {
		g = sq.Next()
	}
	idx := int(g.D.Info >> 8)
	if idx != 0 {
		t.Fatalf("first segment emitted after replacement = %d, want 0", idx)
	}
}
