package group

import (
	"testing"

	"github.com/minirds/minirds/pkg/rdscrc"
)

func TestGroup0ABlockAPI(t *testing.T) {
	g := Group0A(0x1ABC, false, false, true, false, 5, 0, [2]byte{0x51, 0x6B}, "AB")
	if g.A.Info != 0x1ABC {
		t.Fatalf("block A info = %#x, want 0x1ABC", g.A.Info)
	}
	if !rdscrc.Verify(g.A.Info, g.A.Checkword, rdscrc.BlockA) {
		t.Fatal("block A checkword does not verify")
	}
	if !rdscrc.Verify(g.B.Info, g.B.Checkword, rdscrc.BlockB) {
		t.Fatal("block B checkword does not verify")
	}
	if !rdscrc.Verify(g.C.Info, g.C.Checkword, rdscrc.BlockC) {
		t.Fatal("block C checkword does not verify")
	}
	if !rdscrc.Verify(g.D.Info, g.D.Checkword, rdscrc.BlockD) {
		t.Fatal("block D checkword does not verify")
	}
	wantType := byte(0)
	gotType := byte(g.B.Info >> 12 & 0xF)
	if gotType != wantType {
		t.Fatalf("group type = %d, want %d", gotType, wantType)
	}
}

func TestGroup2ASegmentsCoverSixtyFourChars(t *testing.T) {
	rt := "MiniRDS: Software RDS encoder                                   "
	if len(rt) != 64 {
		t.Fatalf("fixture RT length = %d, want 64", len(rt))
	}
	var rebuilt [64]byte
	for seg := 0; seg < 16; seg++ {
		g := Group2A(0x1ABC, false, 0, false, seg, rt)
		off := seg * 4
		rebuilt[off] = byte(g.C.Info >> 8)
		rebuilt[off+1] = byte(g.C.Info & 0xFF)
		rebuilt[off+2] = byte(g.D.Info >> 8)
		rebuilt[off+3] = byte(g.D.Info & 0xFF)
		if !rdscrc.Verify(g.C.Info, g.C.Checkword, blockOffsetForGroup(Type2A)) {
			t.Fatalf("segment %d: block C checkword does not verify", seg)
		}
	}
	if string(rebuilt[:]) != rt {
		t.Fatalf("reassembled RT = %q, want %q", rebuilt, rt)
	}
}

func TestGroup3ACarriesSegmentAndFragment(t *testing.T) {
	g := Group3A(0x1ABC, false, 0, AIDRFT, uint16(7)<<8|uint16('x'))
	if g.C.Info != AIDRFT {
		t.Fatalf("block C = %#x, want AID %#x", g.C.Info, AIDRFT)
	}
	if !rdscrc.Verify(g.D.Info, g.D.Checkword, rdscrc.BlockD) {
		t.Fatal("block D checkword does not verify")
	}
}

func TestGroup15ARoundTripsTagFields(t *testing.T) {
	g := Group15A(0x1ABC, false, 0, true, true, 1, 5, 4, 20)
	type1 := byte(g.C.Info >> 8 & 0x3F)
	start1 := byte(g.C.Info >> 2 & 0x3F)
	type2 := byte(g.D.Info >> 10 & 0x3F)
	start2 := byte(g.D.Info >> 4 & 0x3F)
	if type1 != 1 || start1 != 5 || type2 != 4 || start2 != 20 {
		t.Fatalf("got type1=%d start1=%d type2=%d start2=%d", type1, start1, type2, start2)
	}
	if g.C.Info>>15&1 != 1 || g.C.Info>>14&1 != 1 {
		t.Fatal("expected toggle and running bits set")
	}
}
