// Package group assembles RDS groups: four 26-bit blocks, each a
// 16-bit payload word plus a 10-bit checkword computed over the
// payload and XORed with the block's offset word (pkg/rdscrc).
package group

import (
	"fmt"

	"github.com/minirds/minirds/pkg/rdscrc"
)

// Block is one 26-bit RDS block: a 16-bit info word and its checkword.
type Block struct {
	Info      uint16
	Checkword uint16
}

func makeBlock(info uint16, offset rdscrc.Block) Block {
	return Block{Info: info, Checkword: rdscrc.Checkword(info, offset)}
}

// Group is one complete 104-bit RDS group: four blocks addressed A,
// B, C (or C'), D.
type Group struct {
	A, B, C, D Block
}

// Type identifies an RDS group type code and version, e.g. 0A, 2A.
type Type struct {
	Code    byte // 0..15
	Version byte // 'A' or 'B'
}

// String renders a Type as its conventional label, e.g. "0A", "15B".
func (t Type) String() string {
	return fmt.Sprintf("%d%c", t.Code, t.Version)
}

// TypeLabel decodes a Group's type code and version straight from its
// wire-packed block B, for metrics and logging labels.
func (g Group) TypeLabel() string {
	code := byte(g.B.Info >> 12 & 0xF)
	version := byte('A')
	if g.B.Info>>11&0x1 == 1 {
		version = 'B'
	}
	return Type{Code: code, Version: version}.String()
}

var (
	Type0A  = Type{0, 'A'}
	Type2A  = Type{2, 'A'}
	Type3A  = Type{3, 'A'}
	Type10A = Type{10, 'A'}
	Type11A = Type{11, 'A'}
	Type12A = Type{12, 'A'}
	Type15A = Type{15, 'A'}
)

// blockOffsetForGroup returns the offset word a group's block C (or
// C') uses: version B groups use C', all others use C.
func blockOffsetForGroup(t Type) rdscrc.Block {
	if t.Version == 'B' {
		return rdscrc.BlockCPrime
	}
	return rdscrc.BlockC
}

// blockB packs block B's info word: group type code (4 bits),
// version (1 bit, 0=A/1=B), TP (1 bit), PTY (5 bits), and 5
// group-specific bits.
func blockB(t Type, tp bool, pty int, extra5 uint16) uint16 {
	var v uint16
	if t.Version == 'B' {
		v = 1
	}
	var tpBit uint16
	if tp {
		tpBit = 1
	}
	return (uint16(t.Code)&0xF)<<12 | v<<11 | tpBit<<10 | (uint16(pty)&0x1F)<<5 | (extra5 & 0x1F)
}

// charPair packs two ASCII glyphs into one 16-bit block, high byte
// first, matching RDS's big-endian-within-block character packing.
func charPair(s string, i int) uint16 {
	var a, b byte = ' ', ' '
	if i < len(s) {
		a = s[i]
	}
	if i+1 < len(s) {
		b = s[i+1]
	}
	return uint16(a)<<8 | uint16(b)
}

// assemble builds the common A/B skeleton shared by every group type:
// block A always carries PI, block B always carries the type code,
// version, TP, PTY and the type-specific 5 extra bits.
func assemble(pi uint16, t Type, tp bool, pty int, extra5 uint16) (a, b Block) {
	a = makeBlock(pi, rdscrc.BlockA)
	b = makeBlock(blockB(t, tp, pty, extra5), rdscrc.BlockB)
	return
}

// Group0A builds a basic-tuning-and-AF group: segment addresses
// 0..3 of the Programme Service name, one pair of coded Alternative
// Frequencies per emission, and the TA/MS/DI flags.
func Group0A(pi uint16, tp, ta, ms, di bool, pty, segment int, afPair [2]byte, psChars string) Group {
	var taB, msB, diB uint16
	if ta {
		taB = 1
	}
	if ms {
		msB = 1
	}
	if di {
		diB = 1
	}
	extra5 := taB<<4 | msB<<3 | diB<<2 | uint16(segment&0x3)
	a, b := assemble(pi, Type0A, tp, pty, extra5)
	c := makeBlock(uint16(afPair[0])<<8|uint16(afPair[1]), blockOffsetForGroup(Type0A))
	d := makeBlock(charPair(psChars, 0), rdscrc.BlockD)
	return Group{A: a, B: b, C: c, D: d}
}

// Group2A builds a RadioText segment group: 4 characters (2 per
// block) at the given 0..15 segment address, with the RT A/B toggle.
func Group2A(pi uint16, tp bool, pty int, ab bool, segment int, rt string) Group {
	var abBit uint16
	if ab {
		abBit = 1
	}
	extra5 := abBit<<4 | uint16(segment&0xF)
	a, b := assemble(pi, Type2A, tp, pty, extra5)
	off := segment * 4
	c := makeBlock(charPair(rt, off), blockOffsetForGroup(Type2A))
	d := makeBlock(charPair(rt, off+2), rdscrc.BlockD)
	return Group{A: a, B: b, C: c, D: d}
}

// ODA application identifiers used by Group3A to announce which
// extension is active.
const (
	AIDRTPlus = 0x4BD7
	AIDERT    = 0x6552
	AIDLPS    = 0x4C50
	AIDRFT    = 0x5246
)

// Group3A announces an Open Data Application, or — repurposed as the
// RFT carrier per the wire format — transmits one (segment index,
// fragment) pair of the currently-loaded image.
func Group3A(pi uint16, tp bool, pty int, aid uint16, payload uint16) Group {
	a, b := assemble(pi, Type3A, tp, pty, 0)
	c := makeBlock(aid, blockOffsetForGroup(Type3A))
	d := makeBlock(payload, rdscrc.BlockD)
	return Group{A: a, B: b, C: c, D: d}
}

// Group10A builds a PTY Name segment group: 4 characters at 1-bit
// segment address 0 or 1, with the PTYN A/B toggle.
func Group10A(pi uint16, tp bool, pty int, ab bool, segment int, ptyn string) Group {
	var abBit uint16
	if ab {
		abBit = 1
	}
	extra5 := abBit<<4 | uint16(segment&0x1)
	a, b := assemble(pi, Type10A, tp, pty, extra5)
	off := segment * 4
	c := makeBlock(charPair(ptyn, off), blockOffsetForGroup(Type10A))
	d := makeBlock(charPair(ptyn, off+2), rdscrc.BlockD)
	return Group{A: a, B: b, C: c, D: d}
}

// Group11A builds a Long PS segment group: 4 characters at a 0..7
// segment address.
func Group11A(pi uint16, tp bool, pty int, segment int, lps string) Group {
	extra5 := uint16(segment & 0x7)
	a, b := assemble(pi, Type11A, tp, pty, extra5)
	off := segment * 4
	c := makeBlock(charPair(lps, off), blockOffsetForGroup(Type11A))
	d := makeBlock(charPair(lps, off+2), rdscrc.BlockD)
	return Group{A: a, B: b, C: c, D: d}
}

// Group12A builds an enhanced RadioText segment group: 4 characters
// at a 0..31 segment address.
func Group12A(pi uint16, tp bool, pty int, segment int, ert string) Group {
	extra5 := uint16(segment & 0x1F)
	a, b := assemble(pi, Type12A, tp, pty, extra5)
	off := segment * 4
	c := makeBlock(charPair(ert, off), blockOffsetForGroup(Type12A))
	d := makeBlock(charPair(ert, off+2), rdscrc.BlockD)
	return Group{A: a, B: b, C: c, D: d}
}

// Group15A builds an RT+ tag group: item toggle/running flags and
// both content-type/start-marker pairs. Tag lengths are not carried
// on the wire; a receiver derives extent from the next tag's start
// or end-of-field.
func Group15A(pi uint16, tp bool, pty int, toggle, running bool, type1, start1, type2, start2 byte) Group {
	a, b := assemble(pi, Type15A, tp, pty, 0)
	var t, r uint16
	if toggle {
		t = 1
	}
	if running {
		r = 1
	}
	cInfo := t<<15 | r<<14 | uint16(type1&0x3F)<<8 | uint16(start1&0x3F)<<2
	dInfo := uint16(type2&0x3F)<<10 | uint16(start2&0x3F)<<4
	c := makeBlock(cInfo, blockOffsetForGroup(Type15A))
	d := makeBlock(dInfo, rdscrc.BlockD)
	return Group{A: a, B: b, C: c, D: d}
}
