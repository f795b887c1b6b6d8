// Package station holds the mutable, process-wide Program Information
// (PI-state) the group sequencer reads and the control command parser
// mutates: PI, PS, RT, PTY, PTYN, TP/TA/MS/DI, AF list, RDS2 LPS/eRT,
// RT+ tags, and the RFT image.
//
// Store is the single shared piece of mutable state in the whole
// pipeline (spec section 5): one mutex guards every scalar field, held
// only for the duration of a read or write, never across a sink
// write or a group emission. The RFT image is the one field excluded
// from that mutex: it is swapped behind an atomic pointer so a
// multi-megabyte replace never blocks a snapshot.
package station

import (
	"fmt"
	"hash/crc32"
	"sync"
	"sync/atomic"

	"github.com/minirds/minirds/pkg/xlat"
)

const (
	// MaxAF is the largest number of Alternative Frequency entries
	// a station may advertise.
	MaxAF = 25
	// MaxPTY is the largest valid Programme Type code.
	MaxPTY = 31
	// PSLength is the fixed glyph width of the Programme Service name.
	PSLength = 8
	// RTLength is the fixed glyph width of RadioText.
	RTLength = 64
	// PTYNLength is the fixed glyph width of the PTY name.
	PTYNLength = 8
	// MaxLPSLength is the longest RDS2 Long PS string accepted.
	MaxLPSLength = 32
	// MaxERTLength is the longest RDS2 enhanced RadioText accepted.
	MaxERTLength = 128
	// RFTSegmentSize is the wire chunk size for RFT image transfer.
	RFTSegmentSize = 163

	minAFMHz = 87.6
	maxAFMHz = 107.9
)

// RTPlusTags carries the two RT+ tag tuples a station announces, plus
// the item-running and toggle bits the group sequencer must mirror
// into the RT+ ODA group unchanged.
type RTPlusTags struct {
	Type1, Start1, Len1 byte
	Type2, Start2, Len2 byte

	runningFlag bool
	toggleFlag  bool
}

// RFTImage is an immutable station-logo payload: once constructed it
// is never mutated in place, only replaced, so it is safe to share
// via an atomic pointer without copying.
type RFTImage struct {
	Data     []byte
	CRC32    uint32
	Segments int // number of RFTSegmentSize-byte chunks, ceil(len(Data)/RFTSegmentSize)
}

// Segment returns the i'th RFTSegmentSize-byte chunk (the last one
// short-padded with zero as needed by the caller), cycling modulo the
// image's segment count.
func (img *RFTImage) Segment(i int) []byte {
	if img == nil || img.Segments == 0 {
		return nil
	}
	idx := i % img.Segments
	start := idx * RFTSegmentSize
	end := start + RFTSegmentSize
	if end > len(img.Data) {
		end = len(img.Data)
	}
	return img.Data[start:end]
}

func newRFTImage(data []byte) *RFTImage {
	segs := (len(data) + RFTSegmentSize - 1) / RFTSegmentSize
	return &RFTImage{
		Data:     data,
		CRC32:    crc32.ChecksumIEEE(data),
		Segments: segs,
	}
}

// Params is a consistent, independent snapshot of the PI-state,
// returned by Store.Params. Mutating a Params value never affects the
// Store it was copied from.
type Params struct {
	PI   uint16
	PS   string
	RT   string
	RTAB bool
	PTY  int
	PTYN string
	PTYNAB bool
	TP, TA, MS, DI bool
	AF   []float64

	LPS           string
	ERT           string
	ERTCharset    byte
	RTPlus        RTPlusTags
	RTPlusRunning bool
	RTPlusToggle  bool

	RFT *RFTImage
}

// Store is the mutex-guarded Program Information Store.
type Store struct {
	mu sync.RWMutex

	pi     uint16
	ps     string
	rt     string
	rtAB   bool
	pty    int
	ptyn   string
	ptynAB bool
	tp, ta, ms, di bool
	af     []float64

	lps        string
	ert        string
	ertCharset byte
	rtPlus     RTPlusTags

	rft atomic.Pointer[RFTImage]
}

// New creates a Store with spec-compliant zero defaults: PS/PTYN
// space-padded to their fixed width, RT space-padded to 64 glyphs.
func New() *Store {
	s := &Store{
		ps:   xlat.PadRight("", PSLength),
		rt:   xlat.PadRight("", RTLength),
		ptyn: xlat.PadRight("", PTYNLength),
	}
	return s
}

// Params returns a consistent copy of the entire PI-state.
func (s *Store) Params() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	af := make([]float64, len(s.af))
	copy(af, s.af)
	return Params{
		PI:     s.pi,
		PS:     s.ps,
		RT:     s.rt,
		RTAB:   s.rtAB,
		PTY:    s.pty,
		PTYN:   s.ptyn,
		PTYNAB: s.ptynAB,
		TP:     s.tp,
		TA:     s.ta,
		MS:     s.ms,
		DI:     s.di,
		AF:     af,
		LPS:           s.lps,
		ERT:           s.ert,
		ERTCharset:    s.ertCharset,
		RTPlus:        s.rtPlus,
		RTPlusRunning: s.rtPlus.runningFlag,
		RTPlusToggle:  s.rtPlus.toggleFlag,
		RFT:           s.rft.Load(),
	}
}

// SetPI sets the 16-bit Programme Identification code.
func (s *Store) SetPI(pi uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pi = pi
}

// SetPS sets the Programme Service name, translating and padding it
// to exactly PSLength glyphs.
func (s *Store) SetPS(text string) error {
	if len(text) == 0 {
		return fmt.Errorf("station: PS must not be empty")
	}
	padded := xlat.PadRight(text, PSLength)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ps = padded
	return nil
}

// SetRT sets RadioText, translating and padding it to exactly
// RTLength glyphs. The A/B toggle flips iff the padded text differs
// byte-wise from the text currently stored.
func (s *Store) SetRT(text string) error {
	if len(text) > RTLength {
		return fmt.Errorf("station: RT exceeds %d glyphs", RTLength)
	}
	padded := xlat.PadRight(text, RTLength)
	s.mu.Lock()
	defer s.mu.Unlock()
	if padded != s.rt {
		s.rt = padded
		s.rtAB = !s.rtAB
	}
	return nil
}

// SetPTY sets the Programme Type code, 0..31.
func (s *Store) SetPTY(n int) error {
	if n < 0 || n > MaxPTY {
		return fmt.Errorf("station: PTY %d out of range 0..%d", n, MaxPTY)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pty = n
	return nil
}

// SetPTYN sets the PTY Name, padding to PTYNLength glyphs. The A/B
// toggle flips iff the padded text changed.
func (s *Store) SetPTYN(text string) error {
	padded := xlat.PadRight(text, PTYNLength)
	s.mu.Lock()
	defer s.mu.Unlock()
	if padded != s.ptyn {
		s.ptyn = padded
		s.ptynAB = !s.ptynAB
	}
	return nil
}

// SetTP sets the Traffic Programme flag.
func (s *Store) SetTP(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tp = v
}

// SetTA sets the Traffic Announcement flag.
func (s *Store) SetTA(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ta = v
}

// SetMS sets the Music/Speech flag (true = Music).
func (s *Store) SetMS(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ms = v
}

// SetDI sets the Decoder Identification flag.
func (s *Store) SetDI(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.di = v
}

// AddAF appends one Alternative Frequency, in MHz, to the list. The
// value must fall within 87.6..107.9 MHz and the list must not already
// hold MaxAF entries.
func (s *Store) AddAF(mhz float64) error {
	if mhz < minAFMHz || mhz > maxAFMHz {
		return fmt.Errorf("station: AF %.1f MHz out of range %.1f..%.1f", mhz, minAFMHz, maxAFMHz)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.af) >= MaxAF {
		return fmt.Errorf("station: AF list already holds the maximum %d entries", MaxAF)
	}
	s.af = append(s.af, mhz)
	return nil
}

// ClearAF empties the Alternative Frequency list.
func (s *Store) ClearAF() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.af = nil
}

// SetLPS sets the RDS2 Long PS string, truncated to MaxLPSLength.
func (s *Store) SetLPS(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lps = xlat.Truncate(text, MaxLPSLength)
	return nil
}

// SetERT sets the RDS2 enhanced RadioText and its character-set
// indicator, truncated to MaxERTLength.
func (s *Store) SetERT(text string, charset byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ert = xlat.Truncate(text, MaxERTLength)
	s.ertCharset = charset
	return nil
}

// SetRTPlusTags sets the two RT+ tag tuples. Each tuple's start+len
// must be less than RTLength.
func (s *Store) SetRTPlusTags(tags RTPlusTags) error {
	if int(tags.Start1)+int(tags.Len1) >= RTLength {
		return fmt.Errorf("station: RT+ tag1 start+len >= %d", RTLength)
	}
	if int(tags.Start2)+int(tags.Len2) >= RTLength {
		return fmt.Errorf("station: RT+ tag2 start+len >= %d", RTLength)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rtPlus.Type1, s.rtPlus.Start1, s.rtPlus.Len1 = tags.Type1, tags.Start1, tags.Len1
	s.rtPlus.Type2, s.rtPlus.Start2, s.rtPlus.Len2 = tags.Type2, tags.Start2, tags.Len2
	return nil
}

// RTPlusFlags reports the RT+ running/toggle flags.
func (s *Store) RTPlusFlags() (running, toggle bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rtPlus.running(), s.rtPlus.toggle()
}

// running/toggle are carried as unexported fields of RTPlusTags, set
// through SetRTPlusFlags; outside callers read them through
// RTPlusFlags or Params().RTPlusRunning/RTPlusToggle.
func (t RTPlusTags) running() bool { return t.runningFlag }
func (t RTPlusTags) toggle() bool  { return t.toggleFlag }

// SetRTPlusFlags sets the RT+ "item running" and "toggle" bits.
func (s *Store) SetRTPlusFlags(running, toggle bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rtPlus.runningFlag = running
	s.rtPlus.toggleFlag = toggle
}

// SetRFTImage replaces the RFT image. The CRC-32 of the whole image is
// recomputed; Params().RFT now points at a brand new *RFTImage, and
// pkg/group's Sequencer compares that pointer against the last one it
// saw to reset its transmission cursor to segment 0 whenever a new
// image arrives.
func (s *Store) SetRFTImage(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("station: RFT image must not be empty")
	}
	s.rft.Store(newRFTImage(data))
	return nil
}
