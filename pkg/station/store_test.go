package station

import "testing"

func TestSetPSAlwaysEightGlyphs(t *testing.T) {
	s := New()
	cases := []string{"A", "HELLO", "EXACTLY8", "WAYTOOLONGFORTHISFIELD"}
	for _, c := range cases {
		if err := s.SetPS(c); err != nil {
			t.Fatalf("SetPS(%q): %v", c, err)
		}
		if got := len(s.Params().PS); got != PSLength {
			t.Fatalf("SetPS(%q): PS length = %d, want %d", c, got, PSLength)
		}
	}
}

func TestSetRTAlwaysSixtyFourGlyphs(t *testing.T) {
	s := New()
	if err := s.SetRT("short"); err != nil {
		t.Fatal(err)
	}
	if got := len(s.Params().RT); got != RTLength {
		t.Fatalf("RT length = %d, want %d", got, RTLength)
	}
}

func TestSetRTTogglesABOnlyOnChange(t *testing.T) {
	s := New()
	before := s.Params().RTAB

	if err := s.SetRT("first message"); err != nil {
		t.Fatal(err)
	}
	afterFirst := s.Params().RTAB
	if afterFirst == before {
		t.Fatal("expected RTAB to flip on first distinct RT")
	}

	if err := s.SetRT("first message"); err != nil {
		t.Fatal(err)
	}
	afterRepeat := s.Params().RTAB
	if afterRepeat != afterFirst {
		t.Fatal("expected RTAB to stay put when RT content is unchanged")
	}

	if err := s.SetRT("second message"); err != nil {
		t.Fatal(err)
	}
	afterSecond := s.Params().RTAB
	if afterSecond == afterRepeat {
		t.Fatal("expected RTAB to flip again on a new distinct RT")
	}
}

func TestSetRTRejectsOverlong(t *testing.T) {
	s := New()
	long := make([]byte, RTLength+1)
	for i := range long {
		long[i] = 'x'
	}
	if err := s.SetRT(string(long)); err == nil {
		t.Fatal("expected error for RT longer than 64 glyphs")
	}
}

func TestSetPTYRange(t *testing.T) {
	s := New()
	if err := s.SetPTY(0); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPTY(MaxPTY); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPTY(MaxPTY + 1); err == nil {
		t.Fatal("expected error for PTY above the maximum")
	}
	if err := s.SetPTY(-1); err == nil {
		t.Fatal("expected error for negative PTY")
	}
}

func TestAddAFBoundsAndCap(t *testing.T) {
	s := New()
	if err := s.AddAF(87.5); err == nil {
		t.Fatal("expected error for AF below range")
	}
	if err := s.AddAF(108.0); err == nil {
		t.Fatal("expected error for AF above range")
	}
	for i := 0; i < MaxAF; i++ {
		if err := s.AddAF(88.0 + float64(i)*0.1); err != nil {
			t.Fatalf("AF %d: %v", i, err)
		}
	}
	if err := s.AddAF(100.0); err == nil {
		t.Fatal("expected error once AF list is at capacity")
	}
	if got := len(s.Params().AF); got != MaxAF {
		t.Fatalf("AF list length = %d, want %d", got, MaxAF)
	}
	s.ClearAF()
	if got := len(s.Params().AF); got != 0 {
		t.Fatalf("AF list length after ClearAF = %d, want 0", got)
	}
}

func TestSetRTPlusTagsRejectsOutOfBounds(t *testing.T) {
	s := New()
	bad := RTPlusTags{Start1: 60, Len1: 10}
	if err := s.SetRTPlusTags(bad); err == nil {
		t.Fatal("expected error for tag1 start+len >= RTLength")
	}
}

func TestSetRFTImageRecomputesCRCAndSegments(t *testing.T) {
	s := New()
	data := make([]byte, RFTSegmentSize*2+1)
	for i := range data {
		data[i] = byte(i)
	}
	if err := s.SetRFTImage(data); err != nil {
		t.Fatal(err)
	}
	img := s.Params().RFT
	if img == nil {
		t.Fatal("expected non-nil RFT image")
	}
	if img.Segments != 3 {
		t.Fatalf("segments = %d, want 3", img.Segments)
	}
	if len(img.Segment(0)) != RFTSegmentSize {
		t.Fatalf("segment 0 length = %d, want %d", len(img.Segment(0)), RFTSegmentSize)
	}
	if len(img.Segment(2)) != 1 {
		t.Fatalf("last segment length = %d, want 1", len(img.Segment(2)))
	}
	// cycling: segment(3) wraps back to segment(0)
	if string(img.Segment(3)) != string(img.Segment(0)) {
		t.Fatal("expected segment index to cycle modulo segment count")
	}
}

func TestParamsIsIndependentCopy(t *testing.T) {
	s := New()
	s.AddAF(90.0)
	p := s.Params()
	p.AF[0] = 999
	if got := s.Params().AF[0]; got == 999 {
		t.Fatal("mutating a Params snapshot must not affect the Store")
	}
}
