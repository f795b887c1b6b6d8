package pscroll

import (
	"context"
	"testing"
	"time"

	"github.com/minirds/minirds/pkg/station"
)

func TestChunkText_ShortWords(t *testing.T) {
	chunks := chunkText("Now Playing Foo")
	want := []string{"Now     ", "Playing ", "Foo     "}
	if len(chunks) != len(want) {
		t.Fatalf("chunkText() = %v, want %v", chunks, want)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestChunkText_LongWordSplitsWithDash(t *testing.T) {
	chunks := chunkText("Supercalifragilistic")
	for _, c := range chunks {
		if len(c) != chunkWidth {
			t.Errorf("chunk %q length = %d, want %d", c, len(c), chunkWidth)
		}
	}
	for _, c := range chunks[:len(chunks)-1] {
		if c[chunkWidth-1] != '-' {
			t.Errorf("non-final chunk %q does not end in a dash", c)
		}
	}
}

func TestChunkText_Empty(t *testing.T) {
	if chunks := chunkText("   "); chunks != nil {
		t.Errorf("chunkText(whitespace) = %v, want nil", chunks)
	}
}

func TestScroller_SetTextPushesFirstChunk(t *testing.T) {
	store := station.New()
	sc := New(store, nil)

	if err := sc.SetText("Hello World"); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	if got := store.Params().PS; got != "Hello   " {
		t.Errorf("PS = %q, want %q", got, "Hello   ")
	}
}

func TestScroller_AdvanceCycles(t *testing.T) {
	store := station.New()
	sc := New(store, nil)
	if err := sc.SetText("One Two Three"); err != nil {
		t.Fatalf("SetText: %v", err)
	}

	if err := sc.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if got := store.Params().PS; got != "Two     " {
		t.Errorf("PS after first advance = %q, want %q", got, "Two     ")
	}

	if err := sc.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if err := sc.Advance(); err != nil { // wraps back to chunk 0
		t.Fatalf("Advance: %v", err)
	}
	if got := store.Params().PS; got != "One     " {
		t.Errorf("PS after wraparound = %q, want %q", got, "One     ")
	}
}

func TestScroller_AdvanceNoopOnSingleChunk(t *testing.T) {
	store := station.New()
	sc := New(store, nil)
	if err := sc.SetText("Solo"); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	if err := sc.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if got := store.Params().PS; got != "Solo    " {
		t.Errorf("PS = %q, want %q", got, "Solo    ")
	}
}

func TestScroller_RunStopsOnContextCancel(t *testing.T) {
	store := station.New()
	sc := New(store, nil)
	if err := sc.SetText("A B"); err != nil {
		t.Fatalf("SetText: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sc.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancel")
	}
}
