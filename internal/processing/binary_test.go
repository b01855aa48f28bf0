package processing

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/config"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/regions"
)

func newBinary(t *testing.T, cfg config.Binary) Strategy {
	t.Helper()
	p := config.Default().Processing
	p.Binary = cfg
	s, err := New("binary", &p)
	if err != nil {
		t.Fatalf("New(binary): %v", err)
	}
	return s
}

func TestBinaryFixedThreshold(t *testing.T) {
	// Left half dark, right half bright, far from the cut level.
	g := grayPage(20, 10, func(x, y int) uint8 {
		if x < 10 {
			return 40
		}
		return 200
	})
	sel := rectMask(20, 10, image.Rect(0, 0, 20, 10))

	s := newBinary(t, config.Binary{Threshold: 100})
	out, err := s.Process(g, sel)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if got := out.GrayAt(5, 5).Y; got != 0 {
		t.Errorf("dark pixel = %d, want 0", got)
	}
	if got := out.GrayAt(15, 5).Y; got != 255 {
		t.Errorf("bright pixel = %d, want 255", got)
	}
}

func TestBinaryOtsuSeparatesBimodal(t *testing.T) {
	g := grayPage(20, 10, func(x, y int) uint8 {
		if x < 10 {
			return 30
		}
		return 220
	})
	sel := rectMask(20, 10, image.Rect(0, 0, 20, 10))

	s := newBinary(t, config.Binary{Threshold: 0}) // 0 = Otsu
	out, err := s.Process(g, sel)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	for x := 0; x < 20; x++ {
		want := uint8(0)
		if x >= 10 {
			want = 255
		}
		if got := out.GrayAt(x, 4).Y; got != want {
			t.Errorf("pixel x=%d = %d, want %d", x, got, want)
		}
	}
}

func TestBinaryInvert(t *testing.T) {
	g := grayPage(10, 10, func(x, y int) uint8 { return 40 })
	sel := rectMask(10, 10, image.Rect(0, 0, 10, 10))

	s := newBinary(t, config.Binary{Threshold: 100, Invert: true})
	out, err := s.Process(g, sel)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := out.GrayAt(5, 5).Y; got != 255 {
		t.Errorf("inverted dark pixel = %d, want 255", got)
	}
}

func TestBinaryConfinedToSelection(t *testing.T) {
	g := grayPage(20, 20, func(x, y int) uint8 { return 40 })
	sel := rectMask(20, 20, image.Rect(0, 0, 20, 10))

	s := newBinary(t, config.Binary{Threshold: 100})
	out, err := s.Process(g, sel)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	// Selected rows binarized, unselected rows untouched.
	if got := out.GrayAt(5, 5).Y; got != 0 {
		t.Errorf("selected pixel = %d, want 0", got)
	}
	if diff := cmp.Diff(g.Pix[10*g.Stride:], out.Pix[10*out.Stride:]); diff != "" {
		t.Errorf("unselected rows changed (-want +got):\n%s", diff)
	}
}

func TestBinaryEmptySelectionIsNoOp(t *testing.T) {
	g := grayPage(10, 10, func(x, y int) uint8 { return uint8(x * 25) })
	sel := regions.NewMask(10, 10)

	s := newBinary(t, config.Binary{Threshold: 100})
	out, err := s.Process(g, sel)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if diff := cmp.Diff(g.Pix, out.Pix); diff != "" {
		t.Errorf("empty selection changed pixels (-want +got):\n%s", diff)
	}
}

func TestBinaryFactoryRejectsBadThreshold(t *testing.T) {
	p := config.Default().Processing
	p.Binary.Threshold = 300
	if _, err := New("binary", &p); err == nil {
		t.Fatal("expected error for threshold 300")
	}
}

func TestOtsuLevelBimodalHistogram(t *testing.T) {
	var hist [256]int
	hist[50] = 400
	hist[200] = 600

	level := otsuLevel(hist)
	if level <= 50 || level > 200 {
		t.Errorf("otsuLevel = %d, want a cut between the modes", level)
	}
}

func TestOtsuLevelDegenerateHistograms(t *testing.T) {
	var empty [256]int
	if got := otsuLevel(empty); got != 128 {
		t.Errorf("empty histogram level = %d, want 128", got)
	}

	var single [256]int
	single[77] = 1000
	if got := otsuLevel(single); got != 128 {
		t.Errorf("single-bin histogram level = %d, want 128", got)
	}
}
