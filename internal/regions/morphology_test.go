package regions

import "testing"

// setRect sets a rectangle of pixels.
func setRect(m *Mask, x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.Set(x, y, true)
		}
	}
}

func TestDiskOffsets(t *testing.T) {
	tests := []struct {
		radius int
		want   int
	}{
		{0, 1},
		{1, 5},
		{2, 13},
		{3, 29},
	}
	for _, tt := range tests {
		if got := len(diskOffsets(tt.radius)); got != tt.want {
			t.Errorf("diskOffsets(%d) has %d points, want %d", tt.radius, got, tt.want)
		}
	}
}

func TestDilateSinglePixel(t *testing.T) {
	m := NewMask(20, 20)
	m.Set(10, 10, true)
	out := Dilate(m, 3)

	if got := out.Count(); got != 29 {
		t.Errorf("dilated count = %d, want 29 (disk of radius 3)", got)
	}
	if !out.At(13, 10) || !out.At(10, 7) {
		t.Error("disk extremes missing")
	}
	if out.At(13, 13) {
		t.Error("corner outside the Euclidean disk was set")
	}
}

func TestDilateMonotonic(t *testing.T) {
	m := NewMask(30, 30)
	setRect(m, 12, 12, 18, 18)
	r1 := Dilate(m, 1)
	r3 := Dilate(m, 3)

	if !r1.Contains(m) {
		t.Error("dilation must contain the input")
	}
	if !r3.Contains(r1) {
		t.Error("larger radius must contain smaller radius")
	}
}

func TestDilateClipsAtEdge(t *testing.T) {
	m := NewMask(10, 10)
	m.Set(0, 0, true)
	out := Dilate(m, 5)
	if out.W != 10 || out.H != 10 {
		t.Fatalf("dimensions changed to %dx%d", out.W, out.H)
	}
	if !out.At(5, 0) || !out.At(0, 5) {
		t.Error("in-bounds disk pixels missing")
	}
}

func TestErodeRectangle(t *testing.T) {
	m := NewMask(20, 20)
	setRect(m, 5, 5, 15, 15)
	out := Erode(m, 1)

	// A radius-1 disk is a plus shape: only the 8x8 interior survives.
	if got := out.Count(); got != 64 {
		t.Errorf("eroded count = %d, want 64", got)
	}
	if out.At(5, 5) || out.At(5, 10) {
		t.Error("boundary pixels survived erosion")
	}
	if !out.At(6, 6) || !out.At(10, 10) {
		t.Error("interior pixels eroded")
	}
}

func TestErodeImageEdgeIsBackground(t *testing.T) {
	m := NewMask(10, 10)
	setRect(m, 0, 0, 10, 10)
	out := Erode(m, 1)
	if out.At(0, 5) || out.At(5, 0) {
		t.Error("pixels at the image edge must erode")
	}
	if !out.At(5, 5) {
		t.Error("interior must survive")
	}
	if got := out.Count(); got != 64 {
		t.Errorf("eroded count = %d, want 64", got)
	}
}

func TestCloseBridgesGap(t *testing.T) {
	m := NewMask(20, 12)
	setRect(m, 2, 2, 8, 8)
	setRect(m, 10, 2, 16, 8)

	if m.At(8, 4) {
		t.Fatal("gap pixel set before closing")
	}
	closed := CloseMask(m, 2)
	if !closed.At(8, 4) {
		t.Error("closing failed to bridge a 2-pixel gap")
	}
	if !closed.Contains(m) {
		t.Error("closing must not remove original pixels away from the edge")
	}
}

func TestOpenRemovesSpecks(t *testing.T) {
	m := NewMask(20, 20)
	setRect(m, 2, 2, 12, 12)
	m.Set(17, 17, true)

	opened := OpenMask(m, 1)
	if opened.At(17, 17) {
		t.Error("isolated speck survived opening")
	}
	if !opened.At(7, 7) {
		t.Error("solid interior removed by opening")
	}
}

func TestFillHolesClosesPocket(t *testing.T) {
	m := NewMask(12, 12)
	setRect(m, 2, 2, 10, 10)
	// Carve a 4x4 enclosed pocket.
	for y := 4; y < 8; y++ {
		for x := 4; x < 8; x++ {
			m.Set(x, y, false)
		}
	}

	filled := FillHoles(m)
	if !filled.At(5, 5) {
		t.Error("enclosed pocket not filled")
	}
	if filled.At(0, 0) {
		t.Error("outside background filled")
	}
	if got := filled.Count(); got != 64 {
		t.Errorf("filled count = %d, want 64", got)
	}
}

func TestFillHolesIdempotent(t *testing.T) {
	m := NewMask(12, 12)
	setRect(m, 2, 2, 10, 10)
	m.Set(5, 5, false)
	once := FillHoles(m)
	twice := FillHoles(once)
	if !once.Equal(twice) {
		t.Error("FillHoles is not idempotent")
	}
}

func TestFillHolesKeepsOpenBay(t *testing.T) {
	m := NewMask(12, 12)
	setRect(m, 1, 1, 11, 11)
	// Carve a channel from the pocket to the mask border.
	for y := 0; y < 7; y++ {
		m.Set(5, y, false)
		m.Set(6, y, false)
	}

	filled := FillHoles(m)
	if filled.At(5, 3) {
		t.Error("bay connected to the border was filled")
	}
}
