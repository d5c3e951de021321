package blur

import (
	"math"
	"testing"
)

func TestIoU_Disjoint(t *testing.T) {
	a := Region{X: 50, Y: 50, Width: 20, Height: 20}
	b := Region{X: 500, Y: 500, Width: 20, Height: 20}
	if got := IoU(a, b); got != 0 {
		t.Errorf("disjoint IoU = %v, want 0", got)
	}
}

func TestIoU_Identical(t *testing.T) {
	a := Region{X: 100, Y: 100, Width: 40, Height: 40}
	if got := IoU(a, a); math.Abs(got-1) > 1e-9 {
		t.Errorf("self IoU = %v, want 1", got)
	}
}

func TestIoU_ZeroArea(t *testing.T) {
	a := Region{X: 100, Y: 100, Width: 0, Height: 0}
	b := Region{X: 100, Y: 100, Width: 40, Height: 40}
	if got := IoU(a, b); got != 0 {
		t.Errorf("zero-area IoU = %v, want 0", got)
	}
	if got := IoU(a, a); got != 0 {
		t.Errorf("both zero-area IoU = %v, want 0", got)
	}
}

func TestIoU_HalfOverlap(t *testing.T) {
	// Two 20x20 boxes offset by 10 horizontally: intersection 10x20 = 200,
	// union 800 - 200 = 600.
	a := Region{X: 100, Y: 100, Width: 20, Height: 20}
	b := Region{X: 110, Y: 100, Width: 20, Height: 20}
	want := 200.0 / 600.0
	if got := IoU(a, b); math.Abs(got-want) > 1e-9 {
		t.Errorf("IoU = %v, want %v", got, want)
	}
}

func TestShouldBlur(t *testing.T) {
	for _, tt := range []struct {
		source Source
		want   bool
	}{
		{SourceFace, true},
		{SourcePoseHead, true},
		{SourcePlate, true},
		{SourceDemo, true},
		{SourceEdgeWrapped, true},
		{SourceVehicle, false}, // tracking-only: kept for plate search, never painted
	} {
		r := Region{Source: tt.source}
		if got := r.ShouldBlur(); got != tt.want {
			t.Errorf("ShouldBlur(%s) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestSplitAtBoundary_Interior(t *testing.T) {
	r := Region{X: 100, Y: 100, Width: 40, Height: 20}
	boxes := r.SplitAtBoundary(1000, 500)
	if len(boxes) != 1 {
		t.Fatalf("interior region: %d boxes, want 1", len(boxes))
	}
	want := Box{X0: 80, Y0: 90, X1: 120, Y1: 110}
	if boxes[0] != want {
		t.Errorf("box = %+v, want %+v", boxes[0], want)
	}
}

func TestSplitAtBoundary_LeftOverhangWraps(t *testing.T) {
	// Centre near x=0 with a box reaching 10px past the left edge: the
	// overhang paints at the right edge.
	r := Region{X: 10, Y: 100, Width: 40, Height: 20, SpansEdge: true}
	boxes := r.SplitAtBoundary(1000, 500)
	if len(boxes) != 2 {
		t.Fatalf("wrapping region: %d boxes, want 2", len(boxes))
	}

	left := Box{X0: 0, Y0: 90, X1: 30, Y1: 110}
	right := Box{X0: 990, Y0: 90, X1: 1000, Y1: 110}
	if boxes[0] != left || boxes[1] != right {
		t.Errorf("boxes = %+v, want [%+v %+v]", boxes, left, right)
	}

	if boxes[0].Area()+boxes[1].Area() != r.Width*r.Height {
		t.Errorf("split area %d != region area %d", boxes[0].Area()+boxes[1].Area(), r.Width*r.Height)
	}
}

func TestSplitAtBoundary_RightOverhangWraps(t *testing.T) {
	r := Region{X: 995, Y: 100, Width: 30, Height: 20, SpansEdge: true}
	boxes := r.SplitAtBoundary(1000, 500)
	if len(boxes) != 2 {
		t.Fatalf("wrapping region: %d boxes, want 2", len(boxes))
	}
	for _, b := range boxes {
		if b.X0 < 0 || b.X1 > 1000 || b.Y0 < 0 || b.Y1 > 500 {
			t.Errorf("box out of image bounds: %+v", b)
		}
	}
}

func TestSplitAtBoundary_ClampsVertically(t *testing.T) {
	r := Region{X: 100, Y: 5, Width: 40, Height: 40}
	boxes := r.SplitAtBoundary(1000, 500)
	if len(boxes) != 1 {
		t.Fatalf("%d boxes, want 1", len(boxes))
	}
	if boxes[0].Y0 != 0 {
		t.Errorf("Y0 = %d, want clamped to 0", boxes[0].Y0)
	}
}
