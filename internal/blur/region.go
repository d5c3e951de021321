// Package blur resolves raw privacy-detector output into the final list of
// regions to obscure in an equirectangular panorama: merging overlapping
// detections across detectors and handling subjects that straddle the
// image's left/right seam.
package blur

// Source identifies which detector (or resolution step) produced a region.
type Source string

const (
	SourceFace        Source = "face"
	SourcePoseHead    Source = "pose-head"
	SourcePlate       Source = "plate"
	SourceVehicle     Source = "vehicle"
	SourceDemo        Source = "demo"
	SourceEdgeWrapped Source = "edge-wrapped"
)

// trackingOnly marks classes kept in the merged output for downstream
// two-stage search (e.g. plate search inside vehicle boxes) but never
// painted.
var trackingOnly = map[Source]bool{
	SourceVehicle: true,
}

// Region is a candidate blur target, stored centre+size in pixels.
// SpansEdge marks a subject that wraps across the panorama's left/right
// seam; its box extends past one horizontal image edge and must be painted
// as two pieces (see SplitAtBoundary).
type Region struct {
	X          int     `json:"x"` // centre
	Y          int     `json:"y"` // centre
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
	SpansEdge  bool    `json:"spans_edge,omitempty"`
}

// Area returns the region's pixel area.
func (r Region) Area() int { return r.Width * r.Height }

// ShouldBlur reports whether the region is an actual blur target, as opposed
// to a tracking-only class retained for downstream search.
func (r Region) ShouldBlur() bool { return !trackingOnly[r.Source] }

// box returns the corner coordinates (x1,y1) inclusive, (x2,y2) exclusive.
func (r Region) box() (x1, y1, x2, y2 int) {
	return r.X - r.Width/2, r.Y - r.Height/2, r.X + r.Width/2, r.Y + r.Height/2
}

// Box is an axis-aligned pixel rectangle, corners (X0,Y0) inclusive and
// (X1,Y1) exclusive.
type Box struct {
	X0, Y0, X1, Y1 int
}

// Width returns the box width in pixels.
func (b Box) Width() int { return b.X1 - b.X0 }

// Height returns the box height in pixels.
func (b Box) Height() int { return b.Y1 - b.Y0 }

// Area returns the box area in pixels.
func (b Box) Area() int { return b.Width() * b.Height() }

// SplitAtBoundary converts the region into the rectangles to paint on an
// image of the given size. A region whose box extends past a horizontal edge
// wraps to the opposite edge, so the result may be two boxes; everything is
// clamped to the image. Painting a single unclamped box would be
// geometrically wrong on the cyclic horizontal axis.
func (r Region) SplitAtBoundary(width, height int) []Box {
	x1, y1, x2, y2 := r.box()

	// Vertical axis is not cyclic, just clamp.
	if y1 < 0 {
		y1 = 0
	}
	if y2 > height {
		y2 = height
	}
	if y2 <= y1 {
		return nil
	}

	var boxes []Box
	add := func(a, b int) {
		if a < 0 {
			a = 0
		}
		if b > width {
			b = width
		}
		if b > a {
			boxes = append(boxes, Box{X0: a, Y0: y1, X1: b, Y1: y2})
		}
	}

	switch {
	case x1 < 0:
		// Left overhang wraps to the right edge.
		add(0, x2)
		add(width+x1, width)
	case x2 > width:
		// Right overhang wraps to the left edge.
		add(x1, width)
		add(0, x2-width)
	default:
		add(x1, x2)
	}
	return boxes
}

// IoU returns the intersection-over-union of two regions' boxes. Disjoint or
// zero-area boxes give 0; malformed input is never an error.
func IoU(a, b Region) float64 {
	ax1, ay1, ax2, ay2 := a.box()
	bx1, by1, bx2, by2 := b.box()

	ix1 := max(ax1, bx1)
	iy1 := max(ay1, by1)
	ix2 := min(ax2, bx2)
	iy2 := min(ay2, by2)

	if ix2 <= ix1 || iy2 <= iy1 {
		return 0
	}

	inter := (ix2 - ix1) * (iy2 - iy1)
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
