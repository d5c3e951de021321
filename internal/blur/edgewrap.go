package blur

// DefaultEdgePadFraction is the fraction of the image width appended to the
// right edge for the second detector pass. Subjects straddling the
// equirectangular seam appear whole in that duplicate strip.
const DefaultEdgePadFraction = 0.15

// PaddedWidth returns the width of the edge-padded working image.
func PaddedWidth(width int, padFraction float64) int {
	if padFraction <= 0 {
		padFraction = DefaultEdgePadFraction
	}
	return width + int(float64(width)*padFraction)
}

// TranslatePadded maps detections from the edge-padded pass back into
// original image coordinates. Only detections that reach into the duplicate
// strip carry information the unpadded pass cannot have seen; everything
// else is an interior duplicate and is dropped:
//
//   - entirely inside [0, width): interior duplicate, discarded
//   - entirely inside the duplicate strip [width, paddedWidth): content at
//     the image's left edge, translated by -width and tagged edge-wrapped
//   - straddling x = width: the subject spans the seam; recentred at the
//     nearer edge with SpansEdge set, so its box overhangs one side and
//     SplitAtBoundary paints both pieces
//
// Translated regions that land fully outside the image are detector
// artifacts and are discarded silently.
func TranslatePadded(regions []Region, width int, padFraction float64) []Region {
	paddedWidth := PaddedWidth(width, padFraction)

	var out []Region
	for _, r := range regions {
		x1, _, x2, _ := r.box()
		switch {
		case x2 <= width:
			// Interior duplicate of the unpadded pass.
			continue
		case x1 >= width:
			// Entirely within the duplicate strip: really at the left edge.
			if x1 >= paddedWidth {
				continue
			}
			r.X -= width
			r.Source = SourceEdgeWrapped
			r.SpansEdge = false
			if rx1, _, rx2, _ := r.box(); rx2 <= 0 || rx1 >= width {
				continue
			}
			out = append(out, r)
		default:
			// Straddles the seam.
			if r.X >= width {
				r.X -= width // centre in the duplicate strip: left edge
			}
			r.SpansEdge = true
			out = append(out, r)
		}
	}
	return out
}

// Resolve combines the unpadded pass with the translated edge pass and
// merges the union into the final per-subject region list.
func Resolve(original, padded []Region, width int, padFraction, iouThreshold float64) []Region {
	all := make([]Region, 0, len(original)+len(padded))
	all = append(all, original...)
	all = append(all, TranslatePadded(padded, width, padFraction)...)
	return MergeOverlapping(all, iouThreshold)
}
