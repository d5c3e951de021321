package blur

import "sort"

// DefaultIoUThreshold is the overlap above which two detections are taken to
// be the same real-world subject.
const DefaultIoUThreshold = 0.3

// MergeOverlapping collapses overlapping detections into one region per
// real-world subject by greedy clustering: regions are visited largest-first,
// and every unconsumed region overlapping the seed above the IoU threshold
// joins its cluster. A cluster merges to the union bounding box, the maximum
// member confidence, the seed's source, and SpansEdge if any member spans.
//
// Once no output pair overlaps above the threshold the operation is a fixed
// point: merging its own output again returns the same set.
func MergeOverlapping(regions []Region, iouThreshold float64) []Region {
	if len(regions) == 0 {
		return nil
	}
	if iouThreshold <= 0 {
		iouThreshold = DefaultIoUThreshold
	}

	sorted := make([]Region, len(regions))
	copy(sorted, regions)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Area() > sorted[b].Area()
	})

	merged := make([]Region, 0, len(sorted))
	used := make([]bool, len(sorted))

	for i, seed := range sorted {
		if used[i] {
			continue
		}
		used[i] = true

		cluster := []Region{seed}
		for j := i + 1; j < len(sorted); j++ {
			if used[j] {
				continue
			}
			if IoU(seed, sorted[j]) > iouThreshold {
				cluster = append(cluster, sorted[j])
				used[j] = true
			}
		}
		merged = append(merged, mergeCluster(cluster))
	}
	return merged
}

// mergeCluster folds a cluster into a single region spanning the union of
// all member boxes.
func mergeCluster(cluster []Region) Region {
	minX, minY, maxX, maxY := cluster[0].box()
	confidence := cluster[0].Confidence
	spansEdge := cluster[0].SpansEdge

	for _, r := range cluster[1:] {
		x1, y1, x2, y2 := r.box()
		minX = min(minX, x1)
		minY = min(minY, y1)
		maxX = max(maxX, x2)
		maxY = max(maxY, y2)
		if r.Confidence > confidence {
			confidence = r.Confidence
		}
		spansEdge = spansEdge || r.SpansEdge
	}

	return Region{
		X:          (minX + maxX) / 2,
		Y:          (minY + maxY) / 2,
		Width:      maxX - minX,
		Height:     maxY - minY,
		Confidence: confidence,
		Source:     cluster[0].Source,
		SpansEdge:  spansEdge,
	}
}
