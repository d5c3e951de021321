package blur

import (
	"hash/fnv"
	"math/rand"
)

// DemoDetector generates deterministic pseudo-random regions so the merge
// and edge-wrap stages can be exercised without ML models. The stream is
// seeded from a name (normally the image filename), so a given file always
// produces the same regions.
type DemoDetector struct {
	Width  int
	Height int
	Count  int
}

// Detect returns Count demo regions for the named image. Region sizes scale
// with the image so the output looks plausible at any resolution.
func (d DemoDetector) Detect(name string) []Region {
	if d.Width <= 0 || d.Height <= 0 || d.Count <= 0 {
		return nil
	}

	h := fnv.New64a()
	h.Write([]byte(name))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	minSize := d.Height / 40
	if minSize < 8 {
		minSize = 8
	}
	maxSize := d.Height / 8
	if maxSize < minSize {
		maxSize = minSize
	}

	regions := make([]Region, d.Count)
	for i := range regions {
		w := minSize + rng.Intn(maxSize-minSize+1)
		hh := minSize + rng.Intn(maxSize-minSize+1)
		regions[i] = Region{
			X:          rng.Intn(d.Width),
			Y:          rng.Intn(d.Height),
			Width:      w,
			Height:     hh,
			Confidence: 0.5 + rng.Float64()*0.5,
			Source:     SourceDemo,
		}
	}
	return regions
}
