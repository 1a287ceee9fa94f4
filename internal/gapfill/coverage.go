package gapfill

import "strings"

// defaultMaskFraction is the depth cutoff for coverage masking, as a
// fraction of the mean: a base at or below this fraction of the mean depth
// is replaced with N. Overridable through config
const defaultMaskFraction = 0.2

// Coverage is a per-base read depth profile keyed by 1-based reference
// position, as reported by the external depth-of-coverage tool. Positions
// with zero depth are absent, not zero-valued
type Coverage map[int]int

// Depth returns the recorded depth at a 1-based position, 0 when the
// position was not reported
func (c Coverage) Depth(pos int) int {
	return c[pos]
}

// Mean returns the total depth divided by the number of reported positions.
// Unreported (zero depth) positions do not drag the mean down
func (c Coverage) Mean() float64 {
	if len(c) == 0 {
		return 0
	}

	total := 0
	for _, d := range c {
		total += d
	}
	return float64(total) / float64(len(c))
}

// MaskLowCoverage replaces every base of ref whose depth is at or below
// maskFraction of the profile's mean, or that has no recorded depth at all,
// with the ambiguity symbol N. Masking the same sequence twice with the same
// profile is a no-op the second time: the decision depends only on position
func MaskLowCoverage(ref Reference, cov Coverage, maskFraction float64) Reference {
	if maskFraction <= 0 {
		maskFraction = defaultMaskFraction
	}
	threshold := maskFraction * cov.Mean()

	var b strings.Builder
	b.Grow(len(ref.Seq))

	for i := range ref.Seq {
		depth, reported := cov[i+1] // profile positions are 1-based
		if !reported || float64(depth) <= threshold {
			b.WriteByte('N')
			continue
		}
		b.WriteByte(ref.Seq[i])
	}

	return Reference{ID: ref.ID, Seq: b.String()}
}
