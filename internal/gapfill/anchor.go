package gapfill

// The gap run never abuts trustworthy sequence directly: the five bases on
// its left and the five on its right are treated as part of a fixed 20-base
// buffer. The boundary coordinates derived from these offsets decide which
// reads count as boundary-spanning and where coverage is gated, so the
// values are load-bearing: changing them changes which reads drive extension.
const (
	// leftBoundaryOffset puts the left boundary five bases before the gap run
	leftBoundaryOffset = 5

	// rightBoundaryOffset puts the right boundary five bases past the gap
	// run's end (fifteen past its start)
	rightBoundaryOffset = 15

	// anchorWindow is how far from a boundary a read may start and still be
	// counted as extension evidence
	anchorWindow = 50
)

// Side selects which flank of the gap an operation applies to
type Side int

const (
	// SideLeft is the scaffold flank upstream of the gap
	SideLeft Side = iota

	// SideRight is the scaffold flank downstream of the gap
	SideRight
)

// String returns the flank's name
func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// leftBoundary returns the boundary coordinate for the left flank of a gap
// starting at the 0-based position gap
func leftBoundary(gap int) int {
	return gap - leftBoundaryOffset
}

// rightBoundary returns the boundary coordinate for the right flank
func rightBoundary(gap int) int {
	return gap + rightBoundaryOffset
}

// AnchorReads selects the reads usable as extension evidence on one side of
// the gap: those aligned within anchorWindow of the side's boundary and
// oriented toward the gap. The reads come back in their aligner output
// order; an empty result means that side cannot be extended this round
func AnchorReads(reads []Read, gap int, side Side) (anchored []Read) {
	if side == SideLeft {
		lb := leftBoundary(gap)
		for _, r := range reads {
			// starts within the window before the boundary and overlaps it
			// from the left
			if lb-r.Start <= anchorWindow && r.Start <= lb && r.End() > lb {
				anchored = append(anchored, r)
			}
		}
		return
	}

	rb := rightBoundary(gap)
	for _, r := range reads {
		// approaches the boundary from the right, starting within the window
		// on either side of it
		if r.Start-rb >= -anchorWindow && r.Start-rb <= anchorWindow {
			anchored = append(anchored, r)
		}
	}
	return
}
