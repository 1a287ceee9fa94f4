package gapfill

import "strings"

// Fixed-width anchor slicing around the gap run. Like the boundary offsets
// these widths are load-bearing parameters of the anchor-matching heuristic,
// not incidental choices.
const (
	// anchorPartLen is the width of the flank slice searched for inside a
	// consensus extension
	anchorPartLen = 15

	// anchorAllLen is the width of the slice that is actually replaced: the
	// anchor, the gap run and the first bases of the far flank
	anchorAllLen = 35

	// farFlankLen is how much of the far flank anchorAllLen reaches past
	// the gap run
	farFlankLen = anchorAllLen - anchorPartLen - gapRunLen

	// minExtensionLen rejects consensus extensions too short to be trusted
	minExtensionLen = 35

	// meetAnchorLen is the width of the flank slices counted when judging
	// whether the two scaffolds have converged
	meetAnchorLen = 20
)

// Splice validates a consensus extension for one side of the gap and applies
// it to buf, returning the new reference value. The anchor patterns are
// sliced out of src, the reference the reads were aligned against, at the
// 0-based gap run position; the replacement itself targets buf, so the
// right-side splice is always evaluated against the buffer the left-side
// step already produced (and becomes a no-op when the left splice consumed
// its context). When any guard fails the splice is a no-op and buf comes
// back unchanged: an ambiguous or missing anchor is recovered from locally,
// never propagated as an error.
//
// A successful splice inserts the extension's novel bases between its flank
// and the gap run; the run itself and the far flank are written back
// unchanged, so the ten-N marker survives every splice
func Splice(src, buf Reference, gap int, side Side, consensus string) Reference {
	part, all, ok := anchors(src, gap, side)
	if !ok {
		return buf // gap too close to a sequence end to slice anchors
	}

	// the spot in the consensus where known flank turns into novel sequence
	match := strings.Index(strings.ToUpper(consensus), strings.ToUpper(part))
	if match < 0 {
		return buf
	}

	// everything from the anchor match to the consensus's gap-facing end,
	// lower-cased to mark the bases as newly inserted
	var extension, replacement string
	if side == SideLeft {
		extension = strings.ToLower(consensus[match:])
		replacement = extension + all[anchorPartLen:]
	} else {
		extension = strings.ToLower(consensus[:match+anchorPartLen])
		replacement = all[:farFlankLen+gapRunLen] + extension
	}

	// refuse to splice when the anchor region is not unique in the buffer
	// (the replacement could land on the wrong copy, or on nothing at all)
	// or the extension is no longer than what it replaces
	if buf.CountOccurrences(all) != 1 || len(extension) < minExtensionLen {
		return buf
	}

	spliced, err := buf.Replace(all, replacement)
	if err != nil {
		return buf
	}
	return spliced
}

// anchors slices the two fixed-width anchor patterns for one side of the
// gap out of the reference: the part searched for in the consensus, and the
// full span that a splice replaces (anchor + gap run + the start of the far
// flank). ok is false when the gap sits too close to a sequence end for the
// slices to exist
func anchors(ref Reference, gap int, side Side) (part, all string, ok bool) {
	if side == SideLeft {
		start := gap - anchorPartLen
		end := start + anchorAllLen
		if start < 0 || end > ref.Len() {
			return "", "", false
		}
		return ref.Seq[start:gap], ref.Seq[start:end], true
	}

	partStart := gap + gapRunLen
	end := partStart + anchorPartLen
	start := end - anchorAllLen
	if start < 0 || end > ref.Len() {
		return "", "", false
	}
	return ref.Seq[partStart:end], ref.Seq[start:end], true
}

// meetAnchors slices the 20-base flank patterns immediately around the gap,
// used to judge whether the two extending sides have grown into each other.
// ok is false when the gap is too close to a sequence end
func meetAnchors(ref Reference, gap int) (left, right string, ok bool) {
	ls := gap - meetAnchorLen
	re := gap + gapRunLen + meetAnchorLen
	if ls < 0 || re > ref.Len() {
		return "", "", false
	}
	return ref.Seq[ls:gap], ref.Seq[gap+gapRunLen : re], true
}
