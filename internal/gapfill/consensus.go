package gapfill

import (
	"fmt"
	"strings"
)

// MSA is the multiple-sequence-aligner collaborator: it aligns a set of
// short sequences and reduces the alignment to a single consensus string by
// per-column plurality vote. The consensus may contain ambiguity
// placeholders, which the core strips
type MSA interface {
	AlignAndConsensus(reads []Read) (string, error)
}

// ambiguityPlaceholder is emitted by the consensus tool for columns without
// a winning base
const ambiguityPlaceholder = "?"

// BuildConsensus turns an anchor read set into a single extension candidate.
// An empty read set produces an empty consensus, not an error: the caller
// treats "" as "no extension available" for that side
func BuildConsensus(msa MSA, reads []Read) (string, error) {
	if len(reads) == 0 {
		return "", nil
	}

	consensus, err := msa.AlignAndConsensus(reads)
	if err != nil {
		return "", fmt.Errorf("failed to build a consensus from %d reads: %v", len(reads), err)
	}

	return strings.ReplaceAll(consensus, ambiguityPlaceholder, ""), nil
}
