package gapfill

import (
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// minAlignedFraction is the smallest fraction of a read's length that must
// be aligned for the record to be kept as extension evidence
const minAlignedFraction = 0.5

// Read is one aligned read against the current working reference: its id,
// raw sequence and alignment coordinates. Reads are rebuilt from the
// aligner's output every iteration and never mutated
type Read struct {
	// ID of the read (the record's query name)
	ID string

	// Seq is the read's raw nucleotide sequence
	Seq string

	// Start is the 0-based position on the reference where the alignment begins
	Start int

	// Span is the CIGAR-derived length of the alignment on the reference
	Span int
}

// End returns the 0-based position one past the last aligned reference base
func (r Read) End() int {
	return r.Start + r.Span
}

// AlignmentSet is the product of one aligner invocation: the parsed,
// filtered records plus the path of the sorted BAM on disk that downstream
// collaborators (depth, phasing, variant calling) are pointed at. Test
// doubles build sets with Reads only
type AlignmentSet struct {
	// Reads that survived filtering, in the aligner's output order
	Reads []Read

	// Path of the sorted BAM file backing this set. Empty for in-memory sets
	Path string
}

// readBAM parses a BAM file into filtered Reads: records with no reference
// target are discarded, as are records whose aligned fraction of the read
// length is below minAlignedFraction
func readBAM(path string) (reads []Read, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open alignments at %s: %v", path, err)
	}
	defer f.Close()

	br, err := bam.NewReader(f, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to read BAM header of %s: %v", path, err)
	}
	defer br.Close()

	for {
		rec, err := br.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read a BAM record from %s: %v", path, err)
		}

		if r, ok := newRead(rec); ok {
			reads = append(reads, r)
		}
	}

	return reads, nil
}

// newRead converts a sam.Record to a Read, reporting whether the record
// passed the alignment filters
func newRead(rec *sam.Record) (Read, bool) {
	if rec.Flags&sam.Unmapped != 0 || rec.Ref == nil {
		return Read{}, false
	}

	seq := rec.Seq.Expand()
	if len(seq) == 0 {
		return Read{}, false
	}

	if float64(alignedBases(rec.Cigar))/float64(len(seq)) < minAlignedFraction {
		return Read{}, false
	}

	return Read{
		ID:    rec.Name,
		Seq:   string(seq),
		Start: rec.Pos,
		Span:  rec.End() - rec.Pos,
	}, true
}

// alignedBases counts the read bases that the CIGAR places against the
// reference (match, sequence match and mismatch operations)
func alignedBases(cigar sam.Cigar) (n int) {
	for _, op := range cigar {
		switch op.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			n += op.Len()
		}
	}
	return
}
