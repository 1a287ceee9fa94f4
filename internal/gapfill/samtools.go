package gapfill

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// MarkDuplicates flags and removes duplicate read pairs from an alignment
// set: collate, fixmate, re-sort, markdup, the standard samtools chain
func (t *execToolkit) MarkDuplicates(aln *AlignmentSet) (*AlignmentSet, error) {
	collated := t.scratch("collated.bam")
	fixed := t.scratch("fixmate.bam")
	sorted := t.scratch("fixmate.sorted.bam")
	marked := t.scratch("markdup.bam")

	steps := [][]string{
		{"collate", "-o", collated, aln.Path},
		{"fixmate", "-m", collated, fixed},
		{"sort", "-o", sorted, fixed},
		{"markdup", "-r", sorted, marked},
		{"index", marked},
	}
	for _, args := range steps {
		if err := t.run(t.conf.Samtools, args...); err != nil {
			return nil, err
		}
	}

	reads, err := readBAM(marked)
	if err != nil {
		return nil, err
	}
	return &AlignmentSet{Reads: reads, Path: marked}, nil
}

// RealignIndels locally realigns reads around indels with gatk. The
// reference gets the index and dictionary gatk insists on
func (t *execToolkit) RealignIndels(ref Reference, aln *AlignmentSet) (*AlignmentSet, error) {
	refPath := t.scratch(ref.ID + ".fa")
	dictPath := t.scratch(ref.ID + ".dict")
	realigned := t.scratch("realigned.bam")

	if err := t.run(t.conf.Samtools, "faidx", refPath); err != nil {
		return nil, err
	}
	if err := t.run(t.conf.Samtools, "dict", "-o", dictPath, refPath); err != nil {
		return nil, err
	}
	if err := t.run(t.conf.Gatk, "LeftAlignIndels", "-R", refPath, "-I", aln.Path, "-O", realigned); err != nil {
		return nil, err
	}
	if err := t.run(t.conf.Samtools, "index", realigned); err != nil {
		return nil, err
	}

	reads, err := readBAM(realigned)
	if err != nil {
		return nil, err
	}
	return &AlignmentSet{Reads: reads, Path: realigned}, nil
}

// Downsample keeps roughly the given fraction of read pairs
func (t *execToolkit) Downsample(aln *AlignmentSet, fraction float64) (*AlignmentSet, error) {
	if fraction <= 0 || fraction >= 1 {
		return aln, nil
	}

	downPath := t.scratch("downsampled.bam")
	frac := strconv.FormatFloat(fraction, 'f', 4, 64)

	if err := t.run(t.conf.Samtools, "view", "-b", "-s", frac, "-o", downPath, aln.Path); err != nil {
		return nil, err
	}
	if err := t.run(t.conf.Samtools, "index", downPath); err != nil {
		return nil, err
	}

	reads, err := readBAM(downPath)
	if err != nil {
		return nil, err
	}
	return &AlignmentSet{Reads: reads, Path: downPath}, nil
}

// Coverage runs samtools depth over the alignments and parses its
// ref/position/depth table. Zero-depth positions are not reported
func (t *execToolkit) Coverage(ref Reference, aln *AlignmentSet) (Coverage, error) {
	out, err := exec.Command(t.conf.Samtools, "depth", aln.Path).Output()
	if err != nil {
		return nil, fmt.Errorf("failed executing %s depth on %s: %v", t.conf.Samtools, aln.Path, err)
	}

	cov := Coverage{}
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		cols := strings.Fields(scanner.Text())
		if len(cols) < 3 {
			continue
		}

		pos, err := strconv.Atoi(cols[1])
		if err != nil {
			continue
		}
		depth, err := strconv.Atoi(cols[2])
		if err != nil || depth == 0 {
			continue
		}
		cov[pos] = depth
	}

	return cov, nil
}

// Phase partitions the alignments into haplotype bins with samtools phase.
// When either haplotype comes back empty the reads could not be separated
// and the whole set is returned as the single unseparated bin
func (t *execToolkit) Phase(ref Reference, aln *AlignmentSet) (*PhaseResult, error) {
	prefix := t.scratch("phase")

	if err := t.run(t.conf.Samtools, "phase", "-b", prefix, aln.Path); err != nil {
		return nil, err
	}

	bins := map[int]*AlignmentSet{}
	for _, bin := range []int{0, 1} {
		binPath := fmt.Sprintf("%s.%d.bam", prefix, bin)
		if _, err := os.Stat(binPath); err != nil {
			continue
		}
		if err := t.run(t.conf.Samtools, "index", binPath); err != nil {
			return nil, err
		}

		reads, err := readBAM(binPath)
		if err != nil {
			return nil, err
		}
		if len(reads) > 0 {
			bins[bin] = &AlignmentSet{Reads: reads, Path: binPath}
		}
	}

	// phasing is inconclusive unless both haplotypes got reads
	if len(bins) < 2 {
		return &PhaseResult{Bins: map[int]*AlignmentSet{UnseparatedBin: aln}}, nil
	}

	return &PhaseResult{Bins: bins}, nil
}
