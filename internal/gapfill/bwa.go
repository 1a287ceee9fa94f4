package gapfill

import (
	"fmt"
	"strconv"
)

// Align writes the working reference to the scratch directory, indexes it,
// maps the run's paired-end reads against it with bwa and sorts the result,
// returning the parsed, filtered records plus the sorted BAM for the
// downstream collaborators
func (t *execToolkit) Align(ref Reference, threads int) (*AlignmentSet, error) {
	if threads < 1 {
		threads = 1
	}

	refPath := t.scratch(ref.ID + ".fa")
	samPath := t.scratch(ref.ID + ".sam")
	bamPath := t.scratch(ref.ID + ".sorted.bam")

	if err := WriteFasta(refPath, ref); err != nil {
		return nil, err
	}

	if err := t.run(t.conf.Bwa, "index", refPath); err != nil {
		return nil, fmt.Errorf("failed to index %s: %v", refPath, err)
	}

	// https://bio-bwa.sourceforge.net/bwa.shtml
	args := []string{"mem", "-t", strconv.Itoa(threads), refPath, t.reads1}
	if t.reads2 != "" {
		args = append(args, t.reads2)
	}
	if err := t.runTo(samPath, t.conf.Bwa, args...); err != nil {
		return nil, err
	}

	if err := t.run(t.conf.Samtools, "sort", "-o", bamPath, samPath); err != nil {
		return nil, err
	}
	if err := t.run(t.conf.Samtools, "index", bamPath); err != nil {
		return nil, err
	}

	reads, err := readBAM(bamPath)
	if err != nil {
		return nil, err
	}

	return &AlignmentSet{Reads: reads, Path: bamPath}, nil
}
