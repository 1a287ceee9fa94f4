package gapfill

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path"

	"gapfill/config"
)

// UnseparatedBin labels the single haplotype bin the phaser falls back to
// when it cannot split the reads. Separated bins are labeled 0 and 1
const UnseparatedBin = 2

// PhaseResult is the phaser collaborator's partition of an alignment set
// into haplotype bins
type PhaseResult struct {
	// Bins maps bin label to the alignments it holds: {0, 1} when the
	// phaser separated the reads, {UnseparatedBin} when it could not
	Bins map[int]*AlignmentSet
}

// Separated reports whether the phaser split the reads into two haplotypes
func (p *PhaseResult) Separated() bool {
	_, unsep := p.Bins[UnseparatedBin]
	return !unsep && len(p.Bins) > 1
}

// Driver returns the bin that should drive extension: the unseparated bin
// when phasing failed to split the reads, otherwise whichever haplotype bin
// holds more reads
func (p *PhaseResult) Driver() *AlignmentSet {
	if bin, ok := p.Bins[UnseparatedBin]; ok {
		return bin
	}

	driver := p.Bins[0]
	if b1, ok := p.Bins[1]; ok && (driver == nil || len(b1.Reads) > len(driver.Reads)) {
		driver = b1
	}
	return driver
}

// VariantSet is the variant caller's output: a set of called sites, opaque
// to the core, that the consequence renderer substitutes into a reference
type VariantSet struct {
	// Path of the indexed VCF on disk
	Path string

	// Count of called sites
	Count int
}

// Toolkit is the set of external collaborators the pipeline composes. Every
// method blocks until its tool has finished or failed; a failed invocation
// is fatal for the current run, there are no retries. The exec-backed
// implementation lives in bwa.go, samtools.go, bcftools.go and msa.go;
// tests substitute in-memory fakes
type Toolkit interface {
	MSA

	// Align maps the run's paired-end reads against ref, discarding
	// unplaced records and records aligned over less than half their length
	Align(ref Reference, threads int) (*AlignmentSet, error)

	// MarkDuplicates flags and drops optical/PCR duplicate pairs
	MarkDuplicates(aln *AlignmentSet) (*AlignmentSet, error)

	// RealignIndels locally realigns reads around indels
	RealignIndels(ref Reference, aln *AlignmentSet) (*AlignmentSet, error)

	// Downsample keeps roughly the given fraction of read pairs
	Downsample(aln *AlignmentSet, fraction float64) (*AlignmentSet, error)

	// Coverage reports per-position read depth over ref, 1-based, omitting
	// zero-depth positions
	Coverage(ref Reference, aln *AlignmentSet) (Coverage, error)

	// Phase partitions the alignments into haplotype bins
	Phase(ref Reference, aln *AlignmentSet) (*PhaseResult, error)

	// CallVariants calls variant sites from the alignments against ref
	CallVariants(ref Reference, aln *AlignmentSet) (*VariantSet, error)

	// ApplyVariants substitutes the called alleles into ref
	ApplyVariants(ref Reference, vars *VariantSet) (Reference, error)
}

// execToolkit is the production Toolkit: thin wrappers around the bwa,
// samtools, gatk, bcftools, muscle and cons executables, composed the same
// way for every pipeline stage. All scratch files live under dir
type execToolkit struct {
	conf *config.ToolConfig

	// dir holds every intermediate file the collaborators exchange
	dir string

	// reads1, reads2 are the paired-end read files handed to the aligner
	reads1, reads2 string
}

// NewToolkit returns the exec-backed Toolkit, verifying up front that every
// required collaborator executable resolves. A missing tool aborts before
// any processing starts. Every tool is required on every run: the correction
// stage realigns indels with gatk on the homozygous path too
func NewToolkit(conf *config.ToolConfig, dir, reads1, reads2 string) (Toolkit, error) {
	required := []string{conf.Bwa, conf.Samtools, conf.Bcftools, conf.Muscle, conf.Cons, conf.Gatk}

	for _, tool := range required {
		if _, err := exec.LookPath(tool); err != nil {
			return nil, fmt.Errorf("failed to find a required tool, %s, on PATH: %v", tool, err)
		}
	}

	return &execToolkit{
		conf:   conf,
		dir:    dir,
		reads1: reads1,
		reads2: reads2,
	}, nil
}

// run executes one collaborator command and waits for it. Any failure is
// fatal for the current run: collaborator calls are never retried
func (t *execToolkit) run(name string, args ...string) error {
	if out, err := exec.Command(name, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("failed executing %s: %v: %s", name, err, string(out))
	}
	return nil
}

// runTo executes a collaborator command with its stdout captured to a file
func (t *execToolkit) runTo(outPath, name string, args ...string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", outPath, err)
	}
	defer f.Close()

	cmd := exec.Command(name, args...)
	cmd.Stdout = f

	var errOut bytes.Buffer
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed executing %s: %v: %s", name, err, errOut.String())
	}
	return nil
}

// scratch names a file in the toolkit's scratch directory
func (t *execToolkit) scratch(name string) string {
	return path.Join(t.dir, name)
}
