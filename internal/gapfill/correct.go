package gapfill

import (
	"fmt"

	"gapfill/config"
)

// Corrector is the post-extension stage turning the loop's final spliced
// sequence into the delivered, error-corrected output records
type Corrector struct {
	tools Toolkit
	mode  PloidyMode

	threads          int
	downsampleTarget float64
	maskFraction     float64
}

// NewCorrector returns the correction stage over the given collaborators
func NewCorrector(tools Toolkit, conf *config.Config, mode PloidyMode) *Corrector {
	return &Corrector{
		tools:            tools,
		mode:             mode,
		threads:          conf.Loop.Threads,
		downsampleTarget: conf.Correct.DownsampleTarget,
		maskFraction:     conf.Correct.MaskFraction,
	}
}

// Correct re-aligns the reads against the finished reference and renders
// the corrected output sequence(s): one record on the homozygous path, one
// per haplotype bin on the heterozygous path. A reference whose gap anchors
// cannot be resolved at all aborts with ErrUnresolvableGap; a phaser that
// cannot separate the reads silently degrades the heterozygous path to the
// single-output homozygous flow
func (c *Corrector) Correct(ref Reference) ([]Reference, error) {
	// a still-open gap sitting too close to a sequence end can never be
	// judged joined and the reference cannot be used
	if gap, open := ref.GapRun(); open {
		if _, _, ok := meetAnchors(ref, gap); !ok {
			return nil, fmt.Errorf("gap at %d in %s: %w", gap, ref.ID, ErrUnresolvableGap)
		}
	}

	// full re-alignment on both paths: duplicates marked and indels
	// locally realigned before any calling
	aln, err := c.tools.Align(ref, c.threads)
	if err != nil {
		return nil, err
	}
	if aln, err = c.tools.MarkDuplicates(aln); err != nil {
		return nil, err
	}
	if aln, err = c.tools.RealignIndels(ref, aln); err != nil {
		return nil, err
	}

	if c.mode == Homozygous {
		out, err := c.applyVariants(ref, aln, ref.ID)
		if err != nil {
			return nil, err
		}
		return []Reference{out}, nil
	}

	return c.correctPhased(ref, aln)
}

// correctPhased is the heterozygous path: downsample excessive coverage,
// split the reads into haplotype bins and emit one corrected, coverage
// masked record per bin
func (c *Corrector) correctPhased(ref Reference, aln *AlignmentSet) ([]Reference, error) {
	cov, err := c.tools.Coverage(ref, aln)
	if err != nil {
		return nil, err
	}
	if mean := cov.Mean(); mean > c.downsampleTarget {
		if aln, err = c.tools.Downsample(aln, c.downsampleTarget/mean); err != nil {
			return nil, err
		}
	}

	phased, err := c.tools.Phase(ref, aln)
	if err != nil {
		return nil, err
	}

	if !phased.Separated() {
		// no reads landed in a second haplotype: one output, no bin suffix
		stderr.Printf("reads did not separate into haplotypes, emitting a single corrected sequence")

		out, err := c.applyVariants(ref, phased.Driver(), ref.ID)
		if err != nil {
			return nil, err
		}
		return []Reference{out}, nil
	}

	var outputs []Reference
	for _, bin := range []int{0, 1} {
		binAln, ok := phased.Bins[bin]
		if !ok || len(binAln.Reads) == 0 {
			continue
		}

		corrected, err := c.applyVariants(ref, binAln, fmt.Sprintf("%s.%d", ref.ID, bin))
		if err != nil {
			return nil, err
		}

		binCov, err := c.tools.Coverage(ref, binAln)
		if err != nil {
			return nil, err
		}

		outputs = append(outputs, MaskLowCoverage(corrected, binCov, c.maskFraction))
	}

	return outputs, nil
}

// applyVariants calls variants from the alignments and substitutes the
// called alleles into ref, naming the corrected record id
func (c *Corrector) applyVariants(ref Reference, aln *AlignmentSet, id string) (Reference, error) {
	vars, err := c.tools.CallVariants(ref, aln)
	if err != nil {
		return Reference{}, err
	}

	corrected, err := c.tools.ApplyVariants(ref, vars)
	if err != nil {
		return Reference{}, err
	}

	corrected.ID = id
	return corrected, nil
}
