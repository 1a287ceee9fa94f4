package gapfill

import (
	"fmt"

	"gapfill/config"
)

// coverageCeilingFactor scales the configured coverage limit into the hard
// ceiling above which a boundary is considered pathologically covered
const coverageCeilingFactor = 3

// StopState is the extension loop's state. The loop starts Running and ends
// in exactly one of the terminal states; none of them is an error
type StopState int

const (
	// Running means the loop has not terminated yet
	Running StopState = iota

	// StoppedGapClosed means a splice merged the two sides and the gap
	// marker is gone: the assembly is complete
	StoppedGapClosed

	// StoppedNoGrowth means an iteration failed to lengthen the reference
	StoppedNoGrowth

	// StoppedHighCoverage means both gap boundaries exceeded the coverage
	// ceiling, evidence that the flanks collapsed onto a repeat
	StoppedHighCoverage

	// StoppedSidesMet means the two flanks are judged to have converged:
	// both 20-base gap anchors now occur more than once
	StoppedSidesMet

	// StoppedMaxIterations means the iteration budget ran out before any
	// other condition was hit
	StoppedMaxIterations
)

// String returns the state's name
func (s StopState) String() string {
	switch s {
	case Running:
		return "running"
	case StoppedGapClosed:
		return "gap closed"
	case StoppedNoGrowth:
		return "no growth"
	case StoppedHighCoverage:
		return "high coverage"
	case StoppedSidesMet:
		return "sides met"
	case StoppedMaxIterations:
		return "max iterations"
	}
	return "unknown"
}

// PloidyMode selects between the two extension paths. They differ only in
// the phasing, downsampling and duplicate-marking steps
type PloidyMode int

const (
	// Homozygous skips duplicate marking, realignment and phasing for speed
	Homozygous PloidyMode = iota

	// Heterozygous marks duplicates, realigns around indels and phases the
	// reads into haplotype bins each iteration
	Heterozygous
)

// Checkpoint is one iteration's committed reference, retained for audit and
// for resuming an interrupted run from its last good state
type Checkpoint struct {
	// Iteration number, starting at 1
	Iteration int

	// Ref as committed at the end of that iteration
	Ref Reference
}

// LoopResult is the extension loop's terminal state and final sequence
type LoopResult struct {
	// State the loop terminated in
	State StopState

	// Final reference, handed to the correction stage
	Final Reference

	// Iterations actually executed
	Iterations int
}

// Loop is the extension state machine. It owns the single working reference
// binding during iteration; only the splice engine produces new values, and
// each iteration's coverage profile and alignments are fully replaced, so
// there is no shared mutable state to guard
type Loop struct {
	tools Toolkit
	mode  PloidyMode

	maxIterations    int
	coverageLimit    int
	threads          int
	downsampleTarget float64

	checkpoints []Checkpoint

	// Snapshot, when set, is called with every committed checkpoint so the
	// caller can persist it before the next iteration starts (the resume
	// guarantee for interrupted runs)
	Snapshot func(Checkpoint) error
}

// NewLoop returns an extension loop over the given collaborators
func NewLoop(tools Toolkit, conf *config.Config, mode PloidyMode) *Loop {
	return &Loop{
		tools:            tools,
		mode:             mode,
		maxIterations:    conf.Loop.MaxIterations,
		coverageLimit:    conf.Loop.CoverageLimit,
		threads:          conf.Loop.Threads,
		downsampleTarget: conf.Correct.DownsampleTarget,
	}
}

// Checkpoints returns every committed iteration snapshot, oldest first
func (l *Loop) Checkpoints() []Checkpoint {
	return l.checkpoints
}

// Run drives alignment, anchor extraction, consensus building and splicing
// until a terminal state is reached. Strictly sequential: every iteration
// depends on the reference committed by the one before it. An error is a
// failed collaborator invocation and is fatal for the run; every stop
// condition is a normal result
func (l *Loop) Run(start Reference) (*LoopResult, error) {
	ref := start
	ceiling := coverageCeilingFactor * l.coverageLimit

	for iter := 1; iter <= l.maxIterations; iter++ {
		aln, cov, err := l.prepare(ref)
		if err != nil {
			return nil, fmt.Errorf("failed on iteration %d: %v", iter, err)
		}

		gap, ok := ref.GapRun()
		if !ok {
			// the previous iteration's splice merged the two sides
			return l.stop(StoppedGapClosed, ref, iter-1), nil
		}

		left := AnchorReads(aln.Reads, gap, SideLeft)
		right := AnchorReads(aln.Reads, gap, SideRight)

		// boundary depths, 1-based in the profile
		leftDepth := cov.Depth(leftBoundary(gap) + 1)
		rightDepth := cov.Depth(rightBoundary(gap) + 1)

		stderr.Printf(
			"iteration %d: %d bp, %d/%d anchor reads, %d/%d boundary depth",
			iter, ref.Len(), len(left), len(right), leftDepth, rightDepth,
		)

		if leftDepth > ceiling && rightDepth > ceiling {
			l.checkpoint(iter, ref)
			return l.stop(StoppedHighCoverage, ref, iter), nil
		}

		next := ref
		if len(left) > 0 && leftDepth <= ceiling {
			cons, err := BuildConsensus(l.tools, left)
			if err != nil {
				return nil, err
			}
			next = Splice(ref, next, gap, SideLeft, cons)
		}
		if len(right) > 0 && rightDepth <= ceiling {
			cons, err := BuildConsensus(l.tools, right)
			if err != nil {
				return nil, err
			}
			next = Splice(ref, next, gap, SideRight, cons)
		}

		if next.Len() <= ref.Len() {
			l.checkpoint(iter, next)
			return l.stop(StoppedNoGrowth, next, iter), nil
		}

		// the convergence check only runs when both sides actively extended
		// this round; the high-coverage branch above skips it even when the
		// sequence grew
		if len(left) > 0 && len(right) > 0 && l.sidesMet(next) {
			l.checkpoint(iter, next)
			return l.stop(StoppedSidesMet, next, iter), nil
		}

		l.checkpoint(iter, next)
		ref = next
	}

	return l.stop(StoppedMaxIterations, ref, l.maxIterations), nil
}

// prepare re-aligns the reads against ref and derives the iteration's
// coverage profile; on the heterozygous path it also marks duplicates,
// realigns around indels, downsamples excessive coverage and phases the
// reads, keeping the bin the phaser judged complete (or the larger one)
func (l *Loop) prepare(ref Reference) (*AlignmentSet, Coverage, error) {
	aln, err := l.tools.Align(ref, l.threads)
	if err != nil {
		return nil, nil, err
	}

	if l.mode == Heterozygous {
		if aln, err = l.tools.MarkDuplicates(aln); err != nil {
			return nil, nil, err
		}
		if aln, err = l.tools.RealignIndels(ref, aln); err != nil {
			return nil, nil, err
		}
	}

	cov, err := l.tools.Coverage(ref, aln)
	if err != nil {
		return nil, nil, err
	}

	if l.mode == Heterozygous {
		if mean := cov.Mean(); mean > l.downsampleTarget {
			if aln, err = l.tools.Downsample(aln, l.downsampleTarget/mean); err != nil {
				return nil, nil, err
			}
		}

		phased, err := l.tools.Phase(ref, aln)
		if err != nil {
			return nil, nil, err
		}
		if aln = phased.Driver(); aln == nil {
			aln = &AlignmentSet{}
		}
	}

	return aln, cov, nil
}

// sidesMet reports whether the two flanks have grown into one another: both
// 20-base anchors around the still-present gap occurring at least twice
// means each side now contains sequence from the other
func (l *Loop) sidesMet(ref Reference) bool {
	gap, ok := ref.GapRun()
	if !ok {
		return false
	}

	left, right, ok := meetAnchors(ref, gap)
	if !ok {
		return false
	}

	return ref.CountOccurrences(left) >= 2 && ref.CountOccurrences(right) >= 2
}

// checkpoint retains an iteration's committed reference
func (l *Loop) checkpoint(iter int, ref Reference) {
	cp := Checkpoint{Iteration: iter, Ref: ref}
	l.checkpoints = append(l.checkpoints, cp)

	if l.Snapshot != nil {
		if err := l.Snapshot(cp); err != nil {
			stderr.Printf("warning: failed to persist the iteration %d snapshot: %v", iter, err)
		}
	}
}

// stop builds the loop's terminal result
func (l *Loop) stop(state StopState, ref Reference, iters int) *LoopResult {
	stderr.Printf("stopping: %s after %d iteration(s)", state, iters)

	return &LoopResult{
		State:      state,
		Final:      ref,
		Iterations: iters,
	}
}
