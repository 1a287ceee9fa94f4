// Package gapfill closes the gap between two scaffolds of a draft assembly
// by iteratively extending both flanks with paired-end read evidence and
// error-correcting the finished sequence against coverage and called variants
package gapfill

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
)

// stderr is for logging to Stderr (without an annoying timestamp)
var stderr = log.New(os.Stderr, "", 0)

// ErrNotFound is returned by Reference.Replace when the substring
// to replace is absent from the sequence
var ErrNotFound = errors.New("substring not found in reference")

// ErrUnresolvableGap is returned by the correction stage when it is handed
// a reference whose gap anchors cannot be resolved at all
var ErrUnresolvableGap = errors.New("gap anchors cannot be resolved, reference cannot be used")

// gapRunLen is the length of the run of Ns marking an unresolved gap.
// A run of any other length is not a gap marker
const gapRunLen = 10

// gapMarker is the marker itself
var gapMarker = strings.Repeat("N", gapRunLen)

// Reference is a scaffold sequence being extended: an id and a nucleotide
// string over {A,C,G,T,N}, case-insensitive. Lower-case bases are ones added
// by the extension loop. Reference is a value: operations return new
// References and never mutate the receiver
type Reference struct {
	// ID of the sequence, from (and written back to) the FASTA header
	ID string

	// Seq is the nucleotide sequence
	Seq string
}

// Len returns the sequence length
func (r Reference) Len() int {
	return len(r.Seq)
}

// GapRun returns the 0-based start of the run of exactly ten Ns marking the
// gap, case-insensitively. Returns false when no such run exists, which
// signals that the assembly is complete. Runs of Ns longer or shorter than
// ten are not gap markers
func (r Reference) GapRun() (int, bool) {
	upper := strings.ToUpper(r.Seq)

	for i := 0; i < len(upper); {
		if upper[i] != 'N' {
			i++
			continue
		}

		runEnd := i + 1
		for runEnd < len(upper) && upper[runEnd] == 'N' {
			runEnd++
		}

		if runEnd-i == gapRunLen {
			return i, true
		}
		i = runEnd
	}

	return 0, false
}

// CountOccurrences returns the number of non-overlapping occurrences of sub
// in the sequence, case-insensitively. Used to decide whether an anchor
// pattern targets a unique spot before splicing
func (r Reference) CountOccurrences(sub string) int {
	if sub == "" {
		return 0
	}
	return strings.Count(strings.ToUpper(r.Seq), strings.ToUpper(sub))
}

// Replace returns a new Reference with the first left-to-right occurrence of
// old replaced by new, matching case-insensitively. The receiver is left
// untouched; callers decide whether to commit the result as the new working
// reference. Errors with ErrNotFound when old is absent
func (r Reference) Replace(old, new string) (Reference, error) {
	if old == "" {
		return Reference{}, fmt.Errorf("refusing to replace an empty substring in %s: %w", r.ID, ErrNotFound)
	}

	i := strings.Index(strings.ToUpper(r.Seq), strings.ToUpper(old))
	if i < 0 {
		return Reference{}, fmt.Errorf("%q is not in %s: %w", old, r.ID, ErrNotFound)
	}

	return Reference{
		ID:  r.ID,
		Seq: r.Seq[:i] + new + r.Seq[i+len(old):],
	}, nil
}
