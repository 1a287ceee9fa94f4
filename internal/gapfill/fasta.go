package gapfill

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/klauspost/compress/gzip"
)

// identifierPattern is the allowed shape of a reference id: alphanumerics
// and periods
var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9.]+$`)

// nucleotidePattern is the allowed reference alphabet, case-insensitive
var nucleotidePattern = regexp.MustCompile(`^[acgtnACGTN]+$`)

// snapshotPattern matches iteration snapshot file names written by
// WriteSnapshot: <sample>.iter<N>.fa
var snapshotPattern = regexp.MustCompile(`\.iter(\d+)\.fa$`)

// ReadReference reads the first FASTA record at path into a Reference.
// Gzipped files are decompressed transparently
func ReadReference(path string) (Reference, error) {
	f, err := os.Open(path)
	if err != nil {
		return Reference{}, fmt.Errorf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	var in io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return Reference{}, fmt.Errorf("failed to decompress %s: %v", path, err)
		}
		defer gz.Close()
		in = gz
	}

	r := fasta.NewReader(in, linear.NewSeq("", nil, alphabet.DNAredundant))
	s, err := r.Read()
	if err != nil {
		return Reference{}, fmt.Errorf("failed to parse a FASTA record from %s: %v", path, err)
	}

	ls := s.(*linear.Seq)
	seq := make([]byte, len(ls.Seq))
	for i, l := range ls.Seq {
		seq[i] = byte(l)
	}

	return Reference{ID: ls.ID, Seq: string(seq)}, nil
}

// ValidateReference checks that a reference is usable as gap closing input:
// a well-formed identifier, the {A,C,G,T,N} alphabet, and exactly one run
// of exactly ten Ns marking the gap
func ValidateReference(ref Reference) error {
	if !identifierPattern.MatchString(ref.ID) {
		return fmt.Errorf("reference id %q is not alphanumeric/periods", ref.ID)
	}
	if !nucleotidePattern.MatchString(ref.Seq) {
		return fmt.Errorf("reference %s contains bases outside {A,C,G,T,N}", ref.ID)
	}

	gap, ok := ref.GapRun()
	if !ok {
		return fmt.Errorf("reference %s has no run of exactly ten Ns marking a gap", ref.ID)
	}

	// a second marker would make the splice targets ambiguous
	rest := Reference{ID: ref.ID, Seq: ref.Seq[gap+gapRunLen:]}
	if _, another := rest.GapRun(); another {
		return fmt.Errorf("reference %s has more than one gap marker", ref.ID)
	}

	return nil
}

// WriteFasta writes a single two-line FASTA record
func WriteFasta(path string, ref Reference) error {
	record := fmt.Sprintf(">%s\n%s\n", ref.ID, ref.Seq)
	if err := os.WriteFile(path, []byte(record), 0666); err != nil {
		return fmt.Errorf("failed to write %s: %v", path, err)
	}
	return nil
}

// WriteSnapshot persists one iteration checkpoint for audit/debugging and
// for resuming an interrupted run, named by sample id and iteration number
func WriteSnapshot(dir, sample string, cp Checkpoint) error {
	return WriteFasta(snapshotPath(dir, sample, cp.Iteration), cp.Ref)
}

// snapshotPath names an iteration snapshot file
func snapshotPath(dir, sample string, iteration int) string {
	return filepath.Join(dir, fmt.Sprintf("%s.iter%d.fa", sample, iteration))
}

// LatestSnapshot finds the highest-numbered iteration snapshot for the
// sample in dir and returns its sequence and iteration number. Used to
// restart an interrupted run from its last committed reference
func LatestSnapshot(dir, sample string) (Reference, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Reference{}, 0, fmt.Errorf("failed to scan %s for snapshots: %v", dir, err)
	}

	best := -1
	var bestPath string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), sample+".iter") {
			continue
		}

		m := snapshotPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}

		n, err := strconv.Atoi(m[1])
		if err != nil || n <= best {
			continue
		}
		best = n
		bestPath = filepath.Join(dir, e.Name())
	}

	if best < 0 {
		return Reference{}, 0, fmt.Errorf("no %s.iter*.fa snapshots in %s", sample, dir)
	}

	ref, err := ReadReference(bestPath)
	return ref, best, err
}
