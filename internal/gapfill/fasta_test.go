package gapfill

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func Test_readReference(test *testing.T) {
	dir := test.TempDir()

	path := filepath.Join(dir, "s1.fa")
	if err := WriteFasta(path, gappedRef); err != nil {
		test.Fatal(err)
	}

	ref, err := ReadReference(path)
	if err != nil {
		test.Fatal(err)
	}
	if ref.ID != "s1" || ref.Seq != gappedSeq {
		test.Errorf("read %s/%s, want s1/%s", ref.ID, ref.Seq, gappedSeq)
	}
}

func Test_readReference_fixture(test *testing.T) {
	ref, err := ReadReference(filepath.Join("..", "..", "test", "k12.gap.fa"))
	if err != nil {
		test.Fatal(err)
	}

	if ref.ID != "k12.gap" {
		test.Errorf("fixture id = %s, want k12.gap", ref.ID)
	}
	if err = ValidateReference(ref); err != nil {
		test.Errorf("fixture failed validation: %v", err)
	}
	if gap, ok := ref.GapRun(); !ok || gap != 60 {
		test.Errorf("fixture gap at %d (ok=%v), want 60", gap, ok)
	}
}

func Test_readReference_gzip(test *testing.T) {
	dir := test.TempDir()

	path := filepath.Join(dir, "s1.fa.gz")
	f, err := os.Create(path)
	if err != nil {
		test.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err = gz.Write([]byte(">s1\n" + gappedSeq + "\n")); err != nil {
		test.Fatal(err)
	}
	if err = gz.Close(); err != nil {
		test.Fatal(err)
	}
	if err = f.Close(); err != nil {
		test.Fatal(err)
	}

	ref, err := ReadReference(path)
	if err != nil {
		test.Fatal(err)
	}
	if ref.ID != "s1" || ref.Seq != gappedSeq {
		test.Errorf("read %s with %d bases from the gzipped record", ref.ID, ref.Len())
	}
}

func Test_validateReference(test *testing.T) {
	type testCase struct {
		name string
		ref  Reference
		ok   bool
	}

	for _, t := range []testCase{
		{"gapped scaffold pair", gappedRef, true},
		{"lowercase bases", Reference{ID: "s1", Seq: strings.ToLower(gappedSeq)}, true},
		{"id with periods", Reference{ID: "k12.gap.2", Seq: gappedSeq}, true},
		{"empty id", Reference{ID: "", Seq: gappedSeq}, false},
		{"id with whitespace", Reference{ID: "s 1", Seq: gappedSeq}, false},
		{"bases outside the alphabet", Reference{ID: "s1", Seq: leftFlank + gapMarker + "ACGU"}, false},
		{"no gap marker", Reference{ID: "s1", Seq: leftFlank + rightFlank}, false},
		{"marker too long", Reference{ID: "s1", Seq: leftFlank + "NNNNNNNNNNN" + rightFlank}, false},
		{"two gap markers", Reference{ID: "s1", Seq: leftFlank + gapMarker + leftFlank + gapMarker + rightFlank}, false},
	} {
		err := ValidateReference(t.ref)
		if t.ok && err != nil {
			test.Errorf("%s: unexpected error %v", t.name, err)
		}
		if !t.ok && err == nil {
			test.Errorf("%s: expected a validation error", t.name)
		}
	}
}

func Test_snapshots(test *testing.T) {
	dir := test.TempDir()

	// iterations 1, 2 and 10: the latest is picked numerically, not
	// lexicographically
	for _, iter := range []int{1, 2, 10} {
		cp := Checkpoint{
			Iteration: iter,
			Ref:       Reference{ID: "s1", Seq: gappedSeq + strings.Repeat("A", iter)},
		}
		if err := WriteSnapshot(dir, "s1", cp); err != nil {
			test.Fatal(err)
		}
	}

	// an unrelated sample's snapshot and a stray file are both ignored
	if err := WriteSnapshot(dir, "other", Checkpoint{Iteration: 99, Ref: gappedRef}); err != nil {
		test.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "s1.notes.txt"), []byte("x"), 0666); err != nil {
		test.Fatal(err)
	}

	ref, iter, err := LatestSnapshot(dir, "s1")
	if err != nil {
		test.Fatal(err)
	}
	if iter != 10 {
		test.Errorf("latest iteration = %d, want 10", iter)
	}
	if ref.Len() != len(gappedSeq)+10 {
		test.Errorf("latest snapshot has %d bases, want %d", ref.Len(), len(gappedSeq)+10)
	}
}

func Test_latestSnapshot_none(test *testing.T) {
	if _, _, err := LatestSnapshot(test.TempDir(), "s1"); err == nil {
		test.Error("expected an error when no snapshots exist")
	}
}

func Test_sampleFromPath(test *testing.T) {
	type testCase struct {
		path   string
		sample string
	}

	for _, t := range []testCase{
		{"scaffolds/k12.gap.fa", "k12.gap"},
		{"k12.fa.gz", "k12"},
		{"/data/sample1.fasta", "sample1"},
	} {
		if s := sampleFromPath(t.path); s != t.sample {
			test.Errorf("sampleFromPath(%s) = %s, want %s", t.path, s, t.sample)
		}
	}
}
