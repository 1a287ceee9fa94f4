package gapfill

import (
	"errors"
	"testing"
)

func Test_correct_homozygous(test *testing.T) {
	// single corrected record carrying the input's id, after a full
	// markdup + realign + call + apply pass
	applied := gappedSeq[:len(gappedSeq)-1] + "C"

	tools := &fakeToolkit{
		applied: func(ref Reference) Reference {
			return Reference{ID: "consensus", Seq: applied}
		},
	}

	outputs, err := NewCorrector(tools, testConfig(), Homozygous).Correct(gappedRef)
	if err != nil {
		test.Fatal(err)
	}

	if len(outputs) != 1 {
		test.Fatalf("%d outputs, want 1", len(outputs))
	}
	if outputs[0].ID != "s1" {
		test.Errorf("output id = %s, want s1", outputs[0].ID)
	}
	if outputs[0].Seq != applied {
		test.Errorf("output sequence = %s, want %s", outputs[0].Seq, applied)
	}
	if tools.dupsMarked != 1 || tools.realigns != 1 || tools.calls != 1 {
		test.Errorf(
			"markdup/realign/call ran %d/%d/%d times, want 1/1/1",
			tools.dupsMarked, tools.realigns, tools.calls,
		)
	}
}

func Test_correct_unseparated(test *testing.T) {
	// the phaser failed to split the reads: the heterozygous path degrades
	// to a single record with the plain id and no coverage masking
	tools := &fakeToolkit{}

	outputs, err := NewCorrector(tools, testConfig(), Heterozygous).Correct(gappedRef)
	if err != nil {
		test.Fatal(err)
	}

	if len(outputs) != 1 {
		test.Fatalf("%d outputs, want 1", len(outputs))
	}
	if outputs[0].ID != "s1" {
		test.Errorf("output id = %s, want s1 with no bin suffix", outputs[0].ID)
	}
	// the empty depth profile would have masked every base
	if outputs[0].Seq != gappedSeq {
		test.Error("the degraded path must not coverage-mask its output")
	}
	if tools.phases != 1 {
		test.Errorf("phase ran %d times, want 1", tools.phases)
	}
}

func Test_correct_haplotypeBins(test *testing.T) {
	// two haplotype bins: one corrected, coverage-masked record per bin,
	// ids suffixed with the bin number
	ref := Reference{ID: "s1", Seq: "ACGTACGTAC"}

	profile := Coverage{1: 50, 2: 50, 3: 1, 4: 50, 5: 50, 6: 50, 7: 50, 8: 50, 9: 50, 10: 50}

	tools := &fakeToolkit{
		readsFor: func(ref Reference) []Read {
			return []Read{{ID: "a"}, {ID: "b"}}
		},
		coverageFor: func(aln *AlignmentSet) Coverage {
			return profile
		},
		phaseFor: func(aln *AlignmentSet) *PhaseResult {
			return &PhaseResult{Bins: map[int]*AlignmentSet{
				0: {Reads: aln.Reads[:1]},
				1: {Reads: aln.Reads[1:]},
			}}
		},
	}

	outputs, err := NewCorrector(tools, testConfig(), Heterozygous).Correct(ref)
	if err != nil {
		test.Fatal(err)
	}

	if len(outputs) != 2 {
		test.Fatalf("%d outputs, want 2", len(outputs))
	}
	for i, out := range outputs {
		want := Reference{ID: "s1." + string(rune('0'+i)), Seq: "ACNTACGTAC"}
		if out.ID != want.ID {
			test.Errorf("output %d id = %s, want %s", i, out.ID, want.ID)
		}
		// position 3 sits at 1/45.1 of the mean depth and is masked
		if out.Seq != want.Seq {
			test.Errorf("output %d sequence = %s, want %s", i, out.Seq, want.Seq)
		}
	}
}

func Test_correct_unresolvableGap(test *testing.T) {
	// the still-open gap is too close to the sequence start for its anchors
	// to ever be judged joined
	ref := Reference{ID: "s1", Seq: "ACG" + gapMarker + "ACGTACGTACGTACGTACGTACGTACGTACGT"}

	outputs, err := NewCorrector(&fakeToolkit{}, testConfig(), Homozygous).Correct(ref)
	if !errors.Is(err, ErrUnresolvableGap) {
		test.Fatalf("err = %v, want ErrUnresolvableGap", err)
	}
	if outputs != nil {
		test.Error("an unresolvable gap must not produce outputs")
	}
}
