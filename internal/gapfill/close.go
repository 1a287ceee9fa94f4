package gapfill

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gapfill/config"

	"github.com/spf13/cobra"
)

// CloseCmd takes a cobra command (with its flags) and runs Close
func CloseCmd(cmd *cobra.Command, args []string) {
	Close(parseCmdFlags(cmd, args))
}

// Close is for running an end to end gap closing run: validate the inputs,
// drive the extension loop until it terminates, then hand the final spliced
// reference to the phasing/correction stage and write the corrected
// FASTA(s) next to the iteration snapshots
func Close(flags *Flags, conf *config.Config) {
	handleErr := func(err error) {
		if err != nil {
			stderr.Fatalf("failed to close the gap in %s: %v", flags.reference, err)
		}
	}
	start := time.Now()

	ref, err := ReadReference(flags.reference)
	handleErr(err)

	ref.ID = flags.sample
	handleErr(ValidateReference(ref))

	mode := Homozygous
	if flags.het {
		mode = Heterozygous
	}

	// scratch space for everything the collaborators exchange
	scratch, err := os.MkdirTemp(flags.out, flags.sample+".scratch")
	handleErr(err)
	if !flags.keep {
		defer os.RemoveAll(scratch)
	}

	// a missing collaborator tool aborts before any work starts
	tools, err := NewToolkit(&conf.Tools, scratch, flags.reads1, flags.reads2)
	handleErr(err)

	// an interrupted run restarts from its last committed snapshot
	if flags.resume {
		resumed, iter, err := LatestSnapshot(flags.out, flags.sample)
		handleErr(err)

		stderr.Printf("resuming %s from the iteration %d snapshot", flags.sample, iter)
		ref = resumed
	}

	fmt.Printf("Closing the gap in %s (%d bp)\n", flags.sample, ref.Len())

	loop := NewLoop(tools, conf, mode)
	loop.Snapshot = func(cp Checkpoint) error {
		return WriteSnapshot(flags.out, flags.sample, cp)
	}

	result, err := loop.Run(ref)
	handleErr(err)

	outputs, err := NewCorrector(tools, conf, mode).Correct(result.Final)
	handleErr(err)

	for _, out := range outputs {
		path := filepath.Join(flags.out, out.ID+".fa")
		handleErr(WriteFasta(path, out))
		fmt.Printf("Wrote %s (%d bp)\n", path, out.Len())
	}

	elapsed := time.Since(start)
	fmt.Printf("%s: %s after %d iteration(s), %s\n\n", flags.sample, result.State, result.Iterations, elapsed)
}
