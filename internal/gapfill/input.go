package gapfill

import (
	"os"
	"path/filepath"
	"strings"

	"gapfill/config"

	"github.com/spf13/cobra"
)

// Flags contains parsed cobra flags like "reference", "reads1", etc that
// describe one gap closing run
type Flags struct {
	// path of the reference FASTA holding the gapped scaffold pair
	reference string

	// paths of the paired-end read files
	reads1, reads2 string

	// sample id used in output headers and snapshot names; defaults to the
	// reference file's base name
	sample string

	// out is the directory outputs and snapshots are written to
	out string

	// het marks the sample as heterozygous (phased extension/correction)
	het bool

	// resume restarts from the last iteration snapshot in out
	resume bool

	// keep retains the scratch directory after the run
	keep bool
}

// NewFlags makes a new flags object manually. for testing
func NewFlags(reference, reads1, reads2, sample, out string, het bool) (*Flags, *config.Config) {
	if sample == "" {
		sample = sampleFromPath(reference)
	}
	if out == "" {
		out = filepath.Dir(reference)
	}

	return &Flags{
		reference: reference,
		reads1:    reads1,
		reads2:    reads2,
		sample:    sample,
		out:       out,
		het:       het,
	}, config.New()
}

// parseCmdFlags gathers the reference path, read paths, etc from a cobra
// cmd object, exiting on missing or unusable required inputs. Returns Flags
// and a Config struct for gapfill.Close
func parseCmdFlags(cmd *cobra.Command, args []string) (*Flags, *config.Config) {
	fs := &Flags{} // parsed flags
	c := config.New()
	var err error

	if fs.reference, err = cmd.Flags().GetString("reference"); err != nil || fs.reference == "" {
		stderr.Fatal("failed, no reference FASTA set: pass one with --reference")
	}
	if fs.reads1, err = cmd.Flags().GetString("reads1"); err != nil || fs.reads1 == "" {
		stderr.Fatal("failed, no forward reads set: pass them with --reads1")
	}
	if fs.reads2, err = cmd.Flags().GetString("reads2"); err != nil {
		stderr.Fatalf("failed to parse the reverse reads flag: %v", err)
	}

	// required inputs have to exist before any collaborator is run
	for _, in := range []string{fs.reference, fs.reads1, fs.reads2} {
		if in == "" {
			continue
		}
		if _, err := os.Stat(in); os.IsNotExist(err) {
			stderr.Fatalf("failed to find an input file at %s", in)
		}
	}

	if fs.sample, err = cmd.Flags().GetString("sample"); err != nil || fs.sample == "" {
		fs.sample = sampleFromPath(fs.reference)
	}
	if fs.out, err = cmd.Flags().GetString("out"); err != nil || fs.out == "" {
		fs.out = filepath.Dir(fs.reference)
	}

	if fs.het, err = cmd.Flags().GetBool("het"); err != nil {
		stderr.Fatalf("failed to parse the het flag: %v", err)
	}
	if fs.resume, err = cmd.Flags().GetBool("resume"); err != nil {
		stderr.Fatalf("failed to parse the resume flag: %v", err)
	}
	if fs.keep, err = cmd.Flags().GetBool("keep"); err != nil {
		stderr.Fatalf("failed to parse the keep flag: %v", err)
	}

	return fs, c
}

// sampleFromPath derives a sample id from the reference file name:
// "scaffolds/k12.gap.fa" becomes "k12.gap"
func sampleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	return strings.TrimSuffix(base, filepath.Ext(base))
}
