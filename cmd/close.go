package cmd

import (
	"gapfill/internal/gapfill"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// closeCmd is for closing the gap in a reference scaffold pair using
// paired-end read evidence
var closeCmd = &cobra.Command{
	Use:                        "close",
	Short:                      "Close the gap in a reference by iterative read extension",
	Run:                        gapfill.CloseCmd,
	SuggestionsMinimumDistance: 2,
	Long: `Iteratively extend the two scaffolds flanking a gap toward one another.

Each round the reads are re-aligned against the working reference, reads
spanning a gap boundary are collected, their consensus is spliced into the
reference, and the loop decides whether to keep going. The finished sequence
is then re-mapped, optionally phased into haplotypes, and error-corrected
against called variants and per-base coverage.`,
}

// set flags
func init() {
	closeCmd.Flags().StringP("reference", "r", "", "input reference FASTA with a single gap (run of ten Ns)")
	closeCmd.Flags().StringP("reads1", "1", "", "forward paired-end reads, FASTQ (optionally gzipped)")
	closeCmd.Flags().StringP("reads2", "2", "", "reverse paired-end reads, FASTQ (optionally gzipped)")
	closeCmd.Flags().StringP("sample", "n", "", "sample id used in output headers and snapshot names")
	closeCmd.Flags().StringP("out", "o", "", "output directory (default: directory of the reference)")
	closeCmd.Flags().BoolP("het", "e", false, "heterozygous sample: phase reads and correct each haplotype")
	closeCmd.Flags().BoolP("resume", "u", false, "resume from the last iteration snapshot in the output directory")
	closeCmd.Flags().BoolP("keep", "k", false, "keep the scratch directory with intermediate tool files")
	closeCmd.Flags().IntP("threads", "t", 1, "threads passed to the aligner")
	closeCmd.Flags().IntP("iterations", "l", 100, "maximum number of extension iterations")
	closeCmd.Flags().IntP("coverage-limit", "c", 1000, "predicted coverage; extension halts above three times this")

	// settings is an optional parameter for a settings file (overriding the built-in defaults)
	closeCmd.PersistentFlags().StringP("settings", "s", "", "optional YAML settings file")
	viper.BindPFlag("settings", closeCmd.PersistentFlags().Lookup("settings"))
	viper.BindPFlag("iterations", closeCmd.Flags().Lookup("iterations"))
	viper.BindPFlag("coverage-limit", closeCmd.Flags().Lookup("coverage-limit"))
	viper.BindPFlag("threads", closeCmd.Flags().Lookup("threads"))

	RootCmd.AddCommand(closeCmd)
}
