package gapfill

import (
	"os/exec"
	"strings"
)

// CallVariants calls variant sites from the alignments with the bcftools
// mpileup/call pair, leaving an indexed VCF for the consequence renderer
func (t *execToolkit) CallVariants(ref Reference, aln *AlignmentSet) (*VariantSet, error) {
	refPath := t.scratch(ref.ID + ".fa")
	pileupPath := t.scratch("pileup.bcf")
	vcfPath := t.scratch("calls.vcf.gz")

	if err := t.run(t.conf.Samtools, "faidx", refPath); err != nil {
		return nil, err
	}

	// https://samtools.github.io/bcftools/bcftools.html
	if err := t.run(t.conf.Bcftools, "mpileup", "-f", refPath, "-Ob", "-o", pileupPath, aln.Path); err != nil {
		return nil, err
	}
	if err := t.run(t.conf.Bcftools, "call", "-mv", "-Oz", "-o", vcfPath, pileupPath); err != nil {
		return nil, err
	}
	if err := t.run(t.conf.Bcftools, "index", "-f", vcfPath); err != nil {
		return nil, err
	}

	return &VariantSet{Path: vcfPath, Count: t.countVariants(vcfPath)}, nil
}

// countVariants counts the called sites in a VCF, 0 when the count cannot
// be read (the count is informational only)
func (t *execToolkit) countVariants(vcfPath string) int {
	out, err := exec.Command(t.conf.Bcftools, "view", "-H", vcfPath).Output()
	if err != nil {
		return 0
	}

	n := 0
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// ApplyVariants substitutes every called allele into the reference with
// bcftools consensus and reads the corrected sequence back
func (t *execToolkit) ApplyVariants(ref Reference, vars *VariantSet) (Reference, error) {
	refPath := t.scratch(ref.ID + ".fa")
	outPath := t.scratch(ref.ID + ".corrected.fa")

	if err := t.runTo(outPath, t.conf.Bcftools, "consensus", "-f", refPath, vars.Path); err != nil {
		return Reference{}, err
	}

	corrected, err := ReadReference(outPath)
	if err != nil {
		return Reference{}, err
	}

	corrected.ID = ref.ID
	return corrected, nil
}
