package gapfill

import (
	"fmt"
	"os"
	"strings"
)

// AlignAndConsensus writes the anchor reads as a minimal FASTA collection,
// aligns them with muscle and reduces the alignment to a per-column
// plurality consensus with EMBOSS cons. The raw consensus comes back as-is;
// ambiguity placeholders are the caller's problem (see BuildConsensus)
func (t *execToolkit) AlignAndConsensus(reads []Read) (string, error) {
	inPath := t.scratch("msa.input.fa")
	alnPath := t.scratch("msa.aligned.fa")
	consPath := t.scratch("msa.cons.fa")

	var b strings.Builder
	for _, r := range reads {
		fmt.Fprintf(&b, ">%s\n%s\n", r.ID, r.Seq)
	}
	if err := os.WriteFile(inPath, []byte(b.String()), 0666); err != nil {
		return "", fmt.Errorf("failed to create the MSA input at %s: %v", inPath, err)
	}

	// https://drive5.com/muscle5
	if err := t.run(t.conf.Muscle, "-align", inPath, "-output", alnPath); err != nil {
		return "", err
	}

	// http://emboss.open-bio.org/rel/rel6/apps/cons.html
	if err := t.run(t.conf.Cons, "-sequence", alnPath, "-outseq", consPath, "-name", "consensus"); err != nil {
		return "", err
	}

	return readLooseFasta(consPath)
}

// readLooseFasta joins the sequence lines of the first FASTA record at
// path without any alphabet validation: consensus output may hold
// placeholder characters that a nucleotide parser would reject
func readLooseFasta(path string) (string, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %v", path, err)
	}

	var seq []string
	inRecord := false
	for _, line := range strings.Split(string(dat), "\n") {
		if strings.HasPrefix(line, ">") {
			if inRecord {
				break // only the first record
			}
			inRecord = true
			continue
		}
		if inRecord {
			seq = append(seq, strings.TrimSpace(line))
		}
	}

	if !inRecord {
		return "", fmt.Errorf("failed to parse a FASTA record from %s", path)
	}

	return strings.Join(seq, ""), nil
}
