package gapfill

import (
	"testing"

	"gapfill/config"
)

// resolvableTools names an executable present on any POSIX PATH for every
// collaborator slot
func resolvableTools() config.ToolConfig {
	return config.ToolConfig{
		Bwa:      "sh",
		Samtools: "sh",
		Bcftools: "sh",
		Muscle:   "sh",
		Cons:     "sh",
		Gatk:     "sh",
	}
}

func Test_newToolkit_preflight(test *testing.T) {
	conf := resolvableTools()
	if _, err := NewToolkit(&conf, test.TempDir(), "r1.fq", "r2.fq"); err != nil {
		test.Fatalf("preflight rejected resolvable tools: %v", err)
	}

	// every collaborator the pipeline can invoke must resolve before any
	// work starts: a missing tool found mid-run would waste the whole
	// extension loop
	type testMissing struct {
		name   string
		mutate func(c *config.ToolConfig)
	}

	tests := []testMissing{
		{"bwa", func(c *config.ToolConfig) { c.Bwa = "gapfill-no-such-tool" }},
		{"samtools", func(c *config.ToolConfig) { c.Samtools = "gapfill-no-such-tool" }},
		{"bcftools", func(c *config.ToolConfig) { c.Bcftools = "gapfill-no-such-tool" }},
		{"muscle", func(c *config.ToolConfig) { c.Muscle = "gapfill-no-such-tool" }},
		{"cons", func(c *config.ToolConfig) { c.Cons = "gapfill-no-such-tool" }},
		// gatk realigns indels during correction on both ploidy paths, so
		// it is required even when the sample is homozygous
		{"gatk", func(c *config.ToolConfig) { c.Gatk = "gapfill-no-such-tool" }},
	}

	for _, t := range tests {
		conf := resolvableTools()
		t.mutate(&conf)

		if _, err := NewToolkit(&conf, test.TempDir(), "r1.fq", "r2.fq"); err == nil {
			test.Errorf("preflight passed with %s missing", t.name)
		}
	}
}
