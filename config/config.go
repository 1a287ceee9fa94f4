// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"

	"github.com/spf13/viper"
)

// ToolConfig holds the names/paths of the external collaborator executables.
// Each is resolved against PATH before a run starts
type ToolConfig struct {
	// the short-read aligner
	Bwa string `mapstructure:"bwa"`

	// samtools, for sorting, duplicate marking, downsampling, depth and phasing
	Samtools string `mapstructure:"samtools"`

	// bcftools, for variant calling and consensus application
	Bcftools string `mapstructure:"bcftools"`

	// the multiple-sequence aligner
	Muscle string `mapstructure:"muscle"`

	// the EMBOSS cons executable reducing an MSA to a consensus
	Cons string `mapstructure:"cons"`

	// gatk, for local indel realignment
	Gatk string `mapstructure:"gatk"`
}

// LoopConfig is settings for the extension loop
type LoopConfig struct {
	// the maximum number of extension iterations before giving up
	MaxIterations int `mapstructure:"iterations"`

	// predicted read coverage; extension halts when both gap
	// boundaries exceed three times this value
	CoverageLimit int `mapstructure:"coverage-limit"`

	// threads handed to the external aligner (opaque performance knob)
	Threads int `mapstructure:"threads"`
}

// CorrectConfig is settings for the phasing/correction stage
type CorrectConfig struct {
	// mean coverage that heterozygous alignments are downsampled to
	DownsampleTarget float64 `mapstructure:"downsample-target"`

	// a base is masked when its depth is at or below this fraction of the mean
	MaskFraction float64 `mapstructure:"mask-fraction"`
}

// Config is the root-level settings struct, populated from the
// built-in defaults and/or an optional settings file
type Config struct {
	// external executable names/paths
	Tools ToolConfig `mapstructure:"tools"`

	// extension loop settings
	Loop LoopConfig `mapstructure:",squash"`

	// correction stage settings
	Correct CorrectConfig `mapstructure:",squash"`
}

// setDefaults seeds viper with the built-in settings. Flag bindings and an
// optional settings file both override these
func setDefaults() {
	viper.SetDefault("tools.bwa", "bwa")
	viper.SetDefault("tools.samtools", "samtools")
	viper.SetDefault("tools.bcftools", "bcftools")
	viper.SetDefault("tools.muscle", "muscle")
	viper.SetDefault("tools.cons", "cons")
	viper.SetDefault("tools.gatk", "gatk")
	viper.SetDefault("iterations", 100)
	viper.SetDefault("coverage-limit", 1000)
	viper.SetDefault("threads", 1)
	viper.SetDefault("downsample-target", 100.0)
	viper.SetDefault("mask-fraction", 0.2)
}

// New returns a new Config struct populated by Viper settings: the
// defaults, an optional settings file, and bound command line flags
func New() *Config {
	setDefaults()

	if settings := viper.GetString("settings"); settings != "" {
		viper.SetConfigFile(settings)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatalf("failed to read settings file %s: %v", settings, err)
		}
	}

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		log.Fatalf("unable to decode settings into struct, %v", err)
	}

	return &c
}
