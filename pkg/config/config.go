// Run configuration for the cassis pipeline.
//
// Everything tunable lives on Options and is passed around explicitly. The two
// prediction thresholds are part of the cache validity key, so previously
// stored results are only reused when they match the current values.

package config

import (
	"os"
	"strconv"

	"github.com/yumyai/cassis/logger"
	"go.uber.org/zap"
)

// Prediction defaults, matching the published CASSIS parameters.
const (
	DefaultUpstreamTSS   = 1000
	DefaultDownstreamTSS = 50
	DefaultMaxPercentage = 25.0
	DefaultMaxGapLength  = 2
)

type Options struct {
	// OutputDir receives promoter files, meme/fimo working directories and
	// the serialized results document.
	OutputDir string

	// Promoter window relative to the transcription start site.
	UpstreamTSS   int
	DownstreamTSS int

	// MaxPercentage is the motif acceptance threshold: a motif window is kept
	// only if its score is within this percentage of the best score observed
	// for the anchor.
	MaxPercentage float64

	// MaxGapLength is the number of consecutive hit-less promoters tolerated
	// inside an island of motif-sharing promoters.
	MaxGapLength int

	// External tool binaries.
	MemeBin string
	FimoBin string

	Cpus int
}

func Default() *Options {
	return &Options{
		OutputDir:     "./output",
		UpstreamTSS:   DefaultUpstreamTSS,
		DownstreamTSS: DefaultDownstreamTSS,
		MaxPercentage: DefaultMaxPercentage,
		MaxGapLength:  DefaultMaxGapLength,
		MemeBin:       "meme",
		FimoBin:       "fimo",
		Cpus:          2,
	}
}

// FromEnv builds Options from CASSIS_* environment variables, keeping the
// default for anything unset or unparseable. main loads .env beforehand.
func FromEnv() *Options {
	opts := Default()

	if dir := os.Getenv("CASSIS_OUTPUT_DIR"); dir != "" {
		opts.OutputDir = dir
	} else {
		logger.Warn("No local environment (CASSIS_OUTPUT_DIR), using default value (./output)")
	}

	opts.UpstreamTSS = intFromEnv("CASSIS_UPSTREAM_TSS", opts.UpstreamTSS)
	opts.DownstreamTSS = intFromEnv("CASSIS_DOWNSTREAM_TSS", opts.DownstreamTSS)
	opts.MaxGapLength = intFromEnv("CASSIS_MAX_GAP_LENGTH", opts.MaxGapLength)
	opts.Cpus = intFromEnv("CASSIS_CPUS", opts.Cpus)

	if raw := os.Getenv("CASSIS_MAX_PERCENTAGE"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			logger.Warn("Cannot parse CASSIS_MAX_PERCENTAGE, keeping default",
				zap.String("value", raw))
		} else {
			opts.MaxPercentage = parsed
		}
	}

	if bin := os.Getenv("CASSIS_MEME_BIN"); bin != "" {
		opts.MemeBin = bin
	}
	if bin := os.Getenv("CASSIS_FIMO_BIN"); bin != "" {
		opts.FimoBin = bin
	}

	return opts
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warn("Cannot parse environment variable, keeping default",
			zap.String("key", key), zap.String("value", raw))
		return fallback
	}
	return parsed
}
