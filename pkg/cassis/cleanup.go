package cassis

import (
	"fmt"
	"os"
	"path"

	"github.com/yumyai/cassis/internal/util"
	"github.com/yumyai/cassis/logger"
	"github.com/yumyai/cassis/pkg/config"
	"go.uber.org/zap"
)

// CleanupOutdir prunes the speculative meme/<gene>/<pairing> and
// fimo/<gene>/<pairing> working directories, keeping only those whose pairing
// produced an accepted prediction for that anchor gene. Anchors without any
// accepted prediction lose their working directories entirely. Missing
// directories count as already clean, so running it twice is a no-op.
func CleanupOutdir(anchorGenes []string, predictions map[string][]*ClusterPrediction, opts *config.Options) error {
	for _, anchor := range anchorGenes {
		accepted := acceptedPairings(predictions[anchor])

		for _, tool := range []string{"meme", "fimo"} {
			anchorDir := path.Join(opts.OutputDir, tool, anchor)

			if len(accepted) == 0 {
				if err := os.RemoveAll(anchorDir); err != nil {
					return fmt.Errorf("cleaning %s: %w", anchorDir, err)
				}
				continue
			}

			if !util.DirExists(anchorDir) {
				continue
			}
			entries, err := os.ReadDir(anchorDir)
			if err != nil {
				return fmt.Errorf("cleaning %s: %w", anchorDir, err)
			}
			for _, entry := range entries {
				if accepted[entry.Name()] {
					continue
				}
				logger.Debug("Removing motif working directory without prediction",
					zap.String("anchor", anchor), zap.String("pairing", entry.Name()))
				if err := os.RemoveAll(path.Join(anchorDir, entry.Name())); err != nil {
					return fmt.Errorf("cleaning %s: %w", anchorDir, err)
				}
			}
			if util.EmptyDir(anchorDir) {
				if err := os.Remove(anchorDir); err != nil {
					return fmt.Errorf("cleaning %s: %w", anchorDir, err)
				}
			}
		}
	}
	return nil
}

// acceptedPairings collects the pairing strings of the start and end markers
// of every accepted prediction.
func acceptedPairings(predictions []*ClusterPrediction) map[string]bool {
	pairings := make(map[string]bool)
	for _, prediction := range predictions {
		pairings[prediction.Start.Motif.PairingString()] = true
		pairings[prediction.End.Motif.PairingString()] = true
	}
	return pairings
}
