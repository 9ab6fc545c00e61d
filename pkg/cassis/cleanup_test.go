package cassis

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yumyai/cassis/internal/util"
	"github.com/yumyai/cassis/pkg/config"
	"github.com/yumyai/cassis/pkg/motif"
)

func TestCleanupOutdir(t *testing.T) {
	opts := config.Default()
	opts.OutputDir = t.TempDir()

	// working directories from two anchors and two tested pairings each
	for _, tool := range []string{"meme", "fimo"} {
		for _, anchor := range []string{"gene1", "gene4"} {
			for _, pairing := range []string{"+03_-03", "+04_-04"} {
				require.NoError(t, os.MkdirAll(path.Join(opts.OutputDir, tool, anchor, pairing), 0o755))
			}
		}
	}

	// only gene1 keeps a prediction, from the +03_-03 window
	m := motif.NewScored(3, 3, 1.0)
	predictions := map[string][]*ClusterPrediction{
		"gene1": {NewClusterPrediction(
			markerAt("gene1", "gene1", m),
			markerAt("gene2", "gene2", m),
		)},
	}

	require.NoError(t, CleanupOutdir([]string{"gene1", "gene4"}, predictions, opts))

	for _, tool := range []string{"meme", "fimo"} {
		assert.True(t, util.DirExists(path.Join(opts.OutputDir, tool, "gene1", "+03_-03")))
		assert.False(t, util.DirExists(path.Join(opts.OutputDir, tool, "gene1", "+04_-04")))
		assert.False(t, util.DirExists(path.Join(opts.OutputDir, tool, "gene4")))
	}

	// running it again over the already pruned tree changes nothing
	require.NoError(t, CleanupOutdir([]string{"gene1", "gene4"}, predictions, opts))
	assert.True(t, util.DirExists(path.Join(opts.OutputDir, "meme", "gene1", "+03_-03")))
}

func TestCleanupOutdirMissingDirs(t *testing.T) {
	opts := config.Default()
	opts.OutputDir = t.TempDir()

	m := motif.NewScored(3, 3, 1.0)
	predictions := map[string][]*ClusterPrediction{
		"gene1": {NewClusterPrediction(
			markerAt("gene1", "gene1", m),
			markerAt("gene2", "gene2", m),
		)},
	}

	// nothing was ever written for these anchors
	assert.NoError(t, CleanupOutdir([]string{"gene1", "gene4"}, predictions, opts))
}

func TestCleanupOutdirRemovesEmptiedAnchor(t *testing.T) {
	opts := config.Default()
	opts.OutputDir = t.TempDir()

	require.NoError(t, os.MkdirAll(path.Join(opts.OutputDir, "meme", "gene1", "+04_-04"), 0o755))

	m := motif.NewScored(3, 3, 1.0)
	predictions := map[string][]*ClusterPrediction{
		"gene1": {NewClusterPrediction(
			markerAt("gene1", "gene1", m),
			markerAt("gene2", "gene2", m),
		)},
	}

	require.NoError(t, CleanupOutdir([]string{"gene1"}, predictions, opts))
	// the anchor directory itself goes once its last pairing is pruned
	assert.False(t, util.DirExists(path.Join(opts.OutputDir, "meme", "gene1")))
}
