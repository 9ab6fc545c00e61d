package cassis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yumyai/cassis/internal/testrec"
	"github.com/yumyai/cassis/pkg/motif"
)

func markerAt(gene, promoterID string, m motif.Motif) *ClusterMarker {
	marker := NewClusterMarker(gene, m)
	marker.Promoter = promoterID
	return marker
}

func TestCreateClusterBorders(t *testing.T) {
	record := testrec.FakeRecord()
	m := motif.NewScored(3, 3, 1.0)

	predictions := []*ClusterPrediction{
		NewClusterPrediction(
			markerAt("gene1", "gene1", m),
			markerAt("gene4", "gene3+gene4", m),
		),
		NewClusterPrediction(
			markerAt("gene1", "gene1", m),
			markerAt("gene5", "gene5", m),
		),
	}
	predictions[0].Genes = 4
	predictions[0].Promoters = 2

	borders := CreateClusterBorders("gene4", predictions, record)
	require.Len(t, borders, 2)

	first := borders[0]
	assert.Equal(t, 100, first.Start)
	assert.Equal(t, 1000, first.End)
	assert.Equal(t, "cassis", first.Tool)
	assert.Equal(t, "gene4", first.Anchor)
	assert.Equal(t, "gene1", first.GeneLeft)
	assert.Equal(t, "gene4", first.GeneRight)
	assert.Equal(t, 4, first.Genes)
	assert.Equal(t, 2, first.Promoters)

	// second prediction reaches the end of gene5
	assert.Equal(t, 100, borders[1].Start)
	assert.Equal(t, 1500, borders[1].End)
}

func TestCreateClusterBordersSkipsUnresolved(t *testing.T) {
	record := testrec.FakeRecord()
	m := motif.New(3, 3)

	predictions := []*ClusterPrediction{
		NewClusterPrediction(
			markerAt("geneX", "geneX", m),
			markerAt("gene4", "gene4", m),
		),
	}

	borders := CreateClusterBorders("gene4", predictions, record)
	assert.Empty(t, borders)
}

func TestBorderQualifiers(t *testing.T) {
	border := &ClusterBorder{
		Start:     100,
		End:       1000,
		Tool:      "cassis",
		Anchor:    "gene4",
		Genes:     4,
		Promoters: 2,
		GeneLeft:  "gene1",
		GeneRight: "gene4",
	}

	qualifiers := border.Qualifiers()
	assert.Equal(t, []string{"gene4"}, qualifiers["anchor"])
	assert.Equal(t, []string{"4"}, qualifiers["genes"])
	assert.Equal(t, []string{"2"}, qualifiers["promoters"])
	assert.Equal(t, []string{"gene1"}, qualifiers["gene_left"])
	assert.Equal(t, []string{"gene4"}, qualifiers["gene_right"])
	// the tool tag only appears on the stored feature
	_, ok := qualifiers["tool"]
	assert.False(t, ok)

	feature := border.Feature()
	assert.Equal(t, "cluster_border", feature.Type)
	assert.Equal(t, 100, feature.Start)
	assert.Equal(t, 1000, feature.End)
	assert.Equal(t, []string{"cassis"}, feature.Qualifiers["tool"])
}

func TestStoreBorders(t *testing.T) {
	record := testrec.FakeRecord()
	m := motif.NewScored(3, 3, 1.0)
	predictions := []*ClusterPrediction{
		NewClusterPrediction(
			markerAt("gene1", "gene1", m),
			markerAt("gene4", "gene3+gene4", m),
		),
	}

	borders := CreateClusterBorders("gene4", predictions, record)
	StoreBorders(borders, record)

	features := record.FeaturesOfType("cluster_border")
	require.Len(t, features, 1)
	assert.Equal(t, 100, features[0].Start)
	assert.Equal(t, 1000, features[0].End)
	assert.Equal(t, []string{"gene4"}, features[0].Qualifiers["anchor"])
}
