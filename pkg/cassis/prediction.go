// Cluster marker and prediction model.
//
// A marker is one candidate cluster boundary: the motif window that produced
// it, the promoter it maps to and the gene anchoring that promoter. A
// prediction pairs a start and an end marker; accepted predictions become
// cluster_border annotations on the record.

package cassis

import (
	"strconv"
	"strings"

	"github.com/yumyai/cassis/logger"
	"github.com/yumyai/cassis/pkg/motif"
	"github.com/yumyai/cassis/pkg/seqrec"
	"go.uber.org/zap"
)

const toolTag = "cassis"

type ClusterMarker struct {
	Gene  string
	Motif motif.Motif
	// Promoter is the identifier of the promoter the marker maps to; it can
	// differ from Gene when the promoter is shared between two genes.
	Promoter string
	// Abundance counts how many motif windows voted for this exact
	// (gene, promoter) boundary.
	Abundance int
}

func NewClusterMarker(gene string, m motif.Motif) *ClusterMarker {
	return &ClusterMarker{Gene: gene, Motif: m, Abundance: 1}
}

type ClusterPrediction struct {
	Start *ClusterMarker
	End   *ClusterMarker
	// Genes and Promoters count what the prediction spans, both ends
	// inclusive. Unset until the predictor fills them in.
	Genes     int
	Promoters int
}

func NewClusterPrediction(start, end *ClusterMarker) *ClusterPrediction {
	return &ClusterPrediction{Start: start, End: end, Genes: -1, Promoters: -1}
}

// ClusterBorder is the externally visible annotation derived from an accepted
// prediction.
type ClusterBorder struct {
	Start, End int
	Tool       string
	Anchor     string
	Genes      int
	Promoters  int
	GeneLeft   string
	GeneRight  string
}

func (b *ClusterBorder) Qualifiers() map[string][]string {
	return map[string][]string{
		"anchor":     {b.Anchor},
		"genes":      {strconv.Itoa(b.Genes)},
		"promoters":  {strconv.Itoa(b.Promoters)},
		"gene_left":  {b.GeneLeft},
		"gene_right": {b.GeneRight},
	}
}

func (b *ClusterBorder) Feature() seqrec.Feature {
	qualifiers := b.Qualifiers()
	qualifiers["tool"] = []string{b.Tool}
	return seqrec.Feature{
		Type:       "cluster_border",
		Start:      b.Start,
		End:        b.End,
		Qualifiers: qualifiers,
	}
}

// CreateClusterBorders resolves each prediction's promoter identifiers back to
// genomic coordinates and emits one border per prediction. Predictions whose
// promoters reference genes no longer present in the record are skipped; that
// is a data consistency guard, not an error.
func CreateClusterBorders(anchorGene string, predictions []*ClusterPrediction, record *seqrec.Record) []*ClusterBorder {
	borders := make([]*ClusterBorder, 0, len(predictions))

	for _, prediction := range predictions {
		leftGene, leftOK := record.GeneByName(leftmostGene(prediction.Start))
		rightGene, rightOK := record.GeneByName(rightmostGene(prediction.End))
		if !leftOK || !rightOK {
			logger.Debug("Skipping prediction with unresolved promoter reference",
				zap.String("anchor", anchorGene),
				zap.String("start", prediction.Start.Promoter),
				zap.String("end", prediction.End.Promoter))
			continue
		}

		borders = append(borders, &ClusterBorder{
			Start:     leftGene.Start,
			End:       rightGene.End,
			Tool:      toolTag,
			Anchor:    anchorGene,
			Genes:     prediction.Genes,
			Promoters: prediction.Promoters,
			GeneLeft:  prediction.Start.Gene,
			GeneRight: prediction.End.Gene,
		})
	}

	return borders
}

// StoreBorders writes accepted borders into the record store.
func StoreBorders(borders []*ClusterBorder, record *seqrec.Record) {
	for _, border := range borders {
		record.AddFeature(border.Feature())
	}
}

// leftmostGene returns the gene bounding the marker's promoter on the left;
// for a shared promoter "geneA+geneB" that is geneA.
func leftmostGene(marker *ClusterMarker) string {
	if marker.Promoter == "" {
		return marker.Gene
	}
	return strings.Split(marker.Promoter, "+")[0]
}

func rightmostGene(marker *ClusterMarker) string {
	if marker.Promoter == "" {
		return marker.Gene
	}
	parts := strings.Split(marker.Promoter, "+")
	return parts[len(parts)-1]
}
