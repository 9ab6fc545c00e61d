// Combination of motif hits into cluster predictions.
//
// For one anchor gene, every motif window tested contributes at most one pair
// of candidate boundary markers: the ends of the island of motif-sharing
// promoters around the anchor promoter. Pairs are then filtered by motif
// score, deduplicated by (gene, promoter) with abundance counting, and turned
// into ordered predictions.

package cassis

import (
	"sort"

	"github.com/yumyai/cassis/pkg/motif"
	"github.com/yumyai/cassis/pkg/promoter"
	"github.com/yumyai/cassis/pkg/seqrec"
)

const maxPairingSum = 15

// MarkerPair is the start/end marker candidate produced by one motif window.
type MarkerPair struct {
	Start *ClusterMarker
	End   *ClusterMarker
}

// PromoterSets enumerates the motif windows to test around the anchor
// promoter at anchorIndex: all pairings +NN_-NN pooling between 3 and 15
// neighbouring promoters that fit inside the promoter list.
func PromoterSets(promoterCount, anchorIndex int) []motif.Motif {
	var sets []motif.Motif
	for plus := 0; plus <= maxPairingSum; plus++ {
		for minus := 0; minus <= maxPairingSum; minus++ {
			if plus+minus < 3 || plus+minus > maxPairingSum {
				continue
			}
			if anchorIndex-minus < 0 || anchorIndex+plus >= promoterCount {
				continue
			}
			sets = append(sets, motif.New(plus, minus))
		}
	}
	return sets
}

// PromoterIndex finds the promoter whose gene set contains the locus tag, -1
// if the gene has no promoter (e.g. it was filtered for overlapping).
func PromoterIndex(promoters []*promoter.Promoter, locusTag string) int {
	for i, prom := range promoters {
		if prom.ContainsGene(locusTag) {
			return i
		}
	}
	return -1
}

// PairFromHits expands the island of promoters with motif hits around the
// anchor promoter, tolerating up to maxGap consecutive hit-less promoters,
// and returns the island's boundary markers. Returns nil when the anchor
// promoter itself carries no hit.
func PairFromHits(m motif.Motif, promoters []*promoter.Promoter, anchorIndex int,
	hits map[string]bool, maxGap int) *MarkerPair {

	if anchorIndex < 0 || anchorIndex >= len(promoters) {
		return nil
	}
	if !hits[promoters[anchorIndex].ID()] {
		return nil
	}

	left := anchorIndex
	for i, gap := anchorIndex-1, 0; i >= 0; i-- {
		if hits[promoters[i].ID()] {
			left = i
			gap = 0
			continue
		}
		gap++
		if gap > maxGap {
			break
		}
	}

	right := anchorIndex
	for i, gap := anchorIndex+1, 0; i < len(promoters); i++ {
		if hits[promoters[i].ID()] {
			right = i
			gap = 0
			continue
		}
		gap++
		if gap > maxGap {
			break
		}
	}

	start := NewClusterMarker(promoters[left].Genes[0], m)
	start.Promoter = promoters[left].ID()
	end := NewClusterMarker(promoters[right].Genes[len(promoters[right].Genes)-1], m)
	end.Promoter = promoters[right].ID()

	return &MarkerPair{Start: start, End: end}
}

// AcceptPairs keeps the pairs whose motif score lies within maxPercentage
// percent of the best (lowest) score observed. Scores are e-values, so lower
// is better.
func AcceptPairs(pairs []*MarkerPair, maxPercentage float64) []*MarkerPair {
	if len(pairs) == 0 {
		return nil
	}

	best := pairs[0].Start.Motif.Score
	for _, pair := range pairs[1:] {
		if pair.Start.Motif.Score < best {
			best = pair.Start.Motif.Score
		}
	}

	cutoff := best * (1 + maxPercentage/100)
	accepted := make([]*MarkerPair, 0, len(pairs))
	for _, pair := range pairs {
		if pair.Start.Motif.Score <= cutoff {
			accepted = append(accepted, pair)
		}
	}
	return accepted
}

// BuildPredictions deduplicates accepted pairs into predictions with abundance
// counts and gene/promoter spans filled in. The result is ordered by combined
// abundance (high first), then combined motif score (low first), then genomic
// position of the start promoter.
func BuildPredictions(record *seqrec.Record, promoters []*promoter.Promoter, pairs []*MarkerPair) []*ClusterPrediction {
	type key struct{ gene, promoter string }

	starts := make(map[key]*ClusterMarker)
	ends := make(map[key]*ClusterMarker)
	seen := make(map[[2]key]*ClusterPrediction)
	var predictions []*ClusterPrediction

	for _, pair := range pairs {
		startKey := key{pair.Start.Gene, pair.Start.Promoter}
		endKey := key{pair.End.Gene, pair.End.Promoter}

		if marker, ok := starts[startKey]; ok {
			marker.Abundance++
			if pair.Start.Motif.Score < marker.Motif.Score {
				marker.Motif = pair.Start.Motif
			}
		} else {
			starts[startKey] = pair.Start
		}
		if marker, ok := ends[endKey]; ok {
			marker.Abundance++
			if pair.End.Motif.Score < marker.Motif.Score {
				marker.Motif = pair.End.Motif
			}
		} else {
			ends[endKey] = pair.End
		}

		pairKey := [2]key{startKey, endKey}
		if _, ok := seen[pairKey]; ok {
			continue
		}
		prediction := NewClusterPrediction(starts[startKey], ends[endKey])
		fillSpans(prediction, record, promoters)
		seen[pairKey] = prediction
		predictions = append(predictions, prediction)
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		left, right := predictions[i], predictions[j]
		leftAbundance := left.Start.Abundance + left.End.Abundance
		rightAbundance := right.Start.Abundance + right.End.Abundance
		if leftAbundance != rightAbundance {
			return leftAbundance > rightAbundance
		}
		leftScore := left.Start.Motif.Score + left.End.Motif.Score
		rightScore := right.Start.Motif.Score + right.End.Motif.Score
		if leftScore != rightScore {
			return leftScore < rightScore
		}
		return promoterIndexByID(promoters, left.Start.Promoter) <
			promoterIndexByID(promoters, right.Start.Promoter)
	})

	return predictions
}

// fillSpans sets the gene and promoter counts spanned by a prediction, both
// ends inclusive.
func fillSpans(prediction *ClusterPrediction, record *seqrec.Record, promoters []*promoter.Promoter) {
	startIndex := promoterIndexByID(promoters, prediction.Start.Promoter)
	endIndex := promoterIndexByID(promoters, prediction.End.Promoter)
	if startIndex >= 0 && endIndex >= startIndex {
		prediction.Promoters = endIndex - startIndex + 1
	}

	leftIndex := geneIndex(record, leftmostGene(prediction.Start))
	rightIndex := geneIndex(record, rightmostGene(prediction.End))
	if leftIndex >= 0 && rightIndex >= leftIndex {
		prediction.Genes = rightIndex - leftIndex + 1
	}
}

func promoterIndexByID(promoters []*promoter.Promoter, id string) int {
	for i, prom := range promoters {
		if prom.ID() == id {
			return i
		}
	}
	return -1
}

func geneIndex(record *seqrec.Record, locusTag string) int {
	for i, gene := range record.Genes() {
		if gene.LocusTag == locusTag {
			return i
		}
	}
	return -1
}
