// Gene selection helpers for the border search.

package cassis

import (
	"github.com/yumyai/cassis/logger"
	"github.com/yumyai/cassis/pkg/seqrec"
	"go.uber.org/zap"
)

// GetAnchorGeneNames returns the locus tags of all core biosynthetic genes of
// the record, in genomic order. These are the anchors of the motif search.
func GetAnchorGeneNames(record *seqrec.Record) []string {
	var anchors []string
	for _, gene := range record.Genes() {
		if gene.Core {
			anchors = append(anchors, gene.LocusTag)
		}
	}
	return anchors
}

// IgnoreOverlapping partitions genes into kept and ignored. A gene is ignored
// when it overlaps a gene already kept; filtering is greedy left to right over
// the input order, so ties fall to whichever gene came first. Downstream
// promoter indices depend on exactly this behaviour.
func IgnoreOverlapping(genes []*seqrec.Gene) (kept, ignored []*seqrec.Gene) {
	for _, gene := range genes {
		if overlapsAny(kept, gene) {
			logger.Debug("Ignoring overlapping gene", zap.String("gene", gene.LocusTag))
			ignored = append(ignored, gene)
			continue
		}
		kept = append(kept, gene)
	}
	return kept, ignored
}

func overlapsAny(kept []*seqrec.Gene, gene *seqrec.Gene) bool {
	for _, accepted := range kept {
		if overlapping(accepted, gene) {
			return true
		}
	}
	return false
}

func overlapping(a, b *seqrec.Gene) bool {
	return a.Start < b.End && b.Start < a.End
}
