// Promoter interval construction.
//
// A promoter stretches from upstreamTSS bases upstream of a gene's
// transcription start site to downstreamTSS bases into the gene, clipped so it
// never reaches into a neighbouring gene or beyond the record. Two adjacent
// divergently transcribed genes whose windows overlap share one bidirectional
// promoter. Coordinates are stored as inclusive [Start, End] bounds.

package promoter

import (
	"strings"

	"github.com/yumyai/cassis/logger"
	"github.com/yumyai/cassis/pkg/seqrec"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

const minPromoterLength = 6

type Promoter struct {
	// Genes holds one locus tag, or two in genomic order for a shared
	// bidirectional promoter.
	Genes      []string `json:"genes"`
	Start, End int
	Seq        string `json:"seq"`
}

func NewPromoter(gene string, start, end int, seq string) *Promoter {
	return &Promoter{Genes: []string{gene}, Start: start, End: end, Seq: seq}
}

func NewCombinedPromoter(firstGene, secondGene string, start, end int, seq string) *Promoter {
	return &Promoter{Genes: []string{firstGene, secondGene}, Start: start, End: end, Seq: seq}
}

// ID is the gene locus tag, or "geneA+geneB" for a combined promoter.
func (p *Promoter) ID() string {
	return strings.Join(p.Genes, "+")
}

func (p *Promoter) Combined() bool {
	return len(p.Genes) == 2
}

func (p *Promoter) Len() int {
	return p.End - p.Start + 1
}

func (p *Promoter) ContainsGene(locusTag string) bool {
	for _, gene := range p.Genes {
		if gene == locusTag {
			return true
		}
	}
	return false
}

// GetPromoters computes the promoter list for the given genes, which must be
// overlap-free and in genomic order. Promoters shorter than the minimum or
// longer than the combined window maximum are dropped.
func GetPromoters(record *seqrec.Record, genes []*seqrec.Gene, upstreamTSS, downstreamTSS int) []*Promoter {
	maxPromoterLength := (upstreamTSS+downstreamTSS)*2 + 1
	recordEnd := record.Length() - 1

	promoters := make([]*Promoter, 0, len(genes))
	invalid := 0
	skip := false

	for i, gene := range genes {
		if skip { // handled as the right half of a shared promoter
			skip = false
			continue
		}

		var candidate *Promoter

		switch {
		case gene.Strand == -1 && i+1 < len(genes) && genes[i+1].Strand == 1 &&
			genes[i+1].Start-gene.End <= 2*upstreamTSS:
			// divergent pair with overlapping windows: one shared promoter
			// spanning both transcription start sites
			next := genes[i+1]
			start := max(gene.End-downstreamTSS, gene.Start)
			end := min(next.Start+downstreamTSS, next.End)
			candidate = NewCombinedPromoter(gene.LocusTag, next.LocusTag,
				clamp(start, 0, recordEnd), clamp(end, 0, recordEnd), "")
			skip = true

		case gene.Strand == 1:
			tss := gene.Start
			start := tss - upstreamTSS
			if i > 0 && genes[i-1].End+1 > start {
				start = genes[i-1].End + 1
			}
			end := min(tss+downstreamTSS, gene.End)
			candidate = NewPromoter(gene.LocusTag,
				clamp(start, 0, recordEnd), clamp(end, 0, recordEnd), "")

		default: // strand == -1
			tss := gene.End
			end := tss + upstreamTSS
			if i+1 < len(genes) && genes[i+1].Start-1 < end {
				end = genes[i+1].Start - 1
			}
			start := max(tss-downstreamTSS, gene.Start)
			candidate = NewPromoter(gene.LocusTag,
				clamp(start, 0, recordEnd), clamp(end, 0, recordEnd), "")
		}

		if candidate.Len() < minPromoterLength || candidate.Len() > maxPromoterLength {
			invalid++
			logger.Warn("Dropping invalid promoter",
				zap.String("promoter", candidate.ID()), zap.Int("length", candidate.Len()))
			continue
		}

		candidate.Seq = record.Subsequence(candidate.Start, candidate.End)
		promoters = append(promoters, candidate)
	}

	logLengthStats(record.Name, promoters, invalid)

	return promoters
}

func logLengthStats(recordName string, promoters []*Promoter, invalid int) {
	if len(promoters) == 0 {
		logger.Debug("No promoters computed", zap.String("record", recordName))
		return
	}

	lengths := make([]float64, len(promoters))
	for i, promoter := range promoters {
		lengths[i] = float64(promoter.Len())
	}

	logger.Debug("Computed promoter sequences",
		zap.String("record", recordName),
		zap.Int("promoters", len(promoters)),
		zap.Int("invalid", invalid),
		zap.Float64("mean_length", stat.Mean(lengths, nil)),
		zap.Float64("stddev_length", stat.StdDev(lengths, nil)))
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
