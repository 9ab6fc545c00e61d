// Detection pipeline: gene filtering, promoter construction, motif
// discovery/scanning per anchor, prediction combination and housekeeping.

package pipeline

import (
	"fmt"
	"os"
	"path"

	"github.com/yumyai/cassis/logger"
	"github.com/yumyai/cassis/pkg/cassis"
	"github.com/yumyai/cassis/pkg/config"
	"github.com/yumyai/cassis/pkg/motiftool"
	"github.com/yumyai/cassis/pkg/promoter"
	"github.com/yumyai/cassis/pkg/results"
	"github.com/yumyai/cassis/pkg/seqrec"
	"go.uber.org/zap"
)

// Pipeline implements results.Detector on top of the external motif tools.
type Pipeline struct {
	Discoverer motiftool.Discoverer
	Scanner    motiftool.Scanner
}

func New(discoverer motiftool.Discoverer, scanner motiftool.Scanner) *Pipeline {
	return &Pipeline{Discoverer: discoverer, Scanner: scanner}
}

// Detect runs the full border prediction for one record. Zero anchors, zero
// usable genes or zero promoters short-circuit with an empty result set.
func (p *Pipeline) Detect(record *seqrec.Record, opts *config.Options) (*results.CassisResults, error) {
	res := results.New(record.ID)

	anchors := cassis.GetAnchorGeneNames(record)
	if len(anchors) == 0 {
		logger.Info("No anchor genes, skipping record", zap.String("record", record.ID))
		return res, nil
	}

	genes, ignored := cassis.IgnoreOverlapping(record.Genes())
	logger.Debug("Filtered overlapping genes",
		zap.Int("kept", len(genes)), zap.Int("ignored", len(ignored)))
	if len(genes) < 2 {
		logger.Info("Not enough genes for prediction", zap.String("record", record.ID))
		return res, nil
	}

	promoters := promoter.GetPromoters(record, genes, opts.UpstreamTSS, opts.DownstreamTSS)
	if len(promoters) < 2 {
		logger.Info("Not enough promoters for prediction", zap.String("record", record.ID))
		return res, nil
	}

	if err := promoter.WritePromotersToFile(opts.OutputDir, record.Name, promoters); err != nil {
		return nil, err
	}
	promoter.StorePromoters(promoters, record)
	res.Promoters = promoters

	fastaPath := path.Join(opts.OutputDir, record.Name+"_promoter_sequences.fasta")
	predictionsByAnchor := make(map[string][]*cassis.ClusterPrediction)

	for _, anchor := range anchors {
		predictions, err := p.predictAnchor(record, promoters, anchor, fastaPath, opts)
		if err != nil {
			return nil, fmt.Errorf("predicting borders for anchor %s: %w", anchor, err)
		}
		if len(predictions) == 0 {
			logger.Info("No cluster predicted", zap.String("anchor", anchor))
			continue
		}
		predictionsByAnchor[anchor] = predictions

		borders := cassis.CreateClusterBorders(anchor, predictions, record)
		cassis.StoreBorders(borders, record)
		res.Borders = append(res.Borders, borders...)
		logger.Info("Predicted cluster borders",
			zap.String("anchor", anchor), zap.Int("borders", len(borders)))
	}

	if err := cassis.CleanupOutdir(anchors, predictionsByAnchor, opts); err != nil {
		return nil, err
	}

	return res, nil
}

// predictAnchor tests every motif window around one anchor gene and combines
// the resulting markers into ordered predictions.
func (p *Pipeline) predictAnchor(record *seqrec.Record, promoters []*promoter.Promoter,
	anchor, fastaPath string, opts *config.Options) ([]*cassis.ClusterPrediction, error) {

	anchorIndex := cassis.PromoterIndex(promoters, anchor)
	if anchorIndex < 0 {
		logger.Warn("Anchor gene has no promoter, skipping", zap.String("anchor", anchor))
		return nil, nil
	}

	var pairs []*cassis.MarkerPair
	for _, m := range cassis.PromoterSets(len(promoters), anchorIndex) {
		memeDir := path.Join(opts.OutputDir, "meme", anchor, m.PairingString())
		fimoDir := path.Join(opts.OutputDir, "fimo", anchor, m.PairingString())
		if err := os.MkdirAll(memeDir, 0755); err != nil {
			return nil, err
		}

		window := promoters[anchorIndex-m.Minus : anchorIndex+m.Plus+1]
		windowFasta := path.Join(memeDir, "promoters.fasta")
		if err := promoter.WriteFasta(windowFasta, window); err != nil {
			return nil, err
		}

		score, err := p.Discoverer.Discover(memeDir, windowFasta)
		if err != nil {
			return nil, err
		}
		m.Score = score

		hits, err := p.Scanner.Scan(fimoDir, memeDir, fastaPath)
		if err != nil {
			return nil, err
		}
		hitIDs := make(map[string]bool, len(hits))
		for _, hit := range hits {
			hitIDs[hit.PromoterID] = true
		}

		if pair := cassis.PairFromHits(m, promoters, anchorIndex, hitIDs, opts.MaxGapLength); pair != nil {
			pairs = append(pairs, pair)
		}
	}

	accepted := cassis.AcceptPairs(pairs, opts.MaxPercentage)
	logger.Debug("Combined motif windows",
		zap.String("anchor", anchor),
		zap.Int("windows_with_markers", len(pairs)),
		zap.Int("accepted", len(accepted)))

	return cassis.BuildPredictions(record, promoters, accepted), nil
}
