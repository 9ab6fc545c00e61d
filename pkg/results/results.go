// Persistence of cassis predictions.
//
// A CassisResults bundle carries everything one record's analysis produced:
// the accepted cluster borders and the promoters they were predicted from. The
// serialized form embeds the thresholds in effect at serialization time, so a
// stored document is only reused when record id, MAX_PERCENTAGE and
// MAX_GAP_LENGTH all still match.

package results

import (
	"encoding/json"
	"strings"

	"github.com/yumyai/cassis/logger"
	"github.com/yumyai/cassis/pkg/cassis"
	"github.com/yumyai/cassis/pkg/config"
	"github.com/yumyai/cassis/pkg/promoter"
	"github.com/yumyai/cassis/pkg/seqrec"
	"go.uber.org/zap"
)

const schemaVersion = 1

// Detector computes predictions for a record. RunOnRecord depends only on
// this interface so tests can substitute a stub.
type Detector interface {
	Detect(record *seqrec.Record, opts *config.Options) (*CassisResults, error)
}

type CassisResults struct {
	RecordID  string
	Borders   []*cassis.ClusterBorder
	Promoters []*promoter.Promoter
}

func New(recordID string) *CassisResults {
	return &CassisResults{RecordID: recordID}
}

type document struct {
	SchemaVersion int           `json:"schema_version"`
	RecordID      string        `json:"record_id"`
	MaxPercentage float64       `json:"MAX_PERCENTAGE"`
	MaxGapLength  int           `json:"MAX_GAP_LENGTH"`
	Borders       []borderDoc   `json:"borders"`
	Promoters     []promoterDoc `json:"promoters"`
}

type borderDoc struct {
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Tool      string `json:"tool"`
	Anchor    string `json:"anchor"`
	Genes     int    `json:"genes"`
	Promoters int    `json:"promoters"`
	GeneLeft  string `json:"gene_left"`
	GeneRight string `json:"gene_right"`
}

type promoterDoc struct {
	ID    string `json:"id"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Seq   string `json:"seq"`
}

// ToJSON serializes the results together with the current thresholds.
func (r *CassisResults) ToJSON(opts *config.Options) ([]byte, error) {
	doc := document{
		SchemaVersion: schemaVersion,
		RecordID:      r.RecordID,
		MaxPercentage: opts.MaxPercentage,
		MaxGapLength:  opts.MaxGapLength,
		Borders:       make([]borderDoc, 0, len(r.Borders)),
		Promoters:     make([]promoterDoc, 0, len(r.Promoters)),
	}

	for _, border := range r.Borders {
		doc.Borders = append(doc.Borders, borderDoc{
			Start:     border.Start,
			End:       border.End,
			Tool:      border.Tool,
			Anchor:    border.Anchor,
			Genes:     border.Genes,
			Promoters: border.Promoters,
			GeneLeft:  border.GeneLeft,
			GeneRight: border.GeneRight,
		})
	}
	for _, prom := range r.Promoters {
		doc.Promoters = append(doc.Promoters, promoterDoc{
			ID:    prom.ID(),
			Start: prom.Start,
			End:   prom.End,
			Seq:   prom.Seq,
		})
	}

	return json.Marshal(doc)
}

// RegeneratePreviousResults rebuilds a CassisResults from a stored document.
// Anything stale is rejected with a nil result: a different record id, changed
// thresholds, an unknown schema version, or a document that does not parse.
func RegeneratePreviousResults(raw []byte, record *seqrec.Record, opts *config.Options) *CassisResults {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.Warn("Stored cassis results do not parse, recomputing",
			zap.String("record", record.ID), zap.Error(err))
		return nil
	}

	if doc.SchemaVersion != schemaVersion {
		logger.Debug("Stored cassis results have a different schema version, recomputing",
			zap.Int("stored", doc.SchemaVersion))
		return nil
	}
	if doc.RecordID != record.ID {
		logger.Debug("Stored cassis results are for a different record, recomputing",
			zap.String("stored", doc.RecordID), zap.String("current", record.ID))
		return nil
	}
	if doc.MaxPercentage != opts.MaxPercentage || doc.MaxGapLength != opts.MaxGapLength {
		logger.Debug("Prediction thresholds have changed, recomputing",
			zap.Float64("stored_max_percentage", doc.MaxPercentage),
			zap.Int("stored_max_gap_length", doc.MaxGapLength))
		return nil
	}

	regenerated := New(doc.RecordID)
	for _, border := range doc.Borders {
		regenerated.Borders = append(regenerated.Borders, &cassis.ClusterBorder{
			Start:     border.Start,
			End:       border.End,
			Tool:      border.Tool,
			Anchor:    border.Anchor,
			Genes:     border.Genes,
			Promoters: border.Promoters,
			GeneLeft:  border.GeneLeft,
			GeneRight: border.GeneRight,
		})
	}
	for _, prom := range doc.Promoters {
		genes := strings.Split(prom.ID, "+")
		if len(genes) == 2 {
			regenerated.Promoters = append(regenerated.Promoters,
				promoter.NewCombinedPromoter(genes[0], genes[1], prom.Start, prom.End, prom.Seq))
		} else {
			regenerated.Promoters = append(regenerated.Promoters,
				promoter.NewPromoter(prom.ID, prom.Start, prom.End, prom.Seq))
		}
	}

	return regenerated
}

// RunOnRecord returns the previous results unchanged when they already cover
// this record, and otherwise runs detection.
func RunOnRecord(detector Detector, record *seqrec.Record, previous *CassisResults, opts *config.Options) (*CassisResults, error) {
	if previous != nil && previous.RecordID == record.ID {
		logger.Debug("Reusing previous cassis results", zap.String("record", record.ID))
		return previous, nil
	}
	return detector.Detect(record, opts)
}
