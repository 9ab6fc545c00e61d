package promoter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/yumyai/cassis/logger"
	"github.com/yumyai/cassis/pkg/seqrec"
	"go.uber.org/zap"
)

// WritePromotersToFile emits the external-tool input contract: a FASTA of
// promoter sequences and a positions CSV (identifier,start,end, no header),
// one pair of files per record.
func WritePromotersToFile(outputDir, recordName string, promoters []*Promoter) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	fastaPath := path.Join(outputDir, recordName+"_promoter_sequences.fasta")
	if err := WriteFasta(fastaPath, promoters); err != nil {
		return err
	}

	csvPath := path.Join(outputDir, recordName+"_promoter_positions.csv")
	if err := writePositions(csvPath, promoters); err != nil {
		return err
	}

	logger.Debug("Wrote promoter files",
		zap.String("fasta", fastaPath), zap.String("positions", csvPath))
	return nil
}

// WriteFasta writes one FASTA record per promoter, header = promoter id.
func WriteFasta(fastaPath string, promoters []*Promoter) error {
	handle, err := os.Create(fastaPath)
	if err != nil {
		return fmt.Errorf("writing promoter fasta: %w", err)
	}
	defer handle.Close()

	for _, promoter := range promoters {
		if _, err := fmt.Fprintf(handle, ">%s\n%s\n", promoter.ID(), promoter.Seq); err != nil {
			return fmt.Errorf("writing promoter fasta: %w", err)
		}
	}

	return nil
}

func writePositions(csvPath string, promoters []*Promoter) error {
	handle, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("writing promoter positions: %w", err)
	}
	defer handle.Close()

	writer := csv.NewWriter(handle)
	for _, promoter := range promoters {
		row := []string{promoter.ID(), strconv.Itoa(promoter.Start), strconv.Itoa(promoter.End)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing promoter positions: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("writing promoter positions: %w", err)
	}

	return nil
}

// StorePromoters writes the promoters back into the record as "promoter"
// features; shared promoters get a bidirectional note.
func StorePromoters(promoters []*Promoter, record *seqrec.Record) {
	for _, promoter := range promoters {
		feature := seqrec.Feature{
			Type:  "promoter",
			Start: promoter.Start,
			End:   promoter.End,
			Qualifiers: map[string][]string{
				"locus_tag": append([]string(nil), promoter.Genes...),
				"seq":       {promoter.Seq},
			},
		}
		if promoter.Combined() {
			feature.Notes = []string{"bidirectional promoter"}
		}
		record.AddFeature(feature)
	}
}
