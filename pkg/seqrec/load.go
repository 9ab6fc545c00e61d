package seqrec

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadRecord reads a single-sequence genome FASTA and a gene table CSV into a
// Record. The gene table has one row per gene, in genomic order:
//
//	locus_tag,start,end,strand[,core]
//
// with strand given as +1/-1 (or +/-) and an optional fifth column marking
// core biosynthetic genes.
func LoadRecord(fastaPath, genesPath string) (*Record, error) {
	id, seq, err := readSingleFasta(fastaPath)
	if err != nil {
		return nil, fmt.Errorf("reading genome fasta: %w", err)
	}

	record := New(id, id, seq)

	genes, err := readGeneTable(genesPath)
	if err != nil {
		return nil, fmt.Errorf("reading gene table: %w", err)
	}
	for _, gene := range genes {
		if gene.Start < 0 || gene.End > record.Length() || gene.Start >= gene.End {
			return nil, fmt.Errorf("gene %s interval [%d, %d) outside record of length %d",
				gene.LocusTag, gene.Start, gene.End, record.Length())
		}
		record.AddGene(gene)
	}

	return record, nil
}

func readSingleFasta(path string) (string, string, error) {
	handle, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer handle.Close()

	var id string
	var seq strings.Builder

	scanner := bufio.NewScanner(handle)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			if id != "" {
				return "", "", fmt.Errorf("%s: expected a single-sequence fasta", path)
			}
			id = strings.Fields(line[1:])[0]
			continue
		}
		if id == "" {
			return "", "", fmt.Errorf("%s: sequence data before fasta header", path)
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return "", "", err
	}
	if id == "" {
		return "", "", fmt.Errorf("%s: no fasta record found", path)
	}

	return id, seq.String(), nil
}

func readGeneTable(path string) ([]*Gene, error) {
	handle, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	reader := csv.NewReader(handle)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	genes := make([]*Gene, 0, len(rows))
	for i, row := range rows {
		if len(row) < 4 {
			return nil, fmt.Errorf("row %d: want at least 4 fields, got %d", i+1, len(row))
		}

		start, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad start %q", i+1, row[1])
		}
		end, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad end %q", i+1, row[2])
		}
		strand, err := parseStrand(strings.TrimSpace(row[3]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		gene := &Gene{
			LocusTag: strings.TrimSpace(row[0]),
			Start:    start,
			End:      end,
			Strand:   strand,
		}
		if len(row) > 4 && strings.EqualFold(strings.TrimSpace(row[4]), "core") {
			gene.Core = true
		}
		genes = append(genes, gene)
	}

	return genes, nil
}

func parseStrand(raw string) (int, error) {
	switch raw {
	case "+", "+1", "1":
		return 1, nil
	case "-", "-1":
		return -1, nil
	}
	return 0, fmt.Errorf("bad strand %q", raw)
}
