package motiftool

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path"
	"strconv"
	"strings"

	"github.com/yumyai/cassis/logger"
	"go.uber.org/zap"
)

// FimoCommand runs the fimo binary for motif scanning.
type FimoCommand struct {
	Bin string
	// Thresh is the p-value threshold passed to fimo.
	Thresh float64
}

func NewFimoCommand(bin string) *FimoCommand {
	return &FimoCommand{Bin: bin, Thresh: 0.00006}
}

// Scan runs fimo with the motif discovered in motifDir against the record's
// full promoter FASTA, keeping a copy of the raw output in workDir.
func (f *FimoCommand) Scan(workDir, motifDir, fastaPath string) ([]Hit, error) {
	args := []string{
		"--text",
		"--verbosity", "1",
		"--thresh", strconv.FormatFloat(f.Thresh, 'g', -1, 64),
		path.Join(motifDir, "meme.html"),
		fastaPath,
	}
	cmd := exec.Command(f.Bin, args...)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", f.Bin, err)
	}

	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("creating fimo dir: %w", err)
	}
	if err := os.WriteFile(path.Join(workDir, "fimo.txt"), out.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("saving fimo output: %w", err)
	}

	hits, err := ParseFimoText(&out)
	if err != nil {
		return nil, fmt.Errorf("parsing fimo output in %s: %w", workDir, err)
	}

	logger.Debug("Motif scan finished",
		zap.String("dir", workDir), zap.Int("hits", len(hits)))
	return hits, nil
}

// ParseFimoText parses fimo --text output: one tab-separated row per
// occurrence with columns motif, sequence, start, stop, strand, score,
// p-value and trailing fields. Comment and header rows are skipped.
func ParseFimoText(r io.Reader) ([]Hit, error) {
	var hits []Hit

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "motif") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			return nil, fmt.Errorf("malformed fimo row: %q", line)
		}

		start, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("malformed fimo start in row %q", line)
		}
		stop, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("malformed fimo stop in row %q", line)
		}
		score, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed fimo score in row %q", line)
		}
		pvalue, err := strconv.ParseFloat(fields[6], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed fimo p-value in row %q", line)
		}

		hits = append(hits, Hit{
			Motif:      fields[0],
			PromoterID: fields[1],
			Start:      start,
			Stop:       stop,
			Score:      score,
			PValue:     pvalue,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return hits, nil
}
