package motiftool

import (
	"bufio"
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

// MemeCommand runs the meme binary for motif discovery.
type MemeCommand struct {
	Bin  string
	Cpus int
}

func NewMemeCommand(bin string, cpus int) *MemeCommand {
	return &MemeCommand{Bin: bin, Cpus: cpus}
}

// Discover runs meme on the window FASTA, leaving its full output in workDir,
// and returns the e-value of the single motif searched for.
func (m *MemeCommand) Discover(workDir, fastaPath string) (float64, error) {
	args := []string{
		fastaPath,
		"-oc", workDir,
		"-dna",
		"-nostatus",
		"-mod", "anr",
		"-nmotifs", "1",
		"-minw", "6",
		"-maxw", "12",
		"-revcomp",
		"-p", strconv.Itoa(m.Cpus),
	}
	cmd := exec.Command(m.Bin, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("failed to execute %s: %w - %s", m.Bin, err, output)
	}

	handle, err := os.Open(path.Join(workDir, "meme.txt"))
	if err != nil {
		return 0, fmt.Errorf("reading meme output: %w", err)
	}
	defer handle.Close()

	score, err := ParseMemeEValue(handle)
	if err != nil {
		return 0, fmt.Errorf("parsing meme output in %s: %w", workDir, err)
	}

	logger.Debug("Motif discovery finished",
		zap.String("dir", workDir), zap.Float64("evalue", score))
	return score, nil
}

// ParseMemeEValue extracts the motif e-value from a meme.txt report. The
// relevant line looks like:
//
//	MOTIF TTGACA MEME-1 width = 6 sites = 8 llr = 60 E-value = 2.1e-002
func ParseMemeEValue(r io.Reader) (float64, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MOTIF") {
			continue
		}
		fields := strings.Fields(line)
		for i, field := range fields {
			if field == "E-value" && i+2 < len(fields) && fields[i+1] == "=" {
				return strconv.ParseFloat(fields[i+2], 64)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("no MOTIF line with an E-value found")
}
