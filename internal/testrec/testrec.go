// Package testrec builds the shared fake record used across test suites: a
// 9604 bp sequence with nine genes at fixed offsets, two of them (gene4 and
// gene6) flagged as core biosynthetic genes.
package testrec

import (
	"fmt"
	"strings"

	"github.com/yumyai/cassis/pkg/seqrec"
)

func FakeRecord() *seqrec.Record {
	seq := strings.Repeat("acgtacgtacgtacgtacgtacgtacgtacgtacgtacgtacgtacgta", 196)
	record := seqrec.New("test", "test", seq)

	locations := []struct{ start, end, strand int }{
		{100, 300, 1},
		{101, 299, -1},
		{250, 350, 1},
		{500, 1000, 1},
		{1111, 1500, -1},
		{2000, 2200, -1},
		{2999, 4000, 1},
		{4321, 5678, 1},
		{6660, 9000, -1},
	}
	for i, location := range locations {
		gene := &seqrec.Gene{
			LocusTag: fmt.Sprintf("gene%d", i+1),
			Start:    location.start,
			End:      location.end,
			Strand:   location.strand,
			Core:     i == 3 || i == 5,
		}
		record.AddGene(gene)
	}

	return record
}
