package promoter_test

import (
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yumyai/cassis/internal/testrec"
	"github.com/yumyai/cassis/pkg/cassis"
	"github.com/yumyai/cassis/pkg/promoter"
	"github.com/yumyai/cassis/pkg/seqrec"
)

func TestPromoterID(t *testing.T) {
	assert.Equal(t, "gene1", promoter.NewPromoter("gene1", 1, 5, "").ID())
	assert.Equal(t, "gene1+gene2", promoter.NewCombinedPromoter("gene1", "gene2", 1, 5, "").ID())
}

func TestPromoterLen(t *testing.T) {
	assert.Equal(t, 5, promoter.NewPromoter("gene1", 1, 5, "").Len())
}

func TestGetPromoters(t *testing.T) {
	record := testrec.FakeRecord()
	genes, _ := cassis.IgnoreOverlapping(record.Genes())

	promoters := promoter.GetPromoters(record, genes, 1000, 50)

	expected := [][2]int{
		{0, 150},
		{301, 550},
		{1450, 1999},
		{2150, 3049},
		{4001, 4371},
		{8950, 9603},
	}
	require.Len(t, promoters, len(expected))
	for i, prom := range promoters {
		assert.Equal(t, expected[i], [2]int{prom.Start, prom.End}, "promoter %s", prom.ID())
	}

	ids := make([]string, 0, len(promoters))
	for _, prom := range promoters {
		ids = append(ids, prom.ID())
	}
	assert.Equal(t, []string{"gene1", "gene4", "gene5", "gene6+gene7", "gene8", "gene9"}, ids)

	// every promoter carries the record subsequence of its interval
	for _, prom := range promoters {
		require.Equal(t, prom.Len(), len(prom.Seq))
		assert.Equal(t, record.Subsequence(prom.Start, prom.End), prom.Seq)
	}
}

func TestGetPromotersSingleGene(t *testing.T) {
	record := seqrec.New("single", "single", strings.Repeat("acgt", 1000))
	gene := &seqrec.Gene{LocusTag: "geneA", Start: 1200, End: 2000, Strand: 1}
	record.AddGene(gene)

	promoters := promoter.GetPromoters(record, record.Genes(), 1000, 50)
	require.Len(t, promoters, 1)
	assert.Equal(t, 200, promoters[0].Start)
	assert.Equal(t, 1250, promoters[0].End)
}

func TestGetPromotersDropsTooShort(t *testing.T) {
	record := seqrec.New("short", "short", strings.Repeat("acgt", 100))
	// reverse gene flush against the record end: window [398, 399] is below
	// the minimum promoter length
	record.AddGene(&seqrec.Gene{LocusTag: "geneA", Start: 0, End: 350, Strand: 1})
	record.AddGene(&seqrec.Gene{LocusTag: "geneB", Start: 360, End: 398, Strand: -1})

	promoters := promoter.GetPromoters(record, record.Genes(), 1000, 0)
	ids := make([]string, 0, len(promoters))
	for _, prom := range promoters {
		ids = append(ids, prom.ID())
	}
	assert.NotContains(t, ids, "geneB")
}

func TestWritePromotersToFile(t *testing.T) {
	outDir := t.TempDir()
	record := testrec.FakeRecord()
	genes, _ := cassis.IgnoreOverlapping(record.Genes())
	promoters := promoter.GetPromoters(record, genes, 1000, 50)

	require.NoError(t, promoter.WritePromotersToFile(outDir, record.Name, promoters))

	fasta, err := os.ReadFile(path.Join(outDir, "test_promoter_sequences.fasta"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(fasta), "\n"), "\n")
	require.Len(t, lines, 2*len(promoters))
	assert.Equal(t, ">gene1", lines[0])
	assert.Equal(t, record.Subsequence(0, 150), lines[1])
	assert.Equal(t, ">gene6+gene7", lines[6])

	positions, err := os.ReadFile(path.Join(outDir, "test_promoter_positions.csv"))
	require.NoError(t, err)
	rows := strings.Split(strings.TrimRight(string(positions), "\n"), "\n")
	require.Len(t, rows, len(promoters))
	assert.Equal(t, "gene1,0,150", rows[0])
	assert.Equal(t, "gene6+gene7,2150,3049", rows[3])
	assert.Equal(t, "gene9,8950,9603", rows[5])
}

func TestStorePromoters(t *testing.T) {
	promoters := []*promoter.Promoter{
		promoter.NewPromoter("gene1", 10, 20, "cgtacgtacgt"),
		promoter.NewPromoter("gene2", 30, 40, "cgtacgtacgt"),
		promoter.NewCombinedPromoter("gene3", "gene4", 50, 60, "cgtacgtacgt"),
	}
	record := testrec.FakeRecord()
	before := len(record.Features())

	promoter.StorePromoters(promoters, record)

	features := record.FeaturesOfType("promoter")
	require.Len(t, features, 3)
	assert.Len(t, record.Features(), before+3)
	for _, feature := range features {
		assert.Equal(t, []string{"cgtacgtacgt"}, feature.Qualifiers["seq"])
	}

	// the shared promoter names both genes and is marked bidirectional
	last := features[2]
	assert.Equal(t, []string{"gene3", "gene4"}, last.Qualifiers["locus_tag"])
	assert.Equal(t, []string{"bidirectional promoter"}, last.Notes)
	assert.Empty(t, features[0].Notes)
}
