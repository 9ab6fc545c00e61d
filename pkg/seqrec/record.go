// Minimal annotated sequence record store.
//
// The detection pipeline only needs gene coordinates, strand information and
// the raw nucleotide sequence; everything it produces (promoters, cluster
// borders) is written back as generic features.

package seqrec

type Gene struct {
	LocusTag string `json:"locus_tag"`
	// Half-open interval [Start, End) on the record.
	Start  int `json:"start"`
	End    int `json:"end"`
	Strand int `json:"strand"` // +1 or -1
	// Core marks genes flagged by upstream detection as core biosynthetic
	// genes; these become the anchors of the border search.
	Core bool `json:"core,omitempty"`
}

// Feature is a generic record annotation, e.g. "promoter" or "cluster_border".
type Feature struct {
	Type       string
	Start, End int
	Qualifiers map[string][]string
	Notes      []string
}

type Record struct {
	ID   string
	Name string
	Seq  string

	genes    []*Gene
	byName   map[string]*Gene
	features []Feature
}

func New(id, name, seq string) *Record {
	return &Record{
		ID:     id,
		Name:   name,
		Seq:    seq,
		byName: make(map[string]*Gene),
	}
}

func (r *Record) Length() int {
	return len(r.Seq)
}

// AddGene appends a gene; genes are expected in genomic order.
func (r *Record) AddGene(gene *Gene) {
	r.genes = append(r.genes, gene)
	r.byName[gene.LocusTag] = gene
}

func (r *Record) Genes() []*Gene {
	return r.genes
}

func (r *Record) GeneByName(locusTag string) (*Gene, bool) {
	gene, ok := r.byName[locusTag]
	return gene, ok
}

func (r *Record) AddFeature(feature Feature) {
	r.features = append(r.features, feature)
}

func (r *Record) Features() []Feature {
	return r.features
}

func (r *Record) FeaturesOfType(featureType string) []Feature {
	var matched []Feature
	for _, feature := range r.features {
		if feature.Type == featureType {
			matched = append(matched, feature)
		}
	}
	return matched
}

// Subsequence returns the record sequence on the inclusive interval
// [start, end], clipped to the record bounds.
func (r *Record) Subsequence(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end >= len(r.Seq) {
		end = len(r.Seq) - 1
	}
	if start > end {
		return ""
	}
	return r.Seq[start : end+1]
}
