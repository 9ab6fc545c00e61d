// Black-box interfaces for the external motif tools.
//
// Motif discovery (MEME) and motif scanning (FIMO) are separate binaries that
// consume promoter FASTA files and emit occurrence scores. The detection
// pipeline depends only on the two interfaces below; tests substitute
// in-memory fakes.

package motiftool

// Hit is one motif occurrence reported by scanning.
type Hit struct {
	Motif      string
	PromoterID string
	Start      int
	Stop       int
	Score      float64
	PValue     float64
}

// Discoverer runs motif discovery over the promoter FASTA of one motif window
// and reports the best motif's e-value. workDir is the window's working
// directory (meme/<anchor>/<pairing>).
type Discoverer interface {
	Discover(workDir, fastaPath string) (float64, error)
}

// Scanner scans the full promoter FASTA of the record with the motif
// discovered in motifDir and reports every occurrence. workDir is the
// window's scan directory (fimo/<anchor>/<pairing>).
type Scanner interface {
	Scan(workDir, motifDir, fastaPath string) ([]Hit, error)
}
