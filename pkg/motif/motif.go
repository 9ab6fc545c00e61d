// Motif search windows.
//
// A motif window pools Plus promoters downstream and Minus promoters upstream
// of an anchor gene's promoter into one motif discovery run. The pairing
// string ("+03_-03") doubles as the identity of the window and as the name of
// its meme/fimo working directories.

package motif

import "fmt"

type Motif struct {
	Plus  int
	Minus int
	// Score is the e-value reported by motif discovery; lower is better.
	Score float64
}

func New(plus, minus int) Motif {
	return Motif{Plus: plus, Minus: minus}
}

func NewScored(plus, minus int, score float64) Motif {
	return Motif{Plus: plus, Minus: minus, Score: score}
}

// PairingString is derived from the current Plus/Minus values on every call,
// so mutations are reflected immediately.
func (m Motif) PairingString() string {
	return fmt.Sprintf("+%02d_-%02d", m.Plus, m.Minus)
}

func (m Motif) String() string {
	return m.PairingString()
}
