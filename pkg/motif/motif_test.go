package motif

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairingString(t *testing.T) {
	m := New(3, 3)
	assert.Equal(t, "+03_-03", m.PairingString())

	// the pairing string is derived, so mutations show up immediately
	m.Plus = 4
	assert.Equal(t, "+04_-03", m.PairingString())
	m.Minus = 2
	assert.Equal(t, "+04_-02", m.PairingString())
}

func TestScoredMotifKeepsPairing(t *testing.T) {
	m := NewScored(0, 15, 1.5e-5)
	assert.Equal(t, "+00_-15", m.PairingString())
	assert.Equal(t, 1.5e-5, m.Score)
}
