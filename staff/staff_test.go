package staff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfSplitsAtThreshold(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(Treble, Of(0))
	assert.Equal(Treble, Of(-40))
	assert.Equal(Treble, Of(-60)) // boundary belongs to treble
	assert.Equal(Bass, Of(-60.01))
	assert.Equal(Bass, Of(-155.74))
}

func TestYOfAnchors(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(-40.0, YOf(64, Treble))
	assert.Equal(-155.74, YOf(43, Bass))
}

func TestYOfTrebleSlopesAreAsymmetric(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(-40.0+12*3.0, YOf(76, Treble))
	assert.Equal(-40.0-12*2.5, YOf(52, Treble))
}

func TestYOfBassSlopeIsSymmetric(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(-155.74+5*2.5, YOf(48, Bass))
	assert.Equal(-155.74-5*2.5, YOf(38, Bass))
}

func TestYOfRoundTripsThroughOf(t *testing.T) {
	assert := assert.New(t)
	for midi := 60; midi <= 84; midi++ {
		assert.Equal(Treble, Of(YOf(midi, Treble)))
	}
	for midi := 30; midi <= 50; midi++ {
		assert.Equal(Bass, Of(YOf(midi, Bass)))
	}
}
