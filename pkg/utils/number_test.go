package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 1.23, Round(1.234, 2))
	assert.Equal(t, 1.24, Round(1.236, 2))
	assert.Equal(t, 2.0, Round(1.5, 0))
	assert.Equal(t, 0.0, Round(math.NaN(), 2))
	assert.Equal(t, 0.0, Round(math.Inf(1), 2))
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio(10, 1000, 100))
	assert.Equal(t, 2.5, Ratio(5, 2, 1))
	assert.Equal(t, 0.0, Ratio(5, 0, 100))
}

func TestGenerateID(t *testing.T) {
	id, err := GenerateID()
	assert.NoError(t, err)
	assert.Len(t, id, idLength)
	assert.Regexp(t, "^[a-z0-9]+$", id)
}
