package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBMI(t *testing.T) {
	bmi, err := CalculateBMI(170, 65)
	require.NoError(t, err)
	assert.InDelta(t, 22.49, bmi, 0.01)
}

func TestCalculateBMIRejectsGarbage(t *testing.T) {
	_, err := CalculateBMI(0, 65)
	assert.Error(t, err)
	_, err = CalculateBMI(170, 0)
	assert.Error(t, err)
	_, err = CalculateBMI(500, 65)
	assert.Error(t, err)
}

func TestBMICategory(t *testing.T) {
	assert.Equal(t, "Underweight", BMICategory(17))
	assert.Equal(t, "Normal weight", BMICategory(22))
	assert.Equal(t, "Overweight", BMICategory(27))
}
