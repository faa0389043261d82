package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSweep(t *testing.T) {
	values, err := parseSweep("0, 0.1,10", nil)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0.1, 10}, values)

	values, err = parseSweep("config", []float64{1, 2})
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, values)

	_, err = parseSweep("1,x", nil)
	require.Error(t, err)

	_, err = parseSweep("-1", nil)
	require.Error(t, err)
}
