package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOLS_ExactFit(t *testing.T) {
	// y = 2 + 3x, noiseless, so the fit must be exact with SSR 0.
	x := [][]float64{}
	y := []float64{}
	for i := 0; i < 10; i++ {
		xi := float64(i)
		x = append(x, []float64{1, xi})
		y = append(y, 2+3*xi)
	}

	res, err := OLS(y, x)
	require.NoError(t, err)
	require.Len(t, res.Coeffs, 2)

	assert.InDelta(t, 2.0, res.Coeffs[0], 1e-9)
	assert.InDelta(t, 3.0, res.Coeffs[1], 1e-9)
	assert.InDelta(t, 0.0, res.SSR, 1e-9)
	assert.Equal(t, 10, res.Nobs)
	assert.Equal(t, 2, res.NumParams)
}

func TestOLS_ResidualAndStdErr(t *testing.T) {
	// Four points around y = x with symmetric residuals.
	x := [][]float64{{1, 0}, {1, 1}, {1, 2}, {1, 3}}
	y := []float64{0.1, 0.9, 2.1, 2.9}

	res, err := OLS(y, x)
	require.NoError(t, err)

	assert.InDelta(t, 0.06, res.Coeffs[0], 1e-9)
	assert.InDelta(t, 0.96, res.Coeffs[1], 1e-9)
	assert.Greater(t, res.SSR, 0.0)
	for _, se := range res.StdErrs {
		assert.Greater(t, se, 0.0)
	}
}

func TestOLS_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		y    []float64
		x    [][]float64
	}{
		{name: "empty", y: nil, x: nil},
		{name: "length mismatch", y: []float64{1, 2}, x: [][]float64{{1}}},
		{name: "more params than rows", y: []float64{1, 2}, x: [][]float64{{1, 0, 0}, {1, 1, 1}}},
		{name: "ragged design", y: []float64{1, 2, 3}, x: [][]float64{{1, 0}, {1}, {1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OLS(tt.y, tt.x)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDegenerate)
		})
	}
}

func TestSimpleOLS_HedgeRatio(t *testing.T) {
	// y = 5 + 1.5x exactly.
	x := []float64{10, 20, 30, 40, 50}
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = 5 + 1.5*xi
	}

	alpha, beta := SimpleOLS(y, x)
	assert.InDelta(t, 5.0, alpha, 1e-9)
	assert.InDelta(t, 1.5, beta, 1e-9)
}
