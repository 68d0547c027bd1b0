package ml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLinearRegressionPredict(t *testing.T) {
	model := &LinearRegression{
		Coefficients: []float64{2, 3, 0.5, 10},
		Intercept:    1,
	}

	x := mat.NewDense(2, 4, []float64{
		1, 1, 2, 0,
		0, 0, 0, 2,
	})
	got, err := model.Predict(x)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 7, got[0], 1e-9)
	assert.InDelta(t, 21, got[1], 1e-9)
}

func TestLinearRegressionPredictWidthMismatch(t *testing.T) {
	model := &LinearRegression{Coefficients: []float64{1, 2, 3, 4}}

	_, err := model.Predict(mat.NewDense(1, 3, []float64{1, 2, 3}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 4 features, got 3")
}

func TestLinearRegressionPredictOverflow(t *testing.T) {
	model := &LinearRegression{Coefficients: []float64{math.MaxFloat64}}

	_, err := model.Predict(mat.NewDense(1, 1, []float64{math.MaxFloat64}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-finite")
}

func TestLinearRegressionPredictNil(t *testing.T) {
	model := &LinearRegression{Coefficients: []float64{1}}

	_, err := model.Predict(nil)
	assert.Error(t, err)
}
