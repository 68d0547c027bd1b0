package ml

import (
	"math"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/mat"
)

const linearRegressionType = "linear_regression"

// LinearRegression is an ordinary least squares model fitted offline.
// FeatureNames records the training columns but is not checked against the
// caller's columns.
type LinearRegression struct {
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

func (lr *LinearRegression) Predict(x mat.Matrix) ([]float64, error) {
	if x == nil {
		return nil, eris.New("linear regression: no input rows")
	}
	rows, cols := x.Dims()
	if cols != len(lr.Coefficients) {
		return nil, eris.Errorf("linear regression: model expects %d features, got %d", len(lr.Coefficients), cols)
	}

	coef := mat.NewVecDense(len(lr.Coefficients), lr.Coefficients)
	var out mat.VecDense
	out.MulVec(x, coef)

	predictions := make([]float64, rows)
	for i := 0; i < rows; i++ {
		value := out.AtVec(i) + lr.Intercept
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, eris.Errorf("linear regression: non-finite prediction for row %d", i)
		}
		predictions[i] = value
	}
	return predictions, nil
}

func (lr *LinearRegression) validate() error {
	if len(lr.Coefficients) == 0 {
		return eris.New("linear regression: no coefficients")
	}
	if len(lr.FeatureNames) != 0 && len(lr.FeatureNames) != len(lr.Coefficients) {
		return eris.Errorf("linear regression: %d feature names for %d coefficients", len(lr.FeatureNames), len(lr.Coefficients))
	}
	for i, c := range lr.Coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return eris.Errorf("linear regression: coefficient %d is not finite", i)
		}
	}
	if math.IsNaN(lr.Intercept) || math.IsInf(lr.Intercept, 0) {
		return eris.New("linear regression: intercept is not finite")
	}
	return nil
}
