package ml

import "gonum.org/v1/gonum/mat"

// Regressor is a loaded, read-only estimator. Predict returns one value per
// row of x.
type Regressor interface {
	Predict(x mat.Matrix) ([]float64, error)
}
