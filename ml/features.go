package ml

import (
	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/mat"
)

const (
	FeatureRDSpend        = "R&D Spend"
	FeatureAdministration = "Administration"
	FeatureMarketingSpend = "Marketing Spend"
	FeatureStateEncoded   = "State_encoded"
)

// FeatureNames is the column order the model was trained on.
func FeatureNames() []string {
	return []string{FeatureRDSpend, FeatureAdministration, FeatureMarketingSpend, FeatureStateEncoded}
}

// State is a category label accepted by the model.
type State string

const (
	California State = "California"
	Florida    State = "Florida"
	NewYork    State = "New York"
)

var stateCodes = map[State]int{
	California: 0,
	Florida:    1,
	NewYork:    2,
}

// States returns the category labels in display order.
func States() []State {
	return []State{California, Florida, NewYork}
}

// EncodeState maps a label to its integer code.
func EncodeState(s State) (int, bool) {
	code, ok := stateCodes[s]
	return code, ok
}

// Features is one prediction request.
type Features struct {
	RDSpend        float64
	Administration float64
	MarketingSpend float64
	State          State
}

// Vector is the encoded request, ordered like FeatureNames.
type Vector [4]float64

func (f Features) Vector() (Vector, error) {
	code, ok := EncodeState(f.State)
	if !ok {
		return Vector{}, eris.Errorf("unknown state %q", f.State)
	}
	return Vector{f.RDSpend, f.Administration, f.MarketingSpend, float64(code)}, nil
}

// Frame is a single-row table with named columns.
type Frame struct {
	Columns []string
	Data    *mat.Dense
}

func NewFrame(v Vector) *Frame {
	row := make([]float64, len(v))
	copy(row, v[:])
	return &Frame{
		Columns: FeatureNames(),
		Data:    mat.NewDense(1, len(row), row),
	}
}

// Row returns a copy of the frame's only row.
func (f *Frame) Row() []float64 {
	return mat.Row(nil, 0, f.Data)
}
