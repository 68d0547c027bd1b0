package form

import (
	"errors"
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"profitpredict/ml"
)

type fakeModel struct {
	out   []float64
	err   error
	panic any
	calls int
}

func (f *fakeModel) Predict(x mat.Matrix) ([]float64, error) {
	f.calls++
	if f.panic != nil {
		panic(f.panic)
	}
	return f.out, f.err
}

func newPredictor(t *testing.T, model ml.Regressor, size int) *Predictor {
	t.Helper()
	p, err := NewPredictor(model, size)
	require.NoError(t, err)
	return p
}

func TestFieldBounds(t *testing.T) {
	fields := Fields()
	require.Len(t, fields, 3)

	maxes := map[string]float64{KeyRDSpend: 200000, KeyAdministration: 200000, KeyMarketingSpend: 500000}
	for _, f := range fields {
		assert.Equal(t, 0.0, f.Min, f.Key)
		assert.Equal(t, maxes[f.Key], f.Max, f.Key)
		assert.Equal(t, 1000.0, f.Step, f.Key)

		assert.Equal(t, f.Min, f.Parse("-5"), f.Key)
		assert.Equal(t, f.Max, f.Parse("999999999"), f.Key)
		assert.Equal(t, f.Max, f.Parse("+Inf"), f.Key)
		assert.Equal(t, f.Default, f.Parse("NaN"), f.Key)
		assert.Equal(t, f.Default, f.Parse("abc"), f.Key)
		assert.Equal(t, f.Default, f.Parse(""), f.Key)
		assert.Equal(t, 1500.5, f.Parse(" 1,500.50 "), f.Key)
	}
}

func TestFieldParseOverflowClamps(t *testing.T) {
	for _, f := range Fields() {
		assert.Equal(t, f.Max, f.Parse("1e400"), f.Key)
		assert.Equal(t, f.Min, f.Parse("-1e400"), f.Key)
		assert.Equal(t, 0.0, f.Parse("1e-400"), f.Key)
		assert.Equal(t, f.Default, f.Parse("1e4x"), f.Key)
	}
}

func TestParse(t *testing.T) {
	values := url.Values{}
	values.Set(KeyRDSpend, "73721.62")
	values.Set(KeyAdministration, "121344.64")
	values.Set(KeyMarketingSpend, "211025.10")
	values.Set(KeyState, "New York")

	got := Parse(values)
	assert.Equal(t, ml.Features{
		RDSpend:        73721.62,
		Administration: 121344.64,
		MarketingSpend: 211025.10,
		State:          ml.NewYork,
	}, got)

	assert.Equal(t, ml.California, ParseState("Nevada"))
	assert.Equal(t, ml.Florida, ParseState("Florida"))
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, 73721.62, d.RDSpend)
	assert.Equal(t, 121344.64, d.Administration)
	assert.Equal(t, 211025.10, d.MarketingSpend)
	assert.Equal(t, ml.California, d.State)
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{192261.83, "$192,261.83"},
		{0, "$0.00"},
		{999.999, "$1,000.00"},
		{1234567.891, "$1,234,567.89"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.in))
	}
}

func TestRenderWithoutPredict(t *testing.T) {
	model := &fakeModel{out: []float64{1}}
	view := Render(newPredictor(t, model, 0), Defaults(), false)

	assert.Equal(t, Idle, view.Outcome)
	assert.Equal(t, "idle", view.Status)
	assert.Equal(t, ml.FeatureNames(), view.Summary.Columns)
	assert.Len(t, view.Summary.Values, 4)
	assert.Empty(t, view.Result)
	assert.Zero(t, model.calls)
}

func TestRenderAssemblesReferenceVector(t *testing.T) {
	model := &fakeModel{out: []float64{192261.83}}
	inputs := ml.Features{RDSpend: 73721.62, Administration: 121344.64, MarketingSpend: 211025.10, State: ml.NewYork}

	view := Render(newPredictor(t, model, 8), inputs, true)

	assert.Equal(t, []float64{73721.62, 121344.64, 211025.10, 2}, view.Summary.Values)
	assert.Equal(t, Success, view.Outcome)
	assert.Equal(t, "Estimated Profit: $192,261.83", view.Result)
	assert.Equal(t, SuccessNotice, view.Notice)
	assert.Empty(t, view.Error)
}

func TestRenderClampsOutOfRangeInputs(t *testing.T) {
	inputs := ml.Features{RDSpend: -1, Administration: 1e9, MarketingSpend: 1e9, State: "Atlantis"}

	view := Render(newPredictor(t, &fakeModel{out: []float64{1}}, 0), inputs, false)

	assert.Equal(t, []float64{0, 200000, 500000, 0}, view.Summary.Values)
	assert.Equal(t, ml.California, view.State)
}

func TestRenderPredictionFailure(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModel
		want  string
	}{
		{"error", &fakeModel{err: errors.New("schema mismatch")}, "schema mismatch"},
		{"panic", &fakeModel{panic: "index out of range"}, "index out of range"},
		{"empty output", &fakeModel{}, "no predictions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var view View
			require.NotPanics(t, func() {
				view = Render(newPredictor(t, tt.model, 8), Defaults(), true)
			})

			assert.Equal(t, Failure, view.Outcome)
			assert.Contains(t, view.Error, "An error occurred during prediction: ")
			assert.Contains(t, view.Error, tt.want)
			assert.Equal(t, FailureHint, view.Hint)
			assert.Empty(t, view.Result)
			assert.Len(t, view.Summary.Values, 4)
		})
	}
}

func TestRenderNilPredictor(t *testing.T) {
	view := Render(nil, Defaults(), true)
	assert.Equal(t, Failure, view.Outcome)
	assert.Contains(t, view.Error, "model not loaded")
}

func TestPredictorCache(t *testing.T) {
	model := &fakeModel{out: []float64{42}}
	p := newPredictor(t, model, 2)

	frame := ml.NewFrame(ml.Vector{1, 2, 3, 0})
	for i := 0; i < 3; i++ {
		v, err := p.Predict(frame)
		require.NoError(t, err)
		assert.Equal(t, 42.0, v)
	}
	assert.Equal(t, 1, model.calls)
	assert.Equal(t, 1, p.CacheLen())
}

func TestPredictorDoesNotCacheFailures(t *testing.T) {
	model := &fakeModel{err: errors.New("boom")}
	p := newPredictor(t, model, 2)
	frame := ml.NewFrame(ml.Vector{1, 2, 3, 0})

	_, err := p.Predict(frame)
	require.Error(t, err)

	model.err = nil
	model.out = []float64{math.Pi}
	v, err := p.Predict(frame)
	require.NoError(t, err)
	assert.Equal(t, math.Pi, v)
	assert.Equal(t, 2, model.calls)
}

func TestNewPredictorRequiresModel(t *testing.T) {
	_, err := NewPredictor(nil, 1)
	assert.Error(t, err)
}
