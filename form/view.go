package form

import (
	"strconv"

	"go.uber.org/zap"

	"profitpredict/ml"
)

// Outcome is the state a render cycle ends in.
type Outcome int

const (
	Idle Outcome = iota
	Computing
	Success
	Failure
)

func (o Outcome) String() string {
	switch o {
	case Idle:
		return "idle"
	case Computing:
		return "computing"
	case Success:
		return "success"
	case Failure:
		return "failure"
	}
	return "unknown"
}

const (
	// ComputingNotice is shown while a prediction request is in flight.
	ComputingNotice = "Calculating profit..."
	SuccessNotice   = "Prediction complete!"
	FailureHint     = "Please ensure the input values are correct and match the model's expectations."
)

// FieldView is a numeric input with its current value.
type FieldView struct {
	Field
	Value float64 `json:"value"`
}

// Display formats the value the way the input box shows it.
func (fv FieldView) Display() string {
	return strconv.FormatFloat(fv.Value, 'f', 2, 64)
}

// Summary is the assembled feature row shown before and after prediction.
type Summary struct {
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

// View is everything one render of the page needs.
type View struct {
	Fields     []FieldView `json:"fields"`
	States     []ml.State  `json:"states"`
	State      ml.State    `json:"state"`
	Summary    Summary     `json:"summary"`
	Outcome    Outcome     `json:"-"`
	Status     string      `json:"status"`
	Prediction float64     `json:"prediction,omitempty"`
	Result     string      `json:"result,omitempty"`
	Notice     string      `json:"notice,omitempty"`
	Error      string      `json:"error,omitempty"`
	Hint       string      `json:"hint,omitempty"`
	ModelInfo  string      `json:"model_info,omitempty"`
}

// Render runs one cycle: assemble the summary from inputs and, only when
// predict is set, query the model. It never returns an error; prediction
// failures end in the Failure outcome.
func Render(p *Predictor, inputs ml.Features, predict bool) View {
	inputs = Clamped(inputs)
	inputs.State = ParseState(string(inputs.State))

	view := View{
		States:  ml.States(),
		State:   inputs.State,
		Outcome: Idle,
	}
	for _, f := range Fields() {
		view.Fields = append(view.Fields, FieldView{Field: f, Value: fieldValue(inputs, f.Key)})
	}

	vector, err := inputs.Vector()
	if err != nil {
		return view.fail(err)
	}
	frame := ml.NewFrame(vector)
	view.Summary = Summary{Columns: frame.Columns, Values: frame.Row()}

	if !predict {
		return view.finish()
	}

	view.Outcome = Computing
	value, err := p.Predict(frame)
	if err != nil {
		zap.L().Warn("prediction failed", zap.Float64s("features", view.Summary.Values), zap.Error(err))
		return view.fail(err)
	}

	view.Outcome = Success
	view.Prediction = value
	view.Result = "Estimated Profit: " + FormatCurrency(value)
	view.Notice = SuccessNotice
	zap.L().Debug("prediction complete", zap.Float64s("features", view.Summary.Values), zap.Float64("profit", value))
	return view.finish()
}

func (v View) fail(err error) View {
	v.Outcome = Failure
	v.Error = "An error occurred during prediction: " + err.Error()
	v.Hint = FailureHint
	return v.finish()
}

func (v View) finish() View {
	v.Status = v.Outcome.String()
	return v
}
