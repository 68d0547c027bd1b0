// Package form holds the input widgets of the profit form and the per-request
// render cycle that turns their values into a prediction.
package form

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"profitpredict/ml"
)

// Field describes a bounded numeric input.
type Field struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Column  string  `json:"column"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

const (
	KeyRDSpend        = "rd_spend"
	KeyAdministration = "admin_spend"
	KeyMarketingSpend = "marketing_spend"
	KeyState          = "state"
	KeyPredict        = "predict"
)

// Fields returns the numeric inputs in display order.
func Fields() []Field {
	return []Field{
		{Key: KeyRDSpend, Label: "R&D Spend (in USD)", Column: ml.FeatureRDSpend, Min: 0, Max: 200000, Default: 73721.62, Step: 1000},
		{Key: KeyAdministration, Label: "Administration Spend (in USD)", Column: ml.FeatureAdministration, Min: 0, Max: 200000, Default: 121344.64, Step: 1000},
		{Key: KeyMarketingSpend, Label: "Marketing Spend (in USD)", Column: ml.FeatureMarketingSpend, Min: 0, Max: 500000, Default: 211025.10, Step: 1000},
	}
}

// Clamp keeps v inside the field bounds.
func (f Field) Clamp(v float64) float64 {
	if v < f.Min {
		return f.Min
	}
	if v > f.Max {
		return f.Max
	}
	return v
}

// Parse reads a raw widget value. Empty or malformed input keeps the default;
// out-of-range numbers, including ones too large for a float64, are clamped.
func (f Field) Parse(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return f.Default
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return f.Default
	}
	if math.IsNaN(v) {
		return f.Default
	}
	return f.Clamp(v)
}

// Values is satisfied by url.Values.
type Values interface {
	Get(key string) string
}

// Raw adapts a plain map, as sent over the live channel.
type Raw map[string]string

func (r Raw) Get(key string) string { return r[key] }

// DefaultState is the preselected category.
const DefaultState = ml.California

// ParseState accepts only the known labels and falls back to DefaultState.
func ParseState(raw string) ml.State {
	s := ml.State(strings.TrimSpace(raw))
	if _, ok := ml.EncodeState(s); ok {
		return s
	}
	return DefaultState
}

// Parse builds the current widget state from submitted values.
func Parse(values Values) ml.Features {
	fields := Fields()
	return ml.Features{
		RDSpend:        fields[0].Parse(values.Get(fields[0].Key)),
		Administration: fields[1].Parse(values.Get(fields[1].Key)),
		MarketingSpend: fields[2].Parse(values.Get(fields[2].Key)),
		State:          ParseState(values.Get(KeyState)),
	}
}

// Defaults is the widget state of a fresh page.
func Defaults() ml.Features {
	return Parse(Raw{})
}

// Clamped applies the field bounds to already numeric input.
func Clamped(f ml.Features) ml.Features {
	fields := Fields()
	f.RDSpend = fields[0].Clamp(f.RDSpend)
	f.Administration = fields[1].Clamp(f.Administration)
	f.MarketingSpend = fields[2].Clamp(f.MarketingSpend)
	return f
}

func fieldValue(f ml.Features, key string) float64 {
	switch key {
	case KeyRDSpend:
		return f.RDSpend
	case KeyAdministration:
		return f.Administration
	case KeyMarketingSpend:
		return f.MarketingSpend
	}
	return 0
}
