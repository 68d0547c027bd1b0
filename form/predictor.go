package form

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"profitpredict/ml"
)

// Predictor runs the shared model behind a failure boundary. Results are
// memoized by feature vector; the model never changes after load so cached
// values stay valid.
type Predictor struct {
	model ml.Regressor
	cache *lru.Cache[ml.Vector, float64]
}

// NewPredictor wraps model. A cacheSize of zero or less disables the cache.
func NewPredictor(model ml.Regressor, cacheSize int) (*Predictor, error) {
	if model == nil {
		return nil, eris.New("predictor: model is required")
	}
	p := &Predictor{model: model}
	if cacheSize > 0 {
		cache, err := lru.New[ml.Vector, float64](cacheSize)
		if err != nil {
			return nil, eris.Wrap(err, "predictor: create cache")
		}
		p.cache = cache
	}
	return p, nil
}

// Predict returns the first model output for the frame. Model errors and
// panics are both returned as errors.
func (p *Predictor) Predict(frame *ml.Frame) (value float64, err error) {
	if p == nil || p.model == nil {
		return 0, eris.New("model not loaded")
	}
	if frame == nil || frame.Data == nil {
		return 0, eris.New("no input data")
	}
	key, cacheable := vectorKey(frame)
	cacheable = cacheable && p.cache != nil
	if cacheable {
		if cached, ok := p.cache.Get(key); ok {
			return cached, nil
		}
	}

	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("model panicked during prediction", zap.Any("panic", r))
			err = eris.Errorf("model panicked: %v", r)
		}
	}()

	out, err := p.model.Predict(frame.Data)
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, eris.New("model returned no predictions")
	}
	if cacheable {
		p.cache.Add(key, out[0])
	}
	return out[0], nil
}

// CacheLen reports how many predictions are memoized.
func (p *Predictor) CacheLen() int {
	if p.cache == nil {
		return 0
	}
	return p.cache.Len()
}

func vectorKey(frame *ml.Frame) (ml.Vector, bool) {
	var key ml.Vector
	row := frame.Row()
	if len(row) != len(key) {
		return key, false
	}
	copy(key[:], row)
	return key, true
}
