package ml

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/rotisserie/eris"
)

// ErrModelNotFound is returned when the model artifact does not exist.
var ErrModelNotFound = eris.New("model not found")

type artifactHeader struct {
	ModelType string `json:"model_type"`
}

// LoadModel reads and decodes the artifact at path without caching.
func LoadModel(path string) (Regressor, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, eris.Wrapf(ErrModelNotFound, "open %s", path)
		}
		return nil, eris.Wrapf(err, "read model %s", path)
	}

	var header artifactHeader
	if err := json.Unmarshal(payload, &header); err != nil {
		return nil, eris.Wrap(err, "decode model header")
	}

	switch header.ModelType {
	case linearRegressionType:
		model := &LinearRegression{}
		if err := json.Unmarshal(payload, model); err != nil {
			return nil, eris.Wrap(err, "decode linear regression")
		}
		if err := model.validate(); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, eris.Errorf("unsupported model type %q", header.ModelType)
	}
}

// Loader memoizes models by path for the life of the process. Only
// successful loads are cached.
type Loader struct {
	mu     sync.Mutex
	models map[string]Regressor
	load   func(path string) (Regressor, error)
}

func NewLoader() *Loader {
	return &Loader{
		models: make(map[string]Regressor),
		load:   LoadModel,
	}
}

func (l *Loader) Load(path string) (Regressor, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if model, ok := l.models[path]; ok {
		return model, nil
	}
	model, err := l.load(path)
	if err != nil {
		return nil, err
	}
	l.models[path] = model
	return model, nil
}

// LoadedNotice is the message shown once a model is available.
func LoadedNotice(path string) string {
	return "Model loaded successfully from " + path + "!"
}

// FailureNotice renders a load error the way it is reported to the user.
func FailureNotice(path string, err error) string {
	if eris.Is(err, ErrModelNotFound) {
		return "Error: Model file not found at '" + path + "'. Please ensure the model file is in the configured location."
	}
	return "Error loading model: " + err.Error() + ". Please check your model file."
}
