// internal/sentiment/model.go

// Package sentiment wraps a pretrained multilingual sentiment model stored as
// a weighted-lexicon file on disk. Inference is pure in-process computation.
package sentiment

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode"
)

var (
	ErrModelUnavailable = errors.New("MODEL_UNAVAILABLE")
	ErrModelOutput      = errors.New("MODEL_OUTPUT_INVALID")
)

// modelFile is the on-disk serialization of a pretrained model.
type modelFile struct {
	Name    string               `json:"name"`
	Version string               `json:"version"`
	Labels  []string             `json:"labels"`
	Bias    []float64            `json:"bias"`
	Weights map[string][]float64 `json:"weights"`
}

// Model is a loaded sentiment model. Read-only after load, safe for
// concurrent use.
type Model struct {
	name    string
	version string
	labels  []string
	bias    []float64
	weights map[string][]float64
}

// Prediction is the model's native output: a label from the model's own
// label space plus a confidence score.
type Prediction struct {
	Label string
	Score float64
}

// LoadModel reads and validates a model weights file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model weights: %w", err)
	}

	var mf modelFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse model weights: %w", err)
	}

	if len(mf.Labels) == 0 {
		return nil, fmt.Errorf("model %s declares no labels", path)
	}
	if len(mf.Bias) != len(mf.Labels) {
		return nil, fmt.Errorf("model %s: bias length %d does not match %d labels", path, len(mf.Bias), len(mf.Labels))
	}
	for token, w := range mf.Weights {
		if len(w) != len(mf.Labels) {
			return nil, fmt.Errorf("model %s: token %q has %d weights for %d labels", path, token, len(w), len(mf.Labels))
		}
	}

	return &Model{
		name:    mf.Name,
		version: mf.Version,
		labels:  mf.Labels,
		bias:    mf.Bias,
		weights: mf.Weights,
	}, nil
}

// Name returns the model identifier from the weights file.
func (m *Model) Name() string { return m.name }

// Predict scores the text against every label and returns the best one with
// a softmax confidence.
func (m *Model) Predict(text string) Prediction {
	scores := make([]float64, len(m.labels))
	copy(scores, m.bias)

	for _, token := range tokenize(text) {
		if w, ok := m.weights[token]; ok {
			for i := range scores {
				scores[i] += w[i]
			}
		}
	}

	best := 0
	for i := range scores {
		if scores[i] > scores[best] {
			best = i
		}
	}

	var expSum float64
	for _, s := range scores {
		expSum += math.Exp(s - scores[best])
	}

	return Prediction{
		Label: m.labels[best],
		Score: 1 / expSum,
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
