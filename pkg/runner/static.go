package runner

import (
	"context"
	"fmt"

	"germseval/pkg/core"
)

// Static serves precomputed predictions indexed by example id: exported
// classifier scores or completions saved by an earlier run. This is the
// offline path; the harness runs strictly after the predictions exist.
type Static struct {
	NameValue   string
	Predictions map[string]core.RawPrediction
}

func NewStatic(name string, predictions map[string]core.RawPrediction) Static {
	if name == "" {
		name = "static"
	}
	return Static{NameValue: name, Predictions: predictions}
}

func (s Static) Name() string {
	return s.NameValue
}

func (s Static) Predict(_ context.Context, example core.Example) (core.RawPrediction, core.Response, error) {
	prediction, ok := s.Predictions[example.ID]
	if !ok {
		return core.RawPrediction{}, core.Response{}, fmt.Errorf("runner: no prediction for example %q", example.ID)
	}
	return prediction, core.Response{}, nil
}
