package core

import "context"

// Runner produces one raw prediction per example. Implementations cover
// the compared methodologies: prompted LLM runs produce llm_text
// predictions, precomputed classifier runs serve classifier_score
// predictions from file.
type Runner interface {
	Name() string
	// Predict returns the raw prediction for one example plus provider
	// telemetry; runners that do not call a model return a zero Response.
	Predict(ctx context.Context, example Example) (RawPrediction, Response, error)
}

// Normalizer maps a raw prediction to its canonical verdict. Must be pure:
// the same raw prediction always yields the same normalized prediction.
type Normalizer interface {
	Normalize(raw RawPrediction) (NormalizedPrediction, error)
}
