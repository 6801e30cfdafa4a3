package runner

import (
	"context"
	"fmt"

	"germseval/pkg/core"
)

const defaultVerdictPrompt = `You are annotating German tweets for sexism.
Does the following tweet contain sexism? Start your reply with exactly "Yes, sexist" or "No, not sexist", then justify briefly.
Tweet: {{text}}
Verdict:`

// ZeroShot prompts a model for a verdict with no in-prompt examples. The
// completion is returned untouched as an llm_text raw prediction; verdict
// extraction is the normalizer's job.
type ZeroShot struct {
	Model          core.Model
	Options        core.GenerateOptions
	PromptTemplate string
}

func (z ZeroShot) Name() string {
	if z.Model == nil {
		return "zero-shot"
	}
	return "zero-shot/" + z.Model.Name()
}

func (z ZeroShot) Predict(ctx context.Context, example core.Example) (core.RawPrediction, core.Response, error) {
	if z.Model == nil {
		return core.RawPrediction{}, core.Response{}, fmt.Errorf("runner: model is required")
	}

	template := z.PromptTemplate
	if template == "" {
		template = defaultVerdictPrompt
	}
	prompt := applyTemplate(template, map[string]string{"text": example.Text})

	resp, err := z.Model.Generate(ctx, prompt, z.Options)
	if err != nil {
		return core.RawPrediction{}, core.Response{}, err
	}
	return core.RawPrediction{
		ID:     example.ID,
		Source: core.SourceLLMText,
		Text:   resp.Content,
	}, resp, nil
}
