package runner

import (
	"context"
	"fmt"
	"strings"

	"germseval/pkg/core"
)

// Shot is one labelled in-prompt example.
type Shot struct {
	Text   string
	Sexist bool
}

// ShotSelector picks the shots to prepend for a given example. The
// retrieval-augmented variants plug in here: a retrieval index selects the
// nearest labelled tweets per example. Index construction itself is the
// collaborator's concern, not this package's.
type ShotSelector interface {
	Select(example core.Example) []Shot
}

// StaticShots serves the same shot list for every example (plain few-shot).
type StaticShots []Shot

func (s StaticShots) Select(core.Example) []Shot { return s }

// FewShot prompts a model with labelled example tweets before the verdict
// question. With a retrieval-backed Selector this is the RAG methodology;
// with StaticShots it is plain few-shot prompting.
type FewShot struct {
	Model          core.Model
	Options        core.GenerateOptions
	Selector       ShotSelector
	PromptTemplate string
	ShotTemplate   string
	Separator      string
}

func (f FewShot) Name() string {
	if f.Model == nil {
		return "few-shot"
	}
	return "few-shot/" + f.Model.Name()
}

func (f FewShot) Predict(ctx context.Context, example core.Example) (core.RawPrediction, core.Response, error) {
	if f.Model == nil {
		return core.RawPrediction{}, core.Response{}, fmt.Errorf("runner: model is required")
	}
	if f.Selector == nil {
		return core.RawPrediction{}, core.Response{}, fmt.Errorf("runner: shot selector is required")
	}

	separator := f.Separator
	if separator == "" {
		separator = "\n\n"
	}
	shotTemplate := f.ShotTemplate
	if shotTemplate == "" {
		shotTemplate = "Tweet: {{text}}\nVerdict: {{verdict}}"
	}

	var parts []string
	for _, shot := range f.Selector.Select(example) {
		verdict := "No, not sexist"
		if shot.Sexist {
			verdict = "Yes, sexist"
		}
		parts = append(parts, applyTemplate(shotTemplate, map[string]string{
			"text":    shot.Text,
			"verdict": verdict,
		}))
	}

	template := f.PromptTemplate
	if template == "" {
		template = defaultVerdictPrompt
	}
	parts = append(parts, applyTemplate(template, map[string]string{"text": example.Text}))
	prompt := strings.Join(parts, separator)

	resp, err := f.Model.Generate(ctx, prompt, f.Options)
	if err != nil {
		return core.RawPrediction{}, core.Response{}, err
	}
	return core.RawPrediction{
		ID:     example.ID,
		Source: core.SourceLLMText,
		Text:   resp.Content,
	}, resp, nil
}
