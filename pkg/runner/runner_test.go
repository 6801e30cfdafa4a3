package runner

import (
	"context"
	"testing"

	"germseval/pkg/core"
	"germseval/pkg/model"

	"github.com/stretchr/testify/require"
)

// echoModel returns the prompt so tests can inspect what was built.
type echoModel struct{}

func (echoModel) Name() string { return "echo" }

func (echoModel) Generate(_ context.Context, prompt string, _ core.GenerateOptions) (core.Response, error) {
	return core.Response{Content: prompt}, nil
}

func TestZeroShotBuildsPrompt(t *testing.T) {
	z := ZeroShot{Model: echoModel{}}
	raw, _, err := z.Predict(context.Background(), core.Example{ID: "1", Text: "some tweet"})
	require.NoError(t, err)
	require.Equal(t, "1", raw.ID)
	require.Equal(t, core.SourceLLMText, raw.Source)
	require.Contains(t, raw.Text, "Tweet: some tweet")
	require.Contains(t, raw.Text, "Yes, sexist")
}

func TestZeroShotCustomTemplate(t *testing.T) {
	z := ZeroShot{Model: echoModel{}, PromptTemplate: "Classify: {{text}}"}
	raw, _, err := z.Predict(context.Background(), core.Example{ID: "1", Text: "abc"})
	require.NoError(t, err)
	require.Equal(t, "Classify: abc", raw.Text)
}

func TestZeroShotRequiresModel(t *testing.T) {
	_, _, err := ZeroShot{}.Predict(context.Background(), core.Example{ID: "1"})
	require.Error(t, err)
}

func TestFewShotIncludesShots(t *testing.T) {
	f := FewShot{
		Model: echoModel{},
		Selector: StaticShots{
			{Text: "offensive tweet", Sexist: true},
			{Text: "harmless tweet", Sexist: false},
		},
	}
	raw, _, err := f.Predict(context.Background(), core.Example{ID: "9", Text: "target tweet"})
	require.NoError(t, err)
	require.Contains(t, raw.Text, "Tweet: offensive tweet\nVerdict: Yes, sexist")
	require.Contains(t, raw.Text, "Tweet: harmless tweet\nVerdict: No, not sexist")
	require.Contains(t, raw.Text, "Tweet: target tweet")
}

type nearestByLabel struct{ shots []Shot }

func (n nearestByLabel) Select(core.Example) []Shot { return n.shots[:1] }

func TestFewShotUsesSelector(t *testing.T) {
	f := FewShot{
		Model:    echoModel{},
		Selector: nearestByLabel{shots: []Shot{{Text: "retrieved", Sexist: true}, {Text: "ignored"}}},
	}
	raw, _, err := f.Predict(context.Background(), core.Example{ID: "1", Text: "t"})
	require.NoError(t, err)
	require.Contains(t, raw.Text, "retrieved")
	require.NotContains(t, raw.Text, "ignored")
}

func TestStaticRunner(t *testing.T) {
	s := NewStatic("finetuned", map[string]core.RawPrediction{
		"1": {ID: "1", Source: core.SourceClassifierScore, Score: 0.8},
	})

	raw, _, err := s.Predict(context.Background(), core.Example{ID: "1"})
	require.NoError(t, err)
	require.Equal(t, 0.8, raw.Score)

	_, _, err = s.Predict(context.Background(), core.Example{ID: "2"})
	require.Error(t, err)
}

func TestZeroShotWithMockModel(t *testing.T) {
	z := ZeroShot{Model: model.MockModel{ResponseText: "Yes, sexist. The tweet demeans women."}}
	raw, resp, err := z.Predict(context.Background(), core.Example{ID: "1", Text: "t"})
	require.NoError(t, err)
	require.Equal(t, "Yes, sexist. The tweet demeans women.", raw.Text)
	require.Equal(t, raw.Text, resp.Content)
}
