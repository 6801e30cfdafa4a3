package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func record(labels ...string) AnnotatedRecord {
	rec := AnnotatedRecord{ID: "1", Text: "t"}
	for i, label := range labels {
		rec.Annotations = append(rec.Annotations, Annotation{User: string(rune('A' + i)), Label: label})
	}
	return rec
}

func TestGoldMajority(t *testing.T) {
	gold, err := record("0-Kein", "1-Gering", "1-Gering").Gold(GoldMajority)
	require.NoError(t, err)
	require.True(t, gold)

	gold, err = record("0-Kein", "0-Kein", "2-Vorhanden").Gold(GoldMajority)
	require.NoError(t, err)
	require.False(t, gold)

	// No strict majority: the first-seen most frequent label decides.
	gold, err = record("0-Kein", "3-Stark").Gold(GoldMajority)
	require.NoError(t, err)
	require.False(t, gold)

	gold, err = record("3-Stark", "0-Kein").Gold(GoldMajority)
	require.NoError(t, err)
	require.True(t, gold)
}

func TestGoldOne(t *testing.T) {
	gold, err := record("0-Kein", "0-Kein", "1-Gering").Gold(GoldOne)
	require.NoError(t, err)
	require.True(t, gold)

	gold, err = record("0-Kein", "0-Kein").Gold(GoldOne)
	require.NoError(t, err)
	require.False(t, gold)
}

func TestGoldAll(t *testing.T) {
	gold, err := record("1-Gering", "4-Extrem").Gold(GoldAll)
	require.NoError(t, err)
	require.True(t, gold)

	gold, err = record("1-Gering", "0-Kein").Gold(GoldAll)
	require.NoError(t, err)
	require.False(t, gold)
}

func TestGoldErrors(t *testing.T) {
	_, err := AnnotatedRecord{ID: "1"}.Gold(GoldMajority)
	require.Error(t, err)

	_, err = record("0-Kein").Gold("median")
	require.Error(t, err)
}

func TestLoadAnnotated(t *testing.T) {
	path := writeFile(t, "raw.jsonl",
		`{"id":"a1","text":"tweet\none","annotations":[{"user":"A","label":"1-Gering"},{"user":"B","label":"1-Gering"},{"user":"C","label":"0-Kein"}]}
{"id":"a2","text":"tweet two","annotations":[{"user":"A","label":"0-Kein"},{"user":"B","label":"0-Kein"},{"user":"C","label":"2-Vorhanden"}]}`)

	ds, err := LoadAnnotated(path, GoldMajority)
	require.NoError(t, err)

	examples, err := Collect(context.Background(), ds)
	require.NoError(t, err)
	require.Len(t, examples, 2)
	require.True(t, examples[0].GoldLabel)
	require.Equal(t, "tweet one", examples[0].Text)
	require.False(t, examples[1].GoldLabel)
	require.Equal(t, "majority", examples[1].Metadata["gold_strategy"])
}
