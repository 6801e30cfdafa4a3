package core

import (
	"encoding/json"
	"fmt"
)

// SourceKind tags which methodology produced a raw prediction.
type SourceKind string

const (
	// SourceClassifierScore marks a numeric score from a fine-tuned classifier.
	SourceClassifierScore SourceKind = "classifier_score"
	// SourceLLMText marks a free-form completion from a prompted model.
	SourceLLMText SourceKind = "llm_text"
)

// RawPrediction is the unprocessed output for one example. Score carries
// the value for classifier_score sources, Text the completion for llm_text
// sources.
type RawPrediction struct {
	ID     string     `json:"id" yaml:"id"`
	Source SourceKind `json:"source" yaml:"source"`
	Score  float64    `json:"score,omitempty" yaml:"score,omitempty"`
	Text   string     `json:"text,omitempty" yaml:"text,omitempty"`
}

// Verdict is the canonical three-valued label a raw prediction normalizes
// to. Unknown is a valid terminal state for outputs that state no verdict.
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictSexist
	VerdictNotSexist
)

func (v Verdict) String() string {
	switch v {
	case VerdictSexist:
		return "sexist"
	case VerdictNotSexist:
		return "not_sexist"
	default:
		return "unknown"
	}
}

func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *Verdict) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "sexist":
		*v = VerdictSexist
	case "not_sexist":
		*v = VerdictNotSexist
	case "unknown":
		*v = VerdictUnknown
	default:
		return fmt.Errorf("core: invalid verdict %q", s)
	}
	return nil
}

// NormalizedPrediction pairs an example id with its canonical verdict.
type NormalizedPrediction struct {
	ID      string  `json:"id" yaml:"id"`
	Verdict Verdict `json:"verdict" yaml:"verdict"`
}
