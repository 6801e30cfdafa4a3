package core

import "time"

// ConfusionCounts accumulates the outcome of folding aligned
// (example, normalized prediction) pairs. Unresolved counts examples whose
// prediction carried no verdict; they never enter the other four buckets.
type ConfusionCounts struct {
	TruePositive  int `json:"true_positive" yaml:"true_positive"`
	FalsePositive int `json:"false_positive" yaml:"false_positive"`
	TrueNegative  int `json:"true_negative" yaml:"true_negative"`
	FalseNegative int `json:"false_negative" yaml:"false_negative"`
	Unresolved    int `json:"unresolved" yaml:"unresolved"`
}

// Add records one gold/verdict pair.
func (c *ConfusionCounts) Add(gold bool, verdict Verdict) {
	switch {
	case verdict == VerdictUnknown:
		c.Unresolved++
	case gold && verdict == VerdictSexist:
		c.TruePositive++
	case gold && verdict == VerdictNotSexist:
		c.FalseNegative++
	case !gold && verdict == VerdictSexist:
		c.FalsePositive++
	default:
		c.TrueNegative++
	}
}

// Resolved is the number of examples that received a definite verdict.
func (c ConfusionCounts) Resolved() int {
	return c.TruePositive + c.FalsePositive + c.TrueNegative + c.FalseNegative
}

// Total is the number of examples folded so far.
func (c ConfusionCounts) Total() int {
	return c.Resolved() + c.Unresolved
}

// MetricReport is the terminal output of the harness. Every field is
// always numeric: zero denominators degrade to 0 rather than NaN.
type MetricReport struct {
	Precision      float64 `json:"precision" yaml:"precision"`
	Recall         float64 `json:"recall" yaml:"recall"`
	F1             float64 `json:"f1" yaml:"f1"`
	Accuracy       float64 `json:"accuracy" yaml:"accuracy"`
	UnresolvedRate float64 `json:"unresolved_rate" yaml:"unresolved_rate"`
}

// ExampleResult captures the full trace for one example in a run.
type ExampleResult struct {
	Example  Example       `json:"example" yaml:"example"`
	Raw      RawPrediction `json:"raw" yaml:"raw"`
	Verdict  Verdict       `json:"verdict" yaml:"verdict"`
	Response Response      `json:"response,omitempty" yaml:"response,omitempty"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// RunReport summarizes one evaluation run of one methodology.
type RunReport struct {
	Label      string            `json:"label" yaml:"label"`
	Dataset    string            `json:"dataset" yaml:"dataset"`
	RunnerName string            `json:"runner_name" yaml:"runner_name"`
	Counts     ConfusionCounts   `json:"counts" yaml:"counts"`
	Metrics    MetricReport      `json:"metrics" yaml:"metrics"`
	Results    []ExampleResult   `json:"results,omitempty" yaml:"results,omitempty"`
	TokenUsage TokenUsage        `json:"token_usage" yaml:"token_usage"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	StartedAt  time.Time         `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time         `json:"finished_at" yaml:"finished_at"`
}
