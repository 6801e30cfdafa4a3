package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"germseval/pkg/core"
)

// NoSexismLabel is the annotation label meaning "no sexism". Everything
// else on the corpus scale (1-Gering .. 4-Extrem) counts as sexist.
const NoSexismLabel = "0-Kein"

// Annotation is one annotator's label for a tweet.
type Annotation struct {
	User  string `json:"user"`
	Label string `json:"label"`
}

// AnnotatedRecord is a raw corpus record before gold aggregation.
type AnnotatedRecord struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Annotations []Annotation `json:"annotations"`
}

// GoldStrategy decides how multiple annotator labels collapse into one
// binary gold label.
type GoldStrategy string

const (
	// GoldMajority: sexist when the majority label differs from 0-Kein.
	// With no strict majority the first-seen most frequent label decides.
	GoldMajority GoldStrategy = "majority"
	// GoldOne: sexist when at least one annotator saw sexism.
	GoldOne GoldStrategy = "one"
	// GoldAll: sexist only when every annotator saw sexism.
	GoldAll GoldStrategy = "all"
)

// Gold applies the strategy to the record's annotations.
func (r AnnotatedRecord) Gold(strategy GoldStrategy) (bool, error) {
	if len(r.Annotations) == 0 {
		return false, fmt.Errorf("dataset: record %q has no annotations", r.ID)
	}

	switch strategy {
	case GoldMajority:
		counts := make(map[string]int, len(r.Annotations))
		for _, ann := range r.Annotations {
			counts[ann.Label]++
		}
		// Ties go to the label seen first in annotation order.
		majority := r.Annotations[0].Label
		for _, ann := range r.Annotations {
			if counts[ann.Label] > counts[majority] {
				majority = ann.Label
			}
		}
		return majority != NoSexismLabel, nil
	case GoldOne:
		for _, ann := range r.Annotations {
			if ann.Label != NoSexismLabel {
				return true, nil
			}
		}
		return false, nil
	case GoldAll:
		for _, ann := range r.Annotations {
			if ann.Label == NoSexismLabel {
				return false, nil
			}
		}
		return true, nil
	default:
		return false, fmt.Errorf("dataset: unknown gold strategy %q", strategy)
	}
}

// Example aggregates the record into a gold-labelled example.
func (r AnnotatedRecord) Example(strategy GoldStrategy) (core.Example, error) {
	gold, err := r.Gold(strategy)
	if err != nil {
		return core.Example{}, err
	}
	return core.Example{
		ID:        r.ID,
		Text:      scrubText(r.Text),
		GoldLabel: gold,
		Metadata:  map[string]string{"gold_strategy": string(strategy)},
	}, nil
}

// LoadAnnotated reads a JSONL corpus of annotated records and aggregates
// gold labels under the given strategy.
func LoadAnnotated(path string, strategy GoldStrategy) (*SliceDataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 1024*1024)

	var examples []core.Example
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record AnnotatedRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("dataset: %w", err)
		}
		example, err := record.Example(strategy)
		if err != nil {
			return nil, err
		}
		examples = append(examples, example)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return NewSliceDataset(examples, fmt.Sprintf("%s[%s]", file.Name(), strategy)), nil
}
