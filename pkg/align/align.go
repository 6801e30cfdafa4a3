// Package align zips examples with predictions by id rather than by
// position, so upstream reordering or retries cannot corrupt a run.
package align

import (
	"fmt"
	"sort"
	"strings"

	"germseval/pkg/core"
)

// Pair is one example matched with its normalized prediction.
type Pair struct {
	Example    core.Example
	Prediction core.NormalizedPrediction
}

// MismatchError reports id sets that do not line up. A misaligned run
// produces a meaningless score, so this aborts the whole evaluation.
type MismatchError struct {
	Missing   []string // example ids with no prediction
	Extra     []string // prediction ids with no example
	Duplicate []string // ids seen more than once on either side
}

func (e *MismatchError) Error() string {
	var parts []string
	if len(e.Duplicate) > 0 {
		parts = append(parts, fmt.Sprintf("duplicate ids %v", e.Duplicate))
	}
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("%d examples without predictions %v", len(e.Missing), e.Missing))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("%d predictions without examples %v", len(e.Extra), e.Extra))
	}
	return "align: " + strings.Join(parts, "; ")
}

// Examples pairs every example with the prediction carrying the same id.
// The output keeps the examples' original order. Any missing, extra, or
// duplicate id fails the run with a MismatchError; a missing prediction
// silently treated as a default verdict would corrupt the metric.
func Examples(examples []core.Example, predictions map[string]core.NormalizedPrediction) ([]Pair, error) {
	mismatch := &MismatchError{}

	seen := make(map[string]bool, len(examples))
	for _, ex := range examples {
		if seen[ex.ID] {
			mismatch.Duplicate = append(mismatch.Duplicate, ex.ID)
			continue
		}
		seen[ex.ID] = true
		if _, ok := predictions[ex.ID]; !ok {
			mismatch.Missing = append(mismatch.Missing, ex.ID)
		}
	}
	for id := range predictions {
		if !seen[id] {
			mismatch.Extra = append(mismatch.Extra, id)
		}
	}

	if len(mismatch.Missing) > 0 || len(mismatch.Extra) > 0 || len(mismatch.Duplicate) > 0 {
		sort.Strings(mismatch.Missing)
		sort.Strings(mismatch.Extra)
		sort.Strings(mismatch.Duplicate)
		return nil, mismatch
	}

	pairs := make([]Pair, 0, len(examples))
	for _, ex := range examples {
		pairs = append(pairs, Pair{Example: ex, Prediction: predictions[ex.ID]})
	}
	return pairs, nil
}

// Raw indexes raw predictions by id, rejecting duplicates. Use before
// normalization when predictions arrive as a sequence (e.g. from file).
func Raw(raws []core.RawPrediction) (map[string]core.RawPrediction, error) {
	out := make(map[string]core.RawPrediction, len(raws))
	var dup []string
	for _, raw := range raws {
		if _, ok := out[raw.ID]; ok {
			dup = append(dup, raw.ID)
			continue
		}
		out[raw.ID] = raw
	}
	if len(dup) > 0 {
		sort.Strings(dup)
		return nil, &MismatchError{Duplicate: dup}
	}
	return out, nil
}
