// Package harness runs one methodology over a dataset: predict every
// example, normalize the raw outputs, align by id, and fold the pairs into
// a metric report.
package harness

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"germseval/pkg/align"
	"germseval/pkg/core"
	"germseval/pkg/metrics"
)

// Harness wires a dataset, a runner, and a normalizer into one evaluation
// run. Prediction fans out across Workers; normalization, alignment, and
// aggregation start only after every prediction has completed, keyed by
// example id rather than arrival order.
type Harness struct {
	Dataset       core.Dataset
	Runner        core.Runner
	Normalizer    core.Normalizer
	Workers       int
	RateLimiter   core.RateLimiter
	Progress      func(completed, total int)
	TotalExamples int
	Label         string
	Metadata      map[string]string
}

type outcome struct {
	id       string
	raw      core.RawPrediction
	response core.Response
	err      error
	duration time.Duration
}

// Run executes the evaluation and returns the run report. Any prediction
// failure, unsupported source kind, or id mismatch fails the whole run:
// a partial run would produce a meaningless score.
func (h *Harness) Run(ctx context.Context) (core.RunReport, error) {
	if h.Dataset == nil || h.Runner == nil || h.Normalizer == nil {
		return core.RunReport{}, errors.New("harness: dataset, runner, and normalizer are required")
	}

	workers := h.Workers
	if workers <= 0 {
		workers = 1
	}

	started := time.Now()
	exampleCh, errCh := h.Dataset.Examples(ctx)

	// A single reader keeps the dataset order; workers only see the work
	// channel, so reordering downstream cannot leak into the report.
	workCh := make(chan core.Example)
	var ordered []core.Example
	var datasetErr error
	var readerWG sync.WaitGroup
	readerWG.Add(1)
	go func() {
		defer readerWG.Done()
		defer close(workCh)
		for example := range exampleCh {
			ordered = append(ordered, example)
			select {
			case <-ctx.Done():
				return
			case workCh <- example:
			}
		}
		if err, ok := <-errCh; ok && err != nil {
			datasetErr = err
		}
	}()

	outcomeCh := make(chan outcome, workers)
	var workerWG sync.WaitGroup
	workerWG.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer workerWG.Done()
			for example := range workCh {
				if h.RateLimiter != nil {
					if err := h.RateLimiter.Wait(ctx); err != nil {
						outcomeCh <- outcome{id: example.ID, err: err}
						continue
					}
				}
				start := time.Now()
				raw, resp, err := h.Runner.Predict(ctx, example)
				outcomeCh <- outcome{
					id:       example.ID,
					raw:      raw,
					response: resp,
					err:      err,
					duration: time.Since(start),
				}
			}
		}()
	}

	go func() {
		workerWG.Wait()
		close(outcomeCh)
	}()

	// Join barrier: everything below runs only once all predictions are in.
	outcomes := make(map[string]outcome)
	for oc := range outcomeCh {
		outcomes[oc.id] = oc
		if h.Progress != nil {
			h.Progress(len(outcomes), h.TotalExamples)
		}
	}
	readerWG.Wait()

	if err := ctx.Err(); err != nil {
		return core.RunReport{}, err
	}
	if datasetErr != nil {
		return core.RunReport{}, datasetErr
	}

	raws := make([]core.RawPrediction, 0, len(outcomes))
	for _, example := range ordered {
		oc, ok := outcomes[example.ID]
		if !ok {
			continue
		}
		if oc.err != nil {
			return core.RunReport{}, fmt.Errorf("harness: prediction failed for example %q: %w", example.ID, oc.err)
		}
		raws = append(raws, oc.raw)
	}

	indexed, err := align.Raw(raws)
	if err != nil {
		return core.RunReport{}, err
	}

	normalized := make(map[string]core.NormalizedPrediction, len(indexed))
	for id, raw := range indexed {
		norm, err := h.Normalizer.Normalize(raw)
		if err != nil {
			return core.RunReport{}, err
		}
		normalized[id] = norm
	}

	pairs, err := align.Examples(ordered, normalized)
	if err != nil {
		return core.RunReport{}, err
	}

	counts := metrics.Fold(pairs)

	results := make([]core.ExampleResult, 0, len(pairs))
	var usage core.TokenUsage
	for _, pair := range pairs {
		oc := outcomes[pair.Example.ID]
		usage.Accumulate(oc.response.TokenUsage)
		results = append(results, core.ExampleResult{
			Example:  pair.Example,
			Raw:      oc.raw,
			Verdict:  pair.Prediction.Verdict,
			Response: oc.response,
			Duration: oc.duration,
		})
	}

	label := h.Label
	if label == "" {
		label = h.Runner.Name()
	}

	return core.RunReport{
		Label:      label,
		Dataset:    h.Dataset.Name(),
		RunnerName: h.Runner.Name(),
		Counts:     counts,
		Metrics:    metrics.Derive(counts),
		Results:    results,
		TokenUsage: usage,
		Metadata:   h.Metadata,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}, nil
}
