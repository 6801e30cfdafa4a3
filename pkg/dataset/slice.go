package dataset

import (
	"context"

	"germseval/pkg/core"
)

// SliceDataset serves an in-memory example slice; used by tests and by the
// annotated loader after gold aggregation.
type SliceDataset struct {
	NameHint string
	Items    []core.Example
}

func NewSliceDataset(examples []core.Example, name string) *SliceDataset {
	if name == "" {
		name = "memory"
	}
	return &SliceDataset{NameHint: name, Items: examples}
}

func (d *SliceDataset) Name() string {
	return d.NameHint
}

func (d *SliceDataset) Len(ctx context.Context) (int, error) {
	return len(d.Items), nil
}

func (d *SliceDataset) Examples(ctx context.Context) (<-chan core.Example, <-chan error) {
	exampleCh := make(chan core.Example)
	errCh := make(chan error, 1)
	go func() {
		defer close(exampleCh)
		defer close(errCh)
		for _, example := range d.Items {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case exampleCh <- example:
			}
		}
	}()
	return exampleCh, errCh
}
