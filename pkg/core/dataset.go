package core

import "context"

// Dataset provides gold-labelled examples for evaluation.
type Dataset interface {
	Name() string
	Len(ctx context.Context) (int, error)
	Examples(ctx context.Context) (<-chan Example, <-chan error)
}
